// internal/receipt/model.go
package receipt

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the payment code attached to a sale. Empty means not informed.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentPix    PaymentMethod = "pix"
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
)

// Company is the store profile printed in the receipt header
type Company struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
	Address string `json:"address,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
}

// SaleItem is one line of a finished sale
type SaleItem struct {
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    int             `json:"quantity" binding:"min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Sale is the finished transaction handed over by the checkout
type Sale struct {
	ID            string          `json:"id" binding:"required"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []SaleItem      `json:"items" binding:"dive"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method,omitempty"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
}

// Line is a normalized sale item with its display strings
type Line struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`

	Label     string `json:"label"`      // "2x Widget"
	UnitText  string `json:"unit_text"`  // "R$ 10,00"
	TotalText string `json:"total_text"` // "R$ 20,00"
}

// Record is the transport-agnostic receipt built once per print request.
// It is never mutated after Build returns.
type Record struct {
	Company Company `json:"company"`

	SaleID    string    `json:"sale_id"`
	CreatedAt time.Time `json:"created_at"`
	DateText  string    `json:"date_text"`

	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone,omitempty"`

	Lines []Line `json:"lines"`

	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	SubtotalText string          `json:"subtotal_text"`
	DiscountText string          `json:"discount_text"`
	TotalText    string          `json:"total_text"`

	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	PaymentLabel  string        `json:"payment_label"`

	ShowLogo bool `json:"show_logo"`
}

// HasDiscount reports whether a discount line should be printed. A negative
// discount (total above subtotal) is printed as well.
func (r *Record) HasDiscount() bool {
	return !r.Discount.Round(2).IsZero()
}

// DiscountLine is the signed amount shown on the discount line
func (r *Record) DiscountLine() string {
	return FormatDeduction(r.Discount)
}

// HasLogo reports whether the markup should carry the company logo
func (r *Record) HasLogo() bool {
	return r.ShowLogo && r.Company.LogoURL != ""
}
