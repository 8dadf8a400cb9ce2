// internal/receipt/builder.go
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	WalkInCustomerLabel = "Consumidor Final"
	NotInformedLabel    = "Não informado"

	dateLayout = "02/01/2006 15:04"
)

var paymentLabels = map[PaymentMethod]string{
	PaymentCash:   "Dinheiro",
	PaymentPix:    "PIX",
	PaymentCredit: "Cartão de Crédito",
	PaymentDebit:  "Cartão de Débito",
}

// Options tune how a record is built
type Options struct {
	ShowLogo bool
	// Location used to print the sale date. Nil keeps the timestamp's own location.
	Location *time.Location
}

// Build normalizes a sale and company into a Record. It performs no I/O and never fails:
// missing optional data falls back to display placeholders.
func Build(sale Sale, company Company, opts Options) *Record {
	createdAt := sale.CreatedAt
	if opts.Location != nil && !createdAt.IsZero() {
		createdAt = createdAt.In(opts.Location)
	}

	record := &Record{
		Company:       normalizeCompany(company),
		SaleID:        strings.TrimSpace(sale.ID),
		CreatedAt:     createdAt,
		CustomerName:  strings.TrimSpace(sale.CustomerName),
		CustomerPhone: strings.TrimSpace(sale.CustomerPhone),
		Subtotal:      sale.Subtotal,
		Total:         sale.Total,
		PaymentMethod: sale.PaymentMethod,
		PaymentLabel:  PaymentLabel(sale.PaymentMethod),
		ShowLogo:      opts.ShowLogo,
	}

	if record.CustomerName == "" {
		record.CustomerName = WalkInCustomerLabel
	}
	if !createdAt.IsZero() {
		record.DateText = createdAt.Format(dateLayout)
	}

	record.Lines = make([]Line, 0, len(sale.Items))
	for _, item := range sale.Items {
		record.Lines = append(record.Lines, buildLine(item))
	}

	record.Discount = ConsolidateDiscount(sale.Subtotal, sale.Total, sale.Discount)
	record.SubtotalText = FormatCurrency(record.Subtotal)
	record.DiscountText = FormatCurrency(record.Discount)
	record.TotalText = FormatCurrency(record.Total)

	return record
}

// ConsolidateDiscount picks the discount to display: an explicit positive discount wins,
// otherwise the gap between subtotal and total, otherwise zero. Display only.
func ConsolidateDiscount(subtotal, total, explicit decimal.Decimal) decimal.Decimal {
	if explicit.IsPositive() {
		return explicit
	}
	if !subtotal.Equal(total) {
		return subtotal.Sub(total)
	}
	return decimal.Zero
}

// PaymentLabel returns the printed label of a payment code
func PaymentLabel(method PaymentMethod) string {
	code := PaymentMethod(strings.ToLower(strings.TrimSpace(string(method))))
	if code == "" {
		return NotInformedLabel
	}
	if label, ok := paymentLabels[code]; ok {
		return label
	}
	return strings.ToUpper(string(code))
}

func buildLine(item SaleItem) Line {
	name := strings.TrimSpace(item.ProductName)
	return Line{
		Name:      name,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		LineTotal: item.LineTotal,
		Label:     fmt.Sprintf("%dx %s", item.Quantity, name),
		UnitText:  FormatCurrency(item.UnitPrice),
		TotalText: FormatCurrency(item.LineTotal),
	}
}

func normalizeCompany(company Company) Company {
	company.Name = strings.TrimSpace(company.Name)
	company.Phone = strings.TrimSpace(company.Phone)
	company.TaxID = strings.TrimSpace(company.TaxID)
	company.Address = strings.TrimSpace(company.Address)
	company.LogoURL = strings.TrimSpace(company.LogoURL)
	return company
}
