// internal/driver/escpos/receipt.go
package escpos

import (
	"receipt-service/internal/receipt"
)

// Footer lines printed at the end of every receipt
var Footer = []string{"Obrigado pela preferência!", "Volte sempre!"}

// EncodeReceipt lays out a record as an ESC/POS job. The returned encoder is not
// built yet so callers can append a cut or a drawer kick before Build.
//
// Section order: header, date and sale id, customer, items, totals, payment, footer.
// The markup and text renderers follow the same order.
func EncodeReceipt(record *receipt.Record, profile receipt.PaperProfile) *Encoder {
	e := NewEncoder(profile).Init()

	// Header
	e.Align(AlignCenter).
		Emphasis(true).
		Size(SizeDoubleHeight).
		Line(record.Company.Name).
		Size(SizeNormal).
		Emphasis(false)
	if record.Company.TaxID != "" {
		e.Line("CNPJ: " + record.Company.TaxID)
	}
	if record.Company.Address != "" {
		e.Line(record.Company.Address)
	}
	if record.Company.Phone != "" {
		e.Line("Tel: " + record.Company.Phone)
	}
	e.Divider('-')

	// Date and sale id
	e.Align(AlignLeft)
	if record.DateText != "" {
		e.Columns("Data:", record.DateText)
	}
	e.Columns("Venda:", "#"+record.SaleID)
	e.Divider('-')

	// Customer
	e.Line("Cliente: " + record.CustomerName)
	if record.CustomerPhone != "" {
		e.Line("Tel: " + record.CustomerPhone)
	}
	e.Divider('-')

	// Items
	e.Emphasis(true).Line("ITENS").Emphasis(false)
	for _, line := range record.Lines {
		e.Line(line.Label)
		e.Columns("  "+line.UnitText+" un", line.TotalText)
	}
	e.Divider('-')

	// Totals
	e.Columns("Subtotal", record.SubtotalText)
	if record.HasDiscount() {
		e.Columns("Desconto", record.DiscountLine())
	}
	e.Emphasis(true).Columns("TOTAL", record.TotalText).Emphasis(false)
	e.Divider('-')

	// Payment
	e.Columns("Pagamento:", record.PaymentLabel)
	e.DoubleDivider()

	// Footer
	e.Align(AlignCenter)
	for _, line := range Footer {
		e.Line(line)
	}
	e.Align(AlignLeft)

	return e
}
