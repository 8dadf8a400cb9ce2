// internal/render/text.go
package render

import (
	"strings"

	"receipt-service/internal/driver/escpos"
	"receipt-service/internal/receipt"
)

const textDivider = "--------------------------------"

// PlainText renders a record for messaging hand-off. Bold markers use the
// asterisk convention understood by chat apps. Section order matches the
// printed receipt and must stay stable for copy/paste consumers.
func PlainText(record *receipt.Record) string {
	if record == nil {
		return ""
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line("*" + record.Company.Name + "*")
	if record.Company.TaxID != "" {
		line("CNPJ: " + record.Company.TaxID)
	}
	if record.Company.Address != "" {
		line(record.Company.Address)
	}
	if record.Company.Phone != "" {
		line("Tel: " + record.Company.Phone)
	}
	line(textDivider)

	if record.DateText != "" {
		line("Data: " + record.DateText)
	}
	line("Venda: #" + record.SaleID)
	line(textDivider)

	line("Cliente: " + record.CustomerName)
	if record.CustomerPhone != "" {
		line("Tel: " + record.CustomerPhone)
	}
	line(textDivider)

	line("*ITENS*")
	for _, l := range record.Lines {
		line(l.Label)
		line("   " + l.UnitText + " un = " + l.TotalText)
	}
	line(textDivider)

	line("Subtotal: " + record.SubtotalText)
	if record.HasDiscount() {
		line("Desconto: " + record.DiscountLine())
	}
	line("*TOTAL: " + record.TotalText + "*")
	line(textDivider)

	line("Pagamento: " + record.PaymentLabel)
	line(textDivider)

	for i, f := range escpos.Footer {
		if i == len(escpos.Footer)-1 {
			b.WriteString(f)
			break
		}
		line(f)
	}

	return b.String()
}
