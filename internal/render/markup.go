// internal/render/markup.go
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"receipt-service/internal/driver/escpos"
	"receipt-service/internal/receipt"
)

// Helper functions for the receipt template
var templateFuncs = template.FuncMap{
	"deduction": receipt.FormatDeduction,
}

// receiptTemplate follows the section order of escpos.EncodeReceipt
var receiptTemplate = template.Must(template.New("receipt").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Venda #{{.Record.SaleID}}</title>
<style>
  @page { size: {{.Width}}px auto; margin: 0; }
  body { width: {{.Width}}px; margin: 0 auto; padding: 8px; font-family: "Courier New", monospace; font-size: 12px; color: #000; }
  .center { text-align: center; }
  .bold { font-weight: bold; }
  .title { font-size: 16px; font-weight: bold; }
  .logo { max-width: 80%; max-height: 80px; }
  .row { display: flex; justify-content: space-between; }
  .item-detail { padding-left: 12px; }
  hr { border: none; border-top: 1px dashed #000; margin: 6px 0; }
  hr.double { border-top: 3px double #000; }
</style>
</head>
<body>
<section class="header center">
  {{- if .Record.HasLogo}}
  <img class="logo" src="{{.Record.Company.LogoURL}}" alt="{{.Record.Company.Name}}">
  {{- end}}
  <div class="title">{{.Record.Company.Name}}</div>
  {{- with .Record.Company.TaxID}}
  <div>CNPJ: {{.}}</div>
  {{- end}}
  {{- with .Record.Company.Address}}
  <div>{{.}}</div>
  {{- end}}
  {{- with .Record.Company.Phone}}
  <div>Tel: {{.}}</div>
  {{- end}}
</section>
<hr>
<section class="sale">
  {{- with .Record.DateText}}
  <div class="row"><span>Data:</span><span>{{.}}</span></div>
  {{- end}}
  <div class="row"><span>Venda:</span><span>#{{.Record.SaleID}}</span></div>
</section>
<hr>
<section class="customer">
  <div>Cliente: {{.Record.CustomerName}}</div>
  {{- with .Record.CustomerPhone}}
  <div>Tel: {{.}}</div>
  {{- end}}
</section>
<hr>
<section class="items">
  <div class="bold">ITENS</div>
  {{- range .Record.Lines}}
  <div class="item">
    <div>{{.Label}}</div>
    <div class="row item-detail"><span>{{.UnitText}} un</span><span>{{.TotalText}}</span></div>
  </div>
  {{- end}}
</section>
<hr>
<section class="totals">
  <div class="row"><span>Subtotal</span><span>{{.Record.SubtotalText}}</span></div>
  {{- if .Record.HasDiscount}}
  <div class="row"><span>Desconto</span><span>{{deduction .Record.Discount}}</span></div>
  {{- end}}
  <div class="row bold"><span>TOTAL</span><span>{{.Record.TotalText}}</span></div>
</section>
<hr>
<section class="payment">
  <div class="row"><span>Pagamento:</span><span>{{.Record.PaymentLabel}}</span></div>
</section>
<hr class="double">
<section class="footer center">
  {{- range .Footer}}
  <div>{{.}}</div>
  {{- end}}
</section>
</body>
</html>
`))

type markupView struct {
	Record *receipt.Record
	Width  int
	Footer []string
}

// Markup renders a record as an HTML document sized for the paper profile
func Markup(record *receipt.Record, profile receipt.PaperProfile) (string, error) {
	if record == nil {
		return "", fmt.Errorf("record is required")
	}

	var buf bytes.Buffer
	view := markupView{
		Record: record,
		Width:  profile.PixelWidth,
		Footer: escpos.Footer,
	}
	if err := receiptTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
