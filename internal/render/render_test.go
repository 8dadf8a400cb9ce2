package render

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receipt-service/internal/receipt"
)

func widgetSale() receipt.Sale {
	return receipt.Sale{
		ID:        "1001",
		CreatedAt: time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC),
		Items: []receipt.SaleItem{
			{ProductName: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00"), LineTotal: decimal.RequireFromString("20.00")},
			{ProductName: "Gadget", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00"), LineTotal: decimal.RequireFromString("5.00")},
		},
		Subtotal:      decimal.RequireFromString("25.00"),
		Discount:      decimal.Zero,
		Total:         decimal.RequireFromString("25.00"),
		PaymentMethod: receipt.PaymentPix,
	}
}

func TestPlainTextWidgetSale(t *testing.T) {
	record := receipt.Build(widgetSale(), receipt.Company{Name: "Acme"}, receipt.Options{})
	out := PlainText(record)

	for _, want := range []string{"2x Widget", "1x Gadget", "25,00", "PIX", "Acme"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Desconto")
}

func TestPlainTextDiscount(t *testing.T) {
	sale := widgetSale()
	sale.Total = decimal.RequireFromString("22.50")
	record := receipt.Build(sale, receipt.Company{Name: "Acme"}, receipt.Options{})

	assert.Contains(t, PlainText(record), "Desconto: -R$ 2,50")
}

func TestDiscountLineTotalAboveSubtotal(t *testing.T) {
	sale := widgetSale()
	sale.Total = decimal.RequireFromString("27.00")
	record := receipt.Build(sale, receipt.Company{Name: "Acme"}, receipt.Options{})

	text := PlainText(record)
	assert.Contains(t, text, "Desconto: +R$ 2,00")
	assert.NotContains(t, text, "R$ -")

	doc, err := Markup(record, receipt.Paper58)
	require.NoError(t, err)
	assert.Contains(t, doc, "<span>Desconto</span><span>+R$ 2,00</span>")
}

func TestMarkupDiscount(t *testing.T) {
	sale := widgetSale()
	sale.Total = decimal.RequireFromString("22.50")
	doc, err := Markup(receipt.Build(sale, receipt.Company{Name: "Acme"}, receipt.Options{}), receipt.Paper80)
	require.NoError(t, err)

	assert.Contains(t, doc, "<span>Desconto</span><span>-R$ 2,50</span>")
}

func TestPlainTextSectionOrder(t *testing.T) {
	record := receipt.Build(widgetSale(), receipt.Company{Name: "Acme", Phone: "11 4000-0000"}, receipt.Options{})
	out := PlainText(record)

	order := []string{"*Acme*", "Tel: 11 4000-0000", "Data:", "Venda: #1001", "Cliente: Consumidor Final", "*ITENS*", "2x Widget", "1x Gadget", "Subtotal", "*TOTAL", "Pagamento: PIX", "Volte sempre!"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		require.NotEqual(t, -1, idx, marker)
		assert.Greater(t, idx, last, marker)
		last = idx
	}
}

func TestPlainTextNilRecord(t *testing.T) {
	assert.Empty(t, PlainText(nil))
}

func TestMarkup(t *testing.T) {
	tests := []struct {
		name    string
		profile receipt.PaperProfile
		width   string
	}{
		{"58mm", receipt.Paper58, "width: 220px"},
		{"80mm", receipt.Paper80, "width: 300px"},
	}

	record := receipt.Build(widgetSale(), receipt.Company{Name: "Acme"}, receipt.Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Markup(record, tt.profile)
			require.NoError(t, err)

			assert.Contains(t, doc, tt.width)
			assert.Contains(t, doc, "2x Widget")
			assert.Contains(t, doc, "R$ 25,00")
			assert.Contains(t, doc, "PIX")
		})
	}
}

func TestMarkupSectionOrder(t *testing.T) {
	record := receipt.Build(widgetSale(), receipt.Company{Name: "Acme"}, receipt.Options{})
	doc, err := Markup(record, receipt.Paper80)
	require.NoError(t, err)

	order := []string{`class="header`, `class="sale"`, `class="customer"`, `class="items"`, `class="totals"`, `class="payment"`, `class="footer`}
	last := -1
	for _, marker := range order {
		idx := strings.Index(doc, marker)
		require.NotEqual(t, -1, idx, marker)
		assert.Greater(t, idx, last, marker)
		last = idx
	}
}

func TestMarkupEscapesContent(t *testing.T) {
	record := receipt.Build(widgetSale(), receipt.Company{Name: "<script>alert(1)</script>"}, receipt.Options{})
	doc, err := Markup(record, receipt.Paper58)
	require.NoError(t, err)

	assert.NotContains(t, doc, "<script>alert(1)</script>")
	assert.Contains(t, doc, "&lt;script&gt;")
}

func TestMarkupLogo(t *testing.T) {
	company := receipt.Company{Name: "Acme", LogoURL: "https://cdn.example.com/acme.png"}

	with, err := Markup(receipt.Build(widgetSale(), company, receipt.Options{ShowLogo: true}), receipt.Paper80)
	require.NoError(t, err)
	assert.Contains(t, with, `src="https://cdn.example.com/acme.png"`)

	without, err := Markup(receipt.Build(widgetSale(), company, receipt.Options{}), receipt.Paper80)
	require.NoError(t, err)
	assert.NotContains(t, without, "<img")
}

func TestMarkupNilRecord(t *testing.T) {
	_, err := Markup(nil, receipt.Paper80)
	assert.Error(t, err)
}
