package escpos

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"receipt-service/internal/receipt"
)

var profiles = []receipt.PaperProfile{receipt.Paper58, receipt.Paper80}

func header() []byte {
	return append(append([]byte{}, Commands.Initialize...), Commands.CharsetPC860...)
}

func TestInitEmitsResetAndCharset(t *testing.T) {
	out := NewEncoder(receipt.Paper80).Init().Build()
	assert.Equal(t, []byte{0x1B, 0x40, 0x1B, 0x74, 0x03}, out)
}

func TestInitResetsBuffer(t *testing.T) {
	out := NewEncoder(receipt.Paper80).Init().Text("abc").Init().Build()
	assert.Equal(t, header(), out)
}

func TestImplicitInit(t *testing.T) {
	out := NewEncoder(receipt.Paper58).Text("x").Build()
	assert.Equal(t, append(header(), 'x'), out)
}

func TestModeSettersAlwaysAppend(t *testing.T) {
	out := NewEncoder(receipt.Paper80).Init().
		Emphasis(true).Emphasis(true).
		Align(AlignCenter).Align(AlignCenter).
		Build()

	body := out[len(header()):]
	want := bytes.Join([][]byte{
		Commands.BoldOn, Commands.BoldOn,
		Commands.AlignCenter, Commands.AlignCenter,
	}, nil)
	assert.Equal(t, want, body)
}

func TestModeCommands(t *testing.T) {
	tests := []struct {
		name string
		call func(e *Encoder)
		want []byte
	}{
		{"align left", func(e *Encoder) { e.Align(AlignLeft) }, []byte{0x1B, 0x61, 0x00}},
		{"align right", func(e *Encoder) { e.Align(AlignRight) }, []byte{0x1B, 0x61, 0x02}},
		{"bold off", func(e *Encoder) { e.Emphasis(false) }, []byte{0x1B, 0x45, 0x00}},
		{"underline on", func(e *Encoder) { e.Underline(true) }, []byte{0x1B, 0x2D, 0x01}},
		{"double size", func(e *Encoder) { e.Size(SizeDouble) }, []byte{0x1D, 0x21, 0x11}},
		{"double height", func(e *Encoder) { e.Size(SizeDoubleHeight) }, []byte{0x1D, 0x21, 0x01}},
		{"normal size", func(e *Encoder) { e.Size(SizeNormal) }, []byte{0x1D, 0x21, 0x00}},
		{"drawer", func(e *Encoder) { e.OpenDrawer() }, []byte{0x1B, 0x70, 0x00, 0x19, 0x19}},
		{"full cut", func(e *Encoder) { e.Cut(false) }, []byte{0x0A, 0x0A, 0x0A, 0x1D, 0x56, 0x00}},
		{"partial cut", func(e *Encoder) { e.Cut(true) }, []byte{0x0A, 0x0A, 0x0A, 0x1D, 0x56, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEncoder(receipt.Paper80).Init()
			tt.call(e)
			assert.Equal(t, tt.want, e.Build()[len(header()):])
		})
	}
}

func TestTextOneBytePerCharacter(t *testing.T) {
	inputs := []string{
		"plain ascii",
		"Ação, coração e pão",
		"ÇÃÕÉ ª º",
		"emoji 🙂 and 日本語",
		"",
		"tab\tnewline\n",
		string([]byte{0xff, 0xfe}),
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			out := NewEncoder(receipt.Paper80).Init().Text(in).Build()
			body := out[len(header()):]
			assert.Len(t, body, len([]rune(in)))
		})
	}
}

func TestTextSubstitution(t *testing.T) {
	cedilla, ok := charmap.CodePage860.EncodeRune('ç')
	require.True(t, ok)
	tilde, ok := charmap.CodePage860.EncodeRune('ã')
	require.True(t, ok)

	body := EncodeText("çã€A")
	assert.Equal(t, []byte{cedilla, tilde, '?', 'A'}, body)
}

func TestDividerWidth(t *testing.T) {
	for _, p := range profiles {
		t.Run(string(p.Width), func(t *testing.T) {
			body := NewEncoder(p).Init().Divider('-').Build()[len(header()):]
			want := append(bytes.Repeat([]byte{'-'}, p.Columns), '\n')
			assert.Equal(t, want, body)

			body = NewEncoder(p).Init().DoubleDivider().Build()[len(header()):]
			assert.Equal(t, append(bytes.Repeat([]byte{'='}, p.Columns), '\n'), body)
		})
	}
}

func TestColumnLine(t *testing.T) {
	tests := []struct {
		name  string
		left  string
		right string
		width int
		want  string
	}{
		{"fits", "Total", "R$ 25,00", 20, "Total       R$ 25,00"},
		{"exact", "abc", "def", 7, "abc def"},
		{"overflow truncates tail", "a very long product name", "R$ 1,00", 16, "a very long prod"},
		{"right only", "", "x", 4, "   x"},
		{"accented counted as one", "Ação", "1", 6, "Ação 1"},
		{"zero width", "a", "b", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColumnLine(tt.left, tt.right, tt.width))
		})
	}
}

func TestColumnsNeverExceedPaper(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"Subtotal", "R$ 25,00"},
		{strings.Repeat("x", 100), "y"},
		{"z", strings.Repeat("w", 100)},
		{strings.Repeat("ç", 40), strings.Repeat("ã", 40)},
	}

	for _, p := range profiles {
		for _, pair := range pairs {
			body := NewEncoder(p).Init().Columns(pair[0], pair[1]).Build()[len(header()):]
			require.Equal(t, byte('\n'), body[len(body)-1])
			assert.LessOrEqual(t, len(body)-1, p.Columns)
		}
	}
}

func TestBuildSpendsEncoder(t *testing.T) {
	e := NewEncoder(receipt.Paper80).Init().Line("one")
	first := e.Build()

	e.Line("two").Cut(false).Init()
	second := e.Build()

	assert.True(t, e.Built())
	assert.Equal(t, first, second)

	first[0] = 0x00
	assert.NotEqual(t, first, e.Build(), "returned slices are copies")
}
