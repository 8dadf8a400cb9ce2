// internal/driver/escpos/command.go
package escpos

const (
	esc byte = 0x1B
	gs  byte = 0x1D
	lf  byte = 0x0A
)

// Commands is the ESC/POS subset emitted by the encoder. It is supported by Epson,
// Bematech, Elgin, Daruma and the generic 58/80mm BLE printers.
var Commands = struct {
	// Basic commands
	Initialize    []byte
	CharsetPC860  []byte // Portuguese code page
	StatusRequest []byte

	// Text formatting
	BoldOn       []byte
	BoldOff      []byte
	UnderlineOn  []byte
	UnderlineOff []byte

	// Text size (GS ! n, width in the high nibble, height in the low nibble)
	SizeNormal       []byte
	SizeDoubleWidth  []byte
	SizeDoubleHeight []byte
	SizeDouble       []byte

	// Text alignment
	AlignLeft   []byte
	AlignCenter []byte
	AlignRight  []byte

	// Paper handling
	LineFeed   []byte
	CutFull    []byte
	CutPartial []byte

	// Cash drawer, pin 2, 50ms on / 50ms off
	DrawerKick []byte
}{
	Initialize:    []byte{esc, 0x40},        // ESC @
	CharsetPC860:  []byte{esc, 0x74, 0x03},  // ESC t 3
	StatusRequest: []byte{0x10, 0x04, 0x01}, // DLE EOT 1

	BoldOn:       []byte{esc, 0x45, 0x01}, // ESC E 1
	BoldOff:      []byte{esc, 0x45, 0x00}, // ESC E 0
	UnderlineOn:  []byte{esc, 0x2D, 0x01}, // ESC - 1
	UnderlineOff: []byte{esc, 0x2D, 0x00}, // ESC - 0

	SizeNormal:       []byte{gs, 0x21, 0x00},
	SizeDoubleWidth:  []byte{gs, 0x21, 0x10},
	SizeDoubleHeight: []byte{gs, 0x21, 0x01},
	SizeDouble:       []byte{gs, 0x21, 0x11},

	AlignLeft:   []byte{esc, 0x61, 0x00}, // ESC a 0
	AlignCenter: []byte{esc, 0x61, 0x01}, // ESC a 1
	AlignRight:  []byte{esc, 0x61, 0x02}, // ESC a 2

	LineFeed:   []byte{lf},
	CutFull:    []byte{gs, 0x56, 0x00}, // GS V 0
	CutPartial: []byte{gs, 0x56, 0x01}, // GS V 1

	DrawerKick: []byte{esc, 0x70, 0x00, 0x19, 0x19}, // ESC p 0 25 25
}

// Alignment selects text justification
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Size selects character magnification
type Size int

const (
	SizeNormal Size = iota
	SizeDoubleWidth
	SizeDoubleHeight
	SizeDouble
)

func alignCommand(a Alignment) []byte {
	switch a {
	case AlignCenter:
		return Commands.AlignCenter
	case AlignRight:
		return Commands.AlignRight
	default:
		return Commands.AlignLeft
	}
}

func sizeCommand(s Size) []byte {
	switch s {
	case SizeDoubleWidth:
		return Commands.SizeDoubleWidth
	case SizeDoubleHeight:
		return Commands.SizeDoubleHeight
	case SizeDouble:
		return Commands.SizeDouble
	default:
		return Commands.SizeNormal
	}
}
