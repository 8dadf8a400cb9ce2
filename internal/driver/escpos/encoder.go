// internal/driver/escpos/encoder.go
package escpos

import (
	"strings"
	"unicode/utf8"

	"receipt-service/internal/receipt"
)

// Encoder builds one ESC/POS job. Methods append in call order and return the
// encoder for chaining. Content never produces errors: unknown characters become
// '?' and overflowing lines are truncated.
//
// An Encoder serves exactly one job and is not safe for concurrent use.
type Encoder struct {
	profile receipt.PaperProfile
	buf     []byte

	align     Alignment
	emphasis  bool
	underline bool
	size      Size

	initialized bool
	built       bool
}

// NewEncoder creates an encoder for the given paper profile
func NewEncoder(profile receipt.PaperProfile) *Encoder {
	return &Encoder{
		profile: profile,
		buf:     make([]byte, 0, 1024),
	}
}

// Profile returns the paper profile fixed at construction
func (e *Encoder) Profile() receipt.PaperProfile {
	return e.profile
}

// Init resets the buffer and emits ESC @ followed by the PC860 charset selector
func (e *Encoder) Init() *Encoder {
	if e.built {
		return e
	}
	e.buf = e.buf[:0]
	e.align = AlignLeft
	e.emphasis = false
	e.underline = false
	e.size = SizeNormal
	e.initialized = true

	e.buf = append(e.buf, Commands.Initialize...)
	e.buf = append(e.buf, Commands.CharsetPC860...)
	return e
}

// Align sets text justification
func (e *Encoder) Align(a Alignment) *Encoder {
	if !e.writable() {
		return e
	}
	e.align = a
	e.buf = append(e.buf, alignCommand(a)...)
	return e
}

// Emphasis toggles bold printing
func (e *Encoder) Emphasis(on bool) *Encoder {
	if !e.writable() {
		return e
	}
	e.emphasis = on
	if on {
		e.buf = append(e.buf, Commands.BoldOn...)
	} else {
		e.buf = append(e.buf, Commands.BoldOff...)
	}
	return e
}

// Underline toggles underlined printing
func (e *Encoder) Underline(on bool) *Encoder {
	if !e.writable() {
		return e
	}
	e.underline = on
	if on {
		e.buf = append(e.buf, Commands.UnderlineOn...)
	} else {
		e.buf = append(e.buf, Commands.UnderlineOff...)
	}
	return e
}

// Size sets character magnification
func (e *Encoder) Size(s Size) *Encoder {
	if !e.writable() {
		return e
	}
	e.size = s
	e.buf = append(e.buf, sizeCommand(s)...)
	return e
}

// Text appends content, one byte per character
func (e *Encoder) Text(content string) *Encoder {
	if !e.writable() {
		return e
	}
	e.buf = append(e.buf, EncodeText(content)...)
	return e
}

// Line appends content followed by a line feed
func (e *Encoder) Line(content string) *Encoder {
	return e.Text(content).Feed(1)
}

// Feed appends n line feeds
func (e *Encoder) Feed(n int) *Encoder {
	if !e.writable() {
		return e
	}
	for i := 0; i < n; i++ {
		e.buf = append(e.buf, lf)
	}
	return e
}

// Divider fills one line with ch, exactly Columns characters wide
func (e *Encoder) Divider(ch rune) *Encoder {
	return e.Line(strings.Repeat(string(ch), e.profile.Columns))
}

// DoubleDivider is a divider of '='
func (e *Encoder) DoubleDivider() *Encoder {
	return e.Divider('=')
}

// Columns prints left and right on one line with right flush to the margin.
// The line is truncated to the column count when both do not fit.
func (e *Encoder) Columns(left, right string) *Encoder {
	return e.Line(ColumnLine(left, right, e.profile.Columns))
}

// Cut feeds three lines so the blade clears the last row, then cuts
func (e *Encoder) Cut(partial bool) *Encoder {
	if !e.writable() {
		return e
	}
	e.Feed(3)
	if partial {
		e.buf = append(e.buf, Commands.CutPartial...)
	} else {
		e.buf = append(e.buf, Commands.CutFull...)
	}
	return e
}

// OpenDrawer pulses the cash drawer pin. The printer gives no acknowledgement.
func (e *Encoder) OpenDrawer() *Encoder {
	if !e.writable() {
		return e
	}
	e.buf = append(e.buf, Commands.DrawerKick...)
	return e
}

// Build returns the job bytes. The encoder is spent afterwards: later calls are
// ignored and Build keeps returning a copy of the same bytes.
func (e *Encoder) Build() []byte {
	if !e.initialized {
		e.Init()
	}
	e.built = true
	out := make([]byte, len(e.buf))
	copy(out, e.buf)
	return out
}

// Built reports whether Build has been called
func (e *Encoder) Built() bool {
	return e.built
}

// writable implicitly runs Init for a job that skipped it and rejects writes after Build
func (e *Encoder) writable() bool {
	if e.built {
		return false
	}
	if !e.initialized {
		e.Init()
	}
	return true
}

// ColumnLine lays out left and right within width characters. At least one space
// separates them; overflow drops trailing characters.
func ColumnLine(left, right string, width int) string {
	if width <= 0 {
		return ""
	}
	gap := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	return truncate(left+strings.Repeat(" ", gap)+right, width)
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width])
}
