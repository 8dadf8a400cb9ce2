// internal/receipt/paper.go
package receipt

import "strings"

// PaperWidth identifies a supported thermal paper roll
type PaperWidth string

const (
	PaperWidth58 PaperWidth = "58mm"
	PaperWidth80 PaperWidth = "80mm"
)

// PaperProfile carries the layout constants of one paper width
type PaperProfile struct {
	Width      PaperWidth `json:"width"`
	Columns    int        `json:"columns"`     // characters per line, font A
	PixelWidth int        `json:"pixel_width"` // CSS pixels used by the markup renderer
	DotWidth   int        `json:"dot_width"`   // printable dots of the print head
}

var (
	Paper58 = PaperProfile{Width: PaperWidth58, Columns: 32, PixelWidth: 220, DotWidth: 384}
	Paper80 = PaperProfile{Width: PaperWidth80, Columns: 48, PixelWidth: 300, DotWidth: 576}
)

// ProfileFor looks up the profile of a paper width. "58" and "80" are accepted as aliases.
func ProfileFor(width PaperWidth) (PaperProfile, bool) {
	switch PaperWidth(strings.ToLower(strings.TrimSpace(string(width)))) {
	case PaperWidth58, "58":
		return Paper58, true
	case PaperWidth80, "80":
		return Paper80, true
	default:
		return PaperProfile{}, false
	}
}

// SupportedPaperWidths lists every width ProfileFor accepts
func SupportedPaperWidths() []PaperWidth {
	return []PaperWidth{PaperWidth58, PaperWidth80}
}
