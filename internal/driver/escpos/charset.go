// internal/driver/escpos/charset.go
package escpos

import (
	"golang.org/x/text/encoding/charmap"
)

const placeholder byte = '?'

// portugueseRunes are the non-ASCII letters the receipt text may carry
const portugueseRunes = "áàâãäéèêëíìîïóòôõöúùûüçñÁÀÂÃÄÉÈÊËÍÌÎÏÓÒÔÕÖÚÙÛÜÇÑºª°"

// substitutions maps each supported rune to its PC860 byte. Built once from the
// code page so the table always agrees with the charset selected by Init.
var substitutions = buildSubstitutions()

func buildSubstitutions() map[rune]byte {
	table := make(map[rune]byte, len(portugueseRunes))
	for _, r := range portugueseRunes {
		if b, ok := charmap.CodePage860.EncodeRune(r); ok {
			table[r] = b
		}
	}
	return table
}

// encodeRune returns exactly one byte for any rune
func encodeRune(r rune) byte {
	if r >= 0 && r < 0x80 {
		return byte(r)
	}
	if b, ok := substitutions[r]; ok {
		return b
	}
	return placeholder
}

// EncodeText converts a string to one printer byte per rune
func EncodeText(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, encodeRune(r))
	}
	return out
}
