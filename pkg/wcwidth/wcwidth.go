// Package wcwidth provides utilities for determining the visual width of
// characters on the terminal, like the POSIX function of the same name.
package wcwidth

import (
	"strings"
	"sync"
	"unicode"
)

// Map from rune to width overridden by Override. It is a sync.Map instead of
// a plain map because it can be accessed concurrently from the main loop and
// the painter.
var overrides sync.Map

// Of returns the width of a string, when displayed on the terminal.
func Of(s string) (w int) {
	for _, r := range s {
		w += OfRune(r)
	}
	return w
}

// OfRune returns the width of a rune, when displayed on the terminal.
func OfRune(r rune) int {
	if w, ok := overrides.Load(r); ok {
		return w.(int)
	}
	switch {
	case r == 0:
		return 0
	case r < 0x20 || (0x7f <= r && r < 0xa0):
		// Control characters have no useful width; the terminal painter never
		// emits them as cell content.
		return 0
	case unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf):
		return 0
	case unicode.In(r, wideRunes):
		return 2
	}
	return 1
}

// Override overrides the width of a rune to be the given value, as long as it
// is positive. A zero or negative width removes any override on the rune.
// It is useful when the terminal does not agree with the wcwidth table on the
// width of a rune.
func Override(r rune, w int) {
	if w <= 0 {
		Unoverride(r)
		return
	}
	overrides.Store(r, w)
}

// Unoverride removes any overridden width of the rune.
func Unoverride(r rune) {
	overrides.Delete(r)
}

// Trim trims the string to the given maximum width, dropping any rune that
// would make the string wider.
func Trim(s string, wmax int) string {
	w := 0
	for i, r := range s {
		w += OfRune(r)
		if w > wmax {
			return s[:i]
		}
	}
	return s
}

// Force forces the string to the given width, trimming and padding with
// spaces as needed.
func Force(s string, width int) string {
	s = Trim(s, width)
	return s + strings.Repeat(" ", width-Of(s))
}

// Runes with an East Asian width of Wide or Fullwidth, plus a few commonly
// wide symbol blocks (emoji). This is a condensed version of the Unicode
// east-asian-width data; it does not attempt to track every Unicode revision.
var wideRunes = &unicode.RangeTable{
	R16: []unicode.Range16{
		{0x1100, 0x115f, 1}, // Hangul Jamo
		{0x2329, 0x232a, 1},
		{0x2e80, 0x303e, 1}, // CJK Radicals .. CJK Symbols and Punctuation
		{0x3041, 0x33ff, 1}, // Hiragana .. CJK Compatibility
		{0x3400, 0x4dbf, 1}, // CJK Unified Ideographs Extension A
		{0x4e00, 0x9fff, 1}, // CJK Unified Ideographs
		{0xa000, 0xa4cf, 1}, // Yi Syllables
		{0xac00, 0xd7a3, 1}, // Hangul Syllables
		{0xf900, 0xfaff, 1}, // CJK Compatibility Ideographs
		{0xfe10, 0xfe19, 1},
		{0xfe30, 0xfe6f, 1},
		{0xff00, 0xff60, 1}, // Fullwidth Forms
		{0xffe0, 0xffe6, 1},
	},
	R32: []unicode.Range32{
		{0x16fe0, 0x16fe4, 1},
		{0x17000, 0x18aff, 1},
		{0x1b000, 0x1b2ff, 1},
		{0x1f300, 0x1f64f, 1}, // Misc Symbols and Pictographs .. Emoticons
		{0x1f900, 0x1f9ff, 1}, // Supplemental Symbols and Pictographs
		{0x20000, 0x2fffd, 1},
		{0x30000, 0x3fffd, 1},
	},
}
