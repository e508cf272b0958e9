package ui

import "strings"

// Styling specifies how to change a Style. It can also be applied to a Segment
// or Text.
type Styling interface{ transform(*Style) }

// StyleText returns a new Text with the given Styling's applied. It does not
// modify the given Text.
func StyleText(t Text, ts ...Styling) Text {
	newt := make(Text, len(t))
	for i, seg := range t {
		newt[i] = StyleSegment(seg, ts...)
	}
	return newt
}

// StyleSegment returns a new Segment with the given Styling's applied. It does
// not modify the given Segment.
func StyleSegment(seg *Segment, ts ...Styling) *Segment {
	return &Segment{Text: seg.Text, Style: ApplyStyling(seg.Style, ts...)}
}

// ApplyStyling returns a new Style with the given Styling's applied.
func ApplyStyling(s Style, ts ...Styling) Style {
	for _, t := range ts {
		if t != nil {
			t.transform(&s)
		}
	}
	return s
}

// Stylings joins several stylings into one.
func Stylings(ts ...Styling) Styling { return jointStyling(ts) }

// Common stylings.
var (
	FgDefault Styling = setForeground{nil}

	FgBlack   Styling = setForeground{Black}
	FgRed     Styling = setForeground{Red}
	FgGreen   Styling = setForeground{Green}
	FgYellow  Styling = setForeground{Yellow}
	FgBlue    Styling = setForeground{Blue}
	FgMagenta Styling = setForeground{Magenta}
	FgCyan    Styling = setForeground{Cyan}
	FgWhite   Styling = setForeground{White}

	BgDefault Styling = setBackground{nil}

	BgBlack   Styling = setBackground{Black}
	BgRed     Styling = setBackground{Red}
	BgGreen   Styling = setBackground{Green}
	BgYellow  Styling = setBackground{Yellow}
	BgBlue    Styling = setBackground{Blue}
	BgMagenta Styling = setBackground{Magenta}
	BgCyan    Styling = setBackground{Cyan}
	BgWhite   Styling = setBackground{White}

	Bold       Styling = boolOn(accessBold)
	Dim        Styling = boolOn(accessDim)
	Italic     Styling = boolOn(accessItalic)
	Underlined Styling = boolOn(accessUnderlined)
	Blink      Styling = boolOn(accessBlink)
	Inverse    Styling = boolOn(accessInverse)
)

// Fg returns a Styling that sets the foreground color.
func Fg(c Color) Styling { return setForeground{c} }

// Bg returns a Styling that sets the background color.
func Bg(c Color) Styling { return setBackground{c} }

// ParseStyling parses a text representation of Styling, which are kebab-case
// counterparts of the names of the builtin Styling's, optionally prefixed with
// "fg-" or "bg-" for colors. Multiple stylings can be joined by spaces. If the
// given string is invalid, ParseStyling returns nil.
func ParseStyling(s string) Styling {
	var joint jointStyling
	for _, name := range strings.Split(s, " ") {
		if name == "" {
			continue
		}
		styling := parseOneStyling(name)
		if styling == nil {
			return nil
		}
		joint = append(joint, styling)
	}
	switch len(joint) {
	case 0:
		return nil
	case 1:
		return joint[0]
	default:
		return joint
	}
}

var boolStylings = map[string]Styling{
	"bold":       Bold,
	"dim":        Dim,
	"italic":     Italic,
	"underlined": Underlined,
	"blink":      Blink,
	"inverse":    Inverse,
}

func parseOneStyling(name string) Styling {
	switch {
	case boolStylings[name] != nil:
		return boolStylings[name]
	case strings.HasPrefix(name, "bg-"):
		if name == "bg-default" {
			return BgDefault
		} else if color := parseColor(name[len("bg-"):]); color != nil {
			return setBackground{color}
		}
	default:
		name := strings.TrimPrefix(name, "fg-")
		if name == "default" {
			return FgDefault
		} else if color := parseColor(name); color != nil {
			return setForeground{color}
		}
	}
	return nil
}

type setForeground struct{ c Color }
type setBackground struct{ c Color }
type boolOn func(*Style) *bool

func (t setForeground) transform(s *Style) { s.Fg = t.c }
func (t setBackground) transform(s *Style) { s.Bg = t.c }
func (t boolOn) transform(s *Style)        { *t(s) = true }

func accessBold(s *Style) *bool       { return &s.Bold }
func accessDim(s *Style) *bool        { return &s.Dim }
func accessItalic(s *Style) *bool     { return &s.Italic }
func accessUnderlined(s *Style) *bool { return &s.Underlined }
func accessBlink(s *Style) *bool      { return &s.Blink }
func accessInverse(s *Style) *bool    { return &s.Inverse }

type jointStyling []Styling

func (t jointStyling) transform(s *Style) {
	for _, t := range t {
		t.transform(s)
	}
}
