package ui

import (
	"strings"
)

// Text contains a list of styled Segments.
type Text []*Segment

// T constructs a new Text with the given content and the given Styling's
// applied.
func T(s string, ts ...Styling) Text {
	return StyleText(Text{&Segment{Text: s}}, ts...)
}

// Concat returns the concatenation of two Texts.
func Concat(t1, t2 Text) Text {
	return append(append(Text(nil), t1...), t2...)
}

// String returns the text content, without any styling information.
func (t Text) String() string {
	var sb strings.Builder
	for _, seg := range t {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// VTString renders the Text using VT-style escape sequences.
func (t Text) VTString() string {
	var sb strings.Builder
	for _, seg := range t {
		sb.WriteString(seg.VTString())
	}
	return sb.String()
}

// Segment is a string that has some style applied to it.
type Segment struct {
	Style
	Text string
}

// VTString renders the Segment using VT-style escape sequences.
func (s *Segment) VTString() string {
	sgr := s.SGR()
	if sgr == "" {
		return s.Text
	}
	return "\033[" + sgr + "m" + s.Text + "\033[m"
}
