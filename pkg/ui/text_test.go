package ui

import (
	"testing"

	"github.com/loomui/loom/pkg/tt"
)

func TestT(t *testing.T) {
	tt.Test(t, T,
		tt.Args("foo").Rets(Text{&Segment{Text: "foo"}}),
		tt.Args("foo", Styling(FgRed)).Rets(
			Text{&Segment{Style: Style{Fg: Red}, Text: "foo"}}),
	)
}

func TestConcat(t *testing.T) {
	tt.Test(t, Concat,
		tt.Args(T("foo"), T("bar")).Rets(
			Text{&Segment{Text: "foo"}, &Segment{Text: "bar"}}),
		tt.Args(Text(nil), T("bar")).Rets(T("bar")),
		tt.Args(T("foo"), Text(nil)).Rets(T("foo")),
	)
}

func TestTextString(t *testing.T) {
	tt.Test(t, Text.String,
		tt.Args(Concat(T("foo", Bold), T("bar"))).Rets("foobar"),
		tt.Args(Text(nil)).Rets(""),
	)
}

func TestVTString(t *testing.T) {
	tt.Test(t, Text.VTString,
		tt.Args(T("foo")).Rets("foo"),
		tt.Args(T("foo", FgRed)).Rets("\033[31mfoo\033[m"),
		tt.Args(Concat(T("foo", Bold), T("bar"))).Rets(
			"\033[1mfoo\033[mbar"),
	)
}
