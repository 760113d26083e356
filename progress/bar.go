package progress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/jdx/clx/style"
)

// BarChars describes the characters a progress bar is drawn with.
type BarChars struct {
	// Fill is the character for the completed portion.
	Fill string
	// Head is the character at the leading edge of the fill.
	Head string
	// Empty is the character for the remaining portion.
	Empty string
	// Left and Right bracket the bar. Either may be empty.
	Left  string
	Right string
}

// DefaultBarChars returns the classic "[===>   ]" style.
func DefaultBarChars() BarChars {
	return BarChars{Fill: "=", Head: ">", Empty: " ", Left: "[", Right: "]"}
}

// BlockBarChars returns a solid block style with no brackets.
func BlockBarChars() BarChars {
	return BarChars{Fill: "█", Head: "▓", Empty: "░"}
}

// ThinBarChars returns a thin line style with no brackets.
func ThinBarChars() BarChars {
	return BarChars{Fill: "━", Head: "╸", Empty: "─"}
}

// renderBar draws a bar of the given total visual width. The filled
// proportion is cur/total, zero when total is zero.
func renderBar(cur, total uint64, width int, chars BarChars) string {
	inner := width - ansi.StringWidth(chars.Left) - ansi.StringWidth(chars.Right)
	if inner < 0 {
		inner = 0
	}

	var frac float64
	if total > 0 {
		frac = float64(cur) / float64(total)
	}
	if frac > 1 {
		frac = 1
	}

	filled := int(frac * float64(inner))
	var b strings.Builder
	switch {
	case filled >= inner:
		b.WriteString(strings.Repeat(chars.Fill, inner))
	case filled > 0:
		b.WriteString(strings.Repeat(chars.Fill, filled-1))
		b.WriteString(chars.Head)
		b.WriteString(strings.Repeat(chars.Empty, inner-filled))
	default:
		b.WriteString(strings.Repeat(chars.Empty, inner))
	}
	return style.Edim(chars.Left + b.String() + chars.Right)
}

// encodeBarChars packs bar characters for embedding in a flex placeholder
// tag. Separator and tag-delimiter characters are percent-escaped.
func encodeBarChars(chars BarChars) string {
	esc := func(s string) string {
		r := strings.NewReplacer("%", "%25", ",", "%2C", " ", "%20", "<", "%3C", ">", "%3E")
		return r.Replace(s)
	}
	return fmt.Sprintf("%s,%s,%s,%s,%s",
		esc(chars.Fill), esc(chars.Head), esc(chars.Empty), esc(chars.Left), esc(chars.Right))
}

// decodeBarChars reverses encodeBarChars. Malformed input returns the
// default style.
func decodeBarChars(encoded string) BarChars {
	unesc := func(s string) string {
		r := strings.NewReplacer("%2C", ",", "%20", " ", "%3C", "<", "%3E", ">", "%25", "%")
		return r.Replace(s)
	}
	parts := strings.SplitN(encoded, ",", 5)
	if len(parts) < 5 {
		return DefaultBarChars()
	}
	return BarChars{
		Fill:  unesc(parts[0]),
		Head:  unesc(parts[1]),
		Empty: unesc(parts[2]),
		Left:  unesc(parts[3]),
		Right: unesc(parts[4]),
	}
}
