package progress

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Flex placeholder tags. Template filters wrap their content in a pair of
// identical tags; the layout pass resolves them once the whole line is known.
const (
	flexTag     = "<clx:flex>"
	flexFillTag = "<clx:flex_fill>"
	barTag      = "<clx:progress"
)

// segKind classifies one parsed segment of a line.
type segKind int

const (
	segFixed segKind = iota
	segFlex          // truncate to the allotted width
	segFill          // pad with spaces to the allotted width
	segBar           // progress bar drawn at the allotted width
)

type segment struct {
	kind    segKind
	content string
	// bar placeholder fields, valid when kind == segBar
	cur, total uint64
	chars      BarChars
}

// resolveFlex resolves all flex placeholders in a rendered frame against the
// given line width. Lines without placeholders pass through untouched.
func resolveFlex(s string, width int) string {
	if !strings.Contains(s, flexTag) && !strings.Contains(s, flexFillTag) {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = resolveFlexLine(line, width)
	}
	return strings.Join(lines, "\n")
}

// resolveFlexLine lays out a single line. Remaining width after fixed text is
// split evenly between competing placeholders; the leftover columns from
// integer division go to the first placeholder. If fixed text alone exceeds
// the line width, every placeholder resolves to empty and the line is left
// over-long rather than truncating fixed content.
func resolveFlexLine(line string, width int) string {
	segs := parseLine(line)

	fixed := 0
	flexible := 0
	for _, seg := range segs {
		if seg.kind == segFixed {
			fixed += ansi.StringWidth(seg.content)
		} else {
			flexible++
		}
	}
	if flexible == 0 {
		return line
	}

	remaining := width - fixed
	share, extra := 0, 0
	if remaining > 0 {
		share = remaining / flexible
		extra = remaining % flexible
	}

	var b strings.Builder
	first := true
	for _, seg := range segs {
		if seg.kind == segFixed {
			b.WriteString(seg.content)
			continue
		}
		w := share
		if first {
			w += extra
			first = false
		}
		b.WriteString(renderSegment(seg, w))
	}
	return b.String()
}

func renderSegment(seg segment, width int) string {
	if width <= 0 {
		return ""
	}
	switch seg.kind {
	case segBar:
		return renderBar(seg.cur, seg.total, width, seg.chars)
	case segFill:
		got := ansi.StringWidth(seg.content)
		if got > width {
			return ansi.Truncate(seg.content, width, "…")
		}
		return seg.content + strings.Repeat(" ", width-got)
	default:
		if ansi.StringWidth(seg.content) > width {
			return ansi.Truncate(seg.content, width, "…")
		}
		return seg.content
	}
}

// parseLine splits a line into fixed text and placeholder segments. A
// placeholder is content between a pair of identical flex tags; an unpaired
// tag is treated as fixed text.
func parseLine(line string) []segment {
	var segs []segment
	for len(line) > 0 {
		fi := strings.Index(line, flexTag)
		ffi := strings.Index(line, flexFillTag)
		tag, at := flexTag, fi
		if ffi >= 0 && (fi < 0 || ffi <= fi) {
			tag, at = flexFillTag, ffi
		}
		if at < 0 {
			segs = append(segs, segment{kind: segFixed, content: line})
			break
		}
		rest := line[at+len(tag):]
		end := strings.Index(rest, tag)
		if end < 0 {
			segs = append(segs, segment{kind: segFixed, content: line})
			break
		}
		if at > 0 {
			segs = append(segs, segment{kind: segFixed, content: line[:at]})
		}
		segs = append(segs, placeholderSegment(tag, rest[:end]))
		line = rest[end+len(tag):]
	}
	return segs
}

func placeholderSegment(tag, content string) segment {
	if tag == flexFillTag {
		return segment{kind: segFill, content: content}
	}
	if strings.HasPrefix(content, barTag) {
		if seg, ok := parseBarPlaceholder(content); ok {
			return seg
		}
	}
	return segment{kind: segFlex, content: content}
}

// parseBarPlaceholder decodes "<clx:progress cur=N total=N chars=...>".
func parseBarPlaceholder(content string) (segment, bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(content, barTag), ">")
	seg := segment{kind: segBar, chars: DefaultBarChars()}
	seen := false
	for _, field := range strings.Fields(inner) {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch k {
		case "cur":
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return segment{}, false
			}
			seg.cur = n
			seen = true
		case "total":
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return segment{}, false
			}
			seg.total = n
		case "chars":
			seg.chars = decodeBarChars(v)
		}
	}
	return seg, seen
}
