package progress

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// frameLine is one rendered terminal line, tagged with the job that
// produced it so text output mode can tell which lines actually changed.
type frameLine struct {
	jobID uint64
	text  string
}

// renderFrame composes a full frame from a snapshot forest: every job body
// is evaluated, children are indented under their parents, and flex
// placeholders are resolved against the terminal width. In screen mode each
// line is also clipped to the terminal so a frame never wraps, which would
// break cursor-relative repainting.
func renderFrame(snaps []*JobSnapshot, ctx *renderContext) []frameLine {
	var lines []frameLine
	for _, snap := range snaps {
		appendJobLines(&lines, snap, ctx, 0)
	}
	for i, line := range lines {
		text := resolveFlex(line.text, ctx.width)
		if ctx.width > 0 {
			if ctx.textMode {
				text = runewidth.Truncate(text, ctx.width, "…")
			} else {
				text = ansi.Truncate(text, ctx.width, "…")
			}
		}
		lines[i].text = text
	}
	return lines
}

func appendJobLines(dst *[]frameLine, snap *JobSnapshot, ctx *renderContext, depth int) {
	body := renderBody(snap, ctx)
	indent := strings.Repeat("  ", depth)
	if body != "" {
		for _, line := range strings.Split(body, "\n") {
			*dst = append(*dst, frameLine{jobID: snap.ID, text: indent + line})
		}
	}
	for _, child := range snap.Children {
		appendJobLines(dst, child, ctx, depth+1)
	}
}

func joinFrame(lines []frameLine) string {
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line.text)
	}
	return sb.String()
}
