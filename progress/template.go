package progress

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/jdx/clx/style"
)

// renderContext carries the per-frame inputs shared by every job body in the
// frame.
type renderContext struct {
	now      time.Time
	width    int
	textMode bool
}

// renderBody evaluates a job's body template into a single- or multi-line
// string. Flex and progress-bar placeholders survive as marker tags for the
// layout pass. A body that fails to parse or execute degrades to the job's
// message property instead of erroring a whole frame.
func renderBody(snap *JobSnapshot, ctx *renderContext) string {
	body := snap.Body
	if ctx.textMode && snap.BodyText != "" {
		body = snap.BodyText
	}
	tmpl, err := template.New("body").Funcs(bodyFuncs(snap, ctx)).Parse(body)
	if err != nil {
		return propString(snap, "message")
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, nil); err != nil {
		return propString(snap, "message")
	}
	return sb.String()
}

func propString(snap *JobSnapshot, key string) string {
	v, ok := snap.Props[key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// bodyFuncs builds the function map for one job's body. Every job property
// is exposed as a zero-argument function so templates can write
// "{{ message }}" instead of "{{ prop \"message\" }}"; properties whose
// names collide with built-in helpers lose to the helper.
func bodyFuncs(snap *JobSnapshot, ctx *renderContext) template.FuncMap {
	funcs := template.FuncMap{}
	funcs["message"] = func() string { return "" }
	// Funcs panics on names that are not identifiers; such properties stay
	// reachable through prop.
	for key, val := range snap.Props {
		if !validFuncName(key) {
			continue
		}
		v := val
		funcs[key] = func() any { return v }
	}

	funcs["prop"] = func(key string) any { return snap.Props[key] }
	funcs["spinner"] = func(name ...string) string {
		override := ""
		if len(name) > 0 {
			override = name[0]
		}
		return statusIndicator(snap, ctx, override)
	}
	funcs["elapsed"] = func() string {
		return FormatDuration(ctx.now.Sub(snap.OpStart))
	}
	funcs["eta"] = func(args ...any) string {
		return renderETA(snap, ctx, parseCallArgs(args).flag("hide_complete"))
	}
	funcs["rate"] = func() string { return renderRate(snap) }
	funcs["bytes"] = func(args ...any) string {
		o := parseCallArgs(args)
		if !snap.HasProgress {
			return ""
		}
		if o.flag("hide_complete") && snap.Total > 0 && snap.Cur >= snap.Total {
			return ""
		}
		if o.vals["total"] == "false" {
			return FormatBytes(snap.Cur)
		}
		return FormatBytes(snap.Cur) + "/" + FormatBytes(snap.Total)
	}
	funcs["bytes_rate"] = func() string {
		if !snap.HasRate {
			return ""
		}
		return FormatBytes(uint64(snap.Rate)) + "/s"
	}
	funcs["percentage"] = func(args ...any) string {
		o := parseCallArgs(args)
		if !snap.HasProgress || snap.Total == 0 {
			return ""
		}
		if o.flag("hide_complete") && snap.Cur >= snap.Total {
			return ""
		}
		pct := float64(snap.Cur) / float64(snap.Total) * 100
		return strconv.FormatFloat(pct, 'f', o.intVal("decimals", o.num), 64) + "%"
	}
	funcs["count"] = func(args ...any) string {
		o := parseCallArgs(args)
		decimals := o.intVal("decimals", o.num)
		if v, ok := o.vals["value"]; ok {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return ""
			}
			return FormatCount(n, decimals)
		}
		if !snap.HasProgress {
			return ""
		}
		return FormatCount(snap.Cur, decimals) + "/" + FormatCount(snap.Total, decimals)
	}
	funcs["progress_bar"] = func(args ...any) string {
		return renderBarCall(snap, args)
	}
	// flex and flex_fill mark elastic segments. Called bare they act as
	// spacers; given content they size it to the segment's share of the
	// line: flex truncates, flex_fill pads.
	funcs["flex"] = func(parts ...string) string {
		return flexTag + strings.Join(parts, "") + flexTag
	}
	funcs["flex_fill"] = func(parts ...string) string {
		return flexFillTag + strings.Join(parts, "") + flexFillTag
	}

	funcs["cyan"] = func(s string) string { return style.Ecyan(s) }
	funcs["blue"] = func(s string) string { return style.Eblue(s) }
	funcs["green"] = func(s string) string { return style.Egreen(s) }
	funcs["yellow"] = func(s string) string { return style.Eyellow(s) }
	funcs["red"] = func(s string) string { return style.Ered(s) }
	funcs["magenta"] = func(s string) string { return style.Emagenta(s) }
	funcs["bold"] = func(s string) string { return style.Ebold(s) }
	funcs["dim"] = func(s string) string { return style.Edim(s) }
	funcs["underline"] = func(s string) string { return style.Eunderline(s) }
	return funcs
}

func validFuncName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// callOpts holds parsed template call arguments: a bare integer, bare-word
// flags like "hide_complete", and key=value options.
type callOpts struct {
	num    int
	hasNum bool
	flags  map[string]bool
	vals   map[string]string
}

func parseCallArgs(args []any) callOpts {
	o := callOpts{flags: map[string]bool{}, vals: map[string]string{}}
	for _, arg := range args {
		switch v := arg.(type) {
		case int:
			o.num, o.hasNum = v, true
		case string:
			if k, val, ok := strings.Cut(v, "="); ok {
				o.vals[k] = val
			} else {
				o.flags[v] = true
			}
		}
	}
	return o
}

func (o callOpts) flag(name string) bool { return o.flags[name] }

func (o callOpts) intVal(key string, fallback int) int {
	if v, ok := o.vals[key]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// renderBarCall handles {{ progress_bar }} and its variants. An integer
// argument fixes the bar width and renders immediately; without one the call
// emits a placeholder and the layout pass sizes the bar to the remaining
// line width. "style=blocks" and "style=thin" pick a character set;
// "fill= head= empty= left= right=" override individual characters.
func renderBarCall(snap *JobSnapshot, args []any) string {
	if !snap.HasProgress {
		return ""
	}
	o := parseCallArgs(args)
	if o.flag("hide_complete") && snap.Total > 0 && snap.Cur >= snap.Total {
		return ""
	}
	chars := DefaultBarChars()
	switch o.vals["style"] {
	case "blocks":
		chars = BlockBarChars()
	case "thin":
		chars = ThinBarChars()
	}
	for key, dst := range map[string]*string{
		"fill": &chars.Fill, "head": &chars.Head, "empty": &chars.Empty,
		"left": &chars.Left, "right": &chars.Right,
	} {
		if v, ok := o.vals[key]; ok {
			*dst = v
		}
	}
	if o.hasNum && o.num > 0 {
		return renderBar(snap.Cur, snap.Total, o.num, chars)
	}
	return fmt.Sprintf("%s%s cur=%d total=%d chars=%s>%s",
		flexTag, barTag, snap.Cur, snap.Total, encodeBarChars(chars), flexTag)
}

// renderETA estimates time to completion from the smoothed rate, falling
// back to linear extrapolation over the operation's elapsed time when too
// few samples exist. Jobs without a total report "-"; a finished job
// reports 0s, or nothing with hide_complete.
func renderETA(snap *JobSnapshot, ctx *renderContext, hideComplete bool) string {
	if !snap.HasProgress || snap.Total == 0 {
		return "-"
	}
	remaining := snap.Total - snap.Cur
	if remaining == 0 {
		if hideComplete {
			return ""
		}
		return FormatDuration(0)
	}
	if snap.HasRate && snap.Rate > 0 {
		secs := float64(remaining) / snap.Rate
		return FormatDuration(time.Duration(secs * float64(time.Second)))
	}
	if snap.Cur > 0 {
		elapsed := ctx.now.Sub(snap.OpStart)
		est := time.Duration(float64(elapsed) * float64(remaining) / float64(snap.Cur))
		return FormatDuration(est)
	}
	return "-"
}

// renderRate formats the smoothed throughput, switching to per-minute for
// anything slower than one unit per second.
func renderRate(snap *JobSnapshot) string {
	if !snap.HasRate {
		return ""
	}
	r := snap.Rate
	switch {
	case r > 0 && r < 1:
		return strconv.FormatFloat(r*60, 'f', 1, 64) + "/min"
	case r < 1000:
		return strconv.FormatFloat(r, 'f', 1, 64) + "/s"
	default:
		return FormatCount(uint64(r), 1) + "/s"
	}
}

// statusIndicator returns the animated spinner for running jobs and a fixed
// icon for every other status.
func statusIndicator(snap *JobSnapshot, ctx *renderContext, override string) string {
	switch snap.Status {
	case StatusRunning:
		if ctx.textMode {
			return ""
		}
		name := override
		if name == "" {
			name, _ = snap.Props["spinner"].(string)
		}
		if name == "" {
			name = DefaultSpinner
		}
		return style.Eblue(spinnerFrame(name, ctx.now.Sub(snap.CreatedAt)))
	case StatusPending:
		return style.Edim("⏸")
	case StatusDone:
		return style.Egreen("✔")
	case StatusFailed:
		return style.Ered("✗")
	case StatusWarn:
		return style.Eyellow("⚠")
	default:
		return ""
	}
}
