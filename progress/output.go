package progress

import (
	"io"

	"github.com/mattn/go-isatty"
)

// Output selects how frames reach the terminal.
type Output int

const (
	// OutputUI repaints a live region in place using cursor movement.
	OutputUI Output = iota
	// OutputText appends a plain line whenever a job's rendered text
	// changes, with no escape sequences and no spinner animation. This is
	// what CI logs and redirected output get.
	OutputText
)

// DetectOutput picks the output mode for a writer: a terminal gets the live
// UI, everything else gets text.
func DetectOutput(w io.Writer) Output {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return OutputText
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return OutputUI
	}
	return OutputText
}
