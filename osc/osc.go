// Package osc emits OSC 9;4 sequences, the de-facto protocol for a
// terminal's native progress indicator (taskbar flash on Windows Terminal,
// dock badge in Ghostty, and so on).
package osc

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// State is the progress state byte of the OSC 9;4 sequence.
type State int

const (
	// StateRemove clears the indicator.
	StateRemove State = 0
	// StateNormal shows determinate progress.
	StateNormal State = 1
	// StateError shows progress in an error color.
	StateError State = 2
	// StateIndeterminate shows activity without a percentage.
	StateIndeterminate State = 3
	// StatePaused shows progress in a paused color.
	StatePaused State = 4
)

var (
	mu     sync.Mutex
	forced *bool
)

// Configure overrides terminal detection for the rest of the process, for
// callers that know better than the environment.
func Configure(enabled bool) {
	mu.Lock()
	forced = &enabled
	mu.Unlock()
}

// Supported reports whether the attached terminal is known to handle
// OSC 9;4. Unknown terminals get nothing; a stray escape sequence shows up
// as garbage in terminals that don't eat it.
func Supported() bool {
	mu.Lock()
	f := forced
	mu.Unlock()
	if f != nil {
		return *f
	}
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return false
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "ghostty", "vscode", "iTerm.app":
		return true
	}
	if os.Getenv("WT_SESSION") != "" {
		return true
	}
	if os.Getenv("VTE_VERSION") != "" {
		return true
	}
	return false
}

// Set writes a progress sequence. percent is clamped to 0-100 and ignored
// by the terminal for the remove and indeterminate states.
func Set(w io.Writer, state State, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "\x1b]9;4;%d;%d\x1b\\", int(state), percent)
	_, err := io.WriteString(w, sb.String())
	return err
}

// Clear removes the indicator.
func Clear(w io.Writer) error {
	return Set(w, StateRemove, 0)
}
