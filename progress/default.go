package progress

import (
	"os"
	"sync"
	"time"

	"github.com/jdx/clx/internal/config"
	"github.com/jdx/clx/osc"
)

var (
	defaultMu      sync.Mutex
	defaultDisplay *Display
)

// Default returns the process-wide display, creating it from the
// environment on first use. Builder.Start and detached Job.Println go
// through it.
func Default() *Display {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultDisplay == nil {
		defaultDisplay = newDefault()
	}
	return defaultDisplay
}

// SetDefault replaces the process-wide display. Tests use it to capture
// output; embedders use it to share one display across libraries.
func SetDefault(d *Display) {
	defaultMu.Lock()
	defaultDisplay = d
	defaultMu.Unlock()
}

func newDefault() *Display {
	cfg := config.FromEnv()
	output := DetectOutput(os.Stderr)
	if cfg.TextMode || cfg.CI {
		output = OutputText
	}
	opts := []Option{
		WithWriter(os.Stderr),
		WithOutput(output),
	}
	if cfg.NoProgress {
		opts = append(opts, WithDisabled(true))
	}
	if cfg.Interval > 0 {
		opts = append(opts, WithInterval(cfg.Interval))
	}
	if cfg.TraceLog != "" {
		opts = append(opts, WithTraceLog(cfg.TraceLog, cfg.TraceRaw))
	}
	if output == OutputUI && osc.Supported() {
		opts = append(opts, WithReportFunc(func(percent int, state ReportState) {
			switch state {
			case ReportNone:
				osc.Clear(os.Stderr)
			case ReportError:
				osc.Set(os.Stderr, osc.StateError, percent)
			case ReportWarning:
				osc.Set(os.Stderr, osc.StatePaused, percent)
			case ReportIndeterminate:
				osc.Set(os.Stderr, osc.StateIndeterminate, percent)
			default:
				osc.Set(os.Stderr, osc.StateNormal, percent)
			}
		}))
	}
	return New(opts...)
}

// The functions below operate on the default display.

// Pause suspends rendering on the default display.
func Pause() { Default().Pause() }

// Resume re-enables rendering on the default display.
func Resume() { Default().Resume() }

// Stop shuts down the default display, leaving the final frame on screen.
func Stop() { Default().Stop() }

// StopClear shuts down the default display and erases the region.
func StopClear() { Default().StopClear() }

// Flush renders a frame on the default display immediately.
func Flush() { Default().Flush() }

// Println prints a line above the default display's live region.
func Println(s string) { Default().Println(s) }

// SetInterval changes the default display's refresh interval.
func SetInterval(iv time.Duration) { Default().SetInterval(iv) }

// SetOutput switches the default display's output mode.
func SetOutput(o Output) { Default().SetOutput(o) }

// WithTerminalLock runs fn with exclusive use of the terminal.
func WithTerminalLock(fn func()) { Default().WithTerminalLock(fn) }

// IsDisabled reports whether the default display renders at all.
func IsDisabled() bool { return Default().IsDisabled() }

// JobCount returns the number of jobs on the default display.
func JobCount() int { return Default().JobCount() }

// ActiveJobs returns the number of running jobs on the default display.
func ActiveJobs() int { return Default().ActiveJobs() }
