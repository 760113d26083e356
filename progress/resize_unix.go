//go:build unix

package progress

import (
	"os"
	"os/signal"
	"syscall"
)

// watchResize invalidates the display's cached terminal width whenever the
// terminal is resized, so the next frame re-measures and flex segments
// adapt.
func watchResize(d *Display) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	for {
		select {
		case <-d.stopCh:
			signal.Stop(ch)
			return
		case <-ch:
			d.invalidateWidth()
		}
	}
}
