// Package style provides pure string-to-string color and formatting filters
// for terminal output.
//
// Functions prefixed with E (Ecyan, Ebold, ...) target stderr; functions
// prefixed with N (Ncyan, Ndim, ...) target stdout. Each stream's color
// support is probed independently, so filters return their input unchanged
// when the stream is not a color-capable terminal or NO_COLOR is set.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	stderr = lipgloss.NewRenderer(os.Stderr)
	stdout = lipgloss.NewRenderer(os.Stdout)
)

func render(r *lipgloss.Renderer, color string, s string) string {
	return r.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
}

// Ecyan colors the string cyan for stderr.
func Ecyan(s string) string { return render(stderr, "6", s) }

// Eblue colors the string blue for stderr.
func Eblue(s string) string { return render(stderr, "4", s) }

// Egreen colors the string green for stderr.
func Egreen(s string) string { return render(stderr, "2", s) }

// Eyellow colors the string yellow for stderr.
func Eyellow(s string) string { return render(stderr, "3", s) }

// Ered colors the string red for stderr.
func Ered(s string) string { return render(stderr, "1", s) }

// Emagenta colors the string magenta for stderr.
func Emagenta(s string) string { return render(stderr, "5", s) }

// Ebold renders the string bold for stderr.
func Ebold(s string) string { return stderr.NewStyle().Bold(true).Render(s) }

// Edim renders the string dim for stderr.
func Edim(s string) string { return stderr.NewStyle().Faint(true).Render(s) }

// Eunderline underlines the string for stderr.
func Eunderline(s string) string { return stderr.NewStyle().Underline(true).Render(s) }

// Ncyan colors the string cyan for stdout.
func Ncyan(s string) string { return render(stdout, "6", s) }

// Nyellow colors the string yellow for stdout.
func Nyellow(s string) string { return render(stdout, "3", s) }

// Nred colors the string red for stdout.
func Nred(s string) string { return render(stdout, "1", s) }

// Ndim renders the string dim for stdout.
func Ndim(s string) string { return stdout.NewStyle().Faint(true).Render(s) }

// Nunderline underlines the string for stdout.
func Nunderline(s string) string { return stdout.NewStyle().Underline(true).Render(s) }
