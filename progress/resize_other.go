//go:build !unix

package progress

// watchResize is a no-op on platforms without SIGWINCH; the width is
// measured once and kept.
func watchResize(*Display) {}
