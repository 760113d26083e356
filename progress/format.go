package progress

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration compactly: "42s", "1m30s", "1h2m3s".
func FormatDuration(d time.Duration) string {
	secs := int64(d.Seconds())
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm%ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh%dm%ds", secs/3600, (secs%3600)/60, secs%60)
	}
}

// FormatBytes renders a byte count with binary prefixes (KB = 1024 bytes).
func FormatBytes(n uint64) string {
	const (
		kb = 1024.0
		mb = kb * 1024.0
		gb = mb * 1024.0
	)
	v := float64(n)
	switch {
	case v >= gb:
		return fmt.Sprintf("%.1f GB", v/gb)
	case v >= mb:
		return fmt.Sprintf("%.1f MB", v/mb)
	case v >= kb:
		return fmt.Sprintf("%.1f KB", v/kb)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// FormatCount renders a count with decimal SI suffixes (K = 1000).
func FormatCount(n uint64, decimals int) string {
	const (
		k = 1_000.0
		m = 1_000_000.0
		b = 1_000_000_000.0
	)
	if decimals < 0 {
		decimals = 0
	}
	v := float64(n)
	switch {
	case v >= b:
		return fmt.Sprintf("%.*fB", decimals, v/b)
	case v >= m:
		return fmt.Sprintf("%.*fM", decimals, v/m)
	case v >= k:
		return fmt.Sprintf("%.*fK", decimals, v/k)
	default:
		return fmt.Sprintf("%d", n)
	}
}
