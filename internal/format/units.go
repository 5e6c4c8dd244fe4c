package format

import (
	"fmt"
	"math"
)

const mebibyte = 1024 * 1024

// Megabytes renders a byte count in MiB with two decimals, e.g. "1.50 MB".
func Megabytes(b uint64) string {
	return fmt.Sprintf("%.2f MB", float64(b)/mebibyte)
}

// Bytes renders a byte count with a binary unit suffix: "512 B", "1.5 KB",
// "3.2 GB".
func Bytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit && exp < 5; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// Percent renders v with one decimal and a percent sign. NaN renders as "--".
func Percent(v float64) string {
	if math.IsNaN(v) {
		return "--"
	}
	return fmt.Sprintf("%.1f%%", v)
}
