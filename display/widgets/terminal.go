package widgets

import (
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
)

// DetectTerminalSize returns the current terminal dimensions.
// It attempts TTY detection first via the term package, then falls back
// to COLUMNS/LINES environment variables, and finally to 80x24 defaults.
func DetectTerminalSize() (width, height int) {
	if w, h, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 && h > 0 {
		return w, h
	}

	width = envInt("COLUMNS", 80)
	height = envInt("LINES", 24)
	return width, height
}

func envInt(name string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(name)); err == nil && v > 0 {
		return v
	}
	return fallback
}
