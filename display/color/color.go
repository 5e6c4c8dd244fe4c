// Package color decides whether command output is styled.
//
// It honors the NO_COLOR convention (https://no-color.org/) and turns color
// off when output is not a terminal. When color is disabled, lipgloss is set
// to the Ascii profile so styled renders produce plain text.
package color

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/muesli/termenv"
)

// fdWriter is implemented by *os.File.
type fdWriter interface {
	Fd() uintptr
}

// isTerminal is overridable for testing.
var isTerminal = func(fd uintptr) bool {
	return term.IsTerminal(fd)
}

// ShouldDisableColor reports whether output written to w should be plain:
// NO_COLOR is set (any value), or w is not a terminal.
func ShouldDisableColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	f, ok := w.(fdWriter)
	if !ok {
		return true
	}
	return !isTerminal(f.Fd())
}

// Apply configures the global lipgloss renderer for output to w and reports
// whether color is enabled.
func Apply(w io.Writer) bool {
	if ShouldDisableColor(w) {
		ForceDisable()
		return false
	}
	return true
}

// ForceDisable sets the lipgloss color profile to Ascii unconditionally.
func ForceDisable() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
