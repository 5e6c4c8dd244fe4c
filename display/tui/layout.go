package tui

import (
	"strings"
)

// LayoutSize represents a responsive breakpoint for terminal width.
type LayoutSize int

const (
	// LayoutCompact is used for terminals narrower than 60 characters.
	LayoutCompact LayoutSize = iota
	// LayoutNormal is used for terminals between 60 and 120 characters wide.
	LayoutNormal
	// LayoutWide is used for terminals wider than 120 characters.
	LayoutWide
)

// DetectLayout returns the appropriate LayoutSize for the given terminal width.
func DetectLayout(width int) LayoutSize {
	switch {
	case width < 60:
		return LayoutCompact
	case width <= 120:
		return LayoutNormal
	default:
		return LayoutWide
	}
}

// LayoutConfig holds responsive layout values that adapt to terminal width.
type LayoutConfig struct {
	// GaugeWidth is the character width for gauge bars.
	GaugeWidth int
	// TrendWidth is the column count of the CPU trend chart.
	TrendWidth int
	// TrendHeight is the row count of the CPU trend chart. Zero hides it
	// and a one-line sparkline is shown instead.
	TrendHeight int
	// NameWidth is the width of the process name column.
	NameWidth int
	// ContentPadding is the horizontal padding for content sections.
	ContentPadding int
}

// LayoutForSize returns a LayoutConfig appropriate for the given size and width.
func LayoutForSize(size LayoutSize, width int) LayoutConfig {
	switch size {
	case LayoutCompact:
		return LayoutConfig{
			GaugeWidth:     10,
			TrendWidth:     max(width-4, 1),
			TrendHeight:    0,
			NameWidth:      16,
			ContentPadding: 1,
		}
	case LayoutWide:
		return LayoutConfig{
			GaugeWidth:     40,
			TrendWidth:     60,
			TrendHeight:    8,
			NameWidth:      40,
			ContentPadding: 3,
		}
	default: // LayoutNormal
		return LayoutConfig{
			GaugeWidth:     24,
			TrendWidth:     min(width-8, 60),
			TrendHeight:    5,
			NameWidth:      24,
			ContentPadding: 2,
		}
	}
}

// horizontalRule returns a horizontal line of the given width using box-drawing
// characters.
func horizontalRule(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("─", width)
}

// sectionTitle renders a centered title with horizontal rules on either side.
// Format: "---- Title ----"
func sectionTitle(title string, width int) string {
	if width <= 0 {
		return title
	}

	titleLen := len([]rune(title))
	// 2 spaces around the title text.
	decorLen := titleLen + 2
	if decorLen >= width {
		return title
	}

	remaining := width - decorLen
	leftLen := remaining / 2
	rightLen := remaining - leftLen

	left := strings.Repeat("─", leftLen)
	right := strings.Repeat("─", rightLen)

	return left + " " + title + " " + right
}
