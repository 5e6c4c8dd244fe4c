package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks contains 8 unicode block characters for sparkline rendering,
// ordered from lowest to highest.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// SparklineConfig controls the appearance of a one-line sparkline.
type SparklineConfig struct {
	// Data points to render (most recent last).
	Data []float64
	// Width is the number of characters to render. If 0, uses len(Data).
	Width int
	// Min and Max fix the vertical scale. If Min == Max, the data range is used.
	Min float64
	Max float64
	// Color is the lipgloss color for the sparkline characters.
	Color lipgloss.Color
}

// RenderSparkline renders a unicode sparkline. Older points are dropped when
// Data is longer than Width; the line is left-padded when shorter.
func RenderSparkline(cfg SparklineConfig) string {
	if len(cfg.Data) == 0 {
		return ""
	}

	data := cfg.Data
	width := cfg.Width
	if width <= 0 {
		width = len(data)
	}
	if width < len(data) {
		data = data[len(data)-width:]
	}

	lo, hi := cfg.Min, cfg.Max
	if lo == hi {
		lo, hi = dataRange(data)
	}

	runes := make([]rune, 0, len(data))
	for _, v := range data {
		runes = append(runes, sparkBlocks[level(v, lo, hi, len(sparkBlocks))])
	}

	out := string(runes)
	if width > len(data) {
		out = strings.Repeat(" ", width-len(data)) + out
	}
	if cfg.Color != "" {
		out = lipgloss.NewStyle().Foreground(cfg.Color).Render(out)
	}
	return out
}

// RenderPercentSparkline renders percentages on a fixed 0 to 100 scale, so
// the height of a block is comparable across redraws.
func RenderPercentSparkline(data []float64, width int, color lipgloss.Color) string {
	return RenderSparkline(SparklineConfig{
		Data:  data,
		Width: width,
		Min:   0,
		Max:   100,
		Color: color,
	})
}

// RenderTrend renders percentages as a multi-row bar chart of the given
// height, one column per sample, newest on the right. Each row is
// width characters wide.
func RenderTrend(data []float64, width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}
	pad := width - len(data)

	// Eighths of a row filled per column.
	fill := make([]int, len(data))
	for i, v := range data {
		fill[i] = level(v, 0, 100, height*8+1)
	}

	rows := make([]string, height)
	for r := 0; r < height; r++ {
		// Row 0 is the top of the chart.
		base := (height - 1 - r) * 8
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", pad))
		for _, f := range fill {
			switch n := f - base; {
			case n >= 8:
				sb.WriteRune('█')
			case n <= 0:
				sb.WriteRune(' ')
			default:
				sb.WriteRune(sparkBlocks[n-1])
			}
		}
		rows[r] = sb.String()
	}
	return rows
}

// level maps v within [lo, hi] to an index in [0, steps).
func level(v, lo, hi float64, steps int) int {
	if hi <= lo || math.IsNaN(v) {
		return steps / 2
	}
	n := (v - lo) / (hi - lo)
	n = math.Max(0, math.Min(1, n))
	idx := int(n * float64(steps-1))
	if idx >= steps {
		idx = steps - 1
	}
	return idx
}

func dataRange(data []float64) (lo, hi float64) {
	lo, hi = data[0], data[0]
	for _, v := range data {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
