package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Alignment controls text alignment within a table column.
type Alignment int

const (
	// AlignLeft aligns text to the left (default).
	AlignLeft Alignment = iota
	// AlignRight aligns text to the right.
	AlignRight
)

// Column defines a single table column.
type Column struct {
	// Title is the header text.
	Title string
	// Width is the fixed character width. If 0, the widest cell is used.
	Width int
	// Align controls text alignment within the column.
	Align Alignment
}

// TableConfig holds the configuration for rendering a plain text table, as
// printed by the CLI.
type TableConfig struct {
	Columns []Column
	// Rows is the table data, one string per column.
	Rows [][]string
	// HeaderStyle is applied to the header row.
	HeaderStyle lipgloss.Style
	// Separator is the column separator string (default: two spaces).
	Separator string
}

// RenderTable renders rows under a header and a rule line.
func RenderTable(cfg TableConfig) string {
	if len(cfg.Columns) == 0 {
		return ""
	}
	sep := cfg.Separator
	if sep == "" {
		sep = "  "
	}

	widths := columnWidths(cfg.Columns, cfg.Rows)
	lines := make([]string, 0, len(cfg.Rows)+2)

	header := make([]string, len(cfg.Columns))
	rule := make([]string, len(cfg.Columns))
	for i, col := range cfg.Columns {
		header[i] = fit(col.Title, widths[i], col.Align)
		rule[i] = strings.Repeat("─", widths[i])
	}
	lines = append(lines,
		cfg.HeaderStyle.Render(strings.TrimRight(strings.Join(header, sep), " ")),
		strings.Join(rule, sep),
	)

	for _, row := range cfg.Rows {
		cells := make([]string, len(cfg.Columns))
		for i, col := range cfg.Columns {
			var text string
			if i < len(row) {
				text = row[i]
			}
			cells[i] = fit(text, widths[i], col.Align)
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, sep), " "))
	}

	return strings.Join(lines, "\n")
}

// fit pads or truncates s to width runes.
func fit(s string, width int, align Alignment) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) > width {
		if width == 1 {
			return string(runes[:1])
		}
		return string(runes[:width-1]) + "…"
	}
	pad := strings.Repeat(" ", width-len(runes))
	if align == AlignRight {
		return pad + s
	}
	return s + pad
}

// columnWidths uses each column's fixed width, or the widest of its title
// and cells.
func columnWidths(cols []Column, rows [][]string) []int {
	widths := make([]int, len(cols))
	for i, col := range cols {
		if col.Width > 0 {
			widths[i] = col.Width
			continue
		}
		w := len([]rune(col.Title))
		for _, row := range rows {
			if i < len(row) {
				w = max(w, len([]rune(row[i])))
			}
		}
		widths[i] = max(w, 1)
	}
	return widths
}
