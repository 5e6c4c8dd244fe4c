package tui

import (
	"fmt"
	"strconv"

	"emperror.dev/errors"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/display/widgets"
	"gitlab.com/tinyland/lab/hostpulse/internal/format"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

// newProcessTable creates the process table with columns sized for layout.
func newProcessTable(layout LayoutConfig) table.Model {
	t := table.New(
		table.WithColumns(processColumns(layout, monitor.SortByCPU)),
		table.WithHeight(10),
		table.WithKeyMap(keys.tableKeys()),
	)
	t.SetStyles(processTableStyles())
	return t
}

// processColumns returns the table columns, marking the active sort column.
func processColumns(layout LayoutConfig, sortKey monitor.SortKey) []table.Column {
	title := func(k monitor.SortKey) string {
		if k == sortKey {
			return k.Label() + " ▼"
		}
		return k.Label()
	}
	return []table.Column{
		{Title: title(monitor.SortByPID), Width: 8},
		{Title: title(monitor.SortByName), Width: layout.NameWidth},
		{Title: title(monitor.SortByCPU), Width: 8},
		{Title: title(monitor.SortByMem), Width: 8},
	}
}

// processTableStyles builds table styles from the active theme.
func processTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(activeTheme.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(activeTheme.Secondary)
	s.Selected = s.Selected.
		Foreground(activeTheme.Background).
		Background(activeTheme.Primary).
		Bold(true)
	return s
}

// processRows converts a sorted snapshot into table rows.
func processRows(procs monitor.ProcessSnapshot, nameWidth int) []table.Row {
	rows := make([]table.Row, len(procs))
	for i, p := range procs {
		rows[i] = table.Row{
			strconv.Itoa(int(p.PID)),
			format.TruncateWithEllipsis(p.Name, nameWidth),
			fmt.Sprintf("%.1f", p.CPUPercent),
			fmt.Sprintf("%.2f", p.MemPercent),
		}
	}
	return rows
}

// refreshProcesses re-sorts the current snapshot into the table and keeps
// the cursor on the previously selected pid when it is still listed.
func (m *Model) refreshProcesses() {
	selected, hadSelection := m.selectedPID()

	m.procs = monitor.SortProcesses(m.state.Processes, m.sortKey, 0)
	layout := LayoutForSize(DetectLayout(m.width), m.width)
	m.table.SetColumns(processColumns(layout, m.sortKey))
	m.table.SetRows(processRows(m.procs, layout.NameWidth))

	if hadSelection {
		for i, p := range m.procs {
			if p.PID == selected {
				m.table.SetCursor(i)
				return
			}
		}
	}
	// An empty row set leaves the cursor at -1 and SetRows never raises it.
	if m.table.Cursor() < 0 && len(m.procs) > 0 {
		m.table.SetCursor(0)
	}
}

// tableHeaderHeight is the header line plus its bottom border. The table
// counts it as part of the height it is given.
const tableHeaderHeight = 2

// resizeTable fits the process table to the terminal, showing at most
// processRows data rows.
func (m *Model) resizeTable() {
	// One line goes to the summary above the table.
	rows := m.contentHeight() - 1 - tableHeaderHeight
	if m.processRows > 0 && m.processRows < rows {
		rows = m.processRows
	}
	if rows < 1 {
		rows = 1
	}
	m.table.SetHeight(rows + tableHeaderHeight)
	m.refreshProcesses()
}

// selectedPID returns the pid under the table cursor.
func (m Model) selectedPID() (int32, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.procs) {
		return 0, false
	}
	return m.procs[i].PID, true
}

// handleProcessKey handles keys of the Processes tab.
func (m Model) handleProcessKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Sort):
		m.sortKey = m.sortKey.Next()
		m.refreshProcesses()
		return m, nil

	case key.Matches(msg, keys.Kill):
		pid, ok := m.selectedPID()
		if !ok {
			m.status, m.statusLevel = "no process selected", widgets.StatusWarning
			return m, nil
		}
		m.status, m.statusLevel = fmt.Sprintf("terminating pid %d...", pid), widgets.StatusPending
		return m, terminateCmd(m.src, pid)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// terminationStatus turns a gateway result into a status line.
func terminationStatus(pid int32, err error) (string, widgets.StatusLevel) {
	if err == nil {
		return fmt.Sprintf("termination requested for pid %d", pid), widgets.StatusOK
	}

	var termErr *hostmetrics.TerminationError
	if !errors.As(err, &termErr) {
		return fmt.Sprintf("pid %d: %v", pid, err), widgets.StatusCritical
	}
	switch termErr.Kind {
	case hostmetrics.TerminationNotFound:
		return fmt.Sprintf("pid %d: no such process", pid), widgets.StatusWarning
	case hostmetrics.TerminationPermissionDenied:
		return fmt.Sprintf("pid %d: permission denied", pid), widgets.StatusCritical
	default:
		return fmt.Sprintf("pid %d: %v", pid, termErr.Err), widgets.StatusCritical
	}
}

// renderProcessesContent renders the Processes tab.
func (m Model) renderProcessesContent() string {
	if m.state.IsZero() {
		return styleMuted.Render("Waiting for the first sample...")
	}

	summary := fmt.Sprintf("%d processes  sorted by %s", len(m.procs), m.sortKey.Label())
	if m.state.IsUnavailable(hostmetrics.MetricProcesses) {
		summary += styleError.Render("  (process list from an earlier tick)")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styleTitle.Render(summary),
		m.table.View(),
	)
}
