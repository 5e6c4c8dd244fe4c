// Package tui is the interactive terminal dashboard of hostpulse. It is a
// thin reader of the monitor: it polls the published SystemState on a
// timer and never samples the OS itself.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/display/widgets"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

// StateSource is the part of the monitor the dashboard reads from.
type StateSource interface {
	Current() monitor.SystemState
	Interval() time.Duration
	HostInfo(ctx context.Context) hostmetrics.HostInfo
	RequestTermination(ctx context.Context, pid int32) error
}

// Tab identifies which tab is currently active.
type Tab int

const (
	TabOverview Tab = iota
	TabProcesses
	TabDisk
	TabNetwork
	TabSystem
	TabSettings
	tabCount // sentinel for wrapping
)

// tabNames maps each Tab value to its display label.
var tabNames = map[Tab]string{
	TabOverview:  "Overview",
	TabProcesses: "Processes",
	TabDisk:      "Disk",
	TabNetwork:   "Network",
	TabSystem:    "System Info",
	TabSettings:  "Settings",
}

// terminateTimeout bounds one termination request issued from the TUI.
const terminateTimeout = 5 * time.Second

// Options configures the dashboard.
type Options struct {
	// Sort is the initial process ordering. Empty selects CPU.
	Sort monitor.SortKey
	// ProcessRows is the number of data rows in the process table, not
	// counting its header. Zero fits the table to the terminal.
	ProcessRows int
	// Theme names the initial preset. Unknown names select the default.
	Theme string
	// Logger for termination outcomes. Nil is safe (a discard logger is used).
	Logger *slog.Logger
}

// Messages
type (
	// pollMsg asks the model to read the latest published state.
	pollMsg time.Time

	hostInfoMsg struct {
		info hostmetrics.HostInfo
	}

	terminateMsg struct {
		pid int32
		err error
	}
)

// Model is the top-level Bubbletea model for the hostpulse TUI.
type Model struct {
	src    StateSource
	logger *slog.Logger
	zones  *zone.Manager

	activeTab Tab
	width     int
	height    int
	ready     bool
	showHelp  bool

	state monitor.SystemState
	// prev is the state seen on the poll before state, for network rates.
	prev monitor.SystemState
	host hostmetrics.HostInfo

	sortKey     monitor.SortKey
	processRows int
	procs       monitor.ProcessSnapshot
	table       table.Model
	help        help.Model

	status      string
	statusLevel widgets.StatusLevel

	themeCursor int
	lastUpdated time.Time
}

// NewModel returns an initialized Model with TabOverview active.
func NewModel(src StateSource, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sortKey := opts.Sort
	if sortKey == "" {
		sortKey = monitor.SortByCPU
	}

	preset := GetThemePreset(opts.Theme)
	ApplyTheme(preset)
	themeCursor := 0
	for i, p := range allPresets {
		if p.Name == preset.Name {
			themeCursor = i
		}
	}

	return Model{
		src:         src,
		logger:      logger,
		zones:       zone.New(),
		activeTab:   TabOverview,
		sortKey:     sortKey,
		processRows: opts.ProcessRows,
		table:       newProcessTable(LayoutForSize(LayoutNormal, 80)),
		help:        help.New(),
		themeCursor: themeCursor,
	}
}

// Init implements tea.Model. It reads the current state right away and
// fetches the host description in the background.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return pollMsg(time.Now()) },
		hostInfoCmd(m.src),
	)
}

// pollCmd schedules the next read of the published state.
func pollCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

// hostInfoCmd queries the static host description off the UI goroutine.
func hostInfoCmd(src StateSource) tea.Cmd {
	return func() tea.Msg {
		return hostInfoMsg{info: src.HostInfo(context.Background())}
	}
}

// terminateCmd sends a termination request through the monitor gateway.
func terminateCmd(src StateSource, pid int32) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), terminateTimeout)
		defer cancel()
		return terminateMsg{pid: pid, err: src.RequestTermination(ctx, pid)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			for i := Tab(0); i < tabCount; i++ {
				if m.zones.Get(tabZoneID(i)).InBounds(msg) {
					m.switchTab(i)
					break
				}
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeTable()
		return m, nil

	case pollMsg:
		m.applyState(m.src.Current(), time.Time(msg))
		return m, pollCmd(m.src.Interval())

	case hostInfoMsg:
		m.host = msg.info
		return m, nil

	case terminateMsg:
		m.status, m.statusLevel = terminationStatus(msg.pid, msg.err)
		m.logger.Debug("tui: termination result", "pid", msg.pid, "error", msg.err)
		return m, nil
	}

	return m, nil
}

// handleKey dispatches global keys first, then keys of the active tab.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.NextTab):
		m.switchTab((m.activeTab + 1) % tabCount)
		return m, nil
	case key.Matches(msg, keys.PrevTab):
		m.switchTab((m.activeTab - 1 + tabCount) % tabCount)
		return m, nil
	case key.Matches(msg, keys.Tab1):
		m.switchTab(TabOverview)
		return m, nil
	case key.Matches(msg, keys.Tab2):
		m.switchTab(TabProcesses)
		return m, nil
	case key.Matches(msg, keys.Tab3):
		m.switchTab(TabDisk)
		return m, nil
	case key.Matches(msg, keys.Tab4):
		m.switchTab(TabNetwork)
		return m, nil
	case key.Matches(msg, keys.Tab5):
		m.switchTab(TabSystem)
		return m, nil
	case key.Matches(msg, keys.Tab6):
		m.switchTab(TabSettings)
		return m, nil
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, keys.Refresh):
		m.applyState(m.src.Current(), time.Now())
		return m, nil
	}

	switch m.activeTab {
	case TabProcesses:
		return m.handleProcessKey(msg)
	case TabSettings:
		return m.handleSettingsKey(msg), nil
	}
	return m, nil
}

// switchTab activates tab and clears the transient status line.
func (m *Model) switchTab(tab Tab) {
	if tab == m.activeTab {
		return
	}
	m.activeTab = tab
	m.status = ""
	if tab == TabProcesses {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

// applyState records a newly polled state and refreshes derived views.
func (m *Model) applyState(s monitor.SystemState, at time.Time) {
	if s.Tick == m.state.Tick && !m.state.IsZero() {
		return
	}
	m.prev = m.state
	m.state = s
	m.lastUpdated = at
	m.refreshProcesses()
}

// View implements tea.Model. It renders the header, active tab content, and footer.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	content := m.renderTabContent()
	footer := m.renderFooter()

	return m.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, header, content, footer))
}

// tabZoneID is the bubblezone id of a tab label.
func tabZoneID(t Tab) string {
	return fmt.Sprintf("tab-%d", int(t))
}

// renderHeader renders the tab bar with the active tab highlighted and the
// sampler status on the right.
func (m Model) renderHeader() string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		name := tabNames[i]
		style := styleInactiveTab
		if i == m.activeTab {
			style = styleActiveTab
		}
		tabs = append(tabs, m.zones.Mark(tabZoneID(i), style.Render(name)))
	}

	level := widgets.SamplerStatus(m.state.Tick, m.state.Unavailable)
	text := "waiting for first sample"
	if !m.state.IsZero() {
		text = fmt.Sprintf("tick %d", m.state.Tick)
	}
	status := widgets.RenderStatus(widgets.StatusConfig{Level: level, Text: text, ShowIcon: true})

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	gap := m.width - lipgloss.Width(tabBar) - lipgloss.Width(status) - 1
	if gap > 0 {
		tabBar += lipgloss.NewStyle().Width(gap).Render("") + status
	}
	return styleHeader.Width(m.width).Render(tabBar)
}

// contentHeight is the number of rows left for the active tab.
func (m Model) contentHeight() int {
	// Reserve space for header and footer (approximate).
	h := m.height - 6
	if h < 1 {
		h = 1
	}
	return h
}

// renderTabContent delegates to the appropriate tab renderer based on the active tab.
func (m Model) renderTabContent() string {
	layout := LayoutForSize(DetectLayout(m.width), m.width)

	var content string
	switch m.activeTab {
	case TabOverview:
		content = renderOverviewContent(m.state, layout, m.width)
	case TabProcesses:
		content = m.renderProcessesContent()
	case TabDisk:
		content = renderDiskContent(m.state, layout)
	case TabNetwork:
		content = renderNetworkContent(m.state, m.prev)
	case TabSystem:
		content = renderSystemContent(m.host, m.width)
	case TabSettings:
		content = renderSettingsContent(m.themeCursor, m.width)
	}

	return styleContent.Width(m.width).Render(content)
}

// renderFooter renders the status line, help text and last updated timestamp.
func (m Model) renderFooter() string {
	var lines []string
	if m.status != "" {
		lines = append(lines, widgets.RenderStatus(widgets.StatusConfig{
			Level:    m.statusLevel,
			Text:     m.status,
			ShowIcon: true,
		}))
	}

	helpLine := m.help.View(keys)
	if !m.lastUpdated.IsZero() {
		helpLine += styleMuted.Render(fmt.Sprintf("  Updated: %s", m.lastUpdated.Format("15:04:05")))
	}
	lines = append(lines, helpLine)

	return styleFooter.Width(m.width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Run starts the dashboard on the terminal and blocks until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, src StateSource, opts Options) error {
	m := NewModel(src, opts)
	defer m.zones.Close()

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
