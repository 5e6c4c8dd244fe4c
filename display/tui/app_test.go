package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

// fakeSource is a StateSource with a settable state.
type fakeSource struct {
	mu         sync.Mutex
	state      monitor.SystemState
	host       hostmetrics.HostInfo
	terminate  func(pid int32) error
	terminated []int32
}

func (f *fakeSource) Current() monitor.SystemState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeSource) set(s monitor.SystemState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = s
}

func (f *fakeSource) Interval() time.Duration { return time.Second }

func (f *fakeSource) HostInfo(context.Context) hostmetrics.HostInfo { return f.host }

func (f *fakeSource) RequestTermination(_ context.Context, pid int32) error {
	f.mu.Lock()
	f.terminated = append(f.terminated, pid)
	f.mu.Unlock()
	if f.terminate != nil {
		return f.terminate(pid)
	}
	return nil
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// sampleState returns a published state with three processes.
func sampleState(tick uint64) monitor.SystemState {
	return monitor.SystemState{
		Tick:        tick,
		SampledAt:   baseTime.Add(time.Duration(tick) * time.Second),
		CPUPercent:  37.5,
		RAMPercent:  61.25,
		DiskPercent: 48,
		History:     []float64{10, 20, 37.5},
		Processes: monitor.ProcessSnapshot{
			{PID: 1, Name: "init", CPUPercent: 0.5, MemPercent: 10},
			{PID: 7, Name: "idle", CPUPercent: 3, MemPercent: 5},
			{PID: 42, Name: "busy", CPUPercent: 80, MemPercent: 2},
		},
	}
}

// isQuitCmd executes a tea.Cmd and returns true if it produces a tea.QuitMsg.
func isQuitCmd(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	msg := cmd()
	_, ok := msg.(tea.QuitMsg)
	return ok
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// send feeds msg to m and returns the updated Model.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return next, cmd
}

// readyModel returns a sized model that has polled src once.
func readyModel(t *testing.T, src *fakeSource) Model {
	t.Helper()
	m := NewModel(src, Options{})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = send(t, m, pollMsg(baseTime))
	return m
}

func TestNewModel(t *testing.T) {
	m := NewModel(&fakeSource{}, Options{})

	if m.activeTab != TabOverview {
		t.Errorf("expected activeTab to be TabOverview, got %d", m.activeTab)
	}
	if m.ready {
		t.Error("expected ready to be false")
	}
	if m.sortKey != monitor.SortByCPU {
		t.Errorf("sortKey = %q, want cpu", m.sortKey)
	}
	if !m.state.IsZero() {
		t.Error("expected zero state before the first poll")
	}
	if activeTheme.Name != "neon" {
		t.Errorf("theme = %q, want neon", activeTheme.Name)
	}
}

func TestNewModel_Options(t *testing.T) {
	defer ApplyTheme(NeonTheme)

	m := NewModel(&fakeSource{}, Options{Sort: monitor.SortByName, Theme: "minimal", ProcessRows: 5})
	if m.sortKey != monitor.SortByName {
		t.Errorf("sortKey = %q, want name", m.sortKey)
	}
	if activeTheme.Name != "minimal" {
		t.Errorf("theme = %q, want minimal", activeTheme.Name)
	}
	if got := allPresets[m.themeCursor].Name; got != "minimal" {
		t.Errorf("theme cursor on %q, want minimal", got)
	}

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if h := m.table.Height(); h != 5 {
		t.Errorf("table height = %d, want 5", h)
	}
}

func TestModel_Init(t *testing.T) {
	m := NewModel(&fakeSource{}, Options{})
	if cmd := m.Init(); cmd == nil {
		t.Error("expected Init() to return a command")
	}
}

func TestModel_Update_Quit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyCtrlC}} {
		m := NewModel(&fakeSource{}, Options{})
		_, cmd := m.Update(msg)
		if !isQuitCmd(cmd) {
			t.Errorf("expected %q to produce tea.Quit command", msg.String())
		}
	}
}

func TestModel_Update_TabCycling(t *testing.T) {
	m := NewModel(&fakeSource{}, Options{})

	want := []Tab{TabProcesses, TabDisk, TabNetwork, TabSystem, TabSettings, TabOverview}
	for _, w := range want {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.activeTab != w {
			t.Fatalf("after tab: activeTab = %d, want %d", m.activeTab, w)
		}
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.activeTab != TabSettings {
		t.Errorf("shift+tab from Overview: activeTab = %d, want TabSettings", m.activeTab)
	}
}

func TestModel_Update_DirectTab(t *testing.T) {
	tests := []struct {
		key  rune
		want Tab
	}{
		{'1', TabOverview},
		{'2', TabProcesses},
		{'3', TabDisk},
		{'4', TabNetwork},
		{'5', TabSystem},
		{'6', TabSettings},
	}
	for _, tt := range tests {
		m := NewModel(&fakeSource{}, Options{})
		m, _ = send(t, m, runeKey(tt.key))
		if m.activeTab != tt.want {
			t.Errorf("key %q: activeTab = %d, want %d", tt.key, m.activeTab, tt.want)
		}
	}
}

func TestModel_Update_Poll(t *testing.T) {
	src := &fakeSource{}
	m := NewModel(src, Options{})

	m, cmd := send(t, m, pollMsg(baseTime))
	if cmd == nil {
		t.Fatal("expected poll to schedule the next poll")
	}
	if !m.state.IsZero() {
		t.Fatal("expected zero state while the sampler has not published")
	}

	src.set(sampleState(1))
	m, _ = send(t, m, pollMsg(baseTime.Add(time.Second)))
	if m.state.Tick != 1 {
		t.Errorf("state tick = %d, want 1", m.state.Tick)
	}
	if !m.lastUpdated.Equal(baseTime.Add(time.Second)) {
		t.Errorf("lastUpdated = %v", m.lastUpdated)
	}

	src.set(sampleState(2))
	m, _ = send(t, m, pollMsg(baseTime.Add(2*time.Second)))
	if m.prev.Tick != 1 || m.state.Tick != 2 {
		t.Errorf("prev/state ticks = %d/%d, want 1/2", m.prev.Tick, m.state.Tick)
	}

	// Polling again without a new tick keeps prev intact.
	m, _ = send(t, m, pollMsg(baseTime.Add(3*time.Second)))
	if m.prev.Tick != 1 {
		t.Errorf("prev tick = %d after repeated poll, want 1", m.prev.Tick)
	}
}

func TestModel_Update_Refresh(t *testing.T) {
	src := &fakeSource{}
	m := NewModel(src, Options{})

	src.set(sampleState(3))
	m, cmd := send(t, m, runeKey('r'))
	if cmd != nil {
		t.Error("refresh must not start a second poll chain")
	}
	if m.state.Tick != 3 {
		t.Errorf("state tick = %d, want 3", m.state.Tick)
	}
}

func TestModel_Update_HostInfo(t *testing.T) {
	src := &fakeSource{host: hostmetrics.HostInfo{OS: "linux", Hostname: "node1"}}
	m := NewModel(src, Options{})

	msg := hostInfoCmd(src)()
	m, _ = send(t, m, msg)
	if m.host.Hostname != "node1" {
		t.Errorf("host = %+v", m.host)
	}
}

func TestModel_View_NotReady(t *testing.T) {
	m := NewModel(&fakeSource{}, Options{})
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q, want Initializing...", got)
	}
}

func TestModel_View_Ready(t *testing.T) {
	src := &fakeSource{}
	m := readyModel(t, src)

	view := m.View()
	for _, name := range tabNames {
		if !strings.Contains(view, name) {
			t.Errorf("view missing tab %q", name)
		}
	}
	if !strings.Contains(view, "waiting for first sample") {
		t.Error("expected pending status before the first tick")
	}

	src.set(sampleState(4))
	m, _ = send(t, m, pollMsg(baseTime.Add(4*time.Second)))
	view = m.View()
	for _, want := range []string{"tick 4", "CPU", "RAM", "37.5%", "CPU history (3 of 60 samples)", "Updated:"} {
		if !strings.Contains(view, want) {
			t.Errorf("overview missing %q:\n%s", want, view)
		}
	}
}

func TestModel_View_AllTabs(t *testing.T) {
	src := &fakeSource{
		state: sampleState(1),
		host:  hostmetrics.HostInfo{OS: "linux", Hostname: "node1", Machine: "x86_64"},
	}
	m := readyModel(t, src)
	m, _ = send(t, m, hostInfoCmd(src)())

	tests := []struct {
		key  rune
		want string
	}{
		{'2', "3 processes"},
		{'3', "Disk Usage"},
		{'4', "Network Traffic"},
		{'5', "node1"},
		{'6', "Theme"},
	}
	for _, tt := range tests {
		m, _ = send(t, m, runeKey(tt.key))
		if view := m.View(); !strings.Contains(view, tt.want) {
			t.Errorf("tab %q: view missing %q", tt.key, tt.want)
		}
	}
}
