package tui

import (
	"strings"
	"syscall"
	"testing"
	"time"

	"emperror.dev/errors"
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/display/widgets"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

// processesModel returns a ready model on the Processes tab.
func processesModel(t *testing.T, src *fakeSource) Model {
	t.Helper()
	m := readyModel(t, src)
	m, _ = send(t, m, runeKey('2'))
	return m
}

func pids(m Model) []int32 {
	out := make([]int32, len(m.procs))
	for i, p := range m.procs {
		out[i] = p.PID
	}
	return out
}

func equalPIDs(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProcesses_SortCycling(t *testing.T) {
	m := processesModel(t, &fakeSource{state: sampleState(1)})

	tests := []struct {
		key  monitor.SortKey
		want []int32
	}{
		{monitor.SortByMem, []int32{1, 7, 42}},
		{monitor.SortByPID, []int32{1, 7, 42}},
		{monitor.SortByName, []int32{42, 7, 1}},
		{monitor.SortByCPU, []int32{42, 7, 1}},
	}

	if got := pids(m); !equalPIDs(got, []int32{42, 7, 1}) {
		t.Fatalf("initial cpu order = %v", got)
	}
	for _, tt := range tests {
		m, _ = send(t, m, runeKey('s'))
		if m.sortKey != tt.key {
			t.Fatalf("sortKey = %q, want %q", m.sortKey, tt.key)
		}
		if got := pids(m); !equalPIDs(got, tt.want) {
			t.Errorf("%s order = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestProcesses_SortHeaderMarksColumn(t *testing.T) {
	m := processesModel(t, &fakeSource{state: sampleState(1)})
	if view := m.View(); !strings.Contains(view, "CPU% ▼") {
		t.Errorf("expected sort marker on CPU column:\n%s", view)
	}
}

func TestProcesses_CursorFollowsPID(t *testing.T) {
	src := &fakeSource{state: sampleState(1)}
	m := processesModel(t, src)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if pid, _ := m.selectedPID(); pid != 7 {
		t.Fatalf("selected pid = %d, want 7", pid)
	}

	next := sampleState(2)
	next.Processes[1].CPUPercent = 99
	src.set(next)
	m, _ = send(t, m, pollMsg(baseTime.Add(2*time.Second)))

	if got := pids(m); !equalPIDs(got, []int32{7, 42, 1}) {
		t.Fatalf("order = %v", got)
	}
	if pid, _ := m.selectedPID(); pid != 7 {
		t.Errorf("selected pid = %d after reorder, want 7", pid)
	}
}

func TestProcesses_Kill(t *testing.T) {
	src := &fakeSource{state: sampleState(1)}
	m := processesModel(t, src)

	m, cmd := send(t, m, runeKey('k'))
	if cmd == nil {
		t.Fatal("expected k to issue a termination command")
	}
	if !strings.Contains(m.status, "terminating pid 42") {
		t.Errorf("status = %q", m.status)
	}

	msg := cmd()
	result, ok := msg.(terminateMsg)
	if !ok {
		t.Fatalf("command returned %T, want terminateMsg", msg)
	}
	if result.pid != 42 {
		t.Errorf("terminated pid = %d, want 42", result.pid)
	}
	if len(src.terminated) != 1 || src.terminated[0] != 42 {
		t.Errorf("gateway calls = %v", src.terminated)
	}

	m, _ = send(t, m, result)
	if m.status != "termination requested for pid 42" || m.statusLevel != widgets.StatusOK {
		t.Errorf("status = %q level %d", m.status, m.statusLevel)
	}
	if !strings.Contains(m.View(), "termination requested for pid 42") {
		t.Error("expected status line in view")
	}
}

func TestProcesses_SelectionAfterEmptyPoll(t *testing.T) {
	src := &fakeSource{state: monitor.SystemState{}}
	m := processesModel(t, src)
	if _, ok := m.selectedPID(); ok {
		t.Fatal("expected no selection before the first tick")
	}

	src.set(sampleState(1))
	m, _ = send(t, m, pollMsg(baseTime.Add(2*time.Second)))

	if pid, ok := m.selectedPID(); !ok || pid != 42 {
		t.Fatalf("selected pid = %d (ok=%v), want 42", pid, ok)
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if pid, _ := m.selectedPID(); pid != 7 {
		t.Errorf("after down selected pid = %d, want 7", pid)
	}

	_, cmd := send(t, m, runeKey('k'))
	if cmd == nil {
		t.Fatal("expected k to issue a termination command")
	}
	if msg, ok := cmd().(terminateMsg); !ok || msg.pid != 7 {
		t.Errorf("terminate message = %#v", msg)
	}
}

func TestProcesses_KillIgnoredOnOtherTabs(t *testing.T) {
	src := &fakeSource{state: sampleState(1)}
	m := readyModel(t, src)

	_, cmd := send(t, m, runeKey('k'))
	if cmd != nil {
		t.Error("k on the Overview tab must not terminate anything")
	}
	if len(src.terminated) != 0 {
		t.Errorf("gateway calls = %v", src.terminated)
	}
}

func TestProcesses_KillWithoutSelection(t *testing.T) {
	src := &fakeSource{state: monitor.SystemState{Tick: 1}}
	m := processesModel(t, src)

	m, cmd := send(t, m, runeKey('k'))
	if cmd != nil {
		t.Error("expected no command with an empty process list")
	}
	if m.status != "no process selected" {
		t.Errorf("status = %q", m.status)
	}
}

func TestTerminationStatus(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantText  string
		wantLevel widgets.StatusLevel
	}{
		{
			name:      "success",
			wantText:  "termination requested for pid 9",
			wantLevel: widgets.StatusOK,
		},
		{
			name:      "not found",
			err:       hostmetrics.NewTerminationError(9, syscall.ESRCH),
			wantText:  "pid 9: no such process",
			wantLevel: widgets.StatusWarning,
		},
		{
			name:      "permission denied",
			err:       hostmetrics.NewTerminationError(9, syscall.EPERM),
			wantText:  "pid 9: permission denied",
			wantLevel: widgets.StatusCritical,
		},
		{
			name:      "other kind",
			err:       &hostmetrics.TerminationError{PID: 9, Kind: hostmetrics.TerminationOther, Err: errors.New("boom")},
			wantText:  "pid 9: boom",
			wantLevel: widgets.StatusCritical,
		},
		{
			name:      "untyped",
			err:       errors.New("gateway closed"),
			wantText:  "pid 9: gateway closed",
			wantLevel: widgets.StatusCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, level := terminationStatus(9, tt.err)
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if level != tt.wantLevel {
				t.Errorf("level = %d, want %d", level, tt.wantLevel)
			}
		})
	}
}

func TestProcesses_StaleNotice(t *testing.T) {
	s := sampleState(1)
	s.Unavailable = []string{hostmetrics.MetricProcesses}
	m := processesModel(t, &fakeSource{state: s})

	if !strings.Contains(m.View(), "process list from an earlier tick") {
		t.Error("expected stale process list notice")
	}
}
