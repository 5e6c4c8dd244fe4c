package exporter

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

type fakeReader struct {
	state      monitor.SystemState
	history    []float64
	info       hostmetrics.HostInfo
	terminate  func(pid int32) error
	terminated []int32
}

func (f *fakeReader) Current() monitor.SystemState { return f.state }
func (f *fakeReader) History() []float64           { return f.history }
func (f *fakeReader) Interval() time.Duration      { return 2 * time.Second }

func (f *fakeReader) HostInfo(context.Context) hostmetrics.HostInfo { return f.info }

func (f *fakeReader) RequestTermination(_ context.Context, pid int32) error {
	f.terminated = append(f.terminated, pid)
	if f.terminate == nil {
		return nil
	}
	return f.terminate(pid)
}

var sampledAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func publishedReader() *fakeReader {
	return &fakeReader{
		state: monitor.SystemState{
			Tick:         7,
			SampledAt:    sampledAt,
			CPUPercent:   37.5,
			RAMPercent:   61.2,
			DiskPercent:  80,
			NetSentBytes: 1048576,
			NetRecvBytes: 2097152,
			History:      []float64{10, 37.5},
			Processes: monitor.ProcessSnapshot{
				{PID: 100, Name: "a", CPUPercent: 1.0, MemPercent: 2.35},
				{PID: 200, Name: "b", CPUPercent: 9.0, MemPercent: 0.5},
				{PID: 300, Name: "c", CPUPercent: 4.0, MemPercent: 7.25},
			},
			Unavailable: []string{hostmetrics.MetricDisk},
		},
		history: []float64{10, 37.5},
		info:    hostmetrics.HostInfo{OS: "linux", Hostname: "box", IP: "10.0.0.5"},
	}
}

func newTestServer(src StateReader, opts Options) *Server {
	s := NewServer(src, opts)
	s.now = func() time.Time { return sampledAt.Add(time.Second) }
	return s
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Run("pending before first tick", func(t *testing.T) {
		s := newTestServer(&fakeReader{}, Options{})
		rec := do(t, s, http.MethodGet, "/healthz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "pending", body.Status)
	})

	t.Run("ok after first tick", func(t *testing.T) {
		s := newTestServer(publishedReader(), Options{})
		rec := do(t, s, http.MethodGet, "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)

		var body HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, uint64(7), body.Tick)
		assert.Equal(t, []string{"disk"}, body.Unavailable)
	})

	t.Run("stale when ticks stop", func(t *testing.T) {
		s := newTestServer(publishedReader(), Options{})
		s.now = func() time.Time { return sampledAt.Add(time.Minute) }
		rec := do(t, s, http.MethodGet, "/healthz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"stale"`)
	})
}

func TestState(t *testing.T) {
	s := newTestServer(publishedReader(), Options{})
	rec := do(t, s, http.MethodGet, "/api/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got monitor.SystemState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(7), got.Tick)
	assert.Equal(t, 37.5, got.CPUPercent)
	assert.Len(t, got.Processes, 3)
	assert.True(t, got.IsUnavailable(hostmetrics.MetricDisk))
}

func TestHistory(t *testing.T) {
	s := newTestServer(publishedReader(), Options{})
	rec := do(t, s, http.MethodGet, "/api/history")
	require.Equal(t, http.StatusOK, rec.Code)

	var got HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []float64{10, 37.5}, got.Samples)
	assert.Equal(t, 2.0, got.IntervalSeconds)
	assert.Equal(t, monitor.HistoryCapacity, got.Capacity)
}

func TestInfo(t *testing.T) {
	s := newTestServer(publishedReader(), Options{})
	rec := do(t, s, http.MethodGet, "/api/info")
	require.Equal(t, http.StatusOK, rec.Code)

	var got hostmetrics.HostInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "box", got.Hostname)
	assert.Equal(t, "10.0.0.5", got.IP)
}

func TestProcesses(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode int
		wantPIDs []int32
	}{
		{"default cpu order", "", http.StatusOK, []int32{200, 300, 100}},
		{"mem order with limit", "?sort=mem&limit=2", http.StatusOK, []int32{300, 100}},
		{"pid order", "?sort=pid", http.StatusOK, []int32{100, 200, 300}},
		{"bad sort", "?sort=rss", http.StatusBadRequest, nil},
		{"bad limit", "?limit=-1", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(publishedReader(), Options{})
			rec := do(t, s, http.MethodGet, "/api/processes"+tt.query)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}

			var got ProcessesResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, 3, got.Total)
			pids := make([]int32, len(got.Processes))
			for i, p := range got.Processes {
				pids[i] = p.PID
			}
			assert.Equal(t, tt.wantPIDs, pids)
		})
	}
}

func TestTerminate(t *testing.T) {
	tests := []struct {
		name      string
		allow     bool
		path      string
		srcErr    error
		wantCode  int
		wantKind  string
		wantCalls int
	}{
		{"disabled", false, "/api/processes/100/terminate", nil, http.StatusForbidden, "disabled", 0},
		{"accepted", true, "/api/processes/100/terminate", nil, http.StatusAccepted, "", 1},
		{"bad pid", true, "/api/processes/abc/terminate", nil, http.StatusBadRequest, "", 0},
		{"zero pid", true, "/api/processes/0/terminate", nil, http.StatusBadRequest, "", 0},
		{
			"not found", true, "/api/processes/100/terminate",
			hostmetrics.NewTerminationError(100, syscall.ESRCH),
			http.StatusNotFound, "not_found", 1,
		},
		{
			"permission denied", true, "/api/processes/100/terminate",
			hostmetrics.NewTerminationError(100, syscall.EPERM),
			http.StatusForbidden, "permission_denied", 1,
		},
		{
			"other", true, "/api/processes/100/terminate",
			hostmetrics.NewTerminationError(100, syscall.EINVAL),
			http.StatusInternalServerError, "other", 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := publishedReader()
			src.terminate = func(int32) error { return tt.srcErr }
			s := newTestServer(src, Options{AllowTerminate: tt.allow})

			rec := do(t, s, http.MethodPost, tt.path)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Len(t, src.terminated, tt.wantCalls)
			if tt.wantKind != "" {
				assert.Contains(t, rec.Body.String(), `"kind":"`+tt.wantKind+`"`)
			}
		})
	}
}

func TestTerminateRequiresPost(t *testing.T) {
	s := newTestServer(publishedReader(), Options{AllowTerminate: true})
	rec := do(t, s, http.MethodGet, "/api/processes/100/terminate")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(publishedReader(), Options{})
	rec := do(t, s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, want := range []string{
		"hostpulse_cpu_percent 37.5",
		"hostpulse_memory_percent 61.2",
		"hostpulse_network_sent_bytes_total 1.048576e+06",
		`hostpulse_metric_unavailable{metric="disk"} 1`,
		`hostpulse_metric_unavailable{metric="memory"} 0`,
		`hostpulse_process_cpu_percent{name="b",pid="200"} 9`,
		"hostpulse_ticks_total 7",
	} {
		assert.Contains(t, body, want)
	}
}

func TestStateCollector(t *testing.T) {
	c := newStateCollector(publishedReader(), 2)

	expected := `
# HELP hostpulse_cpu_percent System-wide CPU utilization.
# TYPE hostpulse_cpu_percent gauge
hostpulse_cpu_percent 37.5
# HELP hostpulse_processes Number of processes in the current snapshot.
# TYPE hostpulse_processes gauge
hostpulse_processes 3
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"hostpulse_cpu_percent", "hostpulse_processes"))

	assert.Equal(t, 2, testutil.CollectAndCount(c, "hostpulse_process_cpu_percent"))
	assert.Equal(t, 4, testutil.CollectAndCount(c, "hostpulse_metric_unavailable"))
}

func TestStateCollectorInvalidUTF8Name(t *testing.T) {
	r := publishedReader()
	r.state.Processes = monitor.ProcessSnapshot{
		{PID: 42, Name: "bad\xffname", CPUPercent: 5, MemPercent: 1},
	}
	s := newTestServer(r, Options{TopProcesses: 5})

	families, err := s.Registry().Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range families {
		if mf.GetName() != "hostpulse_process_cpu_percent" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "name" {
					names = append(names, l.GetValue())
				}
			}
		}
	}
	assert.Equal(t, []string{"bad\uFFFDname"}, names)

	rec := do(t, s, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStateCollectorBeforeFirstTick(t *testing.T) {
	c := newStateCollector(&fakeReader{}, 10)
	assert.Equal(t, 1, testutil.CollectAndCount(c))
	assert.Equal(t, 0.0, testutil.ToFloat64(c))
}

func TestRequestCounter(t *testing.T) {
	s := newTestServer(publishedReader(), Options{})
	do(t, s, http.MethodGet, "/api/state")
	do(t, s, http.MethodGet, "/api/state")

	assert.Equal(t, 2.0, testutil.ToFloat64(s.requests.WithLabelValues("/api/state", "200")))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(publishedReader(), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "real clock makes the fixture stale")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
