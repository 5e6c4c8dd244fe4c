package exporter

import (
	"net/http"
	"strconv"
	"time"

	"emperror.dev/errors"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

// HealthStatus is the /healthz response body.
type HealthStatus struct {
	// Status is "ok", "pending" (no tick yet) or "stale".
	Status      string    `json:"status"`
	Tick        uint64    `json:"tick"`
	LastSample  time.Time `json:"last_sample"`
	Age         string    `json:"age,omitempty"`
	Unavailable []string  `json:"unavailable,omitempty"`
}

// HistoryResponse is the /api/history response body.
type HistoryResponse struct {
	IntervalSeconds float64   `json:"interval_seconds"`
	Capacity        int       `json:"capacity"`
	Samples         []float64 `json:"samples"`
}

// ProcessesResponse is the /api/processes response body.
type ProcessesResponse struct {
	Tick      uint64                      `json:"tick"`
	Sort      monitor.SortKey             `json:"sort"`
	Total     int                         `json:"total"`
	Processes []hostmetrics.ProcessRecord `json:"processes"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	PID   int32  `json:"pid,omitempty"`
}

// staleAfter is how many intervals may pass without a tick before the
// sampler is reported stale.
const staleAfter = 3

// healthz reports 503 until the first tick is published, and again if the
// published state stops advancing.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	cur := s.src.Current()
	status := HealthStatus{
		Status:      "ok",
		Tick:        cur.Tick,
		Unavailable: cur.Unavailable,
	}

	code := http.StatusOK
	if cur.IsZero() {
		status.Status = "pending"
		code = http.StatusServiceUnavailable
	} else {
		age := s.now().Sub(cur.SampledAt)
		status.LastSample = cur.SampledAt
		status.Age = age.Round(time.Millisecond).String()
		if age > staleAfter*s.src.Interval() {
			status.Status = "stale"
			code = http.StatusServiceUnavailable
		}
	}

	s.writeJSON(w, code, status)
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.src.Current())
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HistoryResponse{
		IntervalSeconds: s.src.Interval().Seconds(),
		Capacity:        monitor.HistoryCapacity,
		Samples:         s.src.History(),
	})
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.src.HostInfo(r.Context()))
}

// processes lists the current snapshot. Query parameters: sort (cpu, mem,
// pid, name; default cpu) and limit (0 or absent for all).
func (s *Server) processes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	key, err := monitor.ParseSortKey(q.Get("sort"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "sort must be one of cpu, mem, pid, name"})
		return
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
	}

	cur := s.src.Current()
	procs := monitor.SortProcesses(cur.Processes, key, limit)
	if procs == nil {
		procs = monitor.ProcessSnapshot{}
	}
	s.writeJSON(w, http.StatusOK, ProcessesResponse{
		Tick:      cur.Tick,
		Sort:      key,
		Total:     len(cur.Processes),
		Processes: procs,
	})
}

// terminate forwards a termination request to the gateway and maps the
// failure kind to a status code.
func (s *Server) terminate(w http.ResponseWriter, r *http.Request) {
	if !s.opts.AllowTerminate {
		s.terminates.WithLabelValues("disabled").Inc()
		s.writeJSON(w, http.StatusForbidden, errorResponse{
			Error: "process termination is disabled (server.allow_terminate)",
			Kind:  "disabled",
		})
		return
	}

	pid64, err := strconv.ParseInt(mux.Vars(r)["pid"], 10, 32)
	if err != nil || pid64 <= 0 {
		s.terminates.WithLabelValues("bad_request").Inc()
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "pid must be a positive integer"})
		return
	}
	pid := int32(pid64)

	err = s.src.RequestTermination(r.Context(), pid)
	if err == nil {
		s.terminates.WithLabelValues("ok").Inc()
		s.writeJSON(w, http.StatusAccepted, map[string]any{"pid": pid, "status": "terminate requested"})
		return
	}

	kind := hostmetrics.TerminationOther
	var termErr *hostmetrics.TerminationError
	if errors.As(err, &termErr) {
		kind = termErr.Kind
	}
	s.terminates.WithLabelValues(kind.String()).Inc()

	code := http.StatusInternalServerError
	switch kind {
	case hostmetrics.TerminationNotFound:
		code = http.StatusNotFound
	case hostmetrics.TerminationPermissionDenied:
		code = http.StatusForbidden
	}
	s.writeJSON(w, code, errorResponse{Error: err.Error(), Kind: kind.String(), PID: pid})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("exporter: encode response", "error", err)
	}
}
