package monitor

import "sync"

// HistoryCapacity is the number of CPU samples retained for trend plotting.
// At the default 2s interval this covers the last two minutes.
const HistoryCapacity = 60

// History is a fixed-capacity FIFO ring of percentage samples. One goroutine
// pushes; any number may read concurrently.
type History struct {
	mu    sync.RWMutex
	buf   []float64
	start int
	size  int
}

// NewHistory creates a ring holding at most capacity samples. A capacity
// below 1 is treated as 1.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]float64, capacity)}
}

// Push appends v, evicting the oldest sample once the ring is full.
func (h *History) Push(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = v
		h.size++
		return
	}
	h.buf[h.start] = v
	h.start = (h.start + 1) % len(h.buf)
}

// Values returns the samples oldest first. The slice is a copy.
func (h *History) Values() []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]float64, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

// Len returns the number of samples held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.size
}

// Cap returns the fixed capacity.
func (h *History) Cap() int {
	return len(h.buf)
}
