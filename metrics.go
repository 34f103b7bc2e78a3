package fiscal

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Metrics accumulates per operation counters for the engine computations.
//
// It is owned by the caller and passed to the operations that should record
// into it. Operations run in parallel share one Metrics safely. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	mu  sync.Mutex
	ops map[string]OpStats
}

// OpStats are the counters of one operation.
type OpStats struct {
	Calls    int           `json:"calls"`
	Items    int           `json:"items"` // transactions processed
	Results  int           `json:"results"`
	Duration time.Duration `json:"duration"`
}

// NewMetrics returns an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{ops: make(map[string]OpStats)}
}

// Track starts timing op over items inputs. The returned function stops the
// timer and records the number of results produced.
func (m *Metrics) Track(op string, items int) func(results int) {
	if m == nil {
		return func(int) {}
	}
	start := time.Now()
	return func(results int) {
		elapsed := time.Since(start)
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.ops == nil {
			m.ops = make(map[string]OpStats)
		}
		s := m.ops[op]
		s.Calls++
		s.Items += items
		s.Results += results
		s.Duration += elapsed
		m.ops[op] = s
	}
}

// Snapshot returns a copy of the counters.
func (m *Metrics) Snapshot() map[string]OpStats {
	if m == nil {
		return map[string]OpStats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.ops)
}

// Get returns the counters of op.
func (m *Metrics) Get(op string) OpStats {
	if m == nil {
		return OpStats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ops[op]
}

// Reset clears every counter.
func (m *Metrics) Reset() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.ops)
}

// Entry returns a log entry carrying the counters as fields, one
// "<op>Calls", "<op>Items" and "<op>Ms" per operation.
func (m *Metrics) Entry(logger *logrus.Logger) *logrus.Entry {
	entry := logrus.NewEntry(logger)
	snapshot := m.Snapshot()
	for _, op := range slices.Sorted(maps.Keys(snapshot)) {
		s := snapshot[op]
		entry = entry.WithFields(logrus.Fields{
			op + "Calls":   s.Calls,
			op + "Items":   s.Items,
			op + "Results": s.Results,
			op + "Ms":      s.Duration.Milliseconds(),
		})
	}
	return entry
}
