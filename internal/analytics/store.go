package analytics

import (
	"sync"
	"time"

	"github.com/dennis-web-tech-hub/proxy-checker/internal/model"
)

// Store accumulates probe results as workers finish them. Append order is
// completion order, not input order; callers comparing result sets must
// treat them as unordered. Record and Snapshot are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	byType  map[model.ProxyType][]model.ProbeResult
	checked int
	working int
}

// NewStore returns an empty result store.
func NewStore() *Store {
	return &Store{
		byType: make(map[model.ProxyType][]model.ProbeResult),
	}
}

// Record appends one finished result. Every dispatched endpoint is recorded
// exactly once, including probes that complete during a cancel drain.
func (s *Store) Record(res model.ProbeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byType[res.Endpoint.Type] = append(s.byType[res.Endpoint.Type], res)
	s.checked++
	if res.Working() {
		s.working++
	}
}

// Counts returns the running checked/working totals.
func (s *Store) Counts() (checked, working int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checked, s.working
}

// Snapshot returns a deep copy of the per-type collections. The copy is
// immutable from the store's point of view and is the sole input handed to
// the export boundary.
func (s *Store) Snapshot() map[model.ProxyType][]model.ProbeResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[model.ProxyType][]model.ProbeResult, len(s.byType))
	for typ, results := range s.byType {
		out[typ] = append([]model.ProbeResult(nil), results...)
	}
	return out
}

// Summary aggregates the run: checked/working per type plus totals and
// elapsed wall-clock time.
func (s *Store) Summary(elapsed time.Duration, status model.RunStatus) model.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	perType := make(map[model.ProxyType]model.TypeStats, len(s.byType))
	for typ, results := range s.byType {
		st := model.TypeStats{Checked: len(results)}
		for _, r := range results {
			if r.Working() {
				st.Working++
			}
		}
		perType[typ] = st
	}

	return model.Summary{
		TotalChecked: s.checked,
		TotalWorking: s.working,
		PerType:      perType,
		Elapsed:      elapsed,
		Status:       status,
	}
}
