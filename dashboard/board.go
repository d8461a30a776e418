package dashboard

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"go-safetyboard/filter"
	"go-safetyboard/observability"
	"go-safetyboard/types"
)

// Load triggers, used as metric labels.
const (
	TriggerStartup  = "startup"
	TriggerManual   = "manual"
	TriggerSchedule = "schedule"
)

// Source supplies the full incident collection.
type Source interface {
	GetAllIncidents(ctx context.Context) ([]types.Incident, error)
}

// Status describes the state of the in-memory collection.
type Status struct {
	Loading  bool       `json:"loading"`
	Count    int        `json:"count"`
	LoadedAt *time.Time `json:"loadedAt,omitempty"`
}

// Board holds the incident collection and computes views over it. Reloads
// replace the collection in one step, so readers see either the old or the
// new collection.
type Board struct {
	source  Source
	clock   clockwork.Clock
	metrics *observability.Metrics

	loadMu sync.Mutex // serializes loads

	mu        sync.RWMutex
	incidents []types.Incident
	byID      map[string]int
	loaded    bool
	loadedAt  time.Time
}

func NewBoard(source Source, clock clockwork.Clock, metrics *observability.Metrics) *Board {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Board{
		source:    source,
		clock:     clock,
		metrics:   metrics,
		incidents: []types.Incident{},
		byID:      map[string]int{},
	}
}

// Load fetches the collection from the source and swaps it in. It returns the
// number of incidents the board holds afterwards.
//
// A failed first load leaves the board loaded with an empty collection. A
// failed reload keeps the previous collection and its load time.
func (b *Board) Load(ctx context.Context, trigger string) (int, error) {
	b.loadMu.Lock()
	defer b.loadMu.Unlock()

	start := b.clock.Now()
	incidents, err := b.source.GetAllIncidents(ctx)
	if b.metrics != nil {
		b.metrics.Loads.WithLabelValues(trigger).Inc()
		b.metrics.LoadDuration.Observe(b.clock.Since(start).Seconds())
	}
	if err != nil {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.loaded {
			log.Printf("Error reloading incidents (%s), keeping %d loaded: %v", trigger, len(b.incidents), err)
			return len(b.incidents), fmt.Errorf("reload incidents: %w", err)
		}
		log.Printf("Error loading incidents (%s): %v", trigger, err)
		b.loaded = true
		b.loadedAt = b.clock.Now()
		if b.metrics != nil {
			b.metrics.IncidentsLoaded.Set(0)
		}
		return 0, fmt.Errorf("load incidents: %w", err)
	}
	if incidents == nil {
		incidents = []types.Incident{}
	}

	byID := make(map[string]int, len(incidents))
	for i, inc := range incidents {
		if _, dup := byID[inc.ID]; dup {
			log.Printf("Warning: duplicate incident ID %s, keeping the first", inc.ID)
			continue
		}
		byID[inc.ID] = i
	}

	b.mu.Lock()
	b.incidents = incidents
	b.byID = byID
	b.loaded = true
	b.loadedAt = b.clock.Now()
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.IncidentsLoaded.Set(float64(len(incidents)))
	}
	if len(incidents) == 0 {
		log.Printf("Warning: incident source is empty (%s)", trigger)
	}
	log.Printf("Loaded %d incidents (%s)", len(incidents), trigger)
	return len(incidents), nil
}

func (b *Board) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := Status{Loading: !b.loaded, Count: len(b.incidents)}
	if b.loaded {
		at := b.loadedAt
		s.LoadedAt = &at
	}
	return s
}

// snapshot returns the current collection. The slice is shared and must not be modified.
func (b *Board) snapshot() ([]types.Incident, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.incidents, !b.loaded
}

// Incidents returns the incidents matching state, newest first.
func (b *Board) Incidents(state types.FilterState) []types.Incident {
	all, _ := b.snapshot()
	filtered := filter.Apply(all, state)
	out := make([]types.Incident, len(filtered))
	copy(out, filtered)
	return out
}

// Incident looks up one incident of the current collection.
func (b *Board) Incident(id string) (types.Incident, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i, ok := b.byID[id]
	if !ok {
		return types.Incident{}, false
	}
	return b.incidents[i], true
}

// Options returns the filter option lists for state.
func (b *Board) Options(state types.FilterState) filter.Options {
	all, _ := b.snapshot()
	return filter.OptionsFor(all, state)
}

// View computes the dashboard for state. While the first load is pending the
// view is computed over an empty collection and flagged as loading.
func (b *Board) View(state types.FilterState) View {
	all, loading := b.snapshot()

	start := b.clock.Now()
	v := ComputeView(all, state)
	v.Loading = loading

	if b.metrics != nil {
		b.metrics.ViewComputations.Inc()
		b.metrics.ViewDuration.Observe(b.clock.Since(start).Seconds())
	}
	return v
}
