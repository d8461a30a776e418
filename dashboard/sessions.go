package dashboard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"go-safetyboard/observability"
	"go-safetyboard/types"
)

var ErrSessionNotFound = errors.New("session not found")

// DefaultSessionTTL is how long an untouched session is kept.
const DefaultSessionTTL = 24 * time.Hour

type session struct {
	state    types.FilterState
	lastUsed time.Time
}

// Sessions keeps one filter state per browser session in memory.
type Sessions struct {
	clock   clockwork.Clock
	ttl     time.Duration
	metrics *observability.Metrics

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessions(clock clockwork.Clock, ttl time.Duration, metrics *observability.Metrics) *Sessions {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{clock: clock, ttl: ttl, metrics: metrics, sessions: map[string]*session{}}
}

// Create starts a session with nothing selected.
func (s *Sessions) Create() (string, types.FilterState) {
	id := uuid.NewString()
	state := types.NewFilterState()

	s.mu.Lock()
	s.sessions[id] = &session{state: state, lastUsed: s.clock.Now()}
	s.gauge()
	s.mu.Unlock()

	return id, state
}

func (s *Sessions) Get(id string) (types.FilterState, error) {
	return s.update(id, func(st types.FilterState) types.FilterState { return st })
}

// SetFilter replaces the selection for one key.
func (s *Sessions) SetFilter(id string, key types.FilterKey, values []string) (types.FilterState, error) {
	return s.update(id, func(st types.FilterState) types.FilterState { return st.With(key, values) })
}

// Reset clears every selection of a session.
func (s *Sessions) Reset(id string) (types.FilterState, error) {
	return s.update(id, func(st types.FilterState) types.FilterState { return st.Reset() })
}

func (s *Sessions) update(id string, fn func(types.FilterState) types.FilterState) (types.FilterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return types.FilterState{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.state = fn(sess.state)
	sess.lastUsed = s.clock.Now()
	return sess.state, nil
}

// Prune drops sessions unused for longer than the TTL and returns how many were removed.
func (s *Sessions) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.gauge()
	return removed
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// gauge must be called with mu held.
func (s *Sessions) gauge() {
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	}
}
