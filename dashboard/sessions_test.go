package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-safetyboard/observability"
	"go-safetyboard/types"
)

func TestSessions_Lifecycle(t *testing.T) {
	s := NewSessions(clockwork.NewFakeClock(), 0, observability.NewMetricsForTesting())

	id, state := s.Create()
	require.NotEmpty(t, id)
	assert.True(t, state.IsEmpty())

	state, err := s.SetFilter(id, types.KeyConstructionTypeSub, []string{"토공사"})
	require.NoError(t, err)
	state, err = s.SetFilter(id, types.KeyConstructionTypeMain, []string{"건축"})
	require.NoError(t, err)
	assert.Empty(t, state.ConstructionTypeSub)
	assert.Equal(t, uint64(2), state.Version)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, state, got)

	reset, err := s.Reset(id)
	require.NoError(t, err)
	assert.True(t, reset.IsEmpty())
	assert.Equal(t, uint64(3), reset.Version)
}

func TestSessions_Unknown(t *testing.T) {
	s := NewSessions(nil, 0, nil)

	_, err := s.Get("nope")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	_, err = s.SetFilter("nope", types.KeyCauseMain, nil)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	_, err = s.Reset("nope")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestSessions_PruneIdle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewSessions(clock, time.Hour, nil)

	idle, _ := s.Create()
	clock.Advance(40 * time.Minute)
	active, _ := s.Create()
	clock.Advance(30 * time.Minute)
	_, err := s.Get(active)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Prune())
	assert.Equal(t, 1, s.Len())
	_, err = s.Get(idle)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
