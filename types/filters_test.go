package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterState_WithBumpsVersion(t *testing.T) {
	s := NewFilterState()
	next := s.With(KeyProjectOwner, []string{"공공"})

	assert.Equal(t, uint64(0), s.Version)
	assert.Equal(t, uint64(1), next.Version)
	assert.Empty(t, s.ProjectOwner, "original state must not change")
	assert.Equal(t, []string{"공공"}, next.ProjectOwner)
}

func TestFilterState_MainClearsSub(t *testing.T) {
	s := NewFilterState().
		With(KeyConstructionTypeSub, []string{"철골공사"}).
		With(KeyConstructionTypeMain, []string{"토목"})

	assert.Equal(t, []string{"토목"}, s.ConstructionTypeMain)
	assert.Empty(t, s.ConstructionTypeSub)
	assert.Equal(t, uint64(2), s.Version)
}

func TestFilterState_SubDoesNotTouchMain(t *testing.T) {
	s := NewFilterState().
		With(KeyConstructionTypeMain, []string{"건축"}).
		With(KeyConstructionTypeSub, []string{"철골공사"})

	assert.Equal(t, []string{"건축"}, s.ConstructionTypeMain)
	assert.Equal(t, []string{"철골공사"}, s.ConstructionTypeSub)
}

func TestFilterState_WithDedupes(t *testing.T) {
	s := NewFilterState().With(KeyCauseMain, []string{"설계오류", "기타", "설계오류"})
	assert.Equal(t, []string{"설계오류", "기타"}, s.CauseMain)
}

func TestFilterState_Reset(t *testing.T) {
	s := NewFilterState().
		With(KeyProjectOwner, []string{"민간"}).
		With(KeyResultMain, []string{"끼임"})
	require.False(t, s.IsEmpty())

	reset := s.Reset()
	assert.True(t, reset.IsEmpty())
	assert.Equal(t, s.Version+1, reset.Version)
	for _, k := range FilterKeys {
		assert.NotNil(t, reset.Values(k), k)
	}
}

func TestFilterState_NormalizedFromJSON(t *testing.T) {
	var s FilterState
	require.NoError(t, json.Unmarshal([]byte(`{"causeMain":["기타","기타"]}`), &s))

	n := s.Normalized()
	assert.Equal(t, []string{"기타"}, n.CauseMain)
	assert.NotNil(t, n.ProjectOwner)
	assert.Empty(t, n.ProjectOwner)
}

func TestParseFilterKey(t *testing.T) {
	k, err := ParseFilterKey("objectMain")
	require.NoError(t, err)
	assert.Equal(t, KeyObjectMain, k)

	_, err = ParseFilterKey("workType")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFilterKey))
}
