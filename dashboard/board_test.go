package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-safetyboard/observability"
	"go-safetyboard/types"
)

type stubSource struct {
	mu        sync.Mutex
	incidents []types.Incident
	err       error
	calls     int
}

func (s *stubSource) GetAllIncidents(_ context.Context) ([]types.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.incidents, nil
}

func (s *stubSource) set(incidents []types.Incident) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidents = incidents
	s.err = nil
}

func (s *stubSource) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func fixture() []types.Incident {
	return []types.Incident{
		{ID: "a", Name: "비계 추락", DateTime: types.SerialDate(45292), ProjectOwner: "민간", ConstructionTypeMain: "건축", ConstructionTypeSub: "가설공사", CauseMain: "시공오류", ResultMain: "떨어짐", Fatalities: 1, RiskIndex: 1.2},
		{ID: "b", Name: "굴착기 협착", DateTime: types.TextDate("2022.03.04."), ProjectOwner: "공공", ConstructionTypeMain: "토목", ConstructionTypeSub: "토공사", CauseMain: "설계오류", ResultMain: "끼임", Injuries: 2, RiskIndex: 0.3},
		{ID: "c", Name: "", DateTime: types.TextDate("not-a-date"), ProjectOwner: "민간", ConstructionTypeMain: "건축", ConstructionTypeSub: "철골공사", CauseMain: "외부요인", ResultMain: "화재"},
	}
}

func newTestBoard(src Source) (*Board, *clockwork.FakeClock, *observability.Metrics) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	m := observability.NewMetricsForTesting()
	return NewBoard(src, clock, m), clock, m
}

func TestBoard_LoadingUntilFirstLoad(t *testing.T) {
	b, _, _ := newTestBoard(&stubSource{})

	st := b.Status()
	assert.True(t, st.Loading)
	assert.Nil(t, st.LoadedAt)

	v := b.View(types.NewFilterState())
	assert.True(t, v.Loading)
	assert.Zero(t, v.Total)
	assert.Len(t, v.Charts.MonthlyTrend, 12)
	assert.Equal(t, "N/A", v.Summary.AverageRiskIndex)
	assert.True(t, v.Secondary.Empty)
}

func TestBoard_LoadedEmptyIsNotLoading(t *testing.T) {
	b, clock, m := newTestBoard(&stubSource{})

	n, err := b.Load(context.Background(), TriggerStartup)
	require.NoError(t, err)
	assert.Zero(t, n)

	st := b.Status()
	assert.False(t, st.Loading)
	require.NotNil(t, st.LoadedAt)
	assert.Equal(t, clock.Now(), *st.LoadedAt)
	assert.False(t, b.View(types.NewFilterState()).Loading)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Loads.WithLabelValues(TriggerStartup)))
}

func TestBoard_ViewFiltersAndAggregates(t *testing.T) {
	b, _, m := newTestBoard(&stubSource{incidents: fixture()})
	b.Load(context.Background(), TriggerStartup)

	v := b.View(types.NewFilterState())
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, 3, v.Matched)
	assert.Equal(t, 1, v.Summary.TotalFatalities)
	assert.Equal(t, 2, v.Summary.TotalInjuries)
	assert.Equal(t, "5.0", v.Summary.AverageRiskIndex)

	state := types.NewFilterState().With(types.KeyProjectOwner, []string{"민간"})
	v = b.View(state)
	assert.Equal(t, 2, v.Matched)
	assert.Equal(t, state.Version, v.Filters.Version)
	assert.Len(t, v.Charts.Annual, 5)
	assert.Len(t, v.Charts.CauseResultMatrix.Cells, 1, "화재 is dropped from the matrix")
	assert.Equal(t, []string{"시공오류", "외부요인"}, []string{v.Charts.Causes[0].Category, v.Charts.Causes[1].Category})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ViewComputations))
}

func TestBoard_BubblesFollowActiveSubFilter(t *testing.T) {
	b, _, _ := newTestBoard(&stubSource{incidents: fixture()})
	b.Load(context.Background(), TriggerStartup)

	state := types.NewFilterState().With(types.KeyConstructionTypeSub, []string{"가설공사"})
	v := b.View(state)
	require.Len(t, v.Charts.RiskBubbles.Bubbles, 1)
	assert.True(t, v.Charts.RiskBubbles.Bubbles[0].Active)
}

func TestBoard_ReloadReplacesCollection(t *testing.T) {
	src := &stubSource{incidents: fixture()}
	b, clock, _ := newTestBoard(src)
	b.Load(context.Background(), TriggerStartup)

	before := b.Incidents(types.NewFilterState())
	src.set(fixture()[:1])
	clock.Advance(time.Hour)
	n, err := b.Load(context.Background(), TriggerSchedule)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Len(t, before, 3, "earlier snapshots are unaffected")
	assert.Len(t, b.Incidents(types.NewFilterState()), 1)
	_, ok := b.Incident("b")
	assert.False(t, ok)
	assert.Equal(t, clock.Now(), *b.Status().LoadedAt)
}

func TestBoard_FailedReloadKeepsCollection(t *testing.T) {
	src := &stubSource{incidents: fixture()}
	b, clock, m := newTestBoard(src)

	n, err := b.Load(context.Background(), TriggerStartup)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	loadedAt := clock.Now()

	src.fail(errors.New("firestore unavailable"))
	clock.Advance(30 * time.Minute)
	n, err = b.Load(context.Background(), TriggerSchedule)
	require.Error(t, err)
	assert.Equal(t, 3, n)

	v := b.View(types.NewFilterState())
	assert.False(t, v.Loading)
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, 3, v.Matched)
	_, ok := b.Incident("b")
	assert.True(t, ok)
	assert.Equal(t, loadedAt, *b.Status().LoadedAt)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.IncidentsLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Loads.WithLabelValues(TriggerSchedule)))
}

func TestBoard_FailedFirstLoadIsEmpty(t *testing.T) {
	src := &stubSource{}
	src.fail(errors.New("permission denied"))
	b, _, _ := newTestBoard(src)

	n, err := b.Load(context.Background(), TriggerStartup)
	require.Error(t, err)
	assert.Zero(t, n)

	st := b.Status()
	assert.False(t, st.Loading)
	assert.Zero(t, st.Count)
	assert.False(t, b.View(types.NewFilterState()).Loading)

	src.set(fixture())
	n, err = b.Load(context.Background(), TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestBoard_IncidentLookupAndOptions(t *testing.T) {
	b, _, _ := newTestBoard(&stubSource{incidents: fixture()})
	b.Load(context.Background(), TriggerManual)

	inc, ok := b.Incident("b")
	require.True(t, ok)
	assert.Equal(t, "굴착기 협착", inc.Name)

	opts := b.Options(types.NewFilterState().With(types.KeyConstructionTypeMain, []string{"설비"}))
	assert.Equal(t, []string{"기계설비공사", "전기설비공사", "통신설비공사"}, opts[types.KeyConstructionTypeSub])
	assert.Equal(t, []string{"민간", "공공"}, opts[types.KeyProjectOwner])
}

func TestBoard_ConcurrentReadsDuringReload(t *testing.T) {
	src := &stubSource{incidents: fixture()}
	b, _, _ := newTestBoard(src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.Load(context.Background(), TriggerManual)
		}()
		go func() {
			defer wg.Done()
			v := b.View(types.NewFilterState())
			assert.Contains(t, []int{0, 3}, v.Total)
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, src.calls)
}
