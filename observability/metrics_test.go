package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.AIRequests.WithLabelValues("themes", "success").Inc()
	a.IncidentsLoaded.Set(42)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.AIRequests.WithLabelValues("themes", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.AIRequests.WithLabelValues("themes", "success")))
	assert.Equal(t, 42.0, testutil.ToFloat64(a.IncidentsLoaded))
}

func TestMetrics_RegisterOnFreshRegistry(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()

	require.NoError(t, reg.Register(m.Loads))
	require.NoError(t, reg.Register(m.ViewComputations))
	m.Loads.WithLabelValues("manual").Inc()
	m.ViewComputations.Add(3)

	n, err := testutil.GatherAndCount(reg, "safetyboard_incident_loads_total", "safetyboard_view_computations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNewMetricsForTesting_KeepsHelp(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m.Loads))
	require.NoError(t, reg.Register(m.IncidentsLoaded))
	require.NoError(t, reg.Register(m.AIDuration))
	m.Loads.WithLabelValues("startup").Inc()
	m.AIDuration.WithLabelValues("themes").Observe(0.5)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 3)
	for _, mf := range families {
		assert.NotEmpty(t, mf.GetHelp(), mf.GetName())
	}
}
