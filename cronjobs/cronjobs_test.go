package cronjobs

import (
	"context"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-safetyboard/dashboard"
)

type recorder struct {
	triggers []string
	prunes   int
}

func (r *recorder) Load(_ context.Context, trigger string) (int, error) {
	r.triggers = append(r.triggers, trigger)
	return 0, nil
}

func (r *recorder) Prune() int {
	r.prunes++
	return 0
}

func TestRegister_ReloadAndPrune(t *testing.T) {
	c := cron.New()
	rec := &recorder{}
	require.NoError(t, register(c, rec, rec, "*/30 * * * *"))

	entries := c.Entries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		e.Job.Run()
	}
	assert.Equal(t, []string{dashboard.TriggerSchedule}, rec.triggers)
	assert.Equal(t, 1, rec.prunes)
}

func TestRegister_EmptyScheduleOnlyPrunes(t *testing.T) {
	c := cron.New()
	rec := &recorder{}
	require.NoError(t, register(c, rec, rec, ""))

	entries := c.Entries()
	require.Len(t, entries, 1)
	entries[0].Job.Run()
	assert.Empty(t, rec.triggers)
	assert.Equal(t, 1, rec.prunes)
}

func TestRegister_InvalidSchedule(t *testing.T) {
	err := register(cron.New(), &recorder{}, &recorder{}, "not a schedule")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incident reload")
}

func TestInitCronJobs_Starts(t *testing.T) {
	c, err := InitCronJobs(&recorder{}, &recorder{}, "")
	require.NoError(t, err)
	<-c.Stop().Done()
}
