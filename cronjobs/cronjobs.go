package cronjobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"go-safetyboard/dashboard"
)

const (
	// pruneSchedule drops idle sessions at the top of every hour.
	pruneSchedule = "0 * * * *"
	reloadTimeout = 2 * time.Minute
)

// Loader reloads the incident collection.
type Loader interface {
	Load(ctx context.Context, trigger string) (int, error)
}

// Pruner drops idle sessions.
type Pruner interface {
	Prune() int
}

// InitCronJobs schedules the periodic incident reload and session cleanup and
// starts the scheduler. An empty reloadSchedule disables the reload.
func InitCronJobs(loader Loader, pruner Pruner, reloadSchedule string) (*cron.Cron, error) {
	log.Println("Starting Cron Jobs")
	c := cron.New()
	if err := register(c, loader, pruner, reloadSchedule); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func register(c *cron.Cron, loader Loader, pruner Pruner, reloadSchedule string) error {
	if reloadSchedule != "" {
		_, err := c.AddFunc(reloadSchedule, func() {
			log.Println("CronJob: Incident reload running")
			ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
			defer cancel()
			if _, err := loader.Load(ctx, dashboard.TriggerSchedule); err != nil {
				log.Printf("CronJob: Incident reload failed: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("schedule incident reload: %w", err)
		}
	} else {
		log.Println("Periodic incident reload disabled")
	}

	_, err := c.AddFunc(pruneSchedule, func() {
		if n := pruner.Prune(); n > 0 {
			log.Printf("CronJob: Pruned %d idle sessions", n)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule session prune: %w", err)
	}
	return nil
}
