// Package jobs runs the periodic maintenance work of the server.
package jobs

import (
	"context"
	"log"
	"time"

	"aulavirtual/backend/config"
	"aulavirtual/backend/repository"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// Purger hard-deletes tasks that stayed soft-deleted longer than the retention period.
type Purger struct {
	store     *repository.Store
	retention time.Duration
	logger    *log.Logger
	now       func() time.Time
}

func NewPurger(store *repository.Store, retention time.Duration, logger *log.Logger) *Purger {
	return &Purger{store: store, retention: retention, logger: logger, now: time.Now}
}

// RunOnce purges everything deleted before now-retention and reports how many tasks went.
func (p *Purger) RunOnce(ctx context.Context) (int64, error) {
	cutoff := p.now().UTC().Add(-p.retention)
	n, err := p.store.PurgeDeletedTasks(ctx, cutoff)
	if err != nil {
		p.logger.Printf("[PURGE] failed to purge tasks deleted before %s: %v", cutoff.Format(time.RFC3339), err)
		return 0, err
	}
	p.logger.Printf("[PURGE] removed %d tasks deleted before %s", n, cutoff.Format(time.RFC3339))
	return n, nil
}

// Start schedules the purge with cfg.PurgeSchedule and returns the running scheduler. The
// caller stops it on shutdown.
func Start(cfg *config.Config, store *repository.Store, logger *log.Logger) (*cron.Cron, error) {
	p := NewPurger(store, cfg.TaskRetention, logger)
	c := cron.New()
	_, err := c.AddFunc(cfg.PurgeSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		p.RunOnce(ctx)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "invalid PURGE_SCHEDULE %q", cfg.PurgeSchedule)
	}
	c.Start()
	logger.Printf("[PURGE] scheduler started (%s, retention %s)", cfg.PurgeSchedule, cfg.TaskRetention)
	return c, nil
}
