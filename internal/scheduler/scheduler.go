// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		log:  logger,
	}
}

// AddSweep schedules a dataset-cache sweep. The job reports how many
// expired entries it removed.
func (s *Scheduler) AddSweep(schedule string, sweep func() int) error {
	_, err := s.cron.AddFunc(schedule, func() {
		removed := sweep()
		if removed > 0 {
			s.log.Info("dataset cache sweep", zap.Int("removed", removed))
		}
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}
