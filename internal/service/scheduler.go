package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler triggers periodic re-collection runs. Runs that would overlap a
// still-active one are skipped rather than queued.
type Scheduler struct {
	runs     *RunService
	interval time.Duration
	sched    gocron.Scheduler
}

func NewScheduler(runs *RunService, interval time.Duration) *Scheduler {
	return &Scheduler{runs: runs, interval: interval}
}

func (s *Scheduler) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = sched

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			report, err := s.runs.Run(ctx)
			if errors.Is(err, ErrRunInProgress) {
				log.Printf("[scheduler] skipping tick, previous run still active")
				return
			}
			if err != nil {
				log.Printf("[scheduler] run failed: %v", err)
				return
			}
			log.Printf("[scheduler] run %s finished: %d events processed, %d conflicts",
				report.RunID, report.EventsProcessed, report.MergeConflicts)
		}),
	)
	if err != nil {
		return err
	}

	sched.Start()
	log.Printf("[scheduler] re-collection every %s", s.interval)
	return nil
}

func (s *Scheduler) Stop() error {
	if s.sched == nil {
		return nil
	}
	return s.sched.Shutdown()
}
