// Package scheduler runs the recurring market fetch.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/logger"
)

// Job is one scheduled unit of work. ctx is cancelled when the scheduler stops.
type Job func(ctx context.Context)

// Scheduler runs a job once on Start and then every interval.
// A run that would overlap the previous one is skipped.
type Scheduler struct {
	cron    *cron.Cron
	job     Job
	log     *zap.SugaredLogger
	ctx     context.Context
	cancel  context.CancelFunc
	running sync.Mutex
	initial chan struct{}
}

// New creates a scheduler for job. interval must be at least one second.
func New(interval time.Duration, job Job, log *zap.SugaredLogger) (*Scheduler, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("scheduler interval must be at least 1s, got %s", interval)
	}

	cl := logger.CronLogger{Log: log}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		job:    job,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}

	if _, err := s.cron.AddFunc("@every "+interval.String(), s.run); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to schedule job: %w", err)
	}

	return s, nil
}

func (s *Scheduler) run() {
	if !s.running.TryLock() {
		s.log.Debugw("skipping scheduled run, previous run still active")
		return
	}
	defer s.running.Unlock()

	if s.ctx.Err() != nil {
		return
	}
	s.job(s.ctx)
}

// Start runs the job immediately in the background and starts the schedule.
func (s *Scheduler) Start() {
	s.initial = make(chan struct{})
	go func() {
		defer close(s.initial)
		s.run()
	}()
	s.cron.Start()
}

// Stop halts the schedule, cancels the running job and waits for it to return
// or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	cronDone := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		if s.initial != nil {
			<-s.initial
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
