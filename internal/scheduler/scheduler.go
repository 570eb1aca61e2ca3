// Package scheduler wraps gocron with logging and panic recovery for
// the dashboard's periodic jobs.
package scheduler

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/ksahdev/stockdeck/internal/common"
)

type taskFn func(ctx context.Context) error

// Scheduler runs named interval jobs. Jobs are singleton: a tick is
// skipped while the previous run of the same job is still going.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *common.Logger
}

// New creates a stopped scheduler. Call Start after registering jobs.
func New(logger *common.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{scheduler: sched, logger: logger}, nil
}

// Start begins (or resumes) running registered jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Pause stops firing jobs but keeps them registered; Start resumes.
func (s *Scheduler) Pause() {
	if err := s.scheduler.StopJobs(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to pause scheduler jobs")
	}
}

// Stop shuts the scheduler down. It cannot be restarted.
func (s *Scheduler) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		s.logger.Warn().Err(err).Msg("scheduler shutdown failed")
	}
}

// NewIntervalJob registers a job that fires every interval.
func (s *Scheduler) NewIntervalJob(name string, fn taskFn, interval time.Duration, startImmediately bool) error {
	opts := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if startImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.taskWithRecover(fn, name)),
		opts...,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("job", name).Msg("failed to register job")
		return err
	}
	return nil
}

func (s *Scheduler) taskWithRecover(fn taskFn, jobName string) func(ctx context.Context) {
	return func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error().
					Str("job", jobName).
					Interface("panic", r).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered in scheduled job")
			}
		}()

		if err := fn(ctx); err != nil {
			s.logger.Warn().Err(err).Str("job", jobName).Msg("scheduled job failed")
			return
		}
		s.logger.Debug().Str("job", jobName).Msg("scheduled job completed")
	}
}
