package fixtures

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler re-runs the fixture loader on an interval so updated CSVs are
// picked up without a restart.
type Scheduler struct {
	loader   *Loader
	interval time.Duration
	sched    gocron.Scheduler
}

func NewScheduler(loader *Loader, interval time.Duration) *Scheduler {
	return &Scheduler{loader: loader, interval: interval}
}

// Start schedules periodic reloads. Singleton mode keeps a slow load from
// overlapping the next one.
func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = scheduler

	job := func(jobCtx context.Context) {
		if loadErr := s.loader.Load(jobCtx); loadErr != nil {
			slog.Error("Fixture reload failed", slog.String("error", loadErr.Error()))
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	slog.Info("Fixture reload scheduler started", slog.Duration("interval", s.interval))

	// Stop the scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			slog.Error("Fixture scheduler shutdown error", slog.String("error", sdErr.Error()))
		}
	}()
	return nil
}

func (s *Scheduler) Shutdown() error {
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}
