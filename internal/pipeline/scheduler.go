package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the pipeline on a cron schedule. Runs never overlap: a tick
// that fires while the previous run is still going is skipped.
type Scheduler struct {
	cron     *cron.Cron
	pipeline *Pipeline
	logger   *slog.Logger
	timeout  time.Duration
	running  atomic.Bool
	manual   sync.WaitGroup
}

// defaultRunTimeout bounds a single pipeline pass, model call included.
const defaultRunTimeout = 5 * time.Minute

// NewScheduler wraps a pipeline in a cron runner.
func NewScheduler(p *Pipeline, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:     cron.New(),
		pipeline: p,
		logger:   logger,
		timeout:  defaultRunTimeout,
	}
}

// Start registers the schedule and begins ticking. spec uses the standard
// five-field cron syntax, e.g. "*/10 * * * *".
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("pipeline scheduler started", "schedule", spec)
	return nil
}

// RunNow triggers one pipeline pass outside the schedule, respecting the
// overlap guard.
func (s *Scheduler) RunNow() {
	s.manual.Add(1)
	go func() {
		defer s.manual.Done()
		s.tick()
	}()
}

// Stop halts the cron ticker and waits for in-flight runs to finish,
// RunNow-triggered ones included.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.manual.Wait()
	s.logger.Info("pipeline scheduler stopped")
}

func (s *Scheduler) tick() {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("pipeline run still in progress; skipping tick")
		return
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	if err := s.pipeline.Run(ctx); err != nil {
		s.logger.Error("pipeline run failed", "err", err, "duration", time.Since(started))
		return
	}
	s.logger.Debug("pipeline run finished", "duration", time.Since(started))
}
