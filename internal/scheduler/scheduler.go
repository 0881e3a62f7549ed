// Package scheduler runs the periodic report generation job.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/YusovID/agency-backoffice/pkg/logger/sl"
)

// ReportGenerator creates previous-month reports for every active project
// and returns how many were stored.
type ReportGenerator interface {
	GenerateForActiveProjects(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	gen     ReportGenerator
	log     *slog.Logger
	timeout time.Duration

	// ctx is the parent of every job run; Stop cancels it.
	ctx    context.Context
	cancel context.CancelFunc
}

func New(gen ReportGenerator, log *slog.Logger) *Scheduler {
	cl := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
		gen:     gen,
		log:     log,
		timeout: 30 * time.Minute,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register adds the monthly report job with a standard five-field cron spec.
func (s *Scheduler) Register(spec string) error {
	const op = "internal.scheduler.Register"

	if _, err := s.cron.AddFunc(spec, s.RunMonthlyReports); err != nil {
		return fmt.Errorf("%s: invalid spec %q: %w", op, spec, err)
	}

	s.log.Info("scheduled monthly reports", slog.String("spec", spec))

	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for a running job until ctx is done.
// A job still running at that point is cancelled, and Stop waits for it to
// return so the caller can release what the job uses.
func (s *Scheduler) Stop(ctx context.Context) error {
	defer s.cancel()

	done := s.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
	}

	s.log.Warn("cancelling running report job")
	s.cancel()
	<-done.Done()

	return ctx.Err()
}

func (s *Scheduler) RunMonthlyReports() {
	const op = "internal.scheduler.RunMonthlyReports"

	log := s.log.With(slog.String("op", op))

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	log.Info("running monthly report job")

	n, err := s.gen.GenerateForActiveProjects(ctx)
	if err != nil {
		log.Error("monthly report job failed", sl.Err(err), slog.Int("generated", n))
		return
	}

	log.Info("monthly report job completed", slog.Int("generated", n), slog.Duration("duration", time.Since(start)))
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append([]interface{}{sl.Err(err)}, keysAndValues...)...)
}
