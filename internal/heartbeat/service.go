// Package heartbeat schedules recurring workflow runs for watch mode,
// refreshing configuration before each one so environment edits reach a
// long-lived process without a restart.
package heartbeat

import (
	"context"
	"fmt"
	"log/slog"

	robfigcron "github.com/robfig/cron/v3"
)

// RunFunc executes one scheduled workflow pass.
type RunFunc func(ctx context.Context) error

// Service drives RunFunc on a cron schedule. Before every tick it calls the
// reload hook, typically wired to the config manager's Reload plus a .env
// re-read.
type Service struct {
	spec   string
	reload func()
	run    RunFunc
	cron   *robfigcron.Cron
}

// NewService validates spec (standard five-field cron, @hourly shortcuts,
// or "@every <duration>") and returns a ready-to-start service. reload and
// run may be nil.
func NewService(spec string, reload func(), run RunFunc) (*Service, error) {
	if _, err := robfigcron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return &Service{
		spec:   spec,
		reload: reload,
		run:    run,
		cron:   robfigcron.New(),
	}, nil
}

// Start arms the schedule and blocks until ctx is cancelled. A tick that is
// still running at shutdown is waited for.
func (s *Service) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("arm schedule: %w", err)
	}

	s.cron.Start()
	slog.Info("heartbeat: started", "schedule", s.spec)

	<-ctx.Done()

	<-s.cron.Stop().Done()
	slog.Info("heartbeat: stopped")
	return ctx.Err()
}

// tick runs one reload-then-run round. A failed run is logged and dropped;
// the next tick comes from the schedule, not from a retry.
func (s *Service) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	if s.reload != nil {
		s.reload()
	}
	if s.run == nil {
		return
	}

	slog.Info("heartbeat: running workflow")
	if err := s.run(ctx); err != nil {
		slog.Error("heartbeat: run failed", "err", err)
	}
}
