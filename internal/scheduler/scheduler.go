// Package scheduler drives the periodic sync-and-alert tick.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/travelsaas/travel-warnings/internal/domain"
	"github.com/travelsaas/travel-warnings/internal/metrics"
)

// syncer refreshes the warning store and reports how many warnings changed.
type syncer interface {
	SyncAll(ctx context.Context) int
}

// matcher computes the (warning, trip) pairs due for alerting.
type matcher interface {
	AllActiveMatches(ctx context.Context) ([]domain.Match, error)
}

// alerter sends one alert per match and reports whether it actually went out.
type alerter interface {
	SendAlert(ctx context.Context, w domain.Warning, t domain.Trip) (bool, error)
}

// Scheduler runs the pipeline on a cron schedule. Overlapping runs are
// skipped: if a tick is still in flight when the next one fires, the new
// tick is dropped rather than queued.
type Scheduler struct {
	syncer  syncer
	matcher matcher
	alerter alerter
	log     *slog.Logger

	cron *cron.Cron
	spec string
}

// New constructs a Scheduler with the given cron spec (standard 5-field).
func New(spec string, syncer syncer, matcher matcher, alerter alerter, log *slog.Logger) *Scheduler {
	return &Scheduler{syncer: syncer, matcher: matcher, alerter: alerter, log: log, spec: spec}
}

// Start registers the tick and starts the cron loop.
func (s *Scheduler) Start() error {
	cl := cronLogger{log: s.log}
	c := cron.New(cron.WithChain(
		cron.Recover(cl),
		cron.SkipIfStillRunning(cl),
	))
	if _, err := c.AddFunc(s.spec, func() {
		s.Tick(context.Background(), "schedule")
	}); err != nil {
		return fmt.Errorf("scheduler.Start: %w", err)
	}
	c.Start()
	s.cron = c
	s.log.Info("scheduler started", slog.String("spec", s.spec))
	return nil
}

// Stop halts the cron loop and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// TriggerManual starts one tick in the background. Used by the refresh
// endpoint, which acknowledges the request without waiting for the run.
func (s *Scheduler) TriggerManual() {
	go s.Tick(context.Background(), "manual")
}

// Tick runs one full pipeline pass: sync the warning store, then alert every
// matching trip. Alert failures are isolated per match, and a panic in any
// phase is recovered and logged; trigger names the cause of the run
// ("schedule" or "manual").
func (s *Scheduler) Tick(ctx context.Context, trigger string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("tick panicked",
				slog.String("trigger", trigger),
				slog.Any("panic", r))
		}
	}()

	start := time.Now()
	metrics.TicksTotal.WithLabelValues(trigger).Inc()

	synced := s.syncer.SyncAll(ctx)
	if synced == 0 {
		s.log.Info("tick complete, no warning changes",
			slog.String("trigger", trigger),
			slog.Duration("elapsed", time.Since(start)))
		return
	}

	matches, err := s.matcher.AllActiveMatches(ctx)
	if err != nil {
		s.log.Error("tick match phase failed",
			slog.String("trigger", trigger),
			slog.String("error", err.Error()))
		return
	}

	sent, failed := 0, 0
	for _, m := range matches {
		ok, err := s.alerter.SendAlert(ctx, m.Warning, m.Trip)
		if err != nil {
			failed++
			continue
		}
		if ok {
			sent++
		}
	}

	s.log.Info("tick complete",
		slog.String("trigger", trigger),
		slog.Int("synced", synced),
		slog.Int("matches", len(matches)),
		slog.Int("alerts_sent", sent),
		slog.Int("alerts_failed", failed),
		slog.Duration("elapsed", time.Since(start)))
}

// cronLogger adapts slog to the cron logging interface.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err.Error())...)
}
