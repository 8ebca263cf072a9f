package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/travelsaas/travel-warnings/internal/domain"
	"github.com/travelsaas/travel-warnings/internal/metrics"
	"github.com/travelsaas/travel-warnings/internal/provider"
	"github.com/travelsaas/travel-warnings/internal/repo"
)

// detailOutcome tags how a warning's content was obtained during sync.
type detailOutcome int

const (
	// detailFetched means the per-country detail call succeeded and the
	// stored record carries full content.
	detailFetched detailOutcome = iota
	// summaryOnly means the detail call failed and the record was stored
	// from the index summary alone. A later sync retries the detail.
	summaryOnly
)

// FetcherService pulls the provider's warning index and reconciles it into
// the local store. Each index entry is its own unit of work: a failure on
// one entry is logged and counted, never aborting the rest of the sync.
type FetcherService struct {
	warnings repo.WarningRepo
	client   provider.Client
	log      *slog.Logger

	now func() time.Time
}

// NewFetcherService constructs a FetcherService.
func NewFetcherService(warnings repo.WarningRepo, client provider.Client, log *slog.Logger) *FetcherService {
	return &FetcherService{warnings: warnings, client: client, log: log, now: time.Now}
}

// SyncAll fetches the provider index and upserts every entry, returning the
// number of warnings created or updated. The only fatal path is the index
// fetch itself; everything after is per-item.
func (s *FetcherService) SyncAll(ctx context.Context) int {
	summaries, err := s.client.Index(ctx)
	if err != nil {
		s.log.Error("warning index fetch failed", slog.String("error", err.Error()))
		metrics.SyncFailures.Inc()
		return 0
	}
	if len(summaries) == 0 {
		s.log.Warn("warning index empty, nothing to sync")
		return 0
	}

	synced := 0
	for _, sum := range summaries {
		changed, err := s.syncOne(ctx, sum)
		if err != nil {
			s.log.Error("warning sync failed",
				slog.String("content_id", sum.ContentID),
				slog.String("country_code", sum.CountryCode),
				slog.String("error", err.Error()))
			metrics.WarningsSkipped.WithLabelValues("error").Inc()
			continue
		}
		if changed {
			synced++
			metrics.WarningsSynced.Inc()
		}
	}

	s.log.Info("warning sync complete",
		slog.Int("index_size", len(summaries)),
		slog.Int("synced", synced))
	return synced
}

// syncOne reconciles a single index entry. Returns true when a row was
// created or updated, false when the entry was skipped as invalid or stale.
func (s *FetcherService) syncOne(ctx context.Context, sum provider.Summary) (bool, error) {
	if err := sum.Validate(); err != nil {
		s.log.Warn("skipping malformed index entry",
			slog.String("content_id", sum.ContentID),
			slog.String("error", err.Error()))
		metrics.WarningsSkipped.WithLabelValues("invalid").Inc()
		return false, nil
	}

	existing, err := s.warnings.GetByContentID(ctx, sum.ContentID)
	switch {
	case err == nil:
		// Only a strictly newer stamp replaces the stored version; equal
		// stamps are the steady state between provider publishes.
		if sum.LastModified <= existing.LastModified {
			metrics.WarningsSkipped.WithLabelValues("stale").Inc()
			return false, nil
		}
		w, outcome := s.resolve(ctx, sum)
		if _, err := s.warnings.Update(ctx, w); err != nil {
			return false, fmt.Errorf("service.FetcherService.syncOne: %w", err)
		}
		s.logStored(ctx, "warning updated", w, outcome)
		return true, nil

	case errors.Is(err, domain.ErrNotFound):
		w, outcome := s.resolve(ctx, sum)
		if _, err := s.warnings.Create(ctx, w); err != nil {
			return false, fmt.Errorf("service.FetcherService.syncOne: %w", err)
		}
		s.logStored(ctx, "warning created", w, outcome)
		return true, nil

	default:
		return false, fmt.Errorf("service.FetcherService.syncOne: %w", err)
	}
}

// resolve builds the warning to store, preferring the full detail document
// and falling back to the index summary when the detail call fails.
func (s *FetcherService) resolve(ctx context.Context, sum provider.Summary) (domain.Warning, detailOutcome) {
	detail, err := s.client.Detail(ctx, sum.ContentID)
	if err != nil {
		s.log.Warn("detail fetch failed, storing summary only",
			slog.String("content_id", sum.ContentID),
			slog.String("error", err.Error()))
		return s.fromSummary(sum), summaryOnly
	}
	if err := detail.Summary.Validate(); err != nil {
		s.log.Warn("detail document malformed, storing summary only",
			slog.String("content_id", sum.ContentID),
			slog.String("error", err.Error()))
		return s.fromSummary(sum), summaryOnly
	}

	w := s.fromSummary(detail.Summary)
	w.ISO3Code = detail.ISO3CountryCode
	w.Content = detail.Content
	return w, detailFetched
}

func (s *FetcherService) fromSummary(sum provider.Summary) domain.Warning {
	return domain.Warning{
		ContentID:        sum.ContentID,
		LastModified:     sum.LastModified,
		Effective:        sum.Effective,
		Title:            sum.Title,
		CountryCode:      sum.CountryCode,
		CountryName:      sum.CountryName,
		Warning:          sum.Warning,
		PartialWarning:   sum.PartialWarning,
		SituationWarning: sum.SituationWarning,
		SituationPartial: sum.SituationPartWarning,
		FetchedAt:        s.now(),
	}
}

func (s *FetcherService) logStored(ctx context.Context, msg string, w domain.Warning, outcome detailOutcome) {
	detail := "full"
	if outcome == summaryOnly {
		detail = "summary_only"
	}
	s.log.InfoContext(ctx, msg,
		slog.String("content_id", w.ContentID),
		slog.String("country_code", w.CountryCode),
		slog.String("severity", w.Severity().String()),
		slog.String("detail", detail))
}
