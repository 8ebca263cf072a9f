package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/travelsaas/travel-warnings/internal/domain"
	"github.com/travelsaas/travel-warnings/internal/repo"
)

// WarningService exposes the stored warnings to the API layer.
type WarningService struct {
	warnings repo.WarningRepo
	content  *ContentService
}

// NewWarningService constructs a WarningService.
func NewWarningService(warnings repo.WarningRepo, content *ContentService) *WarningService {
	return &WarningService{warnings: warnings, content: content}
}

// List returns all stored warnings, or only the active ones.
func (s *WarningService) List(ctx context.Context, activeOnly bool) ([]domain.Warning, error) {
	var (
		warnings []domain.Warning
		err      error
	)
	if activeOnly {
		warnings, err = s.warnings.ListActive(ctx)
	} else {
		warnings, err = s.warnings.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("service.WarningService.List: %w", err)
	}
	if warnings == nil {
		warnings = []domain.Warning{}
	}
	return warnings, nil
}

// GetByContentID returns a single warning by its provider content ID.
func (s *WarningService) GetByContentID(ctx context.Context, contentID string) (domain.Warning, error) {
	w, err := s.warnings.GetByContentID(ctx, contentID)
	if err != nil {
		return domain.Warning{}, fmt.Errorf("service.WarningService.GetByContentID: %w", err)
	}
	return w, nil
}

// GetByCountryCode returns the warning for one destination country.
func (s *WarningService) GetByCountryCode(ctx context.Context, code string) (domain.Warning, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return domain.Warning{}, fmt.Errorf("%w: country code must be a two-letter ISO code", domain.ErrValidation)
	}
	w, err := s.warnings.GetByCountryCode(ctx, code)
	if err != nil {
		return domain.Warning{}, fmt.Errorf("service.WarningService.GetByCountryCode: %w", err)
	}
	return w, nil
}

// CategorizedDetail is a warning with its content split into named sections.
type CategorizedDetail struct {
	Warning    domain.Warning `json:"warning"`
	Categories Categories     `json:"categories"`
}

// GetCategorizedByCountryCode returns a country's warning with its advisory
// content split into sections. Warnings stored from the summary alone have
// all-empty categories.
func (s *WarningService) GetCategorizedByCountryCode(ctx context.Context, code string) (CategorizedDetail, error) {
	w, err := s.GetByCountryCode(ctx, code)
	if err != nil {
		return CategorizedDetail{}, err
	}
	return CategorizedDetail{Warning: w, Categories: s.content.Categorize(w.Content)}, nil
}

// SaveBatch upserts a batch of warnings, applying the same version rule as
// the provider sync: an incoming record replaces the stored one only when its
// lastModified stamp is strictly newer. Returns the number stored.
func (s *WarningService) SaveBatch(ctx context.Context, warnings []domain.Warning) (int, error) {
	stored := 0
	for _, w := range warnings {
		if w.ContentID == "" || w.CountryCode == "" {
			return stored, fmt.Errorf("%w: contentId and countryCode are required", domain.ErrValidation)
		}
		existing, err := s.warnings.GetByContentID(ctx, w.ContentID)
		switch {
		case err == nil:
			if w.LastModified <= existing.LastModified {
				continue
			}
			if _, err := s.warnings.Update(ctx, w); err != nil {
				return stored, fmt.Errorf("service.WarningService.SaveBatch: %w", err)
			}
		case errors.Is(err, domain.ErrNotFound):
			if _, err := s.warnings.Create(ctx, w); err != nil {
				return stored, fmt.Errorf("service.WarningService.SaveBatch: %w", err)
			}
		default:
			return stored, fmt.Errorf("service.WarningService.SaveBatch: %w", err)
		}
		stored++
	}
	return stored, nil
}
