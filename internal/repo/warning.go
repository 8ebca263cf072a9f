package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelsaas/travel-warnings/internal/domain"
)

const warningColumns = `id, content_id, last_modified, effective, title, country_code,
	iso3_country_code, country_name, warning, partial_warning, situation_warning,
	situation_part_warning, content, fetched_at`

// WarningRepo defines the persistence operations for travel warnings.
// Warnings are keyed externally by content_id; rows are created on first
// sighting and overwritten in place on newer versions, never deleted.
type WarningRepo interface {
	// Create inserts a new warning and returns the persisted record.
	Create(ctx context.Context, w domain.Warning) (domain.Warning, error)

	// Update overwrites every mutable field of the warning row identified by
	// its content_id and returns the updated record.
	// Returns domain.ErrNotFound if no row with that content_id exists.
	Update(ctx context.Context, w domain.Warning) (domain.Warning, error)

	// GetByContentID retrieves a warning by the provider's content identifier.
	// Returns domain.ErrNotFound if absent.
	GetByContentID(ctx context.Context, contentID string) (domain.Warning, error)

	// GetByCountryCode retrieves the warning for a country.
	// Returns domain.ErrNotFound if absent.
	GetByCountryCode(ctx context.Context, code string) (domain.Warning, error)

	// List returns all warnings ordered by country name.
	List(ctx context.Context) ([]domain.Warning, error)

	// ListActive returns all warnings with at least one alert flag set,
	// ordered by country name. This is the warning side of the matcher's
	// set-based join.
	ListActive(ctx context.Context) ([]domain.Warning, error)

	// ListByCountryCodes returns warnings for the given set of country codes.
	ListByCountryCodes(ctx context.Context, codes []string) ([]domain.Warning, error)
}

// pgWarningRepo is the Postgres implementation of WarningRepo.
type pgWarningRepo struct {
	db db
}

// NewWarningRepo constructs a WarningRepo backed by the provided db connection.
func NewWarningRepo(db db) WarningRepo {
	return &pgWarningRepo{db: db}
}

// warningArgs maps the shared insert/update fields of a warning.
func warningArgs(w domain.Warning) pgx.NamedArgs {
	var iso3 *string
	if w.ISO3Code != "" {
		iso3 = &w.ISO3Code
	}
	var content *string
	if w.Content != "" {
		content = &w.Content
	}
	return pgx.NamedArgs{
		"content_id":             w.ContentID,
		"last_modified":          w.LastModified,
		"effective":              w.Effective,
		"title":                  w.Title,
		"country_code":           w.CountryCode,
		"iso3_country_code":      iso3,
		"country_name":           w.CountryName,
		"warning":                w.Warning,
		"partial_warning":        w.PartialWarning,
		"situation_warning":      w.SituationWarning,
		"situation_part_warning": w.SituationPartial,
		"content":                content,
		"fetched_at":             w.FetchedAt,
	}
}

// Create inserts a new warning row and returns the full persisted record.
func (r *pgWarningRepo) Create(ctx context.Context, w domain.Warning) (domain.Warning, error) {
	const q = `
		INSERT INTO travel_warnings (content_id, last_modified, effective, title,
			country_code, iso3_country_code, country_name, warning, partial_warning,
			situation_warning, situation_part_warning, content, fetched_at)
		VALUES (@content_id, @last_modified, @effective, @title,
			@country_code, @iso3_country_code, @country_name, @warning, @partial_warning,
			@situation_warning, @situation_part_warning, @content, @fetched_at)
		RETURNING ` + warningColumns

	row := r.db.QueryRow(ctx, q, warningArgs(w))
	result, err := scanWarning(row)
	if err != nil {
		return domain.Warning{}, fmt.Errorf("repo.WarningRepo.Create: %w", err)
	}
	return result, nil
}

// Update overwrites the row identified by content_id with the new field values.
// The content column keeps its previous value when the incoming content is
// empty, so a summary-only refresh never wipes previously fetched detail.
func (r *pgWarningRepo) Update(ctx context.Context, w domain.Warning) (domain.Warning, error) {
	const q = `
		UPDATE travel_warnings
		SET last_modified          = @last_modified,
		    effective              = @effective,
		    title                  = @title,
		    country_code           = @country_code,
		    iso3_country_code      = COALESCE(@iso3_country_code, iso3_country_code),
		    country_name           = @country_name,
		    warning                = @warning,
		    partial_warning        = @partial_warning,
		    situation_warning      = @situation_warning,
		    situation_part_warning = @situation_part_warning,
		    content                = COALESCE(@content, content),
		    fetched_at             = @fetched_at
		WHERE content_id = @content_id
		RETURNING ` + warningColumns

	row := r.db.QueryRow(ctx, q, warningArgs(w))
	result, err := scanWarning(row)
	if err != nil {
		return domain.Warning{}, fmt.Errorf("repo.WarningRepo.Update: %w", err)
	}
	return result, nil
}

// GetByContentID retrieves a warning by the provider's content identifier.
func (r *pgWarningRepo) GetByContentID(ctx context.Context, contentID string) (domain.Warning, error) {
	const q = `SELECT ` + warningColumns + ` FROM travel_warnings WHERE content_id = @content_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"content_id": contentID})
	result, err := scanWarning(row)
	if err != nil {
		return domain.Warning{}, fmt.Errorf("repo.WarningRepo.GetByContentID: %w", err)
	}
	return result, nil
}

// GetByCountryCode retrieves the warning for a single country.
func (r *pgWarningRepo) GetByCountryCode(ctx context.Context, code string) (domain.Warning, error) {
	const q = `SELECT ` + warningColumns + ` FROM travel_warnings WHERE country_code = @code`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"code": code})
	result, err := scanWarning(row)
	if err != nil {
		return domain.Warning{}, fmt.Errorf("repo.WarningRepo.GetByCountryCode: %w", err)
	}
	return result, nil
}

// List returns all warnings ordered by country name.
func (r *pgWarningRepo) List(ctx context.Context) ([]domain.Warning, error) {
	const q = `SELECT ` + warningColumns + ` FROM travel_warnings ORDER BY country_name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.WarningRepo.List: %w", err)
	}
	defer rows.Close()

	warnings, err := collectWarnings(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.WarningRepo.List: %w", err)
	}
	return warnings, nil
}

// ListActive returns all warnings with at least one alert flag set.
func (r *pgWarningRepo) ListActive(ctx context.Context) ([]domain.Warning, error) {
	const q = `
		SELECT ` + warningColumns + `
		FROM travel_warnings
		WHERE warning OR partial_warning OR situation_warning OR situation_part_warning
		ORDER BY country_name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.WarningRepo.ListActive: %w", err)
	}
	defer rows.Close()

	warnings, err := collectWarnings(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.WarningRepo.ListActive: %w", err)
	}
	return warnings, nil
}

// ListByCountryCodes returns warnings for the given country codes.
func (r *pgWarningRepo) ListByCountryCodes(ctx context.Context, codes []string) ([]domain.Warning, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	const q = `
		SELECT ` + warningColumns + `
		FROM travel_warnings
		WHERE country_code = ANY(@codes)
		ORDER BY country_name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"codes": codes})
	if err != nil {
		return nil, fmt.Errorf("repo.WarningRepo.ListByCountryCodes: %w", err)
	}
	defer rows.Close()

	warnings, err := collectWarnings(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.WarningRepo.ListByCountryCodes: %w", err)
	}
	return warnings, nil
}

// collectWarnings drains rows into a slice, surfacing both scan and iteration errors.
func collectWarnings(rows pgx.Rows) ([]domain.Warning, error) {
	var warnings []domain.Warning
	for rows.Next() {
		w, err := scanWarning(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		warnings = append(warnings, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return warnings, nil
}

// scanWarning maps a single database row into a domain.Warning.
// iso3_country_code and content are nullable columns.
func scanWarning(s scanner) (domain.Warning, error) {
	var (
		w       domain.Warning
		id      pgtype.UUID
		iso3    pgtype.Text
		content pgtype.Text
	)

	err := s.Scan(&id, &w.ContentID, &w.LastModified, &w.Effective, &w.Title,
		&w.CountryCode, &iso3, &w.CountryName, &w.Warning, &w.PartialWarning,
		&w.SituationWarning, &w.SituationPartial, &content, &w.FetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Warning{}, domain.ErrNotFound
		}
		return domain.Warning{}, err
	}

	w.ID = uuid.UUID(id.Bytes)
	if iso3.Valid {
		w.ISO3Code = iso3.String
	}
	if content.Valid {
		w.Content = content.String
	}

	return w, nil
}
