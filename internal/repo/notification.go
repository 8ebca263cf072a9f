package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelsaas/travel-warnings/internal/domain"
)

// uniqueViolation is the Postgres error code raised when an insert hits the
// partial unique index guarding the notification dedup key.
const uniqueViolation = "23505"

const notificationColumns = `id, user_trip_id, email, warning_content_id, country_code,
	country_name, severity, sent_at, successful, error_message, warning_last_modified`

// NotificationRepo defines the persistence operations for the append-only
// notification history. Records are never updated or deleted.
type NotificationRepo interface {
	// Append inserts one notification record (success or failure) and returns it.
	// Returns domain.ErrDuplicate when a successful record for the same
	// (trip, warning content, warning version) triple already exists — the
	// unique index turns the check-then-write race between concurrent ticks
	// into a detectable conflict.
	Append(ctx context.Context, n domain.Notification) (domain.Notification, error)

	// ExistsSuccessful reports whether a successful notification was already
	// recorded for the dedup triple.
	ExistsSuccessful(ctx context.Context, tripID uuid.UUID, contentID string, lastModified int64) (bool, error)

	// ListByEmail returns one page of a user's notification history, newest
	// first, along with the total count.
	ListByEmail(ctx context.Context, email string, p domain.PaginationParams) ([]domain.Notification, int64, error)

	// ListRecentByEmail returns a user's notifications sent within the last
	// given number of days, newest first.
	ListRecentByEmail(ctx context.Context, email string, days int) ([]domain.Notification, error)
}

// pgNotificationRepo is the Postgres implementation of NotificationRepo.
type pgNotificationRepo struct {
	db db
}

// NewNotificationRepo constructs a NotificationRepo backed by the provided db connection.
func NewNotificationRepo(db db) NotificationRepo {
	return &pgNotificationRepo{db: db}
}

// Append inserts one notification record.
func (r *pgNotificationRepo) Append(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	const q = `
		INSERT INTO warning_notifications (user_trip_id, email, warning_content_id,
			country_code, country_name, severity, sent_at, successful, error_message,
			warning_last_modified)
		VALUES (@user_trip_id, @email, @warning_content_id,
			@country_code, @country_name, @severity, @sent_at, @successful, @error_message,
			@warning_last_modified)
		RETURNING ` + notificationColumns

	var errMsg *string
	if n.ErrorMessage != "" {
		errMsg = &n.ErrorMessage
	}

	args := pgx.NamedArgs{
		"user_trip_id":          n.TripID,
		"email":                 n.Email,
		"warning_content_id":    n.WarningContentID,
		"country_code":          n.CountryCode,
		"country_name":          n.CountryName,
		"severity":              n.Severity.DisplayName(),
		"sent_at":               n.SentAt,
		"successful":            n.Successful,
		"error_message":         errMsg,
		"warning_last_modified": n.WarningLastModified,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanNotification(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.Append: %w", domain.ErrDuplicate)
		}
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.Append: %w", err)
	}
	return result, nil
}

// ExistsSuccessful reports whether the dedup key is already satisfied.
func (r *pgNotificationRepo) ExistsSuccessful(ctx context.Context, tripID uuid.UUID, contentID string, lastModified int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM warning_notifications
			WHERE user_trip_id = @trip_id
			  AND warning_content_id = @content_id
			  AND warning_last_modified = @last_modified
			  AND successful
		)`

	args := pgx.NamedArgs{
		"trip_id":       tripID,
		"content_id":    contentID,
		"last_modified": lastModified,
	}

	var exists bool
	if err := r.db.QueryRow(ctx, q, args).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.NotificationRepo.ExistsSuccessful: %w", err)
	}
	return exists, nil
}

// ListByEmail returns one page of a user's notification history and the total count.
func (r *pgNotificationRepo) ListByEmail(ctx context.Context, email string, p domain.PaginationParams) ([]domain.Notification, int64, error) {
	const countQ = `SELECT count(*) FROM warning_notifications WHERE email = @email`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"email": email}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.NotificationRepo.ListByEmail: count: %w", err)
	}

	const q = `
		SELECT ` + notificationColumns + `
		FROM warning_notifications
		WHERE email = @email
		ORDER BY sent_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"email": email, "limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.NotificationRepo.ListByEmail: %w", err)
	}
	defer rows.Close()

	notifications, err := collectNotifications(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.NotificationRepo.ListByEmail: %w", err)
	}
	return notifications, total, nil
}

// ListRecentByEmail returns notifications sent to the user within the last N days.
func (r *pgNotificationRepo) ListRecentByEmail(ctx context.Context, email string, days int) ([]domain.Notification, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	const q = `
		SELECT ` + notificationColumns + `
		FROM warning_notifications
		WHERE email = @email AND sent_at >= @cutoff
		ORDER BY sent_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"email": email, "cutoff": cutoff})
	if err != nil {
		return nil, fmt.Errorf("repo.NotificationRepo.ListRecentByEmail: %w", err)
	}
	defer rows.Close()

	notifications, err := collectNotifications(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.NotificationRepo.ListRecentByEmail: %w", err)
	}
	return notifications, nil
}

// collectNotifications drains rows into a slice.
func collectNotifications(rows pgx.Rows) ([]domain.Notification, error) {
	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return notifications, nil
}

// scanNotification maps a single database row into a domain.Notification.
func scanNotification(s scanner) (domain.Notification, error) {
	var (
		n        domain.Notification
		id       pgtype.UUID
		tripID   pgtype.UUID
		severity string
		errMsg   pgtype.Text
	)

	err := s.Scan(&id, &tripID, &n.Email, &n.WarningContentID, &n.CountryCode,
		&n.CountryName, &severity, &n.SentAt, &n.Successful, &errMsg, &n.WarningLastModified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Notification{}, domain.ErrNotFound
		}
		return domain.Notification{}, err
	}

	n.ID = uuid.UUID(id.Bytes)
	n.TripID = uuid.UUID(tripID.Bytes)
	n.Severity = domain.ParseSeverity(severity)
	if errMsg.Valid {
		n.ErrorMessage = errMsg.String
	}

	return n, nil
}
