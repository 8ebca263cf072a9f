package service_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/travelsaas/travel-warnings/internal/domain"
	"github.com/travelsaas/travel-warnings/internal/provider"
	"github.com/travelsaas/travel-warnings/internal/repo"
)

// Hand-written test doubles shared by the service tests. Each method is a
// function field — set only the ones your test needs; an unset method panics,
// which surfaces unexpected calls immediately.

type mockTripRepo struct {
	create                     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID                    func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list                       func(ctx context.Context) ([]domain.Trip, error)
	update                     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete                     func(ctx context.Context, id uuid.UUID) error
	listByEmail                func(ctx context.Context, email string) ([]domain.Trip, error)
	listRelevantByEmail        func(ctx context.Context, email string, today time.Time) ([]domain.Trip, error)
	listRelevantByCountryCodes func(ctx context.Context, codes []string, today time.Time) ([]domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripRepo) ListByEmail(ctx context.Context, email string) ([]domain.Trip, error) {
	return m.listByEmail(ctx, email)
}
func (m *mockTripRepo) ListRelevantByEmail(ctx context.Context, email string, today time.Time) ([]domain.Trip, error) {
	return m.listRelevantByEmail(ctx, email, today)
}
func (m *mockTripRepo) ListRelevantByCountryCodes(ctx context.Context, codes []string, today time.Time) ([]domain.Trip, error) {
	return m.listRelevantByCountryCodes(ctx, codes, today)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockWarningRepo struct {
	create             func(ctx context.Context, w domain.Warning) (domain.Warning, error)
	update             func(ctx context.Context, w domain.Warning) (domain.Warning, error)
	getByContentID     func(ctx context.Context, contentID string) (domain.Warning, error)
	getByCountryCode   func(ctx context.Context, code string) (domain.Warning, error)
	list               func(ctx context.Context) ([]domain.Warning, error)
	listActive         func(ctx context.Context) ([]domain.Warning, error)
	listByCountryCodes func(ctx context.Context, codes []string) ([]domain.Warning, error)
}

func (m *mockWarningRepo) Create(ctx context.Context, w domain.Warning) (domain.Warning, error) {
	return m.create(ctx, w)
}
func (m *mockWarningRepo) Update(ctx context.Context, w domain.Warning) (domain.Warning, error) {
	return m.update(ctx, w)
}
func (m *mockWarningRepo) GetByContentID(ctx context.Context, contentID string) (domain.Warning, error) {
	return m.getByContentID(ctx, contentID)
}
func (m *mockWarningRepo) GetByCountryCode(ctx context.Context, code string) (domain.Warning, error) {
	return m.getByCountryCode(ctx, code)
}
func (m *mockWarningRepo) List(ctx context.Context) ([]domain.Warning, error) {
	return m.list(ctx)
}
func (m *mockWarningRepo) ListActive(ctx context.Context) ([]domain.Warning, error) {
	return m.listActive(ctx)
}
func (m *mockWarningRepo) ListByCountryCodes(ctx context.Context, codes []string) ([]domain.Warning, error) {
	return m.listByCountryCodes(ctx, codes)
}

var _ repo.WarningRepo = (*mockWarningRepo)(nil)

type mockNotificationRepo struct {
	append           func(ctx context.Context, n domain.Notification) (domain.Notification, error)
	existsSuccessful func(ctx context.Context, tripID uuid.UUID, contentID string, lastModified int64) (bool, error)
	listByEmail      func(ctx context.Context, email string, p domain.PaginationParams) ([]domain.Notification, int64, error)
	listRecent       func(ctx context.Context, email string, days int) ([]domain.Notification, error)
}

func (m *mockNotificationRepo) Append(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	return m.append(ctx, n)
}
func (m *mockNotificationRepo) ExistsSuccessful(ctx context.Context, tripID uuid.UUID, contentID string, lastModified int64) (bool, error) {
	return m.existsSuccessful(ctx, tripID, contentID, lastModified)
}
func (m *mockNotificationRepo) ListByEmail(ctx context.Context, email string, p domain.PaginationParams) ([]domain.Notification, int64, error) {
	return m.listByEmail(ctx, email, p)
}
func (m *mockNotificationRepo) ListRecentByEmail(ctx context.Context, email string, days int) ([]domain.Notification, error) {
	return m.listRecent(ctx, email, days)
}

var _ repo.NotificationRepo = (*mockNotificationRepo)(nil)

type mockProviderClient struct {
	index  func(ctx context.Context) ([]provider.Summary, error)
	detail func(ctx context.Context, contentID string) (provider.Detail, error)
}

func (m *mockProviderClient) Index(ctx context.Context) ([]provider.Summary, error) {
	return m.index(ctx)
}
func (m *mockProviderClient) Detail(ctx context.Context, contentID string) (provider.Detail, error) {
	return m.detail(ctx, contentID)
}

var _ provider.Client = (*mockProviderClient)(nil)

// mockSender records every send and can be primed to fail.
type mockSender struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to, subject, body string
}

func (m *mockSender) Send(_ context.Context, to, subject, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
