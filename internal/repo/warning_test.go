package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelsaas/travel-warnings/internal/domain"
	"github.com/travelsaas/travel-warnings/internal/repo"
)

// warningFixture returns a domain.Warning with sensible defaults.
func warningFixture() domain.Warning {
	return domain.Warning{
		ContentID:    "2462510",
		LastModified: 1700000000000,
		Effective:    1690000000000,
		Title:        "Germany: Travel and Safety Advice",
		CountryCode:  "DE",
		ISO3Code:     "DEU",
		CountryName:  "Germany",
		Warning:      true,
		Content:      "<h2>Sicherheit</h2><p>Details</p>",
		FetchedAt:    time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWarningRepo_Create(t *testing.T) {
	r := repo.NewWarningRepo(newTestTx(t))
	ctx := context.Background()

	input := warningFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.UUID{}, got.ID)
	assert.Equal(t, input.ContentID, got.ContentID)
	assert.Equal(t, input.LastModified, got.LastModified)
	assert.Equal(t, input.ISO3Code, got.ISO3Code)
	assert.Equal(t, input.Content, got.Content)
	assert.True(t, got.Warning)
	assert.Equal(t, domain.SeverityCritical, got.Severity())
}

func TestWarningRepo_Create_SummaryOnly(t *testing.T) {
	r := repo.NewWarningRepo(newTestTx(t))
	ctx := context.Background()

	input := warningFixture()
	input.ISO3Code = "" // detail fetch failed, summary has no ISO-3 code
	input.Content = ""

	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.Empty(t, got.ISO3Code)
	assert.Empty(t, got.Content)
}

func TestWarningRepo_GetByContentID(t *testing.T) {
	r := repo.NewWarningRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, warningFixture())
	require.NoError(t, err)

	got, err := r.GetByContentID(ctx, created.ContentID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestWarningRepo_GetByContentID_NotFound(t *testing.T) {
	r := repo.NewWarningRepo(newTestTx(t))

	_, err := r.GetByContentID(context.Background(), "no-such-content")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWarningRepo_Update_OverwritesInPlace(t *testing.T) {
	r := repo.NewWarningRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, warningFixture())
	require.NoError(t, err)

	newer := created
	newer.LastModified = created.LastModified + 1000
	newer.Title = "Germany: Updated Advice"
	newer.Warning = false
	newer.PartialWarning = true
	newer.Content = "<h2>Gesundheit</h2><p>New details</p>"

	updated, err := r.Update(ctx, newer)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "row is updated in place, not replaced")
	assert.Equal(t, newer.LastModified, updated.LastModified)
	assert.Equal(t, "Germany: Updated Advice", updated.Title)
	assert.Equal(t, domain.SeveritySevere, updated.Severity())
	assert.Equal(t, newer.Content, updated.Content)
}

func TestWarningRepo_Update_SummaryKeepsContent(t *testing.T) {
	r := repo.NewWarningRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, warningFixture())
	require.NoError(t, err)

	// A summary-only refresh carries no content; the stored detail must survive.
	newer := created
	newer.LastModified = created.LastModified + 1000
	newer.Content = ""
	newer.ISO3Code = ""

	updated, err := r.Update(ctx, newer)

	require.NoError(t, err)
	assert.Equal(t, created.Content, updated.Content, "stored content must not be wiped")
	assert.Equal(t, created.ISO3Code, updated.ISO3Code, "stored ISO-3 code must not be wiped")
}

func TestWarningRepo_Update_NotFound(t *testing.T) {
	r := repo.NewWarningRepo(newTestTx(t))

	ghost := warningFixture()
	ghost.ContentID = "never-created"

	_, err := r.Update(context.Background(), ghost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWarningRepo_ListActive(t *testing.T) {
	r := repo.NewWarningRepo(newTestTx(t))
	ctx := context.Background()

	active := warningFixture()

	inactive := warningFixture()
	inactive.ContentID = "2462511"
	inactive.CountryCode = "FR"
	inactive.CountryName = "France"
	inactive.Warning = false

	_, err := r.Create(ctx, active)
	require.NoError(t, err)
	_, err = r.Create(ctx, inactive)
	require.NoError(t, err)

	warnings, err := r.ListActive(ctx)

	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "DE", warnings[0].CountryCode)
}

func TestWarningRepo_ListByCountryCodes(t *testing.T) {
	r := repo.NewWarningRepo(newTestTx(t))
	ctx := context.Background()

	de := warningFixture()
	fr := warningFixture()
	fr.ContentID = "2462511"
	fr.CountryCode = "FR"
	fr.CountryName = "France"
	ua := warningFixture()
	ua.ContentID = "2462512"
	ua.CountryCode = "UA"
	ua.CountryName = "Ukraine"

	for _, w := range []domain.Warning{de, fr, ua} {
		_, err := r.Create(ctx, w)
		require.NoError(t, err)
	}

	warnings, err := r.ListByCountryCodes(ctx, []string{"DE", "UA"})

	require.NoError(t, err)
	require.Len(t, warnings, 2)

	var codes []string
	for _, w := range warnings {
		codes = append(codes, w.CountryCode)
	}
	assert.ElementsMatch(t, []string{"DE", "UA"}, codes)
}

func TestWarningRepo_ContentIDUnique(t *testing.T) {
	r := repo.NewWarningRepo(newTestTx(t))
	ctx := context.Background()

	_, err := r.Create(ctx, warningFixture())
	require.NoError(t, err)

	_, err = r.Create(ctx, warningFixture())
	assert.Error(t, err, "content_id is unique — second insert must fail")
}
