package repo_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/repo"
)

func fp(f float64) *float64 { return &f }

// createUser inserts a user with the given external ID inside tx.
func createUser(t *testing.T, tx pgx.Tx, externalID int64) domain.User {
	t.Helper()
	u, err := repo.NewUserRepo(tx).FindOrCreate(context.Background(), domain.Profile{ExternalID: externalID, Username: "traveller"})
	require.NoError(t, err)
	return u
}

// checklistFixture returns a travel checklist for owner with full metadata.
func checklistFixture(owner uuid.UUID) domain.Checklist {
	return domain.Checklist{
		OwnerID: owner,
		Title:   "Lisbon from 25.06.2030 (beach vacation, 5 days)",
		Type:    domain.ChecklistTypeTravel,
		TripMetadata: domain.TripMetadata{
			Destination:      "Lisbon",
			DurationDays:     5,
			StartDate:        "25.06.2030",
			PurposeText:      "beach vacation",
			Purpose:          "beach",
			GenerationMethod: domain.MethodRules,
			AggregatedWeather: &domain.WeatherSummary{
				DayTempRange:   &domain.TempRange{Min: 24.3, Max: 29.87},
				NightTempRange: &domain.TempRange{Min: 16.1, Max: 18.4},
				Descriptions:   []string{"clear sky", "few clouds"},
				TotalPrecip:    fp(0),
				AvgPrecip:      fp(0),
			},
			Extra: map[string]json.RawMessage{"source": json.RawMessage(`"chat"`)},
		},
	}
}

var fixtureItems = []domain.NewItem{
	{Title: "Passport", Category: "Documents & money"},
	{Title: "Swimsuit", Category: "Clothing"},
	{Title: "Bank cards", Category: "Documents & money"},
	{Title: "Sewing kit"},
}

func TestChecklistRepo_CreateWithItems(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewChecklistRepo(tx)
	ctx := context.Background()
	owner := createUser(t, tx, 1001)

	got, err := r.CreateWithItems(ctx, checklistFixture(owner.ID), fixtureItems)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.Checklist.ID, "ID should be DB-generated UUID")
	assert.Equal(t, owner.ID, got.Checklist.OwnerID)
	assert.False(t, got.Checklist.CreatedAt.IsZero())
	require.Len(t, got.Items, 4)
	for i, it := range got.Items {
		assert.Equal(t, got.Checklist.ID, it.ChecklistID)
		assert.Equal(t, i, it.Position)
	}
}

func TestChecklistRepo_MetadataRoundTrip(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewChecklistRepo(tx)
	ctx := context.Background()
	owner := createUser(t, tx, 1002)
	input := checklistFixture(owner.ID)

	created, err := r.CreateWithItems(ctx, input, fixtureItems)
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.Checklist.ID)

	require.NoError(t, err)
	want := input.TripMetadata.AggregatedWeather
	require.NotNil(t, got.TripMetadata.AggregatedWeather)
	assert.Equal(t, *want.DayTempRange, *got.TripMetadata.AggregatedWeather.DayTempRange)
	assert.Equal(t, *want.NightTempRange, *got.TripMetadata.AggregatedWeather.NightTempRange)
	assert.Equal(t, want.Descriptions, got.TripMetadata.AggregatedWeather.Descriptions)
	assert.Equal(t, "beach vacation", got.TripMetadata.PurposeText)
	assert.JSONEq(t, `"chat"`, string(got.TripMetadata.Extra["source"]), "unknown keys pass through")
}

func TestChecklistRepo_CreateWithItems_IsAtomic(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewChecklistRepo(tx)
	ctx := context.Background()
	owner := createUser(t, tx, 1003)

	// The empty title violates the items CHECK constraint after the header
	// and the first item were written.
	items := []domain.NewItem{{Title: "Passport"}, {Title: ""}}
	_, err := r.CreateWithItems(ctx, checklistFixture(owner.ID), items)
	require.Error(t, err)

	lists, err := r.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, lists, "no header without its items")
}

func TestChecklistRepo_GetByID_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewChecklistRepo(tx)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChecklistRepo_ListByOwner(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewChecklistRepo(tx)
	ctx := context.Background()
	owner := createUser(t, tx, 1004)
	other := createUser(t, tx, 1005)

	_, err := r.CreateWithItems(ctx, checklistFixture(owner.ID), nil)
	require.NoError(t, err)
	_, err = r.CreateWithItems(ctx, checklistFixture(owner.ID), nil)
	require.NoError(t, err)
	_, err = r.CreateWithItems(ctx, checklistFixture(other.ID), nil)
	require.NoError(t, err)

	lists, err := r.ListByOwner(ctx, owner.ID)

	require.NoError(t, err)
	assert.Len(t, lists, 2)
	for _, c := range lists {
		assert.Equal(t, owner.ID, c.OwnerID)
	}
}

func TestChecklistRepo_ListRecentByOwner(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewChecklistRepo(tx)
	ctx := context.Background()
	owner := createUser(t, tx, 1006)

	for range 4 {
		_, err := r.CreateWithItems(ctx, checklistFixture(owner.ID), nil)
		require.NoError(t, err)
	}

	lists, err := r.ListRecentByOwner(ctx, owner.ID, 3)

	require.NoError(t, err)
	assert.Len(t, lists, 3)
}
