package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/repo"
)

// newChecklistWithItems stores the fixture checklist and returns it with a
// repo over the same transaction.
func newChecklistWithItems(t *testing.T, tx pgx.Tx, externalID int64) (repo.ItemRepo, domain.ChecklistWithItems) {
	t.Helper()
	owner := createUser(t, tx, externalID)
	c, err := repo.NewChecklistRepo(tx).CreateWithItems(context.Background(), checklistFixture(owner.ID), fixtureItems)
	require.NoError(t, err)
	return repo.NewItemRepo(tx), c
}

func TestItemRepo_ListByChecklist_KeepsInsertionOrder(t *testing.T) {
	tx := newTestTx(t)
	r, c := newChecklistWithItems(t, tx, 2001)

	items, err := r.ListByChecklist(context.Background(), c.Checklist.ID)

	require.NoError(t, err)
	titles := make([]string, 0, len(items))
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	assert.Equal(t, []string{"Passport", "Swimsuit", "Bank cards", "Sewing kit"}, titles)
}

func TestItemRepo_Add_AppendsAfterLastPosition(t *testing.T) {
	tx := newTestTx(t)
	r, c := newChecklistWithItems(t, tx, 2002)

	got, err := r.Add(context.Background(), c.Checklist.ID, domain.NewItem{Title: "Sunscreen", Category: "Hygiene"})

	require.NoError(t, err)
	assert.Equal(t, len(fixtureItems), got.Position)
	assert.Equal(t, "Hygiene", got.Category)
	assert.False(t, got.IsCompleted)
}

func TestItemRepo_GetByID_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewItemRepo(tx)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemRepo_Delete(t *testing.T) {
	tx := newTestTx(t)
	r, c := newChecklistWithItems(t, tx, 2003)
	ctx := context.Background()
	id := c.Items[0].ID

	require.NoError(t, r.Delete(ctx, id))

	_, err := r.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound, "item should be gone after delete")
	assert.ErrorIs(t, r.Delete(ctx, id), domain.ErrNotFound)
}

func TestItemRepo_ToggleCompleted(t *testing.T) {
	tx := newTestTx(t)
	r, c := newChecklistWithItems(t, tx, 2004)
	ctx := context.Background()
	id := c.Items[1].ID

	on, err := r.ToggleCompleted(ctx, id)
	require.NoError(t, err)
	off, err := r.ToggleCompleted(ctx, id)
	require.NoError(t, err)

	assert.True(t, on.IsCompleted)
	assert.False(t, off.IsCompleted)
}

func TestItemRepo_DeleteCategory(t *testing.T) {
	tx := newTestTx(t)
	r, c := newChecklistWithItems(t, tx, 2005)
	ctx := context.Background()

	n, err := r.DeleteCategory(ctx, c.Checklist.ID, "Documents & money")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// "Sewing kit" has no category and is shown under Other.
	n, err = r.DeleteCategory(ctx, c.Checklist.ID, domain.CategoryOther)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	items, err := r.ListByChecklist(ctx, c.Checklist.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Swimsuit", items[0].Title)
}
