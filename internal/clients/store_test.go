package clients

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viabilidad/internal/engine"
	"viabilidad/internal/property"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "clients.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleClient(name string) *Client {
	return &Client{
		Name:             name,
		Phone:            "659252525",
		MaxPurchasePrice: 245833.33,
		Inputs: engine.Input{
			Holders: 1,
			Holder1: engine.HolderProfile{
				MonthlyIncome:    2000,
				AnnualPayments:   14,
				Age:              30,
				EmploymentStatus: "Fijo",
			},
			TermPreference: "max",
		},
	}
}

func TestStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	client := sampleClient("Laura")
	client.FavoriteProperty = &property.Comparison{
		Name:   "Piso centro",
		Price:  200000,
		Region: "Madrid",
	}
	require.NoError(t, store.Save(ctx, client))
	require.NotZero(t, client.ID)
	assert.Equal(t, "34659252525", client.Phone)
	assert.Equal(t, StatusDefault, client.Status)
	assert.Equal(t, 1, client.SortOrder)

	loaded, err := store.Get(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laura", loaded.Name)
	assert.Equal(t, "34659252525", loaded.Phone)
	assert.InDelta(t, 245833.33, loaded.MaxPurchasePrice, 0.001)
	// The input snapshot must round-trip unchanged.
	assert.Equal(t, client.Inputs, loaded.Inputs)
	require.NotNil(t, loaded.FavoriteProperty)
	assert.Equal(t, "Piso centro", loaded.FavoriteProperty.Name)
}

func TestStoreSaveAssignsIncreasingSortOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := sampleClient("Ana")
	second := sampleClient("Berta")
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	assert.Equal(t, 1, first.SortOrder)
	assert.Equal(t, 2, second.SortOrder)
}

func TestStoreSaveRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Save(ctx, &Client{Name: "  "})
	require.Error(t, err)
}

func TestStoreUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	client := sampleClient("Laura")
	require.NoError(t, store.Save(ctx, client))

	client.Name = "Laura G."
	client.MaxPurchasePrice = 300000
	client.Inputs.MonthlyExpenses = 250
	require.NoError(t, store.Update(ctx, client))

	loaded, err := store.Get(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laura G.", loaded.Name)
	assert.InDelta(t, 300000, loaded.MaxPurchasePrice, 0.001)
	assert.InDelta(t, 250, loaded.Inputs.MonthlyExpenses, 0.001)

	missing := sampleClient("Nadie")
	missing.ID = 9999
	require.Error(t, store.Update(ctx, missing))
}

func TestStoreListOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	names := []string{"Ana", "Berta", "Carmen"}
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		client := sampleClient(name)
		require.NoError(t, store.Save(ctx, client))
		ids = append(ids, client.ID)
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Ana", list[0].Name)
	assert.Equal(t, "Carmen", list[2].Name)

	// Reverse the manual ordering.
	require.NoError(t, store.Reorder(ctx, []int64{ids[2], ids[1], ids[0]}))

	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Carmen", list[0].Name)
	assert.Equal(t, "Ana", list[2].Name)
}

func TestStoreUpdateStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	client := sampleClient("Laura")
	require.NoError(t, store.Save(ctx, client))

	require.NoError(t, store.UpdateStatus(ctx, client.ID, StatusArras))
	loaded, err := store.Get(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusArras, loaded.Status)

	require.Error(t, store.UpdateStatus(ctx, client.ID, Status("won")))
	require.Error(t, store.UpdateStatus(ctx, 9999, StatusArras))
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	client := sampleClient("Laura")
	require.NoError(t, store.Save(ctx, client))

	require.NoError(t, store.Delete(ctx, client.ID))
	_, err := store.Get(ctx, client.ID)
	require.Error(t, err)

	require.Error(t, store.Delete(ctx, client.ID))
}
