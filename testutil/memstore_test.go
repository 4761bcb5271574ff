package testutil_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/cityinfo/internal/domain"
	"github.com/pkordes/cityinfo/testutil"
)

func TestMemStore_RemoveCityCascades(t *testing.T) {
	store := testutil.NewMemStore()

	store.RemoveCity(2)

	assert.Zero(t, store.PointOfInterestCount(2))
	_, ok := store.PointOfInterest(3)
	assert.False(t, ok)
	exists, err := store.NewRepo().CityExists(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, 2, store.PointOfInterestCount(3), "other cities untouched")
}

func TestMemStore_Commit_AddUnderRemovedCity(t *testing.T) {
	store := testutil.NewMemStore()
	r := store.NewRepo()

	poi := &domain.PointOfInterest{Name: "Grote Markt"}
	r.AddPointOfInterestForCity(2, poi)
	store.RemoveCity(2)

	err := r.Commit(context.Background())

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, poi.ID)
	assert.Zero(t, store.Commits())
}

func TestMemStore_Commit_DeleteAfterRemovedCity(t *testing.T) {
	store := testutil.NewMemStore()
	r := store.NewRepo()
	ctx := context.Background()

	poi, err := r.GetPointOfInterestForCity(ctx, 2, 3)
	require.NoError(t, err)
	r.DeletePointOfInterest(poi)
	store.RemoveCity(2)

	assert.ErrorIs(t, r.Commit(ctx), domain.ErrNotFound)
}

func TestMemStore_FailCommitsLeavesStoreUntouched(t *testing.T) {
	store := testutil.NewMemStore()
	errDown := errors.New("connection refused")
	store.FailCommits(errDown)
	r := store.NewRepo()
	ctx := context.Background()

	poi, err := r.GetPointOfInterestForCity(ctx, 2, 3)
	require.NoError(t, err)
	poi.Name = "Renamed"

	require.ErrorIs(t, r.Commit(ctx), errDown)
	got, _ := store.PointOfInterest(3)
	assert.Equal(t, "Cathedral", got.Name)

	store.FailCommits(nil)
	require.NoError(t, r.Commit(ctx))
	got, _ = store.PointOfInterest(3)
	assert.Equal(t, "Renamed", got.Name)
}

func TestMemStore_IDsOutsideInt4Fail(t *testing.T) {
	r := testutil.NewMemStore().NewRepo()
	ctx := context.Background()

	_, err := r.CityExists(ctx, 3000000000)
	assert.Error(t, err)
	_, err = r.GetPointOfInterestForCity(ctx, 2, 3000000000)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
