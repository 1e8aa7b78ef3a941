package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
)

type fakeIndex struct {
	indexed  map[uuid.UUID]string
	deleted  []uuid.UUID
	searched []string
	err      error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: map[uuid.UUID]string{}}
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	f.indexed[p.ID] = p.Name
	return f.err
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, q string, _, _ int) (int64, []models.Product, error) {
	f.searched = append(f.searched, q)
	if f.err != nil {
		return 0, nil, f.err
	}
	return 1, []models.Product{{Name: "from index"}}, nil
}

func TestCatalogService_CreatePatchDelete(t *testing.T) {
	store := newTestStore(t)
	idx := newFakeIndex()
	rec := &recorder{}
	svc := &CatalogService{Repo: store, Index: idx, Events: rec}
	ctx := context.Background()

	p := &models.Product{Name: "Armchair", Price: 150, Category: "chairs"}
	require.NoError(t, svc.Create(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, "Armchair", idx.indexed[p.ID])

	price := 175.5
	trending := true
	patched, err := svc.Patch(ctx, p.ID.String(), ProductPatch{Price: &price, Trending: &trending})
	require.NoError(t, err)
	assert.Equal(t, 175.5, patched.Price)
	assert.True(t, patched.Trending)
	assert.Equal(t, "Armchair", patched.Name)

	negative := -1.0
	_, err = svc.Patch(ctx, p.ID.String(), ProductPatch{Price: &negative})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.Delete(ctx, p.ID.String()))
	assert.Equal(t, []uuid.UUID{p.ID}, idx.deleted)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID.String()), ErrNotFound)

	_, err = svc.Get(ctx, p.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"product_created", "product_updated", "product_deleted"}, rec.types())
}

func TestCatalogService_Create_Validation(t *testing.T) {
	svc := &CatalogService{Repo: newTestStore(t)}

	assert.ErrorIs(t, svc.Create(context.Background(), &models.Product{Price: 1}), ErrValidation)
	assert.ErrorIs(t, svc.Create(context.Background(), &models.Product{Name: "x", Price: -3}), ErrValidation)
}

func TestCatalogService_List_Filters(t *testing.T) {
	store := newTestStore(t)
	svc := &CatalogService{Repo: store}
	ctx := context.Background()

	for i, c := range []string{"tables", "tables", "chairs"} {
		require.NoError(t, svc.Create(ctx, &models.Product{Name: c, Price: float64(i), Category: c, Trending: i == 2}))
	}

	total, items, err := svc.List(ctx, repo.ProductFilter{}, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 2)

	total, items, err = svc.List(ctx, repo.ProductFilter{Category: "tables"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)

	trending := true
	total, items, err = svc.List(ctx, repo.ProductFilter{Trending: &trending}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "chairs", items[0].Name)
}

func TestCatalogService_Search(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedProduct(t, store, "Walnut Desk", 400)
	seedProduct(t, store, "Pine desk_100%", 90)
	seedProduct(t, store, "Lamp", 30)

	t.Run("store fallback", func(t *testing.T) {
		svc := &CatalogService{Repo: store}
		total, items, err := svc.Search(ctx, "DESK", 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, items, 2)

		total, _, err = svc.Search(ctx, "100%", 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("index first", func(t *testing.T) {
		idx := newFakeIndex()
		svc := &CatalogService{Repo: store, Index: idx}
		_, items, err := svc.Search(ctx, "desk", 1, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "from index", items[0].Name)
	})

	t.Run("index down falls back to store", func(t *testing.T) {
		idx := newFakeIndex()
		idx.err = errors.New("connection refused")
		svc := &CatalogService{Repo: store, Index: idx}
		total, _, err := svc.Search(ctx, "lamp", 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, []string{"lamp"}, idx.searched)
	})

	t.Run("empty query", func(t *testing.T) {
		svc := &CatalogService{Repo: store}
		_, _, err := svc.Search(ctx, "  ", 1, 10)
		assert.ErrorIs(t, err, ErrValidation)
	})
}
