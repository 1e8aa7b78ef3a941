// Package repotest holds behaviour checks shared by every repo.Store adapter.
package repotest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
)

// Run exercises store against the contract of repo.Store. newStore must
// return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) repo.Store) {
	t.Run("products", func(t *testing.T) { products(t, newStore(t)) })
	t.Run("cart increment", func(t *testing.T) { cartIncrement(t, newStore(t)) })
	t.Run("cart quantity limit", func(t *testing.T) { cartLimit(t, newStore(t)) })
	t.Run("cart ownership", func(t *testing.T) { cartOwnership(t, newStore(t)) })
	t.Run("orders", func(t *testing.T) { orders(t, newStore(t)) })
	t.Run("users", func(t *testing.T) { users(t, newStore(t)) })
	t.Run("cards", func(t *testing.T) { cards(t, newStore(t)) })
}

func newProduct(t *testing.T, s repo.Store, name, category string, price float64, trending bool) *models.Product {
	t.Helper()

	p := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: name + " made of oak",
		Price:       price,
		Category:    category,
		Trending:    trending,
	}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func products(t *testing.T, s repo.Store) {
	ctx := context.Background()
	table := newProduct(t, s, "Dining Table", "tables", 300, true)
	newProduct(t, s, "Coffee table", "tables", 120, false)
	chair := newProduct(t, s, "Chair", "chairs", 40, false)

	got, err := s.GetProduct(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dining Table", got.Name)

	_, err = s.GetProduct(ctx, uuid.New())
	assert.ErrorIs(t, err, repo.ErrNotFound)

	total, items, err := s.ListProducts(ctx, repo.ProductFilter{Category: "tables"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)

	trending := true
	total, items, err = s.ListProducts(ctx, repo.ProductFilter{Trending: &trending}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, table.ID, items[0].ID)

	total, items, err = s.ListProducts(ctx, repo.ProductFilter{}, 2, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 1)

	total, items, err = s.SearchProducts(ctx, "TABLE", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)

	_, items, err = s.SearchProducts(ctx, "100%", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, items)

	byID, err := s.GetProductsByIDs(ctx, []uuid.UUID{table.ID, chair.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, byID, 2)

	chair.Price = 45
	require.NoError(t, s.UpdateProduct(ctx, chair))
	got, err = s.GetProduct(ctx, chair.ID)
	require.NoError(t, err)
	assert.Equal(t, 45.0, got.Price)

	require.NoError(t, s.DeleteProduct(ctx, chair.ID))
	assert.ErrorIs(t, s.DeleteProduct(ctx, chair.ID), repo.ErrNotFound)
}

func cartIncrement(t *testing.T, s repo.Store) {
	ctx := context.Background()
	p := newProduct(t, s, "Sofa", "sofas", 700, false)
	userID := uuid.New()

	first, err := s.AddToCart(ctx, userID, p.ID, 2)
	require.NoError(t, err)
	second, err := s.AddToCart(ctx, userID, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddToCart(ctx, userID, p.ID, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items, err := s.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5+workers, items[0].Quantity)
}

func cartLimit(t *testing.T, s repo.Store) {
	ctx := context.Background()
	p := newProduct(t, s, "Shelf", "storage", 60, false)
	userID := uuid.New()

	_, err := s.AddToCart(ctx, userID, p.ID, models.MaxQuantity+1)
	assert.ErrorIs(t, err, repo.ErrQuantityLimit)

	_, err = s.AddToCart(ctx, userID, p.ID, models.MaxQuantity-2)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, userID, p.ID, 3)
	assert.ErrorIs(t, err, repo.ErrQuantityLimit)

	item, err := s.AddToCart(ctx, userID, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.MaxQuantity, item.Quantity)

	_, err = s.AddToCart(ctx, userID, p.ID, 1)
	assert.ErrorIs(t, err, repo.ErrQuantityLimit)

	items, err := s.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.MaxQuantity, items[0].Quantity)
}

func cartOwnership(t *testing.T, s repo.Store) {
	ctx := context.Background()
	p := newProduct(t, s, "Lamp", "lights", 25, false)
	owner, stranger := uuid.New(), uuid.New()

	item, err := s.AddToCart(ctx, owner, p.ID, 1)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, stranger, p.ID, 4)
	require.NoError(t, err)

	_, err = s.SetQuantity(ctx, item.ID, stranger, 9)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, s.DeleteCartItem(ctx, item.ID, stranger), repo.ErrNotFound)

	updated, err := s.SetQuantity(ctx, item.ID, owner, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)

	require.NoError(t, s.ClearCart(ctx, owner))
	items, err := s.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = s.GetCart(ctx, stranger)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)

	assert.ErrorIs(t, s.DeleteCartItem(ctx, item.ID, owner), repo.ErrNotFound)
}

func orders(t *testing.T, s repo.Store) {
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		o := &models.Order{
			ID:            uuid.New(),
			UserID:        userID,
			Contact:       models.Contact{Name: "Ann", Email: "ann@example.com"},
			PaymentMethod: "card",
			TotalPrice:    float64(10 * (i + 1)),
			Items:         []models.OrderItem{{ProductID: productID, Name: "Stool", Price: 10, Quantity: i + 1}},
			Status:        models.OrderStatusPending,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.CreateOrder(ctx, o))
		ids = append(ids, o.ID)
	}

	list, err := s.ListOrders(ctx, userID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[0], list[2].ID)

	got, err := s.GetOrder(ctx, ids[1], userID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	require.Len(t, got.Items, 1)
	assert.Equal(t, productID, got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Quantity)

	_, err = s.GetOrder(ctx, ids[1], uuid.New())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func users(t *testing.T, s repo.Store) {
	ctx := context.Background()
	u := &models.User{ID: uuid.New(), Name: "Ann", Email: "ann@example.com", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, s.CreateUser(ctx, u))

	dup := &models.User{ID: uuid.New(), Name: "Other", Email: "ann@example.com", PasswordHash: "h", Role: models.RoleUser}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), repo.ErrDuplicate)

	got, err := s.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "h", got.PasswordHash)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func cards(t *testing.T, s repo.Store) {
	ctx := context.Background()
	userID := uuid.New()

	_, err := s.GetCardByUser(ctx, userID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	first := &models.PaymentToken{UserID: userID, CardToken: "tok_1"}
	require.NoError(t, s.SaveCard(ctx, first))
	second := &models.PaymentToken{UserID: userID, CardToken: "tok_2"}
	require.NoError(t, s.SaveCard(ctx, second))

	got, err := s.GetCardByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "tok_2", got.CardToken)
	assert.Equal(t, first.ID, got.ID)
}
