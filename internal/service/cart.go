package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/furniture_shop/internal/events"
	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
)

type CartStore interface {
	repo.Carts
	repo.Products
}

type CartService struct {
	Repo   CartStore
	Events events.Publisher
}

func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, productID string, quantity int) (*models.CartLine, error) {
	pid, err := parseID(productID, "product id")
	if err != nil {
		return nil, err
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}

	product, err := s.Repo.GetProduct(ctx, pid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("product %s does not exist: %w", pid, ErrValidation)
		}
		return nil, err
	}

	item, err := s.Repo.AddToCart(ctx, userID, pid, quantity)
	if err != nil {
		if errors.Is(err, repo.ErrQuantityLimit) {
			return nil, fmt.Errorf("cart quantity for product %s cannot exceed %d: %w", pid, models.MaxQuantity, ErrValidation)
		}
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicCart, userID.String(), "cart_item_added", map[string]any{
		"userId":    userID,
		"productId": pid,
		"added":     quantity,
		"quantity":  item.Quantity,
	})

	return &models.CartLine{CartItem: *item, Product: product}, nil
}

func (s *CartService) ListItems(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, items)
}

func (s *CartService) UpdateItem(ctx context.Context, itemID string, userID uuid.UUID, quantity int) (*models.CartLine, error) {
	id, err := parseID(itemID, "cart item id")
	if err != nil {
		return nil, err
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}

	item, err := s.Repo.SetQuantity(ctx, id, userID, quantity)
	if err != nil {
		return nil, notFound(err, "cart item %s", id)
	}

	events.Emit(ctx, s.Events, events.TopicCart, userID.String(), "cart_item_updated", map[string]any{
		"userId":    userID,
		"itemId":    item.ID,
		"productId": item.ProductID,
		"quantity":  item.Quantity,
	})

	lines, err := s.expand(ctx, []models.CartItem{*item})
	if err != nil {
		return nil, err
	}
	return &lines[0], nil
}

func (s *CartService) RemoveItem(ctx context.Context, itemID string, userID uuid.UUID) error {
	id, err := parseID(itemID, "cart item id")
	if err != nil {
		return err
	}

	if err := s.Repo.DeleteCartItem(ctx, id, userID); err != nil {
		return notFound(err, "cart item %s", id)
	}

	events.Emit(ctx, s.Events, events.TopicCart, userID.String(), "cart_item_removed", map[string]any{
		"userId": userID,
		"itemId": id,
	})
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		return err
	}

	events.Emit(ctx, s.Events, events.TopicCart, userID.String(), "cart_cleared", map[string]any{
		"userId": userID,
	})
	return nil
}

func (s *CartService) expand(ctx context.Context, items []models.CartItem) ([]models.CartLine, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	products, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]models.CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, models.CartLine{CartItem: it, Product: byID[it.ProductID]})
	}
	return lines, nil
}
