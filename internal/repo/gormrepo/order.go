package gormrepo

import (
	"context"

	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/google/uuid"
)

// CreateOrder writes the order as a single row; line items live in a JSON
// column next to it.
func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return translate(r.DB.WithContext(ctx).Create(o).Error)
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Order, error) {
	orders := make([]models.Order, 0, limit)
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}
