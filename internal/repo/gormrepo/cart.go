package gormrepo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity > models.MaxQuantity {
		return nil, repo.ErrQuantityLimit
	}

	item, err := r.addToCart(ctx, userID, productID, quantity)
	if errors.Is(err, repo.ErrDuplicate) {
		// a concurrent request created the row first, the increment path now applies
		item, err = r.addToCart(ctx, userID, productID, quantity)
	}
	return item, err
}

func (r *GormRepo) addToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ? AND quantity <= ?", userID, productID, models.MaxQuantity-quantity).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
		}

		var existing int64
		if err := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return repo.ErrQuantityLimit
		}

		item = models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *GormRepo) SetQuantity(ctx context.Context, itemID, userID uuid.UUID, quantity int) (*models.CartItem, error) {
	res := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", quantity)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, repo.ErrNotFound
	}

	var item models.CartItem
	if err := r.DB.WithContext(ctx).Where("id = ?", itemID).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, itemID, userID uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
