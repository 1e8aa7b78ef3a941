package gormrepo

import (
	"context"
	"time"

	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) SaveCard(ctx context.Context, t *models.PaymentToken) error {
	t.UpdatedAt = time.Now().UTC()
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"card_token", "updated_at"}),
	}).Create(t).Error
	if err != nil {
		return translate(err)
	}

	stored, err := r.GetCardByUser(ctx, t.UserID)
	if err != nil {
		return err
	}
	*t = *stored
	return nil
}

func (r *GormRepo) GetCardByUser(ctx context.Context, userID uuid.UUID) (*models.PaymentToken, error) {
	var token models.PaymentToken
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}
