package mongorepo

import (
	"context"
	"time"

	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoRepo) SaveCard(ctx context.Context, t *models.PaymentToken) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set":         bson.M{"card_token": t.CardToken, "updated_at": now},
		"$setOnInsert": bson.M{"_id": uuid.New(), "created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	if err := r.cards.FindOneAndUpdate(ctx, bson.M{"user_id": t.UserID}, update, opts).Decode(t); err != nil {
		return translate(err)
	}
	return nil
}

func (r *MongoRepo) GetCardByUser(ctx context.Context, userID uuid.UUID) (*models.PaymentToken, error) {
	var token models.PaymentToken
	if err := r.cards.FindOne(ctx, bson.M{"user_id": userID}).Decode(&token); err != nil {
		return nil, translate(err)
	}
	return &token, nil
}
