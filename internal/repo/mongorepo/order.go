package mongorepo

import (
	"context"

	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

func (r *MongoRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	_, err := r.orders.InsertOne(ctx, o)
	return translate(err)
}

func (r *MongoRepo) ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Order, error) {
	opts := paging(offset, limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.orders.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoRepo) GetOrder(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.orders.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&order); err != nil {
		return nil, translate(err)
	}
	return &order, nil
}
