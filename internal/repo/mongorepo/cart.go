package mongorepo

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoRepo) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	cur, err := r.carts.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	items := []models.CartItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart relies on the unique (user_id, product_id) index: the upsert
// either increments the existing document or inserts a new one atomically.
// The quantity bound in the filter makes an over-limit document miss, so the
// upsert then collides with it on the index.
func (r *MongoRepo) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity > models.MaxQuantity {
		return nil, repo.ErrQuantityLimit
	}

	now := time.Now().UTC()
	filter := bson.M{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   bson.M{"$lte": models.MaxQuantity - quantity},
	}
	update := bson.M{
		"$inc":         bson.M{"quantity": quantity},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"_id": uuid.New(), "created_at": now},
	}
	upsert := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var item models.CartItem
	err := r.carts.FindOneAndUpdate(ctx, filter, update, upsert).Decode(&item)
	if mongo.IsDuplicateKeyError(err) {
		// either a concurrent insert won or the item is at the limit
		after := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = r.carts.FindOneAndUpdate(ctx, filter, update, after).Decode(&item)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repo.ErrQuantityLimit
		}
	}
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *MongoRepo) SetQuantity(ctx context.Context, itemID, userID uuid.UUID, quantity int) (*models.CartItem, error) {
	filter := bson.M{"_id": itemID, "user_id": userID}
	update := bson.M{"$set": bson.M{"quantity": quantity, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.CartItem
	if err := r.carts.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item); err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *MongoRepo) DeleteCartItem(ctx context.Context, itemID, userID uuid.UUID) error {
	res, err := r.carts.DeleteOne(ctx, bson.M{"_id": itemID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *MongoRepo) ClearCart(ctx context.Context, userID uuid.UUID) error {
	_, err := r.carts.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
