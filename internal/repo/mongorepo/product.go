package mongorepo

import (
	"context"
	"regexp"
	"time"

	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *MongoRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var items []models.Product
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func productFilter(f repo.ProductFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Trending != nil {
		filter["trending"] = *f.Trending
	}
	return filter
}

func (r *MongoRepo) findProducts(ctx context.Context, filter bson.M, opts *options.FindOptions) (int64, []models.Product, error) {
	total, err := r.products.CountDocuments(ctx, filter)
	if err != nil {
		return 0, nil, err
	}

	cur, err := r.products.Find(ctx, filter, opts)
	if err != nil {
		return 0, nil, err
	}
	items := []models.Product{}
	if err := cur.All(ctx, &items); err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *MongoRepo) ListProducts(ctx context.Context, f repo.ProductFilter, offset, limit int) (int64, []models.Product, error) {
	opts := paging(offset, limit).SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.findProducts(ctx, productFilter(f), opts)
}

func (r *MongoRepo) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": re},
		bson.M{"description": re},
	}}
	opts := paging(offset, limit).SetSort(bson.D{{Key: "name", Value: 1}})
	return r.findProducts(ctx, filter, opts)
}

func (r *MongoRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := r.products.InsertOne(ctx, p)
	return translate(err)
}

func (r *MongoRepo) UpdateProduct(ctx context.Context, p *models.Product) error {
	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"image":       p.Image,
		"trending":    p.Trending,
		"updated_at":  time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.products.FindOneAndUpdate(ctx, bson.M{"_id": p.ID}, update, opts).Decode(p); err != nil {
		return translate(err)
	}
	return nil
}

func (r *MongoRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := r.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}
