package mongorepo

import (
	"context"
	"errors"
	"fmt"

	pkgdb "github.com/Skotchmaster/furniture_shop/internal/db"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	productsCollection = "products"
	usersCollection    = "users"
	cartCollection     = "cart_items"
	ordersCollection   = "orders"
	cardsCollection    = "credit_cards"
)

type MongoRepo struct {
	db       *mongo.Database
	products *mongo.Collection
	users    *mongo.Collection
	carts    *mongo.Collection
	orders   *mongo.Collection
	cards    *mongo.Collection
}

var _ repo.Store = (*MongoRepo)(nil)

func New(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		db:       db,
		products: db.Collection(productsCollection),
		users:    db.Collection(usersCollection),
		carts:    db.Collection(cartCollection),
		orders:   db.Collection(ordersCollection),
		cards:    db.Collection(cardsCollection),
	}
}

// Connect dials MongoDB and makes sure the indexes the repository relies on
// exist.
func Connect(ctx context.Context, uri, database string) (*MongoRepo, error) {
	mdb, err := pkgdb.ConnectMongo(ctx, uri, database)
	if err != nil {
		return nil, err
	}
	r := New(mdb)
	if err := r.CreateIndexes(ctx); err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return r, nil
}

func (r *MongoRepo) CreateIndexes(ctx context.Context) error {
	plan := map[*mongo.Collection][]mongo.IndexModel{
		r.users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		r.carts: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		r.orders: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		r.cards: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		r.products: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
	}

	for coll, indexes := range plan {
		if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("%s: %w", coll.Name(), err)
		}
	}
	return nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

func (r *MongoRepo) Close(ctx context.Context) error {
	return r.db.Client().Disconnect(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repo.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repo.ErrDuplicate
	}
	return err
}

func paging(offset, limit int) *options.FindOptions {
	return options.Find().SetSkip(int64(offset)).SetLimit(int64(limit))
}
