package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")

	// ErrQuantityLimit is returned by AddToCart when the merged quantity
	// would pass models.MaxQuantity. The stored item is left unchanged.
	ErrQuantityLimit = errors.New("quantity limit exceeded")
)

type ProductFilter struct {
	Category string
	Trending *bool
}

type Products interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	ListProducts(ctx context.Context, f ProductFilter, offset, limit int) (int64, []models.Product, error)
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type Carts interface {
	// AddToCart increments the quantity of the (user, product) item in one
	// storage operation, creating the item when it does not exist yet.
	// The merged quantity never passes models.MaxQuantity.
	AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error)
	GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	SetQuantity(ctx context.Context, itemID, userID uuid.UUID, quantity int) (*models.CartItem, error)
	DeleteCartItem(ctx context.Context, itemID, userID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type Orders interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Order, error)
	GetOrder(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
}

type Users interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Cards interface {
	// SaveCard stores the token of a user, replacing the previous one.
	SaveCard(ctx context.Context, t *models.PaymentToken) error
	GetCardByUser(ctx context.Context, userID uuid.UUID) (*models.PaymentToken, error)
}

// Store is the full persistence surface a storage adapter provides.
type Store interface {
	Products
	Carts
	Orders
	Users
	Cards

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
