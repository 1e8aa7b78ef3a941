package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	OrderStatusPending = "Pending"
)

type Product struct {
	ID          uuid.UUID `gorm:"primaryKey"                 bson:"_id"         json:"id"`
	Name        string    `gorm:"not null"                   bson:"name"        json:"name"`
	Description string    `gorm:"not null;default:''"        bson:"description" json:"description"`
	Price       float64   `gorm:"not null;check:price >= 0"  bson:"price"       json:"price"`
	Category    string    `gorm:"index"                      bson:"category"    json:"category"`
	Image       string    `                                  bson:"image"       json:"image"`
	Trending    bool      `gorm:"default:false"              bson:"trending"    json:"trending"`
	CreatedAt   time.Time `                                  bson:"created_at"  json:"createdAt"`
	UpdatedAt   time.Time `                                  bson:"updated_at"  json:"updatedAt"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"          bson:"_id"           json:"id"`
	Name         string    `gorm:"not null"            bson:"name"          json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" bson:"email"        json:"email"`
	Phone        string    `                           bson:"phone"         json:"phone"`
	PasswordHash string    `gorm:"not null"            bson:"password_hash" json:"-"`
	Address      string    `                           bson:"address"       json:"address"`
	Role         string    `gorm:"not null;default:user" bson:"role"        json:"role"`
	CreatedAt    time.Time `                           bson:"created_at"    json:"createdAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// MaxQuantity caps the quantity of a single cart item or order line.
const MaxQuantity = 1000

type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                                     bson:"_id"        json:"id"`
	UserID    uuid.UUID `gorm:"not null;uniqueIndex:idx_cart_user_product"     bson:"user_id"    json:"userId"`
	ProductID uuid.UUID `gorm:"not null;uniqueIndex:idx_cart_user_product"     bson:"product_id" json:"productId"`
	Quantity  int       `gorm:"not null;default:1;check:quantity > 0"          bson:"quantity"   json:"quantity"`
	CreatedAt time.Time `                                                      bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `                                                      bson:"updated_at" json:"updatedAt"`
}

func (i *CartItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Contact is copied onto the order when it is placed.
type Contact struct {
	Name    string `bson:"name"    json:"name"`
	Email   string `bson:"email"   json:"email"`
	Phone   string `bson:"phone"   json:"phone"`
	Address string `bson:"address" json:"address"`
}

// OrderItem holds the product data as it was when the order was placed.
type OrderItem struct {
	ProductID uuid.UUID `bson:"product_id" json:"productId"`
	Name      string    `bson:"name"       json:"name"`
	Price     float64   `bson:"price"      json:"price"`
	Quantity  int       `bson:"quantity"   json:"quantity"`
}

type Order struct {
	ID            uuid.UUID `gorm:"primaryKey"                 bson:"_id"            json:"id"`
	UserID        uuid.UUID `gorm:"index;not null"             bson:"user_id"        json:"userId"`
	Contact       `gorm:"embedded;embeddedPrefix:contact_" bson:",inline"`
	PaymentMethod string                         `                                  bson:"payment_method" json:"paymentMethod"`
	TotalPrice    float64                        `gorm:"not null"                   bson:"total_price"    json:"totalPrice"`
	Items         datatypes.JSONSlice[OrderItem] `gorm:"not null"                  bson:"items"          json:"items"`
	Status        string                         `gorm:"not null;default:Pending"   bson:"status"         json:"status"`
	CreatedAt     time.Time                      `gorm:"index"                      bson:"created_at"     json:"createdAt"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type PaymentToken struct {
	ID        uuid.UUID `gorm:"primaryKey"           bson:"_id"        json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex;not null" bson:"user_id"    json:"userId"`
	CardToken string    `gorm:"not null"             bson:"card_token" json:"cardToken"`
	CreatedAt time.Time `                            bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `                            bson:"updated_at" json:"updatedAt"`
}

func (t *PaymentToken) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// CartLine is a cart item expanded with its product. Product is nil when the
// product was removed from the catalog after the item was added.
type CartLine struct {
	CartItem
	Product *Product `json:"product"`
}
