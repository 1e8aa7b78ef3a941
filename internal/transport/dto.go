package transport

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone" validate:"required,phone"`
	Address  string `json:"address" validate:"max=500"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Message   string   `json:"message"`
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expiresAt"`
	UserID    string   `json:"userId"`
	User      UserView `json:"user"`
}

// AddToCartRequest.Quantity defaults to 1 when absent.
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"omitempty,gte=1,lte=1000"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1,lte=1000"`
}

type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1,lte=1000"`
	// accepted for compatibility, the catalog is authoritative
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Address string `json:"address" validate:"max=500"`
}

type CreateOrderRequest struct {
	UserID string `json:"userId"`
	ContactRequest
	PaymentMethod string             `json:"paymentMethod" validate:"max=50"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CheckoutRequest struct {
	ContactRequest
	PaymentMethod string `json:"paymentMethod" validate:"max=50"`
}

type OrderResponse struct {
	Success bool `json:"success"`
	Order   any  `json:"order"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"max=100"`
	Image       string  `json:"image"`
	Trending    bool    `json:"trending"`
}

type PatchProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	Image       *string  `json:"image"`
	Trending    *bool    `json:"trending"`
}

type StoreCardRequest struct {
	UserID    string `json:"userId" validate:"required"`
	CardToken string `json:"cardToken" validate:"required"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}
