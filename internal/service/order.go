package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/furniture_shop/internal/events"
	"github.com/Skotchmaster/furniture_shop/internal/logging"
	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
	"github.com/Skotchmaster/furniture_shop/internal/util"
)

type OrderStore interface {
	repo.Orders
	repo.Products
	repo.Users
	repo.Carts
}

type OrderLine struct {
	ProductID string
	Quantity  int
}

type PlaceOrderInput struct {
	UserID        string
	Contact       models.Contact
	PaymentMethod string
	Items         []OrderLine
}

type OrderService struct {
	Repo   OrderStore
	Events events.Publisher
	Now    func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// PlaceOrder validates the request, copies name and price of every line from
// the catalog and stores the order with a single write. Nothing is written
// when any line is rejected.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	userID, err := parseID(in.UserID, "user id")
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("items required: %w", ErrValidation)
	}

	ids := make([]uuid.UUID, len(in.Items))
	valid := make([]uuid.UUID, 0, len(in.Items))
	for i, line := range in.Items {
		if id, err := uuid.Parse(line.ProductID); err == nil && id != uuid.Nil {
			ids[i] = id
			valid = append(valid, id)
		}
	}

	products, err := s.Repo.GetProductsByIDs(ctx, valid)
	if err != nil {
		return nil, err
	}
	catalog := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(in.Items))
	for i, line := range in.Items {
		if ids[i] == uuid.Nil {
			return nil, fmt.Errorf("invalid product id %q: %w", line.ProductID, ErrValidation)
		}
		p, ok := catalog[ids[i]]
		if !ok {
			return nil, fmt.Errorf("product %s does not exist: %w", ids[i], ErrValidation)
		}
		if err := checkQuantity(line.Quantity); err != nil {
			return nil, fmt.Errorf("product %s: %w", ids[i], err)
		}

		lineTotal := decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  line.Quantity,
		})
	}

	contact, err := s.contactFor(ctx, userID, in.Contact)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Contact:       contact,
		PaymentMethod: in.PaymentMethod,
		TotalPrice:    total.Round(2).InexactFloat64(),
		Items:         items,
		Status:        models.OrderStatusPending,
		CreatedAt:     s.now(),
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicOrder, userID.String(), "order_created", map[string]any{
		"orderId":    order.ID,
		"userId":     userID,
		"totalPrice": order.TotalPrice,
		"items":      len(order.Items),
	})

	return order, nil
}

// contactFor fills the fields the client left empty from the user profile.
func (s *OrderService) contactFor(ctx context.Context, userID uuid.UUID, c models.Contact) (models.Contact, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return c, fmt.Errorf("user %s does not exist: %w", userID, ErrValidation)
		}
		return c, err
	}

	if c.Name == "" {
		c.Name = user.Name
	}
	if c.Email == "" {
		c.Email = user.Email
	}
	if c.Phone == "" {
		c.Phone = user.Phone
	}
	if c.Address == "" {
		c.Address = user.Address
	}
	return c, nil
}

// Checkout places an order for everything in the user's cart and empties the
// cart once the order is stored.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, contact models.Contact, paymentMethod string) (*models.Order, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", ErrValidation)
	}

	lines := make([]OrderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, OrderLine{ProductID: it.ProductID.String(), Quantity: it.Quantity})
	}

	order, err := s.PlaceOrder(ctx, PlaceOrderInput{
		UserID:        userID.String(),
		Contact:       contact,
		PaymentMethod: paymentMethod,
		Items:         lines,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		logging.FromContext(ctx).Warn("checkout_clear_cart_error", "order_id", order.ID, "error", err)
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, error) {
	offset, limit := util.Calculate(page, size)
	return s.Repo.ListOrders(ctx, userID, offset, limit)
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string, userID uuid.UUID) (*models.Order, error) {
	id, err := parseID(orderID, "order id")
	if err != nil {
		return nil, err
	}
	order, err := s.Repo.GetOrder(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "order %s", id)
	}
	return order, nil
}
