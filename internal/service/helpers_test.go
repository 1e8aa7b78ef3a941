package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/furniture_shop/internal/events"
	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo/gormrepo"
)

func newTestStore(t *testing.T) *gormrepo.GormRepo {
	t.Helper()

	store, err := gormrepo.Connect(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

type recordedEvent struct {
	Topic string
	Key   string
	Event events.Event
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) Publish(_ context.Context, topic, key string, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Topic: topic, Key: key, Event: e})
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Event.Type)
	}
	return out
}

func seedProduct(t *testing.T, store *gormrepo.GormRepo, name string, price float64) *models.Product {
	t.Helper()

	p := &models.Product{Name: name, Description: name + " description", Price: price, Category: "tables"}
	require.NoError(t, store.CreateProduct(context.Background(), p))
	return p
}

func seedUser(t *testing.T, store *gormrepo.GormRepo, email string) *models.User {
	t.Helper()

	u := &models.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        email,
		Phone:        "+1 555 0100",
		Address:      "1 Main St",
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}
