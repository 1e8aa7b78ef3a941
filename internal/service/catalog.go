package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/furniture_shop/internal/events"
	"github.com/Skotchmaster/furniture_shop/internal/logging"
	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
	"github.com/Skotchmaster/furniture_shop/internal/util"
)

type ProductIndex interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Image       *string
	Trending    *bool
}

type CatalogService struct {
	Repo   repo.Products
	Index  ProductIndex
	Events events.Publisher
}

func (s *CatalogService) List(ctx context.Context, f repo.ProductFilter, page, size int) (int64, []models.Product, error) {
	offset, limit := util.Calculate(page, size)
	return s.Repo.ListProducts(ctx, f, offset, limit)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	pid, err := parseID(id, "product id")
	if err != nil {
		return nil, err
	}
	p, err := s.Repo.GetProduct(ctx, pid)
	if err != nil {
		return nil, notFound(err, "product %s", pid)
	}
	return p, nil
}

// Search asks the search index first and falls back to the store when no
// index is configured or the index is unavailable.
func (s *CatalogService) Search(ctx context.Context, q string, page, size int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("query is empty: %w", ErrValidation)
	}
	offset, limit := util.Calculate(page, size)

	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "error", err)
	}
	return s.Repo.SearchProducts(ctx, q, offset, limit)
}

func validateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name required: %w", ErrValidation)
	}
	if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return fmt.Errorf("price must be a non-negative number: %w", ErrValidation)
	}
	return nil
}

func (s *CatalogService) Create(ctx context.Context, p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	p.ID = uuid.New()
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return err
	}

	s.reindex(ctx, p)
	events.Emit(ctx, s.Events, events.TopicProduct, p.ID.String(), "product_created", map[string]any{
		"productId": p.ID,
		"name":      p.Name,
		"price":     p.Price,
	})
	return nil
}

func (s *CatalogService) Patch(ctx context.Context, id string, patch ProductPatch) (*models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Trending != nil {
		p.Trending = *patch.Trending
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateProduct(ctx, p); err != nil {
		return nil, notFound(err, "product %s", p.ID)
	}

	s.reindex(ctx, p)
	events.Emit(ctx, s.Events, events.TopicProduct, p.ID.String(), "product_updated", map[string]any{
		"productId": p.ID,
		"name":      p.Name,
		"price":     p.Price,
	})
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	pid, err := parseID(id, "product id")
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteProduct(ctx, pid); err != nil {
		return notFound(err, "product %s", pid)
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, pid); err != nil {
			logging.FromContext(ctx).Warn("unindex_product_error", "product_id", pid, "error", err)
		}
	}
	events.Emit(ctx, s.Events, events.TopicProduct, pid.String(), "product_deleted", map[string]any{
		"productId": pid,
	})
	return nil
}

func (s *CatalogService) reindex(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("index_product_error", "product_id", p.ID, "error", err)
	}
}
