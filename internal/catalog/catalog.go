// Package catalog owns product CRUD. Reads are public, writes are
// admin-gated at the router.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hifood/hifood-server/internal/models"
	"github.com/hifood/hifood-server/internal/store"
)

var (
	ErrInvalidInput = errors.New("missing product fields")
	ErrNotFound     = errors.New("product not found")
)

const defaultImage = "/products/placeholder.svg"

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	products, err := store.ListAs[models.Product](ctx, s.store, store.CollectionProducts)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	return products, nil
}

// CreateInput carries the client-supplied fields. Price arrives as the
// already-coerced integer; handlers own the string-to-int step.
type CreateInput struct {
	Name        string
	Category    string
	Price       int
	Status      string
	Description string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (models.Product, error) {
	if in.Name == "" || in.Category == "" || in.Price == 0 {
		return models.Product{}, ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = models.ProductActive
	}
	p := models.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Status:      status,
		Description: in.Description,
		Image:       defaultImage,
		CreatedAt:   time.Now().UnixMilli(),
	}
	if err := store.Put(ctx, s.store, store.CollectionProducts, p.ID, p); err != nil {
		return models.Product{}, fmt.Errorf("catalog: create: %w", err)
	}
	return p, nil
}

// UpdateInput is a partial update: nil-equivalent fields keep the old
// value. Description uses a pointer because clearing it is legal.
type UpdateInput struct {
	Name        string
	Category    string
	Price       int
	Status      string
	Description *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (models.Product, error) {
	p, err := store.GetAs[models.Product](ctx, s.store, store.CollectionProducts, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("catalog: update: %w", err)
	}
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Category != "" {
		p.Category = in.Category
	}
	if in.Price != 0 {
		p.Price = in.Price
	}
	if in.Status != "" {
		p.Status = in.Status
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	p.UpdatedAt = time.Now().UnixMilli()
	if err := store.Put(ctx, s.store, store.CollectionProducts, p.ID, p); err != nil {
		return models.Product{}, fmt.Errorf("catalog: update: %w", err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, store.CollectionProducts, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("catalog: delete: %w", err)
	}
	return nil
}
