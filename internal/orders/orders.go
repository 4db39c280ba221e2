// Package orders implements the order lifecycle: creation, the status
// machine worked by staff, and the pricing rule used at checkout.
package orders

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
	ErrInvalidInput      = errors.New("missing order fields")
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("illegal status transition")
)

// DefaultCustomerName is the walk-in sentinel shown for counter orders
// placed without a name.
const DefaultCustomerName = "Khách vãng lai"

// Free shipping above this subtotal, flat fee below it.
const (
	freeShippingAbove = 500000
	shippingFee       = 20000
)

// transitions is the legal status machine: pending → processing →
// completed, with cancellation possible until an order completes.
var transitions = map[string][]string{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderCompleted, models.OrderCancelled},
	models.OrderCompleted:  {},
	models.OrderCancelled:  {},
}

type Service struct {
	store store.Store
	// strict rejects transitions outside the status machine; when
	// off, any non-empty status string is stored verbatim.
	strict bool
}

func NewService(s store.Store, strictStatus bool) *Service {
	return &Service{store: s, strict: strictStatus}
}

type CreateInput struct {
	Items        []models.OrderItem
	Total        int
	CustomerName string
	Note         string
	Address      string
}

// Create stores a new pending order. The total is client-supplied and
// not recomputed against the catalog, matching checkout's contract.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.Order, error) {
	if len(in.Items) == 0 || in.Total == 0 {
		return models.Order{}, ErrInvalidInput
	}
	name := in.CustomerName
	if name == "" {
		name = DefaultCustomerName
	}
	o := models.Order{
		ID:           uuid.NewString(),
		Items:        in.Items,
		Total:        in.Total,
		CustomerName: name,
		Note:         in.Note,
		Address:      in.Address,
		Status:       models.OrderPending,
		CreatedAt:    time.Now().UnixMilli(),
	}
	if err := store.Put(ctx, s.store, store.CollectionOrders, o.ID, o); err != nil {
		return models.Order{}, fmt.Errorf("orders: create: %w", err)
	}
	return o, nil
}

// List returns every order; the staff queue has no per-staff ownership.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	out, err := store.ListAs[models.Order](ctx, s.store, store.CollectionOrders)
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	return out, nil
}

// UpdateStatus moves an order to status. An empty status keeps the
// current one and only stamps updatedAt. In strict mode the move must
// be legal under the status machine.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (models.Order, error) {
	o, err := store.GetAs[models.Order](ctx, s.store, store.CollectionOrders, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("orders: update status: %w", err)
	}
	if status != "" && status != o.Status {
		if s.strict && !legalTransition(o.Status, status) {
			return models.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, status)
		}
		o.Status = status
	}
	o.UpdatedAt = time.Now().UnixMilli()
	if err := store.Put(ctx, s.store, store.CollectionOrders, o.ID, o); err != nil {
		return models.Order{}, fmt.Errorf("orders: update status: %w", err)
	}
	return o, nil
}

func legalTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Quote is the checkout price breakdown.
type Quote struct {
	Subtotal int `json:"subtotal"`
	Shipping int `json:"shipping"`
	Total    int `json:"total"`
}

// ComputeTotal prices items against the current catalog. Unknown
// products are skipped and quantity defaults to one, exactly as the
// storefront expects.
func (s *Service) ComputeTotal(ctx context.Context, items []models.OrderItem) (Quote, error) {
	products, err := store.ListAs[models.Product](ctx, s.store, store.CollectionProducts)
	if err != nil {
		return Quote{}, fmt.Errorf("orders: compute total: %w", err)
	}
	prices := make(map[string]int, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}
	subtotal := 0
	for _, it := range items {
		price, ok := prices[it.ProductID]
		if !ok {
			continue
		}
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		subtotal += price * qty
	}
	shipping := shippingFee
	if subtotal > freeShippingAbove {
		shipping = 0
	}
	return Quote{Subtotal: subtotal, Shipping: shipping, Total: subtotal + shipping}, nil
}
