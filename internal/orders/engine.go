package orders

import (
	"context"
	"math"

	"github.com/latavola/ordering/internal/config"
)

// Store persists an order header plus all of its line items as a single
// atomic unit of work: either every row becomes durably visible or none do.
type Store interface {
	CreateOrder(ctx context.Context, userID int64, total float64, items []OrderItem) (int64, error)
}

// IdentityStore is the read-only collaborator for user existence checks.
type IdentityStore interface {
	UserExists(ctx context.Context, id int64) (bool, error)
}

// CatalogStore is the read-only collaborator for current menu prices, used
// only when per-item price verification is enabled.
type CatalogStore interface {
	PricesFor(ctx context.Context, ids []int64) (map[int64]float64, error)
}

// Engine turns a client-submitted cart into a committed order. It owns the
// integrity checks; the atomicity guarantee lives in the Store.
type Engine struct {
	store    Store
	identity IdentityStore
	catalog  CatalogStore
	mode     config.PriceCheckMode
}

func NewEngine(store Store, identity IdentityStore, catalog CatalogStore, mode config.PriceCheckMode) *Engine {
	return &Engine{store: store, identity: identity, catalog: catalog, mode: mode}
}

// PlaceOrder validates the cart, cross-checks the claimed total against the
// server-side recomputation, and commits the order atomically. On any error
// nothing is persisted and the caller may retry with the same payload.
func (e *Engine) PlaceOrder(ctx context.Context, req *CreateOrderRequest) (int64, error) {
	if err := ValidateCreateOrder(req); err != nil {
		return 0, err
	}

	exists, err := e.identity.UserExists(ctx, req.UserID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ReferenceError{Entity: "user", ID: req.UserID}
	}

	if e.mode == config.PriceCheckCatalog {
		if err := e.verifyCatalogPrices(ctx, req.Items); err != nil {
			return 0, err
		}
	}

	items := make([]OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, OrderItem{
			ItemID:   it.ID,
			Quantity: it.Quantity,
			Price:    it.Price, // snapshot of the unit price at order time
		})
	}

	return e.store.CreateOrder(ctx, req.UserID, ComputeTotal(req.Items), items)
}

// verifyCatalogPrices rejects carts whose client-sent unit prices drift from
// the current catalog price beyond the tolerance. Legitimate menu reprices
// between page load and checkout will be rejected too, which is why this
// check is opt-in.
func (e *Engine) verifyCatalogPrices(ctx context.Context, items []LineItem) error {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	prices, err := e.catalog.PricesFor(ctx, ids)
	if err != nil {
		return err
	}
	for _, it := range items {
		current, ok := prices[it.ID]
		if !ok {
			return ReferenceError{Entity: "menu item", ID: it.ID}
		}
		if math.Abs(current-it.Price) > TotalTolerance {
			return ValidationError{
				Field:   "items",
				Message: "item price does not match the current menu price",
			}
		}
	}
	return nil
}
