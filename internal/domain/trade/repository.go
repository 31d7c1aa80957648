package trade

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// OrderFilter narrows order listings
type OrderFilter struct {
	shared.Filter
	Status     *bool
	CustomerID *uint
}

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*Order, error)
	List(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	Save(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uint) error
}
