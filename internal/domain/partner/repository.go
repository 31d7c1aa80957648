package partner

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uint) (*Customer, error)
	List(ctx context.Context, filter shared.Filter) ([]Customer, int64, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uint) error
}
