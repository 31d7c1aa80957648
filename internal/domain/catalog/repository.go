package catalog

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uint) (*Category, error)
	// FindByName matches the name exactly. A miss returns shared.ErrNotFound.
	FindByName(ctx context.Context, name string) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uint) error
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// ProductFilter narrows product listings
type ProductFilter struct {
	shared.Filter
	CategoryID *uint
	OnSale     *bool
}

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*Product, error)
	// FindByIDs returns the products that exist among ids, in id order
	FindByIDs(ctx context.Context, ids []uint) ([]Product, error)
	// FindAll returns all products in insertion order
	FindAll(ctx context.Context) ([]Product, error)
	FindByCategory(ctx context.Context, categoryID uint) ([]Product, error)
	// Search matches query case-insensitively as a substring of the name
	// or the description, in insertion order
	Search(ctx context.Context, query string) ([]Product, error)
	List(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uint) error
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}
