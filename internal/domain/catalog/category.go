// Package catalog holds the storefront's categories and products.
package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultCategoryID is assigned to products created without a category
const DefaultCategoryID uint = 1

const maxCategoryNameLength = 50

// ErrCategoryNotFound is returned when a category lookup by name misses
var ErrCategoryNotFound = shared.NewDomainError("CATEGORY_NOT_FOUND", "That category does not exist")

// Category groups products for browsing
type Category struct {
	shared.BaseEntity
	Name string
}

// NewCategory creates a new category
func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = name
	c.Touch()
	return nil
}

// Slug returns the URL form of the name, spaces replaced by hyphens
func (c *Category) Slug() string {
	return strings.ReplaceAll(c.Name, " ", "-")
}

// String returns the category name
func (c *Category) String() string {
	return c.Name
}

// NameFromSlug turns a URL slug back into a category name
func NameFromSlug(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLength {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 50 characters")
	}
	return nil
}
