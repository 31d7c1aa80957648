package catalog

import (
	"path"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ImagePrefix is the object storage prefix for product images
const ImagePrefix = "uploads/product/"

const (
	maxProductNameLength        = 100
	maxProductDescriptionLength = 250
)

// ErrProductNotFound is returned when a product id does not resolve
var ErrProductNotFound = shared.NewDomainError("PRODUCT_NOT_FOUND", "That product does not exist, please try again")

// MaxPrice is the largest price representable by a decimal(6,2) column
var MaxPrice = decimal.RequireFromString("9999.99")

// Product is a sellable item in the catalog
type Product struct {
	shared.BaseEntity
	Name        string
	Price       decimal.Decimal
	CategoryID  uint
	Description string
	Image       string
	IsSale      bool
	SalePrice   decimal.Decimal
}

// NewProduct creates a new product. A zero categoryID selects the default
// category.
func NewProduct(name string, price decimal.Decimal, categoryID uint) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if categoryID == 0 {
		categoryID = DefaultCategoryID
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Price:      price.Round(2),
		CategoryID: categoryID,
		SalePrice:  decimal.Zero,
	}, nil
}

// Update changes the product's name and description
func (p *Product) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	if utf8.RuneCountInString(description) > maxProductDescriptionLength {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Product description cannot exceed 250 characters")
	}
	p.Name = name
	p.Description = description
	p.Touch()
	return nil
}

// SetPrice changes the regular price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	p.Price = price.Round(2)
	p.Touch()
	return nil
}

// SetCategory moves the product to another category
func (p *Product) SetCategory(categoryID uint) {
	if categoryID == 0 {
		categoryID = DefaultCategoryID
	}
	p.CategoryID = categoryID
	p.Touch()
}

// PutOnSale marks the product as on sale at salePrice
func (p *Product) PutOnSale(salePrice decimal.Decimal) error {
	if err := validatePrice(salePrice); err != nil {
		return err
	}
	p.IsSale = true
	p.SalePrice = salePrice.Round(2)
	p.Touch()
	return nil
}

// EndSale returns the product to its regular price. The sale price is kept.
func (p *Product) EndSale() {
	p.IsSale = false
	p.Touch()
}

// EffectivePrice is the price a shopper pays right now
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.IsSale {
		return p.SalePrice
	}
	return p.Price
}

// SetImage records the storage key of the product image
func (p *Product) SetImage(key string) error {
	if key != "" && !strings.HasPrefix(key, ImagePrefix) {
		return shared.NewDomainError("INVALID_IMAGE", "Product image must be stored under "+ImagePrefix)
	}
	p.Image = key
	p.Touch()
	return nil
}

// String returns the product name
func (p *Product) String() string {
	return p.Name
}

// ImageKey builds the storage key for an uploaded image file name
func ImageKey(fileName string) string {
	return ImagePrefix + path.Base(strings.ReplaceAll(fileName, "\\", "/"))
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxProductNameLength {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 100 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if price.Round(2).GreaterThan(MaxPrice) {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot exceed 9999.99")
	}
	return nil
}
