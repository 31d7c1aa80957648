package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MediaPrefix is the URL path under which stored objects are served
const MediaPrefix = "/media/"

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// UpdateCategoryRequest represents a request to rename a category
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// CategoryResponse represents a category in responses
type CategoryResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// CategoryListResponse adds the product count to a category
type CategoryListResponse struct {
	CategoryResponse
	ProductCount int64 `json:"product_count"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,max=100"`
	Price       decimal.Decimal  `json:"price"`
	CategoryID  uint             `json:"category_id"`
	Description string           `json:"description" binding:"max=250"`
	IsSale      bool             `json:"is_sale"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *uint            `json:"category_id"`
	Description *string          `json:"description" binding:"omitempty,max=250"`
	IsSale      *bool            `json:"is_sale"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search     string `form:"search"`
	CategoryID *uint  `form:"category_id"`
	OnSale     *bool  `form:"on_sale"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in responses
type ProductResponse struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	CategoryID     uint            `json:"category_id"`
	Price          decimal.Decimal `json:"price"`
	IsSale         bool            `json:"is_sale"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Image          string          `json:"image"`
	ImageURL       string          `json:"image_url,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SearchResult is the outcome of a catalog search. An empty match is not
// an error: Found is false and Products is empty.
type SearchResult struct {
	Query    string            `json:"query"`
	Products []ProductResponse `json:"products"`
	Found    bool              `json:"found"`
}

// CategoryPage is a category with every product in it
type CategoryPage struct {
	Category CategoryResponse  `json:"category"`
	Products []ProductResponse `json:"products"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:    c.ID,
		Name:  c.Name,
		Title: cases.Title(language.English).String(c.Name),
		Slug:  c.Slug(),
	}
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		CategoryID:     p.CategoryID,
		Price:          p.Price,
		IsSale:         p.IsSale,
		SalePrice:      p.SalePrice,
		EffectivePrice: p.EffectivePrice(),
		Image:          p.Image,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.Image != "" {
		resp.ImageURL = MediaPrefix + p.Image
	}
	return resp
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}
