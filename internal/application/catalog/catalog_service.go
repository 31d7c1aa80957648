package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CatalogService serves the public storefront pages
type CatalogService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	logger       *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// Home lists every product in insertion order
func (s *CatalogService) Home(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// GetProduct returns one product
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Search finds products whose name or description contains query,
// ignoring case
func (s *CatalogService) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		verrs := shared.NewValidationErrors()
		verrs.Add("searched", "This field is required.")
		return nil, verrs
	}

	products, err := s.productRepo.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Catalog search",
		zap.String("query", query),
		zap.Int("matches", len(products)))

	return &SearchResult{
		Query:    query,
		Products: ToProductResponses(products),
		Found:    len(products) > 0,
	}, nil
}

// BrowseCategory resolves a URL slug to a category and lists its products
func (s *CatalogService) BrowseCategory(ctx context.Context, slug string) (*CategoryPage, error) {
	category, err := s.categoryRepo.FindByName(ctx, catalog.NameFromSlug(slug))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, err
	}

	products, err := s.productRepo.FindByCategory(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	return &CategoryPage{
		Category: ToCategoryResponse(category),
		Products: ToProductResponses(products),
	}, nil
}

// ListCategories returns every category ordered by name
func (s *CatalogService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out, nil
}
