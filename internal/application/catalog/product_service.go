package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ObjectStorageService defines the object storage operations used for
// product images
type ObjectStorageService interface {
	// Upload stores body under storageKey
	Upload(ctx context.Context, storageKey string, body io.Reader, size int64, contentType string) error

	// Open returns the object body and its content type. A missing object
	// returns shared.ErrNotFound.
	Open(ctx context.Context, storageKey string) (io.ReadCloser, string, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error
}

// allowedImageTypes lists the accepted image content types
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ErrInvalidImage is returned for uploads that are not a supported image
var ErrInvalidImage = shared.NewDomainError("INVALID_IMAGE", "Upload a valid image. Supported types are JPEG, PNG, GIF and WebP")

// ProductService handles back office product operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	storage      ObjectStorageService
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		storage:      storage,
		logger:       logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	categoryID := req.CategoryID
	if categoryID == 0 {
		categoryID = catalog.DefaultCategoryID
	}
	if err := s.ensureCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.Price, categoryID)
	if err != nil {
		return nil, err
	}
	if err := product.Update(product.Name, req.Description); err != nil {
		return nil, err
	}
	salePrice := decimal.Zero
	if req.SalePrice != nil {
		salePrice = *req.SalePrice
	}
	if err := product.PutOnSale(salePrice); err != nil {
		return nil, err
	}
	if !req.IsSale {
		product.EndSale()
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uint) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves one page of products
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   strings.TrimSpace(filter.Search),
		},
		CategoryID: filter.CategoryID,
		OnSale:     filter.OnSale,
	}
	if domainFilter.Page < 1 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize < 1 {
		domainFilter.PageSize = shared.DefaultFilter().PageSize
	}

	products, total, err := s.productRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uint, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, description := product.Name, product.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := product.Update(name, description); err != nil {
		return nil, err
	}

	if req.Price != nil {
		if err := product.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(*req.CategoryID)
	}
	if req.SalePrice != nil {
		wasOnSale := product.IsSale
		if err := product.PutOnSale(*req.SalePrice); err != nil {
			return nil, err
		}
		if !wasOnSale {
			product.EndSale()
		}
	}
	if req.IsSale != nil {
		if *req.IsSale {
			if err := product.PutOnSale(product.SalePrice); err != nil {
				return nil, err
			}
		} else {
			product.EndSale()
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product and its stored image
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeImage(ctx, product.Image)

	s.logger.Info("Product deleted", zap.Uint("product_id", id))
	return nil
}

// UploadImageInput carries a product image upload
type UploadImageInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadImage stores a new product image and replaces the previous one
func (s *ProductService) UploadImage(ctx context.Context, id uint, input UploadImageInput) (*ProductResponse, error) {
	if !allowedImageTypes[input.ContentType] || input.Body == nil {
		return nil, ErrInvalidImage
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := catalog.ImageKey(fmt.Sprintf("%d-%s", product.ID, input.FileName))
	if err := s.storage.Upload(ctx, key, input.Body, input.Size, input.ContentType); err != nil {
		return nil, fmt.Errorf("failed to upload product image: %w", err)
	}

	previous := product.Image
	if err := product.SetImage(key); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if previous != key {
		s.removeImage(ctx, previous)
	}

	s.logger.Info("Product image uploaded",
		zap.Uint("product_id", product.ID),
		zap.String("key", key))

	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) ensureCategory(ctx context.Context, categoryID uint) error {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category does not exist")
		}
		return err
	}
	return nil
}

func (s *ProductService) removeImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("Failed to delete product image",
			zap.String("key", key),
			zap.Error(err))
	}
}
