package persistence

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the products that exist among ids
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("id IN ?", ids))
}

// FindAll returns all products in insertion order
func (r *GormProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	return r.find(r.db.WithContext(ctx))
}

// FindByCategory returns the products in a category
func (r *GormProductRepository) FindByCategory(ctx context.Context, categoryID uint) ([]catalog.Product, error) {
	return r.find(r.db.WithContext(ctx).Where("category_id = ?", categoryID))
}

// Search matches name or description case-insensitively
func (r *GormProductRepository) Search(ctx context.Context, query string) ([]catalog.Product, error) {
	return r.find(r.searchScope(r.db.WithContext(ctx), query))
}

// List returns one page of products plus the total count
func (r *GormProductRepository) List(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if filter.Search != "" {
		query = r.searchScope(query, filter.Search)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.OnSale != nil {
		query = query.Where("is_sale = ?", *filter.OnSale)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductModel
	if err := paginate(query, filter.Filter, ProductSortFields).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toProducts(rows), total, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		return translateError(err)
	}
	product.ID = model.ID
	return nil
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// CountByCategory counts the products in a category
func (r *GormProductRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

func (r *GormProductRepository) searchScope(query *gorm.DB, q string) *gorm.DB {
	pattern := likePattern(q)
	return query.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern)
}

func (r *GormProductRepository) find(query *gorm.DB) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

func toProducts(rows []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
