package models

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CategoryModel is the persistence model for catalog.Category
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(50);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
	}
}

// FromDomain populates the model from a domain Category
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
}

// CategoryModelFromDomain creates a model from a domain Category
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// ProductModel is the persistence model for catalog.Product
type ProductModel struct {
	BaseModel
	Name        string          `gorm:"type:varchar(100);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	CategoryID  uint            `gorm:"not null;default:1;index"`
	Category    *CategoryModel  `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Description string          `gorm:"type:varchar(250);not null;default:''"`
	Image       string          `gorm:"type:varchar(255);not null;default:''"`
	IsSale      bool            `gorm:"not null;default:false"`
	SalePrice   decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Price:       m.Price,
		CategoryID:  m.CategoryID,
		Description: m.Description,
		Image:       m.Image,
		IsSale:      m.IsSale,
		SalePrice:   m.SalePrice,
	}
}

// FromDomain populates the model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Price = p.Price
	m.CategoryID = p.CategoryID
	m.Description = p.Description
	m.Image = p.Image
	m.IsSale = p.IsSale
	m.SalePrice = p.SalePrice
}

// ProductModelFromDomain creates a model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
