package models

import (
	"time"

	"github.com/storefront/backend/internal/domain/trade"
)

// OrderModel is the persistence model for trade.Order
type OrderModel struct {
	BaseModel
	ProductID  uint           `gorm:"not null;index"`
	Product    *ProductModel  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CustomerID uint           `gorm:"not null;index"`
	Customer   *CustomerModel `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Quantity   int            `gorm:"not null;default:1"`
	Address    string         `gorm:"type:varchar(100);not null;default:''"`
	Phone      string         `gorm:"type:varchar(20);not null;default:''"`
	Date       time.Time      `gorm:"type:date;not null"`
	Status     bool           `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		CustomerID: m.CustomerID,
		Quantity:   m.Quantity,
		Address:    m.Address,
		Phone:      m.Phone,
		Date:       m.Date,
		Status:     m.Status,
	}
	if m.Product != nil {
		o.ProductName = m.Product.Name
	}
	return o
}

// FromDomain populates the model from a domain Order
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.ProductID = o.ProductID
	m.CustomerID = o.CustomerID
	m.Quantity = o.Quantity
	m.Address = o.Address
	m.Phone = o.Phone
	m.Date = o.Date
	m.Status = o.Status
}

// OrderModelFromDomain creates a model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
