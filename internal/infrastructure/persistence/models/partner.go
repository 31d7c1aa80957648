package models

import "github.com/storefront/backend/internal/domain/partner"

// CustomerModel is the persistence model for partner.Customer
type CustomerModel struct {
	BaseModel
	FirstName    string `gorm:"type:varchar(50);not null"`
	LastName     string `gorm:"type:varchar(50);not null"`
	Phone        string `gorm:"type:varchar(10);not null;default:''"`
	Email        string `gorm:"type:varchar(100);not null;default:''"`
	PasswordHash string `gorm:"type:varchar(255);not null;default:''"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity:   m.BaseModel.ToDomain(),
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        m.Phone,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
	}
}

// FromDomain populates the model from a domain Customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Phone = c.Phone
	m.Email = c.Email
	m.PasswordHash = c.PasswordHash
}

// CustomerModelFromDomain creates a model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
