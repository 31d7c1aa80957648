package models

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// BaseModel provides the auto-increment key and timestamps
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// All lists every model in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&UserModel{},
		&ProfileModel{},
		&CategoryModel{},
		&ProductModel{},
		&CustomerModel{},
		&OrderModel{},
	}
}
