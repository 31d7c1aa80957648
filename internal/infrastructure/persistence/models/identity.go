package models

import (
	"time"

	"github.com/storefront/backend/internal/domain/identity"
)

// UserModel is the persistence model for identity.User
type UserModel struct {
	BaseModel
	Username     string     `gorm:"type:varchar(150);not null;uniqueIndex"`
	FirstName    string     `gorm:"type:varchar(150);not null;default:''"`
	LastName     string     `gorm:"type:varchar(150);not null;default:''"`
	Email        string     `gorm:"type:varchar(254);not null;default:''"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	IsStaff      bool       `gorm:"not null;default:false"`
	IsActive     bool       `gorm:"not null;default:true"`
	LastLogin    *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsStaff:      m.IsStaff,
		IsActive:     m.IsActive,
		LastLogin:    m.LastLogin,
	}
}

// FromDomain populates the model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Username = u.Username
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.IsStaff = u.IsStaff
	m.IsActive = u.IsActive
	m.LastLogin = u.LastLogin
}

// UserModelFromDomain creates a model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// ProfileModel is the persistence model for identity.Profile
type ProfileModel struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"`
	UserID       uint       `gorm:"not null;uniqueIndex"`
	User         *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Phone        string     `gorm:"type:varchar(200);not null;default:''"`
	Address1     string     `gorm:"type:varchar(200);not null;default:''"`
	Address2     string     `gorm:"type:varchar(200);not null;default:''"`
	City         string     `gorm:"type:varchar(200);not null;default:''"`
	State        string     `gorm:"type:varchar(200);not null;default:''"`
	Zipcode      string     `gorm:"type:varchar(200);not null;default:''"`
	Country      string     `gorm:"type:varchar(200);not null;default:''"`
	OldCart      *string    `gorm:"type:varchar(200)"`
	DateModified time.Time  `gorm:"not null;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile
func (m *ProfileModel) ToDomain() *identity.Profile {
	p := &identity.Profile{
		ID:     m.ID,
		UserID: m.UserID,
		Contact: identity.ContactInfo{
			Phone:    m.Phone,
			Address1: m.Address1,
			Address2: m.Address2,
			City:     m.City,
			State:    m.State,
			Zipcode:  m.Zipcode,
			Country:  m.Country,
		},
		OldCart:      m.OldCart,
		DateModified: m.DateModified,
	}
	if m.User != nil {
		p.Username = m.User.Username
	}
	return p
}

// FromDomain populates the model from a domain Profile
func (m *ProfileModel) FromDomain(p *identity.Profile) {
	m.ID = p.ID
	m.UserID = p.UserID
	m.Phone = p.Contact.Phone
	m.Address1 = p.Contact.Address1
	m.Address2 = p.Contact.Address2
	m.City = p.Contact.City
	m.State = p.Contact.State
	m.Zipcode = p.Contact.Zipcode
	m.Country = p.Contact.Country
	m.OldCart = p.OldCart
	m.DateModified = p.DateModified
}

// ProfileModelFromDomain creates a model from a domain Profile
func ProfileModelFromDomain(p *identity.Profile) *ProfileModel {
	m := &ProfileModel{}
	m.FromDomain(p)
	return m
}
