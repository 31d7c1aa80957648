// Package partner holds customer contact records managed from the back office.
package partner

import (
	"strings"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

const (
	maxCustomerNameLength  = 50
	maxCustomerPhoneLength = 10
	maxCustomerEmailLength = 100
)

// Customer is a back-office contact that orders are attributed to.
// It is not an identity store account and cannot log in.
type Customer struct {
	shared.BaseEntity
	FirstName    string
	LastName     string
	Phone        string
	Email        string
	PasswordHash string
}

// NewCustomer creates a customer. The password is hashed before storing.
func NewCustomer(first, last, phone, email, password string) (*Customer, error) {
	c := &Customer{BaseEntity: shared.NewBaseEntity()}
	if err := c.UpdateContact(first, last, phone, email); err != nil {
		return nil, err
	}
	if err := c.SetPassword(password); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateContact replaces the contact fields
func (c *Customer) UpdateContact(first, last, phone, email string) error {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	phone, email = strings.TrimSpace(phone), strings.TrimSpace(email)

	if first == "" || last == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer first and last name are required")
	}
	if utf8.RuneCountInString(first) > maxCustomerNameLength || utf8.RuneCountInString(last) > maxCustomerNameLength {
		return shared.NewDomainError("INVALID_NAME", "Customer names cannot exceed 50 characters")
	}
	if utf8.RuneCountInString(phone) > maxCustomerPhoneLength {
		return shared.NewDomainError("INVALID_PHONE", "Customer phone cannot exceed 10 characters")
	}
	if len(email) > maxCustomerEmailLength {
		return shared.NewDomainError("INVALID_EMAIL", "Customer email cannot exceed 100 characters")
	}
	if err := identity.ValidateEmail(email); err != nil {
		return err
	}

	c.FirstName, c.LastName = first, last
	c.Phone, c.Email = phone, email
	c.Touch()
	return nil
}

// SetPassword hashes password. An empty password clears it.
func (c *Customer) SetPassword(password string) error {
	if password == "" {
		c.PasswordHash = ""
		return nil
	}
	hash, err := shared.HashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	c.PasswordHash = hash
	c.Touch()
	return nil
}

// VerifyPassword reports whether password matches the stored hash
func (c *Customer) VerifyPassword(password string) bool {
	return c.PasswordHash != "" && shared.CheckPassword(c.PasswordHash, password)
}

// String returns "first last"
func (c *Customer) String() string {
	return c.FirstName + " " + c.LastName
}
