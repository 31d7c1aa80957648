// Package trade holds orders placed against products for customers.
package trade

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/shared"
)

const (
	maxOrderAddressLength = 100
	maxOrderPhoneLength   = 20
)

// Order is one product line ordered by a customer
type Order struct {
	shared.BaseEntity
	ProductID   uint
	ProductName string // read-only, filled on load
	CustomerID  uint
	Quantity    int
	Address     string
	Phone       string
	Date        time.Time
	Status      bool // true once fulfilled
}

// NewOrder creates an unfulfilled order dated today. A quantity of zero
// defaults to one.
func NewOrder(productID, customerID uint, quantity int) (*Order, error) {
	if productID == 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Order product is required")
	}
	if customerID == 0 {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Order customer is required")
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Order quantity must be at least 1")
	}

	now := time.Now()
	return &Order{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		CustomerID: customerID,
		Quantity:   quantity,
		Date:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
	}, nil
}

// SetDelivery snapshots the delivery address and phone
func (o *Order) SetDelivery(address, phone string) error {
	address, phone = strings.TrimSpace(address), strings.TrimSpace(phone)
	if utf8.RuneCountInString(address) > maxOrderAddressLength {
		return shared.NewDomainError("INVALID_ADDRESS", "Order address cannot exceed 100 characters")
	}
	if utf8.RuneCountInString(phone) > maxOrderPhoneLength {
		return shared.NewDomainError("INVALID_PHONE", "Order phone cannot exceed 20 characters")
	}
	o.Address, o.Phone = address, phone
	o.Touch()
	return nil
}

// SetQuantity changes the ordered quantity
func (o *Order) SetQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Order quantity must be at least 1")
	}
	o.Quantity = quantity
	o.Touch()
	return nil
}

// MarkFulfilled flips the status flag on
func (o *Order) MarkFulfilled() {
	o.Status = true
	o.Touch()
}

// MarkUnfulfilled flips the status flag off
func (o *Order) MarkUnfulfilled() {
	o.Status = false
	o.Touch()
}

// String returns the ordered product's name
func (o *Order) String() string {
	return o.ProductName
}
