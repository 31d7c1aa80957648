package identity

import (
	"time"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/shared"
)

const (
	maxContactFieldLength = 200
	// MaxOldCartLength bounds the stored cart snapshot
	MaxOldCartLength = 200
)

// ErrCartTooLarge is returned when a cart snapshot exceeds MaxOldCartLength
var ErrCartTooLarge = shared.NewDomainError("CART_TOO_LARGE", "Cart is too large to be saved")

// ContactInfo is the editable part of a profile
type ContactInfo struct {
	Phone    string
	Address1 string
	Address2 string
	City     string
	State    string
	Zipcode  string
	Country  string
}

// Profile is the per-user contact record, one-to-one with User
type Profile struct {
	ID           uint
	UserID       uint
	Username     string // read-only, filled on load
	Contact      ContactInfo
	OldCart      *string
	DateModified time.Time
}

// NewProfile creates the blank profile that accompanies a new user
func NewProfile(userID uint) *Profile {
	return &Profile{
		UserID:       userID,
		DateModified: time.Now(),
	}
}

// UpdateContact replaces the contact fields
func (p *Profile) UpdateContact(info ContactInfo) error {
	for _, v := range []string{info.Phone, info.Address1, info.Address2, info.City, info.State, info.Zipcode, info.Country} {
		if utf8.RuneCountInString(v) > maxContactFieldLength {
			return shared.NewDomainError("INVALID_CONTACT", "Ensure this value has at most 200 characters.")
		}
	}
	p.Contact = info
	p.DateModified = time.Now()
	return nil
}

// HasStagedCart reports whether a non-empty cart snapshot is stored
func (p *Profile) HasStagedCart() bool {
	return p.OldCart != nil && *p.OldCart != ""
}

// StageCart stores a serialized cart snapshot. An empty snapshot clears it.
func (p *Profile) StageCart(snapshot string) error {
	if len(snapshot) > MaxOldCartLength {
		return ErrCartTooLarge
	}
	if snapshot == "" {
		p.OldCart = nil
	} else {
		p.OldCart = &snapshot
	}
	p.DateModified = time.Now()
	return nil
}

// String returns the owner's username
func (p *Profile) String() string {
	return p.Username
}
