// Package cart models the session shopping cart and its persisted snapshot.
package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/storefront/backend/internal/domain/shared"
)

// ErrMalformedSnapshot is returned when a stored snapshot is not a JSON object
var ErrMalformedSnapshot = errors.New("cart snapshot is not a JSON object")

// ErrInvalidQuantity is returned for quantities below one
var ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")

// Cart maps product ids to quantities. Quantities are always >= 1.
// The zero value is an empty cart.
type Cart struct {
	items map[uint]int
}

// New returns an empty cart
func New() *Cart {
	return &Cart{items: make(map[uint]int)}
}

// Set stores qty for the product, replacing any previous quantity
func (c *Cart) Set(productID uint, qty int) error {
	if productID == 0 {
		return shared.NewDomainError("INVALID_PRODUCT", "Product id must be positive")
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if c.items == nil {
		c.items = make(map[uint]int)
	}
	c.items[productID] = qty
	return nil
}

// Remove drops the product. Removing an absent product is a no-op.
func (c *Cart) Remove(productID uint) {
	delete(c.items, productID)
}

// Contains reports whether the product is in the cart
func (c *Cart) Contains(productID uint) bool {
	_, ok := c.items[productID]
	return ok
}

// Quantity returns the quantity for the product, zero when absent
func (c *Cart) Quantity(productID uint) int {
	return c.items[productID]
}

// Len returns the number of distinct products
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart holds nothing
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// TotalQuantity sums all quantities
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, q := range c.items {
		total += q
	}
	return total
}

// ProductIDs returns the product ids in ascending order
func (c *Cart) ProductIDs() []uint {
	ids := make([]uint, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Items returns a copy of the product id to quantity mapping
func (c *Cart) Items() map[uint]int {
	out := make(map[uint]int, len(c.items))
	for id, q := range c.items {
		out[id] = q
	}
	return out
}

// Clone returns an independent copy of the cart
func (c *Cart) Clone() *Cart {
	return &Cart{items: c.Items()}
}

// Merge copies every entry of other into c. Quantities from other replace
// quantities already in c; products only in c are kept.
func (c *Cart) Merge(other *Cart) {
	if other == nil {
		return
	}
	for id, q := range other.items {
		_ = c.Set(id, q)
	}
}

// Retain keeps only the products for which keep returns true and returns
// the ids that were dropped
func (c *Cart) Retain(keep func(productID uint) bool) []uint {
	var dropped []uint
	for _, id := range c.ProductIDs() {
		if !keep(id) {
			delete(c.items, id)
			dropped = append(dropped, id)
		}
	}
	return dropped
}

// Snapshot encodes the cart as a compact JSON object with product id
// strings as keys, sorted. An empty cart encodes as "".
func (c *Cart) Snapshot() string {
	if c.IsEmpty() {
		return ""
	}
	b, _ := json.Marshal(c.items)
	return string(b)
}

// MarshalJSON implements json.Marshaler
func (c *Cart) MarshalJSON() ([]byte, error) {
	if c == nil || c.items == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.items)
}

// UnmarshalJSON implements json.Unmarshaler. Invalid entries are dropped.
func (c *Cart) UnmarshalJSON(data []byte) error {
	parsed, _, err := ParseSnapshot(string(data))
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

// InvalidEntry describes a snapshot entry that could not be restored
type InvalidEntry struct {
	Key    string
	Reason string
}

// ParseSnapshot decodes a stored cart snapshot. A blank snapshot yields an
// empty cart. Input that is not a JSON object returns ErrMalformedSnapshot.
// Entries with a non-positive-integer key or a quantity that is not an
// integer >= 1 are skipped and reported.
func ParseSnapshot(snapshot string) (*Cart, []InvalidEntry, error) {
	c := New()
	trimmed := bytes.TrimSpace([]byte(snapshot))
	if len(trimmed) == 0 {
		return c, nil, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if raw == nil {
		return nil, nil, ErrMalformedSnapshot
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var invalid []InvalidEntry
	for _, key := range keys {
		id, err := strconv.ParseUint(key, 10, 0)
		if err != nil || id == 0 {
			invalid = append(invalid, InvalidEntry{Key: key, Reason: "product id is not a positive integer"})
			continue
		}
		var qty int
		if err := json.Unmarshal(raw[key], &qty); err != nil || qty < 1 {
			invalid = append(invalid, InvalidEntry{Key: key, Reason: "quantity is not an integer >= 1"})
			continue
		}
		c.items[uint(id)] = qty
	}
	return c, invalid, nil
}
