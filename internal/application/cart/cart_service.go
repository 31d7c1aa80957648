// Package cart implements the session cart use cases.
package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CartService mutates session carts and mirrors them into the owner's
// profile while a user is logged in. userID 0 means anonymous.
type CartService struct {
	products catalog.ProductRepository
	profiles identity.ProfileRepository
	logger   *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(
	products catalog.ProductRepository,
	profiles identity.ProfileRepository,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		products: products,
		profiles: profiles,
		logger:   logger,
	}
}

// Add puts the product in the cart. An existing quantity is replaced.
func (s *CartService) Add(ctx context.Context, c *cart.Cart, userID uint, input ItemInput) (*CountResponse, error) {
	return s.set(ctx, c, userID, input)
}

// Update changes the quantity of a product
func (s *CartService) Update(ctx context.Context, c *cart.Cart, userID uint, input ItemInput) (*CountResponse, error) {
	return s.set(ctx, c, userID, input)
}

// Remove drops the product from the cart
func (s *CartService) Remove(ctx context.Context, c *cart.Cart, userID uint, productID uint) (*CountResponse, error) {
	next := c.Clone()
	next.Remove(productID)
	if err := s.persist(ctx, userID, next); err != nil {
		return nil, err
	}
	c.Remove(productID)
	return &CountResponse{Quantity: c.TotalQuantity()}, nil
}

// Summary prices the cart at current effective prices. Products that have
// disappeared since they were added are left out.
func (s *CartService) Summary(ctx context.Context, c *cart.Cart) (*Summary, error) {
	summary := &Summary{Lines: []Line{}, Total: decimal.Zero}
	if c.IsEmpty() {
		return summary, nil
	}

	products, err := s.products.FindByIDs(ctx, c.ProductIDs())
	if err != nil {
		return nil, err
	}
	for i := range products {
		p := &products[i]
		qty := c.Quantity(p.ID)
		unit := p.EffectivePrice()
		line := unit.Mul(decimal.NewFromInt(int64(qty)))
		summary.Lines = append(summary.Lines, Line{
			Product:   catalogapp.ToProductResponse(p),
			Quantity:  qty,
			UnitPrice: unit,
			LineTotal: line,
		})
		summary.TotalQuantity += qty
		summary.Total = summary.Total.Add(line)
	}
	return summary, nil
}

// RestoreOnLogin replays the snapshot stored on the user's profile into
// the session cart. Stored quantities win over the session's. A snapshot
// that cannot be read is logged and left alone.
func (s *CartService) RestoreOnLogin(ctx context.Context, c *cart.Cart, userID uint) (*RestoreResult, error) {
	result := &RestoreResult{}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("No profile for user, skipping cart restore", zap.Uint("user_id", userID))
			result.Skipped = true
			return result, nil
		}
		return nil, err
	}
	if !profile.HasStagedCart() {
		return result, nil
	}

	stored, invalid, err := cart.ParseSnapshot(*profile.OldCart)
	if err != nil {
		s.logger.Warn("Malformed stored cart, skipping restore",
			zap.Uint("user_id", userID),
			zap.Error(err))
		result.Skipped = true
		return result, nil
	}
	for _, entry := range invalid {
		s.logger.Warn("Dropping invalid stored cart entry",
			zap.Uint("user_id", userID),
			zap.String("key", entry.Key),
			zap.String("reason", entry.Reason))
	}

	existing, err := s.products.FindByIDs(ctx, stored.ProductIDs())
	if err != nil {
		return nil, err
	}
	known := make(map[uint]struct{}, len(existing))
	for _, p := range existing {
		known[p.ID] = struct{}{}
	}
	result.Dropped = stored.Retain(func(id uint) bool {
		_, ok := known[id]
		return ok
	})
	if len(result.Dropped) > 0 {
		s.logger.Info("Dropping stored cart entries for missing products",
			zap.Uint("user_id", userID),
			zap.Uints("product_ids", result.Dropped))
	}

	c.Merge(stored)
	result.Restored = stored.Len()

	snapshot := c.Snapshot()
	if len(snapshot) > identity.MaxOldCartLength {
		s.logger.Warn("Merged cart too large to store, keeping previous snapshot",
			zap.Uint("user_id", userID),
			zap.Int("length", len(snapshot)))
		return result, nil
	}
	if snapshot != *profile.OldCart {
		if err := s.profiles.SaveOldCart(ctx, userID, snapshotPtr(snapshot)); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("Cart restored",
		zap.Uint("user_id", userID),
		zap.Int("restored", result.Restored))
	return result, nil
}

func (s *CartService) set(ctx context.Context, c *cart.Cart, userID uint, input ItemInput) (*CountResponse, error) {
	if input.Quantity < 1 {
		return nil, cart.ErrInvalidQuantity
	}
	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}

	next := c.Clone()
	if err := next.Set(input.ProductID, input.Quantity); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, userID, next); err != nil {
		return nil, err
	}
	_ = c.Set(input.ProductID, input.Quantity)
	return &CountResponse{Quantity: c.TotalQuantity()}, nil
}

// persist stores the snapshot of next on the user's profile
func (s *CartService) persist(ctx context.Context, userID uint, next *cart.Cart) error {
	if userID == 0 {
		return nil
	}
	snapshot := next.Snapshot()
	if len(snapshot) > identity.MaxOldCartLength {
		return identity.ErrCartTooLarge
	}
	if err := s.profiles.SaveOldCart(ctx, userID, snapshotPtr(snapshot)); err != nil {
		s.logger.Error("Failed to store cart snapshot", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func snapshotPtr(snapshot string) *string {
	if snapshot == "" {
		return nil
	}
	return &snapshot
}
