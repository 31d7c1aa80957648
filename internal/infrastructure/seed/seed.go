// Package seed fills a fresh database with demo catalog data.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	maxCategoryName = 50
	maxProductName  = 100
	maxDescription  = 250
)

// Config controls how much data is generated
type Config struct {
	Categories int
	// ProductsPerCategory is the number of products added to each category
	ProductsPerCategory int
	// SaleRatio is the share of products put on sale, between 0 and 1
	SaleRatio float64
	// Seed makes runs reproducible. Zero picks a random seed.
	Seed uint64
	// StaffUsername creates a staff account when set
	StaffUsername string
	StaffPassword string
}

// Result summarizes what was written
type Result struct {
	Categories int
	Products   int
	StaffID    uint
}

// Seeder writes demo data through the domain repositories
type Seeder struct {
	categories catalog.CategoryRepository
	products   catalog.ProductRepository
	accounts   identity.AccountRepository
	users      identity.UserRepository
	logger     *zap.Logger
}

// NewSeeder creates a Seeder
func NewSeeder(
	categories catalog.CategoryRepository,
	products catalog.ProductRepository,
	accounts identity.AccountRepository,
	users identity.UserRepository,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		categories: categories,
		products:   products,
		accounts:   accounts,
		users:      users,
		logger:     logger,
	}
}

// Run generates the configured data. Categories whose names already exist
// are reused, so running twice adds products but never duplicate
// categories.
func (s *Seeder) Run(ctx context.Context, cfg Config) (*Result, error) {
	faker := gofakeit.New(cfg.Seed)
	result := &Result{}

	for i := 0; i < cfg.Categories; i++ {
		category, created, err := s.category(ctx, faker)
		if err != nil {
			return result, err
		}
		if created {
			result.Categories++
		}

		for j := 0; j < cfg.ProductsPerCategory; j++ {
			if err := s.product(ctx, faker, category.ID, cfg.SaleRatio); err != nil {
				return result, err
			}
			result.Products++
		}
	}

	if cfg.StaffUsername != "" {
		id, err := s.staff(ctx, cfg.StaffUsername, cfg.StaffPassword)
		if err != nil {
			return result, err
		}
		result.StaffID = id
	}

	s.logger.Info("Seed complete",
		zap.Int("categories", result.Categories),
		zap.Int("products", result.Products),
		zap.Uint("staff_id", result.StaffID))
	return result, nil
}

func (s *Seeder) category(ctx context.Context, faker *gofakeit.Faker) (*catalog.Category, bool, error) {
	name := truncate(strings.ToLower(faker.ProductCategory()), maxCategoryName)
	existing, err := s.categories.FindByName(ctx, name)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, false, err
	}

	category, err := catalog.NewCategory(name)
	if err != nil {
		return nil, false, fmt.Errorf("seed category %q: %w", name, err)
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, false, fmt.Errorf("seed category %q: %w", name, err)
	}
	return category, true, nil
}

func (s *Seeder) product(ctx context.Context, faker *gofakeit.Faker, categoryID uint, saleRatio float64) error {
	name := truncate(faker.ProductName(), maxProductName)
	price := decimal.NewFromFloat(faker.Price(5, 500)).Round(2)

	product, err := catalog.NewProduct(name, price, categoryID)
	if err != nil {
		return fmt.Errorf("seed product %q: %w", name, err)
	}
	if err := product.Update(name, truncate(faker.ProductDescription(), maxDescription)); err != nil {
		return fmt.Errorf("seed product %q: %w", name, err)
	}
	if faker.Float64() < saleRatio {
		discount := decimal.NewFromFloat(faker.Float64Range(0.5, 0.9))
		if err := product.PutOnSale(price.Mul(discount).Round(2)); err != nil {
			return fmt.Errorf("seed product %q: %w", name, err)
		}
	}
	return s.products.Save(ctx, product)
}

func (s *Seeder) staff(ctx context.Context, username, password string) (uint, error) {
	existing, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return existing.ID, nil
	case !errors.Is(err, shared.ErrNotFound):
		return 0, err
	}

	user, err := identity.NewUser(username, "", password)
	if err != nil {
		return 0, fmt.Errorf("seed staff user: %w", err)
	}
	user.IsStaff = true
	if _, err := s.accounts.CreateWithProfile(ctx, user); err != nil {
		return 0, fmt.Errorf("seed staff user: %w", err)
	}
	return user.ID, nil
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
