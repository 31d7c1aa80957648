package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/partner"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	shared.PasswordHashCost = bcrypt.MinCost
}

// setupTestDB opens a migrated in-memory sqlite database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(name)
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db).Save(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, name, description, price string, categoryID uint) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, decimal.RequireFromString(price), categoryID)
	require.NoError(t, err)
	require.NoError(t, p.Update(name, description))
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

func TestGormCategoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	office := seedCategory(t, db, "Office Supplies")
	seedCategory(t, db, "Books")

	t.Run("finds by exact name", func(t *testing.T) {
		found, err := repo.FindByName(ctx, "Office Supplies")
		require.NoError(t, err)
		assert.Equal(t, office.ID, found.ID)
	})

	t.Run("name lookup is exact", func(t *testing.T) {
		_, err := repo.FindByName(ctx, "office supplies")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lists by name", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Books", all[0].Name)
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		dup, err := catalog.NewCategory("Books")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("delete cascades to products", func(t *testing.T) {
		tmp := seedCategory(t, db, "Temporary")
		p := seedProduct(t, db, "Widget", "", "1.00", tmp.ID)

		require.NoError(t, repo.Delete(ctx, tmp.ID))
		_, err := NewGormProductRepository(db).FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete of missing category", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, 9999), shared.ErrNotFound)
	})
}

func TestGormProductRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	c := seedCategory(t, db, "Furniture")
	chair := seedProduct(t, db, "Office Chair", "Ergonomic", "120.00", c.ID)
	desk := seedProduct(t, db, "Desk", "Goes with any chair", "300.00", c.ID)
	lamp := seedProduct(t, db, "Lamp", "100% brighter", "25.50", c.ID)

	tests := []struct {
		name    string
		query   string
		wantIDs []uint
	}{
		{"matches name case-insensitively", "CHAIR", []uint{chair.ID, desk.ID}},
		{"matches description", "ergonomic", []uint{chair.ID}},
		{"percent sign is literal", "0%", []uint{lamp.ID}},
		{"underscore is literal", "o_f", nil},
		{"no match", "sofa", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.Search(ctx, tt.query)
			require.NoError(t, err)
			ids := make([]uint, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			if tt.wantIDs == nil {
				assert.Empty(t, ids)
				return
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestGormProductRepository_Queries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	books := seedCategory(t, db, "Books")
	games := seedCategory(t, db, "Games")
	novel := seedProduct(t, db, "Novel", "", "9.99", books.ID)
	atlas := seedProduct(t, db, "Atlas", "", "19.99", books.ID)
	chess := seedProduct(t, db, "Chess", "", "35.00", games.ID)

	t.Run("find by id keeps decimal prices", func(t *testing.T) {
		found, err := repo.FindByID(ctx, atlas.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("19.99").Equal(found.Price))
	})

	t.Run("find all in insertion order", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []uint{novel.ID, atlas.ID, chess.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})
	})

	t.Run("find by category", func(t *testing.T) {
		inBooks, err := repo.FindByCategory(ctx, books.ID)
		require.NoError(t, err)
		assert.Len(t, inBooks, 2)

		n, err := repo.CountByCategory(ctx, games.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("find by ids skips unknown", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, []uint{chess.ID, 404})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Chess", found[0].Name)
	})

	t.Run("list pages and filters", func(t *testing.T) {
		require.NoError(t, chess.PutOnSale(decimal.RequireFromString("30.00")))
		require.NoError(t, repo.Save(ctx, chess))

		onSale := true
		page, total, err := repo.List(ctx, catalog.ProductFilter{
			Filter: shared.Filter{Page: 1, PageSize: 10},
			OnSale: &onSale,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, page, 1)
		assert.True(t, page[0].IsSale)

		page, total, err = repo.List(ctx, catalog.ProductFilter{
			Filter:     shared.Filter{Page: 2, PageSize: 1, OrderBy: "price", OrderDir: "desc"},
			CategoryID: &books.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, page, 1)
		assert.Equal(t, "Novel", page[0].Name)
	})

	t.Run("unknown category is an invalid reference", func(t *testing.T) {
		p, err := catalog.NewProduct("Orphan", decimal.NewFromInt(1), 999)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, p), ErrInvalidReference)
	})
}

func TestGormUserRepository_CreateWithProfile(t *testing.T) {
	db := setupTestDB(t)
	users := NewGormUserRepository(db)
	profiles := NewGormProfileRepository(db)
	ctx := context.Background()

	u, err := identity.NewUser("alice", "alice@example.com", "Str0ng-pass")
	require.NoError(t, err)

	profile, err := users.CreateWithProfile(ctx, u)
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, u.ID, profile.UserID)
	assert.Nil(t, profile.OldCart)

	t.Run("exactly one profile per user", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&models.ProfileModel{}).Where("user_id = ?", u.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("duplicate username is rejected without a second profile", func(t *testing.T) {
		dup, err := identity.NewUser("alice", "", "Str0ng-pass")
		require.NoError(t, err)
		_, err = users.CreateWithProfile(ctx, dup)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		var count int64
		require.NoError(t, db.Model(&models.ProfileModel{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("username lookups", func(t *testing.T) {
		found, err := users.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, found.VerifyPassword("Str0ng-pass"))

		exists, err := users.ExistsByUsername(ctx, "alice", 0)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = users.ExistsByUsername(ctx, "alice", u.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("save updates account fields", func(t *testing.T) {
		require.NoError(t, u.UpdateAccount("alice2", "Alice", "Liddell", "a@example.org"))
		require.NoError(t, users.Save(ctx, u))

		found, err := users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice2", found.Username)
		assert.Equal(t, "Liddell", found.LastName)
	})

	t.Run("profile contact and cart snapshot", func(t *testing.T) {
		p, err := profiles.FindByUserID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice2", p.Username)

		require.NoError(t, p.UpdateContact(identity.ContactInfo{City: "Oxford", Country: "UK"}))
		require.NoError(t, profiles.Save(ctx, p))

		snapshot := `{"1":2}`
		require.NoError(t, profiles.SaveOldCart(ctx, u.ID, &snapshot))

		p, err = profiles.FindByUserID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Oxford", p.Contact.City)
		require.NotNil(t, p.OldCart)
		assert.Equal(t, snapshot, *p.OldCart)

		require.NoError(t, profiles.SaveOldCart(ctx, u.ID, nil))
		p, err = profiles.FindByUserID(ctx, u.ID)
		require.NoError(t, err)
		assert.Nil(t, p.OldCart)
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := profiles.FindByUserID(ctx, 9999)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, profiles.SaveOldCart(ctx, 9999, nil), shared.ErrNotFound)
	})
}

func TestGormCustomerAndOrderRepositories(t *testing.T) {
	db := setupTestDB(t)
	customers := NewGormCustomerRepository(db)
	orders := NewGormOrderRepository(db)
	ctx := context.Background()

	c := seedCategory(t, db, "Games")
	chess := seedProduct(t, db, "Chess", "", "35.00", c.ID)

	ann, err := partner.NewCustomer("Ann", "Smith", "5550100", "ann@example.com", "secret-pass")
	require.NoError(t, err)
	require.NoError(t, customers.Save(ctx, ann))
	ben, err := partner.NewCustomer("Ben", "Jones", "", "", "")
	require.NoError(t, err)
	require.NoError(t, customers.Save(ctx, ben))

	t.Run("customer search", func(t *testing.T) {
		list, total, err := customers.List(ctx, shared.Filter{Search: "SMITH", Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, list, 1)
		assert.Equal(t, "Ann Smith", list[0].String())
		assert.True(t, list[0].VerifyPassword("secret-pass"))
	})

	o, err := trade.NewOrder(chess.ID, ann.ID, 2)
	require.NoError(t, err)
	require.NoError(t, o.SetDelivery("1 Main St", "5550100"))
	require.NoError(t, orders.Save(ctx, o))

	t.Run("order loads product name", func(t *testing.T) {
		found, err := orders.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, "Chess", found.ProductName)
		assert.Equal(t, 2, found.Quantity)
		assert.False(t, found.Status)
	})

	t.Run("order filters", func(t *testing.T) {
		fulfilled := true
		_, total, err := orders.List(ctx, trade.OrderFilter{Status: &fulfilled})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)

		list, total, err := orders.List(ctx, trade.OrderFilter{CustomerID: &ann.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Chess", list[0].ProductName)
	})

	t.Run("unknown customer is an invalid reference", func(t *testing.T) {
		bad, err := trade.NewOrder(chess.ID, 999, 1)
		require.NoError(t, err)
		assert.ErrorIs(t, orders.Save(ctx, bad), ErrInvalidReference)
	})

	t.Run("deleting customer cascades to orders", func(t *testing.T) {
		require.NoError(t, customers.Delete(ctx, ann.ID))
		_, err := orders.FindByID(ctx, o.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
