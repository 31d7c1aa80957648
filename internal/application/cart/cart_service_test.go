package cart

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const shopper uint = 7

type cartFixture struct {
	svc      *CartService
	products *fakeProducts
	profiles *fakeProfiles
	logs     *observer.ObservedLogs
}

func newCartFixture() *cartFixture {
	sale := product(3, "Sale Lamp", "40.00")
	_ = sale.PutOnSale(decimal.RequireFromString("25.50"))

	core, logs := observer.New(zapcore.DebugLevel)
	f := &cartFixture{
		products: newFakeProducts(
			product(1, "Desk", "120.00"),
			product(2, "Chair", "45.99"),
			sale,
		),
		profiles: newFakeProfiles(shopper),
		logs:     logs,
	}
	f.svc = NewCartService(f.products, f.profiles, zap.New(core))
	return f
}

func TestCartService_Mutations(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous add replaces quantity and never touches profiles", func(t *testing.T) {
		f := newCartFixture()
		c := cart.New()

		resp, err := f.svc.Add(ctx, c, 0, ItemInput{ProductID: 1, Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Quantity)

		resp, err = f.svc.Add(ctx, c, 0, ItemInput{ProductID: 1, Quantity: 5})
		require.NoError(t, err)
		assert.Equal(t, 5, resp.Quantity)
		assert.Equal(t, 0, f.profiles.writes)
	})

	t.Run("authenticated mutations mirror the snapshot", func(t *testing.T) {
		f := newCartFixture()
		c := cart.New()

		_, err := f.svc.Add(ctx, c, shopper, ItemInput{ProductID: 2, Quantity: 1})
		require.NoError(t, err)
		_, err = f.svc.Update(ctx, c, shopper, ItemInput{ProductID: 2, Quantity: 4})
		require.NoError(t, err)
		_, err = f.svc.Add(ctx, c, shopper, ItemInput{ProductID: 1, Quantity: 1})
		require.NoError(t, err)

		require.NotNil(t, f.profiles.oldCart(shopper))
		assert.Equal(t, `{"1":1,"2":4}`, *f.profiles.oldCart(shopper))

		resp, err := f.svc.Remove(ctx, c, shopper, 1)
		require.NoError(t, err)
		assert.Equal(t, 4, resp.Quantity)
		assert.Equal(t, `{"2":4}`, *f.profiles.oldCart(shopper))

		_, err = f.svc.Remove(ctx, c, shopper, 2)
		require.NoError(t, err)
		assert.Nil(t, f.profiles.oldCart(shopper))
	})

	t.Run("quantity below one is rejected", func(t *testing.T) {
		f := newCartFixture()
		c := cart.New()

		for _, qty := range []int{0, -3} {
			_, err := f.svc.Update(ctx, c, 0, ItemInput{ProductID: 1, Quantity: qty})
			assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
		}
		assert.True(t, c.IsEmpty())
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newCartFixture()
		c := cart.New()

		_, err := f.svc.Add(ctx, c, 0, ItemInput{ProductID: 99, Quantity: 1})
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
		assert.True(t, c.IsEmpty())
	})

	t.Run("failed snapshot write leaves the session cart alone", func(t *testing.T) {
		f := newCartFixture()
		f.profiles.saveErr = assert.AnError
		c := cart.New()
		require.NoError(t, c.Set(2, 1))

		_, err := f.svc.Add(ctx, c, shopper, ItemInput{ProductID: 1, Quantity: 3})
		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, c.Contains(1))

		_, err = f.svc.Remove(ctx, c, shopper, 2)
		assert.ErrorIs(t, err, assert.AnError)
		assert.True(t, c.Contains(2))
	})

	t.Run("snapshot over the column limit is rejected", func(t *testing.T) {
		f := newCartFixture()
		c := cart.New()
		var many []catalog.Product
		for id := uint(1000); id < 1030; id++ {
			many = append(many, product(id, "Bulk item", "1.00"))
		}
		f.products = newFakeProducts(many...)
		f.svc = NewCartService(f.products, f.profiles, zap.NewNop())

		var err error
		for id := uint(1000); id < 1030 && err == nil; id++ {
			_, err = f.svc.Add(ctx, c, shopper, ItemInput{ProductID: id, Quantity: 1})
		}
		require.ErrorIs(t, err, identity.ErrCartTooLarge)
		stored := f.profiles.oldCart(shopper)
		require.NotNil(t, stored)
		assert.LessOrEqual(t, len(*stored), identity.MaxOldCartLength)
		assert.Equal(t, c.Snapshot(), *stored)
	})
}

func TestCartService_Summary(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()
	c := cart.New()
	require.NoError(t, c.Set(1, 1))
	require.NoError(t, c.Set(3, 2))
	require.NoError(t, c.Set(42, 1))

	summary, err := f.svc.Summary(ctx, c)
	require.NoError(t, err)

	require.Len(t, summary.Lines, 2)
	assert.Equal(t, "Desk", summary.Lines[0].Product.Name)
	assert.True(t, summary.Lines[1].UnitPrice.Equal(decimal.RequireFromString("25.50")))
	assert.True(t, summary.Lines[1].LineTotal.Equal(decimal.RequireFromString("51.00")))
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("171.00")))
	assert.Equal(t, 3, summary.TotalQuantity)

	empty, err := f.svc.Summary(ctx, cart.New())
	require.NoError(t, err)
	assert.Empty(t, empty.Lines)
	assert.True(t, empty.Total.IsZero())
}

func TestCartService_RestoreOnLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("stored quantities overwrite and anonymous items stay", func(t *testing.T) {
		f := newCartFixture()
		f.profiles.setOldCart(shopper, `{"1":3,"2":1}`)
		c := cart.New()
		require.NoError(t, c.Set(1, 9))
		require.NoError(t, c.Set(3, 2))

		result, err := f.svc.RestoreOnLogin(ctx, c, shopper)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Restored)
		assert.Equal(t, map[uint]int{1: 3, 2: 1, 3: 2}, c.Items())
		assert.Equal(t, `{"1":3,"2":1,"3":2}`, *f.profiles.oldCart(shopper))
	})

	t.Run("repeated logins are idempotent", func(t *testing.T) {
		f := newCartFixture()
		f.profiles.setOldCart(shopper, `{"2":2}`)

		first := cart.New()
		_, err := f.svc.RestoreOnLogin(ctx, first, shopper)
		require.NoError(t, err)
		second := cart.New()
		_, err = f.svc.RestoreOnLogin(ctx, second, shopper)
		require.NoError(t, err)

		assert.Equal(t, first.Items(), second.Items())
		assert.Equal(t, 0, f.profiles.writes)
	})

	t.Run("unknown products and invalid entries are dropped", func(t *testing.T) {
		f := newCartFixture()
		f.profiles.setOldCart(shopper, `{"1":2,"77":1,"abc":4,"2":0}`)
		c := cart.New()

		result, err := f.svc.RestoreOnLogin(ctx, c, shopper)
		require.NoError(t, err)
		assert.Equal(t, map[uint]int{1: 2}, c.Items())
		assert.Equal(t, []uint{77}, result.Dropped)
		assert.Equal(t, `{"1":2}`, *f.profiles.oldCart(shopper))
		assert.Equal(t, 2, f.logs.FilterMessage("Dropping invalid stored cart entry").Len())
	})

	t.Run("malformed snapshot is logged and left untouched", func(t *testing.T) {
		for _, stored := range []string{`not json`, `[1,2]`, `null`} {
			f := newCartFixture()
			f.profiles.setOldCart(shopper, stored)
			c := cart.New()
			require.NoError(t, c.Set(2, 1))

			result, err := f.svc.RestoreOnLogin(ctx, c, shopper)
			require.NoError(t, err)
			assert.True(t, result.Skipped)
			assert.Equal(t, map[uint]int{2: 1}, c.Items())
			assert.Equal(t, stored, *f.profiles.oldCart(shopper))
			assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.WarnLevel).Len())
		}
	})

	t.Run("no stored cart", func(t *testing.T) {
		f := newCartFixture()
		c := cart.New()
		require.NoError(t, c.Set(1, 1))

		result, err := f.svc.RestoreOnLogin(ctx, c, shopper)
		require.NoError(t, err)
		assert.Zero(t, result.Restored)
		assert.Equal(t, 1, c.Len())
		assert.Equal(t, 0, f.profiles.writes)
	})

	t.Run("everything dropped clears the stored cart", func(t *testing.T) {
		f := newCartFixture()
		f.profiles.setOldCart(shopper, `{"500":1}`)

		_, err := f.svc.RestoreOnLogin(ctx, cart.New(), shopper)
		require.NoError(t, err)
		assert.Nil(t, f.profiles.oldCart(shopper))
	})

	t.Run("merged cart too large keeps previous snapshot", func(t *testing.T) {
		f := newCartFixture()
		var many []catalog.Product
		c := cart.New()
		for id := uint(1000); id < 1030; id++ {
			many = append(many, product(id, "Bulk item", "1.00"))
			require.NoError(t, c.Set(id, 1))
		}
		many = append(many, product(1, "Desk", "120.00"))
		f.products = newFakeProducts(many...)
		f.svc = NewCartService(f.products, f.profiles, zap.NewNop())
		f.profiles.setOldCart(shopper, `{"1":1}`)

		_, err := f.svc.RestoreOnLogin(ctx, c, shopper)
		require.NoError(t, err)
		assert.True(t, c.Contains(1))
		assert.True(t, strings.HasPrefix(*f.profiles.oldCart(shopper), `{"1":1}`))
	})
}
