package identity

import (
	"context"
	"testing"
	"time"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Minute,
		Issuer:                "test",
	}, time.Hour)
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewTokenService(f.svc, jwtService, blacklist, zap.NewNop())

	staff := newStoredUser(t, 1, "admin", "admin-secret-1")
	staff.IsStaff = true
	shopper := newStoredUser(t, 2, "shopper", "shopper-secret-1")
	f.users.On("FindByUsername", ctx, "admin").Return(staff, nil)
	f.users.On("FindByUsername", ctx, "shopper").Return(shopper, nil)
	f.users.On("Save", ctx, staff).Return(nil)
	f.users.On("Save", ctx, shopper).Return(nil)

	t.Run("non-staff users are refused", func(t *testing.T) {
		_, err := svc.Issue(ctx, LoginInput{Username: "shopper", Password: "shopper-secret-1"})
		assert.ErrorIs(t, err, ErrStaffOnly)
	})

	t.Run("staff token can be revoked", func(t *testing.T) {
		resp, err := svc.Issue(ctx, LoginInput{Username: "admin", Password: "admin-secret-1"})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", resp.TokenType)

		claims, err := jwtService.ValidateAccessToken(resp.AccessToken)
		require.NoError(t, err)
		require.NoError(t, svc.Revoke(ctx, claims))

		revoked, err := blacklist.IsBlacklisted(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)
	})
}
