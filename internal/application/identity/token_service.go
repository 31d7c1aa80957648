package identity

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrStaffOnly is returned when a non-staff account asks for an API token
var ErrStaffOnly = shared.NewDomainError("FORBIDDEN", "Only staff accounts may use the back office API")

// TokenService issues and revokes back office API tokens
type TokenService struct {
	accounts   *AccountService
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewTokenService creates a new TokenService
func NewTokenService(
	accounts *AccountService,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		accounts:   accounts,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Issue authenticates a staff user and returns a bearer token
func (s *TokenService) Issue(ctx context.Context, input LoginInput) (*TokenResponse, error) {
	user, err := s.accounts.Authenticate(ctx, input)
	if err != nil {
		return nil, err
	}
	if !user.IsStaff {
		s.logger.Warn("API token requested by non-staff user", zap.Uint("user_id", user.ID))
		return nil, ErrStaffOnly
	}

	token, err := s.jwtService.GenerateAccessToken(auth.AccessTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
	})
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate access token")
	}

	return &TokenResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        *user,
	}, nil
}

// Revoke blacklists the token for the rest of its lifetime
func (s *TokenService) Revoke(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return shared.ErrInvalidInput
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("jti", claims.ID), zap.Error(err))
		return err
	}
	s.logger.Info("API token revoked", zap.Uint("user_id", claims.UserID))
	return nil
}
