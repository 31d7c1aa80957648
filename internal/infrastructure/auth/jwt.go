package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	// TokenTypeAccess is a bearer token for the back office API
	TokenTypeAccess TokenType = "access"
	// TokenTypeSession is the signed value of the session cookie
	TokenTypeSession TokenType = "session"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrMissingSessionID = errors.New("missing session id in claims")
	ErrTokenBlacklisted = errors.New("token has been revoked")
)

// Claims represents custom JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID    uint      `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	IsStaff   bool      `json:"is_staff,omitempty"`
	SessionID string    `json:"sid,omitempty"`
	TokenType TokenType `json:"token_type"`
}

// AccessToken is a signed bearer token
type AccessToken struct {
	Token     string    `json:"access_token"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenType string    `json:"token_type"` // Bearer
}

// AccessTokenInput contains input for access token generation
type AccessTokenInput struct {
	UserID   uint
	Username string
	IsStaff  bool
}

// JWTService signs and validates session cookies and API access tokens
type JWTService struct {
	secret            []byte
	accessExpiration  time.Duration
	sessionExpiration time.Duration
	issuer            string
}

// NewJWTService creates a new JWT service. sessionTTL bounds the lifetime
// of signed session cookies.
func NewJWTService(cfg config.JWTConfig, sessionTTL time.Duration) *JWTService {
	return &JWTService{
		secret:            []byte(cfg.Secret),
		accessExpiration:  cfg.AccessTokenExpiration,
		sessionExpiration: sessionTTL,
		issuer:            cfg.Issuer,
	}
}

// GenerateAccessToken issues a bearer token for the API
func (s *JWTService) GenerateAccessToken(input AccessTokenInput) (*AccessToken, error) {
	if input.UserID == 0 {
		return nil, ErrMissingUserID
	}

	now := time.Now()
	expiresAt := now.Add(s.accessExpiration)
	claims := &Claims{
		RegisteredClaims: s.registeredClaims(now, expiresAt, strconv.FormatUint(uint64(input.UserID), 10)),
		UserID:           input.UserID,
		Username:         input.Username,
		IsStaff:          input.IsStaff,
		TokenType:        TokenTypeAccess,
	}

	token, err := s.generateToken(claims)
	if err != nil {
		return nil, err
	}
	return &AccessToken{
		Token:     token,
		ExpiresAt: expiresAt,
		TokenType: "Bearer",
	}, nil
}

// ValidateAccessToken validates an access token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.validateToken(tokenString, TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, ErrMissingUserID
	}
	return claims, nil
}

// SignSession wraps an opaque session id in a signed token for the cookie
func (s *JWTService) SignSession(sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrMissingSessionID
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: s.registeredClaims(now, now.Add(s.sessionExpiration), ""),
		SessionID:        sessionID,
		TokenType:        TokenTypeSession,
	}
	return s.generateToken(claims)
}

// ParseSession validates a session cookie value and returns the session id
func (s *JWTService) ParseSession(tokenString string) (string, error) {
	claims, err := s.validateToken(tokenString, TokenTypeSession)
	if err != nil {
		return "", err
	}
	if claims.SessionID == "" {
		return "", ErrMissingSessionID
	}
	return claims.SessionID, nil
}

func (s *JWTService) registeredClaims(now, expiresAt time.Time, subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    s.issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{s.issuer},
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

// generateToken creates a signed JWT token
func (s *JWTService) generateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// validateToken validates a JWT token
func (s *JWTService) validateToken(tokenString string, expectedType TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != expectedType {
		return nil, ErrInvalidTokenType
	}

	return claims, nil
}

// GetRemainingTTL returns the remaining time until the token expires
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GetAccessTokenExpiration returns the access token expiration duration
func (s *JWTService) GetAccessTokenExpiration() time.Duration {
	return s.accessExpiration
}
