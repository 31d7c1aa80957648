package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/infrastructure/metrics"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// AuthHandler issues and revokes back office API tokens
type AuthHandler struct {
	BaseHandler
	tokens  *identityapp.TokenService
	metrics *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler. m may be nil.
func NewAuthHandler(tokens *identityapp.TokenService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{tokens: tokens, metrics: m}
}

// Token exchanges staff credentials for a bearer token
// @Summary      Issue an access token
// @Description  Exchange staff credentials for a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginInput true "Staff credentials"
// @Success      200 {object} dto.Response{data=identityapp.TokenResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var input identityapp.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		h.BindError(c, err)
		return
	}

	token, err := h.tokens.Issue(c.Request.Context(), input)
	if err != nil {
		h.metrics.RecordLogin(metrics.LoginFailure)
		h.HandleError(c, err)
		return
	}
	h.metrics.RecordLogin(metrics.LoginSuccess)
	h.Success(c, token)
}

// Revoke blacklists the token the request was made with
// @Summary      Revoke the current token
// @Description  Blacklist the bearer token the request was made with
// @Tags         auth
// @Produce      json
// @Success      204
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/revoke [post]
func (h *AuthHandler) Revoke(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if err := h.tokens.Revoke(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
