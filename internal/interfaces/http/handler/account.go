package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/metrics"
	"github.com/storefront/backend/internal/infrastructure/session"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Account flash messages
const (
	MsgLoggedIn        = "You have been logged in"
	MsgLoginFailed     = "There was an error, please try again"
	MsgLoggedOut       = "You have been logged out"
	MsgRegistered      = "Username created, please fill out your user info below"
	MsgUserUpdated     = "User has been updated"
	MsgInfoUpdated     = "Your info has been updated"
	MsgPasswordUpdated = "Your password has been updated"
)

// AccountHandler serves login, registration and the account pages
type AccountHandler struct {
	PageHandler
	cart    *cartapp.CartService
	metrics *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler. m may be nil.
func NewAccountHandler(pages PageHandler, cart *cartapp.CartService, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{PageHandler: pages, cart: cart, metrics: m}
}

// LoginForm renders the login form
func (h *AccountHandler) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", h.newPage(c, "Login"))
}

// Login authenticates the user, restores the stored cart into the session
// and sends the user home. A failed attempt leaves the session alone.
func (h *AccountHandler) Login(c *gin.Context) {
	var input identityapp.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		h.bindFailed(c, "login.html", "Login", err)
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			h.metrics.RecordLogin(metrics.LoginFailure)
			page := h.newPage(c, "Login")
			page.Form = identityapp.LoginInput{Username: input.Username}
			page.Flashes = append(page.Flashes, session.Flash{Level: session.FlashError, Message: MsgLoginFailed})
			h.render(c, http.StatusUnauthorized, "login.html", page)
			return
		}
		h.fail(c, err)
		return
	}
	h.metrics.RecordLogin(metrics.LoginSuccess)

	s := middleware.MustGetSession(c)
	s.Authenticate(user.ID)
	h.restoreCart(c, s, user.ID)

	h.redirect(c, session.FlashSuccess, MsgLoggedIn, "/")
}

// restoreCart merges the stored cart into the session. Failures never
// block the login.
func (h *AccountHandler) restoreCart(c *gin.Context, s *session.Session, userID uint) {
	result, err := h.cart.RestoreOnLogin(c.Request.Context(), s.Cart(), userID)
	s.MarkModified()
	switch {
	case err != nil:
		h.logger.Error("Cart restore failed", zap.Uint("user_id", userID), zap.Error(err))
		h.metrics.RecordCartRestore(metrics.RestoreFailed)
	case result.Skipped:
		h.metrics.RecordCartRestore(metrics.RestoreSkipped)
	case result.Restored > 0:
		h.metrics.RecordCartRestore(metrics.RestoreMerged)
	default:
		h.metrics.RecordCartRestore(metrics.RestoreEmpty)
	}
}

// Logout destroys the session, cart included
func (h *AccountHandler) Logout(c *gin.Context) {
	middleware.MustGetSession(c).Destroy()
	h.redirect(c, session.FlashSuccess, MsgLoggedOut, "/")
}

// RegisterForm renders the sign-up form
func (h *AccountHandler) RegisterForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", h.newPage(c, "Register"))
}

// Register creates the account, logs it in and asks for the profile
// details
func (h *AccountHandler) Register(c *gin.Context) {
	var input identityapp.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		h.bindFailed(c, "register.html", "Register", err)
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), input)
	if err != nil {
		form := identityapp.RegisterInput{
			Username:  input.Username,
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Email:     input.Email,
		}
		h.renderFormError(c, "register.html", "Register", form, err)
		return
	}

	middleware.MustGetSession(c).Authenticate(user.ID)
	h.redirect(c, session.FlashSuccess, MsgRegistered, "/update_info")
}

// UpdateUserForm renders the account form filled with the current values
func (h *AccountHandler) UpdateUserForm(c *gin.Context) {
	page := h.newPage(c, "Update user")
	user, err := h.accounts.GetUser(c.Request.Context(), middleware.MustGetSession(c).UserID())
	if err != nil {
		h.fail(c, err)
		return
	}
	page.Form = identityapp.UpdateUserInput{
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
	h.render(c, http.StatusOK, "update_user.html", page)
}

// UpdateUser saves the account fields and re-establishes the login
func (h *AccountHandler) UpdateUser(c *gin.Context) {
	s := middleware.MustGetSession(c)

	var input identityapp.UpdateUserInput
	if err := c.ShouldBind(&input); err != nil {
		h.bindFailed(c, "update_user.html", "Update user", err)
		return
	}

	user, err := h.accounts.UpdateUser(c.Request.Context(), s.UserID(), input)
	if err != nil {
		h.renderFormError(c, "update_user.html", "Update user", input, err)
		return
	}

	s.Authenticate(user.ID)
	h.redirect(c, session.FlashSuccess, MsgUserUpdated, "/")
}

// UpdateInfoForm renders the profile contact form
func (h *AccountHandler) UpdateInfoForm(c *gin.Context) {
	page := h.newPage(c, "Update info")
	profile, err := h.accounts.GetProfile(c.Request.Context(), middleware.MustGetSession(c).UserID())
	if err != nil {
		h.fail(c, err)
		return
	}
	page.Form = identityapp.UpdateProfileInput{
		Phone:    profile.Phone,
		Address1: profile.Address1,
		Address2: profile.Address2,
		City:     profile.City,
		State:    profile.State,
		Zipcode:  profile.Zipcode,
		Country:  profile.Country,
	}
	h.render(c, http.StatusOK, "update_info.html", page)
}

// UpdateInfo saves the profile contact fields
func (h *AccountHandler) UpdateInfo(c *gin.Context) {
	var input identityapp.UpdateProfileInput
	if err := c.ShouldBind(&input); err != nil {
		h.bindFailed(c, "update_info.html", "Update info", err)
		return
	}

	if _, err := h.accounts.UpdateProfile(c.Request.Context(), middleware.MustGetSession(c).UserID(), input); err != nil {
		h.renderFormError(c, "update_info.html", "Update info", input, err)
		return
	}
	h.redirect(c, session.FlashSuccess, MsgInfoUpdated, "/")
}

// UpdatePasswordForm renders the password change form
func (h *AccountHandler) UpdatePasswordForm(c *gin.Context) {
	h.render(c, http.StatusOK, "update_password.html", h.newPage(c, "Change password"))
}

// UpdatePassword changes the password and keeps the user logged in under a
// fresh session id
func (h *AccountHandler) UpdatePassword(c *gin.Context) {
	s := middleware.MustGetSession(c)

	var input identityapp.ChangePasswordInput
	if err := c.ShouldBind(&input); err != nil {
		h.bindFailed(c, "update_password.html", "Change password", err)
		return
	}

	if err := h.accounts.ChangePassword(c.Request.Context(), s.UserID(), input); err != nil {
		h.renderFormError(c, "update_password.html", "Change password", nil, err)
		return
	}

	s.Authenticate(s.UserID())
	h.redirect(c, session.FlashSuccess, MsgPasswordUpdated, "/update_user")
}
