package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/session"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Page is the payload of every storefront page. HTML clients get it
// rendered through the named template, JSON clients get it as is.
type Page struct {
	Title        string                    `json:"title"`
	User         *identityapp.UserResponse `json:"user,omitempty"`
	CartQuantity int                       `json:"cart_quantity"`
	Flashes      []session.Flash           `json:"flashes,omitempty"`
	Errors       map[string][]string       `json:"errors,omitempty"`
	Form         any                       `json:"form,omitempty"`
	Data         any                       `json:"data,omitempty"`
}

// PageHandler provides page rendering and flash redirects
type PageHandler struct {
	accounts *identityapp.AccountService
	logger   *zap.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(accounts *identityapp.AccountService, logger *zap.Logger) PageHandler {
	return PageHandler{accounts: accounts, logger: logger}
}

// newPage fills the navigation state and takes the pending flashes
func (h *PageHandler) newPage(c *gin.Context, title string) *Page {
	s := middleware.MustGetSession(c)
	page := &Page{
		Title:        title,
		CartQuantity: s.Cart().TotalQuantity(),
		Flashes:      s.Flashes(),
	}
	if s.IsAuthenticated() {
		user, err := h.accounts.GetUser(c.Request.Context(), s.UserID())
		if err != nil {
			h.logger.Warn("Session user could not be loaded",
				zap.Uint("user_id", s.UserID()),
				zap.Error(err))
		} else {
			page.User = user
		}
	}
	return page
}

// render writes the page as HTML or JSON depending on the Accept header
func (h *PageHandler) render(c *gin.Context, status int, name string, page *Page) {
	c.Negotiate(status, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: name,
		HTMLData: page,
		JSONData: page,
	})
}

// renderFormError re-renders a form page after a failed submission.
// Field errors are shown next to the form and as flashes; other errors
// become a 500.
func (h *PageHandler) renderFormError(c *gin.Context, name, title string, form any, err error) {
	var verrs *shared.ValidationErrors
	if !errors.As(err, &verrs) {
		h.fail(c, err)
		return
	}
	page := h.newPage(c, title)
	page.Form = form
	page.Errors = verrs.Fields
	for _, msg := range verrs.Messages() {
		page.Flashes = append(page.Flashes, session.Flash{Level: session.FlashError, Message: msg})
	}
	h.render(c, http.StatusUnprocessableEntity, name, page)
}

// bindFailed re-renders a form whose body could not be bound
func (h *PageHandler) bindFailed(c *gin.Context, name, title string, err error) {
	verrs := shared.NewValidationErrors()
	for field, messages := range middleware.FormatValidationErrors(err) {
		for _, msg := range messages {
			verrs.Add(field, msg)
		}
	}
	h.renderFormError(c, name, title, nil, verrs)
}

// redirect queues a flash and sends the client elsewhere with 303
func (h *PageHandler) redirect(c *gin.Context, level, message, location string) {
	middleware.MustGetSession(c).AddFlash(level, message)
	c.Redirect(http.StatusSeeOther, location)
}

// fail logs an unexpected error and answers 500
func (h *PageHandler) fail(c *gin.Context, err error) {
	h.logger.Error("Page request failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err))
	c.AbortWithStatus(http.StatusInternalServerError)
}
