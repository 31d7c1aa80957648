package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/infrastructure/metrics"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Cart mutation names used as metric labels
const (
	CartOpAdd    = "add"
	CartOpUpdate = "update"
	CartOpDelete = "delete"
)

// CartHandler serves the cart page and the cart mutation endpoints
type CartHandler struct {
	PageHandler
	BaseHandler
	cart    *cartapp.CartService
	metrics *metrics.Metrics
}

// NewCartHandler creates a new CartHandler. m may be nil.
func NewCartHandler(pages PageHandler, cart *cartapp.CartService, m *metrics.Metrics) *CartHandler {
	return &CartHandler{PageHandler: pages, cart: cart, metrics: m}
}

// Summary renders the cart with current prices
func (h *CartHandler) Summary(c *gin.Context) {
	summary, err := h.cart.Summary(c.Request.Context(), middleware.MustGetSession(c).Cart())
	if err != nil {
		h.fail(c, err)
		return
	}
	page := h.newPage(c, "Cart")
	page.Data = summary
	h.render(c, http.StatusOK, "cart.html", page)
}

// Add puts a product in the cart and returns the new item count
func (h *CartHandler) Add(c *gin.Context) {
	var input cartapp.ItemInput
	if err := c.ShouldBind(&input); err != nil {
		h.BindError(c, err)
		return
	}
	s := middleware.MustGetSession(c)
	resp, err := h.cart.Add(c.Request.Context(), s.Cart(), s.UserID(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	s.MarkModified()
	h.metrics.RecordCartMutation(CartOpAdd)
	c.JSON(http.StatusOK, resp)
}

// Update changes the quantity of a product in the cart
func (h *CartHandler) Update(c *gin.Context) {
	var input cartapp.ItemInput
	if err := c.ShouldBind(&input); err != nil {
		h.BindError(c, err)
		return
	}
	s := middleware.MustGetSession(c)
	resp, err := h.cart.Update(c.Request.Context(), s.Cart(), s.UserID(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	s.MarkModified()
	h.metrics.RecordCartMutation(CartOpUpdate)
	c.JSON(http.StatusOK, resp)
}

// Delete removes a product from the cart
func (h *CartHandler) Delete(c *gin.Context) {
	var input cartapp.RemoveInput
	if err := c.ShouldBind(&input); err != nil {
		h.BindError(c, err)
		return
	}
	s := middleware.MustGetSession(c)
	resp, err := h.cart.Remove(c.Request.Context(), s.Cart(), s.UserID(), input.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	s.MarkModified()
	h.metrics.RecordCartMutation(CartOpDelete)
	c.JSON(http.StatusOK, resp)
}
