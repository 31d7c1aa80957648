package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/session"
)

// Storefront flash messages
const (
	MsgProductNotFound  = "That product does not exist"
	MsgSearchNoMatch    = "That product does not exist, please try again"
	MsgCategoryNotFound = "That category does not exist"
)

// StoreHandler serves the public catalog pages
type StoreHandler struct {
	PageHandler
	catalog *catalogapp.CatalogService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(pages PageHandler, catalog *catalogapp.CatalogService) *StoreHandler {
	return &StoreHandler{PageHandler: pages, catalog: catalog}
}

// Home lists every product
func (h *StoreHandler) Home(c *gin.Context) {
	products, err := h.catalog.Home(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	page := h.newPage(c, "Home")
	page.Data = products
	h.render(c, http.StatusOK, "home.html", page)
}

// About renders the static about page
func (h *StoreHandler) About(c *gin.Context) {
	h.render(c, http.StatusOK, "about.html", h.newPage(c, "About"))
}

// CategorySummary lists every category
func (h *StoreHandler) CategorySummary(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	page := h.newPage(c, "Categories")
	page.Data = categories
	h.render(c, http.StatusOK, "category_summary.html", page)
}

// Category lists the products of the category named by the slug. Unknown
// categories send the visitor home.
func (h *StoreHandler) Category(c *gin.Context) {
	result, err := h.catalog.BrowseCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			h.redirect(c, session.FlashError, MsgCategoryNotFound, "/")
			return
		}
		h.fail(c, err)
		return
	}
	page := h.newPage(c, result.Category.Title)
	page.Data = result
	h.render(c, http.StatusOK, "category.html", page)
}

// Product shows one product
func (h *StoreHandler) Product(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.redirect(c, session.FlashError, MsgProductNotFound, "/")
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			h.redirect(c, session.FlashError, MsgProductNotFound, "/")
			return
		}
		h.fail(c, err)
		return
	}
	page := h.newPage(c, product.Name)
	page.Data = product
	h.render(c, http.StatusOK, "product.html", page)
}

// SearchForm renders the empty search form
func (h *StoreHandler) SearchForm(c *gin.Context) {
	h.render(c, http.StatusOK, "search.html", h.newPage(c, "Search"))
}

// Search runs the submitted query. No match re-renders the form with a
// flash.
func (h *StoreHandler) Search(c *gin.Context) {
	result, err := h.catalog.Search(c.Request.Context(), c.PostForm("searched"))
	if err != nil {
		h.renderFormError(c, "search.html", "Search", nil, err)
		return
	}
	page := h.newPage(c, "Search")
	if !result.Found {
		page.Flashes = append(page.Flashes, session.Flash{Level: session.FlashInfo, Message: MsgSearchNoMatch})
	}
	page.Data = result
	h.render(c, http.StatusOK, "search.html", page)
}
