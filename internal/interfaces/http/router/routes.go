package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// Handlers groups every HTTP handler the service mounts
type Handlers struct {
	Store    *handler.StoreHandler
	Account  *handler.AccountHandler
	Cart     *handler.CartHandler
	Media    *handler.MediaHandler
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Order    *handler.OrderHandler
	// Metrics serves the Prometheus endpoint. Nil leaves it unmounted.
	Metrics http.Handler
	// MetricsPath is where Metrics is mounted, /metrics when empty
	MetricsPath string
}

// Guards are the per-route middleware
type Guards struct {
	// LoginRequired sends anonymous visitors away from account pages
	LoginRequired gin.HandlerFunc
	// AuthRateLimit throttles credential submissions. Nil disables it.
	AuthRateLimit gin.HandlerFunc
	// Staff authenticates back office API calls
	Staff gin.HandlerFunc
}

// Storefront returns the public site routes
func Storefront(h Handlers, g Guards) *DomainGroup {
	site := NewDomainGroup("storefront", "")
	limited := withOptional(g.AuthRateLimit)

	site.GET("/", h.Store.Home).
		GET("/about", h.Store.About).
		GET("/category_summary", h.Store.CategorySummary).
		GET("/category/:slug", h.Store.Category).
		GET("/product/:id", h.Store.Product).
		GET("/search", h.Store.SearchForm).
		POST("/search", h.Store.Search)

	site.GET("/login", h.Account.LoginForm).
		POST("/login", limited(h.Account.Login)...).
		Match([]string{http.MethodGet, http.MethodPost}, "/logout", h.Account.Logout).
		GET("/register", h.Account.RegisterForm).
		POST("/register", limited(h.Account.Register)...)

	account := site.Group("account", "")
	account.Use(g.LoginRequired).
		GET("/update_user", h.Account.UpdateUserForm).
		POST("/update_user", h.Account.UpdateUser).
		GET("/update_info", h.Account.UpdateInfoForm).
		POST("/update_info", h.Account.UpdateInfo).
		GET("/update_password", h.Account.UpdatePasswordForm).
		POST("/update_password", limited(h.Account.UpdatePassword)...)

	site.GET("/cart", h.Cart.Summary)
	site.Group("cart", "/cart").
		POST("/add", h.Cart.Add).
		POST("/update", h.Cart.Update).
		POST("/delete", h.Cart.Delete)

	site.GET("/media/*key", h.Media.Serve)
	return site
}

// Operations returns the unversioned operational endpoints
func Operations(h Handlers) *DomainGroup {
	ops := NewDomainGroup("operations", "")
	ops.GET("/health", h.Health.Check)
	if h.Metrics != nil {
		path := h.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		ops.GET(path, gin.WrapH(h.Metrics))
	}
	return ops
}

// Auth returns the API token routes
func Auth(h Handlers, g Guards) *DomainGroup {
	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/token", withOptional(g.AuthRateLimit)(h.Auth.Token)...).
		POST("/revoke", g.Staff, h.Auth.Revoke)
	return auth
}

// Admin returns the staff-only back office routes
func Admin(h Handlers, g Guards) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin")
	admin.Use(g.Staff)

	admin.Group("categories", "/categories").
		GET("", h.Category.List).
		POST("", h.Category.Create).
		GET("/:id", h.Category.GetByID).
		PUT("/:id", h.Category.Update).
		DELETE("/:id", h.Category.Delete)

	admin.Group("products", "/products").
		GET("", h.Product.List).
		POST("", h.Product.Create).
		GET("/:id", h.Product.GetByID).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete).
		POST("/:id/image", h.Product.UploadImage)

	admin.Group("customers", "/customers").
		GET("", h.Customer.List).
		POST("", h.Customer.Create).
		GET("/:id", h.Customer.GetByID).
		PUT("/:id", h.Customer.Update).
		DELETE("/:id", h.Customer.Delete)

	admin.Group("orders", "/orders").
		GET("", h.Order.List).
		POST("", h.Order.Create).
		GET("/:id", h.Order.GetByID).
		PATCH("/:id", h.Order.Update).
		DELETE("/:id", h.Order.Delete)

	return admin
}

// withOptional prepends mw to a handler chain when mw is set
func withOptional(mw gin.HandlerFunc) func(gin.HandlerFunc) []gin.HandlerFunc {
	return func(h gin.HandlerFunc) []gin.HandlerFunc {
		if mw == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{mw, h}
	}
}
