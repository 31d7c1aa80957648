package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	partnerapp "github.com/storefront/backend/internal/application/partner"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/metrics"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/session"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/view"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	shared.PasswordHashCost = bcrypt.MinCost
}

const testPassword = "s3cure-pass-99"

// testApp wires the real services over an in-memory sqlite database
type testApp struct {
	engine   *gin.Engine
	db       *gorm.DB
	jwt      *auth.JWTService
	metrics  *metrics.Metrics
	products catalog.ProductRepository
	profiles identity.ProfileRepository
	users    *persistence.GormUserRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := zap.NewNop()

	db := testutil.NewSQLiteDB(t)

	objects, err := storage.NewLocalObjectStorage(t.TempDir(), log)
	require.NoError(t, err)

	categoryRepo := persistence.NewGormCategoryRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	profileRepo := persistence.NewGormProfileRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "handler-test-secret-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "storefront-test",
	}, time.Hour)
	blacklist := auth.NewInMemoryTokenBlacklist()
	m := metrics.New("shop")

	accounts := identityapp.NewAccountService(userRepo, profileRepo, userRepo, log)
	cartService := cartapp.NewCartService(productRepo, profileRepo, log)
	pages := NewPageHandler(accounts, log)

	store := NewStoreHandler(pages, catalogapp.NewCatalogService(categoryRepo, productRepo, log))
	account := NewAccountHandler(pages, cartService, m)
	carts := NewCartHandler(pages, cartService, m)
	media := NewMediaHandler(objects, log)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	health := NewHealthHandler(map[string]HealthCheck{"database": sqlDB.PingContext})
	tokens := NewAuthHandler(identityapp.NewTokenService(accounts, jwtService, blacklist, log), m)
	categories := NewCategoryHandler(catalogapp.NewCategoryService(categoryRepo, productRepo, log))
	products := NewProductHandler(catalogapp.NewProductService(productRepo, categoryRepo, objects, log), 1<<20)
	customers := NewCustomerHandler(partnerapp.NewCustomerService(persistence.NewGormCustomerRepository(db), log))
	orders := NewOrderHandler(tradeapp.NewOrderService(
		persistence.NewGormOrderRepository(db), productRepo, persistence.NewGormCustomerRepository(db), log))

	sessions := session.NewInMemoryStore(time.Minute)
	t.Cleanup(func() { _ = sessions.Close() })

	middleware.SetupValidator()
	tmpl, err := view.Load()
	require.NoError(t, err)

	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)
	engine.Use(middleware.RequestID(), middleware.Session(middleware.SessionConfig{
		Manager:    session.NewManager(sessions, jwtService, time.Hour, log),
		CookieName: "sessionid",
		Cookie:     config.CookieConfig{Path: "/", SameSite: "lax"},
		Logger:     log,
	}))

	login := middleware.RequireLogin("/")
	engine.GET("/", store.Home)
	engine.GET("/about", store.About)
	engine.GET("/category_summary", store.CategorySummary)
	engine.GET("/category/:slug", store.Category)
	engine.GET("/product/:id", store.Product)
	engine.GET("/search", store.SearchForm)
	engine.POST("/search", store.Search)
	engine.GET("/login", account.LoginForm)
	engine.POST("/login", account.Login)
	engine.GET("/logout", account.Logout)
	engine.GET("/register", account.RegisterForm)
	engine.POST("/register", account.Register)
	engine.GET("/update_user", login, account.UpdateUserForm)
	engine.POST("/update_user", login, account.UpdateUser)
	engine.GET("/update_info", login, account.UpdateInfoForm)
	engine.POST("/update_info", login, account.UpdateInfo)
	engine.GET("/update_password", login, account.UpdatePasswordForm)
	engine.POST("/update_password", login, account.UpdatePassword)
	engine.GET("/cart", carts.Summary)
	engine.POST("/cart/add", carts.Add)
	engine.POST("/cart/update", carts.Update)
	engine.POST("/cart/delete", carts.Delete)
	engine.GET("/media/*key", media.Serve)
	engine.GET("/health", health.Check)

	api := engine.Group("/api/v1")
	api.POST("/auth/token", tokens.Token)
	staff := middleware.StaffAuth(middleware.JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist, Logger: log})
	api.POST("/auth/revoke", staff, tokens.Revoke)
	admin := api.Group("/admin", staff)
	admin.GET("/categories", categories.List)
	admin.POST("/categories", categories.Create)
	admin.GET("/categories/:id", categories.GetByID)
	admin.PUT("/categories/:id", categories.Update)
	admin.DELETE("/categories/:id", categories.Delete)
	admin.GET("/products", products.List)
	admin.POST("/products", products.Create)
	admin.GET("/products/:id", products.GetByID)
	admin.PUT("/products/:id", products.Update)
	admin.DELETE("/products/:id", products.Delete)
	admin.POST("/products/:id/image", products.UploadImage)
	admin.GET("/customers", customers.List)
	admin.POST("/customers", customers.Create)
	admin.GET("/customers/:id", customers.GetByID)
	admin.PUT("/customers/:id", customers.Update)
	admin.DELETE("/customers/:id", customers.Delete)
	admin.GET("/orders", orders.List)
	admin.POST("/orders", orders.Create)
	admin.GET("/orders/:id", orders.GetByID)
	admin.PATCH("/orders/:id", orders.Update)
	admin.DELETE("/orders/:id", orders.Delete)

	return &testApp{
		engine:   engine,
		db:       db,
		jwt:      jwtService,
		metrics:  m,
		products: productRepo,
		profiles: profileRepo,
		users:    userRepo,
	}
}

func (a *testApp) seedCategory(t *testing.T, name string) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(name)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCategoryRepository(a.db).Save(context.Background(), c))
	return c
}

func (a *testApp) seedProduct(t *testing.T, name, description, price string, categoryID uint) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, decimal.RequireFromString(price), categoryID)
	require.NoError(t, err)
	require.NoError(t, p.Update(name, description))
	require.NoError(t, a.products.Save(context.Background(), p))
	return p
}

func (a *testApp) seedUser(t *testing.T, username string, staff bool) *identity.User {
	t.Helper()
	u, err := identity.NewUser(username, username+"@example.com", testPassword)
	require.NoError(t, err)
	u.IsStaff = staff
	_, err = a.users.CreateWithProfile(context.Background(), u)
	require.NoError(t, err)
	return u
}

func (a *testApp) oldCart(t *testing.T, userID uint) *string {
	t.Helper()
	p, err := a.profiles.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	return p.OldCart
}

// counter reads one labelled counter from the metrics registry
func (a *testApp) counter(t *testing.T, name, label string) float64 {
	t.Helper()
	families, err := a.metrics.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetValue() == label {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

// client is a browser stand-in that keeps cookies between requests
type client struct {
	t    *testing.T
	app  *testApp
	jar  *cookiejar.Jar
	base *url.URL
}

func (a *testApp) newClient(t *testing.T) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	base, _ := url.Parse("http://shop.test/")
	return &client{t: t, app: a, jar: jar, base: base}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, cookie := range c.jar.Cookies(c.base) {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.app.engine.ServeHTTP(w, req)
	c.jar.SetCookies(c.base, w.Result().Cookies())
	return w
}

// getJSON requests a page as JSON
func (c *client) getJSON(path string) (*httptest.ResponseRecorder, Page) {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", gin.MIMEJSON)
	w := c.do(req)
	return w, decodePage(c.t, w)
}

// getHTML requests a page as HTML
func (c *client) getHTML(path string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html")
	return c.do(req)
}

// postForm submits a url-encoded form, asking for JSON back
func (c *client) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", gin.MIMEJSON)
	return c.do(req)
}

func (c *client) login(username string) {
	c.t.Helper()
	w := c.postForm("/login", url.Values{"username": {username}, "password": {testPassword}})
	require.Equal(c.t, http.StatusSeeOther, w.Code, w.Body.String())
}

// api sends a JSON request with an optional bearer token
func (c *client) api(method, path, token string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", gin.MIMEJSON)
	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}
	return c.do(req)
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) Page {
	t.Helper()
	var page Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page), w.Body.String())
	return page
}

func flashMessages(page Page) []string {
	out := make([]string, 0, len(page.Flashes))
	for _, f := range page.Flashes {
		out = append(out, f.Message)
	}
	return out
}

// pageData re-decodes the loosely typed Data field into out
func pageData(t *testing.T, page Page, out any) {
	t.Helper()
	raw, err := json.Marshal(page.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}
