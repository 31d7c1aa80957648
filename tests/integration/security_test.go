package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/session"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurity_Headers(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := ts.NewBrowser(t).send(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSecurity_XSSProtection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	payload := `<script>alert("x")</script>`
	product := ts.DB.CreateTestProduct(payload, `<img src=x onerror=alert(1)>`, "5.00", catalog.DefaultCategoryID)

	req := httptest.NewRequest(http.MethodGet, "/product/"+strconv.FormatUint(uint64(product.ID), 10), nil)
	req.Header.Set("Accept", "text/html")
	w := ts.NewBrowser(t).send(req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, payload)
	assert.NotContains(t, body, `<img src=x`)
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestSecurity_SQLInjectionProtection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	ts.DB.CreateTestProduct("Kettle", "Boils water", "20.00", catalog.DefaultCategoryID)
	ts.DB.CreateTestUser("victim", shopperPassword, true)

	payloads := []string{
		`' OR '1'='1`,
		`'; DROP TABLE products; --`,
		`%' UNION SELECT password_hash FROM users --`,
	}

	t.Run("search treats input as text", func(t *testing.T) {
		for _, payload := range payloads {
			w := ts.NewBrowser(t).Form("/search", url.Values{"searched": {payload}})
			require.Equal(t, http.StatusOK, w.Code, payload)

			var page struct {
				Data catalogapp.SearchResult `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
			assert.False(t, page.Data.Found, payload)
			assert.Empty(t, page.Data.Products, payload)
		}

		var count int64
		require.NoError(t, ts.DB.DB.Table("products").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("login does not authenticate injected usernames", func(t *testing.T) {
		for _, payload := range payloads {
			b := ts.NewBrowser(t)
			w := b.Form("/login", url.Values{"username": {payload}, "password": {payload}})
			assert.Equal(t, http.StatusUnauthorized, w.Code, payload)
			assert.Nil(t, b.Page("/").User, payload)
		}
	})

	t.Run("token endpoint does not authenticate injected usernames", func(t *testing.T) {
		for _, payload := range payloads {
			w := ts.NewBrowser(t).API(http.MethodPost, "/api/v1/auth/token", "",
				identityapp.LoginInput{Username: payload, Password: payload})
			assert.Equal(t, http.StatusUnauthorized, w.Code, payload)
		}
	})
}

func TestSecurity_AuthenticationSecurity(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	ts.DB.CreateTestUser("staffer", shopperPassword, true)

	t.Run("password hash is never returned", func(t *testing.T) {
		w := ts.NewBrowser(t).API(http.MethodPost, "/api/v1/auth/token", "",
			identityapp.LoginInput{Username: "staffer", Password: shopperPassword})
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
		assert.NotContains(t, w.Body.String(), "$2a$")
	})

	t.Run("unknown user and wrong password look the same", func(t *testing.T) {
		unknown := ts.NewBrowser(t).Form("/login", url.Values{"username": {"nobody"}, "password": {"whatever-1"}})
		wrong := ts.NewBrowser(t).Form("/login", url.Values{"username": {"staffer"}, "password": {"whatever-1"}})
		require.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, unknown.Code, wrong.Code)

		var a, b handler.Page
		require.NoError(t, json.Unmarshal(unknown.Body.Bytes(), &a))
		require.NoError(t, json.Unmarshal(wrong.Body.Bytes(), &b))
		assert.Equal(t, a.Flashes, b.Flashes)
		assert.Equal(t, []session.Flash{{Level: session.FlashError, Message: handler.MsgLoginFailed}}, a.Flashes)
	})

	t.Run("session cookie is http-only", func(t *testing.T) {
		w := ts.NewBrowser(t).Form("/login", url.Values{"username": {"staffer"}, "password": {shopperPassword}})
		require.Equal(t, http.StatusSeeOther, w.Code)
		var found bool
		for _, cookie := range w.Result().Cookies() {
			if cookie.Name == "sessionid" {
				found = true
				assert.True(t, cookie.HttpOnly)
			}
		}
		assert.True(t, found)
	})
}

func TestSecurity_PathTraversal(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	for _, path := range []string{
		"/media/../../etc/passwd",
		"/media/" + catalog.ImagePrefix + "../../go.mod",
		"/media/%2e%2e/%2e%2e/etc/passwd",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := ts.NewBrowser(t).send(req)
		assert.NotEqual(t, http.StatusOK, w.Code, path)
		assert.NotContains(t, w.Body.String(), "root:", path)
	}
}
