package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfiling(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		path      string
		wantRoute string
	}{
		{"labels matched routes", true, "/product/7", "/product/:id"},
		{"skips listed paths", true, "/health", ""},
		{"disabled adds nothing", false, "/product/7", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var route string
			handler := func(c *gin.Context) {
				route, _ = pprof.Label(c.Request.Context(), "http_route")
				c.Status(http.StatusOK)
			}

			engine := gin.New()
			engine.Use(Profiling(tt.enabled, "/health"))
			engine.GET("/product/:id", handler)
			engine.GET("/health", handler)

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantRoute, route)
		})
	}
}
