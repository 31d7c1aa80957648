package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MediaHandler serves uploaded product images from object storage
type MediaHandler struct {
	storage catalogapp.ObjectStorageService
	logger  *zap.Logger
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(storage catalogapp.ObjectStorageService, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{storage: storage, logger: logger}
}

// Serve streams the object named by the *key path parameter. Only product
// image keys are served.
func (h *MediaHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if !strings.HasPrefix(key, catalog.ImagePrefix) || strings.Contains(key, "..") {
		c.Status(http.StatusNotFound)
		return
	}

	body, contentType, err := h.storage.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to open media object", zap.String("key", key), zap.Error(err))
		c.Status(http.StatusBadGateway)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, body, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}
