package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/session"
	"go.uber.org/zap"
)

// SessionKey is the gin context key holding the request session
const SessionKey = "session"

// LoginRequiredMessage is flashed when an anonymous visitor opens a page
// that needs an account
const LoginRequiredMessage = "You must be logged in to access that page"

// SessionConfig holds configuration for the session middleware
type SessionConfig struct {
	Manager    *session.Manager
	CookieName string
	Cookie     config.CookieConfig
	Logger     *zap.Logger
}

// Session loads the session named by the cookie and writes it back, with a
// refreshed cookie, before the first byte of the response goes out.
func Session(cfg SessionConfig) gin.HandlerFunc {
	sameSite := parseSameSite(cfg.Cookie.SameSite)
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		token, _ := c.Cookie(cfg.CookieName)
		s := cfg.Manager.Load(c.Request.Context(), token)
		c.Set(SessionKey, s)

		if s.IsAuthenticated() {
			ctx := c.Request.Context()
			ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), strconv.FormatUint(uint64(s.UserID()), 10))
			c.Request = c.Request.WithContext(ctx)
		}

		w := &sessionWriter{ResponseWriter: c.Writer}
		w.commit = func() {
			ctx := context.WithoutCancel(c.Request.Context())
			value, err := cfg.Manager.Save(ctx, s)
			if err != nil {
				log.Error("Failed to save session", zap.Error(err))
				return
			}
			if value == "" {
				return
			}
			http.SetCookie(w.ResponseWriter, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    value,
				Path:     cfg.Cookie.Path,
				Domain:   cfg.Cookie.Domain,
				MaxAge:   int(cfg.Manager.TTL().Seconds()),
				Secure:   cfg.Cookie.Secure,
				HttpOnly: true,
				SameSite: sameSite,
			})
		}
		c.Writer = w

		c.Next()

		w.once.Do(w.commit)
	}
}

// GetSession retrieves the request session, nil outside the Session
// middleware
func GetSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// MustGetSession retrieves the request session or panics if not found
func MustGetSession(c *gin.Context) *session.Session {
	s := GetSession(c)
	if s == nil {
		panic("session not found in context")
	}
	return s
}

// RequireLogin redirects anonymous visitors to redirectTo with a flash
func RequireLogin(redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := MustGetSession(c)
		if !s.IsAuthenticated() {
			s.AddFlash(session.FlashError, LoginRequiredMessage)
			c.Redirect(http.StatusSeeOther, redirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}

// sessionWriter commits the session the first time the handler touches
// the response
type sessionWriter struct {
	gin.ResponseWriter
	once   sync.Once
	commit func()
}

func (w *sessionWriter) WriteHeader(code int) {
	w.once.Do(w.commit)
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) WriteHeaderNow() {
	w.once.Do(w.commit)
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(data []byte) (int, error) {
	w.once.Do(w.commit)
	return w.ResponseWriter.Write(data)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.once.Do(w.commit)
	return w.ResponseWriter.WriteString(s)
}

func parseSameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
