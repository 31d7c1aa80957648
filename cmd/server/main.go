package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	partnerapp "github.com/storefront/backend/internal/application/partner"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/metrics"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/session"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"github.com/storefront/backend/internal/interfaces/http/view"
	"go.uber.org/zap"
)

//	@title			Storefront Back Office API
//	@version		1.0
//	@description	Staff API for categories, products, customers and orders

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	profiler, err := telemetry.NewProfiler(cfg.Profiler, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if cfg.Profiler.Enabled && cfg.Profiler.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	// OTLP log export tees zap output to the collector
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	defer func() {
		if err := loggerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	log = loggerProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize metric export", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver))

	if db.Driver == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, db.Driver, log); err != nil {
			log.Warn("Database tracing unavailable", zap.Error(err))
		}
	}

	if meterProvider.IsEnabled() {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to access connection pool", zap.Error(err))
		}
		if _, err := telemetry.RegisterDBPoolMetrics(meterProvider.Meter("storefront/db"), sqlDB); err != nil {
			log.Warn("Database pool metrics unavailable", zap.Error(err))
		}
	}

	healthChecks := map[string]handler.HealthCheck{"database": db.Ping}

	// Redis backs sessions and token revocation when the redis store is selected
	var redisClient redis.UniversalClient
	if cfg.Session.Store == config.SessionStoreRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to redis", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		}
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	sessionStore, err := session.NewStore(cfg.Session, redisClient)
	if err != nil {
		log.Fatal("Failed to create session store", zap.Error(err))
	}
	defer func() {
		if err := sessionStore.Close(); err != nil {
			log.Error("Error closing session store", zap.Error(err))
		}
	}()

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient, "storefront:revoked:")
	}

	objects, err := storage.NewObjectStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT, cfg.Session.TTL)
	accountService := identityapp.NewAccountService(userRepo, profileRepo, userRepo, log)
	tokenService := identityapp.NewTokenService(accountService, jwtService, blacklist, log)
	cartService := cartapp.NewCartService(productRepo, profileRepo, log)
	catalogService := catalogapp.NewCatalogService(categoryRepo, productRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, objects, log)
	customerService := partnerapp.NewCustomerService(customerRepo, log)
	orderService := tradeapp.NewOrderService(orderRepo, productRepo, customerRepo, log)

	// HTTP handlers
	pages := handler.NewPageHandler(accountService, log)
	handlers := router.Handlers{
		Store:    handler.NewStoreHandler(pages, catalogService),
		Account:  handler.NewAccountHandler(pages, cartService, m),
		Cart:     handler.NewCartHandler(pages, cartService, m),
		Media:    handler.NewMediaHandler(objects, log),
		Health:   handler.NewHealthHandler(healthChecks),
		Auth:     handler.NewAuthHandler(tokenService, m),
		Category: handler.NewCategoryHandler(categoryService),
		Product:  handler.NewProductHandler(productService, cfg.HTTP.MaxBodySize),
		Customer: handler.NewCustomerHandler(customerService),
		Order:    handler.NewOrderHandler(orderService),
	}
	if m != nil {
		handlers.Metrics = m.Handler()
		handlers.MetricsPath = cfg.Metrics.Path
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	templates, err := view.Load()
	if err != nil {
		log.Fatal("Failed to parse templates", zap.Error(err))
	}

	engine := gin.New()
	engine.SetHTMLTemplate(templates)
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Root span per request
	// 5. Metrics - Count and time requests by route
	// 6. Profiling - Label profile samples by route
	// 7. Security - Add security headers
	// 8. BodyLimit - Limit request body size
	// 9. Session - Load and commit the visitor session
	// 10. SpanEnricher - Tag the span with request and user ids
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log, nil))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.HTTPMetrics(m))
	engine.Use(middleware.Profiling(profiler.IsRunning(), "/health", cfg.Metrics.Path))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Session(middleware.SessionConfig{
		Manager:    session.NewManager(sessionStore, jwtService, cfg.Session.TTL, log),
		CookieName: cfg.Session.CookieName,
		Cookie:     cfg.Cookie,
		Logger:     log,
	}))
	engine.Use(middleware.SpanEnricher())

	guards := router.Guards{
		LoginRequired: middleware.RequireLogin("/"),
		Staff: middleware.StaffAuth(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		}),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer limiter.Stop()
		guards.AuthRateLimit = middleware.RateLimit(limiter)
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.RegisterSite(router.Storefront(handlers, guards)).
		RegisterSite(router.Operations(handlers)).
		Register(router.Auth(handlers, guards)).
		Register(router.Admin(handlers, guards))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
