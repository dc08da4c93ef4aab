package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dibsly/dibs-api/internal/api/handler"
	"github.com/dibsly/dibs-api/internal/api/middleware"
	"github.com/dibsly/dibs-api/internal/core/ports"
	"github.com/dibsly/dibs-api/internal/core/service"
)

// Dependencies carries the process-scoped stores the router wires together.
// They are created at startup and torn down at shutdown; nothing here is
// ambient or global.
type Dependencies struct {
	Sessions ports.SessionStore
	Catalog  ports.CatalogRepository
	Users    ports.UserRepository

	// Backend handles for the readiness probe; nil when the corresponding
	// in-memory backend is selected.
	MongoDB *mongo.Database
	Redis   *redis.Client

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("dibs"))

	// --- Services ---
	coordinator := service.NewClaimCoordinator(deps.Catalog, deps.Logger)
	catalogService := service.NewCatalogService(deps.Catalog, deps.Logger)
	authService := service.NewAuthService(deps.Sessions, deps.Users, coordinator, deps.Logger)

	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService, coordinator)
	authRequired := middleware.Auth(deps.Sessions)

	// --- Auth routes ---
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout, authRequired)

	// --- Catalog routes ---
	e.GET("/products", catalogHandler.List, authRequired)
	e.GET("/products/:id", catalogHandler.Get, authRequired)
	e.POST("/products/:id/select", catalogHandler.Select, authRequired)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.MongoDB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
