package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fetchsocial/fetch-api/internal/api/handler"
	"github.com/fetchsocial/fetch-api/internal/api/middleware"
	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

// Deps carries everything the router needs. Mongo is nil in local mode; the
// readiness probe adapts.
type Deps struct {
	Directory ports.DirectoryService
	Messages  ports.MessageService
	Events    ports.EventService
	Sessions  ports.SessionStore
	JWTSecret string
	Mongo     *mongo.Database
	Redis     *redis.Client
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("fetch"))

	authMiddleware := middleware.Auth(deps.JWTSecret, deps.Sessions)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Directory)
	profileHandler := handler.NewProfileHandler(deps.Directory)
	directoryHandler := handler.NewDirectoryHandler(deps.Directory)
	adminHandler := handler.NewAdminHandler(deps.Directory)
	messageHandler := handler.NewMessageHandler(deps.Messages)
	eventHandler := handler.NewEventHandler(deps.Events)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)
	e.POST("/auth/resend-verification", authHandler.ResendVerification)

	// --- Profile ---
	e.GET("/me", profileHandler.Me, authMiddleware)
	e.PATCH("/me", profileHandler.Update, authMiddleware)

	// --- Discover + messaging ---
	e.GET("/users", directoryHandler.List, authMiddleware)
	e.GET("/users/:id/messages", messageHandler.Conversation, authMiddleware)
	e.POST("/users/:id/messages", messageHandler.Send, authMiddleware)

	// --- Events ---
	e.GET("/events", eventHandler.List)
	e.POST("/events", eventHandler.Create, authMiddleware, adminOnly)

	// --- Admin moderation panel ---
	admin := e.Group("/admin", authMiddleware, adminOnly)
	admin.GET("/users", adminHandler.ListUsers)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.PUT("/users/:id/role", adminHandler.ChangeRole)
	admin.POST("/users/:id/block", adminHandler.ToggleBlock)

	// --- Observability ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
