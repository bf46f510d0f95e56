package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/streamhub/identity-service/internal/api/handler"
	"github.com/streamhub/identity-service/internal/api/middleware"
	"github.com/streamhub/identity-service/internal/core/domain"
	"github.com/streamhub/identity-service/internal/core/service"
	"github.com/streamhub/identity-service/internal/infrastructure/config"
	mongodb "github.com/streamhub/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/streamhub/identity-service/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	resetRepo := mongodb.NewResetRepository(db)
	throttle := redisdb.NewLoginThrottle(rdb)

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, roleRepo, auditRepo, tokens, throttle, log)
	userService := service.NewUserService(userRepo, roleRepo, log)
	resetService := service.NewResetService(userRepo, resetRepo, cfg.ResetTTL, log)

	authHandler := handler.NewAuthHandler(authService, resetService, userService)
	userHandler := handler.NewUserHandler(userService)
	authenticated := middleware.Auth(authService)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authenticated)
	e.POST("/auth/password/forgot", authHandler.ForgotPassword)
	e.POST("/auth/password/reset", authHandler.ResetPassword)

	// --- Admin routes ---
	users := e.Group("/users", authenticated, middleware.RequireRoles(domain.RoleAdmin))
	users.POST("/roles/assign", userHandler.AssignRole)
	users.DELETE("/roles/revoke", userHandler.RevokeRole)
	users.GET("/:id/roles", userHandler.ListRoles)
	users.POST("/:id/deactivate", userHandler.Deactivate)
	users.POST("/:id/activate", userHandler.Activate)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
