package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ragevaluator/account-service/internal/api/handler"
	"github.com/ragevaluator/account-service/internal/api/middleware"
	"github.com/ragevaluator/account-service/internal/core/domain"
	"github.com/ragevaluator/account-service/internal/core/ports"
	"github.com/ragevaluator/account-service/internal/core/service"
	"github.com/ragevaluator/account-service/internal/infrastructure/config"
	memorydb "github.com/ragevaluator/account-service/internal/infrastructure/db/memory"
	mongodb "github.com/ragevaluator/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/ragevaluator/account-service/internal/infrastructure/db/redis"
	"github.com/ragevaluator/account-service/internal/infrastructure/mail"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil, in which case the OTP ledger runs in process memory.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)

	var ledger ports.OTPLedger
	if rdb != nil {
		ledger = redisdb.NewOTPLedger(rdb, domain.ChallengeTTL)
	} else {
		ledger = memorydb.NewOTPLedger(domain.ChallengeTTL)
	}

	tokens := service.NewTokenService(cfg.JWTSecret, domain.AccessTokenTTL)
	mailer := mail.NewSender(cfg.Sendgrid.APIKey, cfg.Sendgrid.From, log)
	authService := service.NewAuthService(userRepo, ledger, tokens, mailer, log)
	authHandler := handler.NewAuthHandler(authService)
	auth := middleware.Auth(tokens)

	// --- Auth routes ---
	e.POST("/auth/request-registration-otp", authHandler.RequestRegistrationOTP)
	e.POST("/auth/verify-registration-otp", authHandler.VerifyRegistrationOTP)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/request-password-reset", authHandler.RequestPasswordReset)
	e.POST("/auth/verify-otp", authHandler.VerifyResetOTP)
	e.POST("/auth/reset-password", authHandler.ResetPassword)
	e.DELETE("/auth/delete-account", authHandler.DeleteAccount, auth)
	e.DELETE("/auth/delete-user/:user_id", authHandler.DeleteUserByID, auth, middleware.RBAC(domain.RoleAdmin))

	// --- Protected routes ---
	protected := e.Group("/protected", auth)
	protected.GET("/me", handler.NewProtectedHandler().Me)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(db, rdb).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
