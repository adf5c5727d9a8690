// Package server provides the HTTP server for the JSON API
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/receptar/receptar/internal/infrastructure/config"
	"github.com/receptar/receptar/internal/infrastructure/http/handlers"
	"github.com/receptar/receptar/internal/infrastructure/http/middleware"
	"github.com/receptar/receptar/internal/infrastructure/security"
	"github.com/receptar/receptar/internal/ports/inbound"
	"github.com/receptar/receptar/internal/ports/outbound"
	"github.com/receptar/receptar/pkg/healthcheck"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	logger      *zap.Logger
	server      *http.Server
	authService *security.AuthService
	lockout     *security.LoginLockout
	health      *healthcheck.HealthCheck

	authHandlers    *handlers.AuthHandlers
	recipeHandlers  *handlers.RecipeHandlers
	profileHandlers *handlers.ProfileHandlers
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	recipeService inbound.RecipeService,
	userService inbound.UserService,
	authService *security.AuthService,
	cache outbound.CacheRepository,
	health *healthcheck.HealthCheck,
) *Server {
	lockout := security.NewLoginLockout(
		cache,
		cfg.Auth.LockoutThreshold,
		cfg.Auth.LockoutWindow,
		cfg.Auth.LockoutDuration,
		logger,
	)

	s := &Server{
		config:          cfg,
		logger:          logger,
		authService:     authService,
		lockout:         lockout,
		health:          health,
		authHandlers:    handlers.NewAuthHandlers(userService, authService, lockout, logger),
		recipeHandlers:  handlers.NewRecipeHandlers(recipeService, logger),
		profileHandlers: handlers.NewProfileHandlers(userService),
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.setupRouter(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s
}

func (s *Server) setupRouter() *gin.Engine {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	m := middleware.New(s.config, s.logger)

	router := gin.New()
	router.Use(
		m.RequestID(),
		m.Recovery(),
		m.Logger(),
		m.Security(),
		m.CORS(),
		m.RateLimit(),
		m.ErrorHandler(),
	)

	router.GET("/health", s.health.Handler())
	router.GET("/health/live", s.health.LivenessHandler())
	router.GET("/health/ready", s.health.ReadinessHandler())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	loginLimiter := security.NewLoginRateLimiter(
		rate.Limit(s.config.Auth.LoginAttemptsPerMin)/60,
		s.config.Auth.LoginBurst,
	)
	auth := api.Group("/auth")
	auth.Use(loginLimiter.Middleware(), s.lockout.Middleware())
	{
		auth.POST("/register", s.authHandlers.Register)
		auth.POST("/login", s.authHandlers.Login)
	}

	recipes := api.Group("/recipes")
	{
		recipes.GET("", s.recipeHandlers.List)
		recipes.GET("/:id", s.recipeHandlers.Get)

		authed := recipes.Group("")
		authed.Use(s.authService.Middleware())
		{
			authed.POST("", s.recipeHandlers.Create)
			authed.PUT("/:id", s.recipeHandlers.Update)
			authed.DELETE("/:id", s.recipeHandlers.Delete)
		}
	}

	users := api.Group("/users")
	{
		users.GET("/:username", s.profileHandlers.Get)
		users.GET("/:username/recipes", s.recipeHandlers.ByAuthor)
	}

	return router
}

// Start begins serving requests and blocks until the listener stops
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}
