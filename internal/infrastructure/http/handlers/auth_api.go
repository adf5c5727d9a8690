// Package handlers provides the HTTP handlers for the JSON API
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/receptar/receptar/internal/infrastructure/security"
	"github.com/receptar/receptar/internal/ports/inbound"
	"github.com/receptar/receptar/pkg/errors"
)

// AuthHandlers handles authentication API requests
type AuthHandlers struct {
	userService inbound.UserService
	authService *security.AuthService
	lockout     *security.LoginLockout
	logger      *zap.Logger
}

// NewAuthHandlers creates a new authentication handlers instance
func NewAuthHandlers(
	userService inbound.UserService,
	authService *security.AuthService,
	lockout *security.LoginLockout,
	logger *zap.Logger,
) *AuthHandlers {
	return &AuthHandlers{
		userService: userService,
		authService: authService,
		lockout:     lockout,
		logger:      logger,
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued token and the account it belongs to
type AuthResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   int64           `json:"expires_at"`
	User        *inbound.UserDTO `json:"user"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewBadRequestError("invalid JSON payload"))
		return
	}

	user, err := h.userService.Register(c.Request.Context(), inbound.RegisterCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.logger.Info("User registered", zap.String("username", user.Username))
	c.JSON(http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewBadRequestError("invalid JSON payload"))
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, errors.CodeInvalidCredentials) {
			h.lockout.RecordFailure(c.Request.Context(), c.ClientIP())
		}
		c.Error(err)
		return
	}
	h.lockout.Clear(c.Request.Context(), c.ClientIP())

	token, expiresAt, err := h.authService.GenerateToken(user.ID, user.Username)
	if err != nil {
		c.Error(errors.Wrap(err, "failed to issue token"))
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.Unix(),
		User:        user,
	})
}
