package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/receptar/receptar/internal/ports/inbound"
)

// ProfileHandlers handles public profile requests
type ProfileHandlers struct {
	userService inbound.UserService
}

// NewProfileHandlers creates a new profile handlers instance
func NewProfileHandlers(userService inbound.UserService) *ProfileHandlers {
	return &ProfileHandlers{userService: userService}
}

// Get handles GET /api/v1/users/:username
func (h *ProfileHandlers) Get(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
