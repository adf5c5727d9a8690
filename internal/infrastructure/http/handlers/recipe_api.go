package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/receptar/receptar/internal/domain/recipe"
	"github.com/receptar/receptar/internal/infrastructure/security"
	"github.com/receptar/receptar/internal/ports/inbound"
	"github.com/receptar/receptar/pkg/errors"
)

// RecipeHandlers handles recipe API requests
type RecipeHandlers struct {
	recipeService inbound.RecipeService
	logger        *zap.Logger
}

// NewRecipeHandlers creates a new recipe handlers instance
func NewRecipeHandlers(recipeService inbound.RecipeService, logger *zap.Logger) *RecipeHandlers {
	return &RecipeHandlers{
		recipeService: recipeService,
		logger:        logger,
	}
}

// RecipeRequest is the payload for creating or updating a recipe
type RecipeRequest struct {
	Title           string                            `json:"title" binding:"required"`
	Story           string                            `json:"story"`
	Description     string                            `json:"description"`
	Instructions    string                            `json:"instructions"`
	CookingTime     int                               `json:"cooking_time"`
	CookingTimeUnit string                            `json:"cooking_time_unit"`
	Category        string                            `json:"category"`
	Tags            []string                          `json:"tags"`
	Ingredients     []recipe.IngredientLineSubmission `json:"ingredients"`
}

// Create handles POST /api/v1/recipes
func (h *RecipeHandlers) Create(c *gin.Context) {
	userID, ok := security.UserIDFrom(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewBadRequestError("invalid JSON payload"))
		return
	}

	dto, err := h.recipeService.CreateRecipe(c.Request.Context(), inbound.CreateRecipeCommand{
		AuthorID:        userID,
		Title:           req.Title,
		Story:           req.Story,
		Description:     req.Description,
		Instructions:    req.Instructions,
		CookingTime:     req.CookingTime,
		CookingTimeUnit: req.CookingTimeUnit,
		Category:        req.Category,
		Tags:            req.Tags,
		Ingredients:     req.Ingredients,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.logger.Info("Recipe created",
		zap.String("recipe_id", dto.ID.String()),
		zap.String("author_id", userID.String()),
	)
	c.JSON(http.StatusCreated, dto)
}

// Update handles PUT /api/v1/recipes/:id
func (h *RecipeHandlers) Update(c *gin.Context) {
	userID, ok := security.UserIDFrom(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewBadRequestError("invalid recipe ID"))
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewBadRequestError("invalid JSON payload"))
		return
	}

	dto, err := h.recipeService.UpdateRecipe(c.Request.Context(), inbound.UpdateRecipeCommand{
		RecipeID:        recipeID,
		UserID:          userID,
		Title:           req.Title,
		Story:           req.Story,
		Description:     req.Description,
		Instructions:    req.Instructions,
		CookingTime:     req.CookingTime,
		CookingTimeUnit: req.CookingTimeUnit,
		Category:        req.Category,
		Tags:            req.Tags,
		Ingredients:     req.Ingredients,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto)
}

// Delete handles DELETE /api/v1/recipes/:id
func (h *RecipeHandlers) Delete(c *gin.Context) {
	userID, ok := security.UserIDFrom(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewBadRequestError("invalid recipe ID"))
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), recipeID, userID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Get handles GET /api/v1/recipes/:id
func (h *RecipeHandlers) Get(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewBadRequestError("invalid recipe ID"))
		return
	}

	dto, err := h.recipeService.GetRecipeByID(c.Request.Context(), recipeID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto)
}

// List handles GET /api/v1/recipes
func (h *RecipeHandlers) List(c *gin.Context) {
	list, err := h.recipeService.ListRecipes(c.Request.Context(), inbound.ListQuery{
		Search:           c.Query("q"),
		Category:         c.Query("category"),
		Tag:              c.Query("tag"),
		PaginationParams: paginationFrom(c),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// ByAuthor handles GET /api/v1/users/:username/recipes
func (h *RecipeHandlers) ByAuthor(c *gin.Context) {
	list, err := h.recipeService.GetRecipesByAuthor(c.Request.Context(), c.Param("username"), paginationFrom(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func paginationFrom(c *gin.Context) inbound.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return inbound.PaginationParams{Page: page, PageSize: pageSize}
}
