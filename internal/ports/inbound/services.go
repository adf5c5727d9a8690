// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/receptar/receptar/internal/domain/recipe"
)

// RecipeService defines the use cases for recipe management
// This is the primary port that HTTP handlers and the import CLI drive
type RecipeService interface {
	// Commands - operations that modify state
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*RecipeDTO, error)
	UpdateRecipe(ctx context.Context, cmd UpdateRecipeCommand) (*RecipeDTO, error)
	DeleteRecipe(ctx context.Context, recipeID, userID uuid.UUID) error

	// Queries - operations that read state
	GetRecipeByID(ctx context.Context, recipeID uuid.UUID) (*RecipeDTO, error)
	ListRecipes(ctx context.Context, query ListQuery) (*RecipeList, error)
	GetRecipesByAuthor(ctx context.Context, username string, params PaginationParams) (*RecipeList, error)
}

// UserService defines the use cases for account management
type UserService interface {
	Register(ctx context.Context, cmd RegisterCommand) (*UserDTO, error)
	Authenticate(ctx context.Context, username, password string) (*UserDTO, error)
	GetProfile(ctx context.Context, username string) (*UserDTO, error)
}

// ImportService drives the bulk JSON import pipeline
type ImportService interface {
	// ImportBatch normalizes and reconciles a parsed JSON document. The
	// document is either a top-level array of recipe items or an object
	// holding the array under "recipes" (or its localized spelling).
	ImportBatch(ctx context.Context, document any, username string, update bool) (*ImportResult, error)
}

// ImportResult reports the outcome of an import batch
type ImportResult struct {
	Created int
	Updated int
	Skipped []string // per-item diagnostics for skipped entries
}

// Command objects for operations

// CreateRecipeCommand contains data for creating a new recipe. The
// ingredient lines arrive as raw submissions and are gated by the
// ingredient-line consistency rule before anything is persisted.
type CreateRecipeCommand struct {
	AuthorID        uuid.UUID
	Title           string
	Story           string
	Description     string
	Instructions    string
	CookingTime     int
	CookingTimeUnit string
	Category        string
	Tags            []string
	Ingredients     []recipe.IngredientLineSubmission
}

// UpdateRecipeCommand contains data for updating a recipe. Lines with an
// ID edit or delete existing rows; lines without one add new rows.
type UpdateRecipeCommand struct {
	RecipeID        uuid.UUID
	UserID          uuid.UUID
	Title           string
	Story           string
	Description     string
	Instructions    string
	CookingTime     int
	CookingTimeUnit string
	Category        string
	Tags            []string
	Ingredients     []recipe.IngredientLineSubmission
}

// RegisterCommand contains data for creating an account
type RegisterCommand struct {
	Username string
	Email    string
	Password string
}

// Query objects

// PaginationParams selects a page of results
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset converts the page selection into a row offset
func (p PaginationParams) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit()
}

// Limit returns the effective page size
func (p PaginationParams) Limit() int {
	if p.PageSize < 1 || p.PageSize > 100 {
		return 20
	}
	return p.PageSize
}

// ListQuery filters the public recipe listing
type ListQuery struct {
	Search   string // substring match on title and description
	Category string
	Tag      string
	PaginationParams
}

// DTOs returned to driving adapters

// RecipeDTO is the outward representation of a recipe
type RecipeDTO struct {
	ID              uuid.UUID           `json:"id"`
	Title           string              `json:"title"`
	Story           string              `json:"story,omitempty"`
	Description     string              `json:"description,omitempty"`
	Instructions    string              `json:"instructions,omitempty"`
	CookingTime     int                 `json:"cooking_time"`
	CookingTimeUnit string              `json:"cooking_time_unit"`
	AuthorID        uuid.UUID           `json:"author_id"`
	Author          string              `json:"author"`
	Category        string              `json:"category,omitempty"`
	Tags            []string            `json:"tags"`
	Ingredients     []IngredientLineDTO `json:"ingredients"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// IngredientLineDTO is the outward representation of one ingredient line
type IngredientLineDTO struct {
	ID         uuid.UUID `json:"id"`
	Ingredient string    `json:"ingredient"`
	Quantity   string    `json:"quantity"`
	Unit       string    `json:"unit,omitempty"`
}

// RecipeList is a page of recipes
type RecipeList struct {
	Recipes  []RecipeDTO `json:"recipes"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// UserDTO is the outward representation of an account
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
