// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/receptar/receptar/internal/domain/recipe"
	"github.com/receptar/receptar/internal/domain/user"
)

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	// Basic CRUD operations. Create and Update persist the aggregate
	// together with its ingredient lines and tag set; Update preserves
	// the identity of lines whose IDs are retained.
	Create(ctx context.Context, rec *recipe.Recipe) error
	Update(ctx context.Context, rec *recipe.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)

	// FindByTitle resolves the importer's business key. Returns
	// (nil, nil) when no recipe carries the title.
	FindByTitle(ctx context.Context, title string) (*recipe.Recipe, error)

	// Bulk child-collection operations used by the import path.
	ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, lines []recipe.IngredientLine) error
	SetTags(ctx context.Context, recipeID uuid.UUID, tagIDs []uuid.UUID) error

	// Query operations
	List(ctx context.Context, criteria ListCriteria) ([]*recipe.Recipe, int, error)
	FindByAuthorID(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]*recipe.Recipe, int, error)
}

// ListCriteria filters the public listing, newest first
type ListCriteria struct {
	Search   string
	Category string
	Tag      string
	Offset   int
	Limit    int
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// LookupRepository resolves the named lookup entities with
// lookup-or-create semantics. Implementations must be safe under the
// store's uniqueness constraint: on a create conflict they re-fetch
// rather than fail.
type LookupRepository interface {
	GetOrCreateCategory(ctx context.Context, name string) (recipe.Category, error)
	GetOrCreateTag(ctx context.Context, name string) (recipe.Tag, error)
	GetOrCreateIngredient(ctx context.Context, name string) (recipe.Ingredient, error)
	ListCategories(ctx context.Context) ([]recipe.Category, error)
	ListTags(ctx context.Context) ([]recipe.Tag, error)
}

// TxManager runs a function inside a single store transaction. Repository
// calls made with the context it passes join that transaction, so a
// recipe and its child rows commit or roll back as one unit.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheRepository defines the interface for caching operations.
// Increment bumps an expiring counter and returns the new value; the TTL
// starts when the counter is first created.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
