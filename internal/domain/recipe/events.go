package recipe

import (
	"time"

	"github.com/google/uuid"
)

// Domain events raised by the Recipe aggregate.

// RecipeCreatedEvent is raised when a new recipe is created
type RecipeCreatedEvent struct {
	RecipeID  uuid.UUID
	AuthorID  uuid.UUID
	Title     string
	CreatedAt time.Time
}

// EventName returns the event name
func (e RecipeCreatedEvent) EventName() string { return "recipe.created" }

// OccurredAt returns when the event occurred
func (e RecipeCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// RecipeUpdatedEvent is raised when a recipe's fields change
type RecipeUpdatedEvent struct {
	RecipeID  uuid.UUID
	Title     string
	UpdatedAt time.Time
}

// EventName returns the event name
func (e RecipeUpdatedEvent) EventName() string { return "recipe.updated" }

// OccurredAt returns when the event occurred
func (e RecipeUpdatedEvent) OccurredAt() time.Time { return e.UpdatedAt }

// RecipeDeletedEvent is raised when a recipe is removed
type RecipeDeletedEvent struct {
	RecipeID  uuid.UUID
	DeletedAt time.Time
}

// EventName returns the event name
func (e RecipeDeletedEvent) EventName() string { return "recipe.deleted" }

// OccurredAt returns when the event occurred
func (e RecipeDeletedEvent) OccurredAt() time.Time { return e.DeletedAt }
