// Package recipe contains the core domain logic for recipe management.
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/receptar/receptar/internal/domain/shared"
)

// Canonical time units recipes are measured in. Localized unit words are
// translated to these by the import pipeline.
const (
	TimeUnitMinutes = "min"
	TimeUnitHours   = "hr"
)

// Recipe is the aggregate root for a user-authored recipe together with
// its ingredient lines. The title doubles as the business key the
// importer reconciles against.
type Recipe struct {
	shared.AggregateRoot

	id              uuid.UUID
	title           string
	story           string
	description     string
	instructions    string
	cookingTime     int
	cookingTimeUnit string
	authorID        uuid.UUID
	authorUsername  string
	category        *Category
	tags            []Tag
	ingredients     []IngredientLine

	createdAt time.Time
	updatedAt time.Time
}

// IngredientLine is one "2 tbsp flour" row belonging to a recipe. A zero
// ID marks a line that has not been persisted yet.
type IngredientLine struct {
	ID             uuid.UUID
	IngredientID   uuid.UUID
	IngredientName string
	Quantity       decimal.Decimal
	Unit           string
}

// NewRecipe creates a new Recipe with validation
func NewRecipe(title string, authorID uuid.UUID) (*Recipe, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if authorID == uuid.Nil {
		return nil, ErrNoAuthor
	}

	now := time.Now()
	r := &Recipe{
		id:              uuid.New(),
		title:           title,
		cookingTimeUnit: TimeUnitMinutes,
		authorID:        authorID,
		createdAt:       now,
		updatedAt:       now,
	}

	r.AddEvent(RecipeCreatedEvent{
		RecipeID:  r.id,
		AuthorID:  authorID,
		Title:     title,
		CreatedAt: now,
	})

	return r, nil
}

// Reconstitute rebuilds a Recipe from persisted state. It bypasses
// creation events and validation; the store is trusted.
func Reconstitute(
	id uuid.UUID,
	title, story, description, instructions string,
	cookingTime int,
	cookingTimeUnit string,
	authorID uuid.UUID,
	authorUsername string,
	category *Category,
	tags []Tag,
	ingredients []IngredientLine,
	createdAt, updatedAt time.Time,
) *Recipe {
	return &Recipe{
		id:              id,
		title:           title,
		story:           story,
		description:     description,
		instructions:    instructions,
		cookingTime:     cookingTime,
		cookingTimeUnit: cookingTimeUnit,
		authorID:        authorID,
		authorUsername:  authorUsername,
		category:        category,
		tags:            tags,
		ingredients:     ingredients,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID { return r.id }

// Title returns the recipe's title
func (r *Recipe) Title() string { return r.title }

// Story returns the background story behind the recipe
func (r *Recipe) Story() string { return r.story }

// Description returns the recipe's description
func (r *Recipe) Description() string { return r.description }

// Instructions returns the preparation instructions
func (r *Recipe) Instructions() string { return r.instructions }

// CookingTime returns the cooking time in CookingTimeUnit units
func (r *Recipe) CookingTime() int { return r.cookingTime }

// CookingTimeUnit returns the canonical unit cooking time is measured in
func (r *Recipe) CookingTimeUnit() string { return r.cookingTimeUnit }

// AuthorID returns the recipe's author ID
func (r *Recipe) AuthorID() uuid.UUID { return r.authorID }

// AuthorUsername returns the author's username when the recipe was
// loaded from the store; empty on a freshly created aggregate.
func (r *Recipe) AuthorUsername() string { return r.authorUsername }

// Category returns the recipe's category, nil when uncategorized
func (r *Recipe) Category() *Category { return r.category }

// Tags returns the recipe's tag set
func (r *Recipe) Tags() []Tag { return r.tags }

// Ingredients returns the recipe's ingredient lines
func (r *Recipe) Ingredients() []IngredientLine { return r.ingredients }

// CreatedAt returns when the recipe was created
func (r *Recipe) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns when the recipe was last updated
func (r *Recipe) UpdatedAt() time.Time { return r.updatedAt }

// IsAuthoredBy reports whether userID owns this recipe. Update and
// delete are restricted to the author.
func (r *Recipe) IsAuthoredBy(userID uuid.UUID) bool {
	return r.authorID == userID
}

// UpdateDetails replaces the recipe's scalar fields with validation
func (r *Recipe) UpdateDetails(title, story, description, instructions string, cookingTime int, cookingTimeUnit string) error {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}
	if cookingTime < 0 {
		return ErrNegativeCookingTime
	}
	if cookingTimeUnit == "" {
		cookingTimeUnit = TimeUnitMinutes
	}

	r.title = title
	r.story = story
	r.description = description
	r.instructions = instructions
	r.cookingTime = cookingTime
	r.cookingTimeUnit = cookingTimeUnit
	r.touch()

	r.AddEvent(RecipeUpdatedEvent{
		RecipeID:  r.id,
		Title:     title,
		UpdatedAt: r.updatedAt,
	})

	return nil
}

// ReassignAuthor transfers ownership of the recipe. The import path uses
// this in update mode, where the named author overwrites the stored one.
func (r *Recipe) ReassignAuthor(authorID uuid.UUID) error {
	if authorID == uuid.Nil {
		return ErrNoAuthor
	}
	if authorID == r.authorID {
		return nil
	}
	r.authorID = authorID
	// the cached username belongs to the previous owner
	r.authorUsername = ""
	r.touch()
	return nil
}

// SetCategory assigns the recipe's category; nil clears it
func (r *Recipe) SetCategory(category *Category) {
	r.category = category
	r.touch()
}

// SetTags replaces the recipe's tag set
func (r *Recipe) SetTags(tags []Tag) {
	r.tags = tags
	r.touch()
}

// SetIngredients replaces the recipe's ingredient lines. Line identity is
// preserved through the IDs carried on each line: the persistence layer
// updates lines with a known ID, inserts zero-ID lines, and removes lines
// no longer present.
func (r *Recipe) SetIngredients(lines []IngredientLine) error {
	for _, line := range lines {
		if line.IngredientID == uuid.Nil {
			return ErrLineWithoutIngredient
		}
		if line.Quantity.IsNegative() {
			return ErrNegativeQuantity
		}
	}
	r.ingredients = lines
	r.touch()
	return nil
}

func (r *Recipe) touch() {
	r.updatedAt = time.Now()
}

// validateTitle validates a recipe title
func validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > 100 {
		return ErrTitleTooLong
	}
	return nil
}
