package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrEmptyTitle            = errors.New("recipe title is required")
	ErrTitleTooLong          = errors.New("recipe title must not exceed 100 characters")
	ErrNoAuthor              = errors.New("recipe author is required")
	ErrNegativeCookingTime   = errors.New("cooking time cannot be negative")
	ErrNegativeQuantity      = errors.New("ingredient quantity cannot be negative")
	ErrLineWithoutIngredient = errors.New("ingredient line must reference an ingredient")

	// Ingredient-line consistency rule: a recipe submission must keep at
	// least one usable line after deletions are applied.
	ErrNoIngredients = errors.New("Add at least one ingredient.")

	// Permission errors
	ErrNotRecipeAuthor = errors.New("only the recipe author can perform this action")
)
