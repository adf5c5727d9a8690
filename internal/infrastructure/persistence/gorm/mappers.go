// Mapping between domain entities and GORM models.
package gorm

import (
	"github.com/google/uuid"

	"github.com/receptar/receptar/internal/domain/recipe"
	"github.com/receptar/receptar/internal/domain/user"
)

// UserToModel converts a domain user to a GORM model
func UserToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID(),
		Username:     u.Username(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		Bio:          u.Bio(),
		IsActive:     u.IsActive(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
		LastLoginAt:  u.LastLoginAt(),
	}
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(model *UserModel) *user.User {
	return user.Reconstitute(
		model.ID,
		model.Username,
		model.Email,
		model.PasswordHash,
		model.Bio,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
		model.LastLoginAt,
	)
}

// RecipeToModel converts a domain recipe to a GORM model. Associations
// are mapped separately by the repository so transactions can control
// how child rows are written.
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	model := &RecipeModel{
		ID:              r.ID(),
		Title:           r.Title(),
		Story:           r.Story(),
		Description:     r.Description(),
		Instructions:    r.Instructions(),
		CookingTime:     r.CookingTime(),
		CookingTimeUnit: r.CookingTimeUnit(),
		AuthorID:        r.AuthorID(),
		CreatedAt:       r.CreatedAt(),
		UpdatedAt:       r.UpdatedAt(),
	}
	if cat := r.Category(); cat != nil {
		id := cat.ID
		model.CategoryID = &id
	}
	return model
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(model *RecipeModel) *recipe.Recipe {
	var category *recipe.Category
	if model.Category != nil {
		category = &recipe.Category{ID: model.Category.ID, Name: model.Category.Name}
	}

	tags := make([]recipe.Tag, len(model.Tags))
	for i, tag := range model.Tags {
		tags[i] = recipe.Tag{ID: tag.ID, Name: tag.Name}
	}

	lines := make([]recipe.IngredientLine, len(model.Ingredients))
	for i, line := range model.Ingredients {
		lines[i] = recipe.IngredientLine{
			ID:             line.ID,
			IngredientID:   line.IngredientID,
			IngredientName: line.Ingredient.Name,
			Quantity:       line.Quantity,
			Unit:           line.Unit,
		}
	}

	return recipe.Reconstitute(
		model.ID,
		model.Title,
		model.Story,
		model.Description,
		model.Instructions,
		model.CookingTime,
		model.CookingTimeUnit,
		model.AuthorID,
		model.Author.Username,
		category,
		tags,
		lines,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// LinesToModels converts domain ingredient lines to GORM models for a recipe
func LinesToModels(recipeID uuid.UUID, lines []recipe.IngredientLine) []RecipeIngredientModel {
	models := make([]RecipeIngredientModel, len(lines))
	for i, line := range lines {
		models[i] = RecipeIngredientModel{
			ID:           line.ID,
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
		}
	}
	return models
}
