package gorm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/receptar/receptar/internal/domain/recipe"
	"github.com/receptar/receptar/internal/ports/outbound"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create persists a new recipe together with its ingredient lines and
// tag associations.
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	db := dbFrom(ctx, r.db)
	model := RecipeToModel(rec)

	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	if lines := LinesToModels(rec.ID(), rec.Ingredients()); len(lines) > 0 {
		if err := db.Create(&lines).Error; err != nil {
			return err
		}
	}
	return r.replaceTags(db, model, tagModels(rec.Tags()))
}

// Update writes the recipe's fields and syncs its child rows. Ingredient
// lines keep their identity: rows whose IDs survive are updated in
// place, new rows are inserted, and rows the aggregate no longer carries
// are removed.
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	db := dbFrom(ctx, r.db)
	model := RecipeToModel(rec)

	result := db.Omit(clause.Associations).Model(&RecipeModel{}).
		Where("id = ?", model.ID).
		Select("title", "story", "description", "instructions",
			"cooking_time", "cooking_time_unit", "author_id", "category_id", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("recipe not found")
	}

	if err := r.syncLines(db, rec); err != nil {
		return err
	}
	return r.replaceTags(db, model, tagModels(rec.Tags()))
}

// Delete removes a recipe; its ingredient lines and tag join rows go
// with it.
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFrom(ctx, r.db)

	if err := db.Where("recipe_id = ?", id).Delete(&RecipeIngredientModel{}).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM recipe_tags WHERE recipe_model_id = ?", id).Error; err != nil {
		return err
	}

	result := db.Delete(&RecipeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("recipe not found")
	}
	return nil
}

// FindByID finds a recipe by ID, nil when absent
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByTitle resolves the importer's business key, nil when absent
func (r *RecipeRepository) FindByTitle(ctx context.Context, title string) (*recipe.Recipe, error) {
	return r.findOne(ctx, "title = ?", title)
}

func (r *RecipeRepository) findOne(ctx context.Context, query string, arg any) (*recipe.Recipe, error) {
	db := dbFrom(ctx, r.db)

	var model RecipeModel
	err := db.
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&model, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ModelToRecipe(&model), nil
}

// ReplaceIngredients discards a recipe's entire line set and inserts the
// supplied one. The import path's replace-all policy.
func (r *RecipeRepository) ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, lines []recipe.IngredientLine) error {
	db := dbFrom(ctx, r.db)

	if err := db.Where("recipe_id = ?", recipeID).Delete(&RecipeIngredientModel{}).Error; err != nil {
		return err
	}
	models := LinesToModels(recipeID, lines)
	for i := range models {
		models[i].ID = uuid.Nil // force fresh identities
	}
	if len(models) == 0 {
		return nil
	}
	return db.Create(&models).Error
}

// SetTags replaces a recipe's tag set, including to empty
func (r *RecipeRepository) SetTags(ctx context.Context, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	db := dbFrom(ctx, r.db)

	tags := make([]TagModel, len(tagIDs))
	for i, id := range tagIDs {
		tags[i] = TagModel{ID: id}
	}
	return r.replaceTags(db, &RecipeModel{ID: recipeID}, tags)
}

// List returns a page of the public listing, newest first
func (r *RecipeRepository) List(ctx context.Context, criteria outbound.ListCriteria) ([]*recipe.Recipe, int, error) {
	db := dbFrom(ctx, r.db)
	query := db.Model(&RecipeModel{})

	if criteria.Search != "" {
		term := "%" + strings.ToLower(criteria.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}
	if criteria.Category != "" {
		query = query.Where("category_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Model(&CategoryModel{}).Select("id").Where("name = ?", criteria.Category))
	}
	if criteria.Tag != "" {
		query = query.Where("id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Table("recipe_tags").
				Select("recipe_model_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_model_id").
				Where("tags.name = ?", criteria.Tag))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []RecipeModel
	err := query.
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("created_at DESC").
		Offset(criteria.Offset).
		Limit(criteria.Limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	return toRecipes(models), int(total), nil
}

// FindByAuthorID returns a page of one author's recipes, newest first
func (r *RecipeRepository) FindByAuthorID(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]*recipe.Recipe, int, error) {
	db := dbFrom(ctx, r.db)

	var total int64
	if err := db.Model(&RecipeModel{}).Where("author_id = ?", authorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []RecipeModel
	err := db.
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	return toRecipes(models), int(total), nil
}

// syncLines reconciles stored ingredient rows with the aggregate's set.
func (r *RecipeRepository) syncLines(db *gorm.DB, rec *recipe.Recipe) error {
	var existing []RecipeIngredientModel
	if err := db.Where("recipe_id = ?", rec.ID()).Find(&existing).Error; err != nil {
		return err
	}

	keep := make(map[uuid.UUID]bool, len(rec.Ingredients()))
	for _, line := range rec.Ingredients() {
		if line.ID != uuid.Nil {
			keep[line.ID] = true
		}
	}

	stored := make(map[uuid.UUID]bool, len(existing))
	for _, row := range existing {
		stored[row.ID] = true
		if !keep[row.ID] {
			if err := db.Delete(&RecipeIngredientModel{}, "id = ?", row.ID).Error; err != nil {
				return err
			}
		}
	}

	for _, line := range rec.Ingredients() {
		model := RecipeIngredientModel{
			ID:           line.ID,
			RecipeID:     rec.ID(),
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
		}
		if stored[line.ID] {
			err := db.Model(&RecipeIngredientModel{}).
				Where("id = ?", line.ID).
				Select("ingredient_id", "quantity", "unit").
				Updates(&model).Error
			if err != nil {
				return err
			}
		} else {
			model.ID = uuid.Nil
			if err := db.Create(&model).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *RecipeRepository) replaceTags(db *gorm.DB, model *RecipeModel, tags []TagModel) error {
	return db.Model(model).Association("Tags").Replace(tags)
}

func tagModels(tags []recipe.Tag) []TagModel {
	models := make([]TagModel, len(tags))
	for i, tag := range tags {
		models[i] = TagModel{ID: tag.ID, Name: tag.Name}
	}
	return models
}

func toRecipes(models []RecipeModel) []*recipe.Recipe {
	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}
	return recipes
}
