package gorm

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/receptar/receptar/internal/domain/recipe"
	"github.com/receptar/receptar/internal/ports/outbound"
)

// LookupRepository resolves categories, tags and ingredients by name,
// creating missing rows on the fly. Concurrent importers may race on
// the same name; the unique index decides the winner and the loser
// re-fetches.
type LookupRepository struct {
	db *gorm.DB
}

// NewLookupRepository creates a new lookup repository
func NewLookupRepository(db *gorm.DB) outbound.LookupRepository {
	return &LookupRepository{db: db}
}

// GetOrCreateCategory resolves a category by name, creating it if needed
func (r *LookupRepository) GetOrCreateCategory(ctx context.Context, name string) (recipe.Category, error) {
	var model CategoryModel
	err := r.getOrCreate(ctx, name, &model, func(n string) any { return &CategoryModel{Name: n} })
	if err != nil {
		return recipe.Category{}, err
	}
	return recipe.Category{ID: model.ID, Name: model.Name}, nil
}

// GetOrCreateTag resolves a tag by name, creating it if needed
func (r *LookupRepository) GetOrCreateTag(ctx context.Context, name string) (recipe.Tag, error) {
	var model TagModel
	err := r.getOrCreate(ctx, name, &model, func(n string) any { return &TagModel{Name: n} })
	if err != nil {
		return recipe.Tag{}, err
	}
	return recipe.Tag{ID: model.ID, Name: model.Name}, nil
}

// GetOrCreateIngredient resolves an ingredient by name, creating it if needed
func (r *LookupRepository) GetOrCreateIngredient(ctx context.Context, name string) (recipe.Ingredient, error) {
	var model IngredientModel
	err := r.getOrCreate(ctx, name, &model, func(n string) any { return &IngredientModel{Name: n} })
	if err != nil {
		return recipe.Ingredient{}, err
	}
	return recipe.Ingredient{ID: model.ID, Name: model.Name}, nil
}

// getOrCreate fetches the row for name into dest, creating it when
// absent. A create losing the race to the unique index falls back to a
// second fetch.
func (r *LookupRepository) getOrCreate(ctx context.Context, name string, dest any, fresh func(string) any) error {
	db := dbFrom(ctx, r.db)
	name = recipe.NormalizeName(name)

	err := db.First(dest, "name = ?", name).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := db.Create(fresh(name)).Error; err != nil && !isDuplicate(err) {
		return err
	}
	return db.First(dest, "name = ?", name).Error
}

// ListCategories returns every category ordered by name
func (r *LookupRepository) ListCategories(ctx context.Context) ([]recipe.Category, error) {
	var models []CategoryModel
	if err := dbFrom(ctx, r.db).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	categories := make([]recipe.Category, len(models))
	for i, m := range models {
		categories[i] = recipe.Category{ID: m.ID, Name: m.Name}
	}
	return categories, nil
}

// ListTags returns every tag ordered by name
func (r *LookupRepository) ListTags(ctx context.Context) ([]recipe.Tag, error) {
	var models []TagModel
	if err := dbFrom(ctx, r.db).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	tags := make([]recipe.Tag, len(models))
	for i, m := range models {
		tags[i] = recipe.Tag{ID: m.ID, Name: m.Name}
	}
	return tags, nil
}

// isDuplicate recognizes unique-constraint violations across the
// Postgres and sqlite drivers.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
