// Package gorm provides GORM model definitions and repository
// implementations for the application
package gorm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Username     string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Bio          string    `gorm:"type:text"`
	IsActive     bool      `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time

	// Relationships
	Recipes []RecipeModel `gorm:"foreignKey:AuthorID"`
}

// CategoryModel represents the GORM model for recipe categories
type CategoryModel struct {
	ID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name string    `gorm:"type:varchar(50);uniqueIndex;not null"`
}

// TagModel represents the GORM model for recipe tags
type TagModel struct {
	ID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name string    `gorm:"type:varchar(30);uniqueIndex;not null"`
}

// IngredientModel represents the GORM model for shared ingredients
type IngredientModel struct {
	ID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name string    `gorm:"type:varchar(100);uniqueIndex;not null"`
}

// RecipeModel represents the GORM model for recipes. The title carries a
// unique index: it is the business key the importer reconciles against.
type RecipeModel struct {
	ID              uuid.UUID `gorm:"type:char(36);primaryKey"`
	Title           string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Story           string    `gorm:"type:text"`
	Description     string    `gorm:"type:text"`
	Instructions    string    `gorm:"type:text"`
	CookingTime     int       `gorm:"default:0"`
	CookingTimeUnit string    `gorm:"type:varchar(10);default:'min'"`
	AuthorID        uuid.UUID `gorm:"type:char(36);not null;index"`
	CategoryID      *uuid.UUID `gorm:"type:char(36);index"`
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time

	// Relationships. Lines are owned by the recipe and go with it; the
	// category reference is cleared when the category disappears.
	Author      UserModel                `gorm:"foreignKey:AuthorID"`
	Category    *CategoryModel           `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Tags        []TagModel               `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredientModel  `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// RecipeIngredientModel represents one ingredient line of a recipe.
// The ingredient edge is RESTRICT: an ingredient still referenced by any
// line cannot be deleted, so removing a shared ingredient can never
// silently empty unrelated recipes.
type RecipeIngredientModel struct {
	ID           uuid.UUID       `gorm:"type:char(36);primaryKey"`
	RecipeID     uuid.UUID       `gorm:"type:char(36);not null;index"`
	IngredientID uuid.UUID       `gorm:"type:char(36);not null;index"`
	Quantity     decimal.Decimal `gorm:"type:decimal(7,2);not null"`
	Unit         string          `gorm:"type:varchar(20)"`

	// Relationships
	Ingredient IngredientModel `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT"`
}

// BeforeCreate hook for UserModel
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for CategoryModel
func (c *CategoryModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for TagModel
func (t *TagModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for IngredientModel
func (i *IngredientModel) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for RecipeIngredientModel
func (r *RecipeIngredientModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (UserModel) TableName() string {
	return "users"
}

func (CategoryModel) TableName() string {
	return "categories"
}

func (TagModel) TableName() string {
	return "tags"
}

func (IngredientModel) TableName() string {
	return "ingredients"
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (RecipeIngredientModel) TableName() string {
	return "recipe_ingredients"
}

// Models returns every model for schema migration, in dependency order
func Models() []any {
	return []any{
		&UserModel{},
		&CategoryModel{},
		&TagModel{},
		&IngredientModel{},
		&RecipeModel{},
		&RecipeIngredientModel{},
	}
}
