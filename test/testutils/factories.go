// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/receptar/receptar/internal/domain/recipe"
	"github.com/receptar/receptar/internal/domain/user"
)

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	title           string
	story           string
	description     string
	instructions    string
	cookingTime     int
	cookingTimeUnit string
	authorID        uuid.UUID
	category        *recipe.Category
	tags            []recipe.Tag
	lines           []recipe.IngredientLine
}

// NewRecipeBuilder creates a new recipe builder with default values
func NewRecipeBuilder() *RecipeBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &RecipeBuilder{
		title:           faker.Dinner(),
		story:           faker.Sentence(8),
		description:     faker.Paragraph(1, 3, 6, " "),
		instructions:    faker.Paragraph(2, 4, 8, " "),
		cookingTime:     faker.Number(10, 120),
		cookingTimeUnit: recipe.TimeUnitMinutes,
		authorID:        uuid.New(),
	}
}

// WithTitle sets the recipe title
func (rb *RecipeBuilder) WithTitle(title string) *RecipeBuilder {
	rb.title = title
	return rb
}

// WithAuthor sets the recipe author
func (rb *RecipeBuilder) WithAuthor(authorID uuid.UUID) *RecipeBuilder {
	rb.authorID = authorID
	return rb
}

// WithCookingTime sets the cooking time and unit
func (rb *RecipeBuilder) WithCookingTime(amount int, unit string) *RecipeBuilder {
	rb.cookingTime = amount
	rb.cookingTimeUnit = unit
	return rb
}

// WithCategory sets the recipe category
func (rb *RecipeBuilder) WithCategory(name string) *RecipeBuilder {
	rb.category = &recipe.Category{ID: uuid.New(), Name: name}
	return rb
}

// WithTags sets the recipe tags
func (rb *RecipeBuilder) WithTags(names ...string) *RecipeBuilder {
	rb.tags = nil
	for _, name := range names {
		rb.tags = append(rb.tags, recipe.Tag{ID: uuid.New(), Name: name})
	}
	return rb
}

// WithIngredient appends one ingredient line
func (rb *RecipeBuilder) WithIngredient(name, quantity, unit string) *RecipeBuilder {
	q, err := decimal.NewFromString(quantity)
	if err != nil {
		q = decimal.Zero
	}
	rb.lines = append(rb.lines, recipe.IngredientLine{
		ID:             uuid.New(),
		IngredientID:   uuid.New(),
		IngredientName: name,
		Quantity:       q,
		Unit:           unit,
	})
	return rb
}

// Build constructs the recipe aggregate
func (rb *RecipeBuilder) Build() (*recipe.Recipe, error) {
	r, err := recipe.NewRecipe(rb.title, rb.authorID)
	if err != nil {
		return nil, err
	}
	if err := r.UpdateDetails(rb.title, rb.story, rb.description, rb.instructions, rb.cookingTime, rb.cookingTimeUnit); err != nil {
		return nil, err
	}
	r.SetCategory(rb.category)
	r.SetTags(rb.tags)
	if len(rb.lines) > 0 {
		if err := r.SetIngredients(rb.lines); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustBuild constructs the recipe and panics on invalid inputs
func (rb *RecipeBuilder) MustBuild() *recipe.Recipe {
	r, err := rb.Build()
	if err != nil {
		panic(fmt.Sprintf("testutils: invalid recipe: %v", err))
	}
	return r
}

// UserBuilder provides a fluent interface for building test users
type UserBuilder struct {
	username string
	email    string
	password string
}

// NewUserBuilder creates a new user builder with default values
func NewUserBuilder() *UserBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &UserBuilder{
		username: fmt.Sprintf("%s%d", faker.Username(), faker.Number(1, 999)),
		email:    faker.Email(),
		password: "correct-horse-battery",
	}
}

// WithUsername sets the username
func (ub *UserBuilder) WithUsername(username string) *UserBuilder {
	ub.username = username
	return ub
}

// WithEmail sets the email
func (ub *UserBuilder) WithEmail(email string) *UserBuilder {
	ub.email = email
	return ub
}

// WithPassword sets the password
func (ub *UserBuilder) WithPassword(password string) *UserBuilder {
	ub.password = password
	return ub
}

// Build constructs the user aggregate
func (ub *UserBuilder) Build() (*user.User, error) {
	return user.NewUser(ub.username, ub.email, ub.password)
}

// MustBuild constructs the user and panics on invalid inputs
func (ub *UserBuilder) MustBuild() *user.User {
	u, err := ub.Build()
	if err != nil {
		panic(fmt.Sprintf("testutils: invalid user: %v", err))
	}
	return u
}

// Submission builds an ingredient line submission the way API payloads
// and import documents carry them.
func Submission(name, quantity, unit string) recipe.IngredientLineSubmission {
	var q *string
	if quantity != "" {
		q = &quantity
	}
	return recipe.IngredientLineSubmission{
		Ingredient: name,
		Quantity:   q,
		Unit:       unit,
	}
}
