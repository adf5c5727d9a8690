package recipe

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RecipeTestSuite provides a test suite for the Recipe aggregate
type RecipeTestSuite struct {
	suite.Suite
}

func TestRecipeSuite(t *testing.T) {
	suite.Run(t, new(RecipeTestSuite))
}

func (s *RecipeTestSuite) TestCreation() {
	s.Run("ValidRecipe_ShouldCreateSuccessfully", func() {
		authorID := uuid.New()

		r, err := NewRecipe("Palacsinta", authorID)

		require.NoError(s.T(), err)
		require.NotNil(s.T(), r)

		assert.Equal(s.T(), "Palacsinta", r.Title())
		assert.NotEqual(s.T(), uuid.Nil, r.ID())
		assert.Equal(s.T(), authorID, r.AuthorID())
		assert.Equal(s.T(), TimeUnitMinutes, r.CookingTimeUnit())
		assert.NotZero(s.T(), r.CreatedAt())

		events := r.Events()
		require.Len(s.T(), events, 1)
		created, ok := events[0].(RecipeCreatedEvent)
		require.True(s.T(), ok)
		assert.Equal(s.T(), r.ID(), created.RecipeID)
		assert.Equal(s.T(), authorID, created.AuthorID)
	})

	s.Run("EmptyTitle_ShouldReturnError", func() {
		r, err := NewRecipe("   ", uuid.New())

		assert.Nil(s.T(), r)
		assert.ErrorIs(s.T(), err, ErrEmptyTitle)
	})

	s.Run("TitleTooLong_ShouldReturnError", func() {
		r, err := NewRecipe(strings.Repeat("a", 101), uuid.New())

		assert.Nil(s.T(), r)
		assert.ErrorIs(s.T(), err, ErrTitleTooLong)
	})

	s.Run("MissingAuthor_ShouldReturnError", func() {
		r, err := NewRecipe("Palacsinta", uuid.Nil)

		assert.Nil(s.T(), r)
		assert.ErrorIs(s.T(), err, ErrNoAuthor)
	})

	s.Run("TitleIsTrimmed", func() {
		r, err := NewRecipe("  Palacsinta  ", uuid.New())

		require.NoError(s.T(), err)
		assert.Equal(s.T(), "Palacsinta", r.Title())
	})
}

func (s *RecipeTestSuite) TestUpdateDetails() {
	s.Run("ValidUpdate_ShouldApplyFields", func() {
		r := s.newRecipe()

		err := r.UpdateDetails("Rántotta", "a story", "desc", "whisk and fry", 10, TimeUnitMinutes)

		require.NoError(s.T(), err)
		assert.Equal(s.T(), "Rántotta", r.Title())
		assert.Equal(s.T(), "a story", r.Story())
		assert.Equal(s.T(), 10, r.CookingTime())
	})

	s.Run("NegativeCookingTime_ShouldReturnError", func() {
		r := s.newRecipe()

		err := r.UpdateDetails("Rántotta", "", "", "", -1, TimeUnitMinutes)

		assert.ErrorIs(s.T(), err, ErrNegativeCookingTime)
	})

	s.Run("EmptyUnit_DefaultsToMinutes", func() {
		r := s.newRecipe()

		err := r.UpdateDetails("Rántotta", "", "", "", 10, "")

		require.NoError(s.T(), err)
		assert.Equal(s.T(), TimeUnitMinutes, r.CookingTimeUnit())
	})

	s.Run("EmitsUpdatedEvent", func() {
		r := s.newRecipe()
		r.Events() // drain the creation event

		require.NoError(s.T(), r.UpdateDetails("Rántotta", "", "", "", 5, TimeUnitMinutes))

		events := r.Events()
		require.Len(s.T(), events, 1)
		_, ok := events[0].(RecipeUpdatedEvent)
		assert.True(s.T(), ok)
	})
}

func (s *RecipeTestSuite) TestSetIngredients() {
	s.Run("ValidLines_ShouldReplace", func() {
		r := s.newRecipe()

		err := r.SetIngredients([]IngredientLine{
			{IngredientID: uuid.New(), IngredientName: "liszt", Quantity: decimal.NewFromInt(250), Unit: "g"},
			{IngredientID: uuid.New(), IngredientName: "tej", Quantity: decimal.NewFromInt(5), Unit: "dl"},
		})

		require.NoError(s.T(), err)
		assert.Len(s.T(), r.Ingredients(), 2)
	})

	s.Run("LineWithoutIngredient_ShouldReturnError", func() {
		r := s.newRecipe()

		err := r.SetIngredients([]IngredientLine{
			{Quantity: decimal.NewFromInt(1)},
		})

		assert.ErrorIs(s.T(), err, ErrLineWithoutIngredient)
	})

	s.Run("NegativeQuantity_ShouldReturnError", func() {
		r := s.newRecipe()

		err := r.SetIngredients([]IngredientLine{
			{IngredientID: uuid.New(), Quantity: decimal.NewFromInt(-1)},
		})

		assert.ErrorIs(s.T(), err, ErrNegativeQuantity)
	})

	s.Run("ZeroQuantity_IsAllowed", func() {
		r := s.newRecipe()

		err := r.SetIngredients([]IngredientLine{
			{IngredientID: uuid.New(), IngredientName: "só", Quantity: decimal.Zero},
		})

		assert.NoError(s.T(), err)
	})
}

func (s *RecipeTestSuite) TestAuthorship() {
	authorID := uuid.New()
	r, err := NewRecipe("Palacsinta", authorID)
	require.NoError(s.T(), err)

	assert.True(s.T(), r.IsAuthoredBy(authorID))
	assert.False(s.T(), r.IsAuthoredBy(uuid.New()))
}

func (s *RecipeTestSuite) TestReassignAuthor() {
	s.Run("NewAuthor_ShouldTransferOwnership", func() {
		r := s.newRecipe()
		newAuthor := uuid.New()

		require.NoError(s.T(), r.ReassignAuthor(newAuthor))

		assert.Equal(s.T(), newAuthor, r.AuthorID())
		assert.True(s.T(), r.IsAuthoredBy(newAuthor))
		assert.Empty(s.T(), r.AuthorUsername())
	})

	s.Run("MissingAuthor_ShouldReturnError", func() {
		r := s.newRecipe()
		before := r.AuthorID()

		err := r.ReassignAuthor(uuid.Nil)

		assert.ErrorIs(s.T(), err, ErrNoAuthor)
		assert.Equal(s.T(), before, r.AuthorID())
	})

	s.Run("SameAuthor_IsANoOp", func() {
		r := s.newRecipe()

		assert.NoError(s.T(), r.ReassignAuthor(r.AuthorID()))
	})
}

func (s *RecipeTestSuite) newRecipe() *Recipe {
	r, err := NewRecipe("Palacsinta", uuid.New())
	require.NoError(s.T(), err)
	return r
}
