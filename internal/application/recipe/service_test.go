package recipe

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/receptar/receptar/internal/domain/recipe"
	"github.com/receptar/receptar/internal/domain/user"
	"github.com/receptar/receptar/internal/ports/inbound"
	"github.com/receptar/receptar/pkg/errors"
	"github.com/receptar/receptar/test/testutils"
)

type serviceFixture struct {
	service inbound.RecipeService
	recipes *testutils.FakeRecipeRepository
	users   *testutils.FakeUserRepository
	lookups *testutils.FakeLookupRepository
	cache   *testutils.FakeCacheRepository
	author  *user.User
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	recipes := testutils.NewFakeRecipeRepository()
	users := testutils.NewFakeUserRepository()
	lookups := testutils.NewFakeLookupRepository()
	cache := testutils.NewFakeCacheRepository()

	author := testutils.NewUserBuilder().WithUsername("mari").MustBuild()
	require.NoError(t, users.Create(context.Background(), author))

	return &serviceFixture{
		service: NewService(recipes, users, lookups, cache, testutils.FakeTxManager{}, zap.NewNop()),
		recipes: recipes,
		users:   users,
		lookups: lookups,
		cache:   cache,
		author:  author,
	}
}

func (f *serviceFixture) createCommand() inbound.CreateRecipeCommand {
	return inbound.CreateRecipeCommand{
		AuthorID:        f.author.ID(),
		Title:           "Palacsinta",
		Description:     "Vékony palacsinta.",
		Instructions:    "Keverd össze, süsd ki.",
		CookingTime:     30,
		CookingTimeUnit: recipe.TimeUnitMinutes,
		Category:        "Desszert",
		Tags:            []string{"édes"},
		Ingredients: []recipe.IngredientLineSubmission{
			testutils.Submission("liszt", "250", "g"),
			testutils.Submission("tej", "5", "dl"),
		},
	}
}

func TestCreateRecipe(t *testing.T) {
	f := newServiceFixture(t)

	dto, err := f.service.CreateRecipe(context.Background(), f.createCommand())

	require.NoError(t, err)
	assert.Equal(t, "Palacsinta", dto.Title)
	assert.Equal(t, "mari", dto.Author)
	assert.Equal(t, "Desszert", dto.Category)
	assert.Equal(t, []string{"édes"}, dto.Tags)
	require.Len(t, dto.Ingredients, 2)
	assert.Equal(t, "liszt", dto.Ingredients[0].Ingredient)
	assert.Equal(t, "250", dto.Ingredients[0].Quantity)
	assert.Equal(t, 1, f.recipes.Count())
}

func TestCreateRecipe_RequiresAnIngredient(t *testing.T) {
	f := newServiceFixture(t)

	cases := map[string][]recipe.IngredientLineSubmission{
		"no lines at all": nil,
		"only blank rows": {
			testutils.Submission("", "", ""),
			testutils.Submission("", "", ""),
		},
		"name without quantity": {
			testutils.Submission("liszt", "", "g"),
		},
		"quantity without name": {
			testutils.Submission("", "250", "g"),
		},
		"all rows marked deleted": {
			{Ingredient: "liszt", Quantity: strPtr("250"), Unit: "g", Delete: true},
		},
	}

	for name, lines := range cases {
		t.Run(name, func(t *testing.T) {
			cmd := f.createCommand()
			cmd.Ingredients = lines

			_, err := f.service.CreateRecipe(context.Background(), cmd)

			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.CodeValidationFailed))
			assert.Contains(t, err.Error(), "Add at least one ingredient.")
			// the rule gates before anything is persisted
			assert.Equal(t, 0, f.recipes.Count())
		})
	}
}

func TestCreateRecipe_UnknownAuthor(t *testing.T) {
	f := newServiceFixture(t)

	cmd := f.createCommand()
	cmd.AuthorID = uuid.New()

	_, err := f.service.CreateRecipe(context.Background(), cmd)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeUserNotFound))
}

func TestCreateRecipe_InvalidQuantity(t *testing.T) {
	f := newServiceFixture(t)

	cmd := f.createCommand()
	cmd.Ingredients = []recipe.IngredientLineSubmission{
		testutils.Submission("liszt", "sok", "g"),
	}

	_, err := f.service.CreateRecipe(context.Background(), cmd)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeValidationFailed))
}

func TestCreateRecipe_NegativeQuantity(t *testing.T) {
	f := newServiceFixture(t)

	cmd := f.createCommand()
	cmd.Ingredients = []recipe.IngredientLineSubmission{
		testutils.Submission("liszt", "-1", "g"),
	}

	_, err := f.service.CreateRecipe(context.Background(), cmd)

	require.Error(t, err)
	// bad input is the client's fault, not a server fault
	assert.True(t, errors.Is(err, errors.CodeValidationFailed))
	assert.Equal(t, 0, f.recipes.Count())
}

func TestUpdateRecipe_PreservesLineIdentity(t *testing.T) {
	f := newServiceFixture(t)

	created, err := f.service.CreateRecipe(context.Background(), f.createCommand())
	require.NoError(t, err)
	require.Len(t, created.Ingredients, 2)
	keptID := created.Ingredients[0].ID

	qty := "300"
	updated, err := f.service.UpdateRecipe(context.Background(), inbound.UpdateRecipeCommand{
		RecipeID:        created.ID,
		UserID:          f.author.ID(),
		Title:           created.Title,
		Description:     created.Description,
		Instructions:    created.Instructions,
		CookingTime:     created.CookingTime,
		CookingTimeUnit: created.CookingTimeUnit,
		Category:        created.Category,
		Tags:            created.Tags,
		Ingredients: []recipe.IngredientLineSubmission{
			{ID: &keptID, Ingredient: "liszt", Quantity: &qty, Unit: "g"},
		},
	})

	require.NoError(t, err)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, keptID, updated.Ingredients[0].ID)
	assert.Equal(t, "300", updated.Ingredients[0].Quantity)
}

func TestUpdateRecipe_DeletingEveryLineFails(t *testing.T) {
	f := newServiceFixture(t)

	created, err := f.service.CreateRecipe(context.Background(), f.createCommand())
	require.NoError(t, err)

	subs := make([]recipe.IngredientLineSubmission, len(created.Ingredients))
	for i, line := range created.Ingredients {
		id := line.ID
		qty := line.Quantity
		subs[i] = recipe.IngredientLineSubmission{
			ID:         &id,
			Ingredient: line.Ingredient,
			Quantity:   &qty,
			Unit:       line.Unit,
			Delete:     true,
		}
	}

	_, err = f.service.UpdateRecipe(context.Background(), inbound.UpdateRecipeCommand{
		RecipeID:    created.ID,
		UserID:      f.author.ID(),
		Title:       created.Title,
		Ingredients: subs,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeValidationFailed))
	assert.Contains(t, err.Error(), "Add at least one ingredient.")
}

func TestUpdateRecipe_OnlyAuthorMayEdit(t *testing.T) {
	f := newServiceFixture(t)

	created, err := f.service.CreateRecipe(context.Background(), f.createCommand())
	require.NoError(t, err)

	intruder := testutils.NewUserBuilder().WithUsername("gabor").MustBuild()
	require.NoError(t, f.users.Create(context.Background(), intruder))

	_, err = f.service.UpdateRecipe(context.Background(), inbound.UpdateRecipeCommand{
		RecipeID:    created.ID,
		UserID:      intruder.ID(),
		Title:       "Ellopott recept",
		Ingredients: []recipe.IngredientLineSubmission{testutils.Submission("liszt", "1", "kg")},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
}

func TestUpdateRecipe_NotFound(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.UpdateRecipe(context.Background(), inbound.UpdateRecipeCommand{
		RecipeID:    uuid.New(),
		UserID:      f.author.ID(),
		Title:       "Nincs ilyen",
		Ingredients: []recipe.IngredientLineSubmission{testutils.Submission("liszt", "1", "kg")},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeRecipeNotFound))
}

func TestDeleteRecipe(t *testing.T) {
	f := newServiceFixture(t)

	created, err := f.service.CreateRecipe(context.Background(), f.createCommand())
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteRecipe(context.Background(), created.ID, f.author.ID()))
	assert.Equal(t, 0, f.recipes.Count())
}

func TestDeleteRecipe_OnlyAuthorMayDelete(t *testing.T) {
	f := newServiceFixture(t)

	created, err := f.service.CreateRecipe(context.Background(), f.createCommand())
	require.NoError(t, err)

	err = f.service.DeleteRecipe(context.Background(), created.ID, uuid.New())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	assert.Equal(t, 1, f.recipes.Count())
}

func TestGetRecipeByID_NotFound(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.GetRecipeByID(context.Background(), uuid.New())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeRecipeNotFound))
}

func TestListRecipes_FiltersByCategory(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.CreateRecipe(context.Background(), f.createCommand())
	require.NoError(t, err)

	soup := f.createCommand()
	soup.Title = "Gulyásleves"
	soup.Category = "Leves"
	_, err = f.service.CreateRecipe(context.Background(), soup)
	require.NoError(t, err)

	list, err := f.service.ListRecipes(context.Background(), inbound.ListQuery{Category: "Leves"})

	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Recipes, 1)
	assert.Equal(t, "Gulyásleves", list.Recipes[0].Title)
}

func TestListRecipes_CachesPages(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.CreateRecipe(context.Background(), f.createCommand())
	require.NoError(t, err)

	_, err = f.service.ListRecipes(context.Background(), inbound.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.Len())

	// a second identical query is served from the cached payload
	doctored := &inbound.RecipeList{Total: 99, Page: 1, PageSize: 20}
	payload, err := json.Marshal(doctored)
	require.NoError(t, err)
	key := listCacheKey(inbound.ListQuery{})
	require.NoError(t, f.cache.Set(context.Background(), key, payload, listCacheTTL))

	list, err := f.service.ListRecipes(context.Background(), inbound.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 99, list.Total)
}

func TestListRecipes_WritesInvalidateCache(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.CreateRecipe(context.Background(), f.createCommand())
	require.NoError(t, err)

	_, err = f.service.ListRecipes(context.Background(), inbound.ListQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, f.cache.Len())

	second := f.createCommand()
	second.Title = "Galuska"
	_, err = f.service.CreateRecipe(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, 0, f.cache.Len())
}

func TestGetRecipesByAuthor(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.CreateRecipe(context.Background(), f.createCommand())
	require.NoError(t, err)

	other := testutils.NewUserBuilder().WithUsername("gabor").MustBuild()
	require.NoError(t, f.users.Create(context.Background(), other))
	otherCmd := f.createCommand()
	otherCmd.AuthorID = other.ID()
	otherCmd.Title = "Lecsó"
	_, err = f.service.CreateRecipe(context.Background(), otherCmd)
	require.NoError(t, err)

	list, err := f.service.GetRecipesByAuthor(context.Background(), "mari", inbound.PaginationParams{})

	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Recipes, 1)
	assert.Equal(t, "Palacsinta", list.Recipes[0].Title)
}

func TestGetRecipesByAuthor_UnknownUser(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.GetRecipesByAuthor(context.Background(), "nobody", inbound.PaginationParams{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeUserNotFound))
}

func strPtr(s string) *string { return &s }
