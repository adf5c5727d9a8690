package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/receptar/receptar/internal/ports/inbound"
	"github.com/receptar/receptar/pkg/errors"
	"github.com/receptar/receptar/test/testutils"
)

type importFixture struct {
	service  inbound.ImportService
	recipes  *testutils.FakeRecipeRepository
	users    *testutils.FakeUserRepository
	lookups  *testutils.FakeLookupRepository
	username string
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()

	recipes := testutils.NewFakeRecipeRepository()
	users := testutils.NewFakeUserRepository()
	lookups := testutils.NewFakeLookupRepository()

	author := testutils.NewUserBuilder().WithUsername("mari").MustBuild()
	require.NoError(t, users.Create(context.Background(), author))

	return &importFixture{
		service:  NewService(DefaultTranslator(), recipes, users, lookups, testutils.FakeTxManager{}, zap.NewNop()),
		recipes:  recipes,
		users:    users,
		lookups:  lookups,
		username: "mari",
	}
}

func pancakeItem() map[string]any {
	return map[string]any{
		"cím":                    "Palacsinta",
		"leírás":                 "Vékony palacsinta.",
		"elkészítési_idő":        float64(30),
		"elkészítési_idő_egység": "perc",
		"kategória":              "Desszert",
		"címkék":                 []any{"édes"},
		"hozzávalók": []any{
			map[string]any{"összetevő": "liszt", "mennyiség": "250", "egység": "g"},
			map[string]any{"összetevő": "tej", "mennyiség": "5", "egység": "dl"},
		},
	}
}

func TestImportBatch_CreatesRecipe(t *testing.T) {
	f := newImportFixture(t)

	result, err := f.service.ImportBatch(context.Background(), []any{pancakeItem()}, f.username, false)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Empty(t, result.Skipped)

	rec, err := f.recipes.FindByTitle(context.Background(), "Palacsinta")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 30, rec.CookingTime())
	assert.Equal(t, "min", rec.CookingTimeUnit())
	require.NotNil(t, rec.Category())
	assert.Equal(t, "Desszert", rec.Category().Name)
	require.Len(t, rec.Ingredients(), 2)
	assert.Equal(t, "liszt", rec.Ingredients()[0].IngredientName)
	assert.Equal(t, "250", rec.Ingredients()[0].Quantity.String())
}

func TestImportBatch_DocumentShapes(t *testing.T) {
	shapes := map[string]any{
		"bare array":        []any{pancakeItem()},
		"recipes envelope":  map[string]any{"recipes": []any{pancakeItem()}},
		"receptek envelope": map[string]any{"receptek": []any{pancakeItem()}},
	}

	for name, document := range shapes {
		t.Run(name, func(t *testing.T) {
			f := newImportFixture(t)

			result, err := f.service.ImportBatch(context.Background(), document, f.username, false)

			require.NoError(t, err)
			assert.Equal(t, 1, result.Created)
		})
	}
}

func TestImportBatch_MalformedDocument(t *testing.T) {
	f := newImportFixture(t)

	cases := map[string]any{
		"object without recipes": map[string]any{"foo": "bar"},
		"scalar":                 "just a string",
		"number":                 float64(42),
	}

	for name, document := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.ImportBatch(context.Background(), document, f.username, false)

			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.CodeFormatError))
		})
	}
}

func TestImportBatch_UnknownAuthor(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.service.ImportBatch(context.Background(), []any{pancakeItem()}, "nobody", false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeUserNotFound))
}

func TestImportBatch_MissingTitleSkipsItem(t *testing.T) {
	f := newImportFixture(t)

	document := []any{
		map[string]any{"leírás": "no title here"},
		pancakeItem(),
	}

	result, err := f.service.ImportBatch(context.Background(), document, f.username, false)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0], "item 0")
}

func TestImportBatch_NonObjectItemSkipped(t *testing.T) {
	f := newImportFixture(t)

	document := []any{"not an object", pancakeItem()}

	result, err := f.service.ImportBatch(context.Background(), document, f.username, false)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Len(t, result.Skipped, 1)
}

func TestImportBatch_CreateOnlyIsIdempotent(t *testing.T) {
	f := newImportFixture(t)

	document := []any{pancakeItem()}

	first, err := f.service.ImportBatch(context.Background(), document, f.username, false)
	require.NoError(t, err)
	require.Equal(t, 1, first.Created)

	second, err := f.service.ImportBatch(context.Background(), document, f.username, false)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 1, f.recipes.Count())

	// the existing recipe's lines are untouched
	rec, err := f.recipes.FindByTitle(context.Background(), "Palacsinta")
	require.NoError(t, err)
	assert.Len(t, rec.Ingredients(), 2)
}

func TestImportBatch_UpdateModeReplacesLines(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.service.ImportBatch(context.Background(), []any{pancakeItem()}, f.username, false)
	require.NoError(t, err)

	changed := pancakeItem()
	changed["hozzávalók"] = []any{
		map[string]any{"összetevő": "tojás", "mennyiség": "3", "egység": "db"},
	}
	changed["leírás"] = "Másik leírás."

	result, err := f.service.ImportBatch(context.Background(), []any{changed}, f.username, true)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Created)

	rec, err := f.recipes.FindByTitle(context.Background(), "Palacsinta")
	require.NoError(t, err)
	assert.Equal(t, "Másik leírás.", rec.Description())
	require.Len(t, rec.Ingredients(), 1)
	assert.Equal(t, "tojás", rec.Ingredients()[0].IngredientName)
}

func TestImportBatch_UpdateModeClearsTags(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.service.ImportBatch(context.Background(), []any{pancakeItem()}, f.username, false)
	require.NoError(t, err)

	noTags := pancakeItem()
	delete(noTags, "címkék")

	_, err = f.service.ImportBatch(context.Background(), []any{noTags}, f.username, true)
	require.NoError(t, err)

	rec, err := f.recipes.FindByTitle(context.Background(), "Palacsinta")
	require.NoError(t, err)
	assert.Empty(t, rec.Tags())
}

func TestImportBatch_UpdateModeReassignsAuthor(t *testing.T) {
	f := newImportFixture(t)

	bela := testutils.NewUserBuilder().WithUsername("bela").MustBuild()
	require.NoError(t, f.users.Create(context.Background(), bela))

	_, err := f.service.ImportBatch(context.Background(), []any{pancakeItem()}, f.username, false)
	require.NoError(t, err)

	result, err := f.service.ImportBatch(context.Background(), []any{pancakeItem()}, "bela", true)
	require.NoError(t, err)
	require.Equal(t, 1, result.Updated)

	rec, err := f.recipes.FindByTitle(context.Background(), "Palacsinta")
	require.NoError(t, err)
	assert.Equal(t, bela.ID(), rec.AuthorID())
	assert.True(t, rec.IsAuthoredBy(bela.ID()))
}

func TestImportBatch_CreateOnlyKeepsAuthor(t *testing.T) {
	f := newImportFixture(t)

	bela := testutils.NewUserBuilder().WithUsername("bela").MustBuild()
	require.NoError(t, f.users.Create(context.Background(), bela))

	_, err := f.service.ImportBatch(context.Background(), []any{pancakeItem()}, f.username, false)
	require.NoError(t, err)

	mari, err := f.users.FindByUsername(context.Background(), f.username)
	require.NoError(t, err)

	_, err = f.service.ImportBatch(context.Background(), []any{pancakeItem()}, "bela", false)
	require.NoError(t, err)

	rec, err := f.recipes.FindByTitle(context.Background(), "Palacsinta")
	require.NoError(t, err)
	assert.Equal(t, mari.ID(), rec.AuthorID())
}

func TestImportBatch_UnparseableQuantityBecomesZero(t *testing.T) {
	f := newImportFixture(t)

	item := map[string]any{
		"cím": "Palacsinta",
		"hozzávalók": []any{
			map[string]any{"összetevő": "liszt", "mennyiség": "egy csipet", "egység": "g"},
		},
	}

	result, err := f.service.ImportBatch(context.Background(), []any{item}, f.username, false)

	require.NoError(t, err)
	require.Equal(t, 1, result.Created)

	rec, err := f.recipes.FindByTitle(context.Background(), "Palacsinta")
	require.NoError(t, err)
	require.Len(t, rec.Ingredients(), 1)
	assert.True(t, rec.Ingredients()[0].Quantity.IsZero())
}

func TestImportBatch_NegativeQuantityBecomesZero(t *testing.T) {
	f := newImportFixture(t)

	item := map[string]any{
		"cím": "Palacsinta",
		"hozzávalók": []any{
			map[string]any{"összetevő": "liszt", "mennyiség": "-250", "egység": "g"},
		},
	}

	result, err := f.service.ImportBatch(context.Background(), []any{item}, f.username, false)

	require.NoError(t, err)
	require.Equal(t, 1, result.Created)
	assert.Empty(t, result.Skipped)

	rec, err := f.recipes.FindByTitle(context.Background(), "Palacsinta")
	require.NoError(t, err)
	require.Len(t, rec.Ingredients(), 1)
	assert.True(t, rec.Ingredients()[0].Quantity.IsZero())
}

func TestImportBatch_UnnamedIngredientSkipped(t *testing.T) {
	f := newImportFixture(t)

	item := map[string]any{
		"cím": "Palacsinta",
		"hozzávalók": []any{
			map[string]any{"mennyiség": "250", "egység": "g"},
			map[string]any{"összetevő": "liszt", "mennyiség": "250"},
		},
	}

	_, err := f.service.ImportBatch(context.Background(), []any{item}, f.username, false)
	require.NoError(t, err)

	rec, err := f.recipes.FindByTitle(context.Background(), "Palacsinta")
	require.NoError(t, err)
	assert.Len(t, rec.Ingredients(), 1)
}

func TestImportBatch_SharedIngredientsNotDuplicated(t *testing.T) {
	f := newImportFixture(t)

	first := pancakeItem()
	second := pancakeItem()
	second["cím"] = "Galuska"

	_, err := f.service.ImportBatch(context.Background(), []any{first, second}, f.username, false)
	require.NoError(t, err)

	// liszt and tej appear in both recipes but exist once each
	assert.Equal(t, 2, f.lookups.IngredientCount())
}
