package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/receptar/receptar/internal/domain/recipe"
	"github.com/receptar/receptar/internal/ports/inbound"
	"github.com/receptar/receptar/internal/ports/outbound"
	"github.com/receptar/receptar/pkg/errors"
)

// Service reconciles normalized recipe documents against the store. Each
// item is processed in its own transaction: a failing item rolls back
// completely and the batch moves on. Only a malformed top-level document
// or an unknown author aborts the whole batch.
type Service struct {
	translator Translator
	recipes    outbound.RecipeRepository
	users      outbound.UserRepository
	lookups    outbound.LookupRepository
	tx         outbound.TxManager
	logger     *zap.Logger
}

// NewService creates a new import service
func NewService(
	translator Translator,
	recipes outbound.RecipeRepository,
	users outbound.UserRepository,
	lookups outbound.LookupRepository,
	tx outbound.TxManager,
	logger *zap.Logger,
) inbound.ImportService {
	return &Service{
		translator: translator,
		recipes:    recipes,
		users:      users,
		lookups:    lookups,
		tx:         tx,
		logger:     logger.Named("importer"),
	}
}

// ImportBatch normalizes every item of the document and reconciles each
// against the store, attributing new recipes to the named author.
func (s *Service) ImportBatch(ctx context.Context, document any, username string, update bool) (*inbound.ImportResult, error) {
	rawItems, err := extractItems(document)
	if err != nil {
		return nil, err
	}

	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.NewDatabaseError("look up author", err)
	}
	if author == nil {
		return nil, errors.NewUserNotFoundError(username)
	}

	result := &inbound.ImportResult{}
	for i, raw := range rawItems {
		item, ok := raw.(map[string]any)
		if !ok {
			s.skip(result, i, "item is not an object")
			continue
		}
		norm := s.translator.NormalizeItem(item)

		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			return s.reconcileItem(ctx, norm, author.ID(), update, result)
		})
		if err != nil {
			s.skip(result, i, err.Error())
		}
	}

	s.logger.Info("import batch finished",
		zap.String("author", username),
		zap.Bool("update", update),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// extractItems accepts a bare array, or an object holding the array under
// the canonical "recipes" key or its localized spelling "receptek".
func extractItems(document any) ([]any, error) {
	switch doc := document.(type) {
	case []any:
		return doc, nil
	case map[string]any:
		if items, ok := doc["recipes"].([]any); ok {
			return items, nil
		}
		if items, ok := doc["receptek"].([]any); ok {
			return items, nil
		}
		return nil, errors.NewFormatError(`document must be a list or an object with "recipes" or "receptek"`)
	default:
		return nil, errors.NewFormatError("unsupported top-level document shape")
	}
}

// reconcileItem applies one normalized item inside a transaction.
func (s *Service) reconcileItem(ctx context.Context, item map[string]any, authorID uuid.UUID, update bool, result *inbound.ImportResult) error {
	title := strings.TrimSpace(stringify(item["title"]))
	if title == "" {
		return errors.NewMissingTitleError()
	}

	existing, err := s.recipes.FindByTitle(ctx, title)
	if err != nil {
		return err
	}

	var category *recipe.Category
	if name := strings.TrimSpace(stringify(item["category"])); name != "" {
		cat, err := s.lookups.GetOrCreateCategory(ctx, name)
		if err != nil {
			return err
		}
		category = &cat
	}

	tags, err := s.resolveTags(ctx, item["tags"])
	if err != nil {
		return err
	}

	lines, err := s.resolveLines(ctx, item["ingredients"])
	if err != nil {
		return err
	}

	story := stringify(item["story"])
	description := stringify(item["description"])
	instructions := stringify(item["instructions"])
	cookingTime := asInt(item["cooking_time"])
	cookingTimeUnit := stringify(item["cooking_time_unit"])
	if cookingTimeUnit == "" {
		cookingTimeUnit = recipe.TimeUnitMinutes
	}

	if existing == nil {
		rec, err := recipe.NewRecipe(title, authorID)
		if err != nil {
			return err
		}
		if err := rec.UpdateDetails(title, story, description, instructions, cookingTime, cookingTimeUnit); err != nil {
			return err
		}
		rec.SetCategory(category)
		rec.SetTags(tags)
		if err := rec.SetIngredients(lines); err != nil {
			return err
		}
		if err := s.recipes.Create(ctx, rec); err != nil {
			return err
		}
		result.Created++
		return nil
	}

	if update {
		if err := existing.UpdateDetails(title, story, description, instructions, cookingTime, cookingTimeUnit); err != nil {
			return err
		}
		// update mode overwrites ownership along with the other fields
		if err := existing.ReassignAuthor(authorID); err != nil {
			return err
		}
		existing.SetCategory(category)
		if err := s.recipes.Update(ctx, existing); err != nil {
			return err
		}
		// Full replace of the ingredient-line set, not a merge.
		if err := s.recipes.ReplaceIngredients(ctx, existing.ID(), lines); err != nil {
			return err
		}
		// In update mode the tag set is always replaced, including to empty.
		if err := s.recipes.SetTags(ctx, existing.ID(), tagIDs(tags)); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	// Create-only mode leaves the existing recipe's fields and lines
	// alone; the tag set is replaced only when the item supplies one.
	if len(tags) > 0 {
		if err := s.recipes.SetTags(ctx, existing.ID(), tagIDs(tags)); err != nil {
			return err
		}
	}
	return nil
}

// resolveTags turns the raw tag list into tag entities, creating unknown
// names on the fly.
func (s *Service) resolveTags(ctx context.Context, raw any) ([]recipe.Tag, error) {
	names, _ := raw.([]any)
	tags := make([]recipe.Tag, 0, len(names))
	for _, n := range names {
		name := strings.TrimSpace(stringify(n))
		if name == "" {
			continue
		}
		tag, err := s.lookups.GetOrCreateTag(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// resolveLines turns normalized ingredient entries into ingredient lines.
// Entries without an ingredient name are skipped; a quantity that fails
// to parse becomes zero rather than failing the item.
func (s *Service) resolveLines(ctx context.Context, raw any) ([]recipe.IngredientLine, error) {
	entries, ok := raw.([]map[string]any)
	if !ok {
		return nil, nil
	}
	lines := make([]recipe.IngredientLine, 0, len(entries))
	for _, entry := range entries {
		name := strings.TrimSpace(stringify(entry["ingredient"]))
		if name == "" {
			name = strings.TrimSpace(stringify(entry["name"]))
		}
		if name == "" {
			continue
		}
		ingredient, err := s.lookups.GetOrCreateIngredient(ctx, name)
		if err != nil {
			return nil, err
		}

		qty, err := decimal.NewFromString(quantityString(entry["quantity"]))
		if err != nil || qty.IsNegative() {
			qty = decimal.Zero
		}

		lines = append(lines, recipe.IngredientLine{
			IngredientID:   ingredient.ID,
			IngredientName: ingredient.Name,
			Quantity:       qty,
			Unit:           strings.TrimSpace(stringify(entry["unit"])),
		})
	}
	return lines, nil
}

func (s *Service) skip(result *inbound.ImportResult, index int, reason string) {
	diag := fmt.Sprintf("item %d: %s", index, reason)
	result.Skipped = append(result.Skipped, diag)
	s.logger.Warn("skipping import item", zap.Int("index", index), zap.String("reason", reason))
}

func tagIDs(tags []recipe.Tag) []uuid.UUID {
	ids := make([]uuid.UUID, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}

// quantityString renders a raw quantity for decimal parsing, defaulting
// an absent value to "0".
func quantityString(v any) string {
	if v == nil {
		return "0"
	}
	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return "0"
	}
	return s
}

// asInt coerces a decoded JSON value to a non-negative int, with 0 for
// anything unparseable.
func asInt(v any) int {
	var n int
	switch t := v.(type) {
	case float64:
		n = int(t)
	case int:
		n = t
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}
