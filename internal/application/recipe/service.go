// Package recipe provides the application layer for recipe management
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/receptar/receptar/internal/domain/recipe"
	"github.com/receptar/receptar/internal/ports/inbound"
	"github.com/receptar/receptar/internal/ports/outbound"
	"github.com/receptar/receptar/pkg/errors"
)

const (
	listCachePrefix = "recipes:list:"
	listCacheTTL    = time.Minute
)

// Service implements the recipe use cases
type Service struct {
	recipes outbound.RecipeRepository
	users   outbound.UserRepository
	lookups outbound.LookupRepository
	cache   outbound.CacheRepository
	tx      outbound.TxManager
	logger  *zap.Logger
}

// NewService creates a new recipe service
func NewService(
	recipes outbound.RecipeRepository,
	users outbound.UserRepository,
	lookups outbound.LookupRepository,
	cache outbound.CacheRepository,
	tx outbound.TxManager,
	logger *zap.Logger,
) inbound.RecipeService {
	return &Service{
		recipes: recipes,
		users:   users,
		lookups: lookups,
		cache:   cache,
		tx:      tx,
		logger:  logger.Named("recipe-service"),
	}
}

// CreateRecipe creates a new recipe with its ingredient lines. The
// consistency rule runs before anything touches the store, and the
// recipe plus all child rows commit as one transaction.
func (s *Service) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	s.logger.Info("creating recipe",
		zap.String("title", cmd.Title),
		zap.String("author_id", cmd.AuthorID.String()),
	)

	if err := recipe.ValidateIngredientLines(cmd.Ingredients); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	exists, err := s.users.Exists(ctx, cmd.AuthorID)
	if err != nil {
		return nil, errors.NewDatabaseError("check user existence", err)
	}
	if !exists {
		return nil, errors.NewUserNotFoundError(cmd.AuthorID.String())
	}

	rec, err := recipe.NewRecipe(cmd.Title, cmd.AuthorID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := rec.UpdateDetails(cmd.Title, cmd.Story, cmd.Description, cmd.Instructions, cmd.CookingTime, cmd.CookingTimeUnit); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.applyAssociations(ctx, rec, cmd.Category, cmd.Tags, cmd.Ingredients); err != nil {
			return err
		}
		return s.recipes.Create(ctx, rec)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create recipe")
	}

	s.drainEvents(rec)
	s.invalidateListing(ctx)
	return s.toDTO(ctx, rec), nil
}

// UpdateRecipe applies an author's edit. Ingredient rows keep their
// identity: rows carrying an ID are updated or deleted by that ID, rows
// without one are inserted.
func (s *Service) UpdateRecipe(ctx context.Context, cmd inbound.UpdateRecipeCommand) (*inbound.RecipeDTO, error) {
	if err := recipe.ValidateIngredientLines(cmd.Ingredients); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	rec, err := s.recipes.FindByID(ctx, cmd.RecipeID)
	if err != nil {
		return nil, errors.NewDatabaseError("load recipe", err)
	}
	if rec == nil {
		return nil, errors.NewRecipeNotFoundError(cmd.RecipeID.String())
	}
	if !rec.IsAuthoredBy(cmd.UserID) {
		return nil, errors.NewForbiddenError("only the author can edit this recipe")
	}

	if err := rec.UpdateDetails(cmd.Title, cmd.Story, cmd.Description, cmd.Instructions, cmd.CookingTime, cmd.CookingTimeUnit); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.applyAssociations(ctx, rec, cmd.Category, cmd.Tags, cmd.Ingredients); err != nil {
			return err
		}
		return s.recipes.Update(ctx, rec)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update recipe")
	}

	s.drainEvents(rec)
	s.invalidateListing(ctx)
	return s.toDTO(ctx, rec), nil
}

// DeleteRecipe removes a recipe and, via the store's cascade, its
// ingredient lines. Author-only.
func (s *Service) DeleteRecipe(ctx context.Context, recipeID, userID uuid.UUID) error {
	rec, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return errors.NewDatabaseError("load recipe", err)
	}
	if rec == nil {
		return errors.NewRecipeNotFoundError(recipeID.String())
	}
	if !rec.IsAuthoredBy(userID) {
		return errors.NewForbiddenError("only the author can delete this recipe")
	}

	if err := s.recipes.Delete(ctx, recipeID); err != nil {
		return errors.NewDatabaseError("delete recipe", err)
	}

	s.logger.Info("recipe deleted",
		zap.String("recipe_id", recipeID.String()),
		zap.String("user_id", userID.String()),
	)
	s.invalidateListing(ctx)
	return nil
}

// GetRecipeByID returns one recipe with its ingredient lines
func (s *Service) GetRecipeByID(ctx context.Context, recipeID uuid.UUID) (*inbound.RecipeDTO, error) {
	rec, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, errors.NewDatabaseError("load recipe", err)
	}
	if rec == nil {
		return nil, errors.NewRecipeNotFoundError(recipeID.String())
	}
	return s.toDTO(ctx, rec), nil
}

// ListRecipes returns the public listing, newest first, with optional
// search and category/tag filters. Pages are served from cache when hot.
func (s *Service) ListRecipes(ctx context.Context, query inbound.ListQuery) (*inbound.RecipeList, error) {
	key := listCacheKey(query)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
		var list inbound.RecipeList
		if err := json.Unmarshal(cached, &list); err == nil {
			return &list, nil
		}
	}

	recs, total, err := s.recipes.List(ctx, outbound.ListCriteria{
		Search:   query.Search,
		Category: query.Category,
		Tag:      query.Tag,
		Offset:   query.Offset(),
		Limit:    query.Limit(),
	})
	if err != nil {
		return nil, errors.NewDatabaseError("list recipes", err)
	}

	list := s.toList(ctx, recs, total, query.PaginationParams)
	if payload, err := json.Marshal(list); err == nil {
		if err := s.cache.Set(ctx, key, payload, listCacheTTL); err != nil {
			s.logger.Debug("listing cache set failed", zap.Error(err))
		}
	}
	return list, nil
}

// GetRecipesByAuthor returns the recipes on a user's profile page
func (s *Service) GetRecipesByAuthor(ctx context.Context, username string, params inbound.PaginationParams) (*inbound.RecipeList, error) {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.NewDatabaseError("look up author", err)
	}
	if author == nil {
		return nil, errors.NewUserNotFoundError(username)
	}

	recs, total, err := s.recipes.FindByAuthorID(ctx, author.ID(), params.Offset(), params.Limit())
	if err != nil {
		return nil, errors.NewDatabaseError("list author recipes", err)
	}
	return s.toList(ctx, recs, total, params), nil
}

// applyAssociations resolves the category, tags and ingredient lines of
// a command onto the aggregate, creating lookup entities as needed.
func (s *Service) applyAssociations(ctx context.Context, rec *recipe.Recipe, category string, tagNames []string, submissions []recipe.IngredientLineSubmission) error {
	if name := strings.TrimSpace(category); name != "" {
		cat, err := s.lookups.GetOrCreateCategory(ctx, name)
		if err != nil {
			return err
		}
		rec.SetCategory(&cat)
	} else {
		rec.SetCategory(nil)
	}

	tags := make([]recipe.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := s.lookups.GetOrCreateTag(ctx, name)
		if err != nil {
			return err
		}
		tags = append(tags, tag)
	}
	rec.SetTags(tags)

	lines, err := s.resolveSubmissions(ctx, rec.Ingredients(), submissions)
	if err != nil {
		return err
	}
	return rec.SetIngredients(lines)
}

// resolveSubmissions converts form rows into ingredient lines. Deleted
// and blank rows drop out; surviving rows keep the line ID they carry so
// the store can update in place.
func (s *Service) resolveSubmissions(ctx context.Context, current []recipe.IngredientLine, submissions []recipe.IngredientLineSubmission) ([]recipe.IngredientLine, error) {
	byID := make(map[uuid.UUID]recipe.IngredientLine, len(current))
	for _, line := range current {
		byID[line.ID] = line
	}

	lines := make([]recipe.IngredientLine, 0, len(submissions))
	for _, sub := range submissions {
		if sub.IsBlank() || sub.Delete {
			continue
		}
		name := strings.TrimSpace(sub.Ingredient)
		if name == "" {
			continue
		}
		ingredient, err := s.lookups.GetOrCreateIngredient(ctx, name)
		if err != nil {
			return nil, err
		}

		qty := decimal.Zero
		if sub.Quantity != nil && strings.TrimSpace(*sub.Quantity) != "" {
			parsed, err := decimal.NewFromString(strings.TrimSpace(*sub.Quantity))
			if err != nil {
				return nil, errors.NewValidationError(fmt.Sprintf("invalid quantity %q", *sub.Quantity))
			}
			if parsed.IsNegative() {
				return nil, errors.NewValidationError(fmt.Sprintf("quantity %q must not be negative", *sub.Quantity))
			}
			qty = parsed
		}

		line := recipe.IngredientLine{
			IngredientID:   ingredient.ID,
			IngredientName: ingredient.Name,
			Quantity:       qty,
			Unit:           strings.TrimSpace(sub.Unit),
		}
		if sub.ID != nil {
			if existing, ok := byID[*sub.ID]; ok {
				line.ID = existing.ID
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *Service) drainEvents(rec *recipe.Recipe) {
	for _, event := range rec.Events() {
		s.logger.Info("domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}
}

func (s *Service) invalidateListing(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, listCachePrefix); err != nil {
		s.logger.Debug("listing cache invalidation failed", zap.Error(err))
	}
}

func listCacheKey(query inbound.ListQuery) string {
	return fmt.Sprintf("%sq=%s&c=%s&t=%s&p=%d&s=%d",
		listCachePrefix, query.Search, query.Category, query.Tag, query.Page, query.Limit())
}

func (s *Service) toList(ctx context.Context, recs []*recipe.Recipe, total int, params inbound.PaginationParams) *inbound.RecipeList {
	dtos := make([]inbound.RecipeDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = *s.toDTO(ctx, rec)
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	return &inbound.RecipeList{
		Recipes:  dtos,
		Total:    total,
		Page:     page,
		PageSize: params.Limit(),
	}
}

func (s *Service) toDTO(ctx context.Context, rec *recipe.Recipe) *inbound.RecipeDTO {
	author := rec.AuthorUsername()
	if author == "" {
		if u, err := s.users.FindByID(ctx, rec.AuthorID()); err == nil && u != nil {
			author = u.Username()
		}
	}

	tags := make([]string, len(rec.Tags()))
	for i, tag := range rec.Tags() {
		tags[i] = tag.Name
	}

	lines := make([]inbound.IngredientLineDTO, len(rec.Ingredients()))
	for i, line := range rec.Ingredients() {
		lines[i] = inbound.IngredientLineDTO{
			ID:         line.ID,
			Ingredient: line.IngredientName,
			Quantity:   line.Quantity.String(),
			Unit:       line.Unit,
		}
	}

	dto := &inbound.RecipeDTO{
		ID:              rec.ID(),
		Title:           rec.Title(),
		Story:           rec.Story(),
		Description:     rec.Description(),
		Instructions:    rec.Instructions(),
		CookingTime:     rec.CookingTime(),
		CookingTimeUnit: rec.CookingTimeUnit(),
		AuthorID:        rec.AuthorID(),
		Author:          author,
		Tags:            tags,
		Ingredients:     lines,
		CreatedAt:       rec.CreatedAt(),
		UpdatedAt:       rec.UpdatedAt(),
	}
	if cat := rec.Category(); cat != nil {
		dto.Category = cat.Name
	}
	return dto
}
