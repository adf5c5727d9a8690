package testutils

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/receptar/receptar/internal/domain/recipe"
	"github.com/receptar/receptar/internal/domain/user"
	"github.com/receptar/receptar/internal/ports/outbound"
)

// FakeRecipeRepository is an in-memory recipe repository for service tests
type FakeRecipeRepository struct {
	mu      sync.Mutex
	recipes map[uuid.UUID]*recipe.Recipe
}

// NewFakeRecipeRepository creates an empty in-memory recipe repository
func NewFakeRecipeRepository() *FakeRecipeRepository {
	return &FakeRecipeRepository{recipes: make(map[uuid.UUID]*recipe.Recipe)}
}

func (f *FakeRecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipes[rec.ID()] = f.snapshot(rec)
	return nil
}

func (f *FakeRecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	return f.Create(ctx, rec)
}

func (f *FakeRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.recipes, id)
	return nil
}

func (f *FakeRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recipes[id], nil
}

func (f *FakeRecipeRepository) FindByTitle(ctx context.Context, title string) (*recipe.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.recipes {
		if rec.Title() == title {
			return rec, nil
		}
	}
	return nil, nil
}

func (f *FakeRecipeRepository) ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, lines []recipe.IngredientLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recipes[recipeID]
	if !ok {
		return nil
	}
	fresh := make([]recipe.IngredientLine, len(lines))
	for i, line := range lines {
		line.ID = uuid.New()
		fresh[i] = line
	}
	return rec.SetIngredients(fresh)
}

func (f *FakeRecipeRepository) SetTags(ctx context.Context, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recipes[recipeID]
	if !ok {
		return nil
	}
	tags := make([]recipe.Tag, len(tagIDs))
	for i, id := range tagIDs {
		tags[i] = recipe.Tag{ID: id}
	}
	rec.SetTags(tags)
	return nil
}

func (f *FakeRecipeRepository) List(ctx context.Context, criteria outbound.ListCriteria) ([]*recipe.Recipe, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*recipe.Recipe
	for _, rec := range f.recipes {
		if criteria.Search != "" &&
			!strings.Contains(strings.ToLower(rec.Title()), strings.ToLower(criteria.Search)) &&
			!strings.Contains(strings.ToLower(rec.Description()), strings.ToLower(criteria.Search)) {
			continue
		}
		if criteria.Category != "" && (rec.Category() == nil || rec.Category().Name != criteria.Category) {
			continue
		}
		if criteria.Tag != "" && !hasTag(rec, criteria.Tag) {
			continue
		}
		matched = append(matched, rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt().After(matched[j].CreatedAt())
	})

	total := len(matched)
	if criteria.Offset >= total {
		return nil, total, nil
	}
	end := criteria.Offset + criteria.Limit
	if end > total {
		end = total
	}
	return matched[criteria.Offset:end], total, nil
}

func (f *FakeRecipeRepository) FindByAuthorID(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]*recipe.Recipe, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*recipe.Recipe
	for _, rec := range f.recipes {
		if rec.AuthorID() == authorID {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt().After(matched[j].CreatedAt())
	})

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// Count returns the number of stored recipes
func (f *FakeRecipeRepository) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recipes)
}

// snapshot assigns line IDs the way a store's insert would
func (f *FakeRecipeRepository) snapshot(rec *recipe.Recipe) *recipe.Recipe {
	lines := rec.Ingredients()
	changed := false
	for i := range lines {
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
			changed = true
		}
	}
	if changed {
		_ = rec.SetIngredients(lines)
	}
	return rec
}

func hasTag(rec *recipe.Recipe, name string) bool {
	for _, tag := range rec.Tags() {
		if tag.Name == name {
			return true
		}
	}
	return false
}

// FakeUserRepository is an in-memory user repository for service tests
type FakeUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

// NewFakeUserRepository creates an empty in-memory user repository
func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{users: make(map[uuid.UUID]*user.User)}
}

func (f *FakeUserRepository) Create(ctx context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID()] = u
	return nil
}

func (f *FakeUserRepository) Update(ctx context.Context, u *user.User) error {
	return f.Create(ctx, u)
}

func (f *FakeUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *FakeUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username() == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *FakeUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *FakeUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[id]
	return ok, nil
}

func (f *FakeUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.RecordLogin()
	}
	return nil
}

// FakeLookupRepository is an in-memory lookup repository for service tests
type FakeLookupRepository struct {
	mu          sync.Mutex
	categories  map[string]recipe.Category
	tags        map[string]recipe.Tag
	ingredients map[string]recipe.Ingredient
}

// NewFakeLookupRepository creates an empty in-memory lookup repository
func NewFakeLookupRepository() *FakeLookupRepository {
	return &FakeLookupRepository{
		categories:  make(map[string]recipe.Category),
		tags:        make(map[string]recipe.Tag),
		ingredients: make(map[string]recipe.Ingredient),
	}
}

func (f *FakeLookupRepository) GetOrCreateCategory(ctx context.Context, name string) (recipe.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name = recipe.NormalizeName(name)
	if cat, ok := f.categories[name]; ok {
		return cat, nil
	}
	cat := recipe.Category{ID: uuid.New(), Name: name}
	f.categories[name] = cat
	return cat, nil
}

func (f *FakeLookupRepository) GetOrCreateTag(ctx context.Context, name string) (recipe.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name = recipe.NormalizeName(name)
	if tag, ok := f.tags[name]; ok {
		return tag, nil
	}
	tag := recipe.Tag{ID: uuid.New(), Name: name}
	f.tags[name] = tag
	return tag, nil
}

func (f *FakeLookupRepository) GetOrCreateIngredient(ctx context.Context, name string) (recipe.Ingredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name = recipe.NormalizeName(name)
	if ing, ok := f.ingredients[name]; ok {
		return ing, nil
	}
	ing := recipe.Ingredient{ID: uuid.New(), Name: name}
	f.ingredients[name] = ing
	return ing, nil
}

func (f *FakeLookupRepository) ListCategories(ctx context.Context) ([]recipe.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recipe.Category, 0, len(f.categories))
	for _, cat := range f.categories {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakeLookupRepository) ListTags(ctx context.Context) ([]recipe.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recipe.Tag, 0, len(f.tags))
	for _, tag := range f.tags {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// IngredientCount returns the number of distinct ingredients created
func (f *FakeLookupRepository) IngredientCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ingredients)
}

// FakeTxManager runs the function directly without a real transaction
type FakeTxManager struct{}

func (FakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// FakeCacheRepository is an in-memory cache for service tests
type FakeCacheRepository struct {
	mu       sync.Mutex
	entries  map[string][]byte
	counters map[string]int64
}

// NewFakeCacheRepository creates an empty in-memory cache
func NewFakeCacheRepository() *FakeCacheRepository {
	return &FakeCacheRepository{
		entries:  make(map[string][]byte),
		counters: make(map[string]int64),
	}
}

func (f *FakeCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[key], nil
}

func (f *FakeCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	return nil
}

func (f *FakeCacheRepository) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	delete(f.counters, key)
	return nil
}

func (f *FakeCacheRepository) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key]++
	return f.counters[key], nil
}

func (f *FakeCacheRepository) DeletePrefix(ctx context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}
	return nil
}

// Len returns the number of cached entries
func (f *FakeCacheRepository) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
