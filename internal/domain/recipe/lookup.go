package recipe

import (
	"strings"

	"github.com/google/uuid"
)

// Category, Tag and Ingredient are the named lookup entities recipes
// reference. Each has a unique name and is created lazily on first use
// (lookup-or-create), both by the importer and the interactive paths.

// Category groups recipes (e.g. "Dinner"). A recipe has at most one.
type Category struct {
	ID   uuid.UUID
	Name string
}

// Tag is a free-form label; a recipe carries any number of them.
type Tag struct {
	ID   uuid.UUID
	Name string
}

// Ingredient is a shared ingredient referenced by ingredient lines.
// Deleting an ingredient that any line references is rejected by the
// store rather than cascading into unrelated recipes.
type Ingredient struct {
	ID   uuid.UUID
	Name string
}

// NormalizeName canonicalizes a lookup name for get-or-create so that
// " Flour " and "Flour" resolve to the same entity.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
