package recipe

import (
	"strings"

	"github.com/google/uuid"
)

// IngredientLineSubmission is one row of an interactive recipe
// submission: a variable-length set of these accompanies the parent
// recipe payload. ID is set when the row edits an existing line; Delete
// marks the row for removal.
type IngredientLineSubmission struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	Ingredient string     `json:"ingredient"`
	Quantity   *string    `json:"quantity,omitempty"`
	Unit       string     `json:"unit"`
	Delete     bool       `json:"delete,omitempty"`
}

// IsBlank reports whether the row carries no data at all, as happens
// with trailing empty slots in a form. Blank rows are ignored rather
// than rejected.
func (s IngredientLineSubmission) IsBlank() bool {
	return s.ID == nil &&
		strings.TrimSpace(s.Ingredient) == "" &&
		(s.Quantity == nil || strings.TrimSpace(*s.Quantity) == "") &&
		strings.TrimSpace(s.Unit) == "" &&
		!s.Delete
}

// counts reports whether the row contributes a usable ingredient line:
// it names an ingredient and carries a quantity. A quantity of zero
// counts; only an absent or empty quantity does not.
func (s IngredientLineSubmission) counts() bool {
	if strings.TrimSpace(s.Ingredient) == "" {
		return false
	}
	return s.Quantity != nil && strings.TrimSpace(*s.Quantity) != ""
}

// ValidateIngredientLines gates interactive create and update: after
// dropping blank rows and rows marked for deletion, at least one row
// must still name an ingredient with a quantity. The import path has its
// own replace-all policy and does not pass through here.
func ValidateIngredientLines(lines []IngredientLineSubmission) error {
	remaining := 0
	for _, line := range lines {
		if line.IsBlank() || line.Delete {
			continue
		}
		if line.counts() {
			remaining++
		}
	}
	if remaining == 0 {
		return ErrNoIngredients
	}
	return nil
}
