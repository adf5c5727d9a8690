// Package importer implements the bulk recipe import pipeline: bilingual
// key and unit normalization followed by reconciliation against the store.
package importer

import "strings"

// Hungarian to English key mappings for recipe documents.
var defaultKeyTable = map[string]string{
	// recipe fields
	"cím":                     "title",
	"title":                   "title",
	"történet":                "story",
	"leírás":                  "description",
	"utasítások":              "instructions",
	"elkészítési_idő":         "cooking_time",
	"főzési_idő":              "cooking_time",
	"elkészítési_idő_egység":  "cooking_time_unit",
	"főzési_idő_egység":       "cooking_time_unit",
	"kategória":               "category",
	"címkék":                  "tags",
	"hozzávalók":              "ingredients",

	// ingredient item fields
	"összetevő":  "ingredient",
	"alapanyag":  "ingredient",
	"hozzávaló":  "ingredient",
	"mennyiség":  "quantity",
	"egység":     "unit",

	// top-level
	"receptek": "recipes",
}

// Hungarian to English unit word mappings.
var defaultUnitTable = map[string]string{
	"perc":   "min",
	"percek": "min",
	"p":      "min",
	"óra":    "hr",
	"órák":   "hr",
	"h":      "hr",
}

// Translator maps localized field names and unit words to their canonical
// English forms. The tables are injected so tests can substitute their
// own; they are treated as immutable after construction.
type Translator struct {
	keys  map[string]string
	units map[string]string
}

// NewTranslator builds a Translator over the given lookup tables
func NewTranslator(keys, units map[string]string) Translator {
	return Translator{keys: keys, units: units}
}

// DefaultTranslator returns a Translator over the built-in
// Hungarian/English tables
func DefaultTranslator() Translator {
	return NewTranslator(defaultKeyTable, defaultUnitTable)
}

// TranslateKey maps a field name to its canonical form. Unknown keys pass
// through unchanged so documents with fields the pipeline does not
// understand keep them intact.
func (t Translator) TranslateKey(key string) string {
	if canonical, ok := t.keys[key]; ok {
		return canonical
	}
	return key
}

// NormalizeUnit maps a unit word to its canonical abbreviation. The input
// is trimmed; lower-casing applies to the table lookup only, so an
// unrecognized unit comes back trimmed but in its original case. Empty
// input normalizes to the empty string.
func (t Translator) NormalizeUnit(raw string) string {
	if raw == "" {
		return ""
	}
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := t.units[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}
