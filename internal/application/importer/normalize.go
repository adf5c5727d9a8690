package importer

import "fmt"

// NormalizeItem returns a copy of one raw recipe item with canonical
// English keys and normalized ingredient entries. It is pure: the input
// map is not modified, and the same input always yields the same output.
//
// The result always carries an "ingredients" key with the (possibly
// empty) normalized list; "cooking_time_unit" appears only when the
// translated input provided a time-unit field. Non-map entries in the
// ingredient list are dropped.
func (t Translator) NormalizeItem(item map[string]any) map[string]any {
	out := make(map[string]any, len(item)+1)
	for k, v := range item {
		out[t.TranslateKey(k)] = v
	}

	rawIngredients, _ := out["ingredients"].([]any)
	normalized := make([]map[string]any, 0, len(rawIngredients))
	for _, entry := range rawIngredients {
		ing, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		ingNorm := make(map[string]any, len(ing))
		for k, v := range ing {
			ingNorm[t.TranslateKey(k)] = v
		}
		ingNorm["unit"] = t.NormalizeUnit(stringify(ingNorm["unit"]))
		normalized = append(normalized, ingNorm)
	}
	out["ingredients"] = normalized

	if rawUnit, ok := out["cooking_time_unit"]; ok {
		out["cooking_time_unit"] = t.NormalizeUnit(stringify(rawUnit))
	}

	return out
}

// stringify renders a decoded JSON value as a string, with nil becoming
// the empty string.
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}
