package notion

import (
	"math"
	"time"
)

// Properties is a sparse set of page property values keyed by property
// name. Only the keys present are sent, so an update never clobbers
// properties it does not mention.
type Properties map[string]any

// Title builds a title property value.
func Title(text string) any {
	return map[string]any{
		"title": []any{richText(text)},
	}
}

// RichText builds a rich_text property value.
func RichText(text string) any {
	return map[string]any{
		"rich_text": []any{richText(text)},
	}
}

// Number builds a number property value.
func Number(v float64) any {
	return map[string]any{"number": v}
}

// NumberPtr builds a number property value from an optional source,
// writing an explicit null when the value is absent or not finite.
func NumberPtr(v *float64) any {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return map[string]any{"number": nil}
	}
	return map[string]any{"number": *v}
}

// Date builds a date property value from a YYYY-MM-DD date key.
func Date(dateKey string) any {
	return map[string]any{
		"date": map[string]any{"start": dateKey},
	}
}

// DateTime builds a date property value carrying the full timestamp.
func DateTime(t time.Time) any {
	return map[string]any{
		"date": map[string]any{"start": t.Format(time.RFC3339)},
	}
}

// Select builds a select property value.
func Select(name string) any {
	return map[string]any{
		"select": map[string]any{"name": name},
	}
}

// Checkbox builds a checkbox property value.
func Checkbox(checked bool) any {
	return map[string]any{"checkbox": checked}
}

// Relation builds a relation property value linking the given pages.
func Relation(pageIDs ...string) any {
	refs := make([]any, 0, len(pageIDs))
	for _, id := range pageIDs {
		refs = append(refs, map[string]any{"id": id})
	}
	return map[string]any{"relation": refs}
}

func richText(text string) map[string]any {
	return map[string]any{
		"text": map[string]any{"content": text},
	}
}
