// Package validation holds the pure aggregate checks for value sets.
// Functions return ordered human-readable violation lists and never touch
// the store; storage-state checks (key uniqueness) live in the services.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/refdata-io/valueset-backend/internal/types"
)

// ValueSet validates a fully populated aggregate: field bounds, item count,
// pairwise-distinct codes and required English labels.
func ValueSet(vs *types.ValueSet) []string {
	var violations []string

	if strings.TrimSpace(vs.Key) == "" {
		violations = append(violations, "key must not be empty")
	}
	if len(vs.Key) > types.MaxKeyLength {
		violations = append(violations, fmt.Sprintf("key exceeds maximum length of %d characters", types.MaxKeyLength))
	}
	if len(vs.Module) > types.MaxModuleLength {
		violations = append(violations, fmt.Sprintf("module exceeds maximum length of %d characters", types.MaxModuleLength))
	}
	if len(vs.Description) > types.MaxDescriptionLength {
		violations = append(violations, fmt.Sprintf("description exceeds maximum length of %d characters", types.MaxDescriptionLength))
	}

	violations = append(violations, Items(vs.Items)...)
	return violations
}

// Items validates an item list in aggregate context: count bounds,
// duplicate codes and per-item structure.
func Items(items []types.Item) []string {
	var violations []string

	if len(items) < types.MinItemsPerValueSet || len(items) > types.MaxItemsPerValueSet {
		violations = append(violations, fmt.Sprintf(
			"number of items must be between %d and %d (got %d)",
			types.MinItemsPerValueSet, types.MaxItemsPerValueSet, len(items)))
	}

	if dups := DuplicateCodes(items); len(dups) > 0 {
		violations = append(violations, fmt.Sprintf("duplicate item codes: %s", strings.Join(dups, ", ")))
	}

	for _, it := range items {
		violations = append(violations, Item(it)...)
	}
	return violations
}

// Item validates a single item standalone: code presence and length, the
// mandatory "en" label, and per-language label lengths.
func Item(it types.Item) []string {
	var violations []string

	if strings.TrimSpace(it.Code) == "" {
		violations = append(violations, "item code must not be empty")
	}
	if len(it.Code) > types.MaxItemCodeLength {
		violations = append(violations, fmt.Sprintf("item code '%s' exceeds maximum length of %d characters", it.Code, types.MaxItemCodeLength))
	}
	if strings.TrimSpace(it.Labels[types.DefaultLanguage]) == "" {
		violations = append(violations, fmt.Sprintf("english label required for item '%s'", it.Code))
	}
	langs := make([]string, 0, len(it.Labels))
	for lang := range it.Labels {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if len(it.Labels[lang]) > types.MaxLabelLength {
			violations = append(violations, fmt.Sprintf("label '%s' for item '%s' exceeds maximum length of %d characters", lang, it.Code, types.MaxLabelLength))
		}
	}
	return violations
}

// DuplicateCodes returns every code involved in a collision exactly once,
// in first-occurrence order. Matching is exact and case-sensitive.
func DuplicateCodes(items []types.Item) []string {
	counts := make(map[string]int, len(items))
	for _, it := range items {
		counts[it.Code]++
	}
	var dups []string
	seen := make(map[string]bool)
	for _, it := range items {
		if counts[it.Code] > 1 && !seen[it.Code] {
			seen[it.Code] = true
			dups = append(dups, it.Code)
		}
	}
	return dups
}
