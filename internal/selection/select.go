// Package selection computes the list of prompts to display.
// Select is pure: the same inputs always give the same output, and neither
// the item slice nor the saved set is modified.
package selection

import (
	"cmp"
	"slices"
	"strings"

	"github.com/hpungsan/shelf/internal/prompt"
	"github.com/hpungsan/shelf/internal/saved"
)

// Select filters items by role, purpose, special filter and search term,
// in that order, then stable-sorts by the state's sort key. Ties keep the
// input order. The result is never nil.
func Select(items []prompt.Item, state State, savedSet saved.Set) []prompt.Item {
	term := strings.ToLower(strings.TrimSpace(state.Search))

	result := make([]prompt.Item, 0, len(items))
	for _, item := range items {
		if state.Role != "" && item.RoleCategory != state.Role {
			continue
		}
		if state.Purpose != "" && item.PurposeCategory != state.Purpose {
			continue
		}
		if !matchesSpecial(item, state.Special, savedSet) {
			continue
		}
		if term != "" && !matchesSearch(item, term) {
			continue
		}
		result = append(result, item)
	}

	switch state.Sort {
	case SortRecency:
		slices.SortStableFunc(result, func(a, b prompt.Item) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	default:
		// Raw Saves only: the viewer's own bookmark never shifts the order.
		slices.SortStableFunc(result, func(a, b prompt.Item) int {
			return cmp.Compare(b.Saves, a.Saves)
		})
	}
	return result
}

func matchesSpecial(item prompt.Item, f SpecialFilter, savedSet saved.Set) bool {
	switch f {
	case SpecialSaved:
		return savedSet.Contains(item.ID)
	case SpecialEditorsPick:
		return item.IsEditorsPick
	case SpecialWeeklyHot:
		return item.IsWeeklyHot
	default:
		return true
	}
}

// matchesSearch expects term already lower-cased.
func matchesSearch(item prompt.Item, term string) bool {
	if strings.Contains(strings.ToLower(item.Title), term) ||
		strings.Contains(strings.ToLower(item.Description), term) ||
		strings.Contains(strings.ToLower(item.Content), term) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}
