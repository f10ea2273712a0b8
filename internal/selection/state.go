package selection

import (
	"strings"

	"github.com/hpungsan/shelf/internal/errors"
	"github.com/hpungsan/shelf/internal/prompt"
)

// SpecialFilter is the single optional quick filter layered on top of the
// category filters. The zero value means no special filter.
type SpecialFilter string

const (
	SpecialNone        SpecialFilter = ""
	SpecialSaved       SpecialFilter = "saved"
	SpecialEditorsPick SpecialFilter = "editors-pick"
	SpecialWeeklyHot   SpecialFilter = "weekly-hot"
)

// SpecialFilters lists the selectable special filters in display order.
var SpecialFilters = []SpecialFilter{SpecialSaved, SpecialEditorsPick, SpecialWeeklyHot}

// Label returns the human-readable heading for the filter.
func (f SpecialFilter) Label() string {
	switch f {
	case SpecialSaved:
		return "My saved prompts"
	case SpecialEditorsPick:
		return "Editors' picks"
	case SpecialWeeklyHot:
		return "Hot this week"
	default:
		return ""
	}
}

// SortKey selects the result order. The zero value sorts by popularity.
type SortKey string

const (
	SortPopularity SortKey = "popular"
	SortRecency    SortKey = "latest"
)

// SortKeys lists the accepted sort keys.
var SortKeys = []SortKey{SortPopularity, SortRecency}

// State is the presentation-owned selection state passed into Select.
// Empty Role/Purpose mean "no filter".
type State struct {
	Role    prompt.Role
	Purpose prompt.Purpose
	Special SpecialFilter
	Search  string
	Sort    SortKey
}

// ToggleSpecial activates f, replacing any other special filter. Toggling
// the active filter clears it.
func (s State) ToggleSpecial(f SpecialFilter) State {
	if s.Special == f {
		s.Special = SpecialNone
	} else {
		s.Special = f
	}
	return s
}

// Heading returns the page title for the current state.
func (s State) Heading() string {
	if s.Special != SpecialNone {
		return s.Special.Label()
	}
	if s.Role != "" {
		return string(s.Role)
	}
	if s.Purpose != "" {
		return string(s.Purpose)
	}
	return "All prompts"
}

// ParseRole parses a role filter. Empty and "all" mean no filter.
func ParseRole(s string) (prompt.Role, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return "", nil
	}
	r := prompt.Role(s)
	if !r.Valid() {
		return "", errors.NewInvalidValue("role", s, roleNames())
	}
	return r, nil
}

// ParsePurpose parses a purpose filter. Empty and "all" mean no filter.
func ParsePurpose(s string) (prompt.Purpose, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return "", nil
	}
	p := prompt.Purpose(s)
	if !p.Valid() {
		return "", errors.NewInvalidValue("purpose", s, purposeNames())
	}
	return p, nil
}

// ParseSpecial parses a special filter. Empty and "none" mean no filter.
func ParseSpecial(s string) (SpecialFilter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return SpecialNone, nil
	}
	for _, f := range SpecialFilters {
		if SpecialFilter(s) == f {
			return f, nil
		}
	}
	names := make([]string, len(SpecialFilters))
	for i, f := range SpecialFilters {
		names[i] = string(f)
	}
	return SpecialNone, errors.NewInvalidValue("special", s, names)
}

// ParseSort parses a sort key. Empty means popularity.
func ParseSort(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch SortKey(s) {
	case "":
		return SortPopularity, nil
	case SortPopularity, SortRecency:
		return SortKey(s), nil
	}
	return SortPopularity, errors.NewInvalidValue("sort", s, []string{string(SortPopularity), string(SortRecency)})
}

func roleNames() []string {
	names := make([]string, len(prompt.Roles))
	for i, r := range prompt.Roles {
		names[i] = string(r)
	}
	return names
}

func purposeNames() []string {
	names := make([]string, len(prompt.Purposes))
	for i, p := range prompt.Purposes {
		names[i] = string(p)
	}
	return names
}
