package keywords

import (
	"sort"
	"strings"
)

// DefaultPreset is the preset used when an unknown name is requested.
const DefaultPreset = "general"

// CombinedPreset is the union of every other preset.
const CombinedPreset = "combined"

// Set is an immutable collection of lowercase abuse keywords.
// Matching is plain substring containment against the lowercased
// message text: "scum" matches "scumbag". Keywords must be supplied
// lowercase by the configuration owner; the matcher does not lowercase
// them defensively.
type Set struct {
	terms []string
}

// NewSet builds a Set from the given terms, deduplicated and sorted.
func NewSet(terms []string) Set {
	seen := make(map[string]struct{}, len(terms))
	var out []string
	for _, t := range terms {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return Set{terms: out}
}

// Union merges the given sets into one.
func Union(sets ...Set) Set {
	var all []string
	for _, s := range sets {
		all = append(all, s.terms...)
	}
	return NewSet(all)
}

// ContainsAbuse reports whether the lowercased text contains any
// keyword as a substring. Empty text never matches.
func (s Set) ContainsAbuse(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, term := range s.terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// Terms returns the keywords in alphabetical order.
func (s Set) Terms() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// Len returns the number of keywords in the set.
func (s Set) Len() int { return len(s.terms) }

// Presets maps preset names to keyword sets.
type Presets map[string]Set

// Resolve returns the set for name. Unknown names fall back to the
// general set rather than erroring; the second return reports whether
// the name was known.
func (p Presets) Resolve(name string) (Set, bool) {
	if s, ok := p[name]; ok {
		return s, true
	}
	return p[DefaultPreset], false
}

// Names returns the preset names in alphabetical order.
func (p Presets) Names() []string {
	out := make([]string, 0, len(p))
	for name := range p {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// General covers derogatory, violent and degrading language.
func General() Set {
	return NewSet([]string{
		"worthless", "stupid", "idiot", "loser", "trash", "scum", "waste",
		"hate", "kill", "die",
		"disgusting", "pathetic", "horrible", "despicable", "evil", "demonic",
		"deserve", "cancer", "plague",
	})
}

// Harassment covers threatening and stalking language.
func Harassment() Set {
	return NewSet([]string{
		"threatening", "intimidating", "bullying", "harassment", "stalking", "doxxing",
	})
}

// Cyberbullying covers belittling language common in peer harassment.
func Cyberbullying() Set {
	return NewSet([]string{
		"loser", "ugly", "fat", "weak", "pathetic", "failure", "ridiculous",
	})
}

// BuiltIn returns the built-in presets. The combined preset is the
// union of all others.
func BuiltIn() Presets {
	p := Presets{
		DefaultPreset:   General(),
		"harassment":    Harassment(),
		"cyberbullying": Cyberbullying(),
	}
	p[CombinedPreset] = Union(p[DefaultPreset], p["harassment"], p["cyberbullying"])
	return p
}
