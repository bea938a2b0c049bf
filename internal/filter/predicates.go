// Package filter implements the stage-1 extraction pipeline: per-table
// predicates over dump records, the identifier sets accumulated across
// passes, and the derived post-tag relation.
package filter

import (
	"strings"

	"golang.org/x/text/cases"
)

// ParseTagList decodes the dump's denormalized tag attribute, a
// concatenation of bracket-delimited names such as "<python><pandas>", into
// individual names. Empty tokens are discarded.
func ParseTagList(s string) []string {
	var out []string
	for {
		i := strings.IndexByte(s, '<')
		if i < 0 {
			return out
		}
		j := strings.IndexByte(s[i+1:], '>')
		if j < 0 {
			return out
		}
		if name := s[i+1 : i+1+j]; name != "" {
			out = append(out, name)
		}
		s = s[i+1+j+1:]
	}
}

// TagSet is the fixed set of target tag names, stored case-folded.
type TagSet map[string]struct{}

// NewTagSet folds and collects the given names. Blank names are ignored.
func NewTagSet(names []string) TagSet {
	fold := cases.Fold()
	s := make(TagSet, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		s[fold.String(n)] = struct{}{}
	}
	return s
}

// ContainsName reports whether a single tag name is in the set,
// case-insensitively.
func (s TagSet) ContainsName(name string) bool {
	_, ok := s[cases.Fold().String(name)]
	return ok
}

// Match reports whether at least one tag decoded from tagsField is in the
// set. Matching is case-insensitive via Unicode case folding.
func (s TagSet) Match(tagsField string) bool {
	if len(s) == 0 || tagsField == "" {
		return false
	}
	fold := cases.Fold()
	for _, name := range ParseTagList(tagsField) {
		if _, ok := s[fold.String(name)]; ok {
			return true
		}
	}
	return false
}

// DateWindow is a half-open [Start, End) window over the dump's fixed-width
// ISO-8601 timestamp strings.
//
// Containment is plain lexicographic string comparison. That is deliberate:
// the source format is fixed-width ISO-8601, where string order equals
// chronological order, and parsing into time.Time would only open the door
// to timezone handling that could disagree with the source encoding.
type DateWindow struct {
	Start string
	End   string
}

// Contains reports Start <= date < End. The empty string (an absent date
// attribute) is never in the window.
func (w DateWindow) Contains(date string) bool {
	if date == "" {
		return false
	}
	return w.Start <= date && date < w.End
}
