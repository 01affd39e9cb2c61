// Package selection parses the operator's pair/hour selection syntax and
// resolves it against one student's pairs.
//
// Accepted tokens, separated by commas or whitespace:
//
//	0, all, все   every pair
//	a-b           pairs a through b inclusive
//	p.h           hour h of pair p
//	i             pair i
//
// Indices are 1-based. Tokens that do not parse or point outside the
// grid are dropped without failing the rest of the input.
package selection

import (
	"sort"

	"github.com/julianstephens/sfh/internal/models"
)

// Kind tags a Reference.
type Kind int

const (
	// WholePair selects every hour of one pair.
	WholePair Kind = iota + 1
	// PairHour selects a single hour of one pair.
	PairHour
)

// Reference addresses a pair, or one hour within a pair, by 1-based position.
type Reference struct {
	Kind Kind
	Pair int
	Hour int // zero for WholePair
}

// Whole returns a WholePair reference.
func Whole(pair int) Reference {
	return Reference{Kind: WholePair, Pair: pair}
}

// At returns a PairHour reference.
func At(pair, hour int) Reference {
	return Reference{Kind: PairHour, Pair: pair, Hour: hour}
}

// Set is a deduplicated collection of references.
type Set map[Reference]struct{}

// NewSet builds a Set from refs.
func NewSet(refs ...Reference) Set {
	s := make(Set, len(refs))
	for _, r := range refs {
		s[r] = struct{}{}
	}
	return s
}

// Add inserts refs into s.
func (s Set) Add(refs ...Reference) {
	for _, r := range refs {
		s[r] = struct{}{}
	}
}

// Has reports whether r is in s.
func (s Set) Has(r Reference) bool {
	_, ok := s[r]
	return ok
}

// Sorted returns the references ordered by pair, then hour. A WholePair
// sorts ahead of explicit hours of the same pair.
func (s Set) Sorted() []Reference {
	refs := make([]Reference, 0, len(s))
	for r := range s {
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Pair != refs[j].Pair {
			return refs[i].Pair < refs[j].Pair
		}
		return refs[i].Hour < refs[j].Hour
	})
	return refs
}

// Resolve maps set onto pairs and returns the selected hours in grid
// order. References outside pairs contribute nothing. Each
// (PairID, Hour) appears at most once even when a whole pair and one of
// its hours are both selected.
func Resolve(pairs []models.PairGroup, set Set) []models.HourRecord {
	var out []models.HourRecord
	seen := make(map[models.HourKey]struct{})
	for _, ref := range set.Sorted() {
		for _, rec := range pick(pairs, ref) {
			if _, dup := seen[rec.Key()]; dup {
				continue
			}
			seen[rec.Key()] = struct{}{}
			out = append(out, rec)
		}
	}
	return out
}

// Select parses text against pairs and resolves it.
func Select(pairs []models.PairGroup, text string) []models.HourRecord {
	return Resolve(pairs, Parse(text, len(pairs)))
}

func pick(pairs []models.PairGroup, ref Reference) []models.HourRecord {
	if ref.Pair < 1 || ref.Pair > len(pairs) {
		return nil
	}
	pair := pairs[ref.Pair-1]
	switch ref.Kind {
	case WholePair:
		return pair
	case PairHour:
		if ref.Hour < 1 || ref.Hour > len(pair) {
			return nil
		}
		return pair[ref.Hour-1 : ref.Hour]
	}
	return nil
}
