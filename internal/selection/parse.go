package selection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/julianstephens/sfh/internal/constants"
	"github.com/julianstephens/sfh/internal/logger"
)

var (
	errMalformed  = errors.New("malformed token")
	errOutOfRange = errors.New("pair out of range")
	errSpan       = errors.New("range too wide")
)

var allTokens = map[string]bool{
	"0":   true,
	"all": true,
	"все": true,
	"всё": true,
}

// Parse converts text into a selection for a student with pairCount
// pairs. It never fails: unusable tokens are logged at debug level and
// skipped.
func Parse(text string, pairCount int) Set {
	set := make(Set)
	for _, tok := range Tokens(text) {
		refs, err := parseToken(tok, pairCount)
		if err != nil {
			logger.Debug("Dropped selection token", "token", tok, "reason", err)
			continue
		}
		set.Add(refs...)
	}
	return set
}

// Tokens splits text on commas and whitespace.
func Tokens(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func parseToken(tok string, pairCount int) ([]Reference, error) {
	switch {
	case allTokens[strings.ToLower(tok)]:
		refs := make([]Reference, 0, pairCount)
		for i := 1; i <= pairCount; i++ {
			refs = append(refs, Whole(i))
		}
		return refs, nil

	case strings.Contains(tok, "-"):
		// Bounds are deliberately not clamped to pairCount; Resolve filters.
		a, b, err := splitInts(tok, "-")
		if err != nil {
			return nil, err
		}
		if b < a {
			return nil, nil
		}
		span := b - a
		if span < 0 || span >= constants.MaxRangeSpan {
			return nil, fmt.Errorf("%w: %d-%d", errSpan, a, b)
		}
		// Counting n keeps the loop finite when b is the largest int.
		refs := make([]Reference, 0, span+1)
		for n := 0; n <= span; n++ {
			refs = append(refs, Whole(a+n))
		}
		return refs, nil

	case strings.Contains(tok, "."):
		p, h, err := splitInts(tok, ".")
		if err != nil {
			return nil, err
		}
		if p < 1 || p > pairCount {
			return nil, fmt.Errorf("%w: %d", errOutOfRange, p)
		}
		return []Reference{At(p, h)}, nil

	default:
		i, err := strconv.Atoi(tok)
		if err != nil {
			return nil, errMalformed
		}
		if i < 1 || i > pairCount {
			return nil, fmt.Errorf("%w: %d", errOutOfRange, i)
		}
		return []Reference{Whole(i)}, nil
	}
}

func splitInts(tok, sep string) (int, int, error) {
	parts := strings.Split(tok, sep)
	if len(parts) != 2 {
		return 0, 0, errMalformed
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, errMalformed
	}
	b, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, errMalformed
	}
	return a, b, nil
}
