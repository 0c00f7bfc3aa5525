package partners

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/schollz/closestmatch"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/partnerpay/partnerpay/internal/model"
)

// Matcher resolves a free-text company name to a registry partner.
type Matcher interface {
	Match(name string, registry []model.Partner) (model.Partner, bool)
}

// Matching strategy names accepted by NewMatcher.
const (
	StrategyContains = "contains"
	StrategyClosest  = "closest"
)

// DefaultMinSimilarity is the bigram similarity a closest match must reach.
const DefaultMinSimilarity = 0.5

// NewMatcher builds the matcher for a configured strategy. minSimilarity only
// applies to the closest strategy.
func NewMatcher(strategy string, minLength int, minSimilarity float64) (Matcher, error) {
	contains := ContainsMatcher{MinLength: minLength}
	switch strings.ToLower(strategy) {
	case "", StrategyContains:
		return contains, nil
	case StrategyClosest:
		return ClosestMatcher{Fallback: contains, MinSimilarity: minSimilarity}, nil
	default:
		return nil, fmt.Errorf("unknown matching strategy %q", strategy)
	}
}

// ContainsMatcher matches on normalized equality first, then on the first
// registry name that contains the input or is contained by it.
//
// Containment can misassign partners whose names are substrings of each
// other ("Nike" and "Nike Inc"); registry curation is expected to avoid that.
type ContainsMatcher struct {
	// MinLength disables containment for names shorter than this many runes.
	// Zero means no guard.
	MinLength int
}

// Match implements Matcher.
func (m ContainsMatcher) Match(name string, registry []model.Partner) (model.Partner, bool) {
	search := Normalize(name)
	if search == "" {
		return model.Partner{}, false
	}

	for _, p := range registry {
		if Normalize(p.Name) == search {
			return p, true
		}
	}

	if utf8.RuneCountInString(search) < m.MinLength {
		return model.Partner{}, false
	}
	for _, p := range registry {
		candidate := Normalize(p.Name)
		if candidate == "" || utf8.RuneCountInString(candidate) < m.MinLength {
			continue
		}
		if strings.Contains(candidate, search) || strings.Contains(search, candidate) {
			return p, true
		}
	}
	return model.Partner{}, false
}

// Normalize trims and lowercases a name for comparison.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ClosestMatcher tries Fallback first and, on a miss, picks the registry name
// nearest to the input by n-gram similarity. The nearest name is rejected when
// its bigram similarity to the input is below MinSimilarity.
type ClosestMatcher struct {
	Fallback Matcher
	// MinSimilarity is a Dice coefficient in (0, 1]. Zero means DefaultMinSimilarity.
	MinSimilarity float64
}

// closestBags are the n-gram sizes used to index registry names.
var closestBags = []int{2, 3}

// Match implements Matcher.
func (m ClosestMatcher) Match(name string, registry []model.Partner) (model.Partner, bool) {
	if m.Fallback != nil {
		if p, ok := m.Fallback.Match(name, registry); ok {
			return p, true
		}
	}

	search := fold(name)
	if search == "" || len(registry) == 0 {
		return model.Partner{}, false
	}

	byKey := make(map[string]model.Partner, len(registry))
	keys := make([]string, 0, len(registry))
	for _, p := range registry {
		k := fold(p.Name)
		if k == "" {
			continue
		}
		if _, dup := byKey[k]; dup {
			continue
		}
		byKey[k] = p
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return model.Partner{}, false
	}

	cm := closestmatch.New(keys, closestBags)
	best := cm.Closest(search)
	p, ok := byKey[best]
	if !ok || Similarity(search, best) < m.threshold() {
		return model.Partner{}, false
	}
	return p, true
}

func (m ClosestMatcher) threshold() float64 {
	if m.MinSimilarity <= 0 {
		return DefaultMinSimilarity
	}
	return m.MinSimilarity
}

// Similarity is the Dice coefficient of the two strings' character bigrams:
// 1 for identical strings, 0 when they share no bigram.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ab, bb := bigrams(a), bigrams(b)
	if len(ab) == 0 || len(bb) == 0 {
		return 0
	}
	shared := 0
	for g := range ab {
		if bb[g] {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ab)+len(bb))
}

func bigrams(s string) map[string]bool {
	r := []rune(s)
	out := make(map[string]bool, len(r))
	for i := 0; i+1 < len(r); i++ {
		out[string(r[i:i+2])] = true
	}
	return out
}

// fold normalizes a name and strips diacritics so "Adidás" and "adidas" compare equal.
func fold(name string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	out, _, err := transform.String(t, Normalize(name))
	if err != nil {
		return Normalize(name)
	}
	return out
}
