package normalize

import (
	"math"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// TokenSetRatio scores two strings with an order-insensitive token-overlap
// measure on a 0-100 scale. Both strings are split into whitespace token
// sets; the score is the best Levenshtein similarity among the sorted
// intersection string and the two intersection-plus-remainder strings. Shared
// tokens dominate, so word reordering and substring containment ("Sonnet" vs
// "Claude-3 Sonnet") score high.
func TokenSetRatio(a, b string) int {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 100
	}
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var common, diffA, diffB []string
	for t := range tokensA {
		if tokensB[t] {
			common = append(common, t)
		} else {
			diffA = append(diffA, t)
		}
	}
	for t := range tokensB {
		if !tokensA[t] {
			diffB = append(diffB, t)
		}
	}
	sort.Strings(common)
	sort.Strings(diffA)
	sort.Strings(diffB)

	base := strings.Join(common, " ")
	combinedA := joinNonEmpty(base, strings.Join(diffA, " "))
	combinedB := joinNonEmpty(base, strings.Join(diffB, " "))

	params := levenshtein.NewParams()
	best := levenshtein.Similarity(base, combinedA, params)
	if s := levenshtein.Similarity(base, combinedB, params); s > best {
		best = s
	}
	if s := levenshtein.Similarity(combinedA, combinedB, params); s > best {
		best = s
	}
	return int(math.Round(best * 100))
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

// scored pairs a vocabulary entry (lower-cased form) with its score.
type scored struct {
	value string
	score int
}

// Matcher ranks vocabulary entries against an input string and keeps those at
// or above the similarity threshold.
type Matcher struct {
	threshold     int
	maxCandidates int
}

// NewMatcher creates a Matcher. maxCandidates bounds the ranking cut taken
// before the threshold filter is applied.
func NewMatcher(threshold, maxCandidates int) *Matcher {
	return &Matcher{threshold: threshold, maxCandidates: maxCandidates}
}

// Match scores input against every vocabulary entry and returns the matching
// entries in descending score order, with original casing restored and
// duplicates collapsed. Entries scoring exactly the threshold are kept.
func (m *Matcher) Match(input string, vocabulary []string) []string {
	if input == "" || len(vocabulary) == 0 {
		return nil
	}

	inputLower := strings.ToLower(input)

	// Restore casing from the stored value after lower-cased comparison.
	byLower := make(map[string]string, len(vocabulary))
	ranked := make([]scored, 0, len(vocabulary))
	for _, v := range vocabulary {
		if v == "" {
			continue
		}
		lower := strings.ToLower(v)
		if _, seen := byLower[lower]; !seen {
			byLower[lower] = v
		}
		ranked = append(ranked, scored{value: lower, score: TokenSetRatio(inputLower, lower)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if m.maxCandidates > 0 && len(ranked) > m.maxCandidates {
		ranked = ranked[:m.maxCandidates]
	}

	var out []string
	seen := make(map[string]bool)
	for _, r := range ranked {
		if r.score < m.threshold {
			continue
		}
		original := byLower[r.value]
		if !seen[original] {
			seen[original] = true
			out = append(out, original)
		}
	}
	return out
}
