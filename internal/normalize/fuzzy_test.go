package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSetRatioIdentical(t *testing.T) {
	assert.Equal(t, 100, TokenSetRatio("amazon", "amazon"))
	assert.Equal(t, 100, TokenSetRatio("", ""))
}

func TestTokenSetRatioEmpty(t *testing.T) {
	assert.Equal(t, 0, TokenSetRatio("amazon", ""))
	assert.Equal(t, 0, TokenSetRatio("", "amazon"))
}

func TestTokenSetRatioOrderInsensitive(t *testing.T) {
	assert.Equal(t, 100, TokenSetRatio("institute technology", "technology institute"))
}

func TestTokenSetRatioSubstringContainment(t *testing.T) {
	// Shared tokens dominate: "sonnet" inside "claude-3 sonnet" scores 100
	// because the intersection equals one side.
	assert.Equal(t, 100, TokenSetRatio("sonnet", "claude-3 sonnet"))
}

func TestTokenSetRatioDisjoint(t *testing.T) {
	score := TokenSetRatio("amazon", "google")
	assert.Less(t, score, 50)
}

func TestMatcherThresholdBoundary(t *testing.T) {
	// Single-token strings of length 100: k substitutions score exactly
	// 100-k, so 25 edits sit on the threshold and 26 fall below it.
	input := strings.Repeat("a", 100)
	at75 := strings.Repeat("a", 75) + strings.Repeat("b", 25)
	at74 := strings.Repeat("a", 74) + strings.Repeat("b", 26)

	assert.Equal(t, 75, TokenSetRatio(input, at75))
	assert.Equal(t, 74, TokenSetRatio(input, at74))

	m := NewMatcher(75, 10)
	assert.Equal(t, []string{at75}, m.Match(input, []string{at75}))
	assert.Empty(t, m.Match(input, []string{at74}))
}

func TestMatcherRestoresCasing(t *testing.T) {
	m := NewMatcher(75, 10)
	got := m.Match("amazon inc.", []string{"Amazon Inc."})
	assert.Equal(t, []string{"Amazon Inc."}, got)
}

func TestMatcherDescendingScoreOrder(t *testing.T) {
	// "Google Cloud" is an exact token-set match (100); "Google Maps" only
	// shares one token, so it ranks second.
	m := NewMatcher(50, 10)
	got := m.Match("google cloud", []string{"Google Maps", "Google Cloud"})
	assert.Equal(t, []string{"Google Cloud", "Google Maps"}, got)
}

func TestMatcherCollapsesCasingDuplicates(t *testing.T) {
	m := NewMatcher(75, 10)
	got := m.Match("google", []string{"Google", "Google"})
	assert.Equal(t, []string{"Google"}, got)
}

func TestMatcherCandidateLimit(t *testing.T) {
	// The ranking cut happens before the threshold filter, so even with a
	// permissive threshold no more than maxCandidates entries survive.
	vocab := make([]string, 20)
	for i := range vocab {
		vocab[i] = "google " + strings.Repeat("x", i+1)
	}
	m := NewMatcher(0, 10)
	got := m.Match("google", vocab)
	assert.LessOrEqual(t, len(got), 10)
}

func TestMatcherEmptyInputs(t *testing.T) {
	m := NewMatcher(75, 10)
	assert.Empty(t, m.Match("", []string{"Google"}))
	assert.Empty(t, m.Match("google", nil))
	assert.Empty(t, m.Match("google", []string{""}))
}
