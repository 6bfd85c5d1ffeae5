package normalize

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/member-search/internal/model"
)

func newTestNormalizer(vocab VocabularyProvider) *Normalizer {
	return NewNormalizer(vocab, DefaultAbbreviations(), NewMatcher(75, 10))
}

func TestNormalizeAbbreviationSingleton(t *testing.T) {
	// Every abbreviation key resolves to exactly its canonical value with no
	// fuzzy candidates appended, even when the vocabulary holds near matches.
	abbrevs := DefaultAbbreviations()
	vocab := &fakeVocab{values: map[model.Category][]string{
		model.CategoryInstitutes: {"Indian Institute of Technology, Bombay", "Massachusetts Institute of Technology"},
	}}
	n := newTestNormalizer(vocab)

	for key, canonical := range abbrevs {
		got := n.Normalize(context.Background(), model.CategoryInstitutes, []string{key})
		require.Len(t, got, 1, "key %q", key)
		assert.Equal(t, []string{canonical}, got[key], "key %q", key)
	}
}

func TestNormalizeOriginalFirst(t *testing.T) {
	vocab := &fakeVocab{values: map[model.Category][]string{
		model.CategoryCompanies: {"Google"},
	}}
	n := newTestNormalizer(vocab)

	got := n.Normalize(context.Background(), model.CategoryCompanies, []string{"google"})
	require.Contains(t, got, "google")
	assert.Equal(t, "google", got["google"][0])
	assert.Contains(t, got["google"], "Google")
}

func TestNormalizeOmitsUnmatchedInputs(t *testing.T) {
	vocab := &fakeVocab{values: map[model.Category][]string{
		model.CategoryCompanies: {"completely unrelated"},
	}}
	n := newTestNormalizer(vocab)

	got := n.Normalize(context.Background(), model.CategoryCompanies, []string{"zzzz"})
	assert.Empty(t, got)
}

func TestNormalizeNonAbbreviationInstituteFallsThrough(t *testing.T) {
	vocab := &fakeVocab{values: map[model.Category][]string{
		model.CategoryInstitutes: {"Stanford University"},
	}}
	n := newTestNormalizer(vocab)

	got := n.Normalize(context.Background(), model.CategoryInstitutes, []string{"stanford university"})
	require.Contains(t, got, "stanford university")
	assert.Equal(t, "stanford university", got["stanford university"][0])
	assert.Contains(t, got["stanford university"], "Stanford University")
}

func TestNormalizeDegradesOnVocabularyFailure(t *testing.T) {
	vocab := &fakeVocab{errs: map[model.Category]error{
		model.CategoryCompanies: eris.New("down"),
	}}
	n := newTestNormalizer(vocab)

	got := n.Normalize(context.Background(), model.CategoryCompanies, []string{"google"})
	assert.Empty(t, got)
}

func TestNormalizeAllYearsIdentity(t *testing.T) {
	n := newTestNormalizer(&fakeVocab{})

	got := n.NormalizeAll(context.Background(), model.ExtractedEntities{Years: []int{2015, 1999}})
	assert.Equal(t, model.CandidateMap{
		"2015": {"2015"},
		"1999": {"1999"},
	}, got.Years)
}

func TestNormalizeIdempotent(t *testing.T) {
	vocab := &fakeVocab{values: map[model.Category][]string{
		model.CategoryCompanies: {"Google"},
	}}
	n := newTestNormalizer(vocab)

	first := n.Normalize(context.Background(), model.CategoryCompanies, []string{"google"})
	second := n.Normalize(context.Background(), model.CategoryCompanies, []string{"google"})
	assert.Equal(t, first, second)
}

func TestQueryNormalizerAbbreviationScenario(t *testing.T) {
	// "Who studied at IIT B?" with no literal IIT B vocabulary row: the
	// abbreviation key is the only extracted institute and it resolves to
	// the singleton canonical value.
	vocab := &fakeVocab{values: map[model.Category][]string{
		model.CategoryInstitutes: {"Indian Institute of Technology, Bombay"},
	}}
	qn := NewQueryNormalizer(vocab, DefaultAbbreviations(), NewMatcher(75, 10))

	got := qn.NormalizeQuery(context.Background(), "Who studied at IIT B?")
	assert.Equal(t, []string{"iit b"}, got.Extracted.Institutes)
	assert.Equal(t, model.CandidateMap{
		"iit b": {"Indian Institute of Technology, Bombay"},
	}, got.Normalized.Institutes)
	assert.Equal(t, "Institutes: iit b → Indian Institute of Technology, Bombay", got.Hints)
}

func TestBuildHintsNoEntities(t *testing.T) {
	got := BuildHints(model.ExtractedEntities{}, model.NormalizedEntities{})
	assert.Equal(t, NoEntitiesHint, got)
}

func TestBuildHintsFormat(t *testing.T) {
	extracted := model.ExtractedEntities{
		Companies: []string{"google"},
		Cities:    []string{"seattle"},
	}
	normalized := model.NormalizedEntities{
		Companies: model.CandidateMap{"google": {"google", "Google"}},
		Cities:    model.CandidateMap{"seattle": {"seattle", "Seattle"}},
	}
	got := BuildHints(extracted, normalized)
	assert.Equal(t, "Companies: google → google, Google | Cities: seattle → seattle, Seattle", got)
}
