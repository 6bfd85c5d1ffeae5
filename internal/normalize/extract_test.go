package normalize

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sells-group/member-search/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// fakeVocab serves fixed vocabulary per category; categories with errs fail.
type fakeVocab struct {
	values map[model.Category][]string
	errs   map[model.Category]error
	calls  int
}

func (f *fakeVocab) DistinctValues(_ context.Context, c model.Category) ([]string, error) {
	f.calls++
	if err := f.errs[c]; err != nil {
		return nil, err
	}
	return f.values[c], nil
}

func TestExtractLiteralSubstring(t *testing.T) {
	vocab := &fakeVocab{values: map[model.Category][]string{
		model.CategoryCompanies: {"Amazon Inc.", "Google"},
		model.CategoryCities:    {"Seattle"},
	}}
	e := NewExtractor(vocab, DefaultAbbreviations())

	got := e.Extract(context.Background(), "Who worked at Google in Seattle?")
	assert.Equal(t, []string{"Google"}, got.Companies)
	assert.Equal(t, []string{"Seattle"}, got.Cities)
}

func TestExtractCaseInsensitive(t *testing.T) {
	vocab := &fakeVocab{values: map[model.Category][]string{
		model.CategoryCompanies: {"Google"},
	}}
	e := NewExtractor(vocab, DefaultAbbreviations())

	got := e.Extract(context.Background(), "members from GOOGLE")
	assert.Equal(t, []string{"Google"}, got.Companies)
}

func TestExtractNotFuzzy(t *testing.T) {
	// Extraction is literal containment only: a vocabulary value absent from
	// the text is never extracted, however close the spelling.
	vocab := &fakeVocab{values: map[model.Category][]string{
		model.CategoryCompanies: {"Amazon Inc."},
	}}
	e := NewExtractor(vocab, DefaultAbbreviations())

	got := e.Extract(context.Background(), "Who worked at Amazon in 2015?")
	assert.Empty(t, got.Companies)
	assert.Equal(t, []int{2015}, got.Years)
}

func TestExtractAbbreviationKeys(t *testing.T) {
	vocab := &fakeVocab{}
	e := NewExtractor(vocab, DefaultAbbreviations())

	got := e.Extract(context.Background(), "Who studied at IIT B?")
	assert.Contains(t, got.Institutes, "iit b")
}

func TestExtractInstitutesMergesSources(t *testing.T) {
	vocab := &fakeVocab{values: map[model.Category][]string{
		model.CategoryInstitutes: {"Stanford University"},
	}}
	e := NewExtractor(vocab, DefaultAbbreviations())

	got := e.Extract(context.Background(), "stanford university alumni who went to iit bombay")
	assert.Contains(t, got.Institutes, "Stanford University")
	assert.Contains(t, got.Institutes, "iit bombay")
	// "iit b" is a substring of "iit bombay" so both keys match.
	assert.Contains(t, got.Institutes, "iit b")
}

func TestExtractYearsOrderedNotDeduplicated(t *testing.T) {
	e := NewExtractor(&fakeVocab{}, DefaultAbbreviations())

	got := e.Extract(context.Background(), "between 2015 and 1999 and 2015 again")
	assert.Equal(t, []int{2015, 1999, 2015}, got.Years)
}

func TestExtractYearsWordBoundaries(t *testing.T) {
	e := NewExtractor(&fakeVocab{}, DefaultAbbreviations())

	got := e.Extract(context.Background(), "id 32015 is not a year, 1850 neither, 2020 is")
	assert.Equal(t, []int{2020}, got.Years)
}

func TestExtractDeduplicatesCategories(t *testing.T) {
	vocab := &fakeVocab{values: map[model.Category][]string{
		model.CategoryCompanies: {"Google", "Google"},
	}}
	e := NewExtractor(vocab, DefaultAbbreviations())

	got := e.Extract(context.Background(), "google google google")
	assert.Equal(t, []string{"Google"}, got.Companies)
}

func TestExtractDegradesOnVocabularyFailure(t *testing.T) {
	vocab := &fakeVocab{
		errs: map[model.Category]error{
			model.CategoryCompanies: eris.New("connection refused"),
		},
	}
	e := NewExtractor(vocab, DefaultAbbreviations())

	got := e.Extract(context.Background(), "google engineers at mit since 2019")
	assert.Empty(t, got.Companies)
	assert.Contains(t, got.Institutes, "mit")
	assert.Equal(t, []int{2019}, got.Years)
}

func TestExtractEmptyQuery(t *testing.T) {
	e := NewExtractor(&fakeVocab{}, DefaultAbbreviations())
	got := e.Extract(context.Background(), "")
	assert.True(t, got.IsEmpty())
}
