package normalize

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/member-search/internal/model"
)

// NoEntitiesHint is returned as the hint text when nothing was normalized.
const NoEntitiesHint = "No entities found"

// Normalizer resolves extracted entity mentions into canonical candidate
// lists. Institutes get abbreviation-first treatment: an exact abbreviation
// key hit yields the singleton canonical name and skips fuzzy matching.
type Normalizer struct {
	vocab   VocabularyProvider
	abbrevs AbbreviationTable
	matcher *Matcher
}

// NewNormalizer creates a Normalizer with the given matcher settings.
func NewNormalizer(vocab VocabularyProvider, abbrevs AbbreviationTable, matcher *Matcher) *Normalizer {
	return &Normalizer{vocab: vocab, abbrevs: abbrevs, matcher: matcher}
}

// Normalize maps each input in one category to its candidate list. Inputs
// with no candidates are omitted from the map entirely. A vocabulary read
// failure degrades to an empty vocabulary for the category.
func (n *Normalizer) Normalize(ctx context.Context, category model.Category, inputs []string) model.CandidateMap {
	if len(inputs) == 0 {
		return nil
	}

	vocabulary, err := n.vocab.DistinctValues(ctx, category)
	if err != nil {
		zap.S().Warnw("vocabulary unavailable, normalizing without it",
			"category", category, "error", err)
		vocabulary = nil
	}

	result := make(model.CandidateMap)
	for _, input := range inputs {
		var candidates []string
		if category == model.CategoryInstitutes {
			if canonical, ok := n.abbrevs.Lookup(input); ok {
				result[input] = []string{canonical}
				continue
			}
		}
		if fuzzy := n.matcher.Match(input, vocabulary); len(fuzzy) > 0 {
			candidates = dedupe(append([]string{input}, fuzzy...))
		}
		if len(candidates) > 0 {
			result[input] = candidates
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// NormalizeAll normalizes every extracted category. Years are identity-mapped
// to their own string form.
func (n *Normalizer) NormalizeAll(ctx context.Context, extracted model.ExtractedEntities) model.NormalizedEntities {
	var out model.NormalizedEntities
	for _, cat := range model.Categories {
		out.SetCategory(cat, n.Normalize(ctx, cat, extracted.ByCategory(cat)))
	}
	if len(extracted.Years) > 0 {
		years := make(model.CandidateMap, len(extracted.Years))
		for _, y := range extracted.Years {
			s := strconv.Itoa(y)
			years[s] = []string{s}
		}
		out.Years = years
	}
	return out
}

// QueryResult carries the full normalization outcome for one raw query.
type QueryResult struct {
	Extracted  model.ExtractedEntities
	Normalized model.NormalizedEntities
	Hints      string
}

// QueryNormalizer runs extraction then normalization and renders hint text.
type QueryNormalizer struct {
	extractor  *Extractor
	normalizer *Normalizer
}

// NewQueryNormalizer wires an extractor and normalizer over the same
// vocabulary source and abbreviation table.
func NewQueryNormalizer(vocab VocabularyProvider, abbrevs AbbreviationTable, matcher *Matcher) *QueryNormalizer {
	return &QueryNormalizer{
		extractor:  NewExtractor(vocab, abbrevs),
		normalizer: NewNormalizer(vocab, abbrevs, matcher),
	}
}

// NormalizeQuery extracts and normalizes entities from raw query text.
func (q *QueryNormalizer) NormalizeQuery(ctx context.Context, query string) QueryResult {
	extracted := q.extractor.Extract(ctx, query)
	normalized := q.normalizer.NormalizeAll(ctx, extracted)
	return QueryResult{
		Extracted:  extracted,
		Normalized: normalized,
		Hints:      BuildHints(extracted, normalized),
	}
}

var titleCaser = cases.Title(language.English)

// BuildHints renders one "Category: original → c1, c2" segment per normalized
// (category, original) pair, joined with " | ". Segments follow canonical
// category order, then the extraction order of originals within a category.
// Returns NoEntitiesHint when nothing was normalized.
func BuildHints(extracted model.ExtractedEntities, normalized model.NormalizedEntities) string {
	var hints []string
	for _, cat := range model.Categories {
		m := normalized.ByCategory(cat)
		if len(m) == 0 {
			continue
		}
		label := titleCaser.String(string(cat))
		for _, original := range extracted.ByCategory(cat) {
			candidates, ok := m[original]
			if !ok {
				continue
			}
			hints = append(hints, label+": "+original+" → "+strings.Join(candidates, ", "))
		}
	}
	if len(hints) == 0 {
		return NoEntitiesHint
	}
	return strings.Join(hints, " | ")
}
