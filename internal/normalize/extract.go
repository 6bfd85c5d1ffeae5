package normalize

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/member-search/internal/model"
)

// VocabularyProvider supplies the distinct stored values for one entity
// category. The store implements this; tests substitute a fixture.
type VocabularyProvider interface {
	DistinctValues(ctx context.Context, category model.Category) ([]string, error)
}

var yearPattern = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// Extractor finds entity mentions in raw query text by literal case-insensitive
// containment against live vocabulary, abbreviation keys, and 4-digit years.
type Extractor struct {
	vocab   VocabularyProvider
	abbrevs AbbreviationTable
}

// NewExtractor creates an Extractor over the given vocabulary source and
// abbreviation table.
func NewExtractor(vocab VocabularyProvider, abbrevs AbbreviationTable) *Extractor {
	return &Extractor{vocab: vocab, abbrevs: abbrevs}
}

// Extract scans query for entity mentions. A vocabulary read failure degrades
// that category to empty rather than failing the extraction; abbreviation and
// year matching still run.
func (e *Extractor) Extract(ctx context.Context, query string) model.ExtractedEntities {
	queryLower := strings.ToLower(query)

	var out model.ExtractedEntities
	for _, cat := range model.Categories {
		values, err := e.vocab.DistinctValues(ctx, cat)
		if err != nil {
			zap.S().Warnw("vocabulary unavailable, extracting without it",
				"category", cat, "error", err)
			values = nil
		}

		var found []string
		if cat == model.CategoryInstitutes {
			// Abbreviation keys are already lower-cased.
			for _, key := range e.abbrevs.Keys() {
				if strings.Contains(queryLower, key) {
					found = append(found, key)
				}
			}
		}
		for _, v := range values {
			if v != "" && strings.Contains(queryLower, strings.ToLower(v)) {
				found = append(found, v)
			}
		}
		out.SetCategory(cat, dedupe(found))
	}

	// Years keep text order and are not deduplicated.
	for _, m := range yearPattern.FindAllString(query, -1) {
		y, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		out.Years = append(out.Years, y)
	}
	return out
}

// dedupe removes duplicates preserving first occurrence. Returns nil for an
// empty input so untouched categories stay nil.
func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
