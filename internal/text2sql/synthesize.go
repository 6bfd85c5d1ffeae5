package text2sql

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/member-search/internal/model"
	"github.com/sells-group/member-search/internal/resilience"
	"github.com/sells-group/member-search/pkg/llm"
)

// noEntitiesContext is rendered into the prompt when normalization found
// nothing to pin down.
const noEntitiesContext = "No entities found"

// SynthesizerConfig bounds the retry loop around generation.
type SynthesizerConfig struct {
	Dialect    string
	MaxRetries int
	RetryDelay time.Duration
}

// Synthesizer builds the generation prompt and retries until the model
// produces plausibly-shaped SQL. It never lets a generation error escape;
// exhausted retries surface as an error return, and the same prompt is
// replayed on every attempt.
type Synthesizer struct {
	gen llm.Generator
	cfg SynthesizerConfig
}

// NewSynthesizer creates a Synthesizer over the given generator.
func NewSynthesizer(gen llm.Generator, cfg SynthesizerConfig) *Synthesizer {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Dialect == "" {
		cfg.Dialect = "PostgreSQL"
	}
	return &Synthesizer{gen: gen, cfg: cfg}
}

// Synthesize generates SQL for the query. attempts reports how many
// generation calls were made, success or not.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, normalized model.NormalizedEntities) (sql string, attempts int, err error) {
	prompt := s.buildPrompt(query, normalized)

	sql, err = resilience.DoVal(ctx, resilience.RetryConfig{
		MaxAttempts: s.cfg.MaxRetries,
		Delay:       s.cfg.RetryDelay,
		OnRetry:     resilience.RetryLogger("llm", "synthesize"),
	}, func(ctx context.Context) (string, error) {
		attempts++
		raw, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			return "", eris.Wrap(err, "text2sql: generate")
		}
		candidate := StripFences(raw)
		if err := checkShape(candidate); err != nil {
			return "", err
		}
		return candidate, nil
	})
	if err != nil {
		return "", attempts, eris.Wrapf(err, "text2sql: synthesis exhausted after %d attempts", attempts)
	}
	return sql, attempts, nil
}

func (s *Synthesizer) buildPrompt(query string, normalized model.NormalizedEntities) string {
	return fmt.Sprintf(`%s

# USER QUERY
%s

# NORMALIZED ENTITIES (extracted and fuzzy-matched)
%s

# INSTRUCTIONS
1. Use the original query to understand user intent
2. Use normalized entities as exact filter values in WHERE clause
3. Generate ONLY valid %s SQL query
4. Use DISTINCT to avoid duplicates
5. Include member info and relevant details
6. Order by first_name, last_name
7. Do NOT include explanations or markdown
8. Return only the raw SQL query

# RESPONSE
Generate the SQL query:`,
		SchemaContext(s.cfg.Dialect), query, EntityContext(normalized), s.cfg.Dialect)
}

var entityCaser = cases.Title(language.English)

// EntityContext renders normalized entities for the prompt, one category
// header per non-empty category followed by original-to-candidates lines.
// Originals are sorted within a category for stable output.
func EntityContext(normalized model.NormalizedEntities) string {
	var lines []string
	appendCategory := func(label string, m model.CandidateMap) {
		if len(m) == 0 {
			return
		}
		lines = append(lines, "- "+label+":")
		originals := make([]string, 0, len(m))
		for original := range m {
			originals = append(originals, original)
		}
		sort.Strings(originals)
		for _, original := range originals {
			quoted := make([]string, len(m[original]))
			for i, c := range m[original] {
				quoted[i] = "'" + c + "'"
			}
			lines = append(lines, fmt.Sprintf("  '%s' → [%s]", original, strings.Join(quoted, ", ")))
		}
	}

	for _, cat := range model.Categories {
		appendCategory(entityCaser.String(string(cat)), normalized.ByCategory(cat))
	}
	appendCategory("Years", normalized.Years)

	if len(lines) == 0 {
		return noEntitiesContext
	}
	return strings.Join(lines, "\n")
}

// StripFences removes markdown code-fence markers from a model response.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```sql", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// checkShape rejects responses that cannot plausibly be a SQL query:
// empty, shorter than 10 characters, or missing a SELECT token.
func checkShape(sql string) error {
	if sql == "" || len(sql) < 10 {
		return eris.New("text2sql: response too short to be SQL")
	}
	if !strings.Contains(strings.ToUpper(sql), "SELECT") {
		return eris.New("text2sql: response missing SELECT")
	}
	return nil
}
