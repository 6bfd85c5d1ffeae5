package text2sql

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/member-search/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// scriptedGenerator returns its responses in order; a nil entry means an
// error for that call.
type scriptedGenerator struct {
	responses []*string
	prompts   []string
	calls     int
}

func str(s string) *string { return &s }

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	i := g.calls
	g.calls++
	if i >= len(g.responses) || g.responses[i] == nil {
		return "", eris.New("provider unavailable")
	}
	return *g.responses[i], nil
}

func testSynthesizer(gen *scriptedGenerator) *Synthesizer {
	return NewSynthesizer(gen, SynthesizerConfig{
		Dialect:    "PostgreSQL",
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	})
}

const goodSQL = "SELECT DISTINCT m.member_id FROM members m LIMIT 100"

func TestSynthesizeSuccess(t *testing.T) {
	gen := &scriptedGenerator{responses: []*string{str(goodSQL)}}
	s := testSynthesizer(gen)

	sql, attempts, err := s.Synthesize(context.Background(), "who?", model.NormalizedEntities{})
	require.NoError(t, err)
	assert.Equal(t, goodSQL, sql)
	assert.Equal(t, 1, attempts)
}

func TestSynthesizeStripsCodeFences(t *testing.T) {
	gen := &scriptedGenerator{responses: []*string{str("```sql\n" + goodSQL + "\n```")}}
	s := testSynthesizer(gen)

	sql, _, err := s.Synthesize(context.Background(), "who?", model.NormalizedEntities{})
	require.NoError(t, err)
	assert.Equal(t, goodSQL, sql)
}

func TestSynthesizeRetriesMalformedThenSucceeds(t *testing.T) {
	// Attempt 1: too short. Attempt 2: no SELECT. Attempt 3: good.
	gen := &scriptedGenerator{responses: []*string{
		str("x"),
		str("I cannot generate SQL for that question"),
		str(goodSQL),
	}}
	s := testSynthesizer(gen)

	sql, attempts, err := s.Synthesize(context.Background(), "who?", model.NormalizedEntities{})
	require.NoError(t, err)
	assert.Equal(t, goodSQL, sql)
	assert.Equal(t, 3, attempts)
}

func TestSynthesizeRetriesTransportErrors(t *testing.T) {
	gen := &scriptedGenerator{responses: []*string{nil, nil, str(goodSQL)}}
	s := testSynthesizer(gen)

	sql, attempts, err := s.Synthesize(context.Background(), "who?", model.NormalizedEntities{})
	require.NoError(t, err)
	assert.Equal(t, goodSQL, sql)
	assert.Equal(t, 3, attempts)
}

func TestSynthesizeExhaustsAfterExactlyThreeAttempts(t *testing.T) {
	gen := &scriptedGenerator{responses: []*string{nil, nil, nil, str(goodSQL)}}
	s := testSynthesizer(gen)

	_, attempts, err := s.Synthesize(context.Background(), "who?", model.NormalizedEntities{})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, gen.calls)
}

func TestSynthesizeSamePromptEveryAttempt(t *testing.T) {
	gen := &scriptedGenerator{responses: []*string{nil, nil, nil}}
	s := testSynthesizer(gen)

	_, _, _ = s.Synthesize(context.Background(), "who worked at Google?", model.NormalizedEntities{})
	require.Len(t, gen.prompts, 3)
	assert.Equal(t, gen.prompts[0], gen.prompts[1])
	assert.Equal(t, gen.prompts[1], gen.prompts[2])
}

func TestSynthesizePromptContents(t *testing.T) {
	gen := &scriptedGenerator{responses: []*string{str(goodSQL)}}
	s := testSynthesizer(gen)

	normalized := model.NormalizedEntities{
		Companies: model.CandidateMap{"google": {"google", "Google"}},
	}
	_, _, err := s.Synthesize(context.Background(), "who worked at google?", normalized)
	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "# DATABASE SCHEMA")
	assert.Contains(t, prompt, "who worked at google?")
	assert.Contains(t, prompt, "'google' → ['google', 'Google']")
	assert.Contains(t, prompt, "valid PostgreSQL")
}

func TestCheckShape(t *testing.T) {
	assert.Error(t, checkShape(""))
	assert.Error(t, checkShape("SELECT 1"))                // under 10 chars
	assert.Error(t, checkShape("this is not a query at all"))
	assert.NoError(t, checkShape("select * from members"))
	assert.NoError(t, checkShape(goodSQL))
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "SELECT 1 FROM members", StripFences("```sql\nSELECT 1 FROM members\n```"))
	assert.Equal(t, "SELECT 1 FROM members", StripFences("  SELECT 1 FROM members  "))
}

func TestEntityContextEmpty(t *testing.T) {
	assert.Equal(t, "No entities found", EntityContext(model.NormalizedEntities{}))
}

func TestEntityContextRendering(t *testing.T) {
	normalized := model.NormalizedEntities{
		Companies: model.CandidateMap{"google": {"google", "Google"}},
		Years:     model.CandidateMap{"2015": {"2015"}},
	}
	got := EntityContext(normalized)
	assert.Contains(t, got, "- Companies:")
	assert.Contains(t, got, "  'google' → ['google', 'Google']")
	assert.Contains(t, got, "- Years:")
	assert.Contains(t, got, "  '2015' → ['2015']")
}

func TestSchemaContextDialect(t *testing.T) {
	assert.Contains(t, SchemaContext("SQLite"), "valid SQLite syntax")
	assert.Contains(t, SchemaContext("PostgreSQL"), "valid PostgreSQL syntax")
}
