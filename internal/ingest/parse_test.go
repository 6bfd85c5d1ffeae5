package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func TestParseLocationThreeParts(t *testing.T) {
	city, state, country := ParseLocation("Seattle, Washington, United States")
	assert.Equal(t, "Seattle", deref(city))
	assert.Equal(t, "Washington", deref(state))
	assert.Equal(t, "United States", deref(country))
}

func TestParseLocationTwoParts(t *testing.T) {
	city, state, country := ParseLocation("London, United Kingdom")
	assert.Equal(t, "London", deref(city))
	assert.Nil(t, state)
	assert.Equal(t, "United Kingdom", deref(country))
}

func TestParseLocationOnePart(t *testing.T) {
	city, state, country := ParseLocation("Berlin")
	assert.Equal(t, "Berlin", deref(city))
	assert.Nil(t, state)
	assert.Nil(t, country)
}

func TestParseLocationEmpty(t *testing.T) {
	city, state, country := ParseLocation("   ")
	assert.Nil(t, city)
	assert.Nil(t, state)
	assert.Nil(t, country)
}

func TestParseRowFull(t *testing.T) {
	row := map[string]string{
		"uri":        "member-42",
		"first_name": " Ada ",
		"last_name":  "Lovelace",
		"bio":        "pioneer",
		"title":      "Engineer",
		"experience": `[{"company":"Google","role":"SWE","is_current":true,
			"enrichment":{"industry":"Tech","location":"Seattle, Washington, United States"}}]`,
		"education":              `[{"institute":"MIT","degree":"BSc","course":"CS"}]`,
		"domains_of_exploration": `["ai","infra"]`,
		"content":                "hello world",
	}

	parsed, err := ParseRow(row, 2)
	require.NoError(t, err)
	assert.Empty(t, parsed.Errors)

	assert.Equal(t, "member-42", parsed.Member.MemberID)
	assert.Equal(t, "member-42", parsed.Member.URI)
	assert.Equal(t, "Ada", parsed.Member.FirstName)

	require.Len(t, parsed.Experiences, 1)
	exp := parsed.Experiences[0]
	assert.Equal(t, "Google", exp.Company)
	assert.True(t, exp.IsCurrent)
	assert.Equal(t, "Tech", exp.Industry)
	assert.Equal(t, "Seattle", deref(exp.City))
	assert.Equal(t, "Washington", deref(exp.State))

	require.Len(t, parsed.Education, 1)
	assert.Equal(t, "MIT", parsed.Education[0].Institute)

	assert.Equal(t, []string{"ai", "infra"}, parsed.Domains)
	assert.Equal(t, "hello world", parsed.Content)
}

func TestParseRowMissingURI(t *testing.T) {
	_, err := ParseRow(map[string]string{"first_name": "Ada"}, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 7")
}

func TestParseRowSkipsChildrenMissingRequiredField(t *testing.T) {
	row := map[string]string{
		"uri":        "m1",
		"experience": `[{"company":""},{"company":"Google"}]`,
		"education":  `[{"institute":""},{"institute":"MIT"}]`,
	}
	parsed, err := ParseRow(row, 2)
	require.NoError(t, err)
	require.Len(t, parsed.Experiences, 1)
	assert.Equal(t, "Google", parsed.Experiences[0].Company)
	require.Len(t, parsed.Education, 1)
	assert.Equal(t, "MIT", parsed.Education[0].Institute)
}

func TestParseRowBadJSONIsNonFatal(t *testing.T) {
	row := map[string]string{
		"uri":        "m1",
		"experience": `not json`,
		"education":  `[{"institute":"MIT"}]`,
	}
	parsed, err := ParseRow(row, 3)
	require.NoError(t, err)
	assert.Len(t, parsed.Errors, 1)
	assert.Empty(t, parsed.Experiences)
	assert.Len(t, parsed.Education, 1)
}

func TestParseRowDomainsCommaSeparated(t *testing.T) {
	row := map[string]string{
		"uri":                    "m1",
		"domains_of_exploration": "ai, infra , ",
	}
	parsed, err := ParseRow(row, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"ai", "infra"}, parsed.Domains)
}
