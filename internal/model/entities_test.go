package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByCategoryRoundTrip(t *testing.T) {
	var e ExtractedEntities
	for _, c := range Categories {
		e.SetCategory(c, []string{string(c)})
		assert.Equal(t, []string{string(c)}, e.ByCategory(c))
	}
}

func TestExtractedIsEmpty(t *testing.T) {
	var e ExtractedEntities
	assert.True(t, e.IsEmpty())

	e.Years = []int{2020}
	assert.False(t, e.IsEmpty())

	e = ExtractedEntities{Companies: []string{"Google"}}
	assert.False(t, e.IsEmpty())
}

func TestNormalizedIsEmpty(t *testing.T) {
	var n NormalizedEntities
	assert.True(t, n.IsEmpty())

	n.SetCategory(CategoryRoles, CandidateMap{"ceo": {"CEO"}})
	assert.False(t, n.IsEmpty())
	assert.Equal(t, CandidateMap{"ceo": {"CEO"}}, n.ByCategory(CategoryRoles))
}
