package partners

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partnerpay/partnerpay/internal/model"
)

func registry() []model.Partner {
	return []model.Partner{
		{ID: "p-nike", Name: "Nike"},
		{ID: "p-gatorade", Name: "Gatorade"},
		{ID: "p-ea", Name: "EA Sports", IsFlexFund: true},
	}
}

func TestContainsMatcher_CaseAndWhitespace(t *testing.T) {
	m := ContainsMatcher{}
	reg := []model.Partner{{ID: "p-nike", Name: "Nike"}}

	a, ok := m.Match(" nike ", reg)
	require.True(t, ok)
	b, ok := m.Match("NIKE", reg)
	require.True(t, ok)
	assert.Equal(t, a, b)
	assert.Equal(t, "p-nike", a.ID)

	// Idempotent: same input, same answer.
	c, ok := m.Match("NIKE", reg)
	require.True(t, ok)
	assert.Equal(t, b, c)
}

func TestContainsMatcher_ContainmentAmbiguity(t *testing.T) {
	// "Nike Inc" resolves to "Nike" through containment. This is accepted
	// behavior: partners whose names are substrings of each other collide.
	m := ContainsMatcher{}
	p, ok := m.Match("Nike Inc", []model.Partner{{ID: "p-nike", Name: "Nike"}, {ID: "p-gatorade", Name: "Gatorade"}})
	require.True(t, ok)
	assert.Equal(t, "Nike", p.Name)
}

func TestContainsMatcher_ExactBeatsContainment(t *testing.T) {
	m := ContainsMatcher{}
	reg := []model.Partner{
		{ID: "p-nike-inc", Name: "Nike Inc"},
		{ID: "p-nike", Name: "Nike"},
	}
	p, ok := m.Match("nike", reg)
	require.True(t, ok)
	assert.Equal(t, "p-nike", p.ID, "exact match wins over earlier containment hit")
}

func TestContainsMatcher_FirstContainmentInRegistryOrder(t *testing.T) {
	m := ContainsMatcher{}
	reg := []model.Partner{
		{ID: "p-1", Name: "Sports Drinks Co"},
		{ID: "p-2", Name: "EA Sports"},
	}
	p, ok := m.Match("sports", reg)
	require.True(t, ok)
	assert.Equal(t, "p-1", p.ID)
}

func TestContainsMatcher_NoMatch(t *testing.T) {
	m := ContainsMatcher{}
	_, ok := m.Match("Adidas", registry())
	assert.False(t, ok)

	_, ok = m.Match("   ", registry())
	assert.False(t, ok, "blank input never matches")

	_, ok = m.Match("Nike", nil)
	assert.False(t, ok)
}

func TestContainsMatcher_MinLength(t *testing.T) {
	m := ContainsMatcher{MinLength: 4}
	reg := registry()

	_, ok := m.Match("ea", reg)
	assert.False(t, ok, "short input must not match by containment")

	p, ok := m.Match("ea sports", reg)
	require.True(t, ok, "exact match ignores the guard")
	assert.Equal(t, "p-ea", p.ID)

	p, ok = m.Match("Gatorade Company", reg)
	require.True(t, ok)
	assert.Equal(t, "p-gatorade", p.ID)
}

func TestClosestMatcher_FallbackFirst(t *testing.T) {
	m := ClosestMatcher{Fallback: ContainsMatcher{}}
	p, ok := m.Match("Nike Inc", registry())
	require.True(t, ok)
	assert.Equal(t, "p-nike", p.ID)
}

func TestClosestMatcher_Misspelling(t *testing.T) {
	m := ClosestMatcher{Fallback: ContainsMatcher{}}
	p, ok := m.Match("Gatoraid", registry())
	require.True(t, ok)
	assert.Equal(t, "p-gatorade", p.ID)
}

func TestClosestMatcher_Diacritics(t *testing.T) {
	m := ClosestMatcher{}
	reg := []model.Partner{{ID: "p-1", Name: "Adidas"}, {ID: "p-2", Name: "Gatorade"}}
	p, ok := m.Match("Adidás", reg)
	require.True(t, ok)
	assert.Equal(t, "p-1", p.ID)
}

func TestClosestMatcher_UnrelatedNameMisses(t *testing.T) {
	m := ClosestMatcher{Fallback: ContainsMatcher{}}
	for _, name := range []string{"Adidas", "Puma", "Under Armour"} {
		_, ok := m.Match(name, registry())
		assert.False(t, ok, name)
	}
}

func TestClosestMatcher_Threshold(t *testing.T) {
	reg := []model.Partner{{ID: "p-gatorade", Name: "Gatorade"}}

	_, ok := ClosestMatcher{MinSimilarity: 0.9}.Match("Gatoraid", reg)
	assert.False(t, ok, "0.71 similarity is below 0.9")

	p, ok := ClosestMatcher{MinSimilarity: 0.6}.Match("Gatoraid", reg)
	require.True(t, ok)
	assert.Equal(t, "p-gatorade", p.ID)
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"nike", "nike", 1},
		{"gatoraid", "gatorade", 10.0 / 14.0},
		{"adidas", "gatorade", 2.0 / 12.0},
		{"x", "y", 0},
		{"", "nike", 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9, "%s vs %s", tt.a, tt.b)
	}
}

func TestClosestMatcher_Empty(t *testing.T) {
	m := ClosestMatcher{Fallback: ContainsMatcher{}}
	_, ok := m.Match("", registry())
	assert.False(t, ok)
	_, ok = m.Match("Nike", nil)
	assert.False(t, ok)
}

func TestNewMatcher(t *testing.T) {
	m, err := NewMatcher("", 0, 0)
	require.NoError(t, err)
	assert.IsType(t, ContainsMatcher{}, m)

	m, err = NewMatcher("Closest", 3, 0.7)
	require.NoError(t, err)
	cm, ok := m.(ClosestMatcher)
	require.True(t, ok)
	assert.Equal(t, ContainsMatcher{MinLength: 3}, cm.Fallback)
	assert.InDelta(t, 0.7, cm.MinSimilarity, 1e-9)

	_, err = NewMatcher("levenshtein", 0, 0)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ea sports", Normalize("  EA Sports\t"))
	assert.Equal(t, "", Normalize("   "))
}
