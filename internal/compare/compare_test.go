package compare

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddCapsAtMaxItems(t *testing.T) {
	l := &List{}
	for i := 0; i < MaxItems; i++ {
		assert.True(t, l.Add(Product{ID: fmt.Sprintf("p%d", i), Type: "diamond"}))
	}

	assert.False(t, l.Add(Product{ID: "p-extra", Type: "diamond"}))
	assert.Len(t, l.Items(), MaxItems)
}

func TestAddDuplicateIsNoOp(t *testing.T) {
	l := &List{}
	assert.True(t, l.Add(Product{ID: "p1", Type: "diamond"}))
	assert.False(t, l.Add(Product{ID: "p1", Type: "diamond"}))
	assert.Len(t, l.Items(), 1)
}

func TestRemoveAndClear(t *testing.T) {
	l := &List{}
	l.Add(Product{ID: "p1"})
	l.Add(Product{ID: "p2"})

	l.Remove("p1")
	assert.Equal(t, []Product{{ID: "p2"}}, l.Items())

	l.Remove("missing")
	assert.Len(t, l.Items(), 1)

	l.Clear()
	assert.Empty(t, l.Items())
}

func TestByTypeScopesTheTable(t *testing.T) {
	l := &List{}
	l.Add(Product{ID: "d1", Type: "diamond"})
	l.Add(Product{ID: "g1", Type: "gemstone"})
	l.Add(Product{ID: "d2", Type: "diamond"})

	diamonds := l.ByType("diamond")
	assert.Len(t, diamonds, 2)
	assert.Equal(t, "d1", diamonds[0].ID)
	assert.Equal(t, "d2", diamonds[1].ID)
}

func TestBestValuesHighlightsAllTies(t *testing.T) {
	items := []Product{
		{ID: "a", Price: 100, Data: map[string]float64{"carat": 1.2}},
		{ID: "b", Price: 100, Data: map[string]float64{"carat": 0.9}},
		{ID: "c", Price: 250, Data: map[string]float64{"carat": 1.2}},
	}

	best := BestValues(items, DefaultRules)

	assert.ElementsMatch(t, []string{"a", "b"}, best["price"])
	assert.ElementsMatch(t, []string{"a", "c"}, best["carat"])
}

func TestBestValuesSkipsMissingAttributes(t *testing.T) {
	items := []Product{
		{ID: "a", Price: 100},
		{ID: "b", Price: 90, Data: map[string]float64{"carat": 0.5}},
	}

	best := BestValues(items, DefaultRules)

	assert.Equal(t, []string{"b"}, best["price"])
	assert.Equal(t, []string{"b"}, best["carat"])
}

func TestStoreScopesListsPerOwner(t *testing.T) {
	s := NewStore()
	s.List("alice").Add(Product{ID: "p1"})

	assert.Len(t, s.List("alice").Items(), 1)
	assert.Empty(t, s.List("bob").Items())
	assert.Same(t, s.List("alice"), s.List("alice"))
}
