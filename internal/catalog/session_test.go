package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionFilterChangeResetsPage(t *testing.T) {
	s := NewSession(meleeSample(), 2, time.Millisecond)
	defer s.Close()

	s.SetPage(3)
	assert.Equal(t, 3, s.Page())

	s.SetFilters(FilterValues{Shapes: []string{"Round"}})
	assert.Equal(t, 1, s.Page(), "any filter change must reset to the first page")
}

func TestSessionRecomputesAfterDebounce(t *testing.T) {
	s := NewSession(meleeSample(), 10, 5*time.Millisecond)
	defer s.Close()

	s.SetFilters(FilterValues{Shapes: []string{"Round"}})

	assert.Eventually(t, func() bool {
		view, _ := s.View()
		return len(view) == 3
	}, time.Second, 2*time.Millisecond)
}

func TestSessionSupersededFilterNeverApplies(t *testing.T) {
	s := NewSession(meleeSample(), 10, 20*time.Millisecond)
	defer s.Close()

	s.SetFilters(FilterValues{Shapes: []string{"Princess"}})
	s.SetFilters(FilterValues{Shapes: []string{"Oval"}})

	assert.Eventually(t, func() bool {
		view, _ := s.View()
		return len(view) == 1 && view[0].Shape == "Oval"
	}, time.Second, 5*time.Millisecond)
}

func TestSessionViewBeforeDebounceShowsPreviousResult(t *testing.T) {
	s := NewSession(meleeSample(), 10, 50*time.Millisecond)
	defer s.Close()

	view, _ := s.View()
	assert.Len(t, view, 5)

	s.SetFilters(FilterValues{Shapes: []string{"Round"}})

	// The recompute has not fired yet; the stale view is still visible.
	view, _ = s.View()
	assert.Len(t, view, 5)
}
