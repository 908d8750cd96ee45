package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/models"
)

func meleeSample() []models.Product {
	return []models.Product{
		{ID: "m1", Type: models.ProductDiamond, Name: "Natural Melee A", Shape: "Round", Carat: 0.05, Price: 120, Color: "D", Clarity: "VS1", Cut: "Excellent"},
		{ID: "m2", Type: models.ProductDiamond, Name: "Natural Melee B", Shape: "Round", Carat: 0.10, Price: 180, Color: "E", Clarity: "VS2", Cut: "Very Good"},
		{ID: "m3", Type: models.ProductDiamond, Name: "Natural Melee C", Shape: "Princess", Carat: 0.06, Price: 140, Color: "F", Clarity: "SI1", Cut: "Good"},
		{ID: "m4", Type: models.ProductDiamond, Name: "Natural Melee D", Shape: "Round", Carat: 0.04, Price: 90, Color: "D", Clarity: "VVS1", Cut: "Excellent"},
		{ID: "m5", Type: models.ProductDiamond, Name: "Lab Melee E", Shape: "Oval", Carat: 0.08, Price: 60, Color: "G", Clarity: "VS1", Cut: "Good", LabGrown: true},
	}
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestApplyShapeAndCaratANDed(t *testing.T) {
	f := FilterValues{
		Shapes: []string{"Round"},
		Carat:  Range{Min: 0.04, Max: 0.08},
	}

	got := Apply(meleeSample(), f)

	assert.Equal(t, []string{"m1", "m4"}, ids(got))
}

func TestApplyIsIdempotentAndDoesNotMutateSource(t *testing.T) {
	source := meleeSample()
	f := FilterValues{Shapes: []string{"Round"}, Carat: Range{Min: 0.04, Max: 0.08}}

	first := Apply(source, f)
	second := Apply(source, f)

	assert.Equal(t, first, second)
	assert.Equal(t, meleeSample(), source)
}

func TestApplyEmptySelectionMeansNoConstraint(t *testing.T) {
	source := meleeSample()

	withEmpty := Apply(source, FilterValues{Shapes: []string{}, Carat: Range{Min: 0.04, Max: 0.08}})
	without := Apply(source, FilterValues{Carat: Range{Min: 0.04, Max: 0.08}})

	assert.Equal(t, without, withEmpty)
	assert.Equal(t, []string{"m1", "m3", "m4", "m5"}, ids(withEmpty))
}

func TestApplySearchCaseInsensitiveSubstring(t *testing.T) {
	got := Apply(meleeSample(), FilterValues{Search: "lab melee"})

	require.Len(t, got, 1)
	assert.Equal(t, "m5", got[0].ID)
}

func TestApplyPriceRange(t *testing.T) {
	got := Apply(meleeSample(), FilterValues{Price: Range{Min: 100, Max: 150}})

	assert.Equal(t, []string{"m1", "m3"}, ids(got))
}

func TestApplyNoCriteriaReturnsEverything(t *testing.T) {
	source := meleeSample()

	got := Apply(source, FilterValues{})

	assert.Equal(t, ids(source), ids(got))
}

func TestPaginateBounds(t *testing.T) {
	source := meleeSample()

	page, total := Paginate(source, 1, 2)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"m1", "m2"}, ids(page))

	page, _ = Paginate(source, 3, 2)
	assert.Equal(t, []string{"m5"}, ids(page))

	// Out-of-range pages clamp instead of panicking.
	page, _ = Paginate(source, 99, 2)
	assert.Equal(t, []string{"m5"}, ids(page))

	page, total = Paginate(nil, 1, 2)
	assert.Empty(t, page)
	assert.Equal(t, 1, total)
}
