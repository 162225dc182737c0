package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesboard/domain/sales"
	"salesboard/internal/errors"
)

var defaults = Defaults{TopN: 10, Palette: "category10"}

func exampleRows() sales.Collection {
	return sales.Collection{
		{Country: "US", Category: "Tech", Sales: 100, Discount: 5},
		{Country: "US", Category: "Furniture", Sales: 50, Discount: 10},
		{Country: "DE", Category: "Tech", Sales: 200, Discount: 2},
	}
}

func storeRows() sales.Collection {
	return sales.Collection{
		{Country: "Mexico", Category: "Office Supplies", Sales: 30, Discount: 0},
		{Country: "Brazil", Category: "Technology", Sales: 900, Discount: 20},
		{Country: "Chile", Category: "Furniture", Sales: 150, Discount: 10},
		{Country: "Peru", Category: "Technology", Sales: 75, Discount: 40},
		{Country: "Mexico", Category: "Technology", Sales: 420, Discount: 5},
		{Country: "Brazil", Category: "Furniture", Sales: 60, Discount: 0},
		{Country: "Chile", Category: "Office Supplies", Sales: 12, Discount: 50},
	}
}

func TestWorkedExample(t *testing.T) {
	sel := Selection{
		Countries:  []string{"US", "DE"},
		Categories: []string{"Tech", "Furniture"},
		TopN:       3,
		Palette:    "category10",
		Explicit:   true,
	}

	rows := Apply(exampleRows(), sel)
	require.Len(t, rows, 3)

	insights, err := ComputeInsights(rows)
	require.NoError(t, err)
	assert.Equal(t, Leader{Name: "DE", Sales: 200}, insights.TopCountry)
	assert.Equal(t, Leader{Name: "Tech", Sales: 300}, insights.TopCategory)
	assert.Equal(t, sales.Row{Country: "US", Category: "Furniture", Sales: 50, Discount: 10}, insights.MaxDiscount)
}

func TestFilterCountriesIsExactSetInclusion(t *testing.T) {
	rows := storeRows()
	subset := []string{"Brazil", "Peru"}

	got := FilterCountries(rows, subset)

	want := 0
	for _, r := range rows {
		if r.Country == "Brazil" || r.Country == "Peru" {
			want++
		}
	}
	assert.Len(t, got, want)
	for _, r := range got {
		assert.Contains(t, subset, r.Country)
	}
	assert.Equal(t, "Technology", got[0].Category, "relative order is preserved")
}

func TestFilterCategories(t *testing.T) {
	got := FilterCategories(storeRows(), []string{"Furniture"})
	assert.Equal(t, []string{"Chile", "Brazil"}, got.Countries())
	assert.Empty(t, FilterCategories(storeRows(), nil))
}

func TestTopN(t *testing.T) {
	rows := storeRows()
	for _, n := range []int{0, 1, 3, 7, 50} {
		got := TopN(rows, n)

		expected := n
		if expected > len(rows) {
			expected = len(rows)
		}
		require.Len(t, got, expected)

		kept := make(map[sales.Row]bool)
		for _, r := range got {
			kept[r] = true
		}
		for _, k := range got {
			for _, r := range rows {
				if !kept[r] {
					assert.GreaterOrEqual(t, k.Sales, r.Sales)
				}
			}
		}
	}
	assert.Equal(t, 30.0, rows[0].Sales, "input is not reordered")
}

func TestTopNStableOnTies(t *testing.T) {
	rows := sales.Collection{
		{Country: "A", Sales: 10},
		{Country: "B", Sales: 20},
		{Country: "C", Sales: 10},
	}
	assert.Equal(t, []string{"B", "A", "C"}, TopN(rows, 3).Countries())
	assert.Equal(t, []string{"B", "A"}, TopN(rows, 2).Countries())
}

func TestResolveDefaults(t *testing.T) {
	sel, opts := Resolve(storeRows(), Selection{}, defaults)

	assert.Equal(t, []string{"Mexico", "Brazil", "Chile", "Peru"}, opts.Countries)
	assert.Equal(t, []string{"Mexico", "Brazil", "Chile"}, sel.Countries)
	// categories come from the country-filtered rows, in source order
	assert.Equal(t, []string{"Office Supplies", "Technology", "Furniture"}, opts.Categories)
	assert.Equal(t, []string{"Office Supplies", "Technology"}, sel.Categories)
	assert.Equal(t, 10, sel.TopN)
	assert.Equal(t, "category10", sel.Palette)
	assert.Equal(t, 5, opts.TopNMin)
	assert.Equal(t, 50, opts.TopNMax)
	assert.Len(t, opts.Palettes, 4)
	assert.NoError(t, sel.Validate())
}

func TestDefaultSelection(t *testing.T) {
	sel := DefaultSelection(storeRows(), defaults)

	assert.Equal(t, []string{"Mexico", "Brazil", "Chile"}, sel.Countries)
	assert.Equal(t, []string{"Office Supplies", "Technology"}, sel.Categories)
	assert.False(t, sel.Explicit)
}

func TestOptionsFor(t *testing.T) {
	opts := OptionsFor(storeRows(), []string{"Peru"})

	assert.Equal(t, []string{"Mexico", "Brazil", "Chile", "Peru"}, opts.Countries)
	assert.Equal(t, []string{"Technology"}, opts.Categories)
	assert.Empty(t, OptionsFor(storeRows(), nil).Categories)
}

func TestResolveCategoryOptionsFollowCountries(t *testing.T) {
	req := Selection{
		Countries:  []string{"Peru"},
		Categories: []string{"Furniture", "Technology"},
		TopN:       5,
		Palette:    "set1",
		Explicit:   true,
	}
	sel, opts := Resolve(storeRows(), req, defaults)

	assert.Equal(t, []string{"Technology"}, opts.Categories)
	assert.Equal(t, []string{"Technology"}, sel.Categories, "stale category is dropped")
	assert.Equal(t, 5, sel.TopN)
	assert.Equal(t, "set1", sel.Palette)
}

func TestResolveExplicitEmptySelection(t *testing.T) {
	sel, opts := Resolve(storeRows(), Selection{Explicit: true, TopN: 10}, defaults)

	assert.Empty(t, sel.Countries)
	assert.Empty(t, sel.Categories)
	assert.Empty(t, opts.Categories)
	assert.Empty(t, Apply(storeRows(), sel))
}

func TestResolveDropsUnknownAndDuplicateValues(t *testing.T) {
	req := Selection{Countries: []string{"Chile", "Atlantis", "Chile"}, Explicit: true}
	sel, _ := Resolve(storeRows(), req, defaults)
	assert.Equal(t, []string{"Chile"}, sel.Countries)
}

func TestResolveFewerValuesThanDefaults(t *testing.T) {
	sel, _ := Resolve(exampleRows()[:1], Selection{}, defaults)
	assert.Equal(t, []string{"US"}, sel.Countries)
	assert.Equal(t, []string{"Tech"}, sel.Categories)
}

func TestSelectionValidate(t *testing.T) {
	tests := []struct {
		name    string
		sel     Selection
		wantErr bool
	}{
		{"lower bound", Selection{TopN: 5, Palette: "dark2"}, false},
		{"upper bound", Selection{TopN: 50, Palette: "tableau10"}, false},
		{"below range", Selection{TopN: 4, Palette: "dark2"}, true},
		{"above range", Selection{TopN: 51, Palette: "dark2"}, true},
		{"unknown palette", Selection{TopN: 10, Palette: "rainbow"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sel.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGroupSumAndMean(t *testing.T) {
	rows := storeRows()

	sums := GroupSum(rows, sales.ByCountry, sales.BySales)
	assert.Equal(t, []Group{
		{Key: "Mexico", Value: 450, Count: 2},
		{Key: "Brazil", Value: 960, Count: 2},
		{Key: "Chile", Value: 162, Count: 2},
		{Key: "Peru", Value: 75, Count: 1},
	}, sums)

	means := GroupMean(rows, sales.ByCountry, sales.ByDiscount)
	assert.Equal(t, Group{Key: "Chile", Value: 30, Count: 2}, means[2])
	assert.Empty(t, GroupSum(nil, sales.ByCountry, sales.BySales))
}

func TestTopGroupTieBreak(t *testing.T) {
	top, tied, ok := TopGroup([]Group{{Key: "US", Value: 200}, {Key: "DE", Value: 200}, {Key: "FR", Value: 100}})
	require.True(t, ok)
	assert.True(t, tied)
	assert.Equal(t, "DE", top.Key)

	top, tied, _ = TopGroup([]Group{{Key: "US", Value: 200}, {Key: "DE", Value: 200}, {Key: "FR", Value: 300}})
	assert.False(t, tied, "a later strict maximum clears the tie")
	assert.Equal(t, "FR", top.Key)

	_, _, ok = TopGroup(nil)
	assert.False(t, ok)
}

func TestMaxRowReturnsFirstMaximum(t *testing.T) {
	rows := sales.Collection{
		{Country: "A", Discount: 10},
		{Country: "B", Discount: 30},
		{Country: "C", Discount: 30},
	}
	row, idx, ok := MaxRow(rows, sales.ByDiscount)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "B", row.Country)

	_, idx, ok = MaxRow(nil, sales.ByDiscount)
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestCorrelation(t *testing.T) {
	rows := sales.Collection{{Sales: 1, Discount: 2}, {Sales: 2, Discount: 4}, {Sales: 3, Discount: 6}}
	r, ok := Correlation(rows)
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-9)

	_, ok = Correlation(rows[:1])
	assert.False(t, ok)

	_, ok = Correlation(sales.Collection{{Sales: 1, Discount: 5}, {Sales: 2, Discount: 5}})
	assert.False(t, ok, "constant discount has no correlation")
}

func TestComputeInsightsEmpty(t *testing.T) {
	_, err := ComputeInsights(sales.Collection{})
	require.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, errors.CodeEmptySelection, errors.GetCode(err))
}

func TestComputeInsightsFlagsTies(t *testing.T) {
	rows := sales.Collection{
		{Country: "US", Category: "Tech", Sales: 100, Discount: 1},
		{Country: "DE", Category: "Office", Sales: 100, Discount: 1},
	}
	insights, err := ComputeInsights(rows)
	require.NoError(t, err)
	assert.Equal(t, Leader{Name: "DE", Sales: 100, Tied: true}, insights.TopCountry)
	assert.Equal(t, Leader{Name: "Office", Sales: 100, Tied: true}, insights.TopCategory)
	assert.Equal(t, "US", insights.MaxDiscount.Country)
}
