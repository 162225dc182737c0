package dashboard

import (
	"sort"

	"salesboard/domain/sales"
)

// FilterCountries keeps rows whose country is in the set. Relative order is preserved.
func FilterCountries(c sales.Collection, countries []string) sales.Collection {
	return filterBy(c, sales.ByCountry, countries)
}

// FilterCategories keeps rows whose category is in the set. Relative order is preserved.
func FilterCategories(c sales.Collection, categories []string) sales.Collection {
	return filterBy(c, sales.ByCategory, categories)
}

func filterBy(c sales.Collection, dim sales.Dimension, allowed []string) sales.Collection {
	set := toSet(allowed)
	out := make(sales.Collection, 0, len(c))
	for _, r := range c {
		if set[dim(r)] {
			out = append(out, r)
		}
	}
	return out
}

// TopN sorts by Sales descending and keeps the first n rows. Equal sales keep source order.
func TopN(c sales.Collection, n int) sales.Collection {
	sorted := append(sales.Collection(nil), c...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Sales > sorted[j].Sales
	})
	if n < 0 {
		n = 0
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Apply runs country, category and top-N filters in sequence, each over the previous result.
func Apply(c sales.Collection, sel Selection) sales.Collection {
	out := FilterCountries(c, sel.Countries)
	out = FilterCategories(out, sel.Categories)
	return TopN(out, sel.TopN)
}
