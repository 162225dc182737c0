package dashboard

import (
	"salesboard/domain/sales"
	"salesboard/internal/errors"
)

// ErrEmptySelection is returned when the filters leave nothing to summarise.
var ErrEmptySelection = errors.New(errors.CodeEmptySelection, "no rows match the current selection")

// Leader is the winning group of a sum-of-sales ranking.
type Leader struct {
	Name  string  `json:"name"`
	Sales float64 `json:"sales"`
	// Tied is set when another group reached the same total; Name is then the alphabetically first.
	Tied bool `json:"tied"`
}

// Insights are the narrative facts derived from the filtered rows.
type Insights struct {
	TopCountry  Leader    `json:"top_country"`
	TopCategory Leader    `json:"top_category"`
	MaxDiscount sales.Row `json:"max_discount"`
}

// ComputeInsights finds the top country and category by summed Sales and the max-Discount row.
func ComputeInsights(c sales.Collection) (*Insights, error) {
	if len(c) == 0 {
		return nil, ErrEmptySelection
	}

	country, countryTied, _ := TopGroup(GroupSum(c, sales.ByCountry, sales.BySales))
	category, categoryTied, _ := TopGroup(GroupSum(c, sales.ByCategory, sales.BySales))
	maxDiscount, _, _ := MaxRow(c, sales.ByDiscount)

	return &Insights{
		TopCountry:  Leader{Name: country.Key, Sales: country.Value, Tied: countryTied},
		TopCategory: Leader{Name: category.Key, Sales: category.Value, Tied: categoryTied},
		MaxDiscount: maxDiscount,
	}, nil
}
