package charts

import (
	"fmt"

	"salesboard/domain/sales"
	"salesboard/internal/dashboard"
)

// HighestSaleLabel marks the single largest sale on the category chart.
const HighestSaleLabel = "⬆ Highest sale"

// Set is the three dashboard charts for one run.
type Set struct {
	SalesByCategory   Spec `json:"sales_by_category"`
	DiscountByCountry Spec `json:"discount_by_country"`
	SalesVsDiscount   Spec `json:"sales_vs_discount"`
}

type categoryBar struct {
	Category string  `json:"category"`
	Sales    float64 `json:"sales"`
	Count    int     `json:"count"`
}

type countryBar struct {
	Country  string  `json:"country"`
	Discount float64 `json:"discount"`
	Count    int     `json:"count"`
}

type annotation struct {
	Category string  `json:"category"`
	Sales    float64 `json:"sales"`
}

// Build renders all three charts over the filtered rows with the given Vega scheme.
func Build(rows sales.Collection, palette string) Set {
	return Set{
		SalesByCategory:   SalesByCategory(rows, palette),
		DiscountByCountry: MeanDiscountByCountry(rows, palette),
		SalesVsDiscount:   SalesVsDiscount(rows, palette),
	}
}

// SalesByCategory is a bar of summed Sales per Category, tallest first, annotated at the
// Category and Sales of the highest single sale.
func SalesByCategory(rows sales.Collection, palette string) Spec {
	groups := dashboard.GroupSum(rows, sales.ByCategory, sales.BySales)
	bars := make([]categoryBar, len(groups))
	for i, g := range groups {
		bars[i] = categoryBar{Category: g.Key, Sales: g.Value, Count: g.Count}
	}

	x := nominal("category", "Category")
	x.Sort = "-y"
	bar := Layer{
		Data: &Data{Values: bars},
		Mark: &Mark{Type: "bar", Tooltip: true},
		Encoding: &Encoding{
			X:     x,
			Y:     quantitative("sales", "Sales"),
			Color: colorBy("category", "Category", palette),
			Tooltip: []Channel{
				*nominal("category", "Category"),
				{Field: "sales", Type: Quantitative, Title: "Sales", Format: ",.2f"},
				*quantitative("count", "Rows"),
			},
		},
	}

	spec := newSpec("Sales by category", "")
	spec.Layer = []Layer{bar}

	if top, _, ok := dashboard.MaxRow(rows, sales.BySales); ok {
		spec.Layer = append(spec.Layer, Layer{
			Data: &Data{Values: []annotation{{Category: top.Category, Sales: top.Sales}}},
			Mark: &Mark{Type: "text", Color: "red", FontWeight: "bold", Dy: -10},
			Encoding: &Encoding{
				X:    nominal("category", "Category"),
				Y:    quantitative("sales", "Sales"),
				Text: &Channel{Value: HighestSaleLabel},
			},
		})
	}
	return spec
}

// MeanDiscountByCountry is a bar of the average Discount per Country.
func MeanDiscountByCountry(rows sales.Collection, palette string) Spec {
	groups := dashboard.GroupMean(rows, sales.ByCountry, sales.ByDiscount)
	bars := make([]countryBar, len(groups))
	for i, g := range groups {
		bars[i] = countryBar{Country: g.Key, Discount: g.Value, Count: g.Count}
	}

	spec := newSpec("Average discount by country", "")
	spec.Data = &Data{Values: bars}
	spec.Mark = &Mark{Type: "bar", Tooltip: true}
	spec.Encoding = &Encoding{
		X:     nominal("country", "Country"),
		Y:     quantitative("discount", "Average discount"),
		Color: colorBy("country", "Country", palette),
		Tooltip: []Channel{
			*nominal("country", "Country"),
			{Field: "discount", Type: Quantitative, Title: "Average discount", Format: ".2f"},
			*quantitative("count", "Rows"),
		},
	}
	return spec
}

// SalesVsDiscount scatters every row's Discount against its Sales, colored by Category.
// The Pearson correlation is the subtitle when it is defined.
func SalesVsDiscount(rows sales.Collection, palette string) Spec {
	subtitle := ""
	if r, ok := dashboard.Correlation(rows); ok {
		subtitle = fmt.Sprintf("Pearson r = %.2f", r)
	}

	spec := newSpec("Sales vs discount", subtitle)
	spec.Data = &Data{Values: append(sales.Collection{}, rows...)}
	spec.Mark = &Mark{Type: "circle", Size: 80, Tooltip: true}
	spec.Encoding = &Encoding{
		X:     unzeroed(quantitative("discount", "Discount")),
		Y:     unzeroed(quantitative("sales", "Sales")),
		Color: colorBy("category", "Category", palette),
		Tooltip: []Channel{
			*nominal("country", "Country"),
			*nominal("category", "Category"),
			*quantitative("sales", "Sales"),
			*quantitative("discount", "Discount"),
		},
	}
	return spec
}
