// Package sales holds the typed sales rows the dashboard works on.
package sales

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"salesboard/domain/dataset"
	"salesboard/internal/errors"
)

// Column names every dataset must provide.
const (
	ColumnCountry  = "Country"
	ColumnCategory = "Category"
	ColumnSales    = "Sales"
	ColumnDiscount = "Discount"
)

// RequiredColumns lists the mandatory columns in the order missing ones are reported.
var RequiredColumns = []string{ColumnCountry, ColumnCategory, ColumnSales, ColumnDiscount}

// Row is one sales record. Discount is a percentage as published by the source.
type Row struct {
	Country  string  `json:"country"`
	Category string  `json:"category"`
	Sales    float64 `json:"sales"`
	Discount float64 `json:"discount"`
}

// Collection is an ordered set of rows. Position is the only identity a row has.
type Collection []Row

// Measure selects a numeric column of a Row.
type Measure func(Row) float64

// Dimension selects a label column of a Row.
type Dimension func(Row) string

// Accessors for the four columns.
var (
	BySales    Measure   = func(r Row) float64 { return r.Sales }
	ByDiscount Measure   = func(r Row) float64 { return r.Discount }
	ByCountry  Dimension = func(r Row) string { return r.Country }
	ByCategory Dimension = func(r Row) string { return r.Category }
)

// MissingColumns returns the required columns absent from the table, in RequiredColumns order.
func MissingColumns(table *dataset.Table) []string {
	var missing []string
	for _, col := range RequiredColumns {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// Validate aborts with a MISSING_COLUMNS error naming exactly the absent columns.
func Validate(table *dataset.Table) error {
	if missing := MissingColumns(table); len(missing) > 0 {
		return errors.MissingColumns(missing)
	}
	return nil
}

// FromTable validates the table and converts its rows. Sales and Discount must parse as numbers.
func FromTable(table *dataset.Table) (Collection, error) {
	if err := Validate(table); err != nil {
		return nil, err
	}

	countryIdx := table.ColumnIndex(ColumnCountry)
	categoryIdx := table.ColumnIndex(ColumnCategory)
	salesIdx := table.ColumnIndex(ColumnSales)
	discountIdx := table.ColumnIndex(ColumnDiscount)

	rows := make(Collection, 0, table.Len())
	for i, rec := range table.Rows {
		salesValue, err := parseMeasure(rec[salesIdx], i+1, ColumnSales)
		if err != nil {
			return nil, err
		}
		discountValue, err := parseMeasure(rec[discountIdx], i+1, ColumnDiscount)
		if err != nil {
			return nil, err
		}

		rows = append(rows, Row{
			Country:  rec[countryIdx],
			Category: rec[categoryIdx],
			Sales:    salesValue,
			Discount: discountValue,
		})
	}
	return rows, nil
}

func parseMeasure(cell string, line int, column string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, errors.SourceMalformed(fmt.Sprintf("row %d: column %s has non-numeric value %q", line, column, cell))
	}
	// ParseFloat accepts NaN and Inf spellings, which no chart or JSON encoder can carry
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.SourceMalformed(fmt.Sprintf("row %d: column %s has non-finite value %q", line, column, cell))
	}
	return value, nil
}

// Countries returns the distinct countries in first-seen order.
func (c Collection) Countries() []string {
	return c.Unique(ByCountry)
}

// Categories returns the distinct categories in first-seen order.
func (c Collection) Categories() []string {
	return c.Unique(ByCategory)
}

// Unique returns the distinct values of a dimension in first-seen order.
func (c Collection) Unique(dim Dimension) []string {
	seen := orderedmap.NewOrderedMap[string, struct{}]()
	for _, r := range c {
		seen.Set(dim(r), struct{}{})
	}
	return seen.Keys()
}

// Values extracts a measure column.
func (c Collection) Values(m Measure) []float64 {
	out := make([]float64, len(c))
	for i, r := range c {
		out[i] = m(r)
	}
	return out
}
