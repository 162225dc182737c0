package dashboard

import (
	"math"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"salesboard/domain/sales"
)

// Group is one aggregated bucket of a dimension.
type Group struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// GroupSum sums a measure per dimension value. Groups come back in first-seen order.
func GroupSum(c sales.Collection, dim sales.Dimension, m sales.Measure) []Group {
	return groupBy(c, dim, m, stats.Sum)
}

// GroupMean averages a measure per dimension value. Groups come back in first-seen order.
func GroupMean(c sales.Collection, dim sales.Dimension, m sales.Measure) []Group {
	return groupBy(c, dim, m, stats.Mean)
}

func groupBy(c sales.Collection, dim sales.Dimension, m sales.Measure, agg func(stats.Float64Data) (float64, error)) []Group {
	buckets := orderedmap.NewOrderedMap[string, []float64]()
	for _, r := range c {
		key := dim(r)
		values, _ := buckets.Get(key)
		buckets.Set(key, append(values, m(r)))
	}

	groups := make([]Group, 0, buckets.Len())
	for el := buckets.Front(); el != nil; el = el.Next() {
		// buckets are never empty, so agg cannot fail
		value, _ := agg(el.Value)
		groups = append(groups, Group{Key: el.Key, Value: value, Count: len(el.Value)})
	}
	return groups
}

// TopGroup returns the group with the largest value. On a tie the lexicographically
// smallest key wins and tied is true. ok is false when there are no groups.
func TopGroup(groups []Group) (top Group, tied bool, ok bool) {
	for i, g := range groups {
		switch {
		case i == 0 || g.Value > top.Value:
			top, tied = g, false
		case g.Value == top.Value:
			tied = true
			if g.Key < top.Key {
				top = g
			}
		}
	}
	return top, tied, len(groups) > 0
}

// MaxRow returns the first row holding the largest value of a measure.
func MaxRow(c sales.Collection, m sales.Measure) (row sales.Row, index int, ok bool) {
	index = -1
	for i, r := range c {
		if index < 0 || m(r) > m(row) {
			row, index = r, i
		}
	}
	return row, index, index >= 0
}

// Correlation returns the Pearson correlation between Sales and Discount. It is undefined
// for fewer than two rows or when either measure is constant.
func Correlation(c sales.Collection) (float64, bool) {
	if len(c) < 2 {
		return 0, false
	}
	r := stat.Correlation(c.Values(sales.BySales), c.Values(sales.ByDiscount), nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}
