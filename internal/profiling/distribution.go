// Package profiling summarises the shape of the numeric sales measures.
package profiling

import (
	"math"

	"github.com/montanaflynn/stats"

	"salesboard/internal/errors"
)

// Summary holds the basic statistics of one measure.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// MeasureProfile describes the distribution of one numeric column.
type MeasureProfile struct {
	Name     string  `json:"name"`
	Summary  Summary `json:"summary"`
	Skewness float64 `json:"skewness"`
	// Outliers counts values beyond 1.5 IQR from the quartiles.
	Outliers int `json:"outliers"`
}

// Profile analyses the distribution of data.
func Profile(name string, data []float64) (MeasureProfile, error) {
	p := MeasureProfile{Name: name}
	if len(data) == 0 {
		return p, errors.InvalidInput("cannot profile " + name + ": no values")
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return p, errors.Wrapf(err, "failed to profile %s", name)
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return p, errors.Wrapf(err, "failed to profile %s", name)
	}
	min, err := stats.Min(data)
	if err != nil {
		return p, errors.Wrapf(err, "failed to profile %s", name)
	}
	max, err := stats.Max(data)
	if err != nil {
		return p, errors.Wrapf(err, "failed to profile %s", name)
	}
	median, err := stats.Median(data)
	if err != nil {
		return p, errors.Wrapf(err, "failed to profile %s", name)
	}

	// nearest-rank quartiles are defined for any non-empty sample
	q25, err := stats.PercentileNearestRank(data, 25)
	if err != nil {
		return p, errors.Wrapf(err, "failed to profile %s", name)
	}
	q75, err := stats.PercentileNearestRank(data, 75)
	if err != nil {
		return p, errors.Wrapf(err, "failed to profile %s", name)
	}

	p.Summary = Summary{
		Count:  len(data),
		Mean:   mean,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
		Median: median,
		Q25:    q25,
		Q75:    q75,
	}
	p.Skewness = calculateSkewness(data, mean, stdDev)
	p.Outliers = detectOutliers(data, q25, q75)
	return p, nil
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n
	return skewness * math.Sqrt(n*(n-1)) / (n - 2)
}

// detectOutliers identifies outliers using IQR method
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}
