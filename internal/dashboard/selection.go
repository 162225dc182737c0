// Package dashboard holds the filter and aggregation semantics behind the sales dashboard.
package dashboard

import (
	"fmt"

	"salesboard/domain/sales"
	"salesboard/internal/config"
	"salesboard/internal/errors"
)

// How many countries and categories are preselected on a fresh dashboard.
const (
	DefaultCountryCount  = 3
	DefaultCategoryCount = 2
)

// Selection is the state of the sidebar controls for one run.
type Selection struct {
	Countries  []string `json:"countries"`
	Categories []string `json:"categories"`
	TopN       int      `json:"top_n"`
	Palette    string   `json:"palette"`
	// Explicit marks a selection the user submitted. Without it the default lists apply,
	// with it empty lists stay empty.
	Explicit bool `json:"explicit"`
}

// Options lists what the controls may choose from.
type Options struct {
	Countries  []string `json:"countries"`
	Categories []string `json:"categories"`
	TopNMin    int      `json:"top_n_min"`
	TopNMax    int      `json:"top_n_max"`
	Palettes   []string `json:"palettes"`
}

// Defaults are the configured initial slider and palette values.
type Defaults struct {
	TopN    int
	Palette string
}

// DefaultsFrom reads the dashboard defaults out of configuration.
func DefaultsFrom(cfg config.DashboardConfig) Defaults {
	return Defaults{TopN: cfg.DefaultTopN, Palette: cfg.DefaultPalette}
}

// OptionsFor lists the control choices for a set of selected countries.
// Country options come from the full collection; category options from the rows left after
// the country filter, so they shrink as countries are deselected.
func OptionsFor(c sales.Collection, countries []string) Options {
	return Options{
		Countries:  c.Countries(),
		Categories: FilterCountries(c, countries).Categories(),
		TopNMin:    config.MinTopN,
		TopNMax:    config.MaxTopN,
		Palettes:   append([]string(nil), config.Palettes...),
	}
}

// DefaultSelection is what a fresh dashboard shows before the user touches the controls.
func DefaultSelection(c sales.Collection, defaults Defaults) Selection {
	countries := head(c.Countries(), DefaultCountryCount)
	return Selection{
		Countries:  countries,
		Categories: head(FilterCountries(c, countries).Categories(), DefaultCategoryCount),
		TopN:       defaults.TopN,
		Palette:    defaults.Palette,
	}
}

// Resolve turns a requested selection into the effective one and the options shown beside it.
// Requested values that are not currently on offer are dropped.
func Resolve(c sales.Collection, req Selection, defaults Defaults) (Selection, Options) {
	if !req.Explicit {
		sel := DefaultSelection(c, defaults)
		if req.TopN != 0 {
			sel.TopN = req.TopN
		}
		if req.Palette != "" {
			sel.Palette = req.Palette
		}
		return sel, OptionsFor(c, sel.Countries)
	}

	sel := Selection{
		TopN:     req.TopN,
		Palette:  req.Palette,
		Explicit: true,
	}
	if sel.TopN == 0 {
		sel.TopN = defaults.TopN
	}
	if sel.Palette == "" {
		sel.Palette = defaults.Palette
	}

	sel.Countries = intersect(req.Countries, c.Countries())
	opts := OptionsFor(c, sel.Countries)
	sel.Categories = intersect(req.Categories, opts.Categories)
	return sel, opts
}

// Validate checks the slider and palette values.
func (s Selection) Validate() error {
	if s.TopN < config.MinTopN || s.TopN > config.MaxTopN {
		return errors.InvalidInput(fmt.Sprintf("top_n must be between %d and %d, got %d", config.MinTopN, config.MaxTopN, s.TopN))
	}
	if !config.IsPalette(s.Palette) {
		return errors.InvalidInput(fmt.Sprintf("unknown palette %q", s.Palette))
	}
	return nil
}

func head(values []string, n int) []string {
	if len(values) < n {
		n = len(values)
	}
	return append([]string{}, values[:n]...)
}

// intersect keeps the requested values that are offered, in request order, without duplicates.
func intersect(requested, offered []string) []string {
	allowed := toSet(offered)
	out := []string{}
	seen := make(map[string]bool, len(requested))
	for _, v := range requested {
		if allowed[v] && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
