package app

import (
	"context"
	"time"

	"salesboard/domain/core"
	"salesboard/domain/dataset"
	"salesboard/domain/sales"
	"salesboard/internal/charts"
	"salesboard/internal/dashboard"
	"salesboard/internal/errors"
	"salesboard/internal/logger"
	"salesboard/internal/narrative"
	"salesboard/internal/profiling"
	"salesboard/ports"
)

// DashboardService runs the load, validate, filter and present pipeline for one run.
type DashboardService struct {
	source   ports.SalesSource
	defaults dashboard.Defaults
	log      *logger.Logger
	now      func() time.Time
}

// Dashboard is everything a single run produces.
type Dashboard struct {
	RunID     core.RunID          `json:"run_id"`
	Source    string              `json:"source"`
	Dataset   core.Hash           `json:"dataset_hash"`
	LoadedAt  time.Time           `json:"loaded_at"`
	Selection dashboard.Selection `json:"selection"`
	Options   dashboard.Options   `json:"options"`
	TotalRows int                 `json:"total_rows"`
	Rows      sales.Collection    `json:"rows"`
	// Empty is set when the filters leave no rows. Charts, Insights and Summary are then unset.
	Empty    bool                `json:"empty"`
	Insights *dashboard.Insights `json:"insights,omitempty"`
	Charts   *charts.Set         `json:"charts,omitempty"`
	Summary  string              `json:"summary,omitempty"`
}

// ValidationResult describes a dataset checked against the required columns.
type ValidationResult struct {
	Source     string                     `json:"source"`
	Dataset    core.Hash                  `json:"dataset_hash"`
	Columns    []string                   `json:"columns"`
	Rows       int                        `json:"rows"`
	Missing    []string                   `json:"missing"`
	Countries  int                        `json:"countries"`
	Categories int                        `json:"categories"`
	Profiles   []profiling.MeasureProfile `json:"profiles,omitempty"`
}

// Valid reports whether every required column is present.
func (v *ValidationResult) Valid() bool {
	return len(v.Missing) == 0
}

// invalidator is implemented by sources that keep a cached copy.
type invalidator interface {
	Invalidate()
}

func NewDashboardService(source ports.SalesSource, defaults dashboard.Defaults, log *logger.Logger) *DashboardService {
	return &DashboardService{
		source:   source,
		defaults: defaults,
		log:      log,
		now:      time.Now,
	}
}

// Source describes where the dataset is read from.
func (s *DashboardService) Source() string {
	return s.source.Describe()
}

// Snapshot is one fetch of the dataset: the raw table and its typed rows.
type Snapshot struct {
	Table    *dataset.Table
	Rows     sales.Collection
	LoadedAt time.Time
}

// Load fetches the dataset once and converts it into typed rows, failing on missing columns.
func (s *DashboardService) Load(ctx context.Context) (*Snapshot, error) {
	start := s.now()
	table, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := sales.FromTable(table)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Table: table, Rows: rows, LoadedAt: start}, nil
}

// Run executes the pipeline from the top for the requested selection.
// Load and validation failures abort the run; an empty selection does not.
func (s *DashboardService) Run(ctx context.Context, runID core.RunID, req dashboard.Selection) (*Dashboard, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		s.log.WithRun(runID.String()).WithSource(s.source.Describe()).
			Errorw("dataset load failed", "error", err, "code", errors.GetCode(err))
		return nil, err
	}
	return s.RunLoaded(runID, snap, req)
}

// RunLoaded executes the pipeline over a dataset already fetched with Load, so callers that
// need the rows to build the request do not fetch twice.
func (s *DashboardService) RunLoaded(runID core.RunID, snap *Snapshot, req dashboard.Selection) (*Dashboard, error) {
	log := s.log.WithRun(runID.String()).WithSource(s.source.Describe())
	all := snap.Rows

	sel, opts := dashboard.Resolve(all, req, s.defaults)
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	rows := dashboard.Apply(all, sel)
	d := &Dashboard{
		RunID:     runID,
		Source:    s.source.Describe(),
		Dataset:   snap.Table.Fingerprint(),
		LoadedAt:  snap.LoadedAt,
		Selection: sel,
		Options:   opts,
		TotalRows: len(all),
		Rows:      rows,
	}

	insights, err := dashboard.ComputeInsights(rows)
	switch {
	case errors.GetCode(err) == errors.CodeEmptySelection:
		d.Empty = true
		log.Infow("selection is empty", "countries", sel.Countries, "categories", sel.Categories)
		return d, nil
	case err != nil:
		return nil, errors.Wrap(err, "failed to compute insights")
	}

	set := charts.Build(rows, sel.Palette)
	d.Insights = insights
	d.Charts = &set
	d.Summary = narrative.Summary(insights)

	log.Infow("dashboard rendered",
		"total_rows", d.TotalRows,
		"rows", len(rows),
		"top_n", sel.TopN,
		"palette", sel.Palette,
		"elapsed", s.now().Sub(snap.LoadedAt),
	)
	return d, nil
}

// Validate loads the dataset and reports which required columns it lacks. A dataset with
// every column is also parsed, so malformed numbers fail here, and its measures are profiled.
func (s *DashboardService) Validate(ctx context.Context) (*ValidationResult, error) {
	table, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	res := &ValidationResult{
		Source:  s.source.Describe(),
		Dataset: table.Fingerprint(),
		Columns: table.Headers,
		Rows:    table.Len(),
		Missing: sales.MissingColumns(table),
	}
	if !res.Valid() {
		return res, nil
	}

	rows, err := sales.FromTable(table)
	if err != nil {
		return nil, err
	}
	res.Countries = len(rows.Countries())
	res.Categories = len(rows.Categories())
	if len(rows) == 0 {
		return res, nil
	}

	for _, m := range []struct {
		name    string
		measure sales.Measure
	}{
		{sales.ColumnSales, sales.BySales},
		{sales.ColumnDiscount, sales.ByDiscount},
	} {
		profile, err := profiling.Profile(m.name, rows.Values(m.measure))
		if err != nil {
			return nil, err
		}
		res.Profiles = append(res.Profiles, profile)
	}
	return res, nil
}

// Reload drops any cached dataset so the next run fetches it again.
// It reports whether the source had anything to drop.
func (s *DashboardService) Reload() bool {
	inv, ok := s.source.(invalidator)
	if ok {
		inv.Invalidate()
		s.log.Infow("dataset cache invalidated", "source", s.source.Describe())
	}
	return ok
}
