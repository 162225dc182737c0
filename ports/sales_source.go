package ports

import (
	"context"

	"salesboard/domain/dataset"
)

// SalesSource loads the raw sales table for one dashboard run
type SalesSource interface {
	// Load fetches and parses the whole dataset. It never returns a partial table.
	Load(ctx context.Context) (*dataset.Table, error)
	// Describe names the source for logs and the dashboard banner.
	Describe() string
}
