package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"salesboard/domain/dataset"
	"salesboard/internal/errors"
	"salesboard/internal/logger"
)

// FileSource reads the dataset from a local CSV or XLSX file.
type FileSource struct {
	path string
	log  *logger.Logger
}

// NewFileSource accepts a plain path or a file:// URL.
func NewFileSource(path string, log *logger.Logger) *FileSource {
	return &FileSource{path: strings.TrimPrefix(path, "file://"), log: log}
}

// Describe names the source
func (s *FileSource) Describe() string {
	return "file:" + s.path
}

// Load reads and parses the file
func (s *FileSource) Load(ctx context.Context) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.SourceUnavailable(s.Describe(), err)
	}

	start := time.Now()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.SourceUnavailable(s.Describe(), err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.SourceUnavailable(s.Describe(), fmt.Errorf("file is empty"))
	}

	table, err := ParseTable(data, FormatFor(s.path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", s.path)
	}

	s.log.Infow("dataset read",
		"path", s.path,
		"columns", len(table.Headers),
		"rows", table.Len(),
		"elapsed", time.Since(start),
	)
	return table, nil
}
