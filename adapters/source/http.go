package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"salesboard/domain/dataset"
	"salesboard/internal/errors"
	"salesboard/internal/logger"
)

// HTTPSource fetches the dataset from a fixed remote URL. One GET per load, no retries.
type HTTPSource struct {
	url    string
	client *http.Client
	log    *logger.Logger
}

// NewHTTPSource creates a remote source. A zero timeout leaves the request unbounded.
func NewHTTPSource(url string, timeout time.Duration, log *logger.Logger) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Describe names the source
func (s *HTTPSource) Describe() string {
	return s.url
}

// Load fetches and parses the remote payload
func (s *HTTPSource) Load(ctx context.Context) (*dataset.Table, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errors.SourceUnavailable(s.url, err)
	}
	req.Header.Set("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, */*")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.SourceUnavailable(s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.SourceUnavailable(s.url, fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.SourceUnavailable(s.url, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.SourceUnavailable(s.url, fmt.Errorf("empty response body"))
	}

	table, err := ParseTable(body, FormatFor(s.url))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", s.url)
	}

	s.log.Infow("dataset fetched",
		"url", s.url,
		"bytes", len(body),
		"columns", len(table.Headers),
		"rows", table.Len(),
		"elapsed", time.Since(start),
	)
	return table, nil
}
