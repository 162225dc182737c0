package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesboard/domain/dataset"
	"salesboard/internal/config"
	"salesboard/internal/errors"
	"salesboard/internal/logger"
)

const sampleCSV = "Country,Category,Sales,Discount\nUS,Tech,100,5\nUS,Furniture,50,10\nDE,Tech,200,2\n"

func TestFormatFor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"https://example.test/superstore.csv", FormatCSV},
		{"https://example.test/superstore.XLSX", FormatXLSX},
		{"https://example.test/book.xlsx?raw=true", FormatXLSX},
		{"./data/export", FormatCSV},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFor(tt.name), tt.name)
	}
}

func TestParseTableCSV(t *testing.T) {
	table, err := ParseTable([]byte(sampleCSV), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"Country", "Category", "Sales", "Discount"}, table.Headers)
	assert.Equal(t, 3, table.Len())
}

func TestParseTableMalformed(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format string
	}{
		{"unterminated quote", []byte("Country,Sales\n\"US,1\n"), FormatCSV},
		{"not a workbook", []byte("plain text"), FormatXLSX},
		{"empty", []byte(""), FormatCSV},
		{"unknown format", []byte("x"), "parquet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable(tt.data, tt.format)
			require.Error(t, err)
			assert.Equal(t, errors.CodeSourceMalformed, errors.GetCode(err))
		})
	}
}

func TestParseTableXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Country", "Category", "Sales", "Discount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"US", "Tech", 100, 5}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := ParseTable(buf.Bytes(), FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, []string{"Country", "Category", "Sales", "Discount"}, table.Headers)
	assert.Equal(t, [][]string{{"US", "Tech", "100", "5"}}, table.Rows)
}

func TestHTTPSourceLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, sampleCSV)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/superstore.csv", time.Second, logger.NewNop())
	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, srv.URL+"/superstore.csv", src.Describe())
}

func TestHTTPSourceFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		code    string
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) }, errors.CodeSourceUnavailable},
		{"empty body", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }, errors.CodeSourceUnavailable},
		{"broken csv", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "a,b\n\"x,y\n") }, errors.CodeSourceMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewHTTPSource(srv.URL+"/data.csv", time.Second, logger.NewNop()).Load(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestHTTPSourceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/data.csv"
	srv.Close()

	_, err := NewHTTPSource(url, time.Second, logger.NewNop()).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))
}

func TestFileSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "superstore.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	src := NewFileSource("file://"+path, logger.NewNop())
	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "file:"+path, src.Describe())

	_, err = NewFileSource(filepath.Join(t.TempDir(), "missing.csv"), logger.NewNop()).Load(context.Background())
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Load(ctx context.Context) (*dataset.Table, error) {
	args := m.Called(ctx)
	table, _ := args.Get(0).(*dataset.Table)
	return table, args.Error(1)
}

func (m *mockSource) Describe() string { return "mock" }

func TestCachedSourceReusesFreshTable(t *testing.T) {
	ctx := context.Background()
	table := dataset.NewTable([][]string{{"Country"}, {"US"}})

	inner := &mockSource{}
	inner.On("Load", ctx).Return(table, nil).Once()

	cached := NewCachedSource(inner, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return now }

	first, err := cached.Load(ctx)
	require.NoError(t, err)
	now = now.Add(30 * time.Second)
	second, err := cached.Load(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	inner.AssertExpectations(t)
}

func TestCachedSourceKeepsGoodTableAfterFailure(t *testing.T) {
	ctx := context.Background()
	good := dataset.NewTable([][]string{{"Country"}, {"US"}})

	inner := &mockSource{}
	inner.On("Load", ctx).Return(good, nil).Once()
	inner.On("Load", ctx).Return(nil, errors.SourceUnavailable("mock", fmt.Errorf("down"))).Once()

	cached := NewCachedSource(inner, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return now }

	_, err := cached.Load(ctx)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = cached.Load(ctx)
	require.Error(t, err)

	cached.mu.RLock()
	assert.Same(t, good, cached.table)
	cached.mu.RUnlock()
	inner.AssertExpectations(t)
}

func TestCachedSourceZeroTTLAlwaysReloads(t *testing.T) {
	ctx := context.Background()
	table := dataset.NewTable([][]string{{"Country"}})

	inner := &mockSource{}
	inner.On("Load", ctx).Return(table, nil).Twice()

	cached := NewCachedSource(inner, 0)
	_, _ = cached.Load(ctx)
	_, _ = cached.Load(ctx)
	inner.AssertExpectations(t)
	assert.Equal(t, "mock", cached.Describe())
}

func TestCachedSourceInvalidate(t *testing.T) {
	ctx := context.Background()
	table := dataset.NewTable([][]string{{"Country"}})

	inner := &mockSource{}
	inner.On("Load", ctx).Return(table, nil).Twice()

	cached := NewCachedSource(inner, time.Hour)
	_, _ = cached.Load(ctx)
	cached.Invalidate()
	_, _ = cached.Load(ctx)
	inner.AssertExpectations(t)
}

func TestNewSelectsImplementation(t *testing.T) {
	log := logger.NewNop()

	src, err := New(config.DataConfig{Driver: config.DriverHTTP, URL: "https://example.test/a.csv"}, log)
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, src)

	src, err = New(config.DataConfig{Driver: config.DriverHTTP, URL: "file:///tmp/a.csv"}, log)
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	src, err = New(config.DataConfig{Driver: config.DriverFile, URL: "a.csv", CacheTTL: time.Minute}, log)
	require.NoError(t, err)
	assert.IsType(t, &CachedSource{}, src)

	_, err = New(config.DataConfig{Driver: "ftp"}, log)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
