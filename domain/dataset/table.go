package dataset

import (
	"strings"

	"salesboard/domain/core"
)

// Table is a loaded tabular dataset before any typing: a header row and string cells in source order.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable builds a Table from raw records whose first record is the header row.
// Headers are trimmed (including a leading UTF-8 BOM), cells beyond the header width are
// dropped and short rows are padded with empty cells.
func NewTable(records [][]string) *Table {
	if len(records) == 0 {
		return &Table{}
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make([]string, len(headers))
		for j := 0; j < len(headers) && j < len(rec); j++ {
			row[j] = strings.TrimSpace(rec[j])
		}
		rows = append(rows, row)
	}

	return &Table{Headers: headers, Rows: rows}
}

// ColumnIndex returns the position of a header, or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table carries a header with exactly this name.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Fingerprint hashes the headers and cells so two loads of the same data compare equal.
func (t *Table) Fingerprint() core.Hash {
	var b strings.Builder
	for _, rec := range append([][]string{t.Headers}, t.Rows...) {
		b.WriteString(strings.Join(rec, "\x1f"))
		b.WriteByte('\n')
	}
	return core.NewHash([]byte(b.String()))
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
