package sqlsource

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"salesboard/domain/dataset"
	"salesboard/internal/errors"
	"salesboard/internal/logger"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Source loads the sales table from a SQL database. Every column of the table is read so the
// required-column check sees the same headers a CSV export would carry.
type Source struct {
	db     *sqlx.DB
	driver string
	table  string
	log    *logger.Logger
}

// Open connects lazily to the database; the first Load surfaces connection errors.
func Open(driver, dsn, table string, log *logger.Logger) (*Source, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.SourceUnavailable(driver, err)
	}
	return New(db, table, log)
}

// New wraps an existing connection.
func New(db *sqlx.DB, table string, log *logger.Logger) (*Source, error) {
	if !identifierPattern.MatchString(table) {
		return nil, errors.InvalidInput(fmt.Sprintf("invalid table name %q", table))
	}
	return &Source{db: db, driver: db.DriverName(), table: table, log: log}, nil
}

// Describe names the source
func (s *Source) Describe() string {
	return s.driver + ":" + s.table
}

// Close releases the connection pool
func (s *Source) Close() error {
	return s.db.Close()
}

// Load reads the whole table. Values are rendered as strings; NULL becomes "".
func (s *Source) Load(ctx context.Context) (*dataset.Table, error) {
	start := time.Now()

	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM "+s.table)
	if err != nil {
		return nil, errors.SourceUnavailable(s.Describe(), err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.SourceUnavailable(s.Describe(), err)
	}

	records := [][]string{columns}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, errors.SourceUnavailable(s.Describe(), err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = stringify(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.SourceUnavailable(s.Describe(), err)
	}

	table := dataset.NewTable(records)
	s.log.Infow("dataset queried",
		"table", s.table,
		"columns", len(table.Headers),
		"rows", table.Len(),
		"elapsed", time.Since(start),
	)
	return table, nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(t, 10)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
