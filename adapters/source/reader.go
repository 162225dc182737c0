package source

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"

	"salesboard/domain/dataset"
	"salesboard/internal/errors"
)

// Supported payload formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// FormatFor picks the payload format from a file name or URL path. Anything that is not
// an Excel workbook is read as CSV.
func FormatFor(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// ParseTable converts a raw payload into a Table. The first row is the header.
func ParseTable(data []byte, format string) (*dataset.Table, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatXLSX:
		records, err = readExcelRecords(data)
	case FormatCSV:
		records, err = readCSVRecords(data)
	default:
		return nil, errors.SourceMalformed(fmt.Sprintf("unsupported file type: %s", format))
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, errors.SourceMalformed("dataset has no header row")
	}
	return dataset.NewTable(records), nil
}

// readExcelRecords reads the first sheet of a workbook
func readExcelRecords(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WithCode(errors.CodeSourceMalformed, errors.Wrap(err, "failed to open Excel workbook"))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.SourceMalformed("Excel workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.WithCode(errors.CodeSourceMalformed, errors.Wrapf(err, "failed to read sheet %s", sheets[0]))
	}
	return rows, nil
}

func readCSVRecords(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeSourceMalformed, errors.Wrap(err, "failed to read CSV data"))
	}
	return records, nil
}
