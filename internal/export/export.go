// Package export writes the filtered sales rows as CSV or XLSX downloads.
package export

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"salesboard/domain/sales"
	"salesboard/internal/errors"
	"salesboard/internal/narrative"
)

// SheetName is the worksheet the XLSX export writes to.
const SheetName = "Sales"

// Content types for the two formats.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// CSV writes the header row and one record per sales row.
func CSV(w io.Writer, rows sales.Collection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sales.RequiredColumns); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}
	for _, r := range rows {
		record := []string{textCell(r.Country), textCell(r.Category), narrative.Number(r.Sales), narrative.Number(r.Discount)}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "failed to write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "failed to flush csv")
	}
	return nil
}

// textCell quotes labels a spreadsheet would otherwise evaluate as a formula.
func textCell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

// XLSX writes a single-sheet workbook with numeric Sales and Discount cells.
func XLSX(w io.Writer, rows sales.Collection) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return errors.Wrap(err, "failed to name sheet")
	}

	header := make([]interface{}, len(sales.RequiredColumns))
	for i, col := range sales.RequiredColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write xlsx header")
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "failed to address xlsx row")
		}
		values := []interface{}{r.Country, r.Category, r.Sales, r.Discount}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return errors.Wrapf(err, "failed to write xlsx row %d", i+1)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write xlsx")
	}
	return nil
}
