// Package report prints the dashboard story to a terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"salesboard/domain/sales"
	"salesboard/internal/dashboard"
	"salesboard/internal/narrative"
)

// MaxCellWidth caps a text column so long names do not push the table off screen.
const MaxCellWidth = 28

var columns = []string{"#", "Country", "Category", "Sales", "Discount"}

// Input is what one report run prints.
type Input struct {
	Source    string
	TotalRows int
	Selection dashboard.Selection
	Rows      sales.Collection
	Insights  *dashboard.Insights
}

// Printer writes reports. Colors are emitted only when Color is set.
type Printer struct {
	out   io.Writer
	Color bool
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer, useColor bool) *Printer {
	return &Printer{out: out, Color: useColor}
}

// Print writes the header, the insights and the filtered rows table.
func (p *Printer) Print(in Input) error {
	var b strings.Builder

	b.WriteString(p.style(color.New(color.FgCyan, color.OpBold), "Sales storytelling report") + "\n")
	fmt.Fprintf(&b, "Source:     %s\n", in.Source)
	fmt.Fprintf(&b, "Rows:       %d of %d\n", len(in.Rows), in.TotalRows)
	fmt.Fprintf(&b, "Countries:  %s\n", list(in.Selection.Countries))
	fmt.Fprintf(&b, "Categories: %s\n", list(in.Selection.Categories))
	fmt.Fprintf(&b, "Top N:      %d\n\n", in.Selection.TopN)

	b.WriteString(p.style(color.New(color.FgGreen, color.OpBold), "Key insights") + "\n")
	if in.Insights == nil {
		b.WriteString(p.style(color.New(color.FgYellow), "  No rows match the current selection.") + "\n")
		_, err := io.WriteString(p.out, b.String())
		return err
	}
	for _, line := range narrative.Lines(in.Insights) {
		b.WriteString("  * " + line + "\n")
	}
	b.WriteString("\n")

	b.WriteString(p.style(color.New(color.FgGreen, color.OpBold), "Top rows") + "\n")
	b.WriteString(table(in.Rows, func(s string) string { return p.style(color.New(color.OpBold), s) }))

	_, err := io.WriteString(p.out, b.String())
	return err
}

func (p *Printer) style(s color.Style, text string) string {
	if !p.Color {
		return text
	}
	return s.Sprint(text)
}

// table lays rows out in columns padded to their display width.
func table(rows sales.Collection, heading func(string) string) string {
	cells := make([][]string, 0, len(rows))
	for i, r := range rows {
		cells = append(cells, []string{
			fmt.Sprint(i + 1),
			runewidth.Truncate(r.Country, MaxCellWidth, "…"),
			runewidth.Truncate(r.Category, MaxCellWidth, "…"),
			narrative.Number(r.Sales),
			narrative.Number(r.Discount),
		})
	}

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = runewidth.StringWidth(c)
	}
	for _, row := range cells {
		for i, c := range row {
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	b.WriteString(heading(line(columns, widths)) + "\n")
	for _, row := range cells {
		b.WriteString(line(row, widths) + "\n")
	}
	return b.String()
}

func line(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, c := range cells {
		if i >= 3 {
			padded[i] = runewidth.FillLeft(c, widths[i])
		} else {
			padded[i] = runewidth.FillRight(c, widths[i])
		}
	}
	return strings.TrimRight(strings.Join(padded, "  "), " ")
}

func list(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
