// Package narrative turns dashboard insights into the markdown story shown under the charts.
package narrative

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"salesboard/internal/dashboard"
)

// markdownEscaper neutralises markdown syntax and raw HTML in dataset values.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"&", `\&`,
	"<", `\<`,
	">", `\>`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
)

// Summary returns the three insight bullets as markdown.
func Summary(in *dashboard.Insights) string {
	var b strings.Builder
	b.WriteString("### Key insights\n\n")
	for _, line := range sentences(in, bold, escape) {
		b.WriteString("- " + line + "\n")
	}
	return b.String()
}

// Lines returns the same insights as plain sentences for terminal output.
func Lines(in *dashboard.Insights) []string {
	plain := func(s string) string { return s }
	return sentences(in, plain, plain)
}

func sentences(in *dashboard.Insights, emph, text func(string) string) []string {
	return []string{
		fmt.Sprintf("The country with the highest sales is %s%s.",
			emph(text(in.TopCountry.Name)), tieNote(in.TopCountry)),
		fmt.Sprintf("The best-selling category is %s%s.",
			emph(text(in.TopCategory.Name)), tieNote(in.TopCategory)),
		fmt.Sprintf("The largest recorded discount was %s in %s (%s).",
			emph(Number(in.MaxDiscount.Discount)+"%"), emph(text(in.MaxDiscount.Category)), text(in.MaxDiscount.Country)),
	}
}

// HTML renders markdown for embedding in the dashboard page. Raw HTML in the input is
// dropped and links open in a new tab.
func HTML(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}

// Number formats a value with the fewest digits that represent it exactly.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func tieNote(l dashboard.Leader) string {
	if !l.Tied {
		return ""
	}
	return " (tied on " + Number(l.Sales) + ")"
}

func bold(s string) string {
	return "**" + s + "**"
}

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
