package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"

	"finlens/pkg/core/table"
)

var tableColumns = []struct {
	header string
	get    func(*table.PeriodRow) *float64
}{
	{"Revenue", func(r *table.PeriodRow) *float64 { return &r.Revenue }},
	{"COGS", func(r *table.PeriodRow) *float64 { return r.COGS }},
	{"Rent", func(r *table.PeriodRow) *float64 { return r.Rent }},
	{"Payroll", func(r *table.PeriodRow) *float64 { return r.Payroll }},
	{"Marketing", func(r *table.PeriodRow) *float64 { return r.Marketing }},
	{"Other", func(r *table.PeriodRow) *float64 { return r.OtherExpenses }},
}

// RenderTable produces a markdown table of the cleaned rows for the prompt.
// Absent values render as an em dash so the model sees "not reported"
// rather than zero.
func RenderTable(rows []table.PeriodRow) string {
	var b strings.Builder
	b.WriteString("| Period |")
	for _, col := range tableColumns {
		fmt.Fprintf(&b, " %s |", col.header)
	}
	b.WriteString("\n|---|")
	for range tableColumns {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for i := range rows {
		fmt.Fprintf(&b, "| %s |", rows[i].Period.Format("2006-01"))
		for _, col := range tableColumns {
			if v := col.get(&rows[i]); v != nil {
				fmt.Fprintf(&b, " %s |", formatAmount(*v))
			} else {
				b.WriteString(" — |")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatAmount renders a money amount with thousands separators, no decimals.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

// ValidateMarkdown checks that a rendered fragment parses as Markdown.
// Goldmark is very permissive, so this is a basic sanity check.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	return parser.Parse(reader) != nil
}
