package engine

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// Table renders a SelectResult as a markdown table, grounded on
// MaterializedRelation.Table()/TableFormatter.FormatRelation
// (datalog/executor/relation.go, table_formatter.go) — same
// header+rows+row-count markdown shape, now over rdf.Term cells
// instead of Datalog Values.
func (r *SelectResult) Table() string {
	if len(r.Rows) == 0 {
		return fmt.Sprintf("_Columns: %v_\n\n_No rows_", r.Variables)
	}

	var b strings.Builder
	alignment := make([]tw.Align, len(r.Variables))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(&b,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)

	headers := make([]string, len(r.Variables))
	for i, v := range r.Variables {
		headers[i] = "?" + v
	}
	table.Header(headers)

	for _, row := range r.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if cell.IsUnbound() {
				cells[i] = ""
				continue
			}
			cells[i] = cell.String()
		}
		table.Append(cells)
	}
	table.Render()

	fmt.Fprintf(&b, "\n_%d rows_\n", len(r.Rows))
	return b.String()
}
