package engine

import (
	"context"

	"github.com/mirella-sparql/mirella/query"
	"github.com/mirella-sparql/mirella/rdf"
	"github.com/mirella-sparql/mirella/store"
)

// rowView adapts one Table row to query.Row, giving expression
// evaluation access to the row's bindings and (for EXISTS/NOT EXISTS)
// the ability to probe the dataset for a compatible match.
type rowView struct {
	ctx    context.Context
	engine *QueryEngine
	ds     store.Dataset
	table  *Table
	row    Row
}

func (v rowView) Value(name string) (rdf.Term, bool) {
	return v.table.Get(v.row, name)
}

// ExistsMatch evaluates an EXISTS/NOT EXISTS sub-pattern by joining the
// group's matches with the current row's bindings viewed as a
// one-row table, and checking the join is non-empty.
func (v rowView) ExistsMatch(group *query.PatternGroup) (bool, error) {
	sub, err := v.engine.evaluateGroup(v.ctx, group, v.ds)
	if err != nil {
		return false, err
	}
	cur := NewTable(v.table.Columns)
	cur.AddRow(v.row)
	joined := Join(cur, sub)
	return !joined.IsEmpty(), nil
}
