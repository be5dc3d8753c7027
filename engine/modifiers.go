package engine

import (
	"context"
	"fmt"

	"github.com/mirella-sparql/mirella/diagnostics"
	"github.com/mirella-sparql/mirella/query"
	"github.com/mirella-sparql/mirella/rdf"
	"github.com/mirella-sparql/mirella/store"
)

// applyModifiers implements §4.1 step 4's fixed pipeline: GROUP BY →
// HAVING → expression bindings → projection → ORDER BY → DISTINCT →
// OFFSET → LIMIT.
func (e *QueryEngine) applyModifiers(ctx context.Context, t *Table, mods *query.Modifiers, ds store.Dataset) (*Table, error) {
	hasAgg := false
	for _, item := range mods.Projection {
		if item.Agg != nil {
			hasAgg = true
		}
	}

	if len(mods.GroupBy) > 0 || hasAgg {
		t = e.executeGroupBy(ctx, ds, t, mods)
	}

	if mods.Having != nil {
		t = e.applyFilter(ctx, ds, t, mods.Having)
	}

	if len(mods.Projection) > 0 {
		t = e.applyExpressionBindings(ctx, ds, t, mods.Projection)
		cols := make([]string, len(mods.Projection))
		for i, item := range mods.Projection {
			cols[i] = item.Var
		}
		t = t.Project(cols)
	}

	if len(mods.OrderBy) > 0 {
		e.applyOrderBy(ctx, ds, t, mods.OrderBy)
	}

	if mods.Distinct {
		t = t.Distinct()
	}

	t = t.Slice(mods.Offset, mods.Limit)
	return t, nil
}

// applyExpressionBindings evaluates every non-aggregate, non-bare-
// variable projection item (an "expr AS ?v" binding) and appends the
// result as a new column per row. When GROUP BY or aggregates are in
// play it runs over the grouped table, after HAVING.
func (e *QueryEngine) applyExpressionBindings(ctx context.Context, ds store.Dataset, t *Table, items []query.ProjectionItem) *Table {
	for _, item := range items {
		if item.Expr == nil {
			continue
		}
		t = e.applyBind(ctx, ds, t, query.BindClause{Expr: item.Expr, As: item.Var})
	}
	return t
}

// executeGroupBy implements §4.3: partition every row by its grouping
// variables, fold values into each aggregate's accumulator, then
// project one row per partition. An implicit single partition (empty
// GroupBy) is used when aggregates appear with no explicit GROUP BY,
// matching standard SPARQL semantics.
func (e *QueryEngine) executeGroupBy(ctx context.Context, ds store.Dataset, t *Table, mods *query.Modifiers) *Table {
	ac := NewAggregatorContext()

	var aggItems []query.ProjectionItem
	for _, item := range mods.Projection {
		if item.Agg != nil {
			aggItems = append(aggItems, item)
		}
	}

	for _, row := range t.Rows {
		key := groupKeyOf(t, row, mods.GroupBy)
		view := rowView{ctx: ctx, engine: e, ds: ds, table: t, row: row}
		for i, item := range aggItems {
			aggID := fmt.Sprintf("agg%d", i)
			countStar := item.Agg.Kind == query.AggCount && item.Agg.Arg == nil
			var val rdf.Term = rdf.Unbound
			if item.Agg.Arg != nil {
				v, err := item.Agg.Arg.Eval(view)
				if err == nil {
					val = v
				}
			}
			st := ac.stateFor(key, aggID, item.Agg.Distinct)
			st.Update(item.Agg.Kind, val, countStar, item.Agg.Separator)
		}
	}

	outCols := append([]string{}, mods.GroupBy...)
	for _, item := range aggItems {
		outCols = append(outCols, item.Var)
	}
	out := NewTable(outCols)

	for _, key := range ac.PartitionKeys() {
		row := make(Row, 0, len(outCols))
		row = append(row, key...)
		mk := key.asMapKey()
		for i, item := range aggItems {
			aggID := fmt.Sprintf("agg%d", i)
			st := ac.registry[mk][aggID]
			row = append(row, st.Result(item.Agg.Kind))
		}
		out.AddRow(row)
	}

	e.diagnostics.Add(diagnostics.Event{Name: diagnostics.AggregationDone, Data: map[string]interface{}{
		"partitions": len(ac.order),
	}})
	return out
}

// applyOrderBy sorts rows by the ORDER BY terms in priority order,
// evaluating each term's expression per row and comparing with
// rdf.CompareTerms; unbound sorts via CompareTerms' fixed rank fallback.
func (e *QueryEngine) applyOrderBy(ctx context.Context, ds store.Dataset, t *Table, terms []query.OrderTerm) {
	t.SortBy(func(a, b Row) bool {
		for _, term := range terms {
			av, _ := term.Expr.Eval(rowView{ctx: ctx, engine: e, ds: ds, table: t, row: a})
			bv, _ := term.Expr.Eval(rowView{ctx: ctx, engine: e, ds: ds, table: t, row: b})
			cmp := rdf.CompareTerms(av, bv)
			if cmp == 0 {
				continue
			}
			if term.Direction == query.OrderDesc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}
