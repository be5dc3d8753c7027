package engine

import (
	"context"
	"sort"
	"time"

	"github.com/mirella-sparql/mirella/diagnostics"
	"github.com/mirella-sparql/mirella/query"
	"github.com/mirella-sparql/mirella/rdf"
	"github.com/mirella-sparql/mirella/store"
)

// evaluateWhere implements §4.1 step 3: combine pattern groups in
// declaration order according to each group's flag.
func (e *QueryEngine) evaluateWhere(ctx context.Context, groups []*query.PatternGroup, ds store.Dataset) (*Table, error) {
	if len(groups) == 0 {
		return SingletonTable(), nil
	}

	acc, err := e.evaluateGroup(ctx, groups[0], ds)
	if err != nil {
		return nil, err
	}

	for _, g := range groups[1:] {
		rhs, err := e.evaluateGroup(ctx, g, ds)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		left, right := len(acc.Rows), len(rhs.Rows)
		eventName := diagnostics.JoinInner
		switch g.Flag {
		case query.GroupOptional:
			acc = LeftJoin(acc, rhs)
			eventName = diagnostics.JoinOptional
		case query.GroupMinus:
			acc = Minus(acc, rhs)
			eventName = diagnostics.JoinMinus
		case query.GroupUnion:
			acc = Union(acc, rhs)
			eventName = diagnostics.JoinUnion
		default:
			acc = Join(acc, rhs)
		}
		e.diagnostics.AddTiming(eventName, start, map[string]interface{}{
			"left": left, "right": right, "result": len(acc.Rows),
		})
	}
	return acc, nil
}

// evaluateGroup implements §4.1 step 2: matches patterns against the
// dataset, joins in property paths / VALUES / sub-selects / BIND
// clauses, and applies the group's filters last, row by row.
func (e *QueryEngine) evaluateGroup(ctx context.Context, g *query.PatternGroup, ds store.Dataset) (*Table, error) {
	acc := SingletonTable()

	for _, pattern := range orderPatterns(g.Patterns) {
		pt, err := e.matchPatternTable(ctx, ds, pattern)
		if err != nil {
			return nil, err
		}
		acc = Join(acc, pt)
	}

	for _, pp := range g.Paths {
		pt, err := e.matchPathTable(ctx, ds, pp)
		if err != nil {
			return nil, err
		}
		acc = Join(acc, pt)
	}

	if len(g.ValuesColumns) > 0 {
		acc = Join(acc, valuesTable(g.ValuesColumns, g.ValuesRows))
	}

	for _, sub := range g.SubSelects {
		subResult, err := e.Select(ctx, sub, ds)
		if err != nil {
			return nil, err
		}
		subTable := &Table{Columns: subResult.Variables, Rows: subResult.Rows}
		acc = Join(acc, subTable)
	}

	for _, bind := range g.Binds {
		acc = e.applyBind(ctx, ds, acc, bind)
	}

	for _, filter := range g.Filters {
		acc = e.applyFilter(ctx, ds, acc, filter)
	}

	return acc, nil
}

// orderPatterns implements the join-ordering heuristic from §4.1 step
// 2: patterns with the most ground slots first, breaking ties by
// variable-overlap with already-bound columns (approximated here by a
// stable sort on ground-slot count — full overlap-aware reordering
// would require re-scoring after each placement, which the Non-goal on
// cost-based optimisation puts out of scope for anything beyond this
// static heuristic).
func orderPatterns(patterns []store.Pattern) []store.Pattern {
	out := append([]store.Pattern{}, patterns...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GroundSlots() > out[j].GroundSlots()
	})
	return out
}

// matchPatternTable matches one pattern against the dataset and
// projects the results into a Table over the pattern's variables,
// additionally enforcing that a variable repeated across slots (e.g.
// "?x :p ?x") is bound consistently — a check the dataset's Match
// cannot perform since it treats every variable slot as a wildcard.
func (e *QueryEngine) matchPatternTable(ctx context.Context, ds store.Dataset, pattern store.Pattern) (*Table, error) {
	start := time.Now()
	it, err := ds.Match(ctx, pattern)
	if err != nil {
		return nil, err
	}
	quads, err := store.Collect(it)
	if err != nil {
		return nil, err
	}
	defer func() {
		e.diagnostics.AddTiming(diagnostics.PatternMatch, start, map[string]interface{}{
			"pattern": pattern.String(), "rows": len(quads),
		})
	}()

	vars := pattern.Variables()
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name()
	}
	table := NewTable(names)

	slots := []struct {
		term rdf.Term
		get  func(rdf.Quad) rdf.Term
	}{
		{pattern.Subject, func(q rdf.Quad) rdf.Term { return q.Subject }},
		{pattern.Predicate, func(q rdf.Quad) rdf.Term { return q.Predicate }},
		{pattern.Object, func(q rdf.Quad) rdf.Term { return q.Object }},
	}
	if !pattern.Context.IsUnbound() {
		slots = append(slots, struct {
			term rdf.Term
			get  func(rdf.Quad) rdf.Term
		}{pattern.Context, func(q rdf.Quad) rdf.Term { return q.Graph }})
	}

	for _, quad := range quads {
		binding := map[string]rdf.Term{}
		consistent := true
		for _, slot := range slots {
			if !slot.term.IsVariable() {
				continue
			}
			name := slot.term.Name()
			val := slot.get(quad)
			if existing, ok := binding[name]; ok {
				if !existing.Equal(val) {
					consistent = false
					break
				}
				continue
			}
			binding[name] = val
		}
		if !consistent {
			continue
		}
		row := make(Row, len(names))
		for i, n := range names {
			row[i] = binding[n]
		}
		table.AddRow(row)
	}
	return table, nil
}

// matchPathTable evaluates a property-path pattern and projects the
// (start, end) pairs into a Table over whichever of subject/object are
// variables, filtering by ground endpoint constraints.
func (e *QueryEngine) matchPathTable(ctx context.Context, ds store.Dataset, pp query.PathPattern) (*Table, error) {
	graph := pp.Context
	if graph.IsUnbound() {
		graph = rdf.NewVariable("§any-graph§")
	}
	pairs, err := e.evalPath(ctx, ds, pp.Path, graph)
	if err != nil {
		return nil, err
	}

	var names []string
	if pp.Subject.IsVariable() {
		names = append(names, pp.Subject.Name())
	}
	if pp.Object.IsVariable() {
		names = append(names, pp.Object.Name())
	}
	table := NewTable(names)

	for _, pr := range pairs {
		if !pp.Subject.IsVariable() && !pp.Subject.Equal(pr.start) {
			continue
		}
		if !pp.Object.IsVariable() && !pp.Object.Equal(pr.end) {
			continue
		}
		if pp.Subject.IsVariable() && pp.Object.IsVariable() && pp.Subject.Name() == pp.Object.Name() && !pr.start.Equal(pr.end) {
			continue
		}
		row := make(Row, 0, 2)
		for _, n := range names {
			if pp.Subject.IsVariable() && n == pp.Subject.Name() {
				row = append(row, pr.start)
			} else {
				row = append(row, pr.end)
			}
		}
		table.AddRow(row)
	}
	return table, nil
}

// valuesTable builds a literal in-memory table from a VALUES clause's
// pre-parsed string rows (§4.1 step 2's "value-inlined bindings").
func valuesTable(columns []string, rows [][]string) *Table {
	table := NewTable(columns)
	for _, r := range rows {
		row := make(Row, len(columns))
		for i, v := range r {
			if v == "" {
				row[i] = rdf.Unbound
			} else {
				row[i] = rdf.NewIRI(v)
			}
		}
		table.AddRow(row)
	}
	return table
}

// applyBind evaluates a BIND clause's expression per row and appends
// the result as a new column.
func (e *QueryEngine) applyBind(ctx context.Context, ds store.Dataset, t *Table, bind query.BindClause) *Table {
	newCols := append(append([]string{}, t.Columns...), bind.As)
	out := NewTable(newCols)
	for _, row := range t.Rows {
		view := rowView{ctx: ctx, engine: e, ds: ds, table: t, row: row}
		val, err := bind.Expr.Eval(view)
		if err != nil {
			val = rdf.Unbound
		}
		nr := append(append(Row{}, row...), val)
		out.AddRow(nr)
	}
	e.diagnostics.Add(diagnostics.Event{Name: diagnostics.BindApplied, Data: map[string]interface{}{"var": bind.As}})
	return out
}

// applyFilter evaluates a filter expression per row; unbound counts as
// false (§4.2's filter-context null policy).
func (e *QueryEngine) applyFilter(ctx context.Context, ds store.Dataset, t *Table, filter query.Expression) *Table {
	out := NewTable(t.Columns)
	for _, row := range t.Rows {
		view := rowView{ctx: ctx, engine: e, ds: ds, table: t, row: row}
		val, err := filter.Eval(view)
		if err != nil {
			continue
		}
		b, ok := val.BooleanValue()
		if ok && b {
			out.AddRow(row)
		}
	}
	e.diagnostics.Add(diagnostics.Event{Name: diagnostics.FilterApplied, Data: map[string]interface{}{
		"in": len(t.Rows), "out": len(out.Rows),
	}})
	return out
}
