package engine

import "github.com/mirella-sparql/mirella/rdf"

// sharedColumns returns the column names present in both tables.
func sharedColumns(l, r *Table) []string {
	var out []string
	for _, c := range l.Columns {
		if r.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// mergedColumns returns L's columns followed by R's columns not already in L.
func mergedColumns(l, r *Table) []string {
	out := append([]string{}, l.Columns...)
	for _, c := range r.Columns {
		if !contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// compatible implements spec.md §3's Compatibility relation: rows are
// compatible iff for every shared variable, values are bound-equal or
// at least one side is unbound.
func compatible(l, r Row, lt, rt *Table, shared []string) bool {
	for _, c := range shared {
		lv, _ := lt.Get(l, c)
		rv, _ := rt.Get(r, c)
		if lv.IsUnbound() || rv.IsUnbound() {
			continue
		}
		if !lv.Equal(rv) {
			return false
		}
	}
	return true
}

// merge combines a compatible row pair into one row over mergedCols:
// bound wins over unbound; two bound-equal values collapse to either
// (they're equal); bound-unequal values never reach here since
// compatible() already rejected them.
func merge(l, r Row, lt, rt *Table, mergedCols []string) Row {
	out := make(Row, len(mergedCols))
	for i, c := range mergedCols {
		lv, lok := lt.Get(l, c)
		rv, rok := rt.Get(r, c)
		switch {
		case lok && !lv.IsUnbound():
			out[i] = lv
		case rok && !rv.IsUnbound():
			out[i] = rv
		case lok:
			out[i] = lv
		case rok:
			out[i] = rv
		default:
			out[i] = rdf.Unbound
		}
	}
	return out
}

// Join implements the compatibility join (§4.1's central primitive):
// result columns are cols(L) ∪ cols(R); every compatible pair (l, r)
// in L × R emits a merged row. When no shared column holds an unbound
// cell on either side (the common case — pattern-group matches never
// produce unbound cells, only OPTIONAL does), a hash-assisted build/
// probe path is used instead of the full nested loop, generalizing the
// teacher's HashJoin build-side selection (datalog/executor/join.go)
// from exact-tuple equality to compatibility-join equality (the two
// coincide once unbound cells are ruled out).
func Join(l, r *Table) *Table {
	shared := sharedColumns(l, r)
	mergedCols := mergedColumns(l, r)
	out := NewTable(mergedCols)

	if len(shared) > 0 && !anyUnboundInColumns(l, shared) && !anyUnboundInColumns(r, shared) {
		hashJoin(l, r, shared, mergedCols, out)
		return out
	}

	for _, lr := range l.Rows {
		for _, rr := range r.Rows {
			if compatible(lr, rr, l, r, shared) {
				out.AddRow(merge(lr, rr, l, r, mergedCols))
			}
		}
	}
	return out
}

func anyUnboundInColumns(t *Table, cols []string) bool {
	for _, row := range t.Rows {
		for _, c := range cols {
			v, _ := t.Get(row, c)
			if v.IsUnbound() {
				return true
			}
		}
	}
	return false
}

// hashJoin builds a hash table over the smaller side keyed by the
// shared columns' canonical string form, then probes with the larger
// side — valid here because the "no unbound in shared columns" guard
// means compatibility on shared columns degenerates to exact equality.
func hashJoin(l, r *Table, shared, mergedCols []string, out *Table) {
	buildTable, probeTable := l, r
	buildIsLeft := true
	if len(r.Rows) < len(l.Rows) {
		buildTable, probeTable = r, l
		buildIsLeft = false
	}

	index := make(map[string][]Row, len(buildTable.Rows))
	for _, row := range buildTable.Rows {
		key := keyOf(buildTable, row, shared)
		index[key] = append(index[key], row)
	}

	for _, probeRow := range probeTable.Rows {
		key := keyOf(probeTable, probeRow, shared)
		for _, buildRow := range index[key] {
			if buildIsLeft {
				out.AddRow(merge(buildRow, probeRow, buildTable, probeTable, mergedCols))
			} else {
				out.AddRow(merge(probeRow, buildRow, probeTable, buildTable, mergedCols))
			}
		}
	}
}

func keyOf(t *Table, row Row, cols []string) string {
	s := ""
	for _, c := range cols {
		v, _ := t.Get(row, c)
		s += v.String() + "\x00"
	}
	return s
}

// LeftJoin implements the OPTIONAL combination (§4.1 step 3): every
// left row appears at least once (§8's left-join preservation
// property); rows with no compatible partner are extended with unbound
// cells for cols(R) \ cols(L).
func LeftJoin(l, r *Table) *Table {
	shared := sharedColumns(l, r)
	mergedCols := mergedColumns(l, r)
	out := NewTable(mergedCols)

	for _, lr := range l.Rows {
		matched := false
		for _, rr := range r.Rows {
			if compatible(lr, rr, l, r, shared) {
				out.AddRow(merge(lr, rr, l, r, mergedCols))
				matched = true
			}
		}
		if !matched {
			out.AddRow(merge(lr, Row{}, l, NewTable(nil), mergedCols))
		}
	}
	return out
}

// Minus implements the MINUS combination (§4.1 step 3 / §8's
// anti-monotonicity property): keep l only if no r is compatible with
// it while sharing at least one bound variable.
func Minus(l, r *Table) *Table {
	shared := sharedColumns(l, r)
	out := NewTable(l.Columns)

	for _, lr := range l.Rows {
		excluded := false
		for _, rr := range r.Rows {
			if !compatible(lr, rr, l, r, shared) {
				continue
			}
			if sharesBoundVariable(lr, rr, l, r, shared) {
				excluded = true
				break
			}
		}
		if !excluded {
			out.AddRow(lr)
		}
	}
	return out
}

func sharesBoundVariable(l, r Row, lt, rt *Table, shared []string) bool {
	for _, c := range shared {
		lv, _ := lt.Get(l, c)
		rv, _ := rt.Get(r, c)
		if !lv.IsUnbound() && !rv.IsUnbound() {
			return true
		}
	}
	return false
}

// Union implements the UNION combination (§4.1 step 3): column-union
// row-concatenation; missing columns become unbound.
func Union(l, r *Table) *Table {
	mergedCols := mergedColumns(l, r)
	out := NewTable(mergedCols)
	emptyOther := NewTable(nil)
	for _, lr := range l.Rows {
		out.AddRow(merge(lr, Row{}, l, emptyOther, mergedCols))
	}
	for _, rr := range r.Rows {
		out.AddRow(merge(Row{}, rr, emptyOther, r, mergedCols))
	}
	return out
}
