// Package engine implements the Mirella evaluation core: binding-table
// joins, the aggregator context, and the QueryEngine orchestrator that
// ties pattern matching, expression evaluation, and modifiers together.
package engine

import (
	"sort"
	"strings"

	"github.com/mirella-sparql/mirella/rdf"
)

// Row is one binding-table row: a term per column, aligned with the
// owning Table's Columns slice. rdf.Unbound marks an unbound cell.
type Row []rdf.Term

// Table is the BindingTable from spec.md §3: an ordered sequence of
// rows over a column set of variable names, column order being
// insertion order of first observation. Always materialized — see
// DESIGN.md for why the teacher's StreamingRelation/CachingIterator
// machinery (datalog/executor/relation.go) is not ported.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable builds an empty table over the given columns.
func NewTable(columns []string) *Table {
	return &Table{Columns: append([]string{}, columns...)}
}

// ColumnIndex returns the index of a column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// Get returns the value of column name in row r, and whether the
// column exists at all (distinct from whether the cell is unbound).
func (t *Table) Get(r Row, name string) (rdf.Term, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return rdf.Unbound, false
	}
	return r[idx], true
}

// AddRow appends a row, panicking if its length doesn't match Columns
// — an internal-invariant check, since every row is constructed by
// this package from a known column set.
func (t *Table) AddRow(r Row) {
	if len(r) != len(t.Columns) {
		panic("engine: row width does not match table column count")
	}
	t.Rows = append(t.Rows, r)
}

// SingletonTable builds a one-row, zero-column table — the identity
// element for inner-joining in a pattern group's first pattern.
func SingletonTable() *Table {
	return &Table{Columns: nil, Rows: []Row{{}}}
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool { return len(t.Rows) == 0 }

// rowKey renders a row's full canonical string form, used for
// dedup in Distinct/Materialize.
func (t *Table) rowKey(r Row) string {
	var sb strings.Builder
	for _, v := range r {
		sb.WriteString(v.String())
		sb.WriteByte(0)
	}
	return sb.String()
}

// Distinct removes duplicate rows, keeping first-seen order.
func (t *Table) Distinct() *Table {
	out := NewTable(t.Columns)
	seen := make(map[string]struct{}, len(t.Rows))
	for _, r := range t.Rows {
		k := t.rowKey(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out.AddRow(r)
	}
	return out
}

// Project keeps only the named columns, in the given order. Columns
// not present in t become unbound cells (used after expression
// bindings introduce new columns not yet materialized for older rows).
func (t *Table) Project(columns []string) *Table {
	out := NewTable(columns)
	for _, r := range t.Rows {
		nr := make(Row, len(columns))
		for i, c := range columns {
			if idx := t.ColumnIndex(c); idx >= 0 {
				nr[i] = r[idx]
			} else {
				nr[i] = rdf.Unbound
			}
		}
		out.AddRow(nr)
	}
	return out
}

// SortBy stably sorts rows using the given less function. Stable sort
// is required for ORDER BY's determinism over ties and for LIMIT/OFFSET
// composition to be well-defined (§8).
func (t *Table) SortBy(less func(a, b Row) bool) {
	sort.SliceStable(t.Rows, func(i, j int) bool { return less(t.Rows[i], t.Rows[j]) })
}

// Slice applies OFFSET/LIMIT: rows [offset, offset+limit). limit < 0
// means unbounded; offset < 0 means 0.
func (t *Table) Slice(offset, limit int) *Table {
	if offset < 0 {
		offset = 0
	}
	out := NewTable(t.Columns)
	if offset >= len(t.Rows) {
		return out
	}
	end := len(t.Rows)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	out.Rows = append(out.Rows, t.Rows[offset:end]...)
	return out
}

// Clone returns a shallow copy (rows slice copied, term values shared —
// terms are immutable value types so sharing is safe).
func (t *Table) Clone() *Table {
	out := NewTable(t.Columns)
	out.Rows = append(out.Rows, t.Rows...)
	return out
}
