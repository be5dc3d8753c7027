package query

import "github.com/mirella-sparql/mirella/store"

// GroupFlag marks a PatternGroup's relationship to its siblings in the
// declaration-order combination step (§4.1 step 3).
type GroupFlag int

const (
	GroupPlain GroupFlag = iota
	GroupOptional
	GroupMinus
	GroupUnion
)

// BindClause names a SPARQL 1.1 BIND clause inside a WHERE block — a
// supplemented feature (see SPEC_FULL.md) grounded on the explicit
// Bind{Expression,Variable} clause type in the trigo reference AST.
type BindClause struct {
	Expr Expression
	As   string // variable name, without '?'
}

// PatternGroup is a conjunction of patterns plus optional property
// paths, value-inlined bindings, sub-selects, filters, and a flag
// marking the group OPTIONAL/MINUS/UNION relative to its siblings —
// spec.md §3's PatternGroup.
type PatternGroup struct {
	Patterns   []store.Pattern
	Paths      []PathPattern
	Binds      []BindClause
	SubSelects []*Query
	Filters    []Expression
	Flag       GroupFlag

	// Values holds a value-inlined binding table (SPARQL VALUES
	// clause): each inner slice is one row, in Columns order.
	ValuesColumns []string
	ValuesRows    [][]string // canonical term strings; parsed back to rdf.Term by the engine
}

// NewPatternGroup builds a plain (non-optional/minus/union) group over
// the given patterns.
func NewPatternGroup(patterns ...store.Pattern) *PatternGroup {
	return &PatternGroup{Patterns: patterns}
}

// Optional marks the group OPTIONAL relative to its predecessor.
func (g *PatternGroup) Optional() *PatternGroup { g.Flag = GroupOptional; return g }

// Minus marks the group MINUS relative to its predecessor.
func (g *PatternGroup) Minus() *PatternGroup { g.Flag = GroupMinus; return g }

// Union marks the group UNION relative to its predecessor.
func (g *PatternGroup) Union() *PatternGroup { g.Flag = GroupUnion; return g }

// Filter appends a filter expression evaluated over the group's joined table.
func (g *PatternGroup) Filter(e Expression) *PatternGroup {
	g.Filters = append(g.Filters, e)
	return g
}

// Bind appends a BIND clause.
func (g *PatternGroup) Bind(e Expression, as string) *PatternGroup {
	g.Binds = append(g.Binds, BindClause{Expr: e, As: as})
	return g
}
