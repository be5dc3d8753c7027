package query

import (
	"fmt"

	"github.com/mirella-sparql/mirella/rdf"
	"github.com/mirella-sparql/mirella/store"
)

// Form names the query's root kind — spec.md §3/§6 Query object.
type Form int

const (
	FormSelect Form = iota
	FormDescribe
	FormConstruct
	FormAsk
)

func (f Form) String() string {
	switch f {
	case FormSelect:
		return "SELECT"
	case FormDescribe:
		return "DESCRIBE"
	case FormConstruct:
		return "CONSTRUCT"
	case FormAsk:
		return "ASK"
	default:
		return "UNKNOWN"
	}
}

// Query is the root query object: immutable during evaluation (per
// spec.md §3's ownership rule — a Query may be re-applied to different
// datasets), built via this package's constructors and methods rather
// than parsed from SPARQL text (textual parsing is explicitly out of
// scope per spec.md §1).
type Query struct {
	Form     Form
	Prefixes map[string]string
	Where    []*PatternGroup
	Modifiers

	// ConstructTemplate holds the CONSTRUCT template triples (terms may
	// be variables, substituted per result row).
	ConstructTemplate []store.Pattern

	// DescribeTerms holds the DESCRIBE term/variable list.
	DescribeTerms []rdf.Term
}

// NewSelect builds a SELECT query over the given pattern groups.
func NewSelect(where ...*PatternGroup) *Query {
	return &Query{Form: FormSelect, Where: where, Modifiers: NewModifiers()}
}

// NewAsk builds an ASK query.
func NewAsk(where ...*PatternGroup) *Query {
	return &Query{Form: FormAsk, Where: where, Modifiers: NewModifiers()}
}

// NewConstruct builds a CONSTRUCT query.
func NewConstruct(template []store.Pattern, where ...*PatternGroup) *Query {
	return &Query{Form: FormConstruct, ConstructTemplate: template, Where: where, Modifiers: NewModifiers()}
}

// NewDescribe builds a DESCRIBE query over the given terms (ground
// terms or variables bound by the WHERE clause, possibly empty).
func NewDescribe(terms []rdf.Term, where ...*PatternGroup) *Query {
	return &Query{Form: FormDescribe, DescribeTerms: terms, Where: where, Modifiers: NewModifiers()}
}

// Select sets the SELECT projection list.
func (q *Query) Select(items ...ProjectionItem) *Query {
	q.Modifiers.Projection = items
	return q
}

// GroupByVars sets the GROUP BY grouping variables.
func (q *Query) GroupByVars(vars ...string) *Query {
	q.Modifiers.GroupBy = vars
	return q
}

// HavingExpr sets the HAVING filter, evaluated post-projection.
func (q *Query) HavingExpr(e Expression) *Query {
	q.Modifiers.Having = e
	return q
}

// OrderByVar adds an ORDER BY term over a bare variable.
func (q *Query) OrderByVar(name string, dir OrderDirection) *Query {
	q.Modifiers.OrderBy = append(q.Modifiers.OrderBy, OrderTerm{Expr: VarExpr{Name: name}, Direction: dir})
	return q
}

// WithDistinct marks the query DISTINCT.
func (q *Query) WithDistinct() *Query {
	q.Modifiers.Distinct = true
	return q
}

// WithLimit sets LIMIT.
func (q *Query) WithLimit(n int) *Query {
	q.Modifiers.Limit = n
	return q
}

// WithOffset sets OFFSET.
func (q *Query) WithOffset(n int) *Query {
	q.Modifiers.Offset = n
	return q
}

// ProjectedVariables returns the variable names of the query's SELECT
// list, in order; it is empty when no projection list is set (including
// a SELECT * sub-select). patternGroupVariables uses it to collect the
// variables a sub-select contributes.
func (q *Query) ProjectedVariables() []string {
	var out []string
	for _, item := range q.Modifiers.Projection {
		out = append(out, item.Var)
	}
	return out
}

// patternGroupVariables collects every variable name bound anywhere in
// the given groups: pattern slots, path-pattern slots, BIND targets,
// and sub-select projections.
func patternGroupVariables(groups []*PatternGroup) map[string]bool {
	out := map[string]bool{}
	for _, g := range groups {
		for _, p := range g.Patterns {
			for _, v := range p.Variables() {
				out[v.Name()] = true
			}
		}
		for _, pp := range g.Paths {
			if pp.Subject.IsVariable() {
				out[pp.Subject.Name()] = true
			}
			if pp.Object.IsVariable() {
				out[pp.Object.Name()] = true
			}
		}
		for _, b := range g.Binds {
			out[b.As] = true
		}
		for _, sub := range g.SubSelects {
			for _, v := range sub.ProjectedVariables() {
				out[v] = true
			}
		}
	}
	return out
}

// Validate implements spec.md §4.1 step 1's normalisation checks,
// returning a MalformedQueryError describing the first violation found.
func (q *Query) Validate() error {
	bound := patternGroupVariables(q.Where)

	if q.Form == FormSelect {
		for _, item := range q.Modifiers.Projection {
			if item.Expr != nil || item.Agg != nil {
				continue // expression/aggregate bindings introduce their own variable
			}
			if !bound[item.Var] {
				return &MalformedQueryError{
					Reason: fmt.Sprintf("projection variable ?%s is not produced by any pattern group or expression binding", item.Var),
				}
			}
		}
	}

	if q.Form == FormDescribe {
		for _, t := range q.DescribeTerms {
			if t.IsVariable() && !bound[t.Name()] {
				return &MalformedQueryError{
					Reason: fmt.Sprintf("DESCRIBE variable ?%s is not produced by any pattern group", t.Name()),
				}
			}
		}
	}

	for _, g := range q.Where {
		for _, filter := range g.Filters {
			if u, ok := filter.(UnaryExpr); ok && u.Op == OpNot {
				if _, wrapsExists := u.Operand.(ExistsExpr); wrapsExists {
					return &MalformedQueryError{
						Reason: "NOT wrapping EXISTS is not allowed; use NOT EXISTS directly",
					}
				}
			}
		}
	}

	return nil
}

// String renders the query using the package-level printer hook, kept
// here as a thin delegator so callers can call Query.String() without
// importing the printer package directly. Set by printer.init via
// RegisterPrinter to avoid a query->printer import cycle.
func (q *Query) String() string {
	if stringer != nil {
		return stringer(q)
	}
	return fmt.Sprintf("%s query (%d pattern groups)", q.Form, len(q.Where))
}

var stringer func(*Query) string

// RegisterPrinter lets the printer package install its canonical
// serializer without query importing printer.
func RegisterPrinter(f func(*Query) string) { stringer = f }
