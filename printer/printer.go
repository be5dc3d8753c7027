// Package printer renders a *query.Query as canonical SPARQL 1.1 query
// text. Grounded on the teacher's Query.String()/formatWithIndent
// (datalog/query/types.go): a small recursive formatter walking the
// query object tree, indenting nested groups, installed into the query
// package via a package-level hook to avoid an import cycle.
package printer

import (
	"strings"

	"github.com/mirella-sparql/mirella/query"
	"github.com/mirella-sparql/mirella/store"
)

func init() {
	query.RegisterPrinter(Format)
}

// Format renders q as SPARQL 1.1 text.
func Format(q *query.Query) string {
	return formatWithIndent(q, "")
}

// formatWithIndent mirrors the teacher's formatWithIndent(indent): the
// root clause emits the query form and projection, then :where's
// pattern-group equivalent, then trailing modifiers, all indented one
// level deeper than the caller.
func formatWithIndent(q *query.Query, indent string) string {
	var b strings.Builder

	b.WriteString(q.Form.String())
	switch q.Form {
	case query.FormSelect:
		if q.Modifiers.Distinct {
			b.WriteString(" DISTINCT")
		}
		b.WriteString(" ")
		b.WriteString(formatProjection(q))
	case query.FormDescribe:
		b.WriteString(" ")
		for i, t := range q.DescribeTerms {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(t.String())
		}
	case query.FormConstruct:
		b.WriteString(" {\n")
		for _, tmpl := range q.ConstructTemplate {
			b.WriteString(indent + "  " + formatPattern(tmpl) + " .\n")
		}
		b.WriteString(indent + "}")
	}

	if len(q.Where) > 0 {
		b.WriteString("\n" + indent + "WHERE {\n")
		groupIndent := indent + "  "
		for _, g := range q.Where {
			b.WriteString(formatGroup(g, groupIndent))
		}
		b.WriteString(indent + "}")
	}

	b.WriteString(formatModifiers(q, indent))
	return b.String()
}

func formatProjection(q *query.Query) string {
	if len(q.Modifiers.Projection) == 0 {
		return "*"
	}
	var parts []string
	for _, item := range q.Modifiers.Projection {
		switch {
		case item.Agg != nil:
			parts = append(parts, "("+formatAggregate(*item.Agg)+" AS ?"+item.Var+")")
		case item.Expr != nil:
			parts = append(parts, "("+item.Expr.String()+" AS ?"+item.Var+")")
		default:
			parts = append(parts, "?"+item.Var)
		}
	}
	return strings.Join(parts, " ")
}

func formatAggregate(a query.Aggregate) string {
	distinct := ""
	if a.Distinct {
		distinct = "DISTINCT "
	}
	arg := "*"
	if a.Arg != nil {
		arg = a.Arg.String()
	}
	if a.Kind == query.AggGroupConcat {
		return "GROUP_CONCAT(" + distinct + arg + "; SEPARATOR=\"" + a.Separator + "\")"
	}
	return a.Kind.String() + "(" + distinct + arg + ")"
}

func formatGroup(g *query.PatternGroup, indent string) string {
	var b strings.Builder
	open, close := "", ""
	switch g.Flag {
	case query.GroupOptional:
		open, close = "OPTIONAL { ", " }"
	case query.GroupMinus:
		open, close = "MINUS { ", " }"
	case query.GroupUnion:
		open, close = "UNION { ", " }"
	}
	b.WriteString(indent + open)

	var lines []string
	for _, p := range g.Patterns {
		lines = append(lines, formatPattern(p)+" .")
	}
	for _, pp := range g.Paths {
		lines = append(lines, pp.String()+" .")
	}
	for _, bind := range g.Binds {
		lines = append(lines, "BIND("+bind.Expr.String()+" AS ?"+bind.As+")")
	}
	for _, f := range g.Filters {
		lines = append(lines, "FILTER("+f.String()+")")
	}
	for _, sub := range g.SubSelects {
		lines = append(lines, "{ "+formatWithIndent(sub, indent+"  ")+" }")
	}
	if len(g.ValuesColumns) > 0 {
		lines = append(lines, formatValues(g))
	}
	b.WriteString(strings.Join(lines, " "))
	b.WriteString(close + "\n")
	return b.String()
}

func formatValues(g *query.PatternGroup) string {
	var b strings.Builder
	b.WriteString("VALUES (")
	for i, c := range g.ValuesColumns {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString("?" + c)
	}
	b.WriteString(") {")
	for _, row := range g.ValuesRows {
		b.WriteString(" (" + strings.Join(row, " ") + ")")
	}
	b.WriteString(" }")
	return b.String()
}

func formatPattern(p store.Pattern) string {
	s := p.Subject.String() + " " + p.Predicate.String() + " " + p.Object.String()
	if !p.Context.IsUnbound() {
		s = "GRAPH " + p.Context.String() + " { " + s + " }"
	}
	return s
}

func formatModifiers(q *query.Query, indent string) string {
	var b strings.Builder
	m := q.Modifiers
	if len(m.GroupBy) > 0 {
		b.WriteString("\n" + indent + "GROUP BY")
		for _, v := range m.GroupBy {
			b.WriteString(" ?" + v)
		}
	}
	if m.Having != nil {
		b.WriteString("\n" + indent + "HAVING(" + m.Having.String() + ")")
	}
	if len(m.OrderBy) > 0 {
		b.WriteString("\n" + indent + "ORDER BY")
		for _, term := range m.OrderBy {
			dir := "ASC"
			if term.Direction == query.OrderDesc {
				dir = "DESC"
			}
			b.WriteString(" " + dir + "(" + term.Expr.String() + ")")
		}
	}
	if m.Limit >= 0 {
		b.WriteString("\n" + indent + "LIMIT " + itoa(m.Limit))
	}
	if m.Offset >= 0 {
		b.WriteString("\n" + indent + "OFFSET " + itoa(m.Offset))
	}
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}
