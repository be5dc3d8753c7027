package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirella-sparql/mirella/rdf"
)

type mapRow map[string]rdf.Term

func (r mapRow) Value(name string) (rdf.Term, bool) {
	v, ok := r[name]
	return v, ok
}
func (r mapRow) ExistsMatch(g *PatternGroup) (bool, error) { return false, nil }

func TestUnaryExpressionIdentityLaw(t *testing.T) {
	// §8: evalUnary(t, row) == t for any term t and row.
	terms := []rdf.Term{
		rdf.NewIRI("http://example.org/a"),
		rdf.Integer(42),
		rdf.StringLiteral("hello"),
		rdf.NewVariable("x"),
	}
	row := mapRow{"x": rdf.NewIRI("http://example.org/bound")}
	for _, term := range terms {
		var expr Expression
		if term.IsVariable() {
			expr = VarExpr{Name: term.Name()}
		} else {
			expr = LiteralExpr{Term: term}
		}
		got, err := expr.Eval(row)
		require.NoError(t, err)
		if term.IsVariable() {
			assert.True(t, got.Equal(row["x"]), "expected variable leaf to resolve to bound value")
			continue
		}
		assert.True(t, got.Equal(term), "identity law violated: got %v want %v", got, term)
	}
}

func TestBooleanShortCircuitAnd(t *testing.T) {
	row := mapRow{}
	falseExpr := LiteralExpr{Term: rdf.Boolean(false)}
	errorExpr := VarExpr{Name: "undefined"} // resolves to unbound, not an error per se
	expr := BinaryExpr{Op: OpAnd, Left: falseExpr, Right: errorExpr}
	got, err := expr.Eval(row)
	require.NoError(t, err)
	b, _ := got.BooleanValue()
	assert.False(t, b, "expected AND with a false operand to be false")
}

func TestBooleanShortCircuitOr(t *testing.T) {
	row := mapRow{}
	trueExpr := LiteralExpr{Term: rdf.Boolean(true)}
	undefinedExpr := VarExpr{Name: "undefined"}
	expr := BinaryExpr{Op: OpOr, Left: trueExpr, Right: undefinedExpr}
	got, err := expr.Eval(row)
	require.NoError(t, err)
	b, _ := got.BooleanValue()
	assert.True(t, b, "expected OR with a true operand to be true")
}

func TestArithmeticWidensToDouble(t *testing.T) {
	row := mapRow{}
	expr := BinaryExpr{Op: OpAdd, Left: LiteralExpr{Term: rdf.Integer(1)}, Right: LiteralExpr{Term: rdf.Integer(2)}}
	got, err := expr.Eval(row)
	require.NoError(t, err)
	v, ok := got.NumericValue()
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
	assert.Equal(t, rdf.XSDDouble, got.Datatype())
}

func TestComparisonTypeMismatchIsUnbound(t *testing.T) {
	row := mapRow{}
	expr := BinaryExpr{Op: OpLt, Left: LiteralExpr{Term: rdf.Integer(1)}, Right: LiteralExpr{Term: rdf.StringLiteral("x")}}
	got, err := expr.Eval(row)
	require.NoError(t, err, "type-mismatched comparison should swallow to unbound, not error")
	assert.True(t, got.IsUnbound(), "expected type-mismatched comparison to be unbound, got %v", got)
}

func TestInExprEmptySetSemantics(t *testing.T) {
	row := mapRow{}
	in := InExpr{Operand: LiteralExpr{Term: rdf.Integer(1)}, Set: nil, Negate: false}
	got, _ := in.Eval(row)
	b, _ := got.BooleanValue()
	assert.False(t, b, "expected IN with empty set to be false")

	notIn := InExpr{Operand: LiteralExpr{Term: rdf.Integer(1)}, Set: nil, Negate: true}
	got2, _ := notIn.Eval(row)
	b2, _ := got2.BooleanValue()
	assert.True(t, b2, "expected NOT IN with empty set to be true")
}

func TestFunctionStringOps(t *testing.T) {
	row := mapRow{}
	call := CallExpr{Func: FnUCase, Args: []Expression{LiteralExpr{Term: rdf.StringLiteral("abc")}}}
	got, err := call.Eval(row)
	require.NoError(t, err)
	assert.Equal(t, "ABC", got.Lexical())
}

func TestBoundFunction(t *testing.T) {
	row := mapRow{"x": rdf.NewIRI("http://example.org/a")}
	boundCall := CallExpr{Func: FnBound, Args: []Expression{VarExpr{Name: "x"}}}
	got, _ := boundCall.Eval(row)
	b, _ := got.BooleanValue()
	assert.True(t, b, "expected bound(?x) to be true when ?x is bound")

	unboundCall := CallExpr{Func: FnBound, Args: []Expression{VarExpr{Name: "y"}}}
	got2, _ := unboundCall.Eval(row)
	b2, _ := got2.BooleanValue()
	assert.False(t, b2, "expected bound(?y) to be false when ?y is not a row column")
}
