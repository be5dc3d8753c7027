package query

import "github.com/mirella-sparql/mirella/rdf"

// Row is the minimal view of one binding-table row an Expression needs
// to evaluate itself. engine's rowView implements this; the query
// package never depends on engine, avoiding the import cycle that
// would result from giving expression nodes a direct evaluator method
// per the teacher's self-evaluating Predicate interface
// (datalog/query/predicate.go) shape.
type Row interface {
	// Value looks up a variable's current binding. ok is false if the
	// variable is not a column of the row at all; a bound-but-unbound
	// cell is reported as (rdf.Unbound, true).
	Value(name string) (rdf.Term, bool)

	// ExistsMatch evaluates an EXISTS/NOT EXISTS sub-pattern against
	// the row's current bindings plus the row's dataset, returning
	// whether at least one compatible match exists.
	ExistsMatch(group *PatternGroup) (bool, error)
}

// Expression is a node in the SPARQL expression tree (§4.2). Eval
// returns rdf.Unbound, nil for values that are well-defined as unbound
// (e.g. looking up an unset variable); it returns a non-nil error only
// for conditions the evaluator should treat as an ExpressionError to be
// swallowed by the caller into unbound.
type Expression interface {
	Eval(row Row) (rdf.Term, error)
	// RequiredVariables lists the variable names this expression reads.
	// Query.Validate does not consult it.
	RequiredVariables() []string
	String() string
}

// Operator enumerates the binary/unary operator classes from §4.2's
// operator table.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpNeg // unary minus

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	OpAnd
	OpOr
	OpNot
)

// VarExpr is a leaf referencing a bound variable.
type VarExpr struct{ Name string }

func (e VarExpr) Eval(row Row) (rdf.Term, error) {
	v, ok := row.Value(e.Name)
	if !ok {
		return rdf.Unbound, nil
	}
	return v, nil
}
func (e VarExpr) RequiredVariables() []string { return []string{e.Name} }
func (e VarExpr) String() string              { return "?" + e.Name }

// LiteralExpr is a leaf holding a ground term. Evaluating it is the
// identity law from §4.2: "a unary expression over any term returns
// that term unchanged" — a literal leaf is the base case of that law.
type LiteralExpr struct{ Term rdf.Term }

func (e LiteralExpr) Eval(row Row) (rdf.Term, error)  { return e.Term, nil }
func (e LiteralExpr) RequiredVariables() []string      { return nil }
func (e LiteralExpr) String() string                   { return e.Term.String() }

// UnaryExpr applies OpNeg or OpNot to one operand.
type UnaryExpr struct {
	Op      Operator
	Operand Expression
}

func (e UnaryExpr) RequiredVariables() []string { return e.Operand.RequiredVariables() }
func (e UnaryExpr) String() string {
	sym := map[Operator]string{OpNeg: "-", OpNot: "!"}[e.Op]
	return sym + e.Operand.String()
}

// BinaryExpr applies an arithmetic, comparison, or boolean operator to
// two operands.
type BinaryExpr struct {
	Op          Operator
	Left, Right Expression
}

func (e BinaryExpr) RequiredVariables() []string {
	return append(append([]string{}, e.Left.RequiredVariables()...), e.Right.RequiredVariables()...)
}
func (e BinaryExpr) String() string {
	sym := map[Operator]string{
		OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/",
		OpEq: "=", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
		OpAnd: "&&", OpOr: "||",
	}[e.Op]
	return "(" + e.Left.String() + " " + sym + " " + e.Right.String() + ")"
}

// FuncName enumerates the string/numeric/temporal/hash/type-IRI/
// membership function leaves from §4.2's operator table.
type FuncName string

const (
	FnConcat      FuncName = "concat"
	FnSubstr      FuncName = "substr"
	FnStrlen      FuncName = "strlen"
	FnUCase       FuncName = "ucase"
	FnLCase       FuncName = "lcase"
	FnContains    FuncName = "contains"
	FnStrStarts   FuncName = "strstarts"
	FnStrEnds     FuncName = "strends"
	FnReplace     FuncName = "replace"
	FnRegex       FuncName = "regex"
	FnAbs         FuncName = "abs"
	FnRound       FuncName = "round"
	FnCeil        FuncName = "ceil"
	FnFloor       FuncName = "floor"
	FnRand        FuncName = "rand"
	FnYear        FuncName = "year"
	FnMonth       FuncName = "month"
	FnDay         FuncName = "day"
	FnHours       FuncName = "hours"
	FnMinutes     FuncName = "minutes"
	FnSeconds     FuncName = "seconds"
	FnTZ          FuncName = "tz"
	FnNow         FuncName = "now"
	FnMD5         FuncName = "md5"
	FnSHA1        FuncName = "sha1"
	FnSHA256      FuncName = "sha256"
	FnSHA384      FuncName = "sha384"
	FnSHA512      FuncName = "sha512"
	FnIsIRI       FuncName = "isIRI"
	FnIsBlank     FuncName = "isBlank"
	FnIsLiteral   FuncName = "isLiteral"
	FnIsNumeric   FuncName = "isNumeric"
	FnStr         FuncName = "str"
	FnLang        FuncName = "lang"
	FnDatatype    FuncName = "datatype"
	FnIRI         FuncName = "iri"
	FnBNode       FuncName = "bnode"
	FnUUID        FuncName = "uuid"
	FnStrUUID     FuncName = "strUUID"
	FnBound       FuncName = "bound"
)

// CallExpr invokes a named function with zero or more argument
// expressions. Semantics and error policy for each FuncName are
// implemented by evalFunc in expression_eval.go.
type CallExpr struct {
	Func FuncName
	Args []Expression
}

func (e CallExpr) RequiredVariables() []string {
	var out []string
	for _, a := range e.Args {
		out = append(out, a.RequiredVariables()...)
	}
	return out
}
func (e CallExpr) String() string {
	s := string(e.Func) + "("
	for i, a := range e.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

// InExpr implements IN / NOT IN membership testing.
type InExpr struct {
	Operand Expression
	Set     []Expression
	Negate  bool
}

func (e InExpr) RequiredVariables() []string {
	out := append([]string{}, e.Operand.RequiredVariables()...)
	for _, s := range e.Set {
		out = append(out, s.RequiredVariables()...)
	}
	return out
}
func (e InExpr) String() string {
	s := e.Operand.String()
	if e.Negate {
		s += " NOT IN ("
	} else {
		s += " IN ("
	}
	for i, v := range e.Set {
		if i > 0 {
			s += ", "
		}
		s += v.String()
	}
	return s + ")"
}

// ExistsExpr implements EXISTS / NOT EXISTS as a filter expression over
// a sub-pattern-group, evaluated against the current row's bindings —
// the supplemented feature noted in SPEC_FULL.md (implied, not spelled
// out, by spec.md §4.1's validation rule referencing it).
type ExistsExpr struct {
	Negate bool
	Group  *PatternGroup
}

func (e ExistsExpr) Eval(row Row) (rdf.Term, error) {
	found, err := row.ExistsMatch(e.Group)
	if err != nil {
		return rdf.Unbound, err
	}
	if e.Negate {
		found = !found
	}
	return rdf.Boolean(found), nil
}
func (e ExistsExpr) RequiredVariables() []string { return nil }
func (e ExistsExpr) String() string {
	if e.Negate {
		return "NOT EXISTS { ... }"
	}
	return "EXISTS { ... }"
}
