package query

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"math"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mirella-sparql/mirella/rdf"
)

// unbound is returned internally to signal "convert this cell to
// unbound" without treating it as a hard evaluation failure — the
// §7 ExpressionError policy is implemented by every node swallowing
// its own type errors into (rdf.Unbound, nil) rather than propagating.
func unbound() (rdf.Term, error) { return rdf.Unbound, nil }

func (e UnaryExpr) Eval(row Row) (rdf.Term, error) {
	v, err := e.Operand.Eval(row)
	if err != nil {
		return unbound()
	}
	switch e.Op {
	case OpNeg:
		n, ok := v.NumericValue()
		if !ok {
			return unbound()
		}
		return rdf.Double(-n), nil
	case OpNot:
		b, ok := threeValued(v)
		if !ok {
			return unbound()
		}
		return rdf.Boolean(!b), nil
	default:
		return unbound()
	}
}

// threeValued extracts a boolean reading of a term for boolean
// operators: booleans read directly, unbound/non-boolean reads as
// "neither true nor false" (ok=false) per §4.2's three-valued logic.
func threeValued(t rdf.Term) (bool, bool) {
	if t.IsUnbound() {
		return false, false
	}
	return t.BooleanValue()
}

func (e BinaryExpr) Eval(row Row) (rdf.Term, error) {
	switch e.Op {
	case OpAnd:
		return evalAnd(row, e.Left, e.Right)
	case OpOr:
		return evalOr(row, e.Left, e.Right)
	}

	l, lerr := e.Left.Eval(row)
	r, rerr := e.Right.Eval(row)
	if lerr != nil || rerr != nil {
		return unbound()
	}

	switch e.Op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return evalArithmetic(e.Op, l, r)
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return evalComparison(e.Op, l, r)
	default:
		return unbound()
	}
}

// evalAnd implements short-circuit AND: false if either operand is
// false, even if the other errors (§4.2 Boolean short-circuit).
func evalAnd(row Row, left, right Expression) (rdf.Term, error) {
	lv, lerr := left.Eval(row)
	if lerr == nil {
		if b, ok := threeValued(lv); ok && !b {
			return rdf.Boolean(false), nil
		}
	}
	rv, rerr := right.Eval(row)
	if rerr == nil {
		if b, ok := threeValued(rv); ok && !b {
			return rdf.Boolean(false), nil
		}
	}
	if lerr != nil || rerr != nil {
		return unbound()
	}
	lb, lok := threeValued(lv)
	rb, rok := threeValued(rv)
	if !lok || !rok {
		return unbound()
	}
	return rdf.Boolean(lb && rb), nil
}

// evalOr implements short-circuit OR: true if either operand is true.
func evalOr(row Row, left, right Expression) (rdf.Term, error) {
	lv, lerr := left.Eval(row)
	if lerr == nil {
		if b, ok := threeValued(lv); ok && b {
			return rdf.Boolean(true), nil
		}
	}
	rv, rerr := right.Eval(row)
	if rerr == nil {
		if b, ok := threeValued(rv); ok && b {
			return rdf.Boolean(true), nil
		}
	}
	if lerr != nil || rerr != nil {
		return unbound()
	}
	lb, lok := threeValued(lv)
	rb, rok := threeValued(rv)
	if !lok || !rok {
		return unbound()
	}
	return rdf.Boolean(lb || rb), nil
}

// evalArithmetic widens both operands to the widest numeric datatype
// among them (here: float64, since xsd:double subsumes integer/decimal
// for arithmetic purposes) per §4.2's Arithmetic row.
func evalArithmetic(op Operator, l, r rdf.Term) (rdf.Term, error) {
	lv, lok := l.NumericValue()
	rv, rok := r.NumericValue()
	if !lok || !rok {
		return unbound()
	}
	switch op {
	case OpAdd:
		return rdf.Double(lv + rv), nil
	case OpSub:
		return rdf.Double(lv - rv), nil
	case OpMul:
		return rdf.Double(lv * rv), nil
	case OpDiv:
		if rv == 0 {
			return unbound()
		}
		return rdf.Double(lv / rv), nil
	default:
		return unbound()
	}
}

// evalComparison covers numeric, string, and temporal comparison;
// type mismatch falls through to unbound (§4.2 Comparison row).
func evalComparison(op Operator, l, r rdf.Term) (rdf.Term, error) {
	var cmp int
	switch {
	case l.IsNumeric() && r.IsNumeric():
		cmp = rdf.CompareTerms(l, r)
	case l.IsString() && r.IsString():
		cmp = rdf.CompareTerms(l, r)
	case l.IsTemporal() && r.IsTemporal():
		cmp = rdf.CompareTerms(l, r)
	case op == OpEq || op == OpNe:
		eq := l.Equal(r)
		if op == OpEq {
			return rdf.Boolean(eq), nil
		}
		return rdf.Boolean(!eq), nil
	default:
		return unbound()
	}
	switch op {
	case OpEq:
		return rdf.Boolean(cmp == 0), nil
	case OpNe:
		return rdf.Boolean(cmp != 0), nil
	case OpLt:
		return rdf.Boolean(cmp < 0), nil
	case OpLe:
		return rdf.Boolean(cmp <= 0), nil
	case OpGt:
		return rdf.Boolean(cmp > 0), nil
	case OpGe:
		return rdf.Boolean(cmp >= 0), nil
	default:
		return unbound()
	}
}

func (e InExpr) Eval(row Row) (rdf.Term, error) {
	operand, err := e.Operand.Eval(row)
	if err != nil {
		return unbound()
	}
	if len(e.Set) == 0 {
		// "empty list → false / true" per §4.2 Membership row.
		return rdf.Boolean(e.Negate), nil
	}
	found := false
	for _, candidate := range e.Set {
		v, err := candidate.Eval(row)
		if err != nil {
			continue
		}
		if operand.Equal(v) {
			found = true
			break
		}
	}
	if e.Negate {
		return rdf.Boolean(!found), nil
	}
	return rdf.Boolean(found), nil
}

func (e CallExpr) Eval(row Row) (rdf.Term, error) {
	args := make([]rdf.Term, len(e.Args))
	for i, a := range e.Args {
		v, err := a.Eval(row)
		if err != nil {
			return unbound()
		}
		args[i] = v
	}
	return evalFunc(e.Func, args)
}

func evalFunc(fn FuncName, args []rdf.Term) (rdf.Term, error) {
	switch fn {
	case FnBound:
		if len(args) != 1 {
			return unbound()
		}
		return rdf.Boolean(!args[0].IsUnbound()), nil

	case FnConcat:
		var sb strings.Builder
		for _, a := range args {
			sb.WriteString(a.Lexical())
		}
		return rdf.StringLiteral(sb.String()), nil

	case FnSubstr:
		if len(args) < 2 {
			return unbound()
		}
		s := []rune(args[0].Lexical())
		start, ok := args[1].NumericValue()
		if !ok {
			return unbound()
		}
		from := int(start) - 1 // SPARQL substr is 1-indexed
		if from < 0 || from > len(s) {
			return unbound()
		}
		length := len(s) - from
		if len(args) >= 3 {
			l, ok := args[2].NumericValue()
			if !ok {
				return unbound()
			}
			length = int(l)
		}
		to := from + length
		if to > len(s) || to < from {
			return unbound()
		}
		return rdf.StringLiteral(string(s[from:to])), nil

	case FnStrlen:
		if len(args) != 1 {
			return unbound()
		}
		return rdf.Integer(int64(len([]rune(args[0].Lexical())))), nil

	case FnUCase:
		return rdf.StringLiteral(strings.ToUpper(args[0].Lexical())), nil

	case FnLCase:
		return rdf.StringLiteral(strings.ToLower(args[0].Lexical())), nil

	case FnContains:
		if len(args) != 2 {
			return unbound()
		}
		return rdf.Boolean(strings.Contains(args[0].Lexical(), args[1].Lexical())), nil

	case FnStrStarts:
		if len(args) != 2 {
			return unbound()
		}
		return rdf.Boolean(strings.HasPrefix(args[0].Lexical(), args[1].Lexical())), nil

	case FnStrEnds:
		if len(args) != 2 {
			return unbound()
		}
		return rdf.Boolean(strings.HasSuffix(args[0].Lexical(), args[1].Lexical())), nil

	case FnReplace:
		if len(args) != 3 {
			return unbound()
		}
		re, err := regexp.Compile(args[1].Lexical())
		if err != nil {
			return unbound()
		}
		return rdf.StringLiteral(re.ReplaceAllString(args[0].Lexical(), args[2].Lexical())), nil

	case FnRegex:
		if len(args) < 2 {
			return unbound()
		}
		pattern := args[1].Lexical()
		if len(args) >= 3 && strings.Contains(args[2].Lexical(), "i") {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return unbound()
		}
		return rdf.Boolean(re.MatchString(args[0].Lexical())), nil

	case FnAbs:
		n, ok := args[0].NumericValue()
		if !ok {
			return unbound()
		}
		return rdf.Double(math.Abs(n)), nil

	case FnRound:
		n, ok := args[0].NumericValue()
		if !ok {
			return unbound()
		}
		return rdf.Double(math.Round(n)), nil

	case FnCeil:
		n, ok := args[0].NumericValue()
		if !ok {
			return unbound()
		}
		return rdf.Double(math.Ceil(n)), nil

	case FnFloor:
		n, ok := args[0].NumericValue()
		if !ok {
			return unbound()
		}
		return rdf.Double(math.Floor(n)), nil

	case FnRand:
		return rdf.Double(rand.Float64()), nil

	case FnNow:
		return rdf.NewTypedLiteral(time.Now().UTC().Format(time.RFC3339), rdf.XSDDateTime), nil

	case FnYear, FnMonth, FnDay, FnHours, FnMinutes, FnSeconds, FnTZ:
		return evalTemporal(fn, args)

	case FnMD5:
		return hashHex(args, md5.New().Size(), func(b []byte) []byte { h := md5.Sum(b); return h[:] })
	case FnSHA1:
		return hashHex(args, sha1.Size, func(b []byte) []byte { h := sha1.Sum(b); return h[:] })
	case FnSHA256:
		return hashHex(args, sha256.Size, func(b []byte) []byte { h := sha256.Sum256(b); return h[:] })
	case FnSHA384:
		return hashHex(args, sha512.Size384, func(b []byte) []byte { h := sha512.Sum384(b); return h[:] })
	case FnSHA512:
		return hashHex(args, sha512.Size, func(b []byte) []byte { h := sha512.Sum512(b); return h[:] })

	case FnIsIRI:
		return rdf.Boolean(args[0].IsIRI()), nil
	case FnIsBlank:
		return rdf.Boolean(args[0].IsBlankNode()), nil
	case FnIsLiteral:
		return rdf.Boolean(args[0].IsLiteral()), nil
	case FnIsNumeric:
		return rdf.Boolean(args[0].IsNumeric()), nil
	case FnStr:
		return rdf.StringLiteral(args[0].Lexical()), nil
	case FnLang:
		return rdf.StringLiteral(args[0].Lang()), nil
	case FnDatatype:
		return rdf.NewIRI(args[0].Datatype()), nil
	case FnIRI:
		return rdf.NewIRI(args[0].Lexical()), nil
	case FnBNode:
		if len(args) == 1 {
			return rdf.NewBlankNode(args[0].Lexical()), nil
		}
		return rdf.NewBlankNode(uuid.NewString()), nil
	case FnUUID:
		return rdf.NewIRI("urn:uuid:" + uuid.NewString()), nil
	case FnStrUUID:
		return rdf.StringLiteral(uuid.NewString()), nil

	default:
		return unbound()
	}
}

func hashHex(args []rdf.Term, _ int, sum func([]byte) []byte) (rdf.Term, error) {
	if len(args) != 1 {
		return unbound()
	}
	digest := sum([]byte(args[0].Lexical()))
	return rdf.StringLiteral(hex.EncodeToString(digest)), nil
}

func evalTemporal(fn FuncName, args []rdf.Term) (rdf.Term, error) {
	if len(args) != 1 || !args[0].IsTemporal() {
		return unbound()
	}
	t, err := time.Parse(time.RFC3339, args[0].Lexical())
	if err != nil {
		return unbound()
	}
	switch fn {
	case FnYear:
		return rdf.Integer(int64(t.Year())), nil
	case FnMonth:
		return rdf.Integer(int64(t.Month())), nil
	case FnDay:
		return rdf.Integer(int64(t.Day())), nil
	case FnHours:
		return rdf.Integer(int64(t.Hour())), nil
	case FnMinutes:
		return rdf.Integer(int64(t.Minute())), nil
	case FnSeconds:
		return rdf.Integer(int64(t.Second())), nil
	case FnTZ:
		name, _ := t.Zone()
		return rdf.StringLiteral(name), nil
	default:
		return unbound()
	}
}
