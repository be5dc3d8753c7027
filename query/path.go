package query

import "github.com/mirella-sparql/mirella/rdf"

// PathKind tags a PropertyPath variant. The algebra is a small closed
// set over predicate IRIs: sequence, alternative, inverse, and the
// zero-or-one / zero-or-more / one-or-more cardinality modifiers,
// matching spec.md §3's PropertyPath definition.
type PathKind int

const (
	PathPredicate PathKind = iota
	PathSequence
	PathAlternative
	PathInverse
	PathZeroOrOne
	PathZeroOrMore
	PathOneOrMore
)

// PropertyPath is a node in the path algebra. Predicate is set only for
// PathPredicate leaves; Sub holds the sub-path(s) for every composite
// kind (one element for Inverse/ZeroOrOne/ZeroOrMore/OneOrMore, two or
// more for Sequence/Alternative).
type PropertyPath struct {
	Kind      PathKind
	Predicate rdf.Term
	Sub       []*PropertyPath
}

// Pred builds a single-predicate path leaf.
func Pred(iri rdf.Term) *PropertyPath { return &PropertyPath{Kind: PathPredicate, Predicate: iri} }

// Seq builds a sequence path p1/p2/.../pn.
func Seq(paths ...*PropertyPath) *PropertyPath { return &PropertyPath{Kind: PathSequence, Sub: paths} }

// Alt builds an alternative path p1|p2|...|pn.
func Alt(paths ...*PropertyPath) *PropertyPath {
	return &PropertyPath{Kind: PathAlternative, Sub: paths}
}

// Inv builds the inverse of a path (^p).
func Inv(p *PropertyPath) *PropertyPath { return &PropertyPath{Kind: PathInverse, Sub: []*PropertyPath{p}} }

// ZeroOrOne builds p?.
func ZeroOrOne(p *PropertyPath) *PropertyPath {
	return &PropertyPath{Kind: PathZeroOrOne, Sub: []*PropertyPath{p}}
}

// ZeroOrMore builds p*.
func ZeroOrMore(p *PropertyPath) *PropertyPath {
	return &PropertyPath{Kind: PathZeroOrMore, Sub: []*PropertyPath{p}}
}

// OneOrMore builds p+.
func OneOrMore(p *PropertyPath) *PropertyPath {
	return &PropertyPath{Kind: PathOneOrMore, Sub: []*PropertyPath{p}}
}

// PathPattern is a pattern whose predicate slot is a PropertyPath
// instead of a single IRI/variable.
type PathPattern struct {
	Subject rdf.Term
	Path    *PropertyPath
	Object  rdf.Term
	Context rdf.Term
}

func (pp PathPattern) String() string {
	return pp.Subject.String() + " " + pp.Path.String() + " " + pp.Object.String()
}

func (p *PropertyPath) String() string {
	switch p.Kind {
	case PathPredicate:
		return p.Predicate.String()
	case PathSequence:
		s := ""
		for i, sub := range p.Sub {
			if i > 0 {
				s += "/"
			}
			s += sub.String()
		}
		return s
	case PathAlternative:
		s := ""
		for i, sub := range p.Sub {
			if i > 0 {
				s += "|"
			}
			s += sub.String()
		}
		return s
	case PathInverse:
		return "^" + p.Sub[0].String()
	case PathZeroOrOne:
		return p.Sub[0].String() + "?"
	case PathZeroOrMore:
		return p.Sub[0].String() + "*"
	case PathOneOrMore:
		return p.Sub[0].String() + "+"
	default:
		return "<invalid-path>"
	}
}
