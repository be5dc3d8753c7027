package rdf

// Triple is a ground subject/predicate/object fact, generalizing the
// teacher's Datom{E,A,V,Tx} four-tuple to the RDF S/P/O shape (the
// transaction slot has no analogue here; graph context is added by Quad).
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}

// Quad is a Triple scoped to a named graph. Graph is DefaultGraph when
// the triple belongs to the default graph (as QuadFromTriple sets it).
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

// DefaultGraph is the sentinel graph term for triples not in any named graph.
var DefaultGraph = NewIRI("urn:mirella:default-graph")

// ToTriple drops the graph slot.
func (q Quad) ToTriple() Triple {
	return Triple{Subject: q.Subject, Predicate: q.Predicate, Object: q.Object}
}

// QuadFromTriple lifts a Triple into the default graph.
func QuadFromTriple(t Triple) Quad {
	return Quad{Subject: t.Subject, Predicate: t.Predicate, Object: t.Object, Graph: DefaultGraph}
}

func (q Quad) String() string {
	return q.Subject.String() + " " + q.Predicate.String() + " " + q.Object.String() + " " + q.Graph.String() + " ."
}

// Equal compares two quads by canonical string form of every slot.
func (q Quad) Equal(other Quad) bool {
	return q.Subject.Equal(other.Subject) &&
		q.Predicate.Equal(other.Predicate) &&
		q.Object.Equal(other.Object) &&
		q.Graph.Equal(other.Graph)
}
