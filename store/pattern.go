package store

import "github.com/mirella-sparql/mirella/rdf"

// Pattern is a triple/quad pattern: an ordered tuple of subject,
// predicate, object, and optional graph context where each slot is
// either a ground term or a variable. This is the single shape every
// Dataset implementation (Graph, QuadStore, Federation) matches
// against — the engine never type-switches on the backend.
type Pattern struct {
	Subject   rdf.Term
	Predicate rdf.Term
	Object    rdf.Term
	Context   rdf.Term // rdf.Unbound when the pattern does not constrain the graph
}

// Variables returns the set of variable slots in the pattern, in
// subject/predicate/object/context order, deduplicated by name.
func (p Pattern) Variables() []rdf.Term {
	var out []rdf.Term
	seen := map[string]bool{}
	add := func(t rdf.Term) {
		if t.IsVariable() && !seen[t.Name()] {
			seen[t.Name()] = true
			out = append(out, t)
		}
	}
	add(p.Subject)
	add(p.Predicate)
	add(p.Object)
	if !p.Context.IsUnbound() {
		add(p.Context)
	}
	return out
}

// GroundSlots counts the number of non-variable, non-unbound slots —
// used by the engine's join-ordering heuristic (most-ground-first).
func (p Pattern) GroundSlots() int {
	n := 0
	for _, t := range []rdf.Term{p.Subject, p.Predicate, p.Object} {
		if !t.IsVariable() && !t.IsUnbound() {
			n++
		}
	}
	if !p.Context.IsUnbound() && !p.Context.IsVariable() {
		n++
	}
	return n
}

// String renders the pattern as "s p o" (plus graph, if constrained),
// used for diagnostic event labels.
func (p Pattern) String() string {
	s := p.Subject.String() + " " + p.Predicate.String() + " " + p.Object.String()
	if !p.Context.IsUnbound() {
		s += " " + p.Context.String()
	}
	return s
}

// Matches reports whether a ground quad satisfies this pattern: every
// ground slot must equal the quad's corresponding term; variable and
// unbound slots match anything.
func (p Pattern) Matches(q rdf.Quad) bool {
	match := func(slot, val rdf.Term) bool {
		return slot.IsVariable() || slot.IsUnbound() || slot.Equal(val)
	}
	if !match(p.Subject, q.Subject) {
		return false
	}
	if !match(p.Predicate, q.Predicate) {
		return false
	}
	if !match(p.Object, q.Object) {
		return false
	}
	if !p.Context.IsUnbound() && !match(p.Context, q.Graph) {
		return false
	}
	return true
}
