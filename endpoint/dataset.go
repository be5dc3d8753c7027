package endpoint

import (
	"context"

	"github.com/mirella-sparql/mirella/query"
	"github.com/mirella-sparql/mirella/rdf"
	"github.com/mirella-sparql/mirella/store"
)

// RemoteEndpoint implements store.Dataset by translating each pattern
// match into a one-pattern SELECT query, dispatching it over HTTP, and
// reconstructing quads from the SPARQL Results JSON response. This is
// the engine's only network suspension point besides Federation member
// dispatch (spec.md §4.1's "Suspension points" note).
type RemoteEndpoint struct {
	desc Descriptor
}

// New builds a RemoteEndpoint dataset dispatching against desc.
func New(desc Descriptor) *RemoteEndpoint {
	return &RemoteEndpoint{desc: desc}
}

func (e *RemoteEndpoint) Match(ctx context.Context, pattern store.Pattern) (store.QuadIterator, error) {
	vars := pattern.Variables()
	projection := make([]query.ProjectionItem, len(vars))
	for i, v := range vars {
		projection[i] = query.PlainVar(v.Name())
	}
	q := query.NewSelect(query.NewPatternGroup(pattern)).Select(projection...)

	body, err := dispatchRaw(ctx, e.desc, q.String(), "application/sparql-results+json")
	if err != nil {
		return nil, err
	}
	if body == nil {
		return emptyQuadIterator{}, nil
	}

	_, rows, err := parseSelectResults(body)
	if err != nil {
		if e.desc.ErrorPolicy == ReturnEmptyResult {
			return emptyQuadIterator{}, nil
		}
		return nil, err
	}

	quads := make([]rdf.Quad, 0, len(rows))
	for _, row := range rows {
		quads = append(quads, instantiateQuad(pattern, row))
	}
	return newMemoryQuadIterator(quads), nil
}

func (e *RemoteEndpoint) Close() error { return nil }

// instantiateQuad substitutes each variable slot of pattern with its
// bound value from row, leaving ground slots (and the default graph,
// when the pattern left Context unbound) untouched.
func instantiateQuad(pattern store.Pattern, row map[string]rdf.Term) rdf.Quad {
	resolve := func(t rdf.Term) rdf.Term {
		if t.IsVariable() {
			if v, ok := row[t.Name()]; ok {
				return v
			}
			return rdf.Unbound
		}
		return t
	}
	graph := pattern.Context
	if graph.IsUnbound() {
		graph = rdf.DefaultGraph
	} else {
		graph = resolve(graph)
	}
	return rdf.Quad{
		Subject:   resolve(pattern.Subject),
		Predicate: resolve(pattern.Predicate),
		Object:    resolve(pattern.Object),
		Graph:     graph,
	}
}

type emptyQuadIterator struct{}

func (emptyQuadIterator) Next() bool     { return false }
func (emptyQuadIterator) Quad() rdf.Quad { return rdf.Quad{} }
func (emptyQuadIterator) Err() error     { return nil }
func (emptyQuadIterator) Close() error   { return nil }

type memoryQuadIterator struct {
	quads []rdf.Quad
	pos   int
}

func newMemoryQuadIterator(quads []rdf.Quad) *memoryQuadIterator {
	return &memoryQuadIterator{quads: quads, pos: -1}
}

func (it *memoryQuadIterator) Next() bool {
	it.pos++
	return it.pos < len(it.quads)
}

func (it *memoryQuadIterator) Quad() rdf.Quad { return it.quads[it.pos] }
func (it *memoryQuadIterator) Err() error     { return nil }
func (it *memoryQuadIterator) Close() error   { return nil }
