package store

import (
	"context"
	"sync"

	"github.com/mirella-sparql/mirella/rdf"
)

// Graph is an in-memory Dataset. It stores triples in the default
// graph only (named-graph scoping is QuadStore's concern), matching
// spec.md's distinction between "in-memory RDF graphs" and "quad
// stores" as separate dataset kinds behind the same Dataset surface.
type Graph struct {
	mu    sync.RWMutex
	quads []rdf.Quad
}

// NewGraph builds an empty in-memory graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Add inserts a triple into the default graph. Not part of the Dataset
// contract (which is read-only) — this is the graph's own load API,
// analogous to the teacher's Store.Assert but without indices, since a
// linear scan is adequate for an in-memory graph.
func (g *Graph) Add(t rdf.Triple) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.quads = append(g.quads, rdf.QuadFromTriple(t))
}

// AddAll inserts many triples at once.
func (g *Graph) AddAll(ts []rdf.Triple) {
	for _, t := range ts {
		g.Add(t)
	}
}

func (g *Graph) Match(ctx context.Context, pattern Pattern) (QuadIterator, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []rdf.Quad
	for _, q := range g.quads {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if pattern.Matches(q) {
			out = append(out, q)
		}
	}
	return newSliceIterator(out), nil
}

func (g *Graph) Close() error { return nil }

// Size returns the number of triples currently in the graph.
func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.quads)
}
