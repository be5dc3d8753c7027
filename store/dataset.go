package store

import (
	"context"

	"github.com/mirella-sparql/mirella/rdf"
)

// Dataset is the single capability surface the engine depends on:
// the ability to enumerate matching quads for a pattern, with variable
// slots acting as wildcards. Graph, QuadStore, and Federation all
// implement it, narrowed from the teacher's Store interface
// (datalog/storage/store.go) to the read-only contract the query
// evaluator actually needs — the engine never writes through a Dataset.
type Dataset interface {
	// Match returns an iterator over every quad satisfying pattern.
	// Suspension (for QuadStore disk scans and Federation member
	// dispatch) is permitted here per the concurrency model; ctx
	// cancellation must be honoured promptly.
	Match(ctx context.Context, pattern Pattern) (QuadIterator, error)

	// Close releases any resources held by the dataset (badger handles,
	// open HTTP connections). Graph's Close is a no-op.
	Close() error
}

// QuadIterator yields quads one at a time. Callers must call Close when
// done, even after exhausting Next.
type QuadIterator interface {
	Next() bool
	Quad() rdf.Quad
	Err() error
	Close() error
}

// sliceIterator adapts a pre-materialized []rdf.Quad to QuadIterator;
// used by Graph and by Federation's merged output.
type sliceIterator struct {
	quads []rdf.Quad
	pos   int
}

func newSliceIterator(quads []rdf.Quad) *sliceIterator {
	return &sliceIterator{quads: quads, pos: -1}
}

func (it *sliceIterator) Next() bool {
	it.pos++
	return it.pos < len(it.quads)
}

func (it *sliceIterator) Quad() rdf.Quad {
	return it.quads[it.pos]
}

func (it *sliceIterator) Err() error   { return nil }
func (it *sliceIterator) Close() error { return nil }

// Collect drains an iterator into a slice and closes it.
func Collect(it QuadIterator) ([]rdf.Quad, error) {
	defer it.Close()
	var out []rdf.Quad
	for it.Next() {
		out = append(out, it.Quad())
	}
	return out, it.Err()
}
