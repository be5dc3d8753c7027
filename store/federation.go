package store

import (
	"context"

	"github.com/mirella-sparql/mirella/rdf"
)

// Federation composes several Dataset members as one, matching patterns
// by sequential union with per-member deduplication — per spec.md §5/§6
// ("Federation accesses its member datasets sequentially by default").
// Dedup is keyed by canonical quad string, grounded on the teacher's
// dedup-at-construction approach in MaterializedRelation
// (datalog/executor/relation.go's TupleKeyMap), applied here across
// dataset members instead of across tuples of one relation.
type Federation struct {
	members []Dataset
}

// NewFederation builds a federation over the given members, queried in
// the given order.
func NewFederation(members ...Dataset) *Federation {
	return &Federation{members: members}
}

func (f *Federation) Match(ctx context.Context, pattern Pattern) (QuadIterator, error) {
	seen := make(map[string]struct{})
	var out []rdf.Quad
	for _, member := range f.members {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		it, err := member.Match(ctx, pattern)
		if err != nil {
			return nil, err
		}
		for it.Next() {
			q := it.Quad()
			key := q.String()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, q)
		}
		closeErr := it.Close()
		if err := it.Err(); err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}
	}
	return newSliceIterator(out), nil
}

// Close closes every member dataset, returning the first error encountered.
func (f *Federation) Close() error {
	var firstErr error
	for _, member := range f.members {
		if err := member.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Members returns the federation's member datasets, in query order.
func (f *Federation) Members() []Dataset {
	return f.members
}
