package engine

import (
	"context"

	"github.com/mirella-sparql/mirella/query"
	"github.com/mirella-sparql/mirella/rdf"
	"github.com/mirella-sparql/mirella/store"
)

// termPair is a (start, end) pair from property-path evaluation (§3's
// PropertyPath: "Evaluation yields a set of (start, end) term pairs").
type termPair struct{ start, end rdf.Term }

func pairKey(p termPair) string { return p.start.String() + "\x00" + p.end.String() }

func dedupPairs(pairs []termPair) []termPair {
	seen := make(map[string]struct{}, len(pairs))
	out := make([]termPair, 0, len(pairs))
	for _, p := range pairs {
		k := pairKey(p)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}

// evalPath implements §4.1's property-path expansion: sequence →
// composition, alternative → union, inverse → swap, zero-or-one →
// "optional join with identity", star/plus → breadth-first fixpoint,
// deduplicated by (start, end) for cycles.
func (e *QueryEngine) evalPath(ctx context.Context, ds store.Dataset, p *query.PropertyPath, graph rdf.Term) ([]termPair, error) {
	switch p.Kind {
	case query.PathPredicate:
		it, err := ds.Match(ctx, store.Pattern{
			Subject: rdf.NewVariable("§path-s§"), Predicate: p.Predicate,
			Object: rdf.NewVariable("§path-o§"), Context: graph,
		})
		if err != nil {
			return nil, err
		}
		quads, err := store.Collect(it)
		if err != nil {
			return nil, err
		}
		out := make([]termPair, len(quads))
		for i, q := range quads {
			out[i] = termPair{start: q.Subject, end: q.Object}
		}
		return out, nil

	case query.PathInverse:
		sub, err := e.evalPath(ctx, ds, p.Sub[0], graph)
		if err != nil {
			return nil, err
		}
		out := make([]termPair, len(sub))
		for i, pr := range sub {
			out[i] = termPair{start: pr.end, end: pr.start}
		}
		return out, nil

	case query.PathAlternative:
		var all []termPair
		for _, sub := range p.Sub {
			pairs, err := e.evalPath(ctx, ds, sub, graph)
			if err != nil {
				return nil, err
			}
			all = append(all, pairs...)
		}
		return dedupPairs(all), nil

	case query.PathSequence:
		if len(p.Sub) == 0 {
			return nil, nil
		}
		cur, err := e.evalPath(ctx, ds, p.Sub[0], graph)
		if err != nil {
			return nil, err
		}
		for _, sub := range p.Sub[1:] {
			next, err := e.evalPath(ctx, ds, sub, graph)
			if err != nil {
				return nil, err
			}
			cur = composePairs(cur, next)
		}
		return cur, nil

	case query.PathZeroOrOne:
		base, err := e.evalPath(ctx, ds, p.Sub[0], graph)
		if err != nil {
			return nil, err
		}
		return dedupPairs(append(base, identityPairs(base)...)), nil

	case query.PathZeroOrMore:
		base, err := e.evalPath(ctx, ds, p.Sub[0], graph)
		if err != nil {
			return nil, err
		}
		closure := e.transitiveClosure(base)
		return dedupPairs(append(closure, identityPairs(base)...)), nil

	case query.PathOneOrMore:
		base, err := e.evalPath(ctx, ds, p.Sub[0], graph)
		if err != nil {
			return nil, err
		}
		return e.transitiveClosure(base), nil

	default:
		return nil, nil
	}
}

// composePairs computes {(a,c) | (a,b) in A, (b,c) in B} — relational
// join of two pair sets on the shared middle term.
func composePairs(a, b []termPair) []termPair {
	index := make(map[string][]rdf.Term)
	for _, pr := range b {
		index[pr.start.String()] = append(index[pr.start.String()], pr.end)
	}
	var out []termPair
	for _, pr := range a {
		for _, end := range index[pr.end.String()] {
			out = append(out, termPair{start: pr.start, end: end})
		}
	}
	return dedupPairs(out)
}

// identityPairs builds (x, x) reflexive pairs for every distinct term
// appearing as an endpoint of base — the zero-length-path contribution
// to zero-or-one / zero-or-more.
func identityPairs(base []termPair) []termPair {
	seen := map[string]rdf.Term{}
	for _, pr := range base {
		seen[pr.start.String()] = pr.start
		seen[pr.end.String()] = pr.end
	}
	out := make([]termPair, 0, len(seen))
	for _, t := range seen {
		out = append(out, termPair{start: t, end: t})
	}
	return out
}

// transitiveClosure implements §4.1's breadth-first fixpoint:
// iteratively extend the pair set by composing with one more base
// step, terminating when no new pair is added, capped by
// MaxPropertyPathDepth for pathological inputs.
func (e *QueryEngine) transitiveClosure(base []termPair) []termPair {
	closure := dedupPairs(base)
	frontier := closure
	maxIter := e.options.MaxPropertyPathDepth
	if maxIter <= 0 {
		maxIter = 1000
	}
	seen := make(map[string]struct{}, len(closure))
	for _, p := range closure {
		seen[pairKey(p)] = struct{}{}
	}
	for i := 0; i < maxIter && len(frontier) > 0; i++ {
		next := composePairs(frontier, base)
		var fresh []termPair
		for _, p := range next {
			k := pairKey(p)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			fresh = append(fresh, p)
		}
		if len(fresh) == 0 {
			break
		}
		closure = append(closure, fresh...)
		frontier = fresh
	}
	return closure
}
