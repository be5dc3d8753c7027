package engine

import "github.com/mirella-sparql/mirella/rdf"

// SelectResult is the outcome of a SELECT evaluation: a binding table
// plus its declared variable order (§3's QueryResult.SelectResult).
type SelectResult struct {
	Variables []string
	Rows      []Row
}

// BooleanResult is the outcome of an ASK evaluation.
type BooleanResult struct {
	Value bool
}

// RDFResult is the outcome of a DESCRIBE/CONSTRUCT evaluation: a graph
// built from CONSTRUCT templates or DESCRIBE expansions, deduplicated.
type RDFResult struct {
	Triples []rdf.Triple
}

func dedupTriples(triples []rdf.Triple) []rdf.Triple {
	seen := make(map[string]struct{}, len(triples))
	out := make([]rdf.Triple, 0, len(triples))
	for _, t := range triples {
		k := t.Subject.String() + t.Predicate.String() + t.Object.String()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}
