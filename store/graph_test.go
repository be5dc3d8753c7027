package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirella-sparql/mirella/rdf"
)

func tripleABC(a, b, c string) rdf.Triple {
	return rdf.Triple{
		Subject:   rdf.NewIRI(a),
		Predicate: rdf.NewIRI(b),
		Object:    rdf.NewIRI(c),
	}
}

func TestGraphMatchFiltersByGroundSlots(t *testing.T) {
	g := NewGraph()
	g.AddAll([]rdf.Triple{
		tripleABC(":a", ":knows", ":b"),
		tripleABC(":b", ":knows", ":c"),
		tripleABC(":a", ":knows", ":c"),
	})

	pattern := Pattern{
		Subject:   rdf.NewIRI(":a"),
		Predicate: rdf.NewIRI(":knows"),
		Object:    rdf.NewVariable("y"),
		Context:   rdf.Unbound,
	}
	it, err := g.Match(context.Background(), pattern)
	require.NoError(t, err)
	quads, err := Collect(it)
	require.NoError(t, err)
	assert.Len(t, quads, 2, "expected 2 matches for :a :knows ?y")
}

func TestGraphMatchAllVariablesReturnsEverything(t *testing.T) {
	g := NewGraph()
	g.AddAll([]rdf.Triple{
		tripleABC(":a", ":p", ":b"),
		tripleABC(":c", ":q", ":d"),
	})
	pattern := Pattern{
		Subject:   rdf.NewVariable("s"),
		Predicate: rdf.NewVariable("p"),
		Object:    rdf.NewVariable("o"),
		Context:   rdf.Unbound,
	}
	it, err := g.Match(context.Background(), pattern)
	require.NoError(t, err)
	quads, err := Collect(it)
	require.NoError(t, err)
	assert.Len(t, quads, 2, "expected all 2 triples")
}

func TestFederationDedupesAcrossMembers(t *testing.T) {
	g1 := NewGraph()
	g1.Add(tripleABC(":a", ":p", ":b"))
	g2 := NewGraph()
	g2.Add(tripleABC(":a", ":p", ":b")) // duplicate of g1's triple
	g2.Add(tripleABC(":c", ":p", ":d"))

	fed := NewFederation(g1, g2)
	pattern := Pattern{
		Subject:   rdf.NewVariable("s"),
		Predicate: rdf.NewVariable("p"),
		Object:    rdf.NewVariable("o"),
		Context:   rdf.Unbound,
	}
	it, err := fed.Match(context.Background(), pattern)
	require.NoError(t, err)
	quads, err := Collect(it)
	require.NoError(t, err)
	assert.Len(t, quads, 2, "expected 2 deduplicated quads across federation members")
}
