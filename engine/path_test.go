package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirella-sparql/mirella/query"
	"github.com/mirella-sparql/mirella/rdf"
	"github.com/mirella-sparql/mirella/store"
)

func TestPropertyPathOneOrMoreFindsTransitiveReachability(t *testing.T) {
	g := buildFriendGraph() // alice->bob->dave, alice->carol
	e := newTestEngine()

	reachable := rdf.NewVariable("reachable")
	group := query.NewPatternGroup()
	group.Paths = append(group.Paths, query.PathPattern{
		Subject: name("alice"),
		Path:    query.OneOrMore(query.Pred(knows())),
		Object:  reachable,
		Context: rdf.Unbound,
	})
	q := query.NewSelect(group).Select(query.PlainVar("reachable"))

	res, err := e.Select(context.Background(), q, g)
	require.NoError(t, err)

	want := map[string]bool{
		name("bob").String():   true,
		name("carol").String(): true,
		name("dave").String():  true,
	}
	got := map[string]bool{}
	for _, row := range res.Rows {
		v, _ := col(res, row, "reachable")
		got[v.String()] = true
	}
	for k := range want {
		assert.Truef(t, got[k], "expected %s to be reachable via knows+, got %v", k, got)
	}
	assert.Lenf(t, got, len(want), "expected exactly %d reachable nodes, got %v", len(want), got)
}

func TestPropertyPathZeroOrOneIncludesIdentity(t *testing.T) {
	g := buildFriendGraph()
	e := newTestEngine()

	end := rdf.NewVariable("end")
	group := query.NewPatternGroup()
	group.Paths = append(group.Paths, query.PathPattern{
		Subject: name("alice"),
		Path:    query.ZeroOrOne(query.Pred(knows())),
		Object:  end,
		Context: rdf.Unbound,
	})
	q := query.NewSelect(group).Select(query.PlainVar("end"))

	res, err := e.Select(context.Background(), q, g)
	require.NoError(t, err)

	foundSelf := false
	for _, row := range res.Rows {
		v, _ := col(res, row, "end")
		if v.Equal(name("alice")) {
			foundSelf = true
		}
	}
	assert.True(t, foundSelf, "expected zero-or-one path to include the zero-length (identity) pair")
}
