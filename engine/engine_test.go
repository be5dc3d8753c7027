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

func knows() rdf.Term { return rdf.NewIRI("http://example.org/knows") }
func ageOf() rdf.Term { return rdf.NewIRI("http://example.org/age") }

func newTestEngine() *QueryEngine {
	return NewQueryEngine(DefaultEngineOptions(), nil)
}

// col looks up a named column's value in a SelectResult row, mirroring
// Table.Get but over the flattened result shape callers see.
func col(res *SelectResult, row Row, name string) (rdf.Term, bool) {
	for i, v := range res.Variables {
		if v == name {
			return row[i], true
		}
	}
	return rdf.Unbound, false
}

// buildFriendGraph wires a small social graph:
// alice knows bob, alice knows carol, bob knows dave.
// alice age 30, bob age 25, carol age 40.
func buildFriendGraph() *store.Graph {
	g := store.NewGraph()
	alice, bob, carol, dave := name("alice"), name("bob"), name("carol"), name("dave")
	g.Add(rdf.Triple{Subject: alice, Predicate: knows(), Object: bob})
	g.Add(rdf.Triple{Subject: alice, Predicate: knows(), Object: carol})
	g.Add(rdf.Triple{Subject: bob, Predicate: knows(), Object: dave})
	g.Add(rdf.Triple{Subject: alice, Predicate: ageOf(), Object: rdf.Integer(30)})
	g.Add(rdf.Triple{Subject: bob, Predicate: ageOf(), Object: rdf.Integer(25)})
	g.Add(rdf.Triple{Subject: carol, Predicate: ageOf(), Object: rdf.Integer(40)})
	return g
}

func TestSelectOrdersFriendsByAge(t *testing.T) {
	g := buildFriendGraph()
	e := newTestEngine()

	who := rdf.NewVariable("who")
	age := rdf.NewVariable("age")
	q := query.NewSelect(
		query.NewPatternGroup(
			store.Pattern{Subject: name("alice"), Predicate: knows(), Object: who, Context: rdf.Unbound},
			store.Pattern{Subject: who, Predicate: ageOf(), Object: age, Context: rdf.Unbound},
		),
	).Select(query.PlainVar("who"), query.PlainVar("age")).OrderByVar("age", query.OrderAsc)

	res, err := e.Select(context.Background(), q, g)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2, "expected 2 friends")

	firstAge, _ := col(res, res.Rows[0], "age")
	secondAge, _ := col(res, res.Rows[1], "age")
	fv, _ := firstAge.NumericValue()
	sv, _ := secondAge.NumericValue()
	assert.Equal(t, 25.0, fv)
	assert.Equal(t, 40.0, sv)
}

func TestSelectCountGroupByCountsFriends(t *testing.T) {
	g := buildFriendGraph()
	e := newTestEngine()

	person := rdf.NewVariable("person")
	friend := rdf.NewVariable("friend")
	q := query.NewSelect(
		query.NewPatternGroup(
			store.Pattern{Subject: person, Predicate: knows(), Object: friend, Context: rdf.Unbound},
		),
	).Select(
		query.PlainVar("person"),
		query.AggAs(query.CountStar(), "friendCount"),
	).GroupByVars("person")

	res, err := e.Select(context.Background(), q, g)
	require.NoError(t, err)

	counts := map[string]int64{}
	for _, row := range res.Rows {
		p, _ := col(res, row, "person")
		c, _ := col(res, row, "friendCount")
		n, _ := c.NumericValue()
		counts[p.String()] = int64(n)
	}
	assert.EqualValues(t, 2, counts[name("alice").String()], "expected alice to know 2 people")
	assert.EqualValues(t, 1, counts[name("bob").String()], "expected bob to know 1 person")
}

func TestSelectSumAggregatesAges(t *testing.T) {
	g := buildFriendGraph()
	e := newTestEngine()

	age := rdf.NewVariable("age")
	q := query.NewSelect(
		query.NewPatternGroup(
			store.Pattern{Subject: rdf.NewVariable("p"), Predicate: ageOf(), Object: age, Context: rdf.Unbound},
		),
	).Select(query.AggAs(query.Sum(query.VarExpr{Name: "age"}, false), "total"))

	res, err := e.Select(context.Background(), q, g)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1, "expected one aggregate row (implicit whole-table group)")

	total, _ := col(res, res.Rows[0], "total")
	v, _ := total.NumericValue()
	assert.Equal(t, 95.0, v, "expected total age 95 (30+25+40)")
}

func TestSelectOptionalPadsUnmatchedRows(t *testing.T) {
	g := buildFriendGraph()
	e := newTestEngine()

	person := rdf.NewVariable("person")
	friend := rdf.NewVariable("friend")
	q := query.NewSelect(
		query.NewPatternGroup(
			store.Pattern{Subject: person, Predicate: ageOf(), Object: rdf.NewVariable("age"), Context: rdf.Unbound},
		),
		query.NewPatternGroup(
			store.Pattern{Subject: person, Predicate: knows(), Object: friend, Context: rdf.Unbound},
		).Optional(),
	).Select(query.PlainVar("person"), query.PlainVar("friend"))

	res, err := e.Select(context.Background(), q, g)
	require.NoError(t, err)

	foundCarolUnbound := false
	for _, row := range res.Rows {
		p, _ := col(res, row, "person")
		f, _ := col(res, row, "friend")
		if p.Equal(name("carol")) && f.IsUnbound() {
			foundCarolUnbound = true
		}
	}
	assert.True(t, foundCarolUnbound, "expected carol (who knows nobody) to appear with unbound friend, not be dropped")
}

func TestSelectMinusExcludesFriendsOfAlice(t *testing.T) {
	g := buildFriendGraph()
	e := newTestEngine()

	person := rdf.NewVariable("person")
	q := query.NewSelect(
		query.NewPatternGroup(
			store.Pattern{Subject: person, Predicate: ageOf(), Object: rdf.NewVariable("age"), Context: rdf.Unbound},
		),
		query.NewPatternGroup(
			store.Pattern{Subject: name("alice"), Predicate: knows(), Object: person, Context: rdf.Unbound},
		).Minus(),
	).Select(query.PlainVar("person"))

	res, err := e.Select(context.Background(), q, g)
	require.NoError(t, err)

	for _, row := range res.Rows {
		p, _ := col(res, row, "person")
		assert.Falsef(t, p.Equal(name("bob")) || p.Equal(name("carol")), "expected alice's friends excluded by MINUS, found %v", p)
	}
	assert.Len(t, res.Rows, 1, "expected only alice to survive (she's not her own friend)")
}

func TestDescribeReturnsOneHopNeighborhood(t *testing.T) {
	g := buildFriendGraph()
	e := newTestEngine()

	q := query.NewDescribe([]rdf.Term{name("alice")})
	res, err := e.Describe(context.Background(), q, g)
	require.NoError(t, err)
	// alice knows bob, alice knows carol, alice age 30 — 3 triples.
	assert.Len(t, res.Triples, 3, "expected 3 triples describing alice")
}

func TestAskReportsNonEmptyMatch(t *testing.T) {
	g := buildFriendGraph()
	e := newTestEngine()

	q := query.NewAsk(query.NewPatternGroup(
		store.Pattern{Subject: name("alice"), Predicate: knows(), Object: name("bob"), Context: rdf.Unbound},
	))
	res, err := e.Ask(context.Background(), q, g)
	require.NoError(t, err)
	assert.True(t, res.Value, "expected ASK to report true for an existing triple")

	qFalse := query.NewAsk(query.NewPatternGroup(
		store.Pattern{Subject: name("dave"), Predicate: knows(), Object: name("alice"), Context: rdf.Unbound},
	))
	resFalse, err := e.Ask(context.Background(), qFalse, g)
	require.NoError(t, err)
	assert.False(t, resFalse.Value, "expected ASK to report false for a non-existing triple")
}
