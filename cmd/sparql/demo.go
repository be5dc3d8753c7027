package main

import (
	"github.com/mirella-sparql/mirella/query"
	"github.com/mirella-sparql/mirella/rdf"
	"github.com/mirella-sparql/mirella/store"
)

// demoIRI builds an example.org-scoped IRI, matching the teacher's
// runDemo's small hand-built fixture approach (datalog/../cmd/datalog/
// main.go's Alice/Bob/Charlie friend graph) generalized to RDF terms.
func demoIRI(local string) rdf.Term { return rdf.NewIRI("http://example.org/" + local) }

var (
	foafKnows = demoIRI("knows")
	foafName  = demoIRI("name")
	foafAge   = demoIRI("age")
	foafCity  = demoIRI("city")
)

// buildDemoGraph seeds a small social graph: three people, friendships,
// ages and cities — the RDF analogue of the teacher's EAV person/movie
// demo data (cmd/build-testdb and examples/ load that EAV fixture; this
// is cmd/sparql's own demo-graph seeding, replacing rather than
// adapting that domain-specific loader, since people/movies sample
// data has no RDF analogue).
func buildDemoGraph() *store.Graph {
	g := store.NewGraph()
	alice, bob, charlie := demoIRI("alice"), demoIRI("bob"), demoIRI("charlie")

	g.Add(rdf.Triple{Subject: alice, Predicate: foafName, Object: rdf.NewPlainLiteral("Alice", "")})
	g.Add(rdf.Triple{Subject: bob, Predicate: foafName, Object: rdf.NewPlainLiteral("Bob", "")})
	g.Add(rdf.Triple{Subject: charlie, Predicate: foafName, Object: rdf.NewPlainLiteral("Charlie", "")})

	g.Add(rdf.Triple{Subject: alice, Predicate: foafAge, Object: rdf.Integer(30)})
	g.Add(rdf.Triple{Subject: bob, Predicate: foafAge, Object: rdf.Integer(25)})
	g.Add(rdf.Triple{Subject: charlie, Predicate: foafAge, Object: rdf.Integer(35)})

	g.Add(rdf.Triple{Subject: alice, Predicate: foafCity, Object: rdf.NewPlainLiteral("New York", "")})
	g.Add(rdf.Triple{Subject: bob, Predicate: foafCity, Object: rdf.NewPlainLiteral("Boston", "")})
	g.Add(rdf.Triple{Subject: charlie, Predicate: foafCity, Object: rdf.NewPlainLiteral("New York", "")})

	g.Add(rdf.Triple{Subject: alice, Predicate: foafKnows, Object: bob})
	g.Add(rdf.Triple{Subject: alice, Predicate: foafKnows, Object: charlie})
	g.Add(rdf.Triple{Subject: bob, Predicate: foafKnows, Object: charlie})

	return g
}

// demoQuery names one built-in query the demo/interactive modes can run.
type demoQuery struct {
	name  string
	build func() *query.Query
}

// demoQueries mirrors the teacher's runDemo query list (all people, city
// filter, friend-of-friend traversal, age filter, friend-count aggregation)
// rebuilt against the SPARQL algebra instead of Datalog find/where text.
func demoQueries() []demoQuery {
	return []demoQuery{
		{
			name: "all-people",
			build: func() *query.Query {
				p, name := rdf.NewVariable("p"), rdf.NewVariable("name")
				return query.NewSelect(
					query.NewPatternGroup(store.Pattern{Subject: p, Predicate: foafName, Object: name, Context: rdf.Unbound}),
				).Select(query.PlainVar("name"))
			},
		},
		{
			name: "people-in-new-york",
			build: func() *query.Query {
				p, name := rdf.NewVariable("p"), rdf.NewVariable("name")
				return query.NewSelect(
					query.NewPatternGroup(
						store.Pattern{Subject: p, Predicate: foafName, Object: name, Context: rdf.Unbound},
						store.Pattern{Subject: p, Predicate: foafCity, Object: rdf.NewPlainLiteral("New York", ""), Context: rdf.Unbound},
					),
				).Select(query.PlainVar("name"))
			},
		},
		{
			name: "alices-friends-of-friends",
			build: func() *query.Query {
				reachable := rdf.NewVariable("reachable")
				group := query.NewPatternGroup()
				group.Paths = append(group.Paths, query.PathPattern{
					Subject: demoIRI("alice"),
					Path:    query.OneOrMore(query.Pred(foafKnows)),
					Object:  reachable,
					Context: rdf.Unbound,
				})
				return query.NewSelect(group).Select(query.PlainVar("reachable"))
			},
		},
		{
			name: "people-over-25-ordered-by-age",
			build: func() *query.Query {
				p, name, age := rdf.NewVariable("p"), rdf.NewVariable("name"), rdf.NewVariable("age")
				return query.NewSelect(
					query.NewPatternGroup(
						store.Pattern{Subject: p, Predicate: foafName, Object: name, Context: rdf.Unbound},
						store.Pattern{Subject: p, Predicate: foafAge, Object: age, Context: rdf.Unbound},
					).Filter(query.BinaryExpr{Op: query.OpGt, Left: query.VarExpr{Name: "age"}, Right: query.LiteralExpr{Term: rdf.Integer(25)}}),
				).Select(query.PlainVar("name"), query.PlainVar("age")).OrderByVar("age", query.OrderAsc)
			},
		},
		{
			name: "friend-count-per-person",
			build: func() *query.Query {
				p, friend := rdf.NewVariable("p"), rdf.NewVariable("friend")
				return query.NewSelect(
					query.NewPatternGroup(store.Pattern{Subject: p, Predicate: foafKnows, Object: friend, Context: rdf.Unbound}),
				).Select(query.PlainVar("p"), query.AggAs(query.CountStar(), "friendCount")).GroupByVars("p")
			},
		},
	}
}

// demoDescribeQuery builds a DESCRIBE query for one of the demo
// graph's named people, used by the interactive mode's .describe command.
func demoDescribeQuery(person string) *query.Query {
	return query.NewDescribe([]rdf.Term{demoIRI(person)})
}
