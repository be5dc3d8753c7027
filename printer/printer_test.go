package printer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirella-sparql/mirella/query"
	"github.com/mirella-sparql/mirella/rdf"
	"github.com/mirella-sparql/mirella/store"
)

func iri(s string) rdf.Term { return rdf.NewIRI("http://example.org/" + s) }

func TestFormatSelectRendersProjectionAndWhere(t *testing.T) {
	who := rdf.NewVariable("who")
	q := query.NewSelect(
		query.NewPatternGroup(
			store.Pattern{Subject: iri("alice"), Predicate: iri("knows"), Object: who, Context: rdf.Unbound},
		),
	).Select(query.PlainVar("who"))

	out := Format(q)
	assert.True(t, strings.HasPrefix(out, "SELECT ?who"), "expected projection header, got %q", out)
	assert.Contains(t, out, "WHERE {")
	assert.Contains(t, out, "<http://example.org/knows>")
}

func TestFormatSelectDistinctRendersKeyword(t *testing.T) {
	q := query.NewSelect(query.NewPatternGroup()).Select(query.PlainVar("x")).WithDistinct()
	out := Format(q)
	assert.True(t, strings.HasPrefix(out, "SELECT DISTINCT"), "expected DISTINCT keyword, got %q", out)
}

func TestFormatOptionalGroupWrapsBraces(t *testing.T) {
	person := rdf.NewVariable("person")
	friend := rdf.NewVariable("friend")
	q := query.NewSelect(
		query.NewPatternGroup(
			store.Pattern{Subject: person, Predicate: iri("age"), Object: rdf.NewVariable("age"), Context: rdf.Unbound},
		),
		query.NewPatternGroup(
			store.Pattern{Subject: person, Predicate: iri("knows"), Object: friend, Context: rdf.Unbound},
		).Optional(),
	).Select(query.PlainVar("person"))

	out := Format(q)
	assert.Contains(t, out, "OPTIONAL {")
}

func TestFormatModifiersRenderInOrder(t *testing.T) {
	q := query.NewSelect(query.NewPatternGroup()).
		Select(query.PlainVar("x")).
		GroupByVars("x").
		OrderByVar("x", query.OrderDesc).
		WithLimit(10).
		WithOffset(5)

	out := Format(q)
	groupIdx := strings.Index(out, "GROUP BY")
	orderIdx := strings.Index(out, "ORDER BY")
	limitIdx := strings.Index(out, "LIMIT")
	offsetIdx := strings.Index(out, "OFFSET")
	require.True(t, groupIdx >= 0 && orderIdx >= 0 && limitIdx >= 0 && offsetIdx >= 0, "expected all four modifiers present, got %q", out)
	assert.True(t, groupIdx < orderIdx && orderIdx < limitIdx && limitIdx < offsetIdx, "expected GROUP BY < ORDER BY < LIMIT < OFFSET in output, got %q", out)
}

func TestQueryStringDelegatesToPrinter(t *testing.T) {
	q := query.NewAsk(query.NewPatternGroup(
		store.Pattern{Subject: iri("a"), Predicate: iri("p"), Object: iri("b"), Context: rdf.Unbound},
	))
	assert.True(t, strings.HasPrefix(q.String(), "ASK"), "expected Query.String() to delegate to the registered printer, got %q", q.String())
}
