package endpoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirella-sparql/mirella/query"
	"github.com/mirella-sparql/mirella/rdf"
	"github.com/mirella-sparql/mirella/store"
)

func TestMatchParsesSelectResultsIntoQuads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Query().Get("query"), "SELECT")
		w.Header().Set("Content-Type", "application/sparql-results+json")
		w.Write([]byte(`{
			"head": {"vars": ["o"]},
			"results": {"bindings": [
				{"o": {"type": "uri", "value": "http://example.org/bob"}}
			]}
		}`))
	}))
	defer srv.Close()

	ep := New(Descriptor{BaseURL: srv.URL})
	pattern := store.Pattern{
		Subject:   rdf.NewIRI("http://example.org/alice"),
		Predicate: rdf.NewIRI("http://example.org/knows"),
		Object:    rdf.NewVariable("o"),
		Context:   rdf.Unbound,
	}
	it, err := ep.Match(context.Background(), pattern)
	require.NoError(t, err)
	defer it.Close()

	require.True(t, it.Next(), "expected one quad")
	q := it.Quad()
	assert.Equal(t, "<http://example.org/bob>", q.Object.String())
	assert.False(t, it.Next(), "expected exactly one quad")
}

func TestMatchReturnsEmptyOnTransportFailureWithReturnEmptyResultPolicy(t *testing.T) {
	ep := New(Descriptor{BaseURL: "http://127.0.0.1:0", ErrorPolicy: ReturnEmptyResult})
	pattern := store.Pattern{
		Subject:   rdf.NewVariable("s"),
		Predicate: rdf.NewVariable("p"),
		Object:    rdf.NewVariable("o"),
		Context:   rdf.Unbound,
	}
	it, err := ep.Match(context.Background(), pattern)
	require.NoError(t, err, "expected no error under ReturnEmptyResult")
	assert.False(t, it.Next(), "expected an empty iterator")
}

func TestMatchPropagatesErrorWithThrowExceptionPolicy(t *testing.T) {
	ep := New(Descriptor{BaseURL: "http://127.0.0.1:0", ErrorPolicy: ThrowException})
	pattern := store.Pattern{
		Subject:   rdf.NewVariable("s"),
		Predicate: rdf.NewVariable("p"),
		Object:    rdf.NewVariable("o"),
		Context:   rdf.Unbound,
	}
	_, err := ep.Match(context.Background(), pattern)
	assert.Error(t, err, "expected a transport error under ThrowException")
}

func TestAskParsesBooleanResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"head": {}, "boolean": true}`))
	}))
	defer srv.Close()

	q := query.NewAsk(query.NewPatternGroup(
		store.Pattern{Subject: rdf.NewVariable("s"), Predicate: rdf.NewVariable("p"), Object: rdf.NewVariable("o"), Context: rdf.Unbound},
	))
	res, err := Ask(context.Background(), Descriptor{BaseURL: srv.URL}, q)
	require.NoError(t, err)
	assert.True(t, res.Value, "expected ASK result true")
}

func TestDescribeParsesTurtleResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/turtle")
		w.Write([]byte("@prefix ex: <http://example.org/> .\n" +
			"<http://example.org/alice> ex:knows ex:bob .\n" +
			"<http://example.org/alice> ex:age \"30\"^^<http://www.w3.org/2001/XMLSchema#integer> .\n"))
	}))
	defer srv.Close()

	q := query.NewDescribe([]rdf.Term{rdf.NewIRI("http://example.org/alice")})
	res, err := Describe(context.Background(), Descriptor{BaseURL: srv.URL}, q)
	require.NoError(t, err)
	require.Len(t, res.Triples, 2)

	foundAge := false
	for _, tr := range res.Triples {
		if tr.Object.String() == `"30"^^<http://www.w3.org/2001/XMLSchema#integer>` {
			foundAge = true
		}
	}
	assert.True(t, foundAge, "expected typed literal age triple, got %v", res.Triples)
}
