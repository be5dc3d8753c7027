package endpoint

import (
	"context"
	"fmt"

	"github.com/mirella-sparql/mirella/query"
	"github.com/mirella-sparql/mirella/rdf"
)

// SelectResult is a remote SELECT/ASK response's binding table, kept as
// a plain map-per-row shape (not engine.Table) since this package must
// not import engine — the printer/endpoint boundary is the one-way
// dependency spec.md §6 describes ("Printer ... used for endpoint
// dispatch"), not the reverse.
type SelectResult struct {
	Variables []string
	Rows      []map[string]rdf.Term
}

// AskResult is a remote ASK response.
type AskResult struct {
	Value bool
}

// GraphResult is a remote CONSTRUCT/DESCRIBE response.
type GraphResult struct {
	Triples []rdf.Triple
}

// Select dispatches a SELECT query to the endpoint and parses the
// SPARQL Results JSON response.
func Select(ctx context.Context, d Descriptor, q *query.Query) (*SelectResult, error) {
	if q.Form != query.FormSelect {
		return nil, fmt.Errorf("endpoint: Select called with a %s query", q.Form)
	}
	body, err := dispatchRaw(ctx, d, q.String(), "application/sparql-results+json")
	if err != nil {
		return nil, err
	}
	if body == nil {
		return &SelectResult{}, nil
	}
	vars, rows, err := parseSelectResults(body)
	if err != nil {
		if d.ErrorPolicy == ReturnEmptyResult {
			return &SelectResult{}, nil
		}
		return nil, err
	}
	return &SelectResult{Variables: vars, Rows: rows}, nil
}

// Ask dispatches an ASK query to the endpoint.
func Ask(ctx context.Context, d Descriptor, q *query.Query) (*AskResult, error) {
	if q.Form != query.FormAsk {
		return nil, fmt.Errorf("endpoint: Ask called with a %s query", q.Form)
	}
	body, err := dispatchRaw(ctx, d, q.String(), "application/sparql-results+json")
	if err != nil {
		return nil, err
	}
	if body == nil {
		return &AskResult{}, nil
	}
	value, err := parseAskResult(body)
	if err != nil {
		if d.ErrorPolicy == ReturnEmptyResult {
			return &AskResult{}, nil
		}
		return nil, err
	}
	return &AskResult{Value: value}, nil
}

// Construct dispatches a CONSTRUCT query and parses the Turtle response.
func Construct(ctx context.Context, d Descriptor, q *query.Query) (*GraphResult, error) {
	if q.Form != query.FormConstruct {
		return nil, fmt.Errorf("endpoint: Construct called with a %s query", q.Form)
	}
	return fetchGraph(ctx, d, q)
}

// Describe dispatches a DESCRIBE query and parses the Turtle response.
func Describe(ctx context.Context, d Descriptor, q *query.Query) (*GraphResult, error) {
	if q.Form != query.FormDescribe {
		return nil, fmt.Errorf("endpoint: Describe called with a %s query", q.Form)
	}
	return fetchGraph(ctx, d, q)
}

func fetchGraph(ctx context.Context, d Descriptor, q *query.Query) (*GraphResult, error) {
	body, err := dispatchRaw(ctx, d, q.String(), "text/turtle")
	if err != nil {
		return nil, err
	}
	if body == nil {
		return &GraphResult{}, nil
	}
	triples, err := parseTurtleTriples(body)
	if err != nil {
		if d.ErrorPolicy == ReturnEmptyResult {
			return &GraphResult{}, nil
		}
		return nil, err
	}
	return &GraphResult{Triples: triples}, nil
}
