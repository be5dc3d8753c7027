package engine

import (
	"context"
	"time"

	"github.com/mirella-sparql/mirella/diagnostics"
	"github.com/mirella-sparql/mirella/query"
	"github.com/mirella-sparql/mirella/rdf"
	"github.com/mirella-sparql/mirella/store"
)

// QueryEngine orchestrates evaluation per spec.md §4.1: per pattern
// group, materialise a binding table from the dataset; combine tables
// across groups via compatibility joins honouring OPTIONAL/MINUS/
// UNION; run filters and expressions; execute modifiers; finalise
// results. The heart of the Mirella algebra.
type QueryEngine struct {
	options     EngineOptions
	diagnostics *diagnostics.Collector
}

// NewQueryEngine builds an engine with the given options. A nil
// diagnostics handler disables event emission (diagnostics.NewCollector
// treats this as "disabled", matching the teacher's annotations.Collector).
func NewQueryEngine(opts EngineOptions, handler diagnostics.Handler) *QueryEngine {
	return &QueryEngine{options: opts, diagnostics: diagnostics.NewCollector(handler)}
}

// Select evaluates a SELECT query (§4.1's four public entry points).
func (e *QueryEngine) Select(ctx context.Context, q *query.Query, ds store.Dataset) (*SelectResult, error) {
	start := time.Now()
	e.diagnostics.Add(diagnostics.Event{Name: diagnostics.QueryInvoked, Data: map[string]interface{}{"query": q.String()}})

	result, err := e.selectInner(ctx, q, ds)

	data := map[string]interface{}{}
	if err != nil {
		data["error"] = err
	} else {
		data["rows"] = len(result.Rows)
	}
	e.diagnostics.AddTiming(diagnostics.QueryComplete, start, data)
	return result, err
}

func (e *QueryEngine) selectInner(ctx context.Context, q *query.Query, ds store.Dataset) (*SelectResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	table, err := e.evaluateWhere(ctx, q.Where, ds)
	if err != nil {
		return nil, evalErr("select", err)
	}
	table, err = e.applyModifiers(ctx, table, &q.Modifiers, ds)
	if err != nil {
		return nil, evalErr("select-modifiers", err)
	}
	vars := table.Columns
	if len(q.Modifiers.Projection) > 0 {
		vars = make([]string, len(q.Modifiers.Projection))
		for i, item := range q.Modifiers.Projection {
			vars[i] = item.Var
		}
	}
	return &SelectResult{Variables: vars, Rows: table.Rows}, nil
}

// Ask evaluates an ASK query: true iff the final table is non-empty.
func (e *QueryEngine) Ask(ctx context.Context, q *query.Query, ds store.Dataset) (*BooleanResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	table, err := e.evaluateWhere(ctx, q.Where, ds)
	if err != nil {
		return nil, evalErr("ask", err)
	}
	return &BooleanResult{Value: !table.IsEmpty()}, nil
}

// Construct evaluates a CONSTRUCT query: instantiate the template
// triples per row, deduplicate into a graph.
func (e *QueryEngine) Construct(ctx context.Context, q *query.Query, ds store.Dataset) (*RDFResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	table, err := e.evaluateWhere(ctx, q.Where, ds)
	if err != nil {
		return nil, evalErr("construct", err)
	}
	table, err = e.applyModifiers(ctx, table, &q.Modifiers, ds)
	if err != nil {
		return nil, evalErr("construct-modifiers", err)
	}

	var triples []rdf.Triple
	for _, row := range table.Rows {
		for _, tmpl := range q.ConstructTemplate {
			s, sok := instantiate(table, row, tmpl.Subject)
			p, pok := instantiate(table, row, tmpl.Predicate)
			o, ook := instantiate(table, row, tmpl.Object)
			if !sok || !pok || !ook {
				continue // a variable not bound in this row: skip this template instance
			}
			triples = append(triples, rdf.Triple{Subject: s, Predicate: p, Object: o})
		}
	}
	return &RDFResult{Triples: dedupTriples(triples)}, nil
}

// instantiate resolves a template term: ground terms pass through;
// variables resolve against the row, failing (ok=false) if unbound.
func instantiate(t *Table, row Row, term rdf.Term) (rdf.Term, bool) {
	if !term.IsVariable() {
		return term, true
	}
	v, ok := t.Get(row, term.Name())
	if !ok || v.IsUnbound() {
		return rdf.Term{}, false
	}
	return v, true
}

// Describe evaluates a DESCRIBE query: for each distinct term in a
// describe position, emit all triples where it is subject or object —
// a symmetric concise bounded description, one hop (§4.1 step 5).
func (e *QueryEngine) Describe(ctx context.Context, q *query.Query, ds store.Dataset) (*RDFResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var terms []rdf.Term
	if len(q.Where) > 0 {
		table, err := e.evaluateWhere(ctx, q.Where, ds)
		if err != nil {
			return nil, evalErr("describe", err)
		}
		seen := map[string]bool{}
		for _, t := range q.DescribeTerms {
			if !t.IsVariable() {
				if !seen[t.String()] {
					seen[t.String()] = true
					terms = append(terms, t)
				}
				continue
			}
			for _, row := range table.Rows {
				v, ok := table.Get(row, t.Name())
				if !ok || v.IsUnbound() || seen[v.String()] {
					continue
				}
				seen[v.String()] = true
				terms = append(terms, v)
			}
		}
	} else {
		terms = q.DescribeTerms
	}

	var triples []rdf.Triple
	for _, term := range terms {
		asSubject, err := ds.Match(ctx, store.Pattern{
			Subject: term, Predicate: rdf.NewVariable("§p§"), Object: rdf.NewVariable("§o§"), Context: rdf.Unbound,
		})
		if err != nil {
			return nil, evalErr("describe", err)
		}
		quads, err := store.Collect(asSubject)
		if err != nil {
			return nil, evalErr("describe", err)
		}
		for _, q := range quads {
			triples = append(triples, q.ToTriple())
		}

		asObject, err := ds.Match(ctx, store.Pattern{
			Subject: rdf.NewVariable("§s§"), Predicate: rdf.NewVariable("§p§"), Object: term, Context: rdf.Unbound,
		})
		if err != nil {
			return nil, evalErr("describe", err)
		}
		quads2, err := store.Collect(asObject)
		if err != nil {
			return nil, evalErr("describe", err)
		}
		for _, q := range quads2 {
			triples = append(triples, q.ToTriple())
		}
	}
	return &RDFResult{Triples: dedupTriples(triples)}, nil
}

// SelectFuture is the async result envelope for SelectAsync.
type SelectFuture struct {
	Result *SelectResult
	Err    error
}

// SelectAsync wraps Select on a worker goroutine — §5's async entry
// points are sync-form wrappers, introducing no intra-query parallelism.
func (e *QueryEngine) SelectAsync(ctx context.Context, q *query.Query, ds store.Dataset) <-chan SelectFuture {
	ch := make(chan SelectFuture, 1)
	go func() {
		res, err := e.Select(ctx, q, ds)
		ch <- SelectFuture{Result: res, Err: err}
	}()
	return ch
}

// AskFuture is the async result envelope for AskAsync.
type AskFuture struct {
	Result *BooleanResult
	Err    error
}

// AskAsync wraps Ask on a worker goroutine.
func (e *QueryEngine) AskAsync(ctx context.Context, q *query.Query, ds store.Dataset) <-chan AskFuture {
	ch := make(chan AskFuture, 1)
	go func() {
		res, err := e.Ask(ctx, q, ds)
		ch <- AskFuture{Result: res, Err: err}
	}()
	return ch
}

// RDFFuture is the async result envelope for ConstructAsync/DescribeAsync.
type RDFFuture struct {
	Result *RDFResult
	Err    error
}

// ConstructAsync wraps Construct on a worker goroutine.
func (e *QueryEngine) ConstructAsync(ctx context.Context, q *query.Query, ds store.Dataset) <-chan RDFFuture {
	ch := make(chan RDFFuture, 1)
	go func() {
		res, err := e.Construct(ctx, q, ds)
		ch <- RDFFuture{Result: res, Err: err}
	}()
	return ch
}

// DescribeAsync wraps Describe on a worker goroutine.
func (e *QueryEngine) DescribeAsync(ctx context.Context, q *query.Query, ds store.Dataset) <-chan RDFFuture {
	ch := make(chan RDFFuture, 1)
	go func() {
		res, err := e.Describe(ctx, q, ds)
		ch <- RDFFuture{Result: res, Err: err}
	}()
	return ch
}
