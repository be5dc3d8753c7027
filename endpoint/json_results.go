package endpoint

import (
	"encoding/json"
	"fmt"

	"github.com/mirella-sparql/mirella/rdf"
)

// jsonResults mirrors the W3C SPARQL 1.1 Query Results JSON Format
// (https://www.w3.org/TR/sparql11-results-json/): a head naming the
// projected variables, a results.bindings array of term-by-name maps
// for SELECT, or a bare boolean for ASK.
type jsonResults struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]jsonTerm `json:"bindings"`
	} `json:"results"`
	Boolean *bool `json:"boolean"`
}

type jsonTerm struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang"`
	Datatype string `json:"datatype"`
}

func (t jsonTerm) toTerm() rdf.Term {
	switch t.Type {
	case "uri", "iri":
		return rdf.NewIRI(t.Value)
	case "bnode":
		return rdf.NewBlankNode(t.Value)
	case "literal", "typed-literal":
		if t.Datatype != "" {
			return rdf.NewTypedLiteral(t.Value, t.Datatype)
		}
		return rdf.NewPlainLiteral(t.Value, t.Lang)
	default:
		return rdf.NewPlainLiteral(t.Value, "")
	}
}

// parseSelectResults decodes a SPARQL Results JSON body into ordered
// variable names and one binding row (variable name -> term, unbound
// variables absent from the map) per solution.
func parseSelectResults(body []byte) ([]string, []map[string]rdf.Term, error) {
	var doc jsonResults
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, nil, fmt.Errorf("endpoint: malformed SPARQL results JSON: %w", err)
	}
	rows := make([]map[string]rdf.Term, 0, len(doc.Results.Bindings))
	for _, binding := range doc.Results.Bindings {
		row := make(map[string]rdf.Term, len(binding))
		for name, term := range binding {
			row[name] = term.toTerm()
		}
		rows = append(rows, row)
	}
	return doc.Head.Vars, rows, nil
}

// parseAskResult decodes a SPARQL Results JSON ASK body's boolean field.
func parseAskResult(body []byte) (bool, error) {
	var doc jsonResults
	if err := json.Unmarshal(body, &doc); err != nil {
		return false, fmt.Errorf("endpoint: malformed SPARQL results JSON: %w", err)
	}
	if doc.Boolean == nil {
		return false, fmt.Errorf("endpoint: ASK response missing boolean field")
	}
	return *doc.Boolean, nil
}
