package engine

import (
	"strings"

	"github.com/mirella-sparql/mirella/query"
	"github.com/mirella-sparql/mirella/rdf"
)

// GroupKey is a structured grouping-variable key: a slice of the
// actual bound terms, one per GROUP BY variable in order. Generalizes
// the teacher's GroupKey{values []interface{}} (datalog/executor/
// aggregation.go). Per DESIGN.md's resolution of spec.md §9's
// partition-key Open Question, this structured slice of terms — not a
// separator-joined string — is the actual map key; String() below
// renders the §PK§/§PV§ display form purely for debug fidelity with
// spec.md §3, eliminating the separator-collision risk the spec flags.
type GroupKey []rdf.Term

// String renders the §PK§/§PV§-separated display form from spec.md §3.
// vars must be the same length and order as the key's values.
func (k GroupKey) String(vars []string) string {
	var sb strings.Builder
	for i, v := range vars {
		if i > 0 {
			sb.WriteString("§PK§")
		}
		sb.WriteString(v)
		sb.WriteString("§PV§")
		if i < len(k) {
			sb.WriteString(k[i].String())
		}
	}
	return sb.String()
}

func groupKeyOf(t *Table, row Row, groupVars []string) GroupKey {
	key := make(GroupKey, len(groupVars))
	for i, v := range groupVars {
		val, ok := t.Get(row, v)
		if !ok {
			key[i] = rdf.Unbound
		} else {
			key[i] = val
		}
	}
	return key
}

func (k GroupKey) asMapKey() string {
	parts := make([]string, len(k))
	for i, t := range k {
		parts[i] = t.String()
	}
	return strings.Join(parts, "\x1f")
}

// AggregateState is the per-partition incremental accumulator,
// generalizing AggregateState{count,sum,min,max} from
// datalog/executor/aggregation.go to operate over rdf.Term values via
// rdf.CompareTerms instead of raw Go interface{} comparison.
type AggregateState struct {
	count   int64
	sum     float64
	nonNum  bool // SUM/AVG poisoning: any non-numeric input encountered
	min     rdf.Term
	max     rdf.Term
	haveMin bool
	sample  rdf.Term
	haveSample bool
	concat  strings.Builder
	haveAny bool
	distinctSeen map[string]struct{}
}

func newAggregateState(distinct bool) *AggregateState {
	st := &AggregateState{}
	if distinct {
		st.distinctSeen = make(map[string]struct{})
	}
	return st
}

// seenBefore enforces the DISTINCT flag via a per-partition value-hash
// cache, matching spec.md §3's AggregatorContext.DistinctCache.
func (s *AggregateState) seenBefore(v rdf.Term) bool {
	if s.distinctSeen == nil {
		return false
	}
	key := v.String()
	if _, ok := s.distinctSeen[key]; ok {
		return true
	}
	s.distinctSeen[key] = struct{}{}
	return false
}

// Update folds one value into the accumulator per §4.3's per-aggregator table.
func (s *AggregateState) Update(kind query.AggregateKind, v rdf.Term, countStar bool, separator string) {
	if kind == query.AggCount {
		if countStar || !v.IsUnbound() {
			if !s.seenBefore(v) {
				s.count++
			}
		}
		return
	}

	if v.IsUnbound() {
		return // non-COUNT aggregators skip unbound values
	}
	if s.seenBefore(v) {
		return
	}

	switch kind {
	case query.AggSum, query.AggAvg:
		s.haveAny = true
		if n, ok := v.NumericValue(); ok {
			s.sum += n
			s.count++
		} else {
			s.nonNum = true // any non-numeric poisons the partition to NaN
		}
	case query.AggMin:
		if !s.haveMin || rdf.CompareTerms(v, s.min) < 0 {
			s.min = v
			s.haveMin = true
		}
	case query.AggMax:
		if !s.haveMin || rdf.CompareTerms(v, s.max) > 0 {
			s.max = v
			s.haveMin = true
		}
	case query.AggSample:
		if !s.haveSample {
			s.sample = v
			s.haveSample = true
		}
	case query.AggGroupConcat:
		if s.haveAny {
			s.concat.WriteString(separator)
		}
		s.concat.WriteString(v.Lexical())
		s.haveAny = true
	}
}

// Result projects the final value per §4.3's "Final projection" column.
func (s *AggregateState) Result(kind query.AggregateKind) rdf.Term {
	switch kind {
	case query.AggCount:
		return rdf.Integer(s.count)
	case query.AggSum:
		if s.nonNum {
			return rdf.StringLiteral("")
		}
		return rdf.Double(s.sum)
	case query.AggAvg:
		if s.nonNum {
			return rdf.StringLiteral("")
		}
		if s.count == 0 {
			return rdf.StringLiteral("")
		}
		return rdf.Double(s.sum / float64(s.count))
	case query.AggMin:
		if !s.haveMin {
			return rdf.Unbound
		}
		return s.min
	case query.AggMax:
		if !s.haveMin {
			return rdf.Unbound
		}
		return s.max
	case query.AggSample:
		if !s.haveSample {
			return rdf.Unbound
		}
		return s.sample
	case query.AggGroupConcat:
		return rdf.StringLiteral(s.concat.String())
	default:
		return rdf.Unbound
	}
}

// AggregatorContext is the per-query scratchpad from spec.md §3:
// created fresh per query execution, discarded at finalisation, never
// shared across queries (§5's "query-local, not shared" rule).
type AggregatorContext struct {
	registry map[string]map[string]*AggregateState // groupKey -> (aggExprID -> state)
	order    []string                               // groupKey insertion order, for determinism
	keys     map[string]GroupKey
}

// NewAggregatorContext builds a fresh scratchpad.
func NewAggregatorContext() *AggregatorContext {
	return &AggregatorContext{
		registry: make(map[string]map[string]*AggregateState),
		keys:     make(map[string]GroupKey),
	}
}

func (c *AggregatorContext) stateFor(key GroupKey, aggID string, distinct bool) *AggregateState {
	mk := key.asMapKey()
	if _, ok := c.registry[mk]; !ok {
		c.registry[mk] = make(map[string]*AggregateState)
		c.keys[mk] = key
		c.order = append(c.order, mk)
	}
	if st, ok := c.registry[mk][aggID]; ok {
		return st
	}
	st := newAggregateState(distinct)
	c.registry[mk][aggID] = st
	return st
}

// PartitionKeys returns the distinct group keys observed, in
// first-seen order — used to emit one projected row per partition
// (§4.3's "project: emit one row per partition key").
func (c *AggregatorContext) PartitionKeys() []GroupKey {
	out := make([]GroupKey, 0, len(c.order))
	for _, mk := range c.order {
		out = append(out, c.keys[mk])
	}
	return out
}
