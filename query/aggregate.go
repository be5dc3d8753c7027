package query

// AggregateKind enumerates the aggregator variants from §4.3.
type AggregateKind int

const (
	AggCount AggregateKind = iota
	AggSum
	AggMin
	AggMax
	AggAvg
	AggSample
	AggGroupConcat
)

func (k AggregateKind) String() string {
	switch k {
	case AggCount:
		return "COUNT"
	case AggSum:
		return "SUM"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	case AggAvg:
		return "AVG"
	case AggSample:
		return "SAMPLE"
	case AggGroupConcat:
		return "GROUP_CONCAT"
	default:
		return "UNKNOWN"
	}
}

// Aggregate is one GROUP BY aggregation: COUNT(*)/COUNT(expr)/SUM(expr)/
// etc, with an optional DISTINCT flag enforced via the AggregatorContext's
// DistinctCache (§3/§4.3), and GROUP_CONCAT's SEPARATOR argument.
type Aggregate struct {
	Kind      AggregateKind
	Arg       Expression // nil for COUNT(*)
	Distinct  bool
	Separator string // GROUP_CONCAT only; defaults to " "
}

// CountStar builds COUNT(*).
func CountStar() Aggregate { return Aggregate{Kind: AggCount} }

// Count builds COUNT(expr), optionally DISTINCT.
func Count(e Expression, distinct bool) Aggregate {
	return Aggregate{Kind: AggCount, Arg: e, Distinct: distinct}
}

// Sum builds SUM(expr).
func Sum(e Expression, distinct bool) Aggregate {
	return Aggregate{Kind: AggSum, Arg: e, Distinct: distinct}
}

// Min builds MIN(expr).
func Min(e Expression) Aggregate { return Aggregate{Kind: AggMin, Arg: e} }

// Max builds MAX(expr).
func Max(e Expression) Aggregate { return Aggregate{Kind: AggMax, Arg: e} }

// Avg builds AVG(expr).
func Avg(e Expression, distinct bool) Aggregate {
	return Aggregate{Kind: AggAvg, Arg: e, Distinct: distinct}
}

// Sample builds SAMPLE(expr).
func Sample(e Expression) Aggregate { return Aggregate{Kind: AggSample, Arg: e} }

// GroupConcat builds GROUP_CONCAT(expr; SEPARATOR=sep).
func GroupConcat(e Expression, sep string, distinct bool) Aggregate {
	if sep == "" {
		sep = " "
	}
	return Aggregate{Kind: AggGroupConcat, Arg: e, Separator: sep, Distinct: distinct}
}
