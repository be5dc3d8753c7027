// Package diagnostics provides a low-overhead event collector for
// observing query evaluation: pattern matches, joins, aggregation,
// modifier application, and endpoint dispatch. Generalizes the
// teacher's annotations package (event name constants, Collector,
// Handler) from Datalog phases to the Mirella algebra's phases.
package diagnostics

import (
	"sync"
	"time"
)

// Event name constants, hierarchically namespaced.
const (
	QueryInvoked  = "query/invoked"
	QueryComplete = "query/completed"

	PhaseBegin    = "phase/begin"
	PhaseComplete = "phase/complete"

	PatternMatch     = "pattern/match"
	PathMatch        = "path/match"
	JoinInner        = "join/inner"
	JoinOptional     = "join/optional"
	JoinMinus        = "join/minus"
	JoinUnion        = "join/union"
	FilterApplied    = "filter/applied"
	BindApplied      = "bind/applied"
	AggregationDone  = "aggregation/done"
	ModifierOrderBy  = "modifier/order-by"
	ModifierDistinct = "modifier/distinct"
	ModifierSlice    = "modifier/slice"

	EndpointDispatch = "endpoint/dispatch"
	EndpointResponse = "endpoint/response"

	ErrorQueryParsing  = "error/query.parsing"
	ErrorQueryBinding  = "error/query.binding"
	ErrorQueryInternal = "error/query.internal"
	ErrorEndpoint      = "error/endpoint"
)

// Event is a single observable occurrence during query evaluation.
type Event struct {
	Name    string
	Start   time.Time
	End     time.Time
	Latency time.Duration
	Data    map[string]interface{}
}

// Handler processes events as they occur.
type Handler func(event Event)

// Collector accumulates events across every query evaluated by the
// QueryEngine that owns it (see engine.NewQueryEngine), including
// queries running concurrently through the async entry points; Add and
// Events are guarded by a mutex.
type Collector struct {
	enabled bool
	handler Handler
	events  []Event
	mu      sync.Mutex
}

// NewCollector builds a collector. A nil handler disables collection
// entirely (Add becomes a no-op), matching the teacher's
// annotations.NewCollector semantics.
func NewCollector(handler Handler) *Collector {
	return &Collector{
		enabled: handler != nil,
		handler: handler,
		events:  make([]Event, 0, 64),
	}
}

// Add records an event and forwards it to the handler, if any.
func (c *Collector) Add(event Event) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()
	if c.handler != nil {
		c.handler(event)
	}
}

// AddTiming records an event with start/end timestamps computed from
// the given start time to time.Now().
func (c *Collector) AddTiming(name string, start time.Time, data map[string]interface{}) {
	if !c.enabled {
		return
	}
	end := time.Now()
	c.Add(Event{Name: name, Start: start, End: end, Latency: end.Sub(start), Data: data})
}

// Events returns a copy of all collected events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}
