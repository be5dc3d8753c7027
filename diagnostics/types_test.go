package diagnostics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilHandlerDisablesCollection(t *testing.T) {
	c := NewCollector(nil)
	c.Add(Event{Name: QueryInvoked})
	assert.Empty(t, c.Events(), "expected a nil handler to disable collection entirely")
}

func TestCollectorForwardsEventsToHandler(t *testing.T) {
	var seen []Event
	c := NewCollector(func(e Event) { seen = append(seen, e) })

	c.Add(Event{Name: PatternMatch, Data: map[string]interface{}{"rows": 3}})
	require.Len(t, seen, 1)
	assert.Equal(t, PatternMatch, seen[0].Name)

	events := c.Events()
	require.Len(t, events, 1)
	assert.Equal(t, 3, events[0].Data["rows"])
}

func TestAddTimingComputesLatency(t *testing.T) {
	c := NewCollector(func(Event) {})
	start := time.Now().Add(-10 * time.Millisecond)
	c.AddTiming(JoinInner, start, nil)

	events := c.Events()
	require.Len(t, events, 1)
	assert.GreaterOrEqual(t, events[0].Latency, 10*time.Millisecond)
}
