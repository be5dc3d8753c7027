package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// OutputFormatter renders events as human-readable lines, generalizing
// the teacher's annotations.OutputFormatter to Mirella's event set.
type OutputFormatter struct {
	useColor bool
	writer   io.Writer
}

// NewOutputFormatter builds a formatter writing to w (os.Stdout if nil),
// auto-detecting color support the same way the teacher does.
func NewOutputFormatter(w io.Writer) *OutputFormatter {
	if w == nil {
		w = os.Stdout
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = f.Fd() == uintptr(1) || f.Fd() == uintptr(2)
	}
	return &OutputFormatter{useColor: useColor, writer: w}
}

// Handle implements Handler by printing the formatted event.
func (f *OutputFormatter) Handle(event Event) {
	if line := f.Format(event); line != "" {
		fmt.Fprintln(f.writer, line)
	}
}

// Format converts one event to a display line.
func (f *OutputFormatter) Format(event Event) string {
	latency := f.formatLatency(event)

	switch event.Name {
	case QueryInvoked:
		return fmt.Sprintf("%s query invoked: %s", latency, truncate(str(event.Data, "query")))
	case QueryComplete:
		if err, ok := event.Data["error"]; ok && err != nil {
			return fmt.Sprintf("%s %s query failed: %v", latency, f.colorize("✗", color.FgRed), err)
		}
		return fmt.Sprintf("%s %s query complete, %s",
			latency, f.colorize("===", color.FgGreen), f.colorizeCount("rows", intOf(event.Data, "rows")))
	case PatternMatch:
		return fmt.Sprintf("%s pattern %s → %s",
			latency, str(event.Data, "pattern"), f.colorizeCount("rows", intOf(event.Data, "rows")))
	case PathMatch:
		return fmt.Sprintf("%s path %s → %s",
			latency, str(event.Data, "path"), f.colorizeCount("pairs", intOf(event.Data, "pairs")))
	case JoinInner, JoinOptional, JoinMinus, JoinUnion:
		left, right, result := intOf(event.Data, "left"), intOf(event.Data, "right"), intOf(event.Data, "result")
		kind := strings.TrimPrefix(event.Name, "join/")
		return fmt.Sprintf("%s %s %d × %d → %d rows", latency, kind, left, right, result)
	case FilterApplied:
		return fmt.Sprintf("%s filter %s: %s → %s",
			latency, str(event.Data, "expr"), f.colorizeCount("in", intOf(event.Data, "in")), f.colorizeCount("out", intOf(event.Data, "out")))
	case BindApplied:
		return fmt.Sprintf("%s bind ?%s", latency, str(event.Data, "var"))
	case AggregationDone:
		return fmt.Sprintf("%s aggregation → %s partitions", latency, f.colorizeCount("", intOf(event.Data, "partitions")))
	case EndpointDispatch:
		return fmt.Sprintf("%s dispatching to %s", latency, str(event.Data, "endpoint"))
	case EndpointResponse:
		return fmt.Sprintf("%s endpoint %s responded with status %d", latency, str(event.Data, "endpoint"), intOf(event.Data, "status"))
	default:
		return fmt.Sprintf("%s %s %v", latency, event.Name, event.Data)
	}
}

func (f *OutputFormatter) formatLatency(e Event) string {
	d := e.Latency
	if d <= 0 {
		return "[--]"
	}
	if d.Milliseconds() == 0 {
		return f.colorize(fmt.Sprintf("[%dµs]", d.Microseconds()), color.FgGreen)
	}
	ms := float64(d.Microseconds()) / 1000.0
	s := fmt.Sprintf("[%.1fms]", ms)
	switch {
	case ms < 50:
		return f.colorize(s, color.FgGreen)
	case ms < 200:
		return f.colorize(s, color.FgYellow)
	default:
		return f.colorize(s, color.FgRed)
	}
}

func (f *OutputFormatter) colorize(text string, attrs ...color.Attribute) string {
	if !f.useColor {
		return text
	}
	return color.New(attrs...).Sprint(text)
}

func (f *OutputFormatter) colorizeCount(label string, count int) string {
	text := fmt.Sprintf("%d %s", count, label)
	if !f.useColor {
		return strings.TrimSpace(text)
	}
	return color.CyanString(strings.TrimSpace(text))
}

func str(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func intOf(data map[string]interface{}, key string) int {
	if v, ok := data[key].(int); ok {
		return v
	}
	return 0
}

func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	const max = 80
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// ConsoleHandler builds a Handler printing formatted events to stdout,
// wired into cmd/sparql's REPL.
func ConsoleHandler() Handler {
	formatter := NewOutputFormatter(os.Stdout)
	return formatter.Handle
}
