package engine

import "time"

// EngineOptions configures a QueryEngine, generalizing the teacher's
// ExecutorOptions (datalog/executor/options.go) down to the flags that
// remain meaningful once the streaming-relation and subquery
// decorrelation machinery are dropped (see DESIGN.md) — passed
// explicitly, never as a process-wide singleton, per spec.md §9's
// scratch-state design note.
type EngineOptions struct {
	// MaxPropertyPathDepth caps the breadth-first fixpoint iteration
	// for p* / p+ property paths, guarding against unbounded expansion
	// on cyclic graphs with no natural termination otherwise (the
	// fixpoint itself terminates once no new pair is added, but a cap
	// bounds worst-case work on pathological inputs).
	MaxPropertyPathDepth int

	// DefaultHashTableSize mirrors ExecutorOptions.DefaultHashTableSize.
	// The engine does not read it: the join hash index is sized from the
	// build side's row count.
	DefaultHashTableSize int

	// EnableDiagnostics is not read by the engine: diagnostics.Event
	// records are emitted whenever NewQueryEngine is given a non-nil
	// handler, and never otherwise.
	EnableDiagnostics bool

	// HTTPTimeout is not read by the engine or the endpoint package;
	// remote endpoint calls use endpoint.Descriptor.Timeout instead.
	HTTPTimeout time.Duration
}

// DefaultEngineOptions returns sane defaults for local evaluation.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		MaxPropertyPathDepth: 1000,
		DefaultHashTableSize: 64,
		EnableDiagnostics:    false,
		HTTPTimeout:          30 * time.Second,
	}
}
