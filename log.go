package idoe

import "github.com/costela-labs/idoe/engine"

// Logger is the sink Solve writes verbose progress to. The core never logs
// to standard output on its own (spec.md §7); callers wire their own
// logging by implementing this single-method interface, exactly as the
// teacher library's Logger does for its underlying solver.
type Logger = engine.Logger

// NopLogger discards everything and is the default when no logger is
// configured.
type NopLogger = engine.NopLogger
