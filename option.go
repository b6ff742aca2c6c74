package idoe

import "time"

// solveSettings holds everything Solve needs that is not part of the
// mathematical model: the teacher's Option pattern (option.go) generalized
// from a single logger knob to the time budget, verbosity and
// branch-and-bound worker count.
type solveSettings struct {
	timeLimit time.Duration
	verbose   bool
	logger    Logger
	workers   int
}

func defaultSolveSettings() solveSettings {
	return solveSettings{
		timeLimit: 30 * time.Second,
		logger:    NopLogger{},
		workers:   1,
	}
}

// SolveOption configures one aspect of a Solve call.
type SolveOption func(*solveSettings)

// WithTimeLimit bounds how long the engine may search before returning its
// best incumbent (spec.md §4.4/§6.1's time_limit_s).
func WithTimeLimit(d time.Duration) SolveOption {
	return func(s *solveSettings) { s.timeLimit = d }
}

// WithVerbose toggles Solve's verbose logging through the configured Logger:
// one summary line of the compiled model's size before the engine runs
// (spec.md §6.1's verbose flag). The engine itself logs nothing.
func WithVerbose(v bool) SolveOption {
	return func(s *solveSettings) { s.verbose = v }
}

// WithLogger sets the sink verbose progress is written to.
func WithLogger(logger Logger) SolveOption {
	return func(s *solveSettings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWorkers bounds how many branch-and-bound subtrees the engine explores
// concurrently (spec.md §5: "the MILP engine itself may spawn internal
// worker threads; the driver treats the engine as a black box").
func WithWorkers(n int) SolveOption {
	return func(s *solveSettings) {
		if n > 0 {
			s.workers = n
		}
	}
}
