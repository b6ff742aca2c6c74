/*
Package idoe plans intensified Design of Experiments (iDoE) schedules for
wet-lab processes such as bioreactor runs.

Given a finite set of factor Combinations (discrete points in a
multi-dimensional design space) and a fixed number of Stages per physical
Run, Solve assigns combinations to (run, stage) slots that minimizes the
number of physical runs needed to cover the design space while respecting
coverage, repetition-bound, bounded-transition and minimum-variation
guardrails (constraints C1 through C8).

The model is translated into a Mixed-Integer Linear Program and handed to
the bundled engine (package idoe/engine); the solved assignment is
extracted into a Schedule and independently re-validated in arithmetic
before being returned:

	sched, err := idoe.Solve(combos, 3, 0, idoe.DefaultConstraintConfig(), idoe.WithTimeLimit(10*time.Second))
	if err != nil {
		// malformed input (InputValidationError) or an extraction bug
	}
	switch sched.Status {
	case idoe.StatusOptimal, idoe.StatusFeasible:
		// sched.Runs is usable
	default:
		// sched.Diagnostics explains why
	}

Tabular rendering, spreadsheet export, plotting and the CLI are not part of
this package; they consume the Schedule value this package produces.
*/
package idoe
