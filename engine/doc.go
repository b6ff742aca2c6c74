// Package engine is the bundled MILP solving backend used by the idoe
// scheduler. It presents the same row-builder modeling API the teacher
// library (costela/golpa) exposes over lpsolve/glpk via cgo — a Model you
// add bounded Variables to, and constraint rows expressed as a lower bound,
// an upper bound, and a sparse coefficient list — but solves the resulting
// program with a pure-Go LP relaxation (gonum.org/v1/gonum/optimize/convex/lp)
// wrapped in a small branch-and-bound driver for the binary/integer
// variables, instead of linking a native solver.
//
// Callers outside this module should not need this package directly; idoe.Solve
// is the supported entry point. It is exported so the constraint compiler and
// solver driver in the root package can stay a thin translation layer over it.
package engine
