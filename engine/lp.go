package engine

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// bounds overrides the base [lower, upper] of a subset of variables for one
// branch-and-bound node, without mutating the shared Model.
type bounds map[int][2]float64

func (b bounds) of(v *Variable) (lo, hi float64) {
	if ov, ok := b[v.index]; ok {
		return ov[0], ov[1]
	}
	return v.lower, v.upper
}

// relaxation is the outcome of solving one node's continuous LP relaxation.
type relaxation struct {
	feasible  bool
	unbounded bool
	objective float64
	values    []float64 // one per original variable, in Model.vars order
}

// solveRelaxation builds the standard-form program (min c^T x, A x = b, x>=0)
// implied by m's rows and the given per-node bound overrides, and solves it
// with gonum's two-phase primal simplex.
func (m *Model) solveRelaxation(ov bounds) (relaxation, error) {
	n := len(m.vars)

	// column layout: [0, n) original variables (shifted so lower bound -> 0),
	// followed by one slack per finite variable upper bound, followed by one
	// or two slacks per constraint row (depending on which side is finite).
	type slackRow struct {
		coefs map[int]float64
		rhs   float64
	}
	var eqs []slackRow
	shift := make([]float64, n)
	effUpper := make([]float64, n)

	nextCol := n
	for i, v := range m.vars {
		lo, hi := ov.of(v)
		if math.IsInf(lo, -1) {
			return relaxation{}, fmt.Errorf("engine: variable %q has no finite lower bound; unsupported by this backend", v.name)
		}
		shift[i] = lo
		effUpper[i] = hi - lo
		if !math.IsInf(hi, 1) {
			col := nextCol
			nextCol++
			eqs = append(eqs, slackRow{coefs: map[int]float64{i: 1, col: 1}, rhs: effUpper[i]})
		}
	}

	for _, r := range m.rows {
		lower, upper := r.lower, r.upper
		shiftedRHSBase := 0.0
		for idx, coef := range r.coefs {
			shiftedRHSBase += coef * shift[idx]
		}
		switch {
		case lower == upper:
			eqs = append(eqs, slackRow{coefs: cloneCoefs(r.coefs), rhs: upper - shiftedRHSBase})
		default:
			if !math.IsInf(upper, 1) {
				col := nextCol
				nextCol++
				c := cloneCoefs(r.coefs)
				c[col] = 1
				eqs = append(eqs, slackRow{coefs: c, rhs: upper - shiftedRHSBase})
			}
			if !math.IsInf(lower, -1) {
				col := nextCol
				nextCol++
				c := cloneCoefs(r.coefs)
				c[col] = -1
				eqs = append(eqs, slackRow{coefs: c, rhs: lower - shiftedRHSBase})
			}
		}
	}

	total := nextCol
	if len(eqs) == 0 {
		// no constraints at all: trivially feasible at the lower bound.
		vals := make([]float64, n)
		copy(vals, shift)
		return relaxation{feasible: true, values: vals}, nil
	}

	A := mat.NewDense(len(eqs), total, nil)
	b := make([]float64, len(eqs))
	for r, eq := range eqs {
		rhs := eq.rhs
		if rhs < 0 {
			// gonum's Simplex expects a non-negative right-hand side; flip the row.
			for col, coef := range eq.coefs {
				A.Set(r, col, -coef)
			}
			rhs = -rhs
		} else {
			for col, coef := range eq.coefs {
				A.Set(r, col, coef)
			}
		}
		b[r] = rhs
	}

	c := make([]float64, total)
	sign := 1.0
	if m.direction == Maximize {
		sign = -1.0
	}
	for i, v := range m.vars {
		c[i] = sign * v.coef
	}

	_, x, err := lp.Simplex(nil, c, A, b, 1e-9)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) || errors.Is(err, lp.ErrSingular) {
			return relaxation{feasible: false}, nil
		}
		if errors.Is(err, lp.ErrUnbounded) {
			return relaxation{feasible: true, unbounded: true}, nil
		}
		return relaxation{}, fmt.Errorf("engine: lp relaxation failed: %w", err)
	}

	values := make([]float64, n)
	objective := 0.0
	for i := range values {
		values[i] = shift[i] + x[i]
		objective += c[i] * values[i]
	}

	return relaxation{feasible: true, objective: objective, values: values}, nil
}

func cloneCoefs(in map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
