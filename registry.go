package idoe

import (
	"fmt"

	"github.com/costela-labs/idoe/engine"
)

// variableRegistry allocates and names every MILP variable the constraint
// compiler needs (spec.md §4.2): the primary assignment variables x[i,j,k],
// and C8's auxiliary selectors z[i,p] and q[k,i,p]. Variables are created
// in a fixed nested-loop order so that two runs on identical input produce
// byte-identical constraint and variable names (determinism, P9).
type variableRegistry struct {
	model *engine.Model

	x map[[3]int]*engine.Variable // [i,j,k] -> var
	z map[[2]int]*engine.Variable // [i,p]   -> var (C8 sign selector)
	q map[[3]int]*engine.Variable // [k,i,p] -> var (C8 transition-pair selector)
	y map[[2]int]*engine.Variable // [i,p]   -> var (C8 normalized: "p satisfies variation in run i")
	u map[int]*engine.Variable    // [i]     -> var (C8 normalized: "run i is used")

	iMax, j, k, p int
}

func newVariableRegistry(model *engine.Model, m *ProblemModel) (*variableRegistry, error) {
	r := &variableRegistry{
		model: model,
		x:     make(map[[3]int]*engine.Variable),
		z:     make(map[[2]int]*engine.Variable),
		q:     make(map[[3]int]*engine.Variable),
		y:     make(map[[2]int]*engine.Variable),
		u:     make(map[int]*engine.Variable),
		iMax:  m.IMax(),
		j:     m.J(),
		k:     m.K(),
		p:     m.P(),
	}

	for i := 1; i <= r.iMax; i++ {
		for j := 1; j <= r.j; j++ {
			for k := 1; k <= r.k; k++ {
				v, err := model.AddBinaryVariable(fmt.Sprintf("x_i%d_j%d_k%d", i, j, k))
				if err != nil {
					return nil, err
				}
				r.x[[3]int{i, j, k}] = v
			}
		}
	}

	needsC8 := m.Config().EnableC8
	if needsC8 {
		for i := 1; i <= r.iMax; i++ {
			for p := 1; p <= r.p; p++ {
				v, err := model.AddBinaryVariable(fmt.Sprintf("z_i%d_p%d", i, p))
				if err != nil {
					return nil, err
				}
				r.z[[2]int{i, p}] = v
			}
		}
		for k := 1; k <= r.k-1; k++ {
			for i := 1; i <= r.iMax; i++ {
				for p := 1; p <= r.p; p++ {
					v, err := model.AddBinaryVariable(fmt.Sprintf("q_k%d_i%d_p%d", k, i, p))
					if err != nil {
						return nil, err
					}
					r.q[[3]int{k, i, p}] = v
				}
			}
		}

		// y and u back the normalized C8 encoding only (constraints.go); they
		// are allocated whenever C8 is on, even under the legacy encoding,
		// to keep variable numbering stable across both encodings.
		for i := 1; i <= r.iMax; i++ {
			for p := 1; p <= r.p; p++ {
				v, err := model.AddBinaryVariable(fmt.Sprintf("y_i%d_p%d", i, p))
				if err != nil {
					return nil, err
				}
				r.y[[2]int{i, p}] = v
			}
		}
		for i := 1; i <= r.iMax; i++ {
			v, err := model.AddBinaryVariable(fmt.Sprintf("u_i%d", i))
			if err != nil {
				return nil, err
			}
			r.u[i] = v
		}
	}

	return r, nil
}

func (r *variableRegistry) X(i, j, k int) *engine.Variable { return r.x[[3]int{i, j, k}] }
func (r *variableRegistry) Z(i, p int) *engine.Variable    { return r.z[[2]int{i, p}] }
func (r *variableRegistry) Q(k, i, p int) *engine.Variable { return r.q[[3]int{k, i, p}] }
func (r *variableRegistry) Y(i, p int) *engine.Variable    { return r.y[[2]int{i, p}] }
func (r *variableRegistry) U(i int) *engine.Variable       { return r.u[i] }

// eachX calls fn for every (i,j,k) in stable order.
func (r *variableRegistry) eachX(fn func(i, j, k int, v *engine.Variable)) {
	for i := 1; i <= r.iMax; i++ {
		for j := 1; j <= r.j; j++ {
			for k := 1; k <= r.k; k++ {
				fn(i, j, k, r.X(i, j, k))
			}
		}
	}
}
