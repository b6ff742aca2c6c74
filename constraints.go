package idoe

import (
	"fmt"
	"math"

	"github.com/costela-labs/idoe/engine"
)

// buildModel assembles the full MILP for one problem instance: the
// objective (spec.md §4.1) plus C1 through C8 (spec.md §4.3), each guarded
// by its ConstraintConfig flag except C1, which is always active.
func buildModel(pm *ProblemModel) (*engine.Model, *variableRegistry, error) {
	model := engine.NewModel("idoe", engine.Minimize)

	reg, err := newVariableRegistry(model, pm)
	if err != nil {
		return nil, nil, err
	}

	setObjective(model, pm, reg)

	if err := addC1(model, pm, reg); err != nil {
		return nil, nil, err
	}
	if pm.Config().EnableC2 {
		if err := addC2(model, pm, reg); err != nil {
			return nil, nil, err
		}
	}
	if pm.Config().EnableC3 {
		if err := addC3(model, pm, reg); err != nil {
			return nil, nil, err
		}
	}
	if pm.Config().EnableC4 {
		if err := addC4(model, pm, reg); err != nil {
			return nil, nil, err
		}
	}
	if pm.Config().EnableC5 {
		if err := addC5(model, pm, reg); err != nil {
			return nil, nil, err
		}
	}
	if pm.Config().EnableC6 {
		if err := addC6(model, pm, reg); err != nil {
			return nil, nil, err
		}
	}
	if pm.Config().EnableC7 {
		if err := addC7(model, pm, reg); err != nil {
			return nil, nil, err
		}
	}
	if pm.Config().EnableC8 {
		if pm.Config().LegacyC8Encoding {
			if err := addC8Legacy(model, pm, reg); err != nil {
				return nil, nil, err
			}
		} else {
			if err := addC8(model, pm, reg); err != nil {
				return nil, nil, err
			}
		}
	}

	return model, reg, nil
}

// setObjective weights later runs more heavily than earlier ones, pushing
// the solver toward packing experiments into the lowest-numbered runs
// first (spec.md §4.1): w_i = (i/(J+1))^3.
func setObjective(model *engine.Model, pm *ProblemModel, reg *variableRegistry) {
	j := float64(pm.J())
	reg.eachX(func(i, _, _ int, v *engine.Variable) {
		w := math.Pow(float64(i)/(j+1), 3)
		v.SetObjectiveCoefficient(w)
	})
}

// addC1 limits every run/stage slot to at most one combination.
func addC1(model *engine.Model, pm *ProblemModel, reg *variableRegistry) error {
	for i := 1; i <= pm.IMax(); i++ {
		for k := 1; k <= pm.K(); k++ {
			vars := make([]*engine.Variable, 0, pm.J())
			coefs := make([]float64, 0, pm.J())
			for j := 1; j <= pm.J(); j++ {
				vars = append(vars, reg.X(i, j, k))
				coefs = append(coefs, 1)
			}
			name := fmt.Sprintf("c1_i%d_k%d", i, k)
			if err := model.AddNamedConstraint(name, math.Inf(-1), 1, vars, coefs); err != nil {
				return err
			}
		}
	}
	return nil
}

// addC2 forbids a combination from occupying the same stage position in
// more than one run.
func addC2(model *engine.Model, pm *ProblemModel, reg *variableRegistry) error {
	for j := 1; j <= pm.J(); j++ {
		for k := 1; k <= pm.K(); k++ {
			vars := make([]*engine.Variable, 0, pm.IMax())
			coefs := make([]float64, 0, pm.IMax())
			for i := 1; i <= pm.IMax(); i++ {
				vars = append(vars, reg.X(i, j, k))
				coefs = append(coefs, 1)
			}
			name := fmt.Sprintf("c2_j%d_k%d", j, k)
			if err := model.AddNamedConstraint(name, math.Inf(-1), 1, vars, coefs); err != nil {
				return err
			}
		}
	}
	return nil
}

// addC3 bounds how often one combination may repeat within a single run.
func addC3(model *engine.Model, pm *ProblemModel, reg *variableRegistry) error {
	m3 := float64(pm.Config().M3)
	for i := 1; i <= pm.IMax(); i++ {
		for j := 1; j <= pm.J(); j++ {
			vars := make([]*engine.Variable, 0, pm.K())
			coefs := make([]float64, 0, pm.K())
			for k := 1; k <= pm.K(); k++ {
				vars = append(vars, reg.X(i, j, k))
				coefs = append(coefs, 1)
			}
			name := fmt.Sprintf("c3_i%d_j%d", i, j)
			if err := model.AddNamedConstraint(name, math.Inf(-1), m3, vars, coefs); err != nil {
				return err
			}
		}
	}
	return nil
}

// addC4 caps how often one combination may repeat across the whole
// schedule.
func addC4(model *engine.Model, pm *ProblemModel, reg *variableRegistry) error {
	m4 := float64(pm.Config().M4)
	for j := 1; j <= pm.J(); j++ {
		vars := make([]*engine.Variable, 0, pm.IMax()*pm.K())
		coefs := make([]float64, 0, pm.IMax()*pm.K())
		for i := 1; i <= pm.IMax(); i++ {
			for k := 1; k <= pm.K(); k++ {
				vars = append(vars, reg.X(i, j, k))
				coefs = append(coefs, 1)
			}
		}
		name := fmt.Sprintf("c4_j%d", j)
		if err := model.AddNamedConstraint(name, math.Inf(-1), m4, vars, coefs); err != nil {
			return err
		}
	}
	return nil
}

// addC5 guarantees every combination is scheduled at least once.
func addC5(model *engine.Model, pm *ProblemModel, reg *variableRegistry) error {
	for j := 1; j <= pm.J(); j++ {
		vars := make([]*engine.Variable, 0, pm.IMax()*pm.K())
		coefs := make([]float64, 0, pm.IMax()*pm.K())
		for i := 1; i <= pm.IMax(); i++ {
			for k := 1; k <= pm.K(); k++ {
				vars = append(vars, reg.X(i, j, k))
				coefs = append(coefs, 1)
			}
		}
		name := fmt.Sprintf("c5_j%d", j)
		if err := model.AddNamedConstraint(name, 1, math.Inf(1), vars, coefs); err != nil {
			return err
		}
	}
	return nil
}

// addC6 requires each combination's weighted stage-position mass to clear
// cfg.resolveT6(j).
func addC6(model *engine.Model, pm *ProblemModel, reg *variableRegistry) error {
	cfg := pm.Config()
	for j := 1; j <= pm.J(); j++ {
		vars := make([]*engine.Variable, 0, pm.IMax()*pm.K())
		coefs := make([]float64, 0, pm.IMax()*pm.K())
		for i := 1; i <= pm.IMax(); i++ {
			for k := 1; k <= pm.K(); k++ {
				vars = append(vars, reg.X(i, j, k))
				coefs = append(coefs, cfg.stageWeight(k))
			}
		}
		t := float64(cfg.resolveT6(j))
		name := fmt.Sprintf("c6_j%d", j)
		if err := model.AddNamedConstraint(name, t, math.Inf(1), vars, coefs); err != nil {
			return err
		}
	}
	return nil
}

// addC7 bounds the parameter swing between consecutive stages of the same
// run to cfg.DeltaMax[p].
func addC7(model *engine.Model, pm *ProblemModel, reg *variableRegistry) error {
	cfg := pm.Config()
	for p := 1; p <= pm.P(); p++ {
		dmax, ok := cfg.DeltaMax[p]
		if !ok {
			continue
		}
		for i := 1; i <= pm.IMax(); i++ {
			for k := 1; k <= pm.K()-1; k++ {
				vars := make([]*engine.Variable, 0, 2*pm.J())
				coefs := make([]float64, 0, 2*pm.J())
				for j := 1; j <= pm.J(); j++ {
					c := pm.Factor(j, p)
					vars = append(vars, reg.X(i, j, k))
					coefs = append(coefs, c)
					vars = append(vars, reg.X(i, j, k+1))
					coefs = append(coefs, -c)
				}
				name := fmt.Sprintf("c7_i%d_k%d_p%d", i, k, p)
				if err := model.AddNamedConstraint(name, -dmax, dmax, vars, coefs); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// paramBigM returns a Big-M large enough to dominate any single transition
// swing for parameter p: twice the spread between its smallest and largest
// observed factor value.
func paramBigM(pm *ProblemModel, p int) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for j := 1; j <= pm.J(); j++ {
		c := pm.Factor(j, p)
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	spread := hi - lo
	if spread <= 0 {
		spread = 1
	}
	return 2 * spread
}

// addC8 is the normalized minimum-variation encoding (spec.md §9, Open
// Question 1): every run that is actually used (u[i]=1) must clear
// DeltaMin[p] on at least one parameter (y[i,p]=1 for some p), witnessed by
// at least one transition (q[k,i,p]=1) whose signed swing is bounded away
// from zero by DeltaMin[p] via z[i,p]'s sign selection. Unlike the legacy
// encoding this never penalizes runs the solver chooses to leave empty.
//
// u[i] also pins every stage of a used run to be filled (sum_j x[i,j,k] =
// u[i] for every k): without that, a run could satisfy the disjunction by
// leaving one side of a transition empty, which reads as an arbitrarily
// large "swing" against a phantom zero rather than a real variation.
func addC8(model *engine.Model, pm *ProblemModel, reg *variableRegistry) error {
	cfg := pm.Config()

	for i := 1; i <= pm.IMax(); i++ {
		for k := 1; k <= pm.K(); k++ {
			vars := make([]*engine.Variable, 0, pm.J()+1)
			coefs := make([]float64, 0, pm.J()+1)
			for j := 1; j <= pm.J(); j++ {
				vars = append(vars, reg.X(i, j, k))
				coefs = append(coefs, 1)
			}
			vars = append(vars, reg.U(i))
			coefs = append(coefs, -1)
			name := fmt.Sprintf("c8_fill_i%d_k%d", i, k)
			if err := model.AddNamedConstraint(name, 0, 0, vars, coefs); err != nil {
				return err
			}
		}

		// sum_p y[i,p] >= u[i], summed only over parameters that actually
		// carry a delta_min bound: a parameter absent from DeltaMin has no
		// witnessed transition to offer, so its y[i,p] must not be allowed
		// to satisfy coverage for free.
		yVars := make([]*engine.Variable, 0, pm.P()+1)
		yCoefs := make([]float64, 0, pm.P()+1)
		for p := 1; p <= pm.P(); p++ {
			if _, ok := cfg.DeltaMin[p]; !ok {
				continue
			}
			yVars = append(yVars, reg.Y(i, p))
			yCoefs = append(yCoefs, 1)
		}
		yVars = append(yVars, reg.U(i))
		yCoefs = append(yCoefs, -1)
		name := fmt.Sprintf("c8_coverage_i%d", i)
		if err := model.AddNamedConstraint(name, 0, math.Inf(1), yVars, yCoefs); err != nil {
			return err
		}

		for p := 1; p <= pm.P(); p++ {
			if _, ok := cfg.DeltaMin[p]; !ok {
				continue
			}
			dmin := cfg.DeltaMin[p]
			bigM := paramBigM(pm, p)

			// sum_k q[k,i,p] >= y[i,p]
			qVars := make([]*engine.Variable, 0, pm.K())
			qCoefs := make([]float64, 0, pm.K())
			for k := 1; k <= pm.K()-1; k++ {
				qVars = append(qVars, reg.Q(k, i, p))
				qCoefs = append(qCoefs, 1)
			}
			qVars = append(qVars, reg.Y(i, p))
			qCoefs = append(qCoefs, -1)
			name = fmt.Sprintf("c8_witness_i%d_p%d", i, p)
			if err := model.AddNamedConstraint(name, 0, math.Inf(1), qVars, qCoefs); err != nil {
				return err
			}

			if err := addC8Disjunction(model, pm, reg, i, p, dmin, bigM); err != nil {
				return err
			}
		}
	}
	return nil
}

// addC8Disjunction encodes, per transition k, the two Big-M halves of
// "d_k >= DeltaMin OR d_k <= -DeltaMin", gated by q[k,i,p] (is this the
// witnessed transition) and z[i,p] (which side of the disjunction). Both
// halves are only tight when q[k,i,p]=1 *and* z[i,p] picks their side;
// every other combination of q and z relaxes them by a full bigM.
func addC8Disjunction(model *engine.Model, pm *ProblemModel, reg *variableRegistry, i, p int, dmin, bigM float64) error {
	z := reg.Z(i, p)
	for k := 1; k <= pm.K()-1; k++ {
		q := reg.Q(k, i, p)

		vars := make([]*engine.Variable, 0, 2*pm.J()+2)
		coefs := make([]float64, 0, 2*pm.J()+2)
		for j := 1; j <= pm.J(); j++ {
			c := pm.Factor(j, p)
			vars = append(vars, reg.X(i, j, k))
			coefs = append(coefs, c)
			vars = append(vars, reg.X(i, j, k+1))
			coefs = append(coefs, -c)
		}
		vars = append(vars, q, z)

		// tight (d_k >= DeltaMin) only when q=1, z=0:
		// d_k - M*q + M*z >= DeltaMin - M
		posCoefs := append(append([]float64{}, coefs...), -bigM, bigM)
		name := fmt.Sprintf("c8_pos_i%d_k%d_p%d", i, k, p)
		if err := model.AddNamedConstraint(name, dmin-bigM, math.Inf(1), vars, posCoefs); err != nil {
			return err
		}

		// tight (d_k <= -DeltaMin) only when q=1, z=1:
		// d_k + M*q + M*z <= 2M - DeltaMin
		negCoefs := append(append([]float64{}, coefs...), bigM, bigM)
		name = fmt.Sprintf("c8_neg_i%d_k%d_p%d", i, k, p)
		if err := model.AddNamedConstraint(name, math.Inf(-1), 2*bigM-dmin, vars, negCoefs); err != nil {
			return err
		}
	}
	return nil
}

// addC8Legacy is the spec.md §4.3 literal Big-M formulation, valid only
// when K=3 (spec.md §9, Open Question 4): unlike addC8, it has no u[i]/y[i,p]
// gating, so every run — whether or not the solver would otherwise leave it
// empty — is forced to clear DeltaMin[p] on at least one transition. It
// exists for parity tests against the original formulas, not for general
// use.
func addC8Legacy(model *engine.Model, pm *ProblemModel, reg *variableRegistry) error {
	cfg := pm.Config()
	for i := 1; i <= pm.IMax(); i++ {
		for p := 1; p <= pm.P(); p++ {
			dmin, ok := cfg.DeltaMin[p]
			if !ok {
				continue
			}
			bigM := paramBigM(pm, p)

			qVars := make([]*engine.Variable, 0, pm.K()-1)
			qCoefs := make([]float64, 0, pm.K()-1)
			for k := 1; k <= pm.K()-1; k++ {
				qVars = append(qVars, reg.Q(k, i, p))
				qCoefs = append(qCoefs, 1)
			}
			name := fmt.Sprintf("c8legacy_witness_i%d_p%d", i, p)
			if err := model.AddNamedConstraint(name, 1, math.Inf(1), qVars, qCoefs); err != nil {
				return err
			}

			if err := addC8Disjunction(model, pm, reg, i, p, dmin, bigM); err != nil {
				return err
			}
		}
	}
	return nil
}
