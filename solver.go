package idoe

import (
	"context"
	"fmt"

	"github.com/costela-labs/idoe/engine"
)

// resultView adapts an *engine.Result to the root package's Status and
// gives the extractor a single place to read rounded variable values from.
type resultView struct {
	status    Status
	objective float64
	result    *engine.Result
}

func (r *resultView) value(v *engine.Variable) float64 { return r.result.Value(v) }

func mapStatus(s engine.Status) Status {
	switch s {
	case engine.StatusOptimal:
		return StatusOptimal
	case engine.StatusFeasible:
		return StatusFeasible
	case engine.StatusInfeasible:
		return StatusInfeasible
	case engine.StatusTimeLimit:
		return StatusTimeLimit
	case engine.StatusUnbounded, engine.StatusError:
		return StatusError
	default:
		return StatusError
	}
}

// Solve builds the MILP for one problem instance and runs branch-and-bound
// to completion or to its time budget (spec.md §4.4/§6.1), returning a
// Schedule. The only error Solve ever returns is an *InputValidationError
// or an *ExtractionError; a mathematically infeasible instance is reported
// as Schedule{Status: StatusInfeasible}, not a Go error (spec.md §7).
func Solve(combinations []Combination, numStages, maxRuns int, cfg ConstraintConfig, opts ...SolveOption) (*Schedule, error) {
	settings := defaultSolveSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	pm, err := NewProblemModel(combinations, numStages, maxRuns, cfg)
	if err != nil {
		return nil, err
	}

	model, reg, err := buildModel(pm)
	if err != nil {
		return nil, err
	}
	model.SetLogger(settings.logger)
	if settings.verbose {
		settings.logger.Print(fmt.Sprintf("idoe: solving J=%d K=%d I_max=%d P=%d, %d variables, %d constraints",
			pm.J(), pm.K(), pm.IMax(), pm.P(), model.VariableCount(), model.ConstraintCount()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), settings.timeLimit)
	defer cancel()

	res, err := model.Solve(ctx, engine.SolveConfig{Workers: settings.workers})
	if err != nil {
		return nil, newInputError("the engine rejected the compiled model", err)
	}

	status := mapStatus(res.Status())
	if status == StatusInfeasible {
		return &Schedule{Status: StatusInfeasible, Diagnostics: infeasibilityHints(pm)}, nil
	}
	if status == StatusTimeLimit {
		return &Schedule{
			Status:      StatusTimeLimit,
			Diagnostics: []string{"Budget exhausted; increase time_limit or relax C2/C6/C7/C8"},
		}, nil
	}
	if status == StatusError {
		return nil, newExtractionError(fmt.Sprintf("engine returned unexpected status %q", res.Status()), nil)
	}

	view := &resultView{status: status, objective: res.ObjectiveValue(), result: res}
	return extractSchedule(view, pm, reg)
}

// infeasibilityHints applies the static, cheap-to-check necessary
// conditions from spec.md §4.4 so a caller gets an actionable diagnosis
// instead of a bare "infeasible" for the common misconfigurations.
func infeasibilityHints(pm *ProblemModel) []string {
	var hints []string
	cfg := pm.Config()
	j, k, iMax := pm.J(), pm.K(), pm.IMax()

	if cfg.EnableC5 && j > iMax*k {
		hints = append(hints, fmt.Sprintf(
			"C5 requires all %d combinations to be scheduled, but only %d run*stage slots exist (I_max=%d * K=%d)", j, iMax*k, iMax, k))
	}
	if cfg.EnableC2 && j > iMax {
		hints = append(hints, fmt.Sprintf(
			"C2 forbids repeating a combination's stage position across runs, but J=%d exceeds I_max=%d", j, iMax))
	}
	if cfg.EnableC4 && cfg.M4*iMax < j && cfg.EnableC5 {
		hints = append(hints, fmt.Sprintf(
			"C4 limits each combination to m4=%d occurrences and only I_max=%d runs exist, but C5 needs every one of J=%d combinations placed", cfg.M4, iMax, j))
	}
	for p, dmax := range cfg.DeltaMax {
		if dmax <= 0 {
			hints = append(hints, fmt.Sprintf("C7: delta_max[%d]=%v leaves no room for any stage-to-stage transition", p, dmax))
		}
	}
	if cfg.EnableC6 {
		upper := k * iMax
		for jj := 1; jj <= j; jj++ {
			t := cfg.resolveT6(jj)
			if t > upper {
				hints = append(hints, fmt.Sprintf("C6: t6[%d]=%d exceeds the maximum achievable weighted mass K*I_max=%d", jj, t, upper))
			}
		}
	}
	if cfg.EnableC4 && cfg.M4 == 1 && cfg.EnableC5 && cfg.EnableC6 {
		for jj := 1; jj <= j; jj++ {
			if cfg.resolveT6(jj) > 1 {
				hints = append(hints, fmt.Sprintf(
					"C4 restricts combination %d to a single occurrence (m4=1), but C6's target t6=%d needs more than one stage-weighted placement", jj, cfg.resolveT6(jj)))
				break
			}
		}
	}

	if len(hints) == 0 {
		hints = append(hints, "no statically-detectable cause; the constraint set is jointly infeasible")
	}
	return hints
}
