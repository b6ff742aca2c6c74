package idoe

import (
	"fmt"
	"math"
)

// Status is the public solve outcome (spec.md §6.2), derived from the
// engine's internal engine.Status by mapStatus (engine Unbounded and Error
// both become StatusError).
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusFeasible   Status = "feasible"
	StatusInfeasible Status = "infeasible"
	StatusTimeLimit  Status = "time_limit"
	StatusError      Status = "error"
)

// StageAssignment is one stage of one run: which combination was placed
// there and its factor settings, copied in for convenience (spec.md §6.3).
type StageAssignment struct {
	Stage       int
	Combination int
	Factors     []float64
}

// Run is one experiment: a stable 1-based experiment id and its ordered
// stage assignments. A run with no assignments is never reported (spec.md
// §4.5: the extractor drops runs the solver left empty).
type Run struct {
	ExperimentID int
	Stages       []StageAssignment
}

// Schedule is the result of a successful Solve call (spec.md §6.2/§6.3).
// Runs is empty for Infeasible/TimeLimit outcomes; an engine error yields
// no Schedule at all (Solve returns an *ExtractionError instead).
type Schedule struct {
	Status            Status
	ObjectiveValue    float64
	NumExperimentsUsed int
	NumStagesUsed     int
	Runs              []Run

	// Diagnostics carries the static infeasibility hints from spec.md §4.4
	// when Status is Infeasible, and a single time-budget message when
	// Status is TimeLimit; it is empty otherwise.
	Diagnostics []string
}

const roundTol = 1e-6

// extractSchedule rounds the engine's relaxed x[i,j,k] values to {0,1} and
// reshapes them into a Schedule. Any value that doesn't round cleanly is a
// bug in the constraint compiler or the engine, not a modeling failure, so
// it is reported as an ExtractionError rather than silently truncated
// (spec.md §4.5).
func extractSchedule(res *resultView, pm *ProblemModel, reg *variableRegistry) (*Schedule, error) {
	sched := &Schedule{
		Status:         res.status,
		ObjectiveValue: res.objective,
	}

	for i := 1; i <= pm.IMax(); i++ {
		var stages []StageAssignment
		for k := 1; k <= pm.K(); k++ {
			j, err := assignedCombination(res, pm, reg, i, k)
			if err != nil {
				return nil, err
			}
			if j == 0 {
				continue
			}
			stages = append(stages, StageAssignment{
				Stage:       k,
				Combination: pm.combinations[j-1].ID,
				Factors:     append([]float64(nil), pm.combinations[j-1].Factors...),
			})
		}
		if len(stages) > 0 {
			sched.Runs = append(sched.Runs, Run{ExperimentID: i, Stages: stages})
			sched.NumExperimentsUsed++
			sched.NumStagesUsed += len(stages)
		}
	}

	if err := validateSchedule(sched, pm); err != nil {
		return nil, err
	}
	return sched, nil
}

// assignedCombination returns the 1-based combination index occupying
// run i's stage k, or 0 if the slot is empty. It fails hard if more than
// one combination rounds to 1 in the same slot, which C1 should make
// impossible.
func assignedCombination(res *resultView, pm *ProblemModel, reg *variableRegistry, i, k int) (int, error) {
	found := 0
	for j := 1; j <= pm.J(); j++ {
		v := res.value(reg.X(i, j, k))
		r := math.Round(v)
		if math.Abs(v-r) > roundTol {
			return 0, newExtractionError(fmt.Sprintf("x[i=%d,j=%d,k=%d] = %v does not round cleanly to an integer", i, j, k, v), nil)
		}
		if r == 1 {
			if found != 0 {
				return 0, newExtractionError(fmt.Sprintf("run %d stage %d has more than one combination assigned (C1 violated)", i, k), nil)
			}
			found = j
		} else if r != 0 {
			return 0, newExtractionError(fmt.Sprintf("x[i=%d,j=%d,k=%d] rounded to out-of-range value %v", i, j, k, r), nil)
		}
	}
	return found, nil
}

// validateSchedule independently re-checks every enabled constraint in
// arithmetic form over the extracted assignments (spec.md §4.5). It never
// reshapes the schedule; it only confirms or rejects it.
func validateSchedule(s *Schedule, pm *ProblemModel) error {
	cfg := pm.Config()

	occurrences := make(map[int]int) // combination id -> total occurrences
	runOccurrences := make(map[[2]int]int) // [run, combination id] -> occurrences within the run
	weightedMass := make(map[int]float64)  // combination id -> sum of stage weights

	for _, run := range s.Runs {
		seenStageK := make(map[int]bool)
		for _, st := range run.Stages {
			if seenStageK[st.Stage] {
				return newExtractionError(fmt.Sprintf("run %d has duplicate stage %d (C1 violated)", run.ExperimentID, st.Stage), nil)
			}
			seenStageK[st.Stage] = true

			occurrences[st.Combination]++
			runOccurrences[[2]int{run.ExperimentID, st.Combination}]++
			weightedMass[st.Combination] += cfg.stageWeight(st.Stage)
		}
	}

	if cfg.EnableC2 {
		seenSlot := make(map[[2]int]bool) // [combination id, stage]
		for _, run := range s.Runs {
			for _, st := range run.Stages {
				key := [2]int{st.Combination, st.Stage}
				if seenSlot[key] {
					return newExtractionError(fmt.Sprintf("combination %d occupies stage %d in more than one run (C2 violated)", st.Combination, st.Stage), nil)
				}
				seenSlot[key] = true
			}
		}
	}

	if cfg.EnableC3 {
		for key, n := range runOccurrences {
			if n > cfg.M3 {
				return newExtractionError(fmt.Sprintf("run %d repeats combination %d %d times, exceeding m3=%d (C3 violated)", key[0], key[1], n, cfg.M3), nil)
			}
		}
	}

	if cfg.EnableC4 {
		for id, n := range occurrences {
			if n > cfg.M4 {
				return newExtractionError(fmt.Sprintf("combination %d occurs %d times, exceeding m4=%d (C4 violated)", id, n, cfg.M4), nil)
			}
		}
	}

	if cfg.EnableC5 {
		for _, c := range pm.combinations {
			if occurrences[c.ID] < 1 {
				return newExtractionError(fmt.Sprintf("combination %d is never scheduled (C5 violated)", c.ID), nil)
			}
		}
	}

	if cfg.EnableC6 {
		for j, c := range pm.combinations {
			t := float64(cfg.resolveT6(j + 1))
			if weightedMass[c.ID] < t-roundTol {
				return newExtractionError(fmt.Sprintf("combination %d has weighted stage mass %v, below t6=%v (C6 violated)", c.ID, weightedMass[c.ID], t), nil)
			}
		}
	}

	if cfg.EnableC7 {
		if err := validateC7(s, pm); err != nil {
			return err
		}
	}

	if cfg.EnableC8 && !cfg.LegacyC8Encoding {
		if err := validateC8(s, pm); err != nil {
			return err
		}
	}

	return nil
}

func validateC7(s *Schedule, pm *ProblemModel) error {
	cfg := pm.Config()
	for _, run := range s.Runs {
		byStage := make(map[int]StageAssignment)
		for _, st := range run.Stages {
			byStage[st.Stage] = st
		}
		for k := 1; k <= pm.K()-1; k++ {
			a, ok1 := byStage[k]
			b, ok2 := byStage[k+1]
			if !ok1 || !ok2 {
				continue
			}
			for p := 1; p <= pm.P(); p++ {
				dmax, ok := cfg.DeltaMax[p]
				if !ok {
					continue
				}
				d := a.Factors[p-1] - b.Factors[p-1]
				if math.Abs(d) > dmax+roundTol {
					return newExtractionError(fmt.Sprintf("run %d stages %d->%d swing %v on parameter %d exceeds delta_max=%v (C7 violated)", run.ExperimentID, k, k+1, d, p, dmax), nil)
				}
			}
		}
	}
	return nil
}

// validateC8 re-checks the normalized encoding's intent arithmetically:
// every reported (non-empty) run must clear delta_min on at least one
// parameter across at least one consecutive stage pair.
func validateC8(s *Schedule, pm *ProblemModel) error {
	cfg := pm.Config()
	for _, run := range s.Runs {
		byStage := make(map[int]StageAssignment)
		for _, st := range run.Stages {
			byStage[st.Stage] = st
		}
		satisfied := false
		for p := 1; p <= pm.P(); p++ {
			dmin, ok := cfg.DeltaMin[p]
			if !ok {
				continue
			}
			for k := 1; k <= pm.K()-1; k++ {
				a, ok1 := byStage[k]
				b, ok2 := byStage[k+1]
				if !ok1 || !ok2 {
					continue
				}
				d := a.Factors[p-1] - b.Factors[p-1]
				if math.Abs(d) >= dmin-roundTol {
					satisfied = true
				}
			}
		}
		if len(cfg.DeltaMin) > 0 && !satisfied {
			return newExtractionError(fmt.Sprintf("run %d clears delta_min on no parameter/transition (C8 violated)", run.ExperimentID), nil)
		}
	}
	return nil
}
