package idoe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractedScheduleSatisfiesC5Coverage(t *testing.T) {
	cfg := ConstraintConfig{EnableC5: true}
	sched, err := Solve(threeFactorCombos(), 3, 0, cfg, WithTimeLimit(3*time.Second))
	require.NoError(t, err)
	require.Contains(t, []Status{StatusOptimal, StatusFeasible}, sched.Status)

	covered := make(map[int]bool)
	for _, run := range sched.Runs {
		for _, st := range run.Stages {
			covered[st.Combination] = true
		}
	}
	for _, c := range threeFactorCombos() {
		assert.True(t, covered[c.ID], "combination %d never scheduled", c.ID)
	}
}

func TestExtractedScheduleReportsAccurateCounts(t *testing.T) {
	cfg := ConstraintConfig{EnableC5: true}
	sched, err := Solve(threeFactorCombos(), 3, 0, cfg, WithTimeLimit(3*time.Second))
	require.NoError(t, err)

	assert.Equal(t, len(sched.Runs), sched.NumExperimentsUsed)
	for _, run := range sched.Runs {
		assert.LessOrEqual(t, len(run.Stages), sched.NumStagesUsed)
	}
}

func TestValidateScheduleCatchesC5Violation(t *testing.T) {
	pm, err := NewProblemModel(threeFactorCombos(), 3, 3, ConstraintConfig{EnableC5: true})
	require.NoError(t, err)

	sched := &Schedule{
		Runs: []Run{
			{ExperimentID: 1, Stages: []StageAssignment{{Stage: 1, Combination: 1, Factors: []float64{0.1, 10}}}},
		},
	}
	err = validateSchedule(sched, pm)
	require.Error(t, err)
	var ee *ExtractionError
	assert.ErrorAs(t, err, &ee)
}

func TestValidateScheduleCatchesC3Violation(t *testing.T) {
	cfg := ConstraintConfig{EnableC3: true, M3: 1}
	pm, err := NewProblemModel(threeFactorCombos(), 3, 3, cfg)
	require.NoError(t, err)

	sched := &Schedule{
		Runs: []Run{
			{ExperimentID: 1, Stages: []StageAssignment{
				{Stage: 1, Combination: 1, Factors: []float64{0.1, 10}},
				{Stage: 2, Combination: 1, Factors: []float64{0.1, 10}},
			}},
		},
	}
	err = validateSchedule(sched, pm)
	require.Error(t, err)
}

func TestValidateScheduleCatchesC7Violation(t *testing.T) {
	cfg := ConstraintConfig{EnableC7: true, DeltaMax: map[int]float64{1: 0.01}}
	pm, err := NewProblemModel(threeFactorCombos(), 3, 3, cfg)
	require.NoError(t, err)

	sched := &Schedule{
		Runs: []Run{
			{ExperimentID: 1, Stages: []StageAssignment{
				{Stage: 1, Combination: 1, Factors: []float64{0.1, 10}},
				{Stage: 2, Combination: 3, Factors: []float64{0.3, 30}},
			}},
		},
	}
	err = validateSchedule(sched, pm)
	require.Error(t, err)
}

func TestValidateScheduleAcceptsConsistentInput(t *testing.T) {
	cfg := ConstraintConfig{EnableC5: true}
	pm, err := NewProblemModel(threeFactorCombos(), 3, 3, cfg)
	require.NoError(t, err)

	sched := &Schedule{
		Runs: []Run{
			{ExperimentID: 1, Stages: []StageAssignment{
				{Stage: 1, Combination: 1, Factors: []float64{0.1, 10}},
				{Stage: 2, Combination: 2, Factors: []float64{0.2, 20}},
				{Stage: 3, Combination: 3, Factors: []float64{0.3, 30}},
			}},
		},
	}
	assert.NoError(t, validateSchedule(sched, pm))
}
