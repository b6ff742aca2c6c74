package idoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeFactorCombos() []Combination {
	return []Combination{
		{ID: 1, Factors: []float64{0.1, 10}},
		{ID: 2, Factors: []float64{0.2, 20}},
		{ID: 3, Factors: []float64{0.3, 30}},
	}
}

func TestNewProblemModelDefaults(t *testing.T) {
	pm, err := NewProblemModel(threeFactorCombos(), 3, 0, DefaultConstraintConfig())
	require.NoError(t, err)

	assert.Equal(t, 3, pm.J())
	assert.Equal(t, 3, pm.K())
	assert.Equal(t, 2, pm.P())
	assert.Equal(t, 9, pm.IMax()) // J*K default
}

func TestNewProblemModelExplicitMaxRuns(t *testing.T) {
	pm, err := NewProblemModel(threeFactorCombos(), 3, 5, DefaultConstraintConfig())
	require.NoError(t, err)
	assert.Equal(t, 5, pm.IMax())
}

func TestNewProblemModelRejectsEmptyCombinations(t *testing.T) {
	_, err := NewProblemModel(nil, 3, 0, DefaultConstraintConfig())
	require.Error(t, err)
	var ive *InputValidationError
	assert.ErrorAs(t, err, &ive)
}

func TestNewProblemModelRejectsTooFewStages(t *testing.T) {
	_, err := NewProblemModel(threeFactorCombos(), 1, 0, DefaultConstraintConfig())
	require.Error(t, err)
}

func TestNewProblemModelRejectsInconsistentFactorLengths(t *testing.T) {
	combos := []Combination{
		{ID: 1, Factors: []float64{0.1, 10}},
		{ID: 2, Factors: []float64{0.2}},
	}
	_, err := NewProblemModel(combos, 3, 0, DefaultConstraintConfig())
	require.Error(t, err)
}

func TestNewProblemModelRejectsDuplicateIDs(t *testing.T) {
	combos := []Combination{
		{ID: 1, Factors: []float64{0.1}},
		{ID: 1, Factors: []float64{0.2}},
	}
	_, err := NewProblemModel(combos, 3, 0, DefaultConstraintConfig())
	require.Error(t, err)
}

func TestNewProblemModelRejectsNonPositiveID(t *testing.T) {
	combos := []Combination{{ID: 0, Factors: []float64{0.1}}}
	_, err := NewProblemModel(combos, 3, 0, DefaultConstraintConfig())
	require.Error(t, err)
}

func TestValidateConfigC3Bounds(t *testing.T) {
	cfg := DefaultConstraintConfig()
	cfg.M3 = 0
	_, err := NewProblemModel(threeFactorCombos(), 3, 0, cfg)
	require.Error(t, err)
}

func TestValidateConfigC6Bounds(t *testing.T) {
	cfg := DefaultConstraintConfig()
	cfg.T6 = map[int]int{1: 1000}
	_, err := NewProblemModel(threeFactorCombos(), 3, 0, cfg)
	require.Error(t, err)
}

func TestValidateConfigC7RejectsNegative(t *testing.T) {
	cfg := DefaultConstraintConfig()
	cfg.DeltaMax = map[int]float64{1: -1}
	_, err := NewProblemModel(threeFactorCombos(), 3, 0, cfg)
	require.Error(t, err)
}

func TestValidateConfigC8RejectsNegative(t *testing.T) {
	cfg := DefaultConstraintConfig()
	cfg.DeltaMin = map[int]float64{1: -1}
	_, err := NewProblemModel(threeFactorCombos(), 3, 0, cfg)
	require.Error(t, err)
}

func TestValidateConfigC8RejectsEmptyDeltaMin(t *testing.T) {
	cfg := ConstraintConfig{EnableC8: true}
	_, err := NewProblemModel(threeFactorCombos(), 3, 0, cfg)
	require.Error(t, err)
}

func TestFactorLookupIsOneBased(t *testing.T) {
	pm, err := NewProblemModel(threeFactorCombos(), 3, 0, DefaultConstraintConfig())
	require.NoError(t, err)
	assert.Equal(t, 0.2, pm.Factor(2, 1))
	assert.Equal(t, float64(30), pm.Factor(3, 2))
}
