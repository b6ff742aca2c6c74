package idoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildModelRowCountsMatchEnabledConstraints(t *testing.T) {
	cfg := ConstraintConfig{} // only C1 active
	pm, err := NewProblemModel(threeFactorCombos(), 3, 3, cfg)
	require.NoError(t, err)

	model, _, err := buildModel(pm)
	require.NoError(t, err)

	// C1: one row per (i,k) => I_max * K
	assert.Equal(t, pm.IMax()*pm.K(), model.ConstraintCount())
}

func TestBuildModelAddsC2ThroughC7Rows(t *testing.T) {
	cfg := DefaultConstraintConfig()
	cfg.EnableC8 = false
	pm, err := NewProblemModel(threeFactorCombos(), 3, 3, cfg)
	require.NoError(t, err)

	model, _, err := buildModel(pm)
	require.NoError(t, err)

	c1 := pm.IMax() * pm.K()
	c2 := pm.J() * pm.K()
	c3 := pm.IMax() * pm.J()
	c4 := pm.J()
	c5 := pm.J()
	c6 := pm.J()
	// C7 only emits rows for parameters with a configured delta_max; the
	// default config leaves DeltaMax nil, so C7 contributes no rows here.
	c7 := 0

	assert.Equal(t, c1+c2+c3+c4+c5+c6+c7, model.ConstraintCount())
}

func TestBuildModelC8NormalizedAddsAuxiliaryRows(t *testing.T) {
	cfg := ConstraintConfig{EnableC8: true, DeltaMin: map[int]float64{1: 0.05, 2: 5}}
	pm, err := NewProblemModel(threeFactorCombos(), 3, 3, cfg)
	require.NoError(t, err)

	model, reg, err := buildModel(pm)
	require.NoError(t, err)

	assert.Greater(t, model.ConstraintCount(), pm.IMax()*pm.K())
	assert.NotNil(t, reg.U(1))
	assert.NotNil(t, reg.Y(1, 1))
}

func TestBuildModelC8LegacyOmitsCoverageRows(t *testing.T) {
	cfgNormalized := ConstraintConfig{EnableC8: true, DeltaMin: map[int]float64{1: 0.05}}
	cfgLegacy := ConstraintConfig{EnableC8: true, DeltaMin: map[int]float64{1: 0.05}, LegacyC8Encoding: true}

	pmN, err := NewProblemModel(threeFactorCombos(), 3, 3, cfgNormalized)
	require.NoError(t, err)
	modelN, _, err := buildModel(pmN)
	require.NoError(t, err)

	pmL, err := NewProblemModel(threeFactorCombos(), 3, 3, cfgLegacy)
	require.NoError(t, err)
	modelL, _, err := buildModel(pmL)
	require.NoError(t, err)

	// the legacy encoding skips the u[i]/y[i,p] "run used" gating rows, so
	// it always has strictly fewer constraint rows than the normalized one.
	assert.Less(t, modelL.ConstraintCount(), modelN.ConstraintCount())
}

func TestObjectiveWeightsIncreaseWithRunIndex(t *testing.T) {
	pm, err := NewProblemModel(threeFactorCombos(), 3, 3, ConstraintConfig{})
	require.NoError(t, err)
	model, reg, err := buildModel(pm)
	require.NoError(t, err)
	_ = model

	w1 := reg.X(1, 1, 1).ObjectiveCoefficient()
	w2 := reg.X(2, 1, 1).ObjectiveCoefficient()
	w3 := reg.X(3, 1, 1).ObjectiveCoefficient()
	assert.Less(t, w1, w2)
	assert.Less(t, w2, w3)
}
