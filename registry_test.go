package idoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costela-labs/idoe/engine"
)

func TestVariableRegistryNamesAreDeterministic(t *testing.T) {
	pm, err := NewProblemModel(threeFactorCombos(), 3, 4, DefaultConstraintConfig())
	require.NoError(t, err)

	names := func() []string {
		model := engine.NewModel("test", engine.Minimize)
		reg, err := newVariableRegistry(model, pm)
		require.NoError(t, err)
		var out []string
		for _, v := range model.Variables() {
			out = append(out, v.Name())
		}
		_ = reg
		return out
	}

	first := names()
	second := names()
	assert.Equal(t, first, second)
	assert.Equal(t, "x_i1_j1_k1", first[0])
}

func TestVariableRegistrySkipsC8VariablesWhenDisabled(t *testing.T) {
	cfg := DefaultConstraintConfig()
	cfg.EnableC8 = false
	pm, err := NewProblemModel(threeFactorCombos(), 3, 4, cfg)
	require.NoError(t, err)

	model := engine.NewModel("test", engine.Minimize)
	reg, err := newVariableRegistry(model, pm)
	require.NoError(t, err)

	assert.Nil(t, reg.Z(1, 1))
	assert.Nil(t, reg.Y(1, 1))
	assert.Nil(t, reg.U(1))
	assert.Equal(t, pm.IMax()*pm.J()*pm.K(), model.VariableCount())
}

func TestVariableRegistryEachXOrder(t *testing.T) {
	pm, err := NewProblemModel(threeFactorCombos(), 3, 2, DefaultConstraintConfig())
	require.NoError(t, err)
	model := engine.NewModel("test", engine.Minimize)
	reg, err := newVariableRegistry(model, pm)
	require.NoError(t, err)

	var order [][3]int
	reg.eachX(func(i, j, k int, v *engine.Variable) {
		order = append(order, [3]int{i, j, k})
		require.NotNil(t, v)
	})
	assert.Equal(t, [3]int{1, 1, 1}, order[0])
	assert.Equal(t, [3]int{1, 1, 2}, order[1])
	assert.Len(t, order, pm.IMax()*pm.J()*pm.K())
}
