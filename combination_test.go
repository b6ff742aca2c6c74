package idoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveParametersDefaultNames(t *testing.T) {
	combos := []Combination{
		{ID: 1, Factors: []float64{0.1, 10}},
		{ID: 2, Factors: []float64{0.2, 10}},
		{ID: 3, Factors: []float64{0.1, 20}},
	}
	params := DeriveParameters(combos, nil, nil)
	require := assert.New(t)
	require.Len(params, 2)
	require.Equal("pa", params[0].Name)
	require.Equal("pb", params[1].Name)
	require.Equal([]float64{0.1, 0.2}, params[0].Values)
	require.Equal([]float64{10, 20}, params[1].Values)
}

func TestDeriveParametersCustomNamesAndUnits(t *testing.T) {
	combos := []Combination{{ID: 1, Factors: []float64{1, 2}}}
	params := DeriveParameters(combos, []string{"temperature"}, []string{"C"})
	assert.Equal(t, "temperature", params[0].Name)
	assert.Equal(t, "C", params[0].Units)
	assert.Equal(t, "pb", params[1].Name)
}

func TestDefaultParamNameBeyondAlphabet(t *testing.T) {
	factors := make([]float64, 30)
	combos := []Combination{{ID: 1, Factors: factors}}
	params := DeriveParameters(combos, nil, nil)
	assert.Equal(t, "p27", params[26].Name)
}

func TestDeriveParametersEmptyInput(t *testing.T) {
	assert.Nil(t, DeriveParameters(nil, nil, nil))
}
