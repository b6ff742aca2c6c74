package idoe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchedule() *Schedule {
	return &Schedule{
		Status:             StatusOptimal,
		ObjectiveValue:      1.5,
		NumExperimentsUsed: 2,
		NumStagesUsed:      3,
		Runs: []Run{
			{ExperimentID: 1, Stages: []StageAssignment{
				{Stage: 1, Combination: 1, Factors: []float64{0.1, 10}},
				{Stage: 2, Combination: 2, Factors: []float64{0.2, 20}},
			}},
			{ExperimentID: 2, Stages: []StageAssignment{
				{Stage: 1, Combination: 3, Factors: []float64{0.3, 30}},
			}},
		},
	}
}

func TestScheduleJSONRoundTrip(t *testing.T) {
	original := sampleSchedule()
	data, err := json.Marshal(original)
	require.NoError(t, err)

	parsed, err := ParseSchedule(data)
	require.NoError(t, err)

	assert.Equal(t, original.Status, parsed.Status)
	assert.Equal(t, original.ObjectiveValue, parsed.ObjectiveValue)
	assert.Equal(t, original.NumExperimentsUsed, parsed.NumExperimentsUsed)
	assert.Equal(t, original.NumStagesUsed, parsed.NumStagesUsed)
	assert.Equal(t, original.Runs, parsed.Runs)
}

func TestScheduleJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(sampleSchedule())
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, field := range []string{"status", "objective_value", "num_experiments_used", "num_stages_used", "experiments"} {
		assert.Contains(t, raw, field)
	}

	experiments := raw["experiments"].([]interface{})
	require.Len(t, experiments, 2)
	first := experiments[0].(map[string]interface{})
	assert.Contains(t, first, "experiment_id")
	assert.Contains(t, first, "stages")

	stages := first["stages"].([]interface{})
	stage0 := stages[0].(map[string]interface{})
	for _, field := range []string{"stage", "combination", "factors"} {
		assert.Contains(t, stage0, field)
	}
}

func TestParseCombinationsRoundTrip(t *testing.T) {
	data := []byte(`[{"id":1,"factors":[0.1,10]},{"id":2,"factors":[0.2,20]}]`)
	combos, err := ParseCombinations(data)
	require.NoError(t, err)
	require.Len(t, combos, 2)
	assert.Equal(t, 1, combos[0].ID)
	assert.Equal(t, []float64{0.1, 10}, combos[0].Factors)
}

func TestParseCombinationsRejectsMalformedJSON(t *testing.T) {
	_, err := ParseCombinations([]byte(`not json`))
	require.Error(t, err)
	var ive *InputValidationError
	assert.ErrorAs(t, err, &ive)
}

func TestParseScheduleRejectsMalformedJSON(t *testing.T) {
	_, err := ParseSchedule([]byte(`{"status": `))
	require.Error(t, err)
}
