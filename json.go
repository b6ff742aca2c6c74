package idoe

import "encoding/json"

// wireSchedule mirrors spec.md §6.3's exact field names. It exists only as
// the marshal/unmarshal target; Schedule itself stays in Go-idiomatic
// CamelCase for the package's Go API.
type wireSchedule struct {
	Status              Status           `json:"status"`
	ObjectiveValue      float64          `json:"objective_value"`
	NumExperimentsUsed  int              `json:"num_experiments_used"`
	NumStagesUsed       int              `json:"num_stages_used"`
	Experiments         []wireExperiment `json:"experiments"`
	Diagnostics         []string         `json:"diagnostics,omitempty"`
}

type wireExperiment struct {
	ExperimentID int         `json:"experiment_id"`
	Stages       []wireStage `json:"stages"`
}

type wireStage struct {
	Stage       int       `json:"stage"`
	Combination int       `json:"combination"`
	Factors     []float64 `json:"factors"`
}

// MarshalJSON renders the schedule in spec.md §6.3's wire shape.
func (s *Schedule) MarshalJSON() ([]byte, error) {
	w := wireSchedule{
		Status:             s.Status,
		ObjectiveValue:     s.ObjectiveValue,
		NumExperimentsUsed: s.NumExperimentsUsed,
		NumStagesUsed:      s.NumStagesUsed,
		Diagnostics:        s.Diagnostics,
	}
	w.Experiments = make([]wireExperiment, len(s.Runs))
	for i, run := range s.Runs {
		stages := make([]wireStage, len(run.Stages))
		for j, st := range run.Stages {
			stages[j] = wireStage{Stage: st.Stage, Combination: st.Combination, Factors: st.Factors}
		}
		w.Experiments[i] = wireExperiment{ExperimentID: run.ExperimentID, Stages: stages}
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses spec.md §6.3's wire shape back into a Schedule,
// completing the round-trip law of spec.md §8: ParseSchedule(schedule.
// MarshalJSON()) reproduces the original Runs/Status/ObjectiveValue.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	var w wireSchedule
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.Status = w.Status
	s.ObjectiveValue = w.ObjectiveValue
	s.NumExperimentsUsed = w.NumExperimentsUsed
	s.NumStagesUsed = w.NumStagesUsed
	s.Diagnostics = w.Diagnostics
	s.Runs = make([]Run, len(w.Experiments))
	for i, exp := range w.Experiments {
		stages := make([]StageAssignment, len(exp.Stages))
		for j, st := range exp.Stages {
			stages[j] = StageAssignment{Stage: st.Stage, Combination: st.Combination, Factors: st.Factors}
		}
		s.Runs[i] = Run{ExperimentID: exp.ExperimentID, Stages: stages}
	}
	return nil
}

// ParseSchedule parses spec.md §6.3's JSON wire shape into a Schedule.
func ParseSchedule(data []byte) (*Schedule, error) {
	var s Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, newInputError("malformed schedule JSON", err)
	}
	return &s, nil
}

// wireCombination is the input-side counterpart of wireStage: the raw
// combination matrix a caller feeds to Solve (spec.md §6.3's input half).
type wireCombination struct {
	ID      int       `json:"id"`
	Factors []float64 `json:"factors"`
}

// ParseCombinations decodes the input combination matrix (a JSON array of
// {"id": ..., "factors": [...]}), the payload the cmd/idoe CLI reads from
// --combinations.
func ParseCombinations(data []byte) ([]Combination, error) {
	var wire []wireCombination
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, newInputError("malformed combinations JSON", err)
	}
	out := make([]Combination, len(wire))
	for i, w := range wire {
		out[i] = Combination{ID: w.ID, Factors: w.Factors}
	}
	return out, nil
}
