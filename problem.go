package idoe

import "fmt"

// ProblemModel is the immutable input to one Solve call: the combination
// matrix, stage/run counts, and the constraint configuration (spec.md
// §3/§4.1). It performs only static validation; logical infeasibility is
// the solver's job, not the model's.
type ProblemModel struct {
	combinations []Combination
	k            int // stages per run
	iMax         int // run upper bound
	p            int // number of parameters
	cfg          ConstraintConfig
}

// NewProblemModel validates and wraps the input. maxRuns of 0 selects the
// spec.md §4.1 default of J*K, so the model can never be starved of slots.
func NewProblemModel(combinations []Combination, numStages, maxRuns int, cfg ConstraintConfig) (*ProblemModel, error) {
	if len(combinations) == 0 {
		return nil, newInputError("at least one combination is required (J >= 1)", nil)
	}
	if numStages < 2 {
		return nil, newInputError(fmt.Sprintf("num_stages must be >= 2, got %d", numStages), nil)
	}

	p := len(combinations[0].Factors)
	if p == 0 {
		return nil, newInputError("combinations must have at least one factor (P >= 1)", nil)
	}
	seenIDs := make(map[int]struct{}, len(combinations))
	for i, c := range combinations {
		if len(c.Factors) != p {
			return nil, newInputError(fmt.Sprintf("combination %d has %d factors, want %d", i, len(c.Factors), p), nil)
		}
		if c.ID < 1 {
			return nil, newInputError(fmt.Sprintf("combination at index %d has non-positive id %d", i, c.ID), nil)
		}
		if _, dup := seenIDs[c.ID]; dup {
			return nil, newInputError(fmt.Sprintf("duplicate combination id %d", c.ID), nil)
		}
		seenIDs[c.ID] = struct{}{}
	}

	j := len(combinations)
	if maxRuns <= 0 {
		maxRuns = j * numStages
	}

	if err := validateConfig(cfg, numStages, maxRuns, j, p); err != nil {
		return nil, err
	}

	return &ProblemModel{
		combinations: combinations,
		k:            numStages,
		iMax:         maxRuns,
		p:            p,
		cfg:          cfg,
	}, nil
}

func validateConfig(cfg ConstraintConfig, k, iMax, j, p int) error {
	if cfg.EnableC3 {
		if cfg.M3 < 1 || cfg.M3 > k {
			return newInputError(fmt.Sprintf("C3: m3 must satisfy 1 <= m3 <= K(%d), got %d", k, cfg.M3), nil)
		}
	}
	if cfg.EnableC4 && cfg.M4 < 1 {
		return newInputError(fmt.Sprintf("C4: m4 must be >= 1, got %d", cfg.M4), nil)
	}
	if cfg.EnableC6 {
		upper := k * iMax
		for jj := 1; jj <= j; jj++ {
			t := cfg.resolveT6(jj)
			if t < 1 || t > upper {
				return newInputError(fmt.Sprintf("C6: t6[%d] must satisfy 1 <= t6 <= K*I_max(%d), got %d", jj, upper, t), nil)
			}
		}
	}
	for pp, d := range cfg.DeltaMax {
		if d < 0 {
			return newInputError(fmt.Sprintf("C7: delta_max[%d] must be >= 0, got %v", pp, d), nil)
		}
	}
	for pp, d := range cfg.DeltaMin {
		if d < 0 {
			return newInputError(fmt.Sprintf("C8: delta_min[%d] must be >= 0, got %v", pp, d), nil)
		}
	}
	if cfg.EnableC8 && len(cfg.DeltaMin) == 0 {
		return newInputError("C8 is enabled but delta_min has no entries; no parameter could ever witness a run's required variation", nil)
	}
	_ = p
	return nil
}

func (m *ProblemModel) J() int                    { return len(m.combinations) }
func (m *ProblemModel) K() int                    { return m.k }
func (m *ProblemModel) P() int                    { return m.p }
func (m *ProblemModel) IMax() int                 { return m.iMax }
func (m *ProblemModel) Config() ConstraintConfig  { return m.cfg }
func (m *ProblemModel) Combinations() []Combination {
	out := make([]Combination, len(m.combinations))
	copy(out, m.combinations)
	return out
}

// Factor returns c_jp (1-based j, p), spec.md §4.3's notation.
func (m *ProblemModel) Factor(j, p int) float64 {
	return m.combinations[j-1].Factors[p-1]
}

// Parameters derives the Parameter slice for this model's combination
// matrix (spec.md §3, the "Parameter" entity).
func (m *ProblemModel) Parameters() []Parameter {
	return DeriveParameters(m.combinations, nil, nil)
}
