package idoe

// ConstraintConfig carries the per-constraint enable flags and parameters
// for C1-C8 (spec.md §3/§4.3). C1 (one combination per stage) is always
// active; the rest are independently togglable.
type ConstraintConfig struct {
	EnableC2 bool // unique stage-position per combination
	EnableC3 bool // bounded repetition within a run
	EnableC4 bool // global repetition cap
	EnableC5 bool // coverage
	EnableC6 bool // weighted stage-distribution target
	EnableC7 bool // bounded inter-stage transitions
	EnableC8 bool // minimum variation per run

	M3 int // C3: max occurrences of a combination within one run (default 2)
	M4 int // C4: max occurrences of a combination across all runs (default 2)

	// T6 is C6's weighted stage-distribution target, keyed by combination
	// id. A nil map (or a missing key within a non-nil map) defaults to a
	// uniform target of 1 — the core never guesses the legacy "center
	// point" convention (combinations 1-3 target 1, the rest target 2);
	// callers who want that convention build the map themselves, e.g. with
	// CenterPointT6.
	T6 map[int]int
	// StageWeights is C6's w[k], defaulting to 1 for every stage when nil.
	StageWeights map[int]float64

	// DeltaMax[p] is C7's per-parameter maximum inter-stage transition.
	DeltaMax map[int]float64
	// DeltaMin[p] is C8's per-parameter minimum required variation.
	DeltaMin map[int]float64

	// LegacyC8Encoding selects the z/q Big-M disjunctive encoding from
	// spec.md §4.3, valid only for K=3 (spec.md §9, Open Question 4/4).
	// It exists solely for bit-for-bit parity tests against that legacy
	// formulation; the default (false) uses the normalized y[i,p]
	// formulation that generalizes to arbitrary K (spec.md §9, Open
	// Question 1).
	LegacyC8Encoding bool
}

// DefaultConstraintConfig returns C2 through C7 enabled, with the defaults
// spec.md §4.3 names (m3=m4=2, uniform stage weights, a uniform T6 of 1
// applied lazily by resolveT6). C7 emits no rows until DeltaMax has
// entries. C8 is left disabled: it needs at least one DeltaMin entry, which
// only the caller can supply, so callers enable it together with DeltaMin.
func DefaultConstraintConfig() ConstraintConfig {
	return ConstraintConfig{
		EnableC2: true,
		EnableC3: true,
		EnableC4: true,
		EnableC5: true,
		EnableC6: true,
		EnableC7: true,
		M3:       2,
		M4:       2,
	}
}

func (c ConstraintConfig) stageWeight(k int) float64 {
	if c.StageWeights == nil {
		return 1
	}
	if w, ok := c.StageWeights[k]; ok {
		return w
	}
	return 1
}

// resolveT6 returns the C6 target for combination j, defaulting to a
// uniform 1 when T6 is nil or has no entry for j (spec.md §9, Open
// Question 2 — the core never infers the center-point convention).
func (c ConstraintConfig) resolveT6(j int) int {
	if v, ok := c.T6[j]; ok {
		return v
	}
	return 1
}

// CenterPointT6 builds the legacy positional T6 map some callers rely on:
// the first three combinations (by their position in the input slice, 1-
// based) target 1, the rest target 2. It is a convenience for applications
// that want that convention; the core default is uniform 1.
func CenterPointT6(numCombinations int) map[int]int {
	t6 := make(map[int]int, numCombinations)
	for j := 1; j <= numCombinations; j++ {
		if j <= 3 {
			t6[j] = 1
		} else {
			t6[j] = 2
		}
	}
	return t6
}
