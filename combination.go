package idoe

import (
	"sort"
	"strconv"
)

// Combination is one DoE design point: a stable 1-based id and a vector of
// P real-valued factor settings. Duplicate factor vectors are allowed and
// remain distinct by id (spec.md §3, property P11).
type Combination struct {
	ID      int
	Factors []float64
}

// Parameter describes one column of the combination matrix, derived from
// the input rather than supplied directly. Units may be empty.
type Parameter struct {
	Index  int // 1-based, matches ConstraintConfig's per-parameter maps
	Name   string
	Units  string
	Values []float64 // sorted, unique values observed across all combinations
}

// DeriveParameters builds the Parameter slice for a combination matrix. When
// names/units are not known by the caller (the core payload carries none,
// per spec.md §6.3), positional defaults are used: "pa", "pb", ... "pz" for
// the first 26 parameters, then "p27", "p28", ...
func DeriveParameters(combinations []Combination, names, units []string) []Parameter {
	if len(combinations) == 0 {
		return nil
	}
	p := len(combinations[0].Factors)
	params := make([]Parameter, p)
	seen := make([]map[float64]struct{}, p)
	for j := range params {
		seen[j] = make(map[float64]struct{})
	}

	for _, c := range combinations {
		for j, val := range c.Factors {
			if j >= p {
				continue
			}
			seen[j][val] = struct{}{}
		}
	}

	for j := 0; j < p; j++ {
		name := ""
		if j < len(names) {
			name = names[j]
		}
		if name == "" {
			name = defaultParamName(j)
		}
		unit := ""
		if j < len(units) {
			unit = units[j]
		}

		values := make([]float64, 0, len(seen[j]))
		for v := range seen[j] {
			values = append(values, v)
		}
		sort.Float64s(values)

		params[j] = Parameter{Index: j + 1, Name: name, Units: unit, Values: values}
	}
	return params
}

func defaultParamName(j int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if j < len(letters) {
		return "p" + string(letters[j])
	}
	return "p" + strconv.Itoa(j+1)
}
