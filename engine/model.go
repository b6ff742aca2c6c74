package engine

import (
	"fmt"
	"math"
	"sync"
)

// VariableKind mirrors the teacher library's ContinuousVariable /
// IntegerVariable / BinaryVariable trio.
type VariableKind int

const (
	Continuous VariableKind = iota
	Integer
	Binary
)

// Variable is a handle into a Model's column. Like the teacher's *Variable,
// it is only meaningful together with the Model that produced it.
type Variable struct {
	model *Model
	index int
	name  string
	kind  VariableKind
	coef  float64
	lower float64
	upper float64
}

func (v *Variable) Name() string              { return v.name }
func (v *Variable) Kind() VariableKind        { return v.kind }
func (v *Variable) Index() int                { return v.index }
func (v *Variable) Bounds() (lo, hi float64)  { return v.lower, v.upper }

// row is one constraint: lower <= sum(coef*x) <= upper.
type row struct {
	lower, upper float64
	coefs        map[int]float64 // variable index -> coefficient
	name         string
}

// Direction mirrors the teacher's Minimize/Maximize sense.
type Direction int

const (
	Minimize Direction = iota
	Maximize
)

// Model is a mutable MILP being built up one Variable and one row at a time.
// A Model is not safe for concurrent mutation, matching the teacher's
// single-writer assumption (golpa.Model documents the same restriction for
// AddVariable/AddConstraint, reserving the mutex only for read accessors).
type Model struct {
	mu        sync.RWMutex
	name      string
	direction Direction
	vars      []*Variable
	rows      []row
	logger    Logger
}

// NewModel instantiates an empty model, analogous to golpa.NewModel.
func NewModel(name string, dir Direction) *Model {
	return &Model{
		name:      name,
		direction: dir,
		logger:    NopLogger{},
	}
}

func (m *Model) SetLogger(l Logger) {
	if l != nil {
		m.logger = l
	}
}

func (m *Model) Name() string { m.mu.RLock(); defer m.mu.RUnlock(); return m.name }

func (m *Model) VariableCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vars)
}

func (m *Model) ConstraintCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

func (m *Model) Variables() []*Variable {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Variable, len(m.vars))
	copy(out, m.vars)
	return out
}

// AddVariable adds a variable with the given kind, objective coefficient and
// bounds, returning a stable handle. Empty names are replaced the same way
// the teacher does: a positional default.
func (m *Model) AddVariable(name string, kind VariableKind, coef, lower, upper float64) (*Variable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if kind == Binary {
		lower, upper = 0, 1
	}
	if lower > upper {
		return nil, fmt.Errorf("engine: variable %q has lower bound %v greater than upper bound %v", name, lower, upper)
	}

	idx := len(m.vars)
	if name == "" {
		name = fmt.Sprintf("v%d", idx)
	}

	v := &Variable{
		model: m,
		index: idx,
		name:  name,
		kind:  kind,
		coef:  coef,
		lower: lower,
		upper: upper,
	}
	m.vars = append(m.vars, v)
	return v, nil
}

// AddBinaryVariable is a convenience wrapper, as in the teacher library.
func (m *Model) AddBinaryVariable(name string) (*Variable, error) {
	return m.AddVariable(name, Binary, 0, 0, 1)
}

// SetObjectiveCoefficient updates a variable's contribution to the objective.
func (v *Variable) SetObjectiveCoefficient(coef float64) {
	v.model.mu.Lock()
	defer v.model.mu.Unlock()
	v.coef = coef
}

func (v *Variable) ObjectiveCoefficient() float64 {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()
	return v.coef
}

// AddConstraint adds lower <= sum(coefs[i]*vars[i]) <= upper to the model.
// Either bound may be +-Inf. This is the row-builder API spec.md §9 asks
// for in place of the source's operator-overloaded expression DSL.
func (m *Model) AddConstraint(lower, upper float64, vars []*Variable, coefs []float64) error {
	return m.AddNamedConstraint("", lower, upper, vars, coefs)
}

// AddNamedConstraint is AddConstraint with a stable row name, used by the
// variable registry so two runs on identical input produce byte-identical
// constraint names (spec.md §4.2).
func (m *Model) AddNamedConstraint(name string, lower, upper float64, vars []*Variable, coefs []float64) error {
	if len(vars) != len(coefs) {
		return fmt.Errorf("engine: inconsistent number of variables and coefficients: %d != %d", len(vars), len(coefs))
	}
	if math.IsInf(lower, 0) && math.IsInf(upper, 0) {
		return nil // vacuous row, nothing to encode
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	coefMap := make(map[int]float64, len(vars))
	for i, v := range vars {
		if v.model != m {
			return fmt.Errorf("engine: variable %q does not belong to this model", v.name)
		}
		coefMap[v.index] += coefs[i]
	}

	m.rows = append(m.rows, row{lower: lower, upper: upper, coefs: coefMap, name: name})
	return nil
}

// SetObjective sets the objective function directly from coefficients,
// mirroring golpa.Model.SetObjectiveFunction.
func (m *Model) SetObjective(vars []*Variable, coefs []float64) error {
	if len(vars) != len(coefs) {
		return fmt.Errorf("engine: inconsistent number of variables and coefficients: %d != %d", len(vars), len(coefs))
	}
	for i, v := range vars {
		v.SetObjectiveCoefficient(coefs[i])
	}
	return nil
}
