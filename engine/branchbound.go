package engine

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
)

const intTol = 1e-6

// SolveConfig carries the knobs the caller controls that are not part of the
// mathematical model itself: concurrency and (via ctx) the time budget.
type SolveConfig struct {
	// Workers bounds how many independent subtrees of the branch-and-bound
	// search run concurrently. 0 or 1 means sequential depth-first search.
	Workers int
}

// Solve runs branch-and-bound over the integer/binary variables, using
// repeated LP relaxations as the bounding function. ctx's deadline is the
// time budget (spec.md §4.4's time_limit_s); cancelling it produces
// StatusTimeLimit (no incumbent) or StatusFeasible (incumbent found, but
// optimality unproven) rather than an error, per spec.md §7's propagation
// policy: only malformed input is a Go error.
func (m *Model) Solve(ctx context.Context, cfg SolveConfig) (*Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	root, err := m.solveRelaxation(nil)
	if err != nil {
		return nil, err
	}
	if !root.feasible {
		return &Result{status: StatusInfeasible}, nil
	}
	if root.unbounded {
		return &Result{status: StatusUnbounded}, nil
	}

	integerIdx := m.integerVarIndices()

	search := &bbSearch{
		m:           m,
		integerIdx:  integerIdx,
		ctx:         ctx,
		nodesVisited: new(int64),
	}

	if leafVals, ok := search.integerFeasible(root.values); ok {
		return search.resultFrom(leafVals, false), nil
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	frontier := search.buildFrontier(workers)
	if len(frontier) == 0 {
		// the whole tree was resolved, or the budget ran out, while building
		// the frontier.
		return search.finalResult(), nil
	}

	p := newPool(workers)
	p.run(len(frontier), func(i int) {
		search.dfs(frontier[i])
	})

	return search.finalResult(), nil
}

func (m *Model) integerVarIndices() []int {
	var out []int
	for i, v := range m.vars {
		if v.kind != Continuous {
			out = append(out, i)
		}
	}
	return out
}

// bbSearch holds the mutable state shared across one Solve call's
// branch-and-bound tree: the incumbent, whether the budget ran out, and how
// many nodes were visited (diagnostic only).
type bbSearch struct {
	m          *Model
	integerIdx []int
	ctx        context.Context

	mu        sync.Mutex
	incumbent []float64
	incObj    float64
	haveInc   bool

	timedOut     int32
	nodesVisited *int64
}

// mostFractional returns the integer-constrained variable whose relaxed
// value is furthest from an integer, and whether any such variable exists.
// This is the branching heuristic GoMILP (other_examples) calls maxFun;
// we use the simpler, equally standard "most fractional" rule.
func (s *bbSearch) mostFractional(values []float64) (idx int, frac float64, ok bool) {
	best := -1
	bestDist := -1.0
	for _, i := range s.integerIdx {
		v := values[i]
		nearest := math.Round(v)
		dist := math.Abs(v - nearest)
		if dist <= intTol {
			continue
		}
		distFromHalf := math.Abs(dist - 0.5)
		if best == -1 || distFromHalf < bestDist {
			best = i
			bestDist = distFromHalf
		}
	}
	if best == -1 {
		return 0, 0, false
	}
	return best, values[best], true
}

func (s *bbSearch) integerFeasible(values []float64) ([]float64, bool) {
	_, _, fractional := s.mostFractional(values)
	return values, !fractional
}

func (s *bbSearch) objective(values []float64) float64 {
	sign := 1.0
	if s.m.direction == Maximize {
		sign = -1.0
	}
	obj := 0.0
	for i, v := range s.m.vars {
		obj += sign * v.coef * values[i]
	}
	return obj
}

// considerIncumbent updates the shared incumbent if values is better
// (lower objective, since the engine always minimizes internally).
func (s *bbSearch) considerIncumbent(values []float64) {
	obj := s.objective(values)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.haveInc || obj < s.incObj-intTol {
		s.haveInc = true
		s.incObj = obj
		s.incumbent = append([]float64(nil), values...)
	}
}

func (s *bbSearch) incumbentBound() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incObj, s.haveInc
}

// buildFrontier runs a breadth-first expansion of the tree until it has at
// least `want` open nodes to hand to the worker pool (or exhausts the tree
// first, updating the incumbent along the way as leaves are found).
func (s *bbSearch) buildFrontier(want int) []bounds {
	queue := []bounds{{}}
	var frontier []bounds

	for len(queue) > 0 && len(frontier)+len(queue) < want*4 {
		node := queue[0]
		queue = queue[1:]

		if s.ctx.Err() != nil {
			atomic.StoreInt32(&s.timedOut, 1)
			return frontier
		}

		left, right, isLeaf, leafValues, feasible := s.expand(node)
		atomic.AddInt64(s.nodesVisited, 1)
		if !feasible {
			continue
		}
		if isLeaf {
			s.considerIncumbent(leafValues)
			continue
		}
		queue = append(queue, left, right)

		if len(queue) >= want {
			break
		}
	}

	frontier = append(frontier, queue...)
	return frontier
}

// expand solves one node's relaxation and either reports it as a leaf
// (integer-feasible or pruned) or returns its two children.
func (s *bbSearch) expand(node bounds) (left, right bounds, isLeaf bool, leafValues []float64, feasible bool) {
	relax, err := s.m.solveRelaxation(node)
	if err != nil || !relax.feasible || relax.unbounded {
		return nil, nil, false, nil, false
	}
	if incObj, have := s.incumbentBound(); have && relax.objective >= incObj-intTol {
		return nil, nil, false, nil, false // bound-pruned
	}

	idx, val, fractional := s.mostFractional(relax.values)
	if !fractional {
		return nil, nil, true, relax.values, true
	}

	left = node.clone()
	left[idx] = [2]float64{boundsLower(node, s.m.vars[idx]), math.Floor(val)}
	right = node.clone()
	right[idx] = [2]float64{math.Ceil(val), boundsUpper(node, s.m.vars[idx])}
	return left, right, false, nil, true
}

func boundsLower(b bounds, v *Variable) float64 { lo, _ := b.of(v); return lo }
func boundsUpper(b bounds, v *Variable) float64 { _, hi := b.of(v); return hi }

func (b bounds) clone() bounds {
	out := make(bounds, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	return out
}

// dfs exhausts one subtree sequentially using an explicit stack.
func (s *bbSearch) dfs(root bounds) {
	stack := []bounds{root}
	for len(stack) > 0 {
		if s.ctx.Err() != nil {
			atomic.StoreInt32(&s.timedOut, 1)
			return
		}

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		left, right, isLeaf, leafValues, feasible := s.expand(node)
		atomic.AddInt64(s.nodesVisited, 1)
		if !feasible {
			continue
		}
		if isLeaf {
			s.considerIncumbent(leafValues)
			continue
		}
		stack = append(stack, left, right)
	}
}

func (s *bbSearch) finalResult() *Result {
	timedOut := atomic.LoadInt32(&s.timedOut) == 1
	if !s.haveInc {
		if timedOut {
			return &Result{status: StatusTimeLimit, nodes: int(*s.nodesVisited)}
		}
		return &Result{status: StatusInfeasible, nodes: int(*s.nodesVisited)}
	}
	return s.resultFrom(s.incumbent, timedOut)
}

func (s *bbSearch) resultFrom(values []float64, timedOut bool) *Result {
	sign := 1.0
	if s.m.direction == Maximize {
		sign = -1.0
	}
	status := StatusOptimal
	if timedOut {
		status = StatusFeasible
	}
	return &Result{
		status:    status,
		objective: sign * s.objective(values),
		values:    append([]float64(nil), values...),
		nodes:     int(*s.nodesVisited),
	}
}
