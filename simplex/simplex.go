package simplex

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"q.log/boundsimplex/basis"
	"q.log/boundsimplex/model"
)

// ratios closer than this are ties in the ratio test
const ratioTol = 1e-10

// Result is the outcome of a solve. Values are those of the last basis
// and are meaningful as a solution only when Status is Optimal, or when
// Feasible is set.
type Result struct {
	Status     Status
	Phase      Phase
	Iterations int

	//Feasible the last basis satisfies every bound within tolerance
	Feasible bool

	Objective float64

	RowValues []float64
	ColValues []float64

	//RowDuals, ColDuals reduced costs in the sense of the objective direction
	RowDuals []float64
	ColDuals []float64

	//Statuses basis status of rows then columns, usable as a warm start
	Statuses []basis.Status
}

type solver struct {
	p    *model.Problem
	opts Options
	log  Logger
	b    *basis.Basis

	m, n         int
	lower, upper []float64

	//cost phase 2 costs, negated when maximizing
	cost []float64

	x     []float64
	phase Phase
	iter  int

	degenerate int
	bland      bool
}

// Solve runs the two-phase bounded primal simplex method on p. When warm
// holds the statuses of a previous solve of p they are used as starting
// basis, otherwise every row starts basic. p must not change while Solve
// runs.
func Solve(p *model.Problem, warm []basis.Status, opts ...Option) *Result {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = noopLogger{}
	}

	s := newSolver(p, warm, o)
	status := s.run()
	return s.result(status)
}

func newSolver(p *model.Problem, warm []basis.Status, o Options) *solver {
	s := &solver{
		p:     p,
		opts:  o,
		log:   o.Logger,
		m:     p.NumRows(),
		n:     p.NumCols(),
		bland: o.BlandAfter <= 0,
	}
	s.lower, s.upper = p.Bounds()

	sign := 1.0
	if p.Direction() == model.Maximize {
		sign = -1
	}
	s.cost = make([]float64, s.m+s.n)
	for j := 0; j < s.n; j++ {
		s.cost[s.m+j] = sign * p.C[j+1]
	}

	if warm != nil {
		b, err := basis.Restore(p, warm, o.basis())
		if err == nil {
			s.b = b
		} else {
			s.log.Printf("warm start rejected, using standard basis: %v", err)
		}
	}
	if s.b == nil {
		s.b = basis.Standard(p, o.basis())
	}
	return s
}

func (s *solver) run() Status {
	limit := s.opts.iterationLimit(s.m + s.n)
	if s.opts.Verbose {
		s.log.Printf("%s: %d rows, %d columns, %s, iteration limit %d", s.p.Name(), s.m, s.n, s.p.Direction(), limit)
		s.log.Printf("%s", s.b.Format())
	}

	for {
		s.x = s.b.Values()
		sumInf, cost := s.infeasibility()
		if sumInf > 0 {
			s.phase = Phase1Feasibility
		} else {
			s.phase = Phase2Optimizing
			cost = s.cost
		}
		if s.opts.Verbose {
			s.log.Printf("%6d: %s obj = %.9g inf = %.3g", s.iter, s.phase, s.objective(s.x), sumInf)
		}

		d := s.b.ReducedCosts(cost)
		if status := s.step(d, limit); status.Terminal() {
			if s.opts.Verbose {
				s.log.Printf("%6d: %s", s.iter, status)
			}
			return status
		}
	}
}

// infeasibility returns the sum of bound violations of the basic
// variables and the phase 1 cost vector penalizing them.
func (s *solver) infeasibility() (float64, []float64) {
	tol := s.opts.FeasibilityTolerance
	var sum float64
	var cost []float64
	for _, k := range s.b.Head() {
		c := 0.0
		switch {
		case s.x[k] < s.lower[k]-tol:
			sum += s.lower[k] - s.x[k]
			c = -1
		case s.x[k] > s.upper[k]+tol:
			sum += s.x[k] - s.upper[k]
			c = 1
		default:
			continue
		}
		if cost == nil {
			cost = make([]float64, s.m+s.n)
		}
		cost[k] = c
	}
	return sum, cost
}

// step performs one iteration. It returns Unsolved while the method
// continues, and the final status once it stops.
func (s *solver) step(d []float64, limit int) Status {
	rejected := map[int]bool{}
	for {
		q, dir := s.chooseEntering(d, rejected)
		if q < 0 {
			switch {
			case len(rejected) > 0:
				s.log.Printf("no valid pivot among %d candidates", len(rejected))
				return IterationLimitExceeded
			case s.phase == Phase1Feasibility:
				return Infeasible
			}
			return Optimal
		}
		if s.iter >= limit {
			return IterationLimitExceeded
		}

		alpha := s.b.FTRAN(q)
		r, t, leave, flip := s.ratioTest(q, dir, alpha)
		switch {
		case flip:
			to := basis.AtUpper
			if dir < 0 {
				to = basis.AtLower
			}
			if err := s.b.SetStatus(q, to); err != nil {
				s.log.Printf("bound flip of %s: %v", s.varName(q), err)
				rejected[q] = true
				continue
			}
			if s.opts.Verbose {
				s.log.Printf("%6d: %s flips to %v", s.iter, s.varName(q), to)
			}
		case r < 0:
			if s.phase == Phase2Optimizing {
				if s.opts.Verbose {
					s.log.Printf("%6d: %s has an unbounded ray", s.iter, s.varName(q))
				}
				return Unbounded
			}
			rejected[q] = true
			continue
		default:
			out := s.b.Head()[r]
			if err := s.b.Pivot(q, r, leave); err != nil {
				if !errors.Is(err, basis.ErrSingularPivot) {
					s.log.Printf("pivot %s -> %s: %v", s.varName(out), s.varName(q), err)
				}
				rejected[q] = true
				continue
			}
			if s.opts.Verbose {
				s.log.Printf("%6d: %s enters, %s leaves at %v, step %.3g", s.iter, s.varName(q), s.varName(out), leave, t)
			}
		}

		s.iter++
		s.track(t)
		return Unsolved
	}
}

// chooseEntering picks a nonbasic variable whose reduced cost improves the
// objective and the direction it moves in. It returns -1 when there is
// none.
func (s *solver) chooseEntering(d []float64, rejected map[int]bool) (int, float64) {
	tol := s.opts.OptimalityTolerance
	best, dir, score := -1, 0.0, 0.0
	for k := 0; k < s.b.NumVars(); k++ {
		st := s.b.Status(k)
		if st == basis.Basic || st == basis.AtFixed || rejected[k] || s.lower[k] == s.upper[k] {
			continue
		}
		var kdir float64
		switch {
		case d[k] < -tol && (st == basis.AtLower || st == basis.FreeZero):
			kdir = 1
		case d[k] > tol && (st == basis.AtUpper || st == basis.FreeZero):
			kdir = -1
		default:
			continue
		}
		if s.bland {
			return k, kdir
		}
		if a := math.Abs(d[k]); a > score {
			best, dir, score = k, kdir, a
		}
	}
	return best, dir
}

// ratioTest finds how far the entering variable q can move in direction
// dir. It returns the basis position of the blocking variable and the
// status it leaves with, or flip when q reaches its opposite bound first.
// r is -1 and flip false when nothing blocks.
func (s *solver) ratioTest(q int, dir float64, alpha []float64) (r int, t float64, leave basis.Status, flip bool) {
	tol := s.opts.FeasibilityTolerance
	head := s.b.Head()
	r, t = -1, math.Inf(1)
	for i, k := range head {
		if math.Abs(alpha[i]) < s.opts.PivotTolerance {
			continue
		}
		// rate of change of basic variable k per unit step
		g := -dir * alpha[i]
		xk, l, u := s.x[k], s.lower[k], s.upper[k]

		var ti float64
		var st basis.Status
		switch {
		case s.phase == Phase1Feasibility && xk < l-tol:
			if g < 0 {
				continue
			}
			ti, st = (l-xk)/g, basis.AtLower
		case s.phase == Phase1Feasibility && xk > u+tol:
			if g > 0 {
				continue
			}
			ti, st = (u-xk)/g, basis.AtUpper
		case g > 0:
			if math.IsInf(u, 1) {
				continue
			}
			ti, st = (u-xk)/g, basis.AtUpper
		default:
			if math.IsInf(l, -1) {
				continue
			}
			ti, st = (l-xk)/g, basis.AtLower
		}
		if ti < 0 {
			ti = 0
		}
		if s.p.StdBound(k).Type() == model.FX {
			st = basis.AtFixed
		}

		switch {
		case r < 0, ti < t-ratioTol:
		case ti <= t+ratioTol && s.bland && k < head[r]:
		default:
			continue
		}
		r, t, leave = i, math.Min(t, ti), st
	}

	l, u := s.lower[q], s.upper[q]
	if !math.IsInf(l, -1) && !math.IsInf(u, 1) && u-l <= t {
		return -1, u - l, 0, true
	}
	return r, t, leave, false
}

func (s *solver) track(t float64) {
	if s.opts.BlandAfter <= 0 {
		return
	}
	if t > s.opts.FeasibilityTolerance {
		s.degenerate = 0
		s.bland = false
		return
	}
	s.degenerate++
	if !s.bland && s.degenerate >= s.opts.BlandAfter {
		s.log.Printf("%d consecutive degenerate pivots, switching to Bland's rule", s.degenerate)
		s.bland = true
	}
}

func (s *solver) objective(x []float64) float64 {
	return s.p.C[0] + floats.Dot(s.p.C[1:], x[s.m:])
}

func (s *solver) varName(k int) string {
	kind, i := model.Row, k+1
	if k >= s.m {
		kind, i = model.Column, k-s.m+1
	}
	if name, _ := s.p.VarName(kind, i); name != "" {
		return name
	}
	if kind == model.Row {
		return "r" + strconv.Itoa(i)
	}
	return "x" + strconv.Itoa(i)
}

func (s *solver) result(status Status) *Result {
	s.x = s.b.Values()
	sumInf, _ := s.infeasibility()
	res := &Result{
		Status:     status,
		Phase:      s.phase,
		Iterations: s.iter,
		Feasible:   sumInf == 0,
		Objective:  s.objective(s.x),
		RowValues:  append([]float64(nil), s.x[:s.m]...),
		ColValues:  append([]float64(nil), s.x[s.m:]...),
		Statuses:   s.b.Statuses(),
	}

	d := s.b.ReducedCosts(s.cost)
	if s.p.Direction() == model.Maximize {
		floats.Scale(-1, d)
	}
	res.RowDuals = d[:s.m]
	res.ColDuals = d[s.m:]
	return res
}
