/*
Package lp builds and solves linear programs with bounded rows and
columns:

	Minimize (or Maximize): shift + c'x
	Subject to:             x_r = A·x
	And:                    l_r ≤ x_r ≤ u_r,  l ≤ x ≤ u

Rows and columns are numbered from 1. A Problem is created empty, rows
and columns are appended, bounds, objective coefficients and the
constraint matrix are set, and Solve runs a two-phase bounded primal
simplex method on it:

	p := lp.New("example")
	p.SetDirection(lp.Maximize)
	p.AddRows(2)
	p.AddCols(2)
	p.SetRowBound(1, lp.UpperOnly(4))
	p.SetRowBound(2, lp.UpperOnly(6))
	p.SetColBound(1, lp.LowerOnly(0))
	p.SetColBound(2, lp.LowerOnly(0))
	p.SetObjCoef(1, 3)
	p.SetObjCoef(2, 2)
	p.LoadDenseMatrix([][]float64{{1, 1}, {1, 3}})

	if p.Solve() == lp.Optimal {
		x1, _ := p.PrimalValue(1)
		fmt.Println(p.ObjectiveValue(), x1)
	}

A Problem must be owned by a single goroutine; independent problems can
be solved concurrently.
*/
package lp

import (
	"github.com/pkg/errors"
	"q.log/boundsimplex/basis"
	"q.log/boundsimplex/model"
	"q.log/boundsimplex/simplex"
)

type (
	Bound       = model.Bound
	Direction   = model.Direction
	Entry       = model.Entry
	Status      = simplex.Status
	BasisStatus = basis.Status
	Option      = simplex.Option
	Logger      = simplex.Logger
)

const (
	Minimize = model.Minimize
	Maximize = model.Maximize

	Unsolved               = simplex.Unsolved
	Optimal                = simplex.Optimal
	Unbounded              = simplex.Unbounded
	Infeasible             = simplex.Infeasible
	IterationLimitExceeded = simplex.IterationLimitExceeded
)

var (
	Free      = model.Free
	Fixed     = model.Fixed
	LowerOnly = model.LowerOnly
	UpperOnly = model.UpperOnly
	Range     = model.Range

	WithLogger               = simplex.WithLogger
	WithVerbose              = simplex.WithVerbose
	WithIterationLimit       = simplex.WithIterationLimit
	WithRefactorEvery        = simplex.WithRefactorEvery
	WithBlandAfter           = simplex.WithBlandAfter
	WithPivotTolerance       = simplex.WithPivotTolerance
	WithFeasibilityTolerance = simplex.WithFeasibilityTolerance
	WithOptimalityTolerance  = simplex.WithOptimalityTolerance

	ErrInvalidArgument = model.ErrInvalidArgument
	ErrIndexOutOfRange = model.ErrIndexOutOfRange

	//ErrNotSolved the problem has no solution to read
	ErrNotSolved = errors.New("problem has no solution")
)

type Problem struct {
	prob *model.Problem
	opts []Option

	result *simplex.Result

	//revision, structure problem revisions the result was computed at
	revision  uint64
	structure uint64
}

// New returns an empty minimization problem. Options apply to every
// Solve of the problem.
func New(name string, opts ...Option) *Problem {
	return &Problem{
		prob: model.New(name),
		opts: opts,
	}
}

func (p *Problem) Name() string { return p.prob.Name() }
func (p *Problem) SetName(name string) error { return p.prob.SetName(name) }
func (p *Problem) Direction() Direction { return p.prob.Direction() }
func (p *Problem) SetDirection(dir Direction) { p.prob.SetDirection(dir) }
func (p *Problem) NumRows() int { return p.prob.NumRows() }
func (p *Problem) NumCols() int { return p.prob.NumCols() }
func (p *Problem) AddRows(n int) (int, error) { return p.prob.AddRows(n) }
func (p *Problem) AddCols(n int) (int, error) { return p.prob.AddCols(n) }
func (p *Problem) Triples() []Entry { return p.prob.Triples() }
func (p *Problem) ObjCoef(j int) (float64, error) { return p.prob.ObjCoef(j) }

func (p *Problem) SetRowName(i int, name string) error {
	return p.prob.SetVarName(model.Row, i, name)
}

func (p *Problem) SetColName(j int, name string) error {
	return p.prob.SetVarName(model.Column, j, name)
}

func (p *Problem) RowName(i int) (string, error) {
	return p.prob.VarName(model.Row, i)
}

func (p *Problem) ColName(j int) (string, error) {
	return p.prob.VarName(model.Column, j)
}

// FindRow returns the index of the row named name
func (p *Problem) FindRow(name string) (int, bool) {
	return p.prob.Find(model.Row, name)
}

// FindCol returns the index of the column named name
func (p *Problem) FindCol(name string) (int, bool) {
	return p.prob.Find(model.Column, name)
}

func (p *Problem) SetRowBound(i int, b Bound) error {
	return p.prob.SetBound(model.Row, i, b)
}

func (p *Problem) SetColBound(j int, b Bound) error {
	return p.prob.SetBound(model.Column, j, b)
}

func (p *Problem) RowBound(i int) (Bound, error) {
	return p.prob.VarBound(model.Row, i)
}

func (p *Problem) ColBound(j int) (Bound, error) {
	return p.prob.VarBound(model.Column, j)
}

// SetObjCoef sets the objective coefficient of column j, j = 0 sets the
// constant shift.
func (p *Problem) SetObjCoef(j int, coef float64) error {
	return p.prob.SetObjCoef(j, coef)
}

// LoadMatrix replaces the constraint matrix with the triples
// (ia[k], ja[k], ar[k]).
func (p *Problem) LoadMatrix(ia, ja []int, ar []float64) error {
	return p.prob.LoadMatrix(ia, ja, ar)
}

// MatRow returns the nonzeros of row i as column indices and values
func (p *Problem) MatRow(i int) ([]int, []float64, error) {
	return p.prob.MatRow(i)
}

// MatCol returns the nonzeros of column j as row indices and values
func (p *Problem) MatCol(j int) ([]int, []float64, error) {
	return p.prob.MatCol(j)
}

// LoadDenseMatrix replaces the constraint matrix, rows[i][j] being the
// coefficient of row i+1 and column j+1.
func (p *Problem) LoadDenseMatrix(rows [][]float64) error {
	return p.prob.LoadDenseMatrix(rows)
}
