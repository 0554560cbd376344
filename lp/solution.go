package lp

import (
	"github.com/pkg/errors"
	"q.log/boundsimplex/basis"
	"q.log/boundsimplex/model"
	"q.log/boundsimplex/simplex"
)

// Solve runs the simplex method and returns the resulting status. Solving
// again without changing the problem returns the previous status. After
// changes to bounds, objective or matrix the previous basis is used as a
// starting point; adding rows or columns discards it.
func (p *Problem) Solve(opts ...Option) Status {
	if p.current() {
		return p.result.Status
	}

	var warm []basis.Status
	if p.result != nil && p.structure == p.prob.StructureRevision() {
		warm = p.result.Statuses
	}

	res := simplex.Solve(p.prob, warm, append(append([]Option(nil), p.opts...), opts...)...)
	for i, v := range p.prob.Rows {
		v.Value = res.RowValues[i]
	}
	for j, v := range p.prob.Cols {
		v.Value = res.ColValues[j]
	}

	p.result = res
	p.revision = p.prob.Revision()
	p.structure = p.prob.StructureRevision()
	return res.Status
}

// current reports whether the last solve is still valid for the problem
func (p *Problem) current() bool {
	return p.result != nil && p.revision == p.prob.Revision()
}

// Status returns the status of the last solve, or Unsolved if the problem
// changed since.
func (p *Problem) Status() Status {
	if !p.current() {
		return Unsolved
	}
	return p.result.Status
}

// Iterations returns the simplex iterations of the last solve
func (p *Problem) Iterations() int {
	if p.result == nil {
		return 0
	}
	return p.result.Iterations
}

// ObjectiveValue returns shift + Σ c_j·x_j at the column values of the last
// solve, or at zero before any solve.
func (p *Problem) ObjectiveValue() float64 {
	return p.prob.ObjectiveValue()
}

// hasSolution reports whether the last solve left primal values that can
// be read: an optimum, or a feasible point when the iteration limit hit.
func (p *Problem) hasSolution() error {
	if !p.current() {
		return errors.Wrap(ErrNotSolved, "problem not solved since last change")
	}
	switch p.result.Status {
	case Optimal:
		return nil
	case IterationLimitExceeded:
		if p.result.Feasible {
			return nil
		}
	}
	return errors.Wrapf(ErrNotSolved, "solution is %v", p.result.Status)
}

// PrimalValue returns the value of column j
func (p *Problem) PrimalValue(j int) (float64, error) {
	v, err := p.prob.Var(model.Column, j)
	if err != nil {
		return 0, err
	}
	if err := p.hasSolution(); err != nil {
		return 0, err
	}
	return v.Value, nil
}

// RowValue returns the value of the auxiliary variable of row i
func (p *Problem) RowValue(i int) (float64, error) {
	v, err := p.prob.Var(model.Row, i)
	if err != nil {
		return 0, err
	}
	if err := p.hasSolution(); err != nil {
		return 0, err
	}
	return v.Value, nil
}

// RowDual returns the dual value (reduced cost of the auxiliary variable)
// of row i.
func (p *Problem) RowDual(i int) (float64, error) {
	if _, err := p.prob.Var(model.Row, i); err != nil {
		return 0, err
	}
	if err := p.hasSolution(); err != nil {
		return 0, err
	}
	return p.result.RowDuals[i-1], nil
}

// ColDual returns the reduced cost of column j
func (p *Problem) ColDual(j int) (float64, error) {
	if _, err := p.prob.Var(model.Column, j); err != nil {
		return 0, err
	}
	if err := p.hasSolution(); err != nil {
		return 0, err
	}
	return p.result.ColDuals[j-1], nil
}

// RowStatus returns the basis status of row i after the last solve
func (p *Problem) RowStatus(i int) (BasisStatus, error) {
	return p.basisStatus(model.Row, i)
}

// ColStatus returns the basis status of column j after the last solve
func (p *Problem) ColStatus(j int) (BasisStatus, error) {
	return p.basisStatus(model.Column, j)
}

func (p *Problem) basisStatus(kind model.Kind, i int) (BasisStatus, error) {
	if _, err := p.prob.Var(kind, i); err != nil {
		return 0, err
	}
	if !p.current() {
		return 0, errors.Wrap(ErrNotSolved, "problem not solved since last change")
	}
	k := i - 1
	if kind == model.Column {
		k += p.prob.NumRows()
	}
	return p.result.Statuses[k], nil
}
