package basis

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/boundsimplex/model"
)

// Status is the position of a variable with respect to the basis
type Status int

const (
	Basic Status = iota
	AtLower
	AtUpper
	FreeZero
	AtFixed
)

func (s Status) String() string {
	switch s {
	case Basic:
		return "B"
	case AtLower:
		return "NL"
	case AtUpper:
		return "NU"
	case FreeZero:
		return "NF"
	case AtFixed:
		return "NS"
	}
	return "?"
}

var (
	//ErrSingularPivot the pivot would leave the basis matrix singular
	ErrSingularPivot = errors.New("singular pivot")

	//ErrBadBasis a status vector does not describe a basis of the problem
	ErrBadBasis = errors.New("invalid basis")
)

const (
	DefaultPivotTolerance = 1e-9
	DefaultRefactorEvery  = 100

	// basis matrices with a larger condition number are treated as singular
	condLimit = 1e14
)

type Options struct {
	//PivotTolerance smallest pivot magnitude accepted
	PivotTolerance float64

	//RefactorEvery number of pivots between full refactorizations
	RefactorEvery int
}

func DefaultOptions() Options {
	return Options{
		PivotTolerance: DefaultPivotTolerance,
		RefactorEvery:  DefaultRefactorEvery,
	}
}

// Basis partitions the variables of the bounded standard form of a
// problem into m basic and n nonbasic variables and keeps the inverse of
// the basis matrix. Variables 0..m-1 are rows, m..m+n-1 are columns, and
// the constraint system is [I | -A] x = 0.
type Basis struct {
	p    *model.Problem
	m, n int
	opts Options

	//head[i] variable basic in position i
	head []int

	//pos[k] position of variable k in head, -1 when nonbasic
	pos []int

	status []Status

	//inv basis matrix inverse, nil when there are no rows
	inv *mat.Dense

	pivots int
	total  int
}

// Pin returns the nonbasic status of a variable with bound b, placing it
// at the finite bound nearest to zero.
func Pin(b model.Bound) Status {
	switch b.Type() {
	case model.FX:
		return AtFixed
	case model.LO:
		return AtLower
	case model.UP:
		return AtUpper
	case model.DB:
		l, _ := b.Lower()
		if b.Nearest() == l {
			return AtLower
		}
		return AtUpper
	}
	return FreeZero
}

func newBasis(p *model.Problem, opts Options) *Basis {
	if opts.PivotTolerance <= 0 {
		opts.PivotTolerance = DefaultPivotTolerance
	}
	if opts.RefactorEvery <= 0 {
		opts.RefactorEvery = DefaultRefactorEvery
	}
	m, n := p.NumRows(), p.NumCols()
	return &Basis{
		p:      p,
		m:      m,
		n:      n,
		opts:   opts,
		head:   make([]int, m),
		pos:    make([]int, m+n),
		status: make([]Status, m+n),
	}
}

// Standard returns the basis made of all rows, with every column pinned
// to its bound nearest to zero.
func Standard(p *model.Problem, opts Options) *Basis {
	b := newBasis(p, opts)
	for i := 0; i < b.m; i++ {
		b.head[i] = i
		b.pos[i] = i
		b.status[i] = Basic
	}
	for k := b.m; k < b.m+b.n; k++ {
		b.pos[k] = -1
		b.status[k] = Pin(p.StdBound(k))
	}
	if b.m > 0 {
		ones := make([]float64, b.m)
		for i := range ones {
			ones[i] = 1
		}
		b.inv = mat.NewDense(b.m, b.m, nil)
		b.inv.Copy(mat.NewDiagDense(b.m, ones))
	}
	return b
}

// Restore rebuilds a basis from a status vector of a previous solve of
// the same problem. Nonbasic statuses that no longer fit the current
// bounds are pinned again.
func Restore(p *model.Problem, statuses []Status, opts Options) (*Basis, error) {
	b := newBasis(p, opts)
	if len(statuses) != b.m+b.n {
		return nil, errors.Wrapf(ErrBadBasis, "have %d statuses for %d variables", len(statuses), b.m+b.n)
	}
	i := 0
	for k, s := range statuses {
		b.pos[k] = -1
		if s == Basic {
			if i == b.m {
				return nil, errors.Wrapf(ErrBadBasis, "more than %d basic variables", b.m)
			}
			b.head[i] = k
			b.pos[k] = i
			b.status[k] = Basic
			i++
			continue
		}
		b.status[k] = fit(s, p.StdBound(k))
	}
	if i != b.m {
		return nil, errors.Wrapf(ErrBadBasis, "%d basic variables for %d rows", i, b.m)
	}
	if err := b.Refactor(); err != nil {
		return nil, err
	}
	return b, nil
}

func fit(s Status, bd model.Bound) Status {
	switch bd.Type() {
	case model.FX:
		return AtFixed
	case model.FR:
		return FreeZero
	case model.LO:
		if s == AtLower {
			return s
		}
	case model.UP:
		if s == AtUpper {
			return s
		}
	case model.DB:
		if s == AtLower || s == AtUpper {
			return s
		}
	}
	return Pin(bd)
}

// NumVars returns the number of rows plus columns
func (b *Basis) NumVars() int {
	return b.m + b.n
}

// Head returns the variables in basis order
func (b *Basis) Head() []int {
	return append([]int(nil), b.head...)
}

func (b *Basis) Statuses() []Status {
	return append([]Status(nil), b.status...)
}

func (b *Basis) Status(k int) Status {
	return b.status[k]
}

// Position returns the basis position of variable k, or -1
func (b *Basis) Position(k int) int {
	return b.pos[k]
}

// Pivots returns the number of pivots since the basis was built
func (b *Basis) Pivots() int {
	return b.total
}

// Inverse returns a copy of the basis matrix inverse
func (b *Basis) Inverse() *mat.Dense {
	if b.inv == nil {
		return nil
	}
	return mat.DenseCopyOf(b.inv)
}

// NonbasicValue returns the value variable k takes while nonbasic
func (b *Basis) NonbasicValue(k int) float64 {
	bd := b.p.StdBound(k)
	switch b.status[k] {
	case AtLower, AtFixed:
		v, _ := bd.Lower()
		return v
	case AtUpper:
		v, _ := bd.Upper()
		return v
	}
	return 0
}

// Values returns the primal values of all variables at the current basis
func (b *Basis) Values() []float64 {
	x := make([]float64, b.m+b.n)
	rhs := make([]float64, b.m)
	for k := 0; k < b.m+b.n; k++ {
		if b.status[k] == Basic {
			continue
		}
		x[k] = b.NonbasicValue(k)
		if x[k] == 0 {
			continue
		}
		col := b.p.StdColumn(k)
		for t, i := range col.Index {
			rhs[i] -= col.Value[t] * x[k]
		}
	}
	xb := b.solve(rhs)
	for i, k := range b.head {
		x[k] = xb[i]
	}
	return x
}

// solve returns inv*v
func (b *Basis) solve(v []float64) []float64 {
	out := make([]float64, b.m)
	for i := 0; i < b.m; i++ {
		out[i] = floats.Dot(b.inv.RawRowView(i), v)
	}
	return out
}

// FTRAN returns the column of variable k in terms of the current basis,
// i.e. the solution of B*alpha = a_k.
func (b *Basis) FTRAN(k int) []float64 {
	alpha := make([]float64, b.m)
	col := b.p.StdColumn(k)
	for t, r := range col.Index {
		v := col.Value[t]
		for i := 0; i < b.m; i++ {
			alpha[i] += b.inv.At(i, r) * v
		}
	}
	return alpha
}

// BTRAN returns the simplex multipliers pi solving B'*pi = cB
func (b *Basis) BTRAN(cB []float64) []float64 {
	pi := make([]float64, b.m)
	for i, c := range cB {
		if c == 0 {
			continue
		}
		floats.AddScaled(pi, c, b.inv.RawRowView(i))
	}
	return pi
}

// ReducedCosts returns d_k = cost_k - pi'a_k for every variable, zero for
// basic ones. Under minimization a negative value for a variable at its
// lower bound is an improving direction.
func (b *Basis) ReducedCosts(cost []float64) []float64 {
	cB := make([]float64, b.m)
	for i, k := range b.head {
		cB[i] = cost[k]
	}
	pi := b.BTRAN(cB)
	d := make([]float64, b.m+b.n)
	for k := 0; k < b.m+b.n; k++ {
		if b.status[k] == Basic {
			continue
		}
		col := b.p.StdColumn(k)
		dk := cost[k]
		for t, i := range col.Index {
			dk -= pi[i] * col.Value[t]
		}
		d[k] = dk
	}
	return d
}

// SetStatus moves nonbasic variable k to another bound
func (b *Basis) SetStatus(k int, s Status) error {
	if b.status[k] == Basic || s == Basic {
		return errors.Wrapf(ErrBadBasis, "cannot change status of variable %d from %v to %v", k, b.status[k], s)
	}
	b.status[k] = s
	return nil
}

// Pivot makes variable entering basic in place of the variable at basis
// position leaving, which becomes nonbasic with status s. The basis is
// left unchanged when an error is returned.
func (b *Basis) Pivot(entering, leaving int, s Status) error {
	if entering < 0 || entering >= b.m+b.n || b.status[entering] == Basic {
		return errors.Wrapf(ErrBadBasis, "variable %d cannot enter the basis", entering)
	}
	if leaving < 0 || leaving >= b.m {
		return errors.Wrapf(ErrBadBasis, "basis position %d out of range", leaving)
	}
	if s == Basic {
		return errors.Wrap(ErrBadBasis, "leaving variable must become nonbasic")
	}

	alpha := b.FTRAN(entering)
	if math.Abs(alpha[leaving]) < b.opts.PivotTolerance {
		return errors.Wrapf(ErrSingularPivot, "pivot element %g for variable %d at position %d", alpha[leaving], entering, leaving)
	}

	out := b.head[leaving]
	if b.pivots+1 >= b.opts.RefactorEvery {
		head := b.Head()
		head[leaving] = entering
		inv, err := b.factor(head)
		if err != nil {
			return err
		}
		b.inv = inv
		b.pivots = 0
	} else {
		b.update(alpha, leaving)
		b.pivots++
	}
	b.total++

	b.head[leaving] = entering
	b.pos[entering] = leaving
	b.status[entering] = Basic
	b.pos[out] = -1
	b.status[out] = s
	return nil
}

// update applies the elementary transformation of a pivot on alpha[r] to
// the inverse.
func (b *Basis) update(alpha []float64, r int) {
	pivotRow := b.inv.RawRowView(r)
	floats.Scale(1/alpha[r], pivotRow)
	for i := 0; i < b.m; i++ {
		if i == r || alpha[i] == 0 {
			continue
		}
		floats.AddScaled(b.inv.RawRowView(i), -alpha[i], pivotRow)
	}
}

// Refactor recomputes the inverse from the original matrix
func (b *Basis) Refactor() error {
	inv, err := b.factor(b.head)
	if err != nil {
		return err
	}
	b.inv = inv
	b.pivots = 0
	return nil
}

func (b *Basis) factor(head []int) (*mat.Dense, error) {
	if b.m == 0 {
		return nil, nil
	}
	bm := mat.NewDense(b.m, b.m, nil)
	for i, k := range head {
		col := b.p.StdColumn(k)
		for t, r := range col.Index {
			bm.Set(r, i, col.Value[t])
		}
	}

	var lu mat.LU
	lu.Factorize(bm)
	if c := lu.Cond(); math.IsInf(c, 1) || math.IsNaN(c) || c > condLimit {
		return nil, errors.Wrapf(ErrSingularPivot, "basis matrix condition number %g", c)
	}

	ones := make([]float64, b.m)
	for i := range ones {
		ones[i] = 1
	}
	inv := mat.NewDense(b.m, b.m, nil)
	if err := lu.SolveTo(inv, false, mat.NewDiagDense(b.m, ones)); err != nil {
		return nil, errors.Wrapf(ErrSingularPivot, "inverting basis matrix: %v", err)
	}
	return inv, nil
}

// Format returns the basis inverse for diagnostics
func (b *Basis) Format() string {
	if b.inv == nil {
		return "B^-1 = []"
	}
	return fmt.Sprintf("B^-1 = %v", mat.Formatted(b.inv, mat.Prefix("       "), mat.Squeeze()))
}
