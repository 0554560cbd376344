package model

import (
	"math"

	"github.com/pkg/errors"
)

// MaxNameLength is the longest symbolic name accepted for a problem, row
// or column. Length is counted in bytes, as GLPK counts it with strlen, so
// a UTF-8 name may hold fewer than 255 characters.
const MaxNameLength = 255

// Kind selects between the two variable families of a problem
type Kind int

const (
	Row Kind = iota
	Column
)

func (k Kind) String() string {
	if k == Row {
		return "row"
	}
	return "column"
}

type Direction int

const (
	Minimize Direction = iota
	Maximize
)

func (d Direction) String() string {
	if d == Maximize {
		return "maximize"
	}
	return "minimize"
}

type Variable struct {
	Name  string
	Bound Bound
	Value float64
}

// Problem is a linear program with bounded rows (auxiliary variables) and
// columns (structural variables). Rows and columns are 1-based and
// append-only.
type Problem struct {
	name string
	dir  Direction

	//Rows auxiliary variables, one per constraint
	Rows []*Variable

	//Cols structural variables
	Cols []*Variable

	//C objective coefficients, C[0] is the constant shift
	C []float64

	//A constraint matrix stored by column
	A []SparseVec

	names [2]map[string]int

	revision  uint64
	structure uint64
}

func New(name string) *Problem {
	return &Problem{
		name:  name,
		C:     []float64{0},
		names: [2]map[string]int{{}, {}},
	}
}

func (p *Problem) Name() string {
	return p.name
}

func (p *Problem) SetName(name string) error {
	if len(name) > MaxNameLength {
		return errors.Wrapf(ErrInvalidArgument, "problem name longer than %d bytes", MaxNameLength)
	}
	p.name = name
	return nil
}

func (p *Problem) Direction() Direction {
	return p.dir
}

func (p *Problem) SetDirection(dir Direction) {
	if dir != p.dir {
		p.dir = dir
		p.revision++
	}
}

func (p *Problem) NumRows() int {
	return len(p.Rows)
}

func (p *Problem) NumCols() int {
	return len(p.Cols)
}

// Revision changes on every mutation of the problem
func (p *Problem) Revision() uint64 {
	return p.revision
}

// StructureRevision changes only when rows or columns are added
func (p *Problem) StructureRevision() uint64 {
	return p.structure
}

// AddRows appends n free rows with no coefficients and returns the index
// of the first one.
func (p *Problem) AddRows(n int) (int, error) {
	if n < 0 {
		return 0, errors.Wrapf(ErrInvalidArgument, "cannot add %d rows", n)
	}
	first := len(p.Rows) + 1
	for i := 0; i < n; i++ {
		p.Rows = append(p.Rows, &Variable{Bound: Free()})
	}
	p.touchStructure()
	return first, nil
}

// AddCols appends n columns fixed at zero with no coefficients and
// returns the index of the first one.
func (p *Problem) AddCols(n int) (int, error) {
	if n < 0 {
		return 0, errors.Wrapf(ErrInvalidArgument, "cannot add %d columns", n)
	}
	first := len(p.Cols) + 1
	for i := 0; i < n; i++ {
		p.Cols = append(p.Cols, &Variable{Bound: Fixed(0)})
		p.C = append(p.C, 0)
		p.A = append(p.A, SparseVec{})
	}
	p.touchStructure()
	return first, nil
}

func (p *Problem) touchStructure() {
	p.structure++
	p.revision++
}

func (p *Problem) vars(kind Kind) []*Variable {
	if kind == Row {
		return p.Rows
	}
	return p.Cols
}

// Var returns the row or column with the given 1-based index
func (p *Problem) Var(kind Kind, i int) (*Variable, error) {
	vars := p.vars(kind)
	if i < 1 || i > len(vars) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "%v %d does not exist (have %d)", kind, i, len(vars))
	}
	return vars[i-1], nil
}

// SetVarName assigns a name to a row or column. Names longer than
// MaxNameLength bytes are rejected and an empty name erases the existing
// one. Names are unique within rows and within columns, but a row and a
// column may share a name.
func (p *Problem) SetVarName(kind Kind, i int, name string) error {
	v, err := p.Var(kind, i)
	if err != nil {
		return err
	}
	if len(name) > MaxNameLength {
		return errors.Wrapf(ErrInvalidArgument, "%v %d name longer than %d bytes", kind, i, MaxNameLength)
	}
	index := p.names[kind]
	if other, ok := index[name]; ok && name != "" && other != i {
		return errors.Wrapf(ErrInvalidArgument, "%v name %q already used by %v %d", kind, name, kind, other)
	}
	if v.Name != "" {
		delete(index, v.Name)
	}
	v.Name = name
	if name != "" {
		index[name] = i
	}
	return nil
}

func (p *Problem) VarName(kind Kind, i int) (string, error) {
	v, err := p.Var(kind, i)
	if err != nil {
		return "", err
	}
	return v.Name, nil
}

// Find returns the index of the row or column with the given name
func (p *Problem) Find(kind Kind, name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	i, ok := p.names[kind][name]
	return i, ok
}

func (p *Problem) SetBound(kind Kind, i int, b Bound) error {
	v, err := p.Var(kind, i)
	if err != nil {
		return err
	}
	if err := b.validate(); err != nil {
		return errors.Wrapf(err, "%v %d", kind, i)
	}
	v.Bound = b
	p.revision++
	return nil
}

func (p *Problem) VarBound(kind Kind, i int) (Bound, error) {
	v, err := p.Var(kind, i)
	if err != nil {
		return Bound{}, err
	}
	return v.Bound, nil
}

// SetObjCoef sets the objective coefficient of column j, or the constant
// shift when j is 0.
func (p *Problem) SetObjCoef(j int, coef float64) error {
	if j < 0 || j > len(p.Cols) {
		return errors.Wrapf(ErrIndexOutOfRange, "objective column %d does not exist (have %d)", j, len(p.Cols))
	}
	if math.IsNaN(coef) || math.IsInf(coef, 0) {
		return errors.Wrapf(ErrInvalidArgument, "objective coefficient %v of column %d", coef, j)
	}
	p.C[j] = coef
	p.revision++
	return nil
}

func (p *Problem) ObjCoef(j int) (float64, error) {
	if j < 0 || j > len(p.Cols) {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "objective column %d does not exist (have %d)", j, len(p.Cols))
	}
	return p.C[j], nil
}

// ObjectiveValue evaluates the objective at the current column values
func (p *Problem) ObjectiveValue() float64 {
	z := p.C[0]
	for c, v := range p.Cols {
		z += p.C[c+1] * v.Value
	}
	return z
}

// Bounds returns the limits of every variable of the bounded standard
// form: rows first, then columns.
func (p *Problem) Bounds() (lower, upper []float64) {
	m, n := len(p.Rows), len(p.Cols)
	lower = make([]float64, m+n)
	upper = make([]float64, m+n)
	for k, v := range append(append([]*Variable{}, p.Rows...), p.Cols...) {
		lower[k], upper[k] = v.Bound.Limits()
	}
	return lower, upper
}

// StdBound returns the bound of variable k of the bounded standard form
func (p *Problem) StdBound(k int) Bound {
	if k < len(p.Rows) {
		return p.Rows[k].Bound
	}
	return p.Cols[k-len(p.Rows)].Bound
}
