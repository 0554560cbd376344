package instance

import (
	"math"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lukpank/go-glpk/glpk"
	"github.com/pkg/errors"
	"q.log/boundsimplex/lp"
)

// Format of an MPS file
type Format int

const (
	Free Format = iota
	Fixed
)

// Reader reads an MPS file into an lp.Problem
type Reader struct {
	filename string
	format   Format
	dir      lp.Direction
	opts     []lp.Option
}

// NewReader returns a reader of the free MPS file filename. Problems are
// minimized unless SetDirection asks otherwise.
func NewReader(filename string, opts ...lp.Option) *Reader {
	return &Reader{
		filename: filename,
		format:   Free,
		dir:      lp.Minimize,
		opts:     opts,
	}
}

func (r *Reader) SetFormat(f Format) {
	r.format = f
}

// SetDirection sets the direction of the objective, MPS files do not carry one
func (r *Reader) SetDirection(dir lp.Direction) {
	r.dir = dir
}

// Read parses the file and returns the problem it describes. Rows,
// columns, names, bounds, objective coefficients (with the constant term)
// and the constraint matrix are copied over.
func (r *Reader) Read() (*lp.Problem, error) {
	// GLPK keeps per-thread state
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	prob := glpk.New()
	defer prob.Delete()

	format := glpk.MPS_FILE
	if r.format == Fixed {
		format = glpk.MPS_DECK
	}
	if err := prob.ReadMPS(format, nil, r.filename); err != nil {
		return nil, errors.Wrapf(err, "reading %s", r.filename)
	}

	name := strings.TrimSuffix(filepath.Base(r.filename), filepath.Ext(r.filename))
	p := lp.New(name, r.opts...)
	p.SetDirection(r.dir)

	rows, cols := prob.NumRows(), prob.NumCols()
	if _, err := p.AddRows(rows); err != nil {
		return nil, err
	}
	if _, err := p.AddCols(cols); err != nil {
		return nil, err
	}

	for i := 1; i <= rows; i++ {
		if err := p.SetRowName(i, prob.RowName(i)); err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		b, err := boundOf(prob.RowLB(i), prob.RowUB(i))
		if err != nil {
			return nil, errors.Wrapf(err, "row %s", prob.RowName(i))
		}
		if err := p.SetRowBound(i, b); err != nil {
			return nil, err
		}
	}

	//c[0] is the constant term of the objective
	for j := 0; j <= cols; j++ {
		if err := p.SetObjCoef(j, prob.ObjCoef(j)); err != nil {
			return nil, errors.Wrapf(err, "objective coefficient %d", j)
		}
	}

	for j := 1; j <= cols; j++ {
		if err := p.SetColName(j, prob.ColName(j)); err != nil {
			return nil, errors.Wrapf(err, "column %d", j)
		}
		b, err := boundOf(prob.ColLB(j), prob.ColUB(j))
		if err != nil {
			return nil, errors.Wrapf(err, "column %s", prob.ColName(j))
		}
		if err := p.SetColBound(j, b); err != nil {
			return nil, err
		}
	}

	var ia, ja []int
	var ar []float64
	for i := 1; i <= rows; i++ {
		idxs, row := prob.MatRow(i)
		for k, j := range idxs {
			// position 0 is unused by GLPK
			if j == 0 {
				continue
			}
			ia = append(ia, i)
			ja = append(ja, int(j))
			ar = append(ar, row[k])
		}
	}
	if err := p.LoadMatrix(ia, ja, ar); err != nil {
		return nil, errors.Wrap(err, "constraint matrix")
	}
	return p, nil
}

// boundOf converts GLPK bounds, where ±math.MaxFloat64 stands for a
// missing side.
func boundOf(lb, ub float64) (lp.Bound, error) {
	hasLower := lb > -math.MaxFloat64
	hasUpper := ub < math.MaxFloat64
	switch {
	case hasLower && hasUpper && lb == ub:
		return lp.Fixed(lb), nil
	case hasLower && hasUpper:
		return lp.Range(lb, ub)
	case hasLower:
		return lp.LowerOnly(lb), nil
	case hasUpper:
		return lp.UpperOnly(ub), nil
	}
	return lp.Free(), nil
}
