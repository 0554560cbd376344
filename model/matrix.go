package model

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// Entry is a nonzero of the constraint matrix, indices are 1-based
type Entry struct {
	Row int
	Col int
	Val float64
}

// SparseVec holds the nonzeros of a row or column, indices are 0-based
// and increasing.
type SparseVec struct {
	Index []int
	Value []float64
}

func (v SparseVec) Len() int {
	return len(v.Index)
}

// LoadMatrix replaces the whole constraint matrix with the triples
// (ia[k], ja[k], ar[k]). Zero values are dropped.
func (p *Problem) LoadMatrix(ia, ja []int, ar []float64) error {
	if len(ia) != len(ja) || len(ia) != len(ar) {
		return errors.Wrapf(ErrInvalidArgument, "mismatched matrix arrays: %d rows, %d columns, %d values", len(ia), len(ja), len(ar))
	}
	entries := make([]Entry, len(ia))
	for k := range ia {
		entries[k] = Entry{Row: ia[k], Col: ja[k], Val: ar[k]}
	}
	return p.load(entries)
}

// LoadDenseMatrix replaces the whole constraint matrix; rows[i][j] becomes
// the coefficient of row i+1, column j+1. Zero values are dropped.
func (p *Problem) LoadDenseMatrix(rows [][]float64) error {
	var entries []Entry
	for i, row := range rows {
		for j, v := range row {
			if v == 0 {
				continue
			}
			entries = append(entries, Entry{Row: i + 1, Col: j + 1, Val: v})
		}
	}
	return p.load(entries)
}

func (p *Problem) load(entries []Entry) error {
	cols := make([]SparseVec, len(p.Cols))
	seen := make(map[[2]int]struct{}, len(entries))
	for _, e := range entries {
		if e.Row < 1 || e.Row > len(p.Rows) || e.Col < 1 || e.Col > len(p.Cols) {
			return errors.Wrapf(ErrInvalidArgument, "matrix entry (%d, %d) outside %dx%d", e.Row, e.Col, len(p.Rows), len(p.Cols))
		}
		if math.IsNaN(e.Val) || math.IsInf(e.Val, 0) {
			return errors.Wrapf(ErrInvalidArgument, "matrix entry (%d, %d) is %v", e.Row, e.Col, e.Val)
		}
		key := [2]int{e.Row, e.Col}
		if _, dup := seen[key]; dup {
			return errors.Wrapf(ErrInvalidArgument, "duplicate matrix entry (%d, %d)", e.Row, e.Col)
		}
		seen[key] = struct{}{}
		if e.Val == 0 {
			continue
		}
		c := &cols[e.Col-1]
		c.Index = append(c.Index, e.Row-1)
		c.Value = append(c.Value, e.Val)
	}
	for j := range cols {
		sortVec(&cols[j])
	}
	p.A = cols
	p.revision++
	return nil
}

func sortVec(v *SparseVec) {
	sort.Sort(byIndex(*v))
}

type byIndex SparseVec

func (b byIndex) Len() int           { return len(b.Index) }
func (b byIndex) Less(i, j int) bool { return b.Index[i] < b.Index[j] }
func (b byIndex) Swap(i, j int) {
	b.Index[i], b.Index[j] = b.Index[j], b.Index[i]
	b.Value[i], b.Value[j] = b.Value[j], b.Value[i]
}

// Triples returns the nonzeros of the matrix ordered by row, then column
func (p *Problem) Triples() []Entry {
	var entries []Entry
	for j, col := range p.A {
		for k, i := range col.Index {
			entries = append(entries, Entry{Row: i + 1, Col: j + 1, Val: col.Value[k]})
		}
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].Row != entries[b].Row {
			return entries[a].Row < entries[b].Row
		}
		return entries[a].Col < entries[b].Col
	})
	return entries
}

// MatRow returns the nonzeros of row i as 1-based column indices and values
func (p *Problem) MatRow(i int) ([]int, []float64, error) {
	if i < 1 || i > len(p.Rows) {
		return nil, nil, errors.Wrapf(ErrIndexOutOfRange, "row %d does not exist (have %d)", i, len(p.Rows))
	}
	var idx []int
	var val []float64
	for j, col := range p.A {
		for k, r := range col.Index {
			if r == i-1 {
				idx = append(idx, j+1)
				val = append(val, col.Value[k])
				break
			}
		}
	}
	return idx, val, nil
}

// MatCol returns the nonzeros of column j as 1-based row indices and values
func (p *Problem) MatCol(j int) ([]int, []float64, error) {
	if j < 1 || j > len(p.Cols) {
		return nil, nil, errors.Wrapf(ErrIndexOutOfRange, "column %d does not exist (have %d)", j, len(p.Cols))
	}
	col := p.A[j-1]
	idx := make([]int, col.Len())
	for k, r := range col.Index {
		idx[k] = r + 1
	}
	return idx, append([]float64(nil), col.Value...), nil
}

// StdColumn returns column k of the augmented matrix [I | -A] of the
// bounded standard form, where rows are the variables 0..m-1.
func (p *Problem) StdColumn(k int) SparseVec {
	if k < len(p.Rows) {
		return SparseVec{Index: []int{k}, Value: []float64{1}}
	}
	col := p.A[k-len(p.Rows)]
	v := SparseVec{Index: col.Index, Value: make([]float64, col.Len())}
	for i, a := range col.Value {
		v.Value[i] = -a
	}
	return v
}
