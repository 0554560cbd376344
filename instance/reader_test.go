package instance

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"q.log/boundsimplex/lp"
	"q.log/boundsimplex/model"
)

const epsilon = 1e-3 // acceptable numerical deviation for test results

const scenarioA = `NAME scenarioA
ROWS
 N obj
 L p
 L q
 L r
COLUMNS
 x1 obj 10 p 1
 x1 q 10 r 2
 x2 obj 6 p 1
 x2 q 4 r 2
 x3 obj 4 p 1
 x3 q 5 r 6
RHS
 rhs p 100 q 600
 rhs r 300
BOUNDS
 UP bnd x3 50
ENDATA
`

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFreeMPS(t *testing.T) {
	r := NewReader(writeFile(t, "scenarioA.mps", scenarioA))
	r.SetDirection(lp.Maximize)

	p, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "scenarioA", p.Name())
	assert.Equal(t, lp.Maximize, p.Direction())
	require.Equal(t, 3, p.NumRows())
	require.Equal(t, 3, p.NumCols())

	i, ok := p.FindRow("q")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	j, ok := p.FindCol("x3")
	assert.True(t, ok)
	assert.Equal(t, 3, j)

	b, err := p.RowBound(2)
	require.NoError(t, err)
	assert.Equal(t, model.UP, b.Type())
	u, _ := b.Upper()
	assert.Equal(t, 600.0, u)

	b, err = p.ColBound(3)
	require.NoError(t, err)
	assert.Equal(t, model.DB, b.Type())
	b, err = p.ColBound(1)
	require.NoError(t, err)
	assert.Equal(t, model.LO, b.Type())

	c, err := p.ObjCoef(2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, c)
	assert.Len(t, p.Triples(), 9)

	require.Equal(t, lp.Optimal, p.Solve())
	assert.InDelta(t, 733.333, p.ObjectiveValue(), epsilon)
}

// fixedLine lays out the fields of a fixed MPS data line in columns 2-3,
// 5-12, 15-22, 25-36, 40-47 and 50-61.
func fixedLine(fields ...string) string {
	f := make([]string, 6)
	copy(f, fields)
	line := fmt.Sprintf(" %-2s %-8s  %-8s  %-12s   %-8s  %-12s", f[0], f[1], f[2], f[3], f[4], f[5])
	return strings.TrimRight(line, " ") + "\n"
}

func TestReadFixedMPS(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("NAME          RANGED\n")
	sb.WriteString("ROWS\n")
	sb.WriteString(fixedLine("N", "COST"))
	sb.WriteString(fixedLine("G", "LIM 1"))
	sb.WriteString(fixedLine("E", "MIX"))
	sb.WriteString("COLUMNS\n")
	sb.WriteString(fixedLine("", "X ONE", "COST", "1", "LIM 1", "1"))
	sb.WriteString(fixedLine("", "X ONE", "MIX", "1"))
	sb.WriteString(fixedLine("", "X TWO", "COST", "2", "LIM 1", "1"))
	sb.WriteString(fixedLine("", "X TWO", "MIX", "-1"))
	sb.WriteString("RHS\n")
	sb.WriteString(fixedLine("", "RHS", "COST", "-3", "LIM 1", "4"))
	sb.WriteString(fixedLine("", "RHS", "MIX", "2"))
	sb.WriteString("RANGES\n")
	sb.WriteString(fixedLine("", "RNG", "LIM 1", "6"))
	sb.WriteString("BOUNDS\n")
	sb.WriteString(fixedLine("FR", "BND", "X TWO"))
	sb.WriteString("ENDATA\n")

	r := NewReader(writeFile(t, "ranged.mps", sb.String()))
	r.SetFormat(Fixed)
	p, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, 2, p.NumRows())
	require.Equal(t, 2, p.NumCols())

	// names with blanks only survive the fixed layout
	i, ok := p.FindRow("LIM 1")
	require.True(t, ok)
	b, err := p.RowBound(i)
	require.NoError(t, err)
	assert.Equal(t, model.DB, b.Type())
	l, u := b.Limits()
	assert.Equal(t, 4.0, l)
	assert.Equal(t, 10.0, u)

	b, err = p.RowBound(2)
	require.NoError(t, err)
	assert.Equal(t, model.FX, b.Type())
	j, ok := p.FindCol("X TWO")
	require.True(t, ok)
	b, err = p.ColBound(j)
	require.NoError(t, err)
	assert.Equal(t, model.FR, b.Type())

	// an objective RHS is the negated constant term
	shift, err := p.ObjCoef(0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, shift)

	// minimize x1 + 2x2 + 3, 4 <= x1 + x2 <= 10, x1 - x2 = 2
	require.Equal(t, lp.Optimal, p.Solve())
	assert.InDelta(t, 8, p.ObjectiveValue(), epsilon)
	x, err := p.PrimalValue(1)
	require.NoError(t, err)
	assert.InDelta(t, 3, x, epsilon)
}

func TestReadMissingFile(t *testing.T) {
	r := NewReader(filepath.Join(t.TempDir(), "missing.mps"))
	_, err := r.Read()
	assert.Error(t, err)
}

func TestBoundOf(t *testing.T) {
	tests := []struct {
		lb, ub float64
		want   model.BoundType
	}{
		{-math.MaxFloat64, math.MaxFloat64, model.FR},
		{0, math.MaxFloat64, model.LO},
		{-math.MaxFloat64, 3, model.UP},
		{-1, 3, model.DB},
		{2, 2, model.FX},
	}
	for _, tt := range tests {
		b, err := boundOf(tt.lb, tt.ub)
		require.NoError(t, err)
		assert.Equal(t, tt.want, b.Type(), "bounds [%g, %g]", tt.lb, tt.ub)
	}

	_, err := boundOf(3, 1)
	assert.ErrorIs(t, err, lp.ErrInvalidArgument)
}
