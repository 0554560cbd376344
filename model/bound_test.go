package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundAccessors(t *testing.T) {
	inf := math.Inf(1)
	rng, err := Range(-2, 5)
	require.NoError(t, err)

	tests := []struct {
		b              Bound
		t              BoundType
		lower, upper   float64
		hasLow, hasUpp bool
		nearest        float64
	}{
		{Free(), FR, -inf, inf, false, false, 0},
		{Bound{}, FR, -inf, inf, false, false, 0},
		{LowerOnly(3), LO, 3, inf, true, false, 3},
		{UpperOnly(-4), UP, -inf, -4, false, true, -4},
		{rng, DB, -2, 5, true, true, -2},
		{Fixed(7), FX, 7, 7, true, true, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.t, tt.b.Type())
		l, ok := tt.b.Lower()
		assert.Equal(t, tt.hasLow, ok, "%v lower", tt.t)
		if ok {
			assert.Equal(t, tt.lower, l)
		}
		u, ok := tt.b.Upper()
		assert.Equal(t, tt.hasUpp, ok, "%v upper", tt.t)
		if ok {
			assert.Equal(t, tt.upper, u)
		}
		l, u = tt.b.Limits()
		assert.Equal(t, tt.lower, l)
		assert.Equal(t, tt.upper, u)
		assert.Equal(t, tt.nearest, tt.b.Nearest())
	}
}

func TestRange(t *testing.T) {
	b, err := Range(1, 1)
	require.NoError(t, err)
	assert.Equal(t, DB, b.Type())

	b, err = Range(-10, 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, b.Nearest())
	b, err = Range(-3, 3)
	require.NoError(t, err)
	assert.Equal(t, -3.0, b.Nearest())

	for _, lu := range [][2]float64{{2, 1}, {math.NaN(), 1}, {0, math.Inf(1)}, {math.Inf(-1), 0}} {
		_, err := Range(lu[0], lu[1])
		assert.ErrorIs(t, err, ErrInvalidArgument, "range %v", lu)
	}
}

func TestBoundTypeString(t *testing.T) {
	assert.Equal(t, "free", FR.String())
	assert.Equal(t, "range", DB.String())
	assert.Equal(t, "fixed", FX.String())
	assert.Equal(t, "unknown", BoundType(9).String())
}
