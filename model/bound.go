package model

import (
	"math"

	"github.com/pkg/errors"
)

// BoundType is the internal code of a bound variant
type BoundType int

const (
	FR BoundType = iota // free
	LO                  // lower only
	UP                  // upper only
	DB                  // double bounded
	FX                  // fixed
)

func (t BoundType) String() string {
	switch t {
	case FR:
		return "free"
	case LO:
		return "lower"
	case UP:
		return "upper"
	case DB:
		return "range"
	case FX:
		return "fixed"
	}
	return "unknown"
}

// Bound restricts the value of a row or a column.
// The zero value is a free bound.
type Bound struct {
	t     BoundType
	lower float64
	upper float64
}

func Free() Bound {
	return Bound{t: FR}
}

func Fixed(v float64) Bound {
	return Bound{t: FX, lower: v, upper: v}
}

func LowerOnly(v float64) Bound {
	return Bound{t: LO, lower: v}
}

func UpperOnly(v float64) Bound {
	return Bound{t: UP, upper: v}
}

// Range returns a double bound lower <= x <= upper. Both sides must be
// finite and lower must not exceed upper.
func Range(lower, upper float64) (Bound, error) {
	if math.IsNaN(lower) || math.IsNaN(upper) || math.IsInf(lower, 0) || math.IsInf(upper, 0) {
		return Bound{}, errors.Wrapf(ErrInvalidArgument, "range bounds must be finite, got [%v, %v]", lower, upper)
	}
	if lower > upper {
		return Bound{}, errors.Wrapf(ErrInvalidArgument, "range lower bound %v exceeds upper bound %v", lower, upper)
	}
	return Bound{t: DB, lower: lower, upper: upper}, nil
}

func (b Bound) Type() BoundType {
	return b.t
}

// Lower returns the lower bound, ok is false when there is none
func (b Bound) Lower() (v float64, ok bool) {
	switch b.t {
	case LO, DB, FX:
		return b.lower, true
	}
	return 0, false
}

// Upper returns the upper bound, ok is false when there is none
func (b Bound) Upper() (v float64, ok bool) {
	switch b.t {
	case UP, DB, FX:
		return b.upper, true
	}
	return 0, false
}

// Limits returns both sides of the bound, missing sides are infinite
func (b Bound) Limits() (lower, upper float64) {
	lower, upper = math.Inf(-1), math.Inf(1)
	if v, ok := b.Lower(); ok {
		lower = v
	}
	if v, ok := b.Upper(); ok {
		upper = v
	}
	return lower, upper
}

// Nearest returns the value a nonbasic variable with this bound is pinned
// to: the finite side closest to zero, lower on ties, zero when free.
func (b Bound) Nearest() float64 {
	switch b.t {
	case LO, FX:
		return b.lower
	case UP:
		return b.upper
	case DB:
		if math.Abs(b.upper) < math.Abs(b.lower) {
			return b.upper
		}
		return b.lower
	}
	return 0
}

func (b Bound) validate() error {
	if b.t == DB {
		_, err := Range(b.lower, b.upper)
		return err
	}
	for _, v := range []float64{b.lower, b.upper} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrInvalidArgument, "%v bound value must be finite", b.t)
		}
	}
	return nil
}
