package hardware

import (
	"errors"
	"math"
)

// DutyDenominator is the denominator every duty-cycle fraction is expressed
// over, so a wheel value maps directly onto a percentage.
const DutyDenominator = 100

var (
	ErrDutyOutOfRange = errors.New("duty cycle fraction out of range")
)

// DutyCycler is a single PWM output whose duty cycle can be set as a fraction.
type DutyCycler interface {
	SetDutyCycleFraction(num, denom uint16) error
}

// Forward is the duty numerator for the forward output of a wheel driven at v.
func Forward(v int) uint16 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}

// Backward is the duty numerator for the backward output of a wheel driven at v.
func Backward(v int) uint16 {
	if v == math.MinInt {
		return math.MaxUint16
	}
	return Forward(-v)
}

func checkFraction(num, denom uint16) error {
	if denom == 0 || num > denom {
		return ErrDutyOutOfRange
	}
	return nil
}
