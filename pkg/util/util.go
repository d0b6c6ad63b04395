package util

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// error

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

// Is lets errors.Is match the error code as well as the wrapped error.
func (e *Error) Is(target error) bool {
	return e.code != nil && target == e.code
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

var (
	ErrOutOfRange              = errors.New("index is out of range")
	ErrDuplicateNode           = errors.New("node is already present")
	ErrStructuralInconsistency = errors.New("structural inconsistency")
	ErrNoFeasibleInsertion     = errors.New("no feasible insertion position")
	ErrBadParamInput           = errors.New("given Param is not valid")
)

func DegreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func ReverseInPlace[T any](arr []T) {
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
}

func StopConcurrentOperation(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func AssertPanic(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Eq compares two floats within an absolute tolerance.
func Eq(a, b, tolerance float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	return math.Abs(a-b) <= tolerance
}

// CheckIndex returns an ErrOutOfRange error when index is outside [0,length), or [0,length] if allowLength.
func CheckIndex(index int, argName string, length int, allowLength bool) error {
	if !(allowLength && index == length) && (index < 0 || index >= length) {
		return WrapErrorf(nil, ErrOutOfRange, "%s is out of range (%s=%d, length=%d)", argName, argName, index, length)
	}
	return nil
}

func CheckSequenceIndexes(start int, startName string, end int, endName string, length int, allowLength bool) error {
	if err := CheckIndex(start, startName, length, allowLength); err != nil {
		return err
	}
	if err := CheckIndex(end, endName, length, allowLength); err != nil {
		return err
	}
	if start > end {
		return WrapErrorf(nil, ErrOutOfRange, "%s should be lower than %s (%s=%d while %s=%d)", startName, endName,
			startName, start, endName, end)
	}
	return nil
}
