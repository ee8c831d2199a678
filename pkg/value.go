package lox

import (
	"math"
	"strconv"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a runtime value: NilValue, BoolValue, NumberValue or StringValue.
type Value interface {
	Kind() Kind
}

type NilValue struct{}

type BoolValue bool

type NumberValue float64

type StringValue string

func (NilValue) Kind() Kind    { return KindNil }
func (BoolValue) Kind() Kind   { return KindBool }
func (NumberValue) Kind() Kind { return KindNumber }
func (StringValue) Kind() Kind { return KindString }

// Nil is the single nil value.
var Nil Value = NilValue{}

// IsTruthy maps nil and false to false and everything else to true.
func IsTruthy(v Value) bool {
	switch v := v.(type) {
	case nil, NilValue:
		return false
	case BoolValue:
		return bool(v)
	default:
		return true
	}
}

// IsEqual never fails: values of different kinds are simply unequal.
func IsEqual(a, b Value) bool {
	switch a := a.(type) {
	case nil, NilValue:
		return b == nil || b.Kind() == KindNil
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && a == bv
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && a == bv
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && a == bv
	default:
		return false
	}
}

// Stringify renders a value for print. Integral numbers lose their
// fractional part, so 3.0 prints as "3".
func Stringify(v Value) string {
	switch v := v.(type) {
	case nil, NilValue:
		return "nil"
	case BoolValue:
		return strconv.FormatBool(bool(v))
	case NumberValue:
		return formatNumber(float64(v))
	case StringValue:
		return string(v)
	default:
		return "<unknown>"
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case math.IsNaN(n):
		return "NaN"
	}

	return strconv.FormatFloat(n, 'f', -1, 64)
}
