package diff

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	Invalid Kind = iota
	Int
	Float
	Duration
	Time
	Text
	Map
)

var kindNames = map[Kind]string{
	Invalid:  "invalid",
	Int:      "int",
	Float:    "float",
	Duration: "duration",
	Time:     "time",
	Text:     "text",
	Map:      "map",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ErrTypeMismatch is returned when two values cannot be subtracted
// from one another, e.g., a duration and a number.
var ErrTypeMismatch = errors.New("values are not of comparable types")

// Value is a single node of a snapshot. The zero Value is Invalid.
type Value struct {
	kind Kind
	i    int64 // Int, and Duration in nanoseconds
	f    float64
	t    time.Time
	s    string
	m    map[string]Value
}

func IntValue(i int64) Value { return Value{kind: Int, i: i} }
func FloatValue(f float64) Value { return Value{kind: Float, f: f} }
func DurationValue(d time.Duration) Value { return Value{kind: Duration, i: int64(d)} }
func TimeValue(t time.Time) Value { return Value{kind: Time, t: t} }
func TextValue(s string) Value { return Value{kind: Text, s: s} }
func MapValue(m map[string]Value) Value { return Value{kind: Map, m: m} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsValid() bool { return v.kind != Invalid }
func (v Value) IsNumber() bool { return v.kind == Int || v.kind == Float }

func (v Value) Int() int64 { return v.i }
func (v Value) Duration() time.Duration { return time.Duration(v.i) }
func (v Value) Time() time.Time { return v.t }
func (v Value) Text() string { return v.s }
func (v Value) Entries() map[string]Value { return v.m }

// Float returns the value of a number as a float64, whether it is
// held as an Int or a Float.
func (v Value) Float() float64 {
	if v.kind == Int {
		return float64(v.i)
	}
	return v.f
}

// Keys returns the keys of a Map in lexicographic order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether two scalars hold the same value. Numbers
// compare numerically regardless of representation; otherwise values of
// different kinds are never equal.
func (v Value) Equal(o Value) bool {
	if v.IsNumber() && o.IsNumber() {
		if v.kind == Int && o.kind == Int {
			return v.i == o.i
		}
		return v.Float() == o.Float()
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Duration:
		return v.i == o.i
	case Time:
		return v.t.Equal(o.t)
	case Text:
		return v.s == o.s
	case Map:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, vv := range v.m {
			ov, ok := o.m[k]
			if !ok || !vv.Equal(ov) {
				return false
			}
		}
		return true
	}
	return true
}

// Sub returns v - o. Two Ints give an Int, any other pair of numbers a
// Float, and two Durations or two Times give a Duration. Anything else
// is ErrTypeMismatch.
func (v Value) Sub(o Value) (Value, error) {
	switch {
	case v.kind == Int && o.kind == Int:
		return IntValue(v.i - o.i), nil
	case v.IsNumber() && o.IsNumber():
		return FloatValue(v.Float() - o.Float()), nil
	case v.kind == Duration && o.kind == Duration:
		return DurationValue(time.Duration(v.i - o.i)), nil
	case v.kind == Time && o.kind == Time:
		return DurationValue(v.t.Sub(o.t)), nil
	}
	return Value{}, fmt.Errorf("%s - %s: %w", v.kind, o.kind, ErrTypeMismatch)
}

// Seconds gives the magnitude of v in seconds: a Duration is converted,
// a number is taken to be seconds already.
func (v Value) Seconds() (float64, bool) {
	switch v.kind {
	case Duration:
		return time.Duration(v.i).Seconds(), true
	case Int, Float:
		return v.Float(), true
	}
	return 0, false
}

// Div divides v by n, keeping its kind. Int division truncates.
func (v Value) Div(n int) Value {
	switch v.kind {
	case Int:
		return IntValue(v.i / int64(n))
	case Float:
		return FloatValue(v.f / float64(n))
	case Duration:
		return DurationValue(time.Duration(v.i / int64(n)))
	}
	return Value{}
}

func (v Value) String() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case Duration:
		return time.Duration(v.i).String()
	case Time:
		return v.t.Format(time.RFC3339Nano)
	case Text:
		return v.s
	case Map:
		return fmt.Sprintf("map[%d]", len(v.m))
	}
	return "<invalid>"
}

// Interface returns v as a plain Go value, for encoding.
func (v Value) Interface() interface{} {
	switch v.kind {
	case Int:
		return v.i
	case Float:
		return v.f
	case Duration:
		return time.Duration(v.i).String()
	case Time:
		return v.t
	case Text:
		return v.s
	case Map:
		m := make(map[string]interface{}, len(v.m))
		for k, vv := range v.m {
			m[k] = vv.Interface()
		}
		return m
	}
	return nil
}
