package diff

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FromInterface converts a decoded document into a Value tree. Maps
// become Maps, numbers become Ints or Floats, booleans become 0 or 1,
// and strings that read as RFC3339 times or as durations with a unit
// become Times and Durations. Anything else is kept as Text.
func FromInterface(v interface{}) Value {
	switch v := v.(type) {
	case nil:
		return Value{}
	case Value:
		return v
	case map[string]interface{}:
		m := make(map[string]Value, len(v))
		for k, vv := range v {
			if c := FromInterface(vv); c.IsValid() {
				m[k] = c
			}
		}
		return MapValue(m)
	case map[interface{}]interface{}:
		m := make(map[string]Value, len(v))
		for k, vv := range v {
			if c := FromInterface(vv); c.IsValid() {
				m[fmt.Sprint(k)] = c
			}
		}
		return MapValue(m)
	case bool:
		if v {
			return IntValue(1)
		}
		return IntValue(0)
	case int:
		return IntValue(int64(v))
	case int8:
		return IntValue(int64(v))
	case int16:
		return IntValue(int64(v))
	case int32:
		return IntValue(int64(v))
	case int64:
		return IntValue(v)
	case uint:
		return IntValue(int64(v))
	case uint8:
		return IntValue(int64(v))
	case uint16:
		return IntValue(int64(v))
	case uint32:
		return IntValue(int64(v))
	case uint64:
		return IntValue(int64(v))
	case float32:
		return FloatValue(float64(v))
	case float64:
		return FloatValue(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return IntValue(i)
		}
		if f, err := v.Float64(); err == nil {
			return FloatValue(f)
		}
		return TextValue(v.String())
	case time.Duration:
		return DurationValue(v)
	case time.Time:
		return TimeValue(v)
	case string:
		return fromString(v)
	case fmt.Stringer:
		return TextValue(v.String())
	}
	return TextValue(fmt.Sprint(v))
}

func fromString(s string) Value {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return TimeValue(t)
	}
	// ParseDuration accepts a bare "0", which is a number, not a duration
	if strings.IndexFunc(s, isUnit) >= 0 {
		if d, err := time.ParseDuration(s); err == nil {
			return DurationValue(d)
		}
	}
	return TextValue(s)
}

func isUnit(r rune) bool {
	return r == 'h' || r == 'm' || r == 's' || r == 'u' || r == 'n' || r == 'µ' || r == 'μ'
}

// ParseValue interprets a textual scalar, such as a column read from a
// database, as an Int, a Float, or as FromInterface would a string.
func ParseValue(s string) Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FloatValue(f)
	}
	return fromString(s)
}
