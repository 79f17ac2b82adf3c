package usage

import (
	"encoding/json"

	"github.com/huandu/go-clone"
	"github.com/pkg/errors"
)

// Value is one entry of a usage report: either a numeric leaf or a nested
// mapping of string to Value. The JSON codec keeps the wire shape of the
// provider's telemetry: numbers stay numbers, mappings stay objects, and
// anything else is rejected on decode.
type Value struct {
	Num float64
	Map map[string]Value
}

func Number(n float64) Value {
	return Value{Num: n}
}

func Nested(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{Map: m}
}

// IsMap reports whether the value is a nested mapping rather than a leaf.
func (v Value) IsMap() bool {
	return v.Map != nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Map != nil {
		return json.Marshal(v.Map)
	}
	return json.Marshal(v.Num)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = Value{Num: num}
		return nil
	}

	var m map[string]Value
	if err := json.Unmarshal(data, &m); err != nil {
		return errors.Wrap(err, "usage values must be numbers or nested mappings")
	}
	*v = Value{Map: m}
	return nil
}

// Report is one usage report as returned alongside a completion response.
type Report map[string]Value

// FromMap converts a loosely-typed nested mapping into a Report. Non-numeric
// leaves are rejected.
func FromMap(m map[string]interface{}) (Report, error) {
	ret := Report{}
	for k, raw := range m {
		value, err := valueFromAny(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "key %s", k)
		}
		ret[k] = value
	}
	return ret, nil
}

func valueFromAny(raw interface{}) (Value, error) {
	switch v := raw.(type) {
	case float64:
		return Number(v), nil
	case float32:
		return Number(float64(v)), nil
	case int:
		return Number(float64(v)), nil
	case int64:
		return Number(float64(v)), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Value{}, errors.Wrap(err, "invalid number")
		}
		return Number(f), nil
	case map[string]interface{}:
		nested, err := FromMap(v)
		if err != nil {
			return Value{}, err
		}
		return Nested(nested), nil
	default:
		return Value{}, errors.Errorf("non-numeric usage leaf of type %T", raw)
	}
}

// Merge adds the numeric leaves of src into dst, recursing into nested
// mappings. When a key's shape differs between the two, src wins.
func Merge(dst Report, src Report) {
	for k, sv := range src {
		dv, ok := dst[k]
		switch {
		case ok && dv.IsMap() && sv.IsMap():
			Merge(dv.Map, sv.Map)
		case ok && !dv.IsMap() && !sv.IsMap():
			dst[k] = Number(dv.Num + sv.Num)
		default:
			dst[k] = clone.Clone(sv).(Value)
		}
	}
}
