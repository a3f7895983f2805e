package property

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrUnsupportedJSON is returned when a JSON value has no property
// representation (null, arrays).
var ErrUnsupportedJSON = errors.New("unsupported JSON value for property")

// MarshalJSON implements json.Marshaler.
//
// A Value marshals to the plain JSON value it wraps: number, string, boolean
// or object. There is no type envelope on the wire; the host surface works
// with ordinary JSON documents.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInt:
		return strconv.AppendInt(nil, v.I64, 10), nil
	case KindDouble:
		return json.Marshal(v.F64)
	case KindBool:
		return json.Marshal(v.B)
	case KindString:
		return json.Marshal(v.S)
	case KindMap:
		if v.M == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.M)
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownTag, v.Kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
//
// The kind is derived from the JSON shape: integers decode as KindInt, other
// numbers as KindDouble, strings, booleans and objects as their obvious
// kinds. Null and arrays are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("%w: empty input", ErrUnsupportedJSON)
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	case '{':
		var m Map
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		if m == nil {
			m = Map{}
		}
		*v = Nested(m)
		return nil
	case '[', 'n':
		return fmt.Errorf("%w: %s", ErrUnsupportedJSON, shortInput(data))
	default:
		// JSON integers become Int, everything else Double. "4.0" parses as
		// a float literal and stays a Double.
		if i, err := strconv.ParseInt(string(data), 10, 64); err == nil {
			*v = Int(i)
			return nil
		}
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUnsupportedJSON, shortInput(data))
		}
		*v = Double(f)
		return nil
	}
}

func shortInput(data []byte) string {
	const max = 32
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
