package datasource

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// Value kinds of an encoded property.
const (
	kindNull   = "null"
	kindBool   = "bool"
	kindString = "string"
	kindList   = "list"
	kindMap    = "map"
	kindJSON   = "json"

	kindFloat32 = "float32"
	kindFloat64 = "float64"
)

// Properties holds data-source properties. Its JSON form tags every value
// with its Go kind so that numbers keep their type across storage: an int
// comes back as an int, not a float64. Numbers are written as decimal
// strings, which also survives the float64-only protobuf Struct.
//
// Lists and maps decode to []any and map[string]any. Values of any other
// type are stored as plain JSON and decode generically.
type Properties map[string]any

type typedValue struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p Properties) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	enc := make(map[string]typedValue, len(p))
	for k, v := range p {
		tv, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		enc[k] = tv
	}
	return json.Marshal(enc)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Properties) UnmarshalJSON(data []byte) error {
	var enc map[string]typedValue
	if err := json.Unmarshal(data, &enc); err != nil {
		return err
	}
	if enc == nil {
		*p = nil
		return nil
	}
	out := make(Properties, len(enc))
	for k, tv := range enc {
		v, err := decodeValue(tv)
		if err != nil {
			return fmt.Errorf("property %q: %w", k, err)
		}
		out[k] = v
	}
	*p = out
	return nil
}

func encodeValue(v any) (typedValue, error) {
	switch x := v.(type) {
	case nil:
		return typedValue{Kind: kindNull}, nil
	case bool:
		return rawValue(kindBool, x)
	case string:
		return rawValue(kindString, x)
	case []any:
		items := make([]typedValue, len(x))
		for i, item := range x {
			tv, err := encodeValue(item)
			if err != nil {
				return typedValue{}, err
			}
			items[i] = tv
		}
		return rawValue(kindList, items)
	case map[string]any:
		fields := make(map[string]typedValue, len(x))
		for k, item := range x {
			tv, err := encodeValue(item)
			if err != nil {
				return typedValue{}, err
			}
			fields[k] = tv
		}
		return rawValue(kindMap, fields)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rawValue(rv.Kind().String(), strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rawValue(rv.Kind().String(), strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32:
		return rawValue(kindFloat32, strconv.FormatFloat(rv.Float(), 'g', -1, 32))
	case reflect.Float64:
		return rawValue(kindFloat64, strconv.FormatFloat(rv.Float(), 'g', -1, 64))
	}
	return rawValue(kindJSON, v)
}

func rawValue(kind string, v any) (typedValue, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return typedValue{}, fmt.Errorf("failed to encode %s value: %w", kind, err)
	}
	return typedValue{Kind: kind, Value: raw}, nil
}

func decodeValue(tv typedValue) (any, error) {
	switch tv.Kind {
	case kindNull:
		return nil, nil
	case kindBool:
		var b bool
		if err := unmarshalValue(tv, &b); err != nil {
			return nil, err
		}
		return b, nil
	case kindString:
		var s string
		if err := unmarshalValue(tv, &s); err != nil {
			return nil, err
		}
		return s, nil
	case kindJSON:
		var v any
		if err := unmarshalValue(tv, &v); err != nil {
			return nil, err
		}
		return v, nil
	case kindList:
		var items []typedValue
		if err := unmarshalValue(tv, &items); err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case kindMap:
		var fields map[string]typedValue
		if err := unmarshalValue(tv, &fields); err != nil {
			return nil, err
		}
		out := make(map[string]any, len(fields))
		for k, item := range fields {
			v, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}

	var s string
	if err := unmarshalValue(tv, &s); err != nil {
		return nil, err
	}
	return parseNumber(tv.Kind, s)
}

func unmarshalValue(tv typedValue, dst any) error {
	if err := json.Unmarshal(tv.Value, dst); err != nil {
		return fmt.Errorf("failed to decode %s value: %w", tv.Kind, err)
	}
	return nil
}

func parseNumber(kind, s string) (any, error) {
	switch kind {
	case "int":
		n, err := strconv.ParseInt(s, 10, strconv.IntSize)
		return int(n), numberErr(kind, s, err)
	case "int8":
		n, err := strconv.ParseInt(s, 10, 8)
		return int8(n), numberErr(kind, s, err)
	case "int16":
		n, err := strconv.ParseInt(s, 10, 16)
		return int16(n), numberErr(kind, s, err)
	case "int32":
		n, err := strconv.ParseInt(s, 10, 32)
		return int32(n), numberErr(kind, s, err)
	case "int64":
		n, err := strconv.ParseInt(s, 10, 64)
		return n, numberErr(kind, s, err)
	case "uint":
		n, err := strconv.ParseUint(s, 10, strconv.IntSize)
		return uint(n), numberErr(kind, s, err)
	case "uint8":
		n, err := strconv.ParseUint(s, 10, 8)
		return uint8(n), numberErr(kind, s, err)
	case "uint16":
		n, err := strconv.ParseUint(s, 10, 16)
		return uint16(n), numberErr(kind, s, err)
	case "uint32":
		n, err := strconv.ParseUint(s, 10, 32)
		return uint32(n), numberErr(kind, s, err)
	case "uint64":
		n, err := strconv.ParseUint(s, 10, 64)
		return n, numberErr(kind, s, err)
	case kindFloat32:
		f, err := strconv.ParseFloat(s, 32)
		return float32(f), numberErr(kind, s, err)
	case kindFloat64:
		f, err := strconv.ParseFloat(s, 64)
		return f, numberErr(kind, s, err)
	default:
		return nil, fmt.Errorf("unknown property kind %q", kind)
	}
}

func numberErr(kind, s string, err error) error {
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", kind, s, err)
	}
	return nil
}
