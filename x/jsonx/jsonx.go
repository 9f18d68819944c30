package jsonx

import "encoding/json"

// Decode converts a bus payload into T. Typed payloads pass through;
// []byte and string are parsed as JSON; anything else (typically the
// map[string]any produced by the config service) is re-encoded first.
func Decode[T any](src any) (T, error) {
	var dst T
	switch v := src.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
		return dst, json.Unmarshal([]byte("null"), &dst)
	case []byte:
		return dst, json.Unmarshal(v, &dst)
	case string:
		return dst, json.Unmarshal([]byte(v), &dst)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return dst, err
		}
		return dst, json.Unmarshal(b, &dst)
	}
}
