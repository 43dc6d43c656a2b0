package gateway

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Fields is a decoded JSON object from the gateway.
// Every accessor returns a documented zero value when the key is absent, null, or of another type,
// so callers never have to guard against missing keys.
type Fields map[string]any

// DecodeFields parses body as a JSON object, keeping numbers exact.
// It returns false when body is not a JSON object.
func DecodeFields(body []byte) (Fields, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	return Fields(obj), true
}

// Has reports whether key is present, even with a null value
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns the string at key, or "" when absent or null.
// Numbers and booleans are rendered in their JSON form.
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Int64 returns the integer at key, or 0 when absent, null or not integral
func (f Fields) Int64(key string) int64 {
	n, _ := f.OptionalInt64(key)
	return n
}

// Int returns the integer at key as an int, or 0
func (f Fields) Int(key string) int {
	return int(f.Int64(key))
}

// OptionalInt64 returns the integer at key and whether one was present
func (f Fields) OptionalInt64(key string) (int64, bool) {
	switch v := f[key].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Bool returns the boolean at key, or false
func (f Fields) Bool(key string) bool {
	v, _ := f[key].(bool)
	return v
}

// Object returns the nested object at key, or an empty Fields
func (f Fields) Object(key string) Fields {
	if v, ok := f[key].(map[string]any); ok {
		return Fields(v)
	}
	return Fields{}
}

// List returns the objects in the array at key, skipping non-object elements.
// It returns nil when the key is absent or not an array.
func (f Fields) List(key string) []Fields {
	items, ok := f[key].([]any)
	if !ok {
		return nil
	}
	list := make([]Fields, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			list = append(list, Fields(obj))
		}
	}
	return list
}

// Time returns the RFC 3339 timestamp at key, or nil when absent or unparsable
func (f Fields) Time(key string) *time.Time {
	s := f.String(key)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
