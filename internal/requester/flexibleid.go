package requester

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexibleID is an identifier whose wire representation may be a JSON
// string, a JSON number, or null/absent. It normalizes to an optional
// string: numbers render in their decimal form, null and absent leave
// the identifier unset. Identifiers are whole numbers, so non-integral
// or scientific-notation numerics are decode errors, as is any other
// JSON kind.
type FlexibleID struct {
	Value string
	Valid bool
}

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("flexible identifier: empty value")
	}
	switch data[0] {
	case 'n': // null
		*f = FlexibleID{}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("flexible identifier: %w", err)
		}
		*f = FlexibleID{Value: s, Valid: true}
		return nil
	case '{', '[', 't', 'f':
		return fmt.Errorf("flexible identifier: expected string, number, or null, got %s", jsonKind(data[0]))
	default:
		if !isDecimalInteger(data) {
			return fmt.Errorf("flexible identifier: non-integral number %s", data)
		}
		*f = FlexibleID{Value: string(data), Valid: true}
		return nil
	}
}

func (f FlexibleID) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f FlexibleID) String() string {
	if !f.Valid {
		return ""
	}
	return f.Value
}

func jsonKind(b byte) string {
	switch b {
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	default:
		return "unknown"
	}
}

// isDecimalInteger accepts an optionally signed run of digits; anything
// with a fraction or exponent is rejected.
func isDecimalInteger(data []byte) bool {
	if len(data) > 0 && data[0] == '-' {
		data = data[1:]
	}
	if len(data) == 0 {
		return false
	}
	for _, c := range data {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
