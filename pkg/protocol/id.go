package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// NumberOrString is a JSON value that is either a non-negative integer or a
// string. The zero value is the number 0. Values are comparable with == and
// usable as map keys; the number 7 and the string "7" are different values.
type NumberOrString struct {
	num   uint64
	str   string
	isStr bool
}

// NewNumber returns a numeric NumberOrString.
func NewNumber(n uint64) NumberOrString {
	return NumberOrString{num: n}
}

// NewString returns a string NumberOrString.
func NewString(s string) NumberOrString {
	return NumberOrString{str: s, isStr: true}
}

// IsString reports whether v holds a string.
func (v NumberOrString) IsString() bool {
	return v.isStr
}

// Number returns the numeric value and true if v holds a number.
func (v NumberOrString) Number() (uint64, bool) {
	return v.num, !v.isStr
}

// Str returns the string value and true if v holds a string.
func (v NumberOrString) Str() (string, bool) {
	return v.str, v.isStr
}

// String renders v for logs. It is not an injective encoding; use v itself as a
// map key.
func (v NumberOrString) String() string {
	if v.isStr {
		return v.str
	}
	return strconv.FormatUint(v.num, 10)
}

// MarshalJSON implements json.Marshaler
func (v NumberOrString) MarshalJSON() ([]byte, error) {
	if v.isStr {
		return json.Marshal(v.str)
	}
	return []byte(strconv.FormatUint(v.num, 10)), nil
}

// UnmarshalJSON implements json.Unmarshaler. Numbers must be non-negative
// integers.
func (v *NumberOrString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty id")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = NewString(s)
		return nil
	}
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("id must be a string or a non-negative integer, got %s", data)
	}
	*v = NewNumber(n)
	return nil
}

// RequestID correlates a request with its response.
type RequestID = NumberOrString

// ProgressToken correlates progress notifications with the request they report
// on. It shares the integer-or-string shape of RequestID but is a distinct type,
// so the two are never confused even when their values coincide.
type ProgressToken struct {
	NumberOrString
}

// NewProgressToken wraps v as a progress token.
func NewProgressToken(v NumberOrString) ProgressToken {
	return ProgressToken{NumberOrString: v}
}
