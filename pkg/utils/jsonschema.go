package utils

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateJSONSchema reflects an input schema for T. Struct definitions are
// inlined at the root and unknown properties are rejected unless
// allowAdditional is set.
func GenerateJSONSchema[T any](allowAdditional bool) (json.RawMessage, error) {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: allowAdditional,
	}
	s := r.Reflect(new(T))
	if s == nil {
		return nil, fmt.Errorf("cannot reflect schema for %T", *new(T))
	}
	s.Version = ""

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// DecodeArguments unmarshals raw into v. Unless lenient is set, fields that
// are not part of v are an error. Empty input leaves v untouched.
func DecodeArguments(raw json.RawMessage, v interface{}, lenient bool) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if lenient {
		return json.Unmarshal(trimmed, v)
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
