package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberOrStringJSON(t *testing.T) {
	tests := []struct {
		name  string
		value NumberOrString
		json  string
	}{
		{"number", NewNumber(7), `7`},
		{"zero", NumberOrString{}, `0`},
		{"string", NewString("abc"), `"abc"`},
		{"numeric string", NewString("7"), `"7"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(data))

			var decoded NumberOrString
			require.NoError(t, json.Unmarshal([]byte(tt.json), &decoded))
			assert.Equal(t, tt.value, decoded)
		})
	}
}

func TestNumberOrStringRejectsInvalid(t *testing.T) {
	for _, input := range []string{`-1`, `1.5`, `true`, `{}`} {
		var v NumberOrString
		assert.Error(t, json.Unmarshal([]byte(input), &v), "input %s", input)
	}
}

func TestNumberAndStringAreDistinct(t *testing.T) {
	assert.NotEqual(t, NewNumber(7), NewString("7"))

	seen := map[RequestID]bool{NewNumber(7): true}
	assert.False(t, seen[NewString("7")])
	assert.True(t, seen[NewNumber(7)])
}

func TestNumberOrStringAccessors(t *testing.T) {
	n, ok := NewNumber(42).Number()
	assert.True(t, ok)
	assert.Equal(t, uint64(42), n)

	_, ok = NewNumber(42).Str()
	assert.False(t, ok)

	s, ok := NewString("x").Str()
	assert.True(t, ok)
	assert.Equal(t, "x", s)
	assert.Equal(t, "x", NewString("x").String())
	assert.Equal(t, "42", NewNumber(42).String())
}

func TestProgressTokenJSON(t *testing.T) {
	meta := RequestMeta{ProgressToken: &ProgressToken{NewString("tok")}}
	data, err := json.Marshal(meta)
	require.NoError(t, err)
	assert.JSONEq(t, `{"progressToken":"tok"}`, string(data))

	var decoded RequestMeta
	require.NoError(t, json.Unmarshal([]byte(`{"progressToken":3}`), &decoded))
	require.NotNil(t, decoded.ProgressToken)
	assert.Equal(t, NewProgressToken(NewNumber(3)), *decoded.ProgressToken)
}
