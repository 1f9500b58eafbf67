package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.input))
		})
	}
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"valid json untouched",
			`{"keyphrases": [{"phrase": "x", "score": 0.9}]}`,
			`{"keyphrases": [{"phrase": "x", "score": 0.9}]}`,
		},
		{
			"trailing comma in object",
			`{"phrase": "x", "score": 0.9,}`,
			`{"phrase": "x", "score": 0.9}`,
		},
		{
			"trailing comma in array",
			`{"items": [1, 2, 3,]}`,
			`{"items": [1, 2, 3]}`,
		},
		{
			"trailing comma with whitespace",
			"{\"a\": 1,\n}",
			"{\"a\": 1\n}",
		},
		{
			"unquoted keys",
			`{phrase: "x", score: 0.9}`,
			`{"phrase": "x", "score": 0.9}`,
		},
		{
			"string contents preserved",
			`{"phrase": "a, b: {c},"}`,
			`{"phrase": "a, b: {c},"}`,
		},
		{
			"escaped quote inside string",
			`{"phrase": "say \"hi\","}`,
			`{"phrase": "say \"hi\""}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairJSON(tt.input)
			assert.Equal(t, tt.want, got)
			require.True(t, json.Valid([]byte(got)), "repaired output must be valid JSON: %s", got)
		})
	}
}
