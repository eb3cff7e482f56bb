package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantErr  bool
	}{
		{
			name:     "bare array",
			response: `[{"a": 1}]`,
			want:     `[{"a": 1}]`,
		},
		{
			name:     "array with surrounding prose",
			response: "Here are the mappings:\n[{\"a\": 1}, {\"b\": 2}]\nLet me know if this helps.",
			want:     `[{"a": 1}, {"b": 2}]`,
		},
		{
			name:     "markdown code block",
			response: "```json\n[{\"sourceField\": \"Name\"}]\n```",
			want:     `[{"sourceField": "Name"}]`,
		},
		{
			name:     "think tag stripped",
			response: "<think>reasoning about columns\nwith [brackets] inside</think>\n[{\"a\": 1}]",
			want:     `[{"a": 1}]`,
		},
		{
			name:     "nested arrays",
			response: `[{"values": [1, 2, [3]]}]`,
			want:     `[{"values": [1, 2, [3]]}]`,
		},
		{
			name:     "brackets inside strings ignored",
			response: `[{"note": "use [caution] here"}]`,
			want:     `[{"note": "use [caution] here"}]`,
		},
		{
			name:     "escaped quotes inside strings",
			response: `[{"note": "she said \"hi\" [ok]"}]`,
			want:     `[{"note": "she said \"hi\" [ok]"}]`,
		},
		{
			name:     "no array",
			response: "I cannot map these columns.",
			wantErr:  true,
		},
		{
			name:     "unbalanced array",
			response: `[{"a": 1}`,
			wantErr:  true,
		},
		{
			name:     "invalid json inside brackets",
			response: `[{"a": }]`,
			wantErr:  true,
		},
		{
			name:     "empty response",
			response: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONArray(tt.response)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
