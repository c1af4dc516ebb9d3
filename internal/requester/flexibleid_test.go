package requester

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleIDUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FlexibleID
		wantErr bool
	}{
		{
			name:  "string value accepted verbatim",
			input: `"abc-123"`,
			want:  FlexibleID{Value: "abc-123", Valid: true},
		},
		{
			name:  "integer formatted as decimal string",
			input: `987654321`,
			want:  FlexibleID{Value: "987654321", Valid: true},
		},
		{
			name:  "negative integer",
			input: `-42`,
			want:  FlexibleID{Value: "-42", Valid: true},
		},
		{
			name:  "null is absent",
			input: `null`,
			want:  FlexibleID{},
		},
		{
			name:    "fractional number rejected",
			input:   `987654321.0`,
			wantErr: true,
		},
		{
			name:    "scientific notation rejected",
			input:   `1e9`,
			wantErr: true,
		},
		{
			name:    "boolean rejected",
			input:   `true`,
			wantErr: true,
		},
		{
			name:    "object rejected",
			input:   `{"id":1}`,
			wantErr: true,
		},
		{
			name:    "array rejected",
			input:   `[1]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got FlexibleID
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlexibleIDAbsentField(t *testing.T) {
	var payload struct {
		SessionID FlexibleID `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &payload))
	assert.False(t, payload.SessionID.Valid)
	assert.Empty(t, payload.SessionID.String())
}

func TestFlexibleIDRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"string keeps original form", `"abc"`, `"abc"`},
		{"integer becomes decimal string", `987654321`, `"987654321"`},
		{"null stays null", `null`, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id FlexibleID
			require.NoError(t, json.Unmarshal([]byte(tt.input), &id))
			out, err := json.Marshal(id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}
