package request_models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmsIngestRequest_Timestamp(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *LooseTimestamp
	}{
		{"absent", `{"sender":"OM","message":"m"}`, nil},
		{"null", `{"sender":"OM","message":"m","timestamp":null}`, nil},
		{"rfc3339", `{"sender":"OM","message":"m","timestamp":"2024-06-01T08:30:00Z"}`, stamp("2024-06-01T08:30:00Z")},
		{"epoch millis", `{"sender":"OM","message":"m","timestamp":1717230600000}`, stamp("1717230600000")},
		{"fractional millis", `{"sender":"OM","message":"m","timestamp":1717230600000.7}`, stamp("1717230600000")},
		{"boolean", `{"sender":"OM","message":"m","timestamp":true}`, stamp("")},
		{"object", `{"sender":"OM","message":"m","timestamp":{"s":1}}`, stamp("")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var req SmsIngestRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))
			assert.Equal(t, "OM", req.Sender)
			assert.Equal(t, tc.want, req.Timestamp)
		})
	}
}

func stamp(s string) *LooseTimestamp {
	v := LooseTimestamp(s)
	return &v
}
