package response_test

import (
	"encoding/json"
	"testing"
	"time"

	"markdown-todo-sync/pkg/response"
)

func TestDateTimeMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "utc", in: time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC), want: `"2024-05-01T15:30:00Z"`},
		{name: "offset normalized", in: time.Date(2024, 5, 1, 22, 30, 0, 0, time.FixedZone("ICT", 7*3600)), want: `"2024-05-01T15:30:00Z"`},
		{name: "sub-second dropped", in: time.Date(2024, 5, 1, 15, 30, 0, 999, time.UTC), want: `"2024-05-01T15:30:00Z"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(response.DateTime(tt.in))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("MarshalJSON() = %s, want %s", b, tt.want)
			}
		})
	}
}
