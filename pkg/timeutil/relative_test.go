package timeutil

import (
	"testing"
	"time"
)

func TestRelative(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{name: "seconds ago", t: now.Add(-30 * time.Second), want: "Just now"},
		{name: "minutes ago", t: now.Add(-5 * time.Minute), want: "5 mins ago"},
		{name: "hours ago", t: now.Add(-3 * time.Hour), want: "3 hrs ago"},
		{name: "days ago", t: now.Add(-2 * 24 * time.Hour), want: "2 days ago"},
		{name: "over a week ago", t: now.Add(-10 * 24 * time.Hour), want: "August 20, 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Relative(tt.t, now); got != tt.want {
				t.Errorf("Relative() = %q, want %q", got, tt.want)
			}
		})
	}
}
