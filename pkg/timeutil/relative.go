package timeutil

import (
	"fmt"
	"time"
)

// Relative renders a human time label for feed items: "Just now",
// "N mins ago", "N hrs ago", "N days ago", then the full date past a week.
func Relative(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%d mins ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hrs ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	default:
		return t.Format("January 02, 2006")
	}
}
