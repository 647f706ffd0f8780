package core

import (
	"strings"
	"time"
)

const (
	WindowAll   Window = "all"
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

type (
	// Window is a relative date filter. Week and month are rolling windows
	// (7 and 30 days back from now), not calendar units.
	Window string

	// Criteria are conjunctive purchase filters; zero values disable the
	// corresponding criterion, as do the explicit "all" sentinels.
	Criteria struct {
		Text   string
		Method PaymentMethod // "" or "all" matches every method
		Window Window
	}
)

// Matches reports whether the purchase satisfies every active criterion.
// now anchors the relative window; the comparison is done on calendar
// dates in now's location.
func (c Criteria) Matches(p Purchase, now time.Time) bool {
	if c.Text != "" && !strings.Contains(strings.ToLower(p.Description), strings.ToLower(c.Text)) {
		return false
	}
	if c.Method != "" && c.Method != "all" && p.Method != c.Method {
		return false
	}
	switch c.Window {
	case WindowToday:
		return !p.Date.Before(DateOf(now))
	case WindowWeek:
		return !p.Date.Before(DateOf(now.AddDate(0, 0, -7)))
	case WindowMonth:
		return !p.Date.Before(DateOf(now.AddDate(0, 0, -30)))
	}
	return true
}

// Filter returns the purchases matching the criteria, preserving input
// order. With all criteria at their defaults the input comes back
// unchanged, and applying the same criteria twice is a no-op.
func Filter(purchases []Purchase, c Criteria, now time.Time) []Purchase {
	out := make([]Purchase, 0, len(purchases))
	for _, p := range purchases {
		if c.Matches(p, now) {
			out = append(out, p)
		}
	}
	return out
}
