package core

import "time"

// CurrentPeriod computes the tracking period containing now, anchored to
// the user's tracking start day-of-month. The period starts at 00:00:00 on
// the anchor day and ends one millisecond before the next anchor, i.e. at
// 23:59:59.999 on the previous day, in now's location.
//
// Anchor days that do not exist in a month (29-31 applied to February and
// short months) clamp to that month's last day; they never roll forward
// into the following month. The clamped day also decides which side of the
// boundary now falls on, so with anchor 31 a February 28th already belongs
// to the February period.
func CurrentPeriod(now time.Time, trackingStartDay int) (start, end time.Time) {
	if trackingStartDay < 1 {
		trackingStartDay = 1
	}
	if trackingStartDay > 31 {
		trackingStartDay = 31
	}

	loc := now.Location()
	y, m, _ := now.Date()

	if now.Day() >= anchorDay(y, m, trackingStartDay) {
		start = time.Date(y, m, anchorDay(y, m, trackingStartDay), 0, 0, 0, 0, loc)
	} else {
		py, pm := y, m-1
		if pm < time.January {
			py, pm = y-1, time.December
		}
		start = time.Date(py, pm, anchorDay(py, pm, trackingStartDay), 0, 0, 0, 0, loc)
	}

	sy, sm, _ := start.Date()
	ny, nm := sy, sm+1
	if nm > time.December {
		ny, nm = sy+1, time.January
	}
	next := time.Date(ny, nm, anchorDay(ny, nm, trackingStartDay), 0, 0, 0, 0, loc)
	return start, next.Add(-time.Millisecond)
}

// anchorDay clamps the tracking start day to the last day of the month.
func anchorDay(year int, month time.Month, day int) int {
	if last := daysIn(year, month); day > last {
		return last
	}
	return day
}

// daysIn returns the number of days in the given month. Day zero of the
// next month normalizes to the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
