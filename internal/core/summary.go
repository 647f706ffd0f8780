package core

import "time"

// PeriodSummary is a persistable snapshot of one tracking period's spend.
// The worker recomputes it whenever purchases change and upserts it keyed
// by user and period start.
type PeriodSummary struct {
	UserID      string
	PeriodStart Date
	PeriodEnd   Date
	Total       Money
	PerMethod   MethodTotals
	Purchases   int
}

// Summarize folds the purchases falling inside [start, end] into a summary
// row. Purchases outside the window are ignored, so callers may pass an
// unfiltered list.
func Summarize(userID string, start, end time.Time, purchases []Purchase) PeriodSummary {
	from, to := DateOf(start), DateOf(end)
	inWindow := make([]Purchase, 0, len(purchases))
	for _, p := range purchases {
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		inWindow = append(inWindow, p)
	}
	totals := Aggregate(inWindow)
	return PeriodSummary{
		UserID:      userID,
		PeriodStart: from,
		PeriodEnd:   to,
		Total:       totals.Total,
		PerMethod:   totals.PerMethod,
		Purchases:   len(inWindow),
	}
}
