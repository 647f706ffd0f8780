package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	Bank   PaymentMethod = "bank"
	Credit PaymentMethod = "credit"
	Cash   PaymentMethod = "cash"
)

type (
	// PaymentMethod is how a purchase was paid.
	PaymentMethod string

	// Date is a calendar date with no time of day. Purchases carry dates,
	// not instants, so every comparison in the core is a date comparison.
	Date struct {
		Year  int
		Month int // 1-12
		Day   int
	}

	// UserProfile holds the per-user settings the calculations depend on.
	UserProfile struct {
		ID               string
		Email            string
		DisplayName      string
		MonthlyIncome    Money
		TrackingStartDay int // 1-31, anchor for the tracking period
	}

	// Budget is a spending category. Fixed and Percent are both optional:
	// with both set the ceiling is the tighter of the two, with neither
	// set the ceiling is zero.
	Budget struct {
		ID      int64
		UserID  string
		Name    string
		Color   string
		Fixed   *Money
		Percent *Percent
	}

	// Purchase is a single logged expense against a budget.
	Purchase struct {
		ID          int64
		UserID      string
		BudgetID    int64
		Amount      Money
		Description string
		Method      PaymentMethod
		Date        Date
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidPercent = errors.New("invalid percentage")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidMethod  = errors.New("invalid payment method")
)

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case Bank, Credit, Cash:
		return true
	}
	return false
}

// NewDate creates a Date from year, month, day without validating it.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// ParseDate parses a date in ISO form (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns the date as a UTC midnight instant, for storage only.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool {
	return o.Before(d)
}

// Validate rejects dates that do not exist on the calendar (Feb 30 and
// friends). It round-trips through time.Date, which silently normalizes
// overflowing days, and fails when normalization changed the date.
func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return ErrInvalidDate
	}
	if DateOf(d.Time()) != d {
		return ErrInvalidDate
	}
	return nil
}
