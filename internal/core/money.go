// Package core holds the calculation engine of the tracker: money and
// percentage arithmetic, tracking-period boundaries, budget ceilings,
// aggregation and filtering. Everything in this package is a pure function
// of its inputs; persistence and transport live elsewhere.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type (
	// Money is an amount in integer cents. Monetary math stays in cents so
	// comparisons near equality never suffer binary floating-point drift.
	Money struct {
		Cents int64
	}

	// Percent is a percentage in integer hundredths: 12.5% is 1250.
	Percent struct {
		Hundredths int64
	}
)

// ParseMoney converts a decimal string to Money with half-up rounding on
// the third decimal place. It accepts both dot (12.34) and comma (12,34)
// separators. Negative values are rejected; zero is allowed, callers that
// need strictly positive amounts enforce that in validation.
func ParseMoney(s string) (Money, error) {
	cents, err := parseScaled(s, 100)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// ParsePercent converts a decimal string to a Percent in [0, 100].
func ParsePercent(s string) (Percent, error) {
	hundredths, err := parseScaled(s, 100)
	if err != nil || hundredths > 100*100 {
		return Percent{}, ErrInvalidPercent
	}
	return Percent{Hundredths: hundredths}, nil
}

// parseScaled parses a non-negative decimal into an integer scaled by
// scale (100 for two fractional digits), rounding half-up on the digit
// after the last kept one.
func parseScaled(s string, scale int64) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("signed value")
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("malformed decimal")
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, fmt.Errorf("non-digit character")
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, err
	}
	if iv > (1<<63-1)/scale {
		return 0, fmt.Errorf("value overflows")
	}
	var frac int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		frac = d1 * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	return iv*scale + frac, nil
}

// String formats the amount with two decimals and a dot separator.
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Neg reports whether the amount is below zero.
func (m Money) Neg() bool {
	return m.Cents < 0
}

// Of applies the percentage to an amount, rounding half-up to the cent.
func (p Percent) Of(m Money) Money {
	// p.Hundredths/10000 is the true ratio; keep everything in int64.
	return Money{Cents: (m.Cents*p.Hundredths + 5000) / 10000}
}

// String formats the percentage with up to two decimals (12.5, not 12.50).
func (p Percent) String() string {
	whole := p.Hundredths / 100
	frac := p.Hundredths % 100
	if frac == 0 {
		return strconv.FormatInt(whole, 10)
	}
	s := fmt.Sprintf("%d.%02d", whole, frac)
	return strings.TrimRight(s, "0")
}

func minMoney(a, b Money) Money {
	if a.Cents < b.Cents {
		return a
	}
	return b
}
