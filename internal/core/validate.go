package core

import "strings"

type (
	// Violation is a single field-level validation failure.
	Violation struct {
		Field  string
		Reason string
	}

	// Violations is the full set of failures for one mutation request. A
	// mutation with any violation is rejected whole; nothing is partially
	// applied.
	Violations []Violation
)

// OK reports whether the input passed validation.
func (v Violations) OK() bool {
	return len(v) == 0
}

func (v Violations) Error() string {
	reasons := make([]string, len(v))
	for i, f := range v {
		reasons[i] = f.Field + ": " + f.Reason
	}
	return strings.Join(reasons, "; ")
}

// BudgetChange is the mutable part of a budget, as submitted by a create
// or edit request.
type BudgetChange struct {
	Name    string
	Color   string
	Fixed   *Money
	Percent *Percent
}

// ValidateBudgetCreate checks a budget creation request. On the create
// path a provided fixed amount must be strictly positive and a provided
// percentage must be in (0, 100]. The edit path is laxer; the asymmetry
// is inherited product behavior and must not be unified silently.
func ValidateBudgetCreate(c BudgetChange) Violations {
	var v Violations
	if strings.TrimSpace(c.Name) == "" {
		v = append(v, Violation{Field: "name", Reason: "name is required"})
	}
	if c.Fixed != nil && c.Fixed.Cents <= 0 {
		v = append(v, Violation{Field: "fixedAmount", Reason: "must be greater than zero"})
	}
	if c.Percent != nil && (c.Percent.Hundredths <= 0 || c.Percent.Hundredths > 100*100) {
		v = append(v, Violation{Field: "percentageAmount", Reason: "must be greater than 0 and at most 100"})
	}
	return v
}

// ValidateBudgetEdit checks a budget edit request. Fixed amounts may be
// zero and percentages may span the full [0, 100] range.
func ValidateBudgetEdit(c BudgetChange) Violations {
	var v Violations
	if strings.TrimSpace(c.Name) == "" {
		v = append(v, Violation{Field: "name", Reason: "name is required"})
	}
	if c.Fixed != nil && c.Fixed.Cents < 0 {
		v = append(v, Violation{Field: "fixedAmount", Reason: "must not be negative"})
	}
	if c.Percent != nil && (c.Percent.Hundredths < 0 || c.Percent.Hundredths > 100*100) {
		v = append(v, Violation{Field: "percentageAmount", Reason: "must be between 0 and 100"})
	}
	return v
}

// ValidatePurchase checks a purchase entry.
func ValidatePurchase(p Purchase) Violations {
	var v Violations
	if p.Amount.Cents <= 0 {
		v = append(v, Violation{Field: "amount", Reason: "must be greater than zero"})
	}
	if strings.TrimSpace(p.Description) == "" {
		v = append(v, Violation{Field: "description", Reason: "description is required"})
	}
	if !p.Method.Valid() {
		v = append(v, Violation{Field: "paymentMethod", Reason: "must be bank, credit or cash"})
	}
	if err := p.Date.Validate(); err != nil {
		v = append(v, Violation{Field: "purchaseDate", Reason: "must be a valid calendar date"})
	}
	return v
}

// ValidateProfile checks the user profile settings.
func ValidateProfile(p UserProfile) Violations {
	var v Violations
	if strings.TrimSpace(p.Email) == "" {
		v = append(v, Violation{Field: "email", Reason: "email is required"})
	}
	if p.MonthlyIncome.Neg() {
		v = append(v, Violation{Field: "monthlyIncome", Reason: "must not be negative"})
	}
	if p.TrackingStartDay < 1 || p.TrackingStartDay > 31 {
		v = append(v, Violation{Field: "trackingStartDay", Reason: "must be between 1 and 31"})
	}
	return v
}
