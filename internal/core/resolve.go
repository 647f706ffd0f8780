package core

// ResolveCeiling computes the effective spending limit of a budget given
// the user's monthly income:
//
//  1. fixed and percentage both set: the tighter of the two ("hybrid")
//  2. only fixed set: the fixed amount
//  3. only percentage set: that share of the income
//  4. neither set: zero
//
// The function is total; income of zero simply yields a zero percentage
// share.
func ResolveCeiling(b Budget, income Money) Money {
	switch {
	case b.Fixed != nil && b.Percent != nil:
		return minMoney(*b.Fixed, b.Percent.Of(income))
	case b.Fixed != nil:
		return *b.Fixed
	case b.Percent != nil:
		return b.Percent.Of(income)
	default:
		return Money{}
	}
}
