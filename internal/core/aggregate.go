package core

type (
	// MethodTotals is the spend broken down by payment method.
	MethodTotals struct {
		Bank   Money
		Credit Money
		Cash   Money
	}

	// Totals is the output of Aggregate over a purchase collection.
	Totals struct {
		PerBudget map[int64]Money
		PerMethod MethodTotals
		Total     Money
	}

	// BudgetReport pairs a budget with its resolved ceiling and the spend
	// observed against it. Remaining may be negative; being over budget is
	// a representable state, not an error.
	BudgetReport struct {
		Budget    Budget
		Ceiling   Money
		Spent     Money
		Remaining Money
	}
)

// Sum returns the total across all payment methods.
func (t MethodTotals) Sum() Money {
	return t.Bank.Add(t.Credit).Add(t.Cash)
}

func (t *MethodTotals) add(method PaymentMethod, amount Money) {
	switch method {
	case Bank:
		t.Bank = t.Bank.Add(amount)
	case Credit:
		t.Credit = t.Credit.Add(amount)
	case Cash:
		t.Cash = t.Cash.Add(amount)
	}
}

// Aggregate sums purchase amounts grouped by budget and by payment method.
// The caller typically pre-filters the collection to the active tracking
// period. A purchase referencing a budget the caller does not know simply
// becomes its own group; ownership checks happen before the core.
func Aggregate(purchases []Purchase) Totals {
	t := Totals{PerBudget: make(map[int64]Money)}
	for _, p := range purchases {
		t.PerBudget[p.BudgetID] = t.PerBudget[p.BudgetID].Add(p.Amount)
		t.PerMethod.add(p.Method, p.Amount)
		t.Total = t.Total.Add(p.Amount)
	}
	return t
}

// Report resolves each budget's ceiling against the income and joins it
// with the aggregated spend, preserving the input budget order.
func Report(budgets []Budget, purchases []Purchase, income Money) ([]BudgetReport, Totals) {
	totals := Aggregate(purchases)
	reports := make([]BudgetReport, len(budgets))
	for i, b := range budgets {
		ceiling := ResolveCeiling(b, income)
		spent := totals.PerBudget[b.ID]
		reports[i] = BudgetReport{
			Budget:    b,
			Ceiling:   ceiling,
			Spent:     spent,
			Remaining: Money{Cents: ceiling.Cents - spent.Cents},
		}
	}
	return reports, totals
}
