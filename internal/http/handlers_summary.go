package http

import (
	"errors"
	"log/slog"
	"net/http"

	"budgetbook/internal/auth"
	"budgetbook/internal/core"
	"budgetbook/internal/store"
)

type methodTotalsPayload struct {
	Bank   string `json:"bank"`
	Credit string `json:"credit"`
	Cash   string `json:"cash"`
}

type budgetReportPayload struct {
	Budget    budgetPayload `json:"budget"`
	Ceiling   string        `json:"ceiling"`
	Spent     string        `json:"spent"`
	Remaining string        `json:"remaining"`
}

// summaryResponse is the full dashboard view for the current tracking
// period. It is what the report cache memoizes per user.
type summaryResponse struct {
	PeriodStart   string                `json:"periodStart"`
	PeriodEnd     string                `json:"periodEnd"`
	MonthlyIncome string                `json:"monthlyIncome"`
	Budgets       []budgetReportPayload `json:"budgets"`
	PerMethod     methodTotalsPayload   `json:"perMethod"`
	Total         string                `json:"total"`
}

type storedSummaryPayload struct {
	PeriodStart string              `json:"periodStart"`
	PeriodEnd   string              `json:"periodEnd"`
	Total       string              `json:"total"`
	PerMethod   methodTotalsPayload `json:"perMethod"`
	Purchases   int                 `json:"purchases"`
}

func methodTotalsToPayload(t core.MethodTotals) methodTotalsPayload {
	return methodTotalsPayload{
		Bank:   t.Bank.String(),
		Credit: t.Credit.String(),
		Cash:   t.Cash.String(),
	}
}

// handleCurrentSummary computes the report for the period containing now:
// each budget's resolved ceiling, the spend against it and the per-method
// breakdown. Results are cached per user and invalidated on any mutation.
func (s *Server) handleCurrentSummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())

	if cached, ok := s.reportCache.Get(userID); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	profile, err := s.stores.Profiles.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no profile saved yet")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to load profile", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	budgets, err := s.stores.Budgets.ListBudgets(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list budgets", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	purchases, err := s.stores.Purchases.ListPurchases(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list purchases", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}

	start, end := core.CurrentPeriod(s.now(), profile.TrackingStartDay)
	from, to := core.DateOf(start), core.DateOf(end)
	inPeriod := make([]core.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		inPeriod = append(inPeriod, p)
	}

	reports, totals := core.Report(budgets, inPeriod, profile.MonthlyIncome)

	resp := summaryResponse{
		PeriodStart:   from.String(),
		PeriodEnd:     to.String(),
		MonthlyIncome: profile.MonthlyIncome.String(),
		Budgets:       make([]budgetReportPayload, len(reports)),
		PerMethod:     methodTotalsToPayload(totals.PerMethod),
		Total:         totals.Total.String(),
	}
	for i, rep := range reports {
		resp.Budgets[i] = budgetReportPayload{
			Budget:    budgetToPayload(rep.Budget),
			Ceiling:   rep.Ceiling.String(),
			Spent:     rep.Spent.String(),
			Remaining: rep.Remaining.String(),
		}
	}

	s.reportCache.Set(userID, resp)
	writeJSON(w, http.StatusOK, resp)
}

// handleListSummaries returns the historical period rows maintained by
// the summary worker.
func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())

	summaries, err := s.stores.Summaries.ListSummaries(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list summaries", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list summaries")
		return
	}

	payload := make([]storedSummaryPayload, len(summaries))
	for i, sum := range summaries {
		payload[i] = storedSummaryPayload{
			PeriodStart: sum.PeriodStart.String(),
			PeriodEnd:   sum.PeriodEnd.String(),
			Total:       sum.Total.String(),
			PerMethod:   methodTotalsToPayload(sum.PerMethod),
			Purchases:   sum.Purchases,
		}
	}
	writeJSON(w, http.StatusOK, payload)
}
