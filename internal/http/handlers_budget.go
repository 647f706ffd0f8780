package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"budgetbook/internal/auth"
	"budgetbook/internal/core"
	"budgetbook/internal/store"
)

type budgetRequest struct {
	Name             string  `json:"name"`
	Color            string  `json:"color"`
	FixedAmount      *string `json:"fixedAmount"`
	PercentageAmount *string `json:"percentageAmount"`
}

type budgetPayload struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Color            string  `json:"color"`
	FixedAmount      *string `json:"fixedAmount,omitempty"`
	PercentageAmount *string `json:"percentageAmount,omitempty"`
}

func budgetToPayload(b core.Budget) budgetPayload {
	p := budgetPayload{ID: b.ID, Name: b.Name, Color: b.Color}
	if b.Fixed != nil {
		v := b.Fixed.String()
		p.FixedAmount = &v
	}
	if b.Percent != nil {
		v := b.Percent.String()
		p.PercentageAmount = &v
	}
	return p
}

// parseBudgetChange converts the request DTO into the core change set.
// Malformed decimals come back as violations so the client sees them in
// the same shape as validation failures.
func parseBudgetChange(req budgetRequest) (core.BudgetChange, core.Violations) {
	var v core.Violations
	change := core.BudgetChange{Name: req.Name, Color: req.Color}
	if req.FixedAmount != nil {
		m, err := core.ParseMoney(*req.FixedAmount)
		if err != nil {
			v = append(v, core.Violation{Field: "fixedAmount", Reason: "must be a non-negative decimal amount"})
		} else {
			change.Fixed = &m
		}
	}
	if req.PercentageAmount != nil {
		p, err := core.ParsePercent(*req.PercentageAmount)
		if err != nil {
			v = append(v, core.Violation{Field: "percentageAmount", Reason: "must be a percentage between 0 and 100"})
		} else {
			change.Percent = &p
		}
	}
	return change, v
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())

	budgets, err := s.stores.Budgets.ListBudgets(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list budgets", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list budgets")
		return
	}

	payload := make([]budgetPayload, len(budgets))
	for i, b := range budgets {
		payload[i] = budgetToPayload(b)
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	change, parseErrs := parseBudgetChange(req)
	if len(parseErrs) > 0 {
		writeViolations(w, parseErrs)
		return
	}
	if v := core.ValidateBudgetCreate(change); !v.OK() {
		writeViolations(w, v)
		return
	}

	budget := core.Budget{
		UserID:  userID,
		Name:    change.Name,
		Color:   change.Color,
		Fixed:   change.Fixed,
		Percent: change.Percent,
	}
	id, err := s.stores.Budgets.CreateBudget(r.Context(), budget)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create budget", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create budget")
		return
	}
	budget.ID = id

	s.invalidateReport(userID)
	writeJSON(w, http.StatusCreated, budgetToPayload(budget))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	change, parseErrs := parseBudgetChange(req)
	if len(parseErrs) > 0 {
		writeViolations(w, parseErrs)
		return
	}
	if v := core.ValidateBudgetEdit(change); !v.OK() {
		writeViolations(w, v)
		return
	}

	budget := core.Budget{
		ID:      id,
		UserID:  userID,
		Name:    change.Name,
		Color:   change.Color,
		Fixed:   change.Fixed,
		Percent: change.Percent,
	}
	if err := s.stores.Budgets.UpdateBudget(r.Context(), budget); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "budget not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to update budget", "user_id", userID, "budget_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update budget")
		return
	}

	s.invalidateReport(userID)
	writeJSON(w, http.StatusOK, budgetToPayload(budget))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	if err := s.stores.Budgets.DeleteBudget(r.Context(), userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "budget not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete budget", "user_id", userID, "budget_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete budget")
		return
	}

	s.invalidateReport(userID)
	w.WriteHeader(http.StatusNoContent)
}
