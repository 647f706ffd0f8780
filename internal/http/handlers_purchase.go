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

type purchaseRequest struct {
	BudgetID      int64  `json:"budgetId"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
	PaymentMethod string `json:"paymentMethod"`
	PurchaseDate  string `json:"purchaseDate"`
}

type purchasePayload struct {
	ID            int64  `json:"id"`
	BudgetID      int64  `json:"budgetId"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
	PaymentMethod string `json:"paymentMethod"`
	PurchaseDate  string `json:"purchaseDate"`
}

func purchaseToPayload(p core.Purchase) purchasePayload {
	return purchasePayload{
		ID:            p.ID,
		BudgetID:      p.BudgetID,
		Amount:        p.Amount.String(),
		Description:   p.Description,
		PaymentMethod: string(p.Method),
		PurchaseDate:  p.Date.String(),
	}
}

// handleListPurchases returns the user's purchases, newest first,
// optionally narrowed by ?q= text, ?method= and ?window= filters.
func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())

	purchases, err := s.stores.Purchases.ListPurchases(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list purchases", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list purchases")
		return
	}

	criteria := core.Criteria{
		Text:   r.URL.Query().Get("q"),
		Method: core.PaymentMethod(r.URL.Query().Get("method")),
		Window: core.Window(r.URL.Query().Get("window")),
	}
	filtered := core.Filter(purchases, criteria, s.now())

	payload := make([]purchasePayload, len(filtered))
	for i, p := range filtered {
		payload[i] = purchaseToPayload(p)
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var parseErrs core.Violations
	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		parseErrs = append(parseErrs, core.Violation{Field: "amount", Reason: "must be a positive decimal amount"})
	}
	date, err := core.ParseDate(req.PurchaseDate)
	if err != nil {
		parseErrs = append(parseErrs, core.Violation{Field: "purchaseDate", Reason: "must be a date in YYYY-MM-DD form"})
	}
	if len(parseErrs) > 0 {
		writeViolations(w, parseErrs)
		return
	}

	purchase := core.Purchase{
		UserID:      userID,
		BudgetID:    req.BudgetID,
		Amount:      amount,
		Description: req.Description,
		Method:      core.PaymentMethod(req.PaymentMethod),
		Date:        date,
	}

	created, err := s.purchases.Create(r.Context(), purchase)
	if err != nil {
		var v core.Violations
		if errors.As(err, &v) {
			writeViolations(w, v)
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "budget not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create purchase", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create purchase")
		return
	}

	s.invalidateReport(userID)
	writeJSON(w, http.StatusCreated, purchaseToPayload(created))
}

func (s *Server) handleDeletePurchase(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid purchase id")
		return
	}

	if err := s.purchases.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "purchase not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete purchase", "user_id", userID, "purchase_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete purchase")
		return
	}

	s.invalidateReport(userID)
	w.WriteHeader(http.StatusNoContent)
}
