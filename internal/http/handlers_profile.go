package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"budgetbook/internal/auth"
	"budgetbook/internal/core"
	"budgetbook/internal/store"
)

type profilePayload struct {
	Email            string `json:"email"`
	DisplayName      string `json:"displayName"`
	MonthlyIncome    string `json:"monthlyIncome"`
	TrackingStartDay int    `json:"trackingStartDay"`
}

func profileToPayload(p core.UserProfile) profilePayload {
	return profilePayload{
		Email:            p.Email,
		DisplayName:      p.DisplayName,
		MonthlyIncome:    p.MonthlyIncome.String(),
		TrackingStartDay: p.TrackingStartDay,
	}
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())

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
	writeJSON(w, http.StatusOK, profileToPayload(profile))
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())

	var req profilePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	income, err := core.ParseMoney(req.MonthlyIncome)
	if err != nil {
		writeViolations(w, core.Violations{{Field: "monthlyIncome", Reason: "must be a non-negative decimal amount"}})
		return
	}

	profile := core.UserProfile{
		ID:               userID,
		Email:            req.Email,
		DisplayName:      req.DisplayName,
		MonthlyIncome:    income,
		TrackingStartDay: req.TrackingStartDay,
	}
	if v := core.ValidateProfile(profile); !v.OK() {
		writeViolations(w, v)
		return
	}

	if err := s.stores.Profiles.PutProfile(r.Context(), profile); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save profile", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	s.invalidateReport(userID)
	writeJSON(w, http.StatusOK, profileToPayload(profile))
}
