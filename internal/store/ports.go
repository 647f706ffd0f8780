// Package store persists the tracker's records. The SQLite repository is
// the production implementation; Memory backs tests and local runs without
// a database file.
package store

import (
	"context"
	"errors"

	"budgetbook/internal/core"
)

// ErrNotFound is returned when a record does not exist or belongs to a
// different user. The two cases are indistinguishable on purpose.
var ErrNotFound = errors.New("record not found")

type (
	ProfileStore interface {
		// GetProfile returns the profile for a user, ErrNotFound if none
		// has been saved yet.
		GetProfile(ctx context.Context, userID string) (core.UserProfile, error)
		// PutProfile inserts or replaces the user's profile.
		PutProfile(ctx context.Context, p core.UserProfile) error
		// ListUserIDs returns every user with a saved profile, for the
		// worker's periodic recompute pass.
		ListUserIDs(ctx context.Context) ([]string, error)
	}

	BudgetStore interface {
		ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
		GetBudget(ctx context.Context, userID string, id int64) (core.Budget, error)
		CreateBudget(ctx context.Context, b core.Budget) (int64, error)
		UpdateBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, userID string, id int64) error
	}

	PurchaseStore interface {
		ListPurchases(ctx context.Context, userID string) ([]core.Purchase, error)
		CreatePurchase(ctx context.Context, p core.Purchase) (int64, error)
		DeletePurchase(ctx context.Context, userID string, id int64) error
	}

	SummaryStore interface {
		// UpsertSummary inserts or replaces the summary row keyed by user
		// and period start.
		UpsertSummary(ctx context.Context, s core.PeriodSummary) error
		ListSummaries(ctx context.Context, userID string) ([]core.PeriodSummary, error)
	}
)
