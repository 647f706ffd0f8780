// Package worker maintains the persisted period summaries. It reacts to
// purchase events from the API server and periodically recomputes every
// user as a safety net against lost messages.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
	"budgetbook/internal/export"
	"budgetbook/internal/store"
)

type SummaryWorker struct {
	profiles  store.ProfileStore
	purchases store.PurchaseStore
	summaries store.SummaryStore
	exporter  export.SummaryWriter // nil disables sheet export
	batchSize int

	// next is the rotation cursor into the sorted user list, so batched
	// recompute passes advance instead of rereading the same prefix.
	next int

	// now is swappable so period boundaries are deterministic in tests.
	now func() time.Time
}

func NewSummaryWorker(profiles store.ProfileStore, purchases store.PurchaseStore, summaries store.SummaryStore, exporter export.SummaryWriter, batchSize int) *SummaryWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &SummaryWorker{
		profiles:  profiles,
		purchases: purchases,
		summaries: summaries,
		exporter:  exporter,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// HandlePurchaseEvent recomputes the summary for the user named in the
// event. The message only carries IDs; the worker re-reads the purchases
// from storage so create and delete events take the same path.
func (w *SummaryWorker) HandlePurchaseEvent(ctx context.Context, msg *amqp.PurchaseEventMessage) error {
	slog.InfoContext(ctx, "Processing purchase event",
		"user_id", msg.UserID,
		"purchase_id", msg.PurchaseID,
		"action", msg.Action)

	return w.RecomputeUser(ctx, msg.UserID)
}

// RecomputeUser rebuilds and upserts the current-period summary for one
// user. A user without a profile has no period defined yet; the event is
// acked without a summary row.
func (w *SummaryWorker) RecomputeUser(ctx context.Context, userID string) error {
	profile, err := w.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "Skipping summary for user without profile", "user_id", userID)
			return nil
		}
		return fmt.Errorf("load profile: %w", err)
	}

	purchases, err := w.purchases.ListPurchases(ctx, userID)
	if err != nil {
		return fmt.Errorf("list purchases: %w", err)
	}

	start, end := core.CurrentPeriod(w.now(), profile.TrackingStartDay)
	summary := core.Summarize(userID, start, end, purchases)

	if err := w.summaries.UpsertSummary(ctx, summary); err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}

	w.export(ctx, summary)
	return nil
}

// RecomputeAll refreshes users' current summaries, up to the batch size
// per call. It backs the periodic tick and the startup catch-up. With more
// users than the batch size, each call picks up where the previous one
// stopped and wraps around, so every user is reached within
// ceil(users/batch) ticks.
func (w *SummaryWorker) RecomputeAll(ctx context.Context) error {
	all, err := w.profiles.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(all) == 0 {
		return nil
	}

	userIDs := all
	if len(all) > w.batchSize {
		userIDs = make([]string, 0, w.batchSize)
		for i := 0; i < w.batchSize; i++ {
			userIDs = append(userIDs, all[(w.next+i)%len(all)])
		}
		w.next = (w.next + w.batchSize) % len(all)
	} else {
		w.next = 0
	}

	var failed int
	for _, userID := range userIDs {
		if err := w.RecomputeUser(ctx, userID); err != nil {
			slog.ErrorContext(ctx, "Failed to recompute summary", "user_id", userID, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("recompute failed for %d of %d users", failed, len(userIDs))
	}

	slog.InfoContext(ctx, "Recompute pass completed", "users", len(userIDs))
	return nil
}

// export pushes the summary to the configured sheet. Export failures are
// logged and swallowed; the upserted row is the source of truth.
func (w *SummaryWorker) export(ctx context.Context, s core.PeriodSummary) {
	if w.exporter == nil {
		return
	}
	ref, err := w.exporter.AppendSummary(ctx, s)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to export summary",
			"user_id", s.UserID,
			"period_start", s.PeriodStart.String(),
			"error", err)
		return
	}
	slog.InfoContext(ctx, "Summary exported", "user_id", s.UserID, "row_ref", ref)
}
