// Package services orchestrates storage and messaging around the core
// calculations.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
	"budgetbook/internal/store"
)

// EventPublisher is the slice of the AMQP client the service needs; nil
// disables event publishing without changing request behavior.
type EventPublisher interface {
	PublishPurchaseEvent(ctx context.Context, msg *amqp.PurchaseEventMessage) error
}

// PurchaseService persists purchases and notifies the summary worker.
// Persistence comes first; a failed publish is logged and swallowed so a
// broker outage never loses a user's data.
type PurchaseService struct {
	purchases store.PurchaseStore
	budgets   store.BudgetStore
	publisher EventPublisher
}

func NewPurchaseService(purchases store.PurchaseStore, budgets store.BudgetStore, publisher EventPublisher) *PurchaseService {
	return &PurchaseService{
		purchases: purchases,
		budgets:   budgets,
		publisher: publisher,
	}
}

// Create validates and saves a purchase. The referenced budget must
// belong to the same user; the store's scoped lookup makes a foreign
// budget indistinguishable from a missing one.
func (s *PurchaseService) Create(ctx context.Context, p core.Purchase) (core.Purchase, error) {
	if v := core.ValidatePurchase(p); !v.OK() {
		return core.Purchase{}, v
	}
	if _, err := s.budgets.GetBudget(ctx, p.UserID, p.BudgetID); err != nil {
		return core.Purchase{}, fmt.Errorf("resolve budget %d: %w", p.BudgetID, err)
	}

	id, err := s.purchases.CreatePurchase(ctx, p)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("save purchase: %w", err)
	}
	p.ID = id

	s.publish(ctx, amqp.NewPurchaseEvent(p.UserID, id, amqp.ActionCreated))
	return p, nil
}

// Delete removes a purchase owned by the user.
func (s *PurchaseService) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.purchases.DeletePurchase(ctx, userID, id); err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}

	s.publish(ctx, amqp.NewPurchaseEvent(userID, id, amqp.ActionDeleted))
	return nil
}

func (s *PurchaseService) publish(ctx context.Context, msg *amqp.PurchaseEventMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPurchaseEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish purchase event",
			"user_id", msg.UserID,
			"purchase_id", msg.PurchaseID,
			"action", msg.Action,
			"error", err)
	}
}
