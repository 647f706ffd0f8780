package store

import (
	"context"
	"sort"
	"sync"

	"budgetbook/internal/core"
)

// Memory is an in-memory store used by tests and by local runs without a
// database file. It mirrors the SQLite repository's behavior, including
// the user -> budgets -> purchases delete cascade.
type Memory struct {
	mu        sync.Mutex
	profiles  map[string]core.UserProfile
	budgets   map[int64]core.Budget
	purchases map[int64]core.Purchase
	summaries map[string]map[string]core.PeriodSummary // userID -> periodStart -> row
	nextID    int64
}

var (
	_ ProfileStore  = (*Memory)(nil)
	_ BudgetStore   = (*Memory)(nil)
	_ PurchaseStore = (*Memory)(nil)
	_ SummaryStore  = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		profiles:  make(map[string]core.UserProfile),
		budgets:   make(map[int64]core.Budget),
		purchases: make(map[int64]core.Purchase),
		summaries: make(map[string]map[string]core.PeriodSummary),
	}
}

func (m *Memory) GetProfile(_ context.Context, userID string) (core.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return core.UserProfile{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) PutProfile(_ context.Context, p core.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
	return nil
}

func (m *Memory) ListUserIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.profiles))
	for id := range m.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteProfile removes a user and cascades to budgets, purchases and
// summaries, matching the SQLite foreign keys.
func (m *Memory) DeleteProfile(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[userID]; !ok {
		return ErrNotFound
	}
	delete(m.profiles, userID)
	for id, b := range m.budgets {
		if b.UserID == userID {
			delete(m.budgets, id)
		}
	}
	for id, p := range m.purchases {
		if p.UserID == userID {
			delete(m.purchases, id)
		}
	}
	delete(m.summaries, userID)
	return nil
}

func (m *Memory) ListBudgets(_ context.Context, userID string) ([]core.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Budget
	for _, b := range m.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetBudget(_ context.Context, userID string, id int64) (core.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return core.Budget{}, ErrNotFound
	}
	return b, nil
}

func (m *Memory) CreateBudget(_ context.Context, b core.Budget) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b.ID = m.nextID
	m.budgets[b.ID] = b
	return b.ID, nil
}

func (m *Memory) UpdateBudget(_ context.Context, b core.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.budgets[b.ID]
	if !ok || existing.UserID != b.UserID {
		return ErrNotFound
	}
	m.budgets[b.ID] = b
	return nil
}

func (m *Memory) DeleteBudget(_ context.Context, userID string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return ErrNotFound
	}
	delete(m.budgets, id)
	for pid, p := range m.purchases {
		if p.BudgetID == id {
			delete(m.purchases, pid)
		}
	}
	return nil
}

func (m *Memory) ListPurchases(_ context.Context, userID string) ([]core.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Purchase
	for _, p := range m.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	// Newest date first, then newest insert, like the SQLite ordering.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[j].Date.Before(out[i].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) CreatePurchase(_ context.Context, p core.Purchase) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.purchases[p.ID] = p
	return p.ID, nil
}

func (m *Memory) DeletePurchase(_ context.Context, userID string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.purchases[id]
	if !ok || p.UserID != userID {
		return ErrNotFound
	}
	delete(m.purchases, id)
	return nil
}

func (m *Memory) UpsertSummary(_ context.Context, s core.PeriodSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.summaries[s.UserID]
	if !ok {
		rows = make(map[string]core.PeriodSummary)
		m.summaries[s.UserID] = rows
	}
	rows[s.PeriodStart.String()] = s
	return nil
}

func (m *Memory) ListSummaries(_ context.Context, userID string) ([]core.PeriodSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.PeriodSummary
	for _, s := range m.summaries[userID] {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[j].PeriodStart.Before(out[i].PeriodStart) })
	return out, nil
}
