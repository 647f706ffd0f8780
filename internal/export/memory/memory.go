package memory

import (
	"context"
	"fmt"
	"sync"

	"budgetbook/internal/core"
	"budgetbook/internal/export"
)

// Store collects appended summaries in memory for tests and dry runs.
type Store struct {
	mu    sync.Mutex
	items []core.PeriodSummary
}

var _ export.SummaryWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendSummary stores the summary and returns a synthetic row reference.
func (s *Store) AppendSummary(_ context.Context, sum core.PeriodSummary) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, sum)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Items returns a copy of everything appended so far.
func (s *Store) Items() []core.PeriodSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.PeriodSummary(nil), s.items...)
}
