// Package export defines the outbound port for pushing period summaries
// to an external sheet. The Google adapter is the production
// implementation; the memory adapter backs tests.
package export

import (
	"context"

	"budgetbook/internal/core"
)

// SummaryWriter appends one period summary row to the export target and
// returns a reference to the written row.
type SummaryWriter interface {
	AppendSummary(ctx context.Context, s core.PeriodSummary) (rowRef string, err error)
}
