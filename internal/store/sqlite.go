package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"budgetbook/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

// Interface conformance.
var (
	_ ProfileStore  = (*SQLiteRepository)(nil)
	_ BudgetStore   = (*SQLiteRepository)(nil)
	_ PurchaseStore = (*SQLiteRepository)(nil)
	_ SummaryStore  = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Cascading deletes (user -> budgets -> purchases) rely on this.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// GetProfile implements ProfileStore.
func (r *SQLiteRepository) GetProfile(ctx context.Context, userID string) (core.UserProfile, error) {
	var p core.UserProfile
	var incomeCents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, monthly_income_cents, tracking_start_day
		 FROM users WHERE id = ?`, userID).
		Scan(&p.ID, &p.Email, &p.DisplayName, &incomeCents, &p.TrackingStartDay)
	if errors.Is(err, sql.ErrNoRows) {
		return core.UserProfile{}, ErrNotFound
	}
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	p.MonthlyIncome = core.Money{Cents: incomeCents}
	return p, nil
}

// PutProfile implements ProfileStore.
func (r *SQLiteRepository) PutProfile(ctx context.Context, p core.UserProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, display_name, monthly_income_cents, tracking_start_day)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   email = excluded.email,
		   display_name = excluded.display_name,
		   monthly_income_cents = excluded.monthly_income_cents,
		   tracking_start_day = excluded.tracking_start_day,
		   updated_at = CURRENT_TIMESTAMP`,
		p.ID, p.Email, p.DisplayName, p.MonthlyIncome.Cents, p.TrackingStartDay)
	if err != nil {
		return fmt.Errorf("put profile: %w", err)
	}

	slog.InfoContext(ctx, "Profile saved",
		"user_id", p.ID,
		"income_cents", p.MonthlyIncome.Cents,
		"tracking_start_day", p.TrackingStartDay)
	return nil
}

// ListUserIDs implements ProfileStore.
func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListBudgets implements BudgetStore.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, color, fixed_amount_cents, percent_hundredths
		 FROM budgets WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// GetBudget implements BudgetStore.
func (r *SQLiteRepository) GetBudget(ctx context.Context, userID string, id int64) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, color, fixed_amount_cents, percent_hundredths
		 FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// CreateBudget implements BudgetStore.
func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, name, color, fixed_amount_cents, percent_hundredths)
		 VALUES (?, ?, ?, ?, ?)`,
		b.UserID, b.Name, b.Color, moneyPtr(b.Fixed), percentPtr(b.Percent))
	if err != nil {
		return 0, fmt.Errorf("create budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("budget insert id: %w", err)
	}

	slog.InfoContext(ctx, "Budget created", "id", id, "user_id", b.UserID, "name", b.Name)
	return id, nil
}

// UpdateBudget implements BudgetStore.
func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET name = ?, color = ?, fixed_amount_cents = ?, percent_hundredths = ?
		 WHERE id = ? AND user_id = ?`,
		b.Name, b.Color, moneyPtr(b.Fixed), percentPtr(b.Percent), b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

// DeleteBudget implements BudgetStore. Purchases under the budget go with
// it via the foreign key cascade.
func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Budget deleted", "id", id, "user_id", userID)
	return nil
}

// ListPurchases implements PurchaseStore. Purchases come back newest date
// first, then insertion order.
func (r *SQLiteRepository) ListPurchases(ctx context.Context, userID string) ([]core.Purchase, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, budget_id, amount_cents, description, payment_method, purchase_date
		 FROM purchases WHERE user_id = ? ORDER BY purchase_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []core.Purchase
	for rows.Next() {
		var p core.Purchase
		var amountCents int64
		var method, date string
		if err := rows.Scan(&p.ID, &p.UserID, &p.BudgetID, &amountCents, &p.Description, &method, &date); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		p.Amount = core.Money{Cents: amountCents}
		p.Method = core.PaymentMethod(method)
		if p.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("purchase %d has malformed date %q", p.ID, date)
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// CreatePurchase implements PurchaseStore.
func (r *SQLiteRepository) CreatePurchase(ctx context.Context, p core.Purchase) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO purchases (user_id, budget_id, amount_cents, description, payment_method, purchase_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.UserID, p.BudgetID, p.Amount.Cents, p.Description, string(p.Method), p.Date.String())
	if err != nil {
		return 0, fmt.Errorf("create purchase: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("purchase insert id: %w", err)
	}

	slog.InfoContext(ctx, "Purchase saved",
		"id", id,
		"user_id", p.UserID,
		"budget_id", p.BudgetID,
		"amount_cents", p.Amount.Cents)
	return id, nil
}

// DeletePurchase implements PurchaseStore.
func (r *SQLiteRepository) DeletePurchase(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM purchases WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return requireRow(res)
}

// UpsertSummary implements SummaryStore.
func (r *SQLiteRepository) UpsertSummary(ctx context.Context, s core.PeriodSummary) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO monthly_summaries
		   (user_id, period_start, period_end, total_cents, bank_cents, credit_cents, cash_cents, purchase_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, period_start) DO UPDATE SET
		   period_end = excluded.period_end,
		   total_cents = excluded.total_cents,
		   bank_cents = excluded.bank_cents,
		   credit_cents = excluded.credit_cents,
		   cash_cents = excluded.cash_cents,
		   purchase_count = excluded.purchase_count,
		   updated_at = CURRENT_TIMESTAMP`,
		s.UserID, s.PeriodStart.String(), s.PeriodEnd.String(),
		s.Total.Cents, s.PerMethod.Bank.Cents, s.PerMethod.Credit.Cents, s.PerMethod.Cash.Cents,
		s.Purchases)
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}

	slog.InfoContext(ctx, "Summary upserted",
		"user_id", s.UserID,
		"period_start", s.PeriodStart.String(),
		"total_cents", s.Total.Cents)
	return nil
}

// ListSummaries implements SummaryStore, newest period first.
func (r *SQLiteRepository) ListSummaries(ctx context.Context, userID string) ([]core.PeriodSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, period_start, period_end, total_cents, bank_cents, credit_cents, cash_cents, purchase_count
		 FROM monthly_summaries WHERE user_id = ? ORDER BY period_start DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var summaries []core.PeriodSummary
	for rows.Next() {
		var s core.PeriodSummary
		var start, end string
		var total, bank, credit, cash int64
		if err := rows.Scan(&s.UserID, &start, &end, &total, &bank, &credit, &cash, &s.Purchases); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		if s.PeriodStart, err = core.ParseDate(start); err != nil {
			return nil, fmt.Errorf("summary has malformed period start %q", start)
		}
		if s.PeriodEnd, err = core.ParseDate(end); err != nil {
			return nil, fmt.Errorf("summary has malformed period end %q", end)
		}
		s.Total = core.Money{Cents: total}
		s.PerMethod = core.MethodTotals{
			Bank:   core.Money{Cents: bank},
			Credit: core.Money{Cents: credit},
			Cash:   core.Money{Cents: cash},
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var b core.Budget
	var fixed, percent sql.NullInt64
	if err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Color, &fixed, &percent); err != nil {
		return core.Budget{}, err
	}
	if fixed.Valid {
		b.Fixed = &core.Money{Cents: fixed.Int64}
	}
	if percent.Valid {
		b.Percent = &core.Percent{Hundredths: percent.Int64}
	}
	return b, nil
}

func moneyPtr(m *core.Money) any {
	if m == nil {
		return nil
	}
	return m.Cents
}

func percentPtr(p *core.Percent) any {
	if p == nil {
		return nil
	}
	return p.Hundredths
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
