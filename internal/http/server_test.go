package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"budgetbook/internal/auth"
	"budgetbook/internal/core"
	"budgetbook/internal/services"
	"budgetbook/internal/store"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*Server, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	st := Stores{Profiles: mem, Budgets: mem, Purchases: mem, Summaries: mem}
	svc := services.NewPurchaseService(mem, mem, nil)
	s := NewServer(":0", auth.NewVerifier(testSecret), st, svc)
	// Pin the clock so period boundaries are stable.
	s.now = func() time.Time {
		return time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s, mem
}

func signTestToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func strptr(s string) *string { return &s }

func TestUnauthenticatedRequestRejected(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/budgets", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestHealthEndpointsOpen(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestProfileRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)
	token := signTestToken(t, "user-1")

	if rec := doJSON(t, s, http.MethodGet, "/api/profile", token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get before save status = %d, want 404", rec.Code)
	}

	rec := doJSON(t, s, http.MethodPut, "/api/profile", token, profilePayload{
		Email:            "ada@example.com",
		DisplayName:      "Ada",
		MonthlyIncome:    "3000.00",
		TrackingStartDay: 15,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body)
	}

	got := decodeBody[profilePayload](t, doJSON(t, s, http.MethodGet, "/api/profile", token, nil))
	if got.Email != "ada@example.com" || got.MonthlyIncome != "3000.00" || got.TrackingStartDay != 15 {
		t.Fatalf("profile = %+v", got)
	}
}

func TestProfileValidation(t *testing.T) {
	s, _ := newTestServer(t)
	token := signTestToken(t, "user-1")

	rec := doJSON(t, s, http.MethodPut, "/api/profile", token, profilePayload{
		Email:            "",
		MonthlyIncome:    "1000",
		TrackingStartDay: 32,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	body := decodeBody[map[string][]violationPayload](t, rec)
	if len(body["violations"]) != 2 {
		t.Fatalf("violations = %+v, want email and trackingStartDay", body["violations"])
	}
}

func TestBudgetLifecycle(t *testing.T) {
	s, _ := newTestServer(t)
	token := signTestToken(t, "user-1")

	rec := doJSON(t, s, http.MethodPost, "/api/budgets", token, budgetRequest{
		Name:        "Groceries",
		Color:       "#00ff00",
		FixedAmount: strptr("500"),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	created := decodeBody[budgetPayload](t, rec)
	if created.ID == 0 || created.FixedAmount == nil || *created.FixedAmount != "500.00" {
		t.Fatalf("created = %+v", created)
	}

	list := decodeBody[[]budgetPayload](t, doJSON(t, s, http.MethodGet, "/api/budgets", token, nil))
	if len(list) != 1 || list[0].Name != "Groceries" {
		t.Fatalf("list = %+v", list)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/budgets/1", token, budgetRequest{
		Name:             "Groceries",
		PercentageAmount: strptr("12.5"),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body)
	}
	updated := decodeBody[budgetPayload](t, rec)
	if updated.FixedAmount != nil || updated.PercentageAmount == nil || *updated.PercentageAmount != "12.5" {
		t.Fatalf("updated = %+v", updated)
	}

	if rec := doJSON(t, s, http.MethodDelete, "/api/budgets/1", token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodDelete, "/api/budgets/1", token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestBudgetCreateRejectsZeroFixed(t *testing.T) {
	s, mem := newTestServer(t)
	token := signTestToken(t, "user-1")

	rec := doJSON(t, s, http.MethodPost, "/api/budgets", token, budgetRequest{
		Name:        "Zeroed",
		FixedAmount: strptr("0"),
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("create with zero fixed status = %d, want 422", rec.Code)
	}

	// The edit path accepts zero; seed a budget and shrink it.
	id, err := mem.CreateBudget(context.Background(), core.Budget{UserID: "user-1", Name: "Zeroed"})
	if err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	rec = doJSON(t, s, http.MethodPut, "/api/budgets/"+jsonInt(id), token, budgetRequest{
		Name:        "Zeroed",
		FixedAmount: strptr("0"),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("edit with zero fixed status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestBudgetScopedToUser(t *testing.T) {
	s, mem := newTestServer(t)

	id, err := mem.CreateBudget(context.Background(), core.Budget{UserID: "owner", Name: "Theirs"})
	if err != nil {
		t.Fatalf("seed budget: %v", err)
	}

	intruder := signTestToken(t, "intruder")
	rec := doJSON(t, s, http.MethodDelete, "/api/budgets/"+jsonInt(id), intruder, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign delete status = %d, want 404", rec.Code)
	}
}

func TestPurchaseLifecycle(t *testing.T) {
	s, mem := newTestServer(t)
	token := signTestToken(t, "user-1")

	budgetID, err := mem.CreateBudget(context.Background(), core.Budget{UserID: "user-1", Name: "Groceries"})
	if err != nil {
		t.Fatalf("seed budget: %v", err)
	}

	rec := doJSON(t, s, http.MethodPost, "/api/purchases", token, purchaseRequest{
		BudgetID:      budgetID,
		Amount:        "12,34",
		Description:   "weekly shop",
		PaymentMethod: "bank",
		PurchaseDate:  "2024-03-18",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	created := decodeBody[purchasePayload](t, rec)
	if created.Amount != "12.34" || created.PurchaseDate != "2024-03-18" {
		t.Fatalf("created = %+v", created)
	}

	list := decodeBody[[]purchasePayload](t, doJSON(t, s, http.MethodGet, "/api/purchases", token, nil))
	if len(list) != 1 {
		t.Fatalf("list = %+v", list)
	}

	if rec := doJSON(t, s, http.MethodDelete, "/api/purchases/"+jsonInt(created.ID), token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestPurchaseAgainstForeignBudget(t *testing.T) {
	s, mem := newTestServer(t)
	token := signTestToken(t, "user-1")

	budgetID, err := mem.CreateBudget(context.Background(), core.Budget{UserID: "someone-else", Name: "Theirs"})
	if err != nil {
		t.Fatalf("seed budget: %v", err)
	}

	rec := doJSON(t, s, http.MethodPost, "/api/purchases", token, purchaseRequest{
		BudgetID:      budgetID,
		Amount:        "10",
		Description:   "sneaky",
		PaymentMethod: "cash",
		PurchaseDate:  "2024-03-18",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPurchaseValidationViolations(t *testing.T) {
	s, mem := newTestServer(t)
	token := signTestToken(t, "user-1")

	budgetID, err := mem.CreateBudget(context.Background(), core.Budget{UserID: "user-1", Name: "Groceries"})
	if err != nil {
		t.Fatalf("seed budget: %v", err)
	}

	rec := doJSON(t, s, http.MethodPost, "/api/purchases", token, purchaseRequest{
		BudgetID:      budgetID,
		Amount:        "0",
		Description:   "   ",
		PaymentMethod: "barter",
		PurchaseDate:  "2024-03-18",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", rec.Code, rec.Body)
	}
	body := decodeBody[map[string][]violationPayload](t, rec)
	if len(body["violations"]) != 3 {
		t.Fatalf("violations = %+v, want amount, description and paymentMethod", body["violations"])
	}
}

func TestPurchaseListFilters(t *testing.T) {
	s, mem := newTestServer(t)
	token := signTestToken(t, "user-1")

	budgetID, err := mem.CreateBudget(context.Background(), core.Budget{UserID: "user-1", Name: "Misc"})
	if err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	seed := []core.Purchase{
		{UserID: "user-1", BudgetID: budgetID, Amount: core.Money{Cents: 1000}, Description: "coffee beans", Method: core.Cash, Date: core.NewDate(2024, 3, 20)},
		{UserID: "user-1", BudgetID: budgetID, Amount: core.Money{Cents: 2000}, Description: "train ticket", Method: core.Bank, Date: core.NewDate(2024, 3, 16)},
		{UserID: "user-1", BudgetID: budgetID, Amount: core.Money{Cents: 3000}, Description: "old coffee maker", Method: core.Credit, Date: core.NewDate(2024, 1, 5)},
	}
	for _, p := range seed {
		if _, err := mem.CreatePurchase(context.Background(), p); err != nil {
			t.Fatalf("seed purchase: %v", err)
		}
	}

	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"no filters", "", 3},
		{"text", "?q=coffee", 2},
		{"method", "?method=bank", 1},
		{"window week", "?window=week", 2},
		{"combined", "?q=coffee&window=today", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			list := decodeBody[[]purchasePayload](t, doJSON(t, s, http.MethodGet, "/api/purchases"+tc.query, token, nil))
			if len(list) != tc.want {
				t.Errorf("got %d purchases, want %d", len(list), tc.want)
			}
		})
	}
}

func TestCurrentSummary(t *testing.T) {
	s, mem := newTestServer(t)
	token := signTestToken(t, "user-1")
	ctx := context.Background()

	err := mem.PutProfile(ctx, core.UserProfile{
		ID: "user-1", Email: "ada@example.com",
		MonthlyIncome:    core.Money{Cents: 300000},
		TrackingStartDay: 1,
	})
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	fixed := func(c int64) *core.Money { return &core.Money{Cents: c} }
	pct := func(h int64) *core.Percent { return &core.Percent{Hundredths: h} }

	idA, _ := mem.CreateBudget(ctx, core.Budget{UserID: "user-1", Name: "A", Fixed: fixed(50000)})
	idB, _ := mem.CreateBudget(ctx, core.Budget{UserID: "user-1", Name: "B", Percent: pct(2000)})
	idC, _ := mem.CreateBudget(ctx, core.Budget{UserID: "user-1", Name: "C", Fixed: fixed(40000), Percent: pct(1000)})

	seed := []core.Purchase{
		{UserID: "user-1", BudgetID: idA, Amount: core.Money{Cents: 20000}, Description: "a", Method: core.Bank, Date: core.NewDate(2024, 3, 5)},
		{UserID: "user-1", BudgetID: idB, Amount: core.Money{Cents: 15050}, Description: "b", Method: core.Credit, Date: core.NewDate(2024, 3, 10)},
		{UserID: "user-1", BudgetID: idC, Amount: core.Money{Cents: 130000}, Description: "c", Method: core.Cash, Date: core.NewDate(2024, 3, 15)},
		// Outside the March period, must not count.
		{UserID: "user-1", BudgetID: idA, Amount: core.Money{Cents: 99900}, Description: "old", Method: core.Bank, Date: core.NewDate(2024, 2, 20)},
	}
	for _, p := range seed {
		if _, err := mem.CreatePurchase(ctx, p); err != nil {
			t.Fatalf("seed purchase: %v", err)
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/api/summary", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	got := decodeBody[summaryResponse](t, rec)

	if got.PeriodStart != "2024-03-01" || got.PeriodEnd != "2024-03-31" {
		t.Fatalf("period = %s .. %s", got.PeriodStart, got.PeriodEnd)
	}
	if got.Total != "1650.50" {
		t.Errorf("total = %s, want 1650.50", got.Total)
	}
	if got.PerMethod.Cash != "1300.00" || got.PerMethod.Credit != "150.50" || got.PerMethod.Bank != "200.00" {
		t.Errorf("per method = %+v", got.PerMethod)
	}
	if len(got.Budgets) != 3 {
		t.Fatalf("budgets = %+v", got.Budgets)
	}
	wantCeilings := []string{"500.00", "600.00", "300.00"}
	wantRemaining := []string{"300.00", "449.50", "-1000.00"}
	for i, rep := range got.Budgets {
		if rep.Ceiling != wantCeilings[i] {
			t.Errorf("budget %s ceiling = %s, want %s", rep.Budget.Name, rep.Ceiling, wantCeilings[i])
		}
		if rep.Remaining != wantRemaining[i] {
			t.Errorf("budget %s remaining = %s, want %s", rep.Budget.Name, rep.Remaining, wantRemaining[i])
		}
	}
}

func TestSummaryCacheInvalidatedByMutation(t *testing.T) {
	s, mem := newTestServer(t)
	token := signTestToken(t, "user-1")
	ctx := context.Background()

	err := mem.PutProfile(ctx, core.UserProfile{
		ID: "user-1", Email: "ada@example.com",
		MonthlyIncome:    core.Money{Cents: 300000},
		TrackingStartDay: 1,
	})
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	budgetID, err := mem.CreateBudget(ctx, core.Budget{UserID: "user-1", Name: "Misc"})
	if err != nil {
		t.Fatalf("seed budget: %v", err)
	}

	first := decodeBody[summaryResponse](t, doJSON(t, s, http.MethodGet, "/api/summary", token, nil))
	if first.Total != "0.00" {
		t.Fatalf("initial total = %s", first.Total)
	}

	rec := doJSON(t, s, http.MethodPost, "/api/purchases", token, purchaseRequest{
		BudgetID:      budgetID,
		Amount:        "25.00",
		Description:   "snack",
		PaymentMethod: "cash",
		PurchaseDate:  "2024-03-20",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	second := decodeBody[summaryResponse](t, doJSON(t, s, http.MethodGet, "/api/summary", token, nil))
	if second.Total != "25.00" {
		t.Fatalf("total after purchase = %s, want 25.00", second.Total)
	}
}

func TestListSummaries(t *testing.T) {
	s, mem := newTestServer(t)
	token := signTestToken(t, "user-1")
	ctx := context.Background()

	rows := []core.PeriodSummary{
		{UserID: "user-1", PeriodStart: core.NewDate(2024, 2, 1), PeriodEnd: core.NewDate(2024, 2, 29), Total: core.Money{Cents: 5000}, Purchases: 2},
		{UserID: "user-1", PeriodStart: core.NewDate(2024, 3, 1), PeriodEnd: core.NewDate(2024, 3, 31), Total: core.Money{Cents: 7500}, Purchases: 3},
		{UserID: "other", PeriodStart: core.NewDate(2024, 3, 1), PeriodEnd: core.NewDate(2024, 3, 31), Total: core.Money{Cents: 100}, Purchases: 1},
	}
	for _, row := range rows {
		if err := mem.UpsertSummary(ctx, row); err != nil {
			t.Fatalf("seed summary: %v", err)
		}
	}

	got := decodeBody[[]storedSummaryPayload](t, doJSON(t, s, http.MethodGet, "/api/summaries", token, nil))
	if len(got) != 2 {
		t.Fatalf("summaries = %+v", got)
	}
	if got[0].PeriodStart != "2024-03-01" || got[1].PeriodStart != "2024-02-01" {
		t.Fatalf("ordering = %s, %s, want newest first", got[0].PeriodStart, got[1].PeriodStart)
	}
	if got[0].Total != "75.00" {
		t.Errorf("total = %s", got[0].Total)
	}
}

func jsonInt(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
