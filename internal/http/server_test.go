package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"vydaje/internal/core"
	"vydaje/internal/rates"
	"vydaje/internal/services"
)

type fakeApp struct {
	recorded      []services.RecordInput
	recordErr     error
	purchases     []core.Purchase
	overview      core.MonthOverview
	overviewCalls int
}

func (f *fakeApp) Record(_ context.Context, in services.RecordInput) (core.Purchase, error) {
	if f.recordErr != nil {
		return core.Purchase{}, f.recordErr
	}
	f.recorded = append(f.recorded, in)
	return core.Purchase{
		ID:        int64(len(f.recorded)),
		Date:      in.Date,
		Shop:      in.Shop,
		Country:   in.Country,
		Currency:  "EUR",
		Amount:    19.90,
		Category:  in.Category,
		Converted: core.Money{Cents: 49750},
		RateUsed:  25.0,
		RateDate:  in.Date,
	}, nil
}

func (f *fakeApp) ListAll(_ context.Context) ([]core.Purchase, error) {
	return f.purchases, nil
}

func (f *fakeApp) ListMonth(_ context.Context, _, _ int) ([]core.Purchase, error) {
	return f.purchases, nil
}

func (f *fakeApp) MonthOverview(_ context.Context, year, month int) (core.MonthOverview, error) {
	f.overviewCalls++
	ov := f.overview
	ov.Year, ov.Month = year, month
	return ov, nil
}

func newTestServer(t *testing.T, app *fakeApp) *Server {
	t.Helper()
	s := NewServer(":0", app)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func postForm(s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func purchaseForm() url.Values {
	return url.Values{
		"date":     {"2025-06-10"},
		"shop":     {"Konzum"},
		"country":  {"Croatia"},
		"amount":   {"19,90"},
		"category": {"Groceries"},
	}
}

func TestCreatePurchase(t *testing.T) {
	app := &fakeApp{}
	s := newTestServer(t, app)

	rec := postForm(s, "/purchases?lang=en", purchaseForm())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Saved!") {
		t.Errorf("body missing saved message: %s", body)
	}
	if !strings.Contains(body, "497,50 Kč") {
		t.Errorf("body missing converted amount: %s", body)
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "purchase:created") {
		t.Errorf("HX-Trigger = %q", rec.Header().Get("HX-Trigger"))
	}
	if len(app.recorded) != 1 {
		t.Fatalf("recorded %d purchases", len(app.recorded))
	}
	if app.recorded[0].Country != "Croatia" || app.recorded[0].Amount != "19,90" {
		t.Errorf("unexpected input %+v", app.recorded[0])
	}
}

func TestCreatePurchaseRateUnavailable(t *testing.T) {
	app := &fakeApp{recordErr: &rates.UnavailableError{Currency: "EUR", DaysAttempted: 8}}
	s := newTestServer(t, app)

	rec := postForm(s, "/purchases?lang=en", purchaseForm())

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Could not fetch exchange rate.") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCreatePurchaseBadDate(t *testing.T) {
	s := newTestServer(t, &fakeApp{})

	form := purchaseForm()
	form.Set("date", "10.06.2025")
	rec := postForm(s, "/purchases", form)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreatePurchaseMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &fakeApp{})

	rec := get(s, "/purchases")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Allow") != "POST" {
		t.Errorf("Allow = %q", rec.Header().Get("Allow"))
	}
}

func TestIndexRendersForm(t *testing.T) {
	s := newTestServer(t, &fakeApp{})

	rec := get(s, "/?lang=en")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Expense Diary") {
		t.Errorf("missing title: %s", body[:200])
	}
	if !strings.Contains(body, "Croatia") || !strings.Contains(body, "Groceries") {
		t.Error("missing country or category options")
	}
}

func TestIndexLangCookie(t *testing.T) {
	s := newTestServer(t, &fakeApp{})

	rec := get(s, "/?lang=en")
	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "lang" && c.Value == "en" {
			found = true
		}
	}
	if !found {
		t.Error("expected lang cookie to be set")
	}
}

func TestMonthOverviewUsesCache(t *testing.T) {
	app := &fakeApp{overview: core.MonthOverview{
		Total: core.Money{Cents: 80000},
		ByCategory: []core.CategoryAmount{
			{Name: "Groceries", Amount: core.Money{Cents: 50000}},
			{Name: "Transport", Amount: core.Money{Cents: 30000}},
		},
	}}
	s := newTestServer(t, app)

	first := get(s, "/ui/month-overview?year=2025&month=6")
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d", first.Code)
	}
	if !strings.Contains(first.Body.String(), "Groceries") {
		t.Errorf("body = %s", first.Body.String())
	}

	_ = get(s, "/ui/month-overview?year=2025&month=6")
	if app.overviewCalls != 1 {
		t.Errorf("overview calls = %d, want 1 (second served from cache)", app.overviewCalls)
	}
}

func TestMonthOverviewEntertainmentWarning(t *testing.T) {
	app := &fakeApp{overview: core.MonthOverview{
		Total: core.Money{Cents: 100000},
		ByCategory: []core.CategoryAmount{
			{Name: "Groceries", Amount: core.Money{Cents: 60000}},
			{Name: "Entertainment", Amount: core.Money{Cents: 40000}},
		},
	}}
	s := newTestServer(t, app)

	rec := get(s, "/ui/month-overview?year=2025&month=6&lang=en")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Watch out!") {
		t.Errorf("expected entertainment warning, body = %s", rec.Body.String())
	}
}

func TestCreatePurchaseInvalidatesOverviewCache(t *testing.T) {
	app := &fakeApp{}
	s := newTestServer(t, app)

	_ = get(s, "/ui/month-overview?year=2025&month=6")
	_ = postForm(s, "/purchases", purchaseForm())
	_ = get(s, "/ui/month-overview?year=2025&month=6")

	if app.overviewCalls != 2 {
		t.Errorf("overview calls = %d, want 2 (cache invalidated by purchase)", app.overviewCalls)
	}
}

func TestExportCSV(t *testing.T) {
	app := &fakeApp{purchases: []core.Purchase{
		{
			ID: 1, Date: core.NewDate(2025, 6, 10), Shop: "Konzum", Country: "Croatia",
			Currency: "EUR", Amount: 19.90, Category: "Groceries",
			Converted: core.Money{Cents: 49750}, RateUsed: 25.0, RateDate: core.NewDate(2025, 6, 10),
		},
	}}
	s := newTestServer(t, app)

	rec := get(s, "/purchases.csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row:\n%s", len(lines), rec.Body.String())
	}
	if !strings.HasPrefix(lines[0], "date,shop,country,currency,amount") {
		t.Errorf("header = %s", lines[0])
	}
	if !strings.Contains(lines[1], "2025-06-10,Konzum,Croatia,EUR,19.90,Groceries,,497.50,25,2025-06-10") {
		t.Errorf("row = %s", lines[1])
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, &fakeApp{})

	if rec := get(s, "/healthz"); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(s, "/readyz"); rec.Code != http.StatusOK || rec.Body.String() != "ready" {
		t.Errorf("readyz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t, &fakeApp{})

	rec := get(s, "/")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing frame options header")
	}
}

func TestPostRateLimited(t *testing.T) {
	app := &fakeApp{}
	s := newTestServer(t, app)

	var last int
	for i := 0; i < 70; i++ {
		rec := postForm(s, "/purchases", purchaseForm())
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("status after 70 posts = %d, want 429", last)
	}
}

func TestFormatCZK(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0,00 Kč"},
		{49750, "497,50 Kč"},
		{123450, "1 234,50 Kč"},
		{100000000, "1 000 000,00 Kč"},
		{-5000, "-50,00 Kč"},
	}
	for _, tt := range tests {
		if got := formatCZK(tt.cents); got != tt.want {
			t.Errorf("formatCZK(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
