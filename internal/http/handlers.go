package http

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vydaje/internal/core"
	"vydaje/internal/i18n"
	applog "vydaje/internal/log"
	"vydaje/internal/rates"
	"vydaje/internal/services"
	"vydaje/internal/tips"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

type purchaseRow struct {
	ID        int64
	Date      string
	Shop      string
	Country   string
	Currency  string
	Amount    string
	Category  string
	Note      string
	Converted string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	lang := requestLang(w, r)
	now := time.Now()

	items, err := s.app.ListMonth(r.Context(), now.Year(), int(now.Month()))
	if err != nil {
		slog.ErrorContext(r.Context(), "List purchases error", "error", err)
	}

	data := struct {
		T          map[string]string
		Lang       string
		Today      string
		Year       int
		Month      int
		Countries  []core.Country
		Currencies []string
		Categories []string
		Purchases  []purchaseRow
	}{
		T:          i18n.Table(lang),
		Lang:       string(lang),
		Today:      now.Format("2006-01-02"),
		Year:       now.Year(),
		Month:      int(now.Month()),
		Countries:  core.Countries,
		Currencies: core.CurrencyCodes(),
		Categories: core.Categories,
	}
	for _, p := range items {
		data.Purchases = append(data.Purchases, toRow(p))
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toRow(p core.Purchase) purchaseRow {
	return purchaseRow{
		ID:        p.ID,
		Date:      p.Date.ISO(),
		Shop:      p.Shop,
		Country:   p.Country,
		Currency:  p.Currency,
		Amount:    strconv.FormatFloat(p.Amount, 'f', 2, 64),
		Category:  p.Category,
		Note:      p.Note,
		Converted: formatCZK(p.Converted.Cents),
	}
}

func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	lang := requestLang(w, r)
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		writeError(w, http.StatusBadRequest, i18n.T(lang, "invalid.form"))
		return
	}

	dateStr := strings.TrimSpace(r.Form.Get("date"))
	date := core.Date{Time: time.Now()}
	if dateStr != "" {
		parsed, err := parseDate(dateStr)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, i18n.T(lang, "invalid.date"))
			return
		}
		date = parsed
	}

	in := services.RecordInput{
		Date:     date,
		Shop:     sanitizeInput(r.Form.Get("shop")),
		Country:  sanitizeInput(r.Form.Get("country")),
		Currency: sanitizeInput(r.Form.Get("currency")),
		Amount:   strings.TrimSpace(r.Form.Get("amount")),
		Category: sanitizeInput(r.Form.Get("category")),
		Note:     sanitizeInput(r.Form.Get("note")),
	}

	p, err := s.app.Record(r.Context(), in)
	if err != nil {
		var unavailable *rates.UnavailableError
		switch {
		case errors.As(err, &unavailable):
			slog.WarnContext(r.Context(), "Rate unavailable",
				"currency", unavailable.Currency,
				"days_attempted", unavailable.DaysAttempted)
			writeError(w, http.StatusUnprocessableEntity, i18n.T(lang, "rate.err"))
		case errors.Is(err, core.ErrInvalidAmount):
			writeError(w, http.StatusUnprocessableEntity, i18n.T(lang, "invalid.amount"))
		case errors.Is(err, core.ErrInvalidCurrency):
			writeError(w, http.StatusUnprocessableEntity, i18n.T(lang, "invalid.country"))
		case errors.Is(err, core.ErrInvalidDate), errors.Is(err, core.ErrEmptyCategory):
			writeError(w, http.StatusUnprocessableEntity, i18n.T(lang, "invalid.form"))
		default:
			slog.ErrorContext(r.Context(), "Record purchase error", "error", err, "shop", in.Shop)
			writeError(w, http.StatusInternalServerError, i18n.T(lang, "invalid.form"))
		}
		return
	}

	s.logs.LogPurchaseRecorded(r.Context(), p.ID, p.Shop, p.Currency, p.Category, p.Converted.Cents, p.RateUsed, p.RateDate.ISO())
	s.invalidateOverview(p.Date.Year(), int(p.Date.Month()))
	w.Header().Set("HX-Trigger", `{"purchase:created": {"year": `+strconv.Itoa(p.Date.Year())+`, "month": `+strconv.Itoa(int(p.Date.Month()))+`}}`)
	w.WriteHeader(http.StatusOK)

	var b strings.Builder
	b.WriteString(`<div class="success">` + template.HTMLEscapeString(i18n.T(lang, "saved")) + ` ` +
		template.HTMLEscapeString(p.Shop) + ` — ` + template.HTMLEscapeString(formatCZK(p.Converted.Cents)))
	b.WriteString(`<br><small>` + template.HTMLEscapeString(i18n.T(lang, "rate.applied")) + ` ` +
		template.HTMLEscapeString(formatRate(p.RateUsed)) + ` ` +
		template.HTMLEscapeString(i18n.T(lang, "rate.asof")) + ` ` +
		template.HTMLEscapeString(p.RateDate.ISO()) + `</small>`)
	// Walk-back never yields a later table date; a later one means the
	// latest-table fallback kicked in.
	if p.RateDate.After(p.Date.Time) {
		b.WriteString(`<br><small class="warn">` + template.HTMLEscapeString(i18n.T(lang, "rate.fallback")) + `</small>`)
	}
	if remark, ok := tips.ForPurchase(lang, p); ok {
		b.WriteString(`<br><small class="tip">` + template.HTMLEscapeString(remark) + `</small>`)
	}
	b.WriteString(`</div>`)
	_, _ = w.Write([]byte(b.String()))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}

func (s *Server) cacheKey(year, month int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(month)
}

func (s *Server) invalidateOverview(year, month int) {
	s.overviewCache.Delete(s.cacheKey(year, month))
}

func (s *Server) getOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	key := s.cacheKey(year, month)

	if data, found := s.overviewCache.Get(key); found {
		slog.DebugContext(ctx, "Overview cache hit", "year", year, "month", month)
		return data, nil
	}

	data, err := s.app.MonthOverview(ctx, year, month)
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("month overview (year=%d, month=%d): %w", year, month, err)
	}

	s.overviewCache.Set(key, data)
	slog.DebugContext(ctx, "Overview cached", "year", year, "month", month, "total_cents", data.Total.Cents, "categories", len(data.ByCategory))
	return data, nil
}

// handleMonthOverview renders the monthly overview partial.
func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	lang := requestLang(w, r)
	year, month := parseYearMonth(r)

	ov, err := s.getOverview(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month overview error", "error", err, "year", year, "month", month)
		_, _ = w.Write([]byte(`<section id="month-overview" class="month-overview"><div class="placeholder">` +
			template.HTMLEscapeString(i18n.T(lang, "rate.err")) + `</div></section>`))
		return
	}

	// Compute max category for progress scaling
	var maxCents int64
	for _, c := range ov.ByCategory {
		if c.Amount.Cents > maxCents {
			maxCents = c.Amount.Cents
		}
	}

	type row struct {
		Name, Amount string
		Width        int
	}
	data := struct {
		T     map[string]string
		Year  int
		Month int
		Total string
		Empty bool
		Top   string
		Rows  []row
		Tips  []string
	}{
		T:     i18n.Table(lang),
		Year:  ov.Year,
		Month: ov.Month,
		Total: formatCZK(ov.Total.Cents),
		Empty: len(ov.ByCategory) == 0,
	}

	if top, pct, ok := ov.TopCategory(); ok {
		data.Top = fmt.Sprintf(i18n.T(lang, "summary.top"), top.Name, pct)
	}

	for _, c := range ov.ByCategory {
		width := 0
		if maxCents > 0 && c.Amount.Cents > 0 {
			width = int((c.Amount.Cents*100 + maxCents/2) / maxCents) // rounded percent
			if width > 0 && width < 2 {                               // ensure visibility for very small values
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Rows = append(data.Rows, row{Name: c.Name, Amount: formatCZK(c.Amount.Cents), Width: width})
	}

	if ov.Share("Entertainment") > 30 {
		data.Tips = append(data.Tips, i18n.T(lang, "summary.warn"))
	}
	data.Tips = append(data.Tips, tips.ForOverview(lang, ov)...)
	if note, ok := tips.Seasonal(lang, time.Month(month)); ok {
		data.Tips = append(data.Tips, note)
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="month-overview" class="month-overview"><div class="placeholder">` +
			template.HTMLEscapeString(data.Total) + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "month_overview.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "month_overview.html", "year", year, "month", month)
	}
}

// handleExportCSV streams every recorded purchase as CSV.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	items, err := s.app.ListAll(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "CSV export error",
			applog.FieldOperation, applog.OpExport, applog.FieldError, err.Error())
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="purchases.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"date", "shop", "country", "currency", "amount", "category", "note", "converted_czk", "rate", "rate_date"})
	for _, p := range items {
		record := []string{
			p.Date.ISO(),
			p.Shop,
			p.Country,
			p.Currency,
			strconv.FormatFloat(p.Amount, 'f', 2, 64),
			p.Category,
			p.Note,
			strconv.FormatFloat(p.Converted.Koruny(), 'f', 2, 64),
			strconv.FormatFloat(p.RateUsed, 'f', -1, 64),
			p.RateDate.ISO(),
		}
		if err := cw.Write(record); err != nil {
			slog.ErrorContext(r.Context(), "CSV write error", "error", err)
			return
		}
	}
	cw.Flush()
}
