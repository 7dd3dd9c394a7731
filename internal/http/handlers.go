package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"wallet/internal/core"
	applog "wallet/internal/log"
)

// View types. Amounts travel as bare JSON numbers, dates as YYYY-MM-DD.
type (
	expenseView struct {
		ID       string      `json:"id"`
		Title    string      `json:"title"`
		Price    json.Number `json:"price"`
		Category string      `json:"category"`
		Date     string      `json:"date"`
	}

	walletView struct {
		Balance   json.Number   `json:"balance"`
		IsLoading bool          `json:"isLoading"`
		Expenses  []expenseView `json:"expenses"`
	}

	dayTotalView struct {
		Date   string      `json:"date"`
		Amount json.Number `json:"amount"`
	}

	summaryView struct {
		GrandTotal     json.Number            `json:"grandTotal"`
		AverageDaily   json.Number            `json:"averageDaily"`
		CategoryTotals map[string]json.Number `json:"categoryTotals"`
		DailyTotals    []dayTotalView         `json:"dailyTotals"`
	}

	errorView struct {
		Error string `json:"error"`
	}
)

// flexString accepts either a JSON string or a JSON number, since form
// collaborators send amounts both ways.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	*f = flexString(strings.Trim(string(data), `"`))
	return nil
}

type draftRequest struct {
	Title    string     `json:"title"`
	Price    flexString `json:"price"`
	Category string     `json:"category"`
	Date     string     `json:"date"`
}

func (d draftRequest) draft() core.Draft {
	return core.Draft{
		Title:    d.Title,
		Price:    string(d.Price),
		Category: d.Category,
		Date:     d.Date,
	}
}

func (d draftRequest) complete() bool {
	return strings.TrimSpace(d.Title) != "" &&
		strings.TrimSpace(string(d.Price)) != "" &&
		strings.TrimSpace(d.Category) != "" &&
		strings.TrimSpace(d.Date) != ""
}

func viewOf(rec core.ExpenseRecord) expenseView {
	return expenseView{
		ID:       rec.ID,
		Title:    rec.Title,
		Price:    json.Number(rec.Price.String()),
		Category: string(rec.Category),
		Date:     rec.Date.String(),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorView{Error: msg})
}

// requireReady gates mutations while the store is still loading, so a client
// can never overwrite durable data with transient defaults.
func (s *Server) requireReady(w http.ResponseWriter) bool {
	if s.store.IsLoading() {
		writeError(w, http.StatusServiceUnavailable, "wallet is loading")
		return false
	}
	return true
}

func (s *Server) handleWallet(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	view := walletView{
		Balance:   json.Number(snap.Balance.String()),
		IsLoading: s.store.IsLoading(),
		Expenses:  make([]expenseView, len(snap.Expenses)),
	}
	for i, rec := range snap.Expenses {
		view.Expenses[i] = viewOf(rec)
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	if !s.requireReady(w) {
		return
	}
	var body struct {
		Amount flexString `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	// Invalid amounts are a store-level no-op, not an error; applied tells
	// the form layer whether any income was credited.
	applied := false
	if amount, err := core.ParseAmount(string(body.Amount)); err == nil {
		applied = s.store.AddIncome(amount)
	}

	writeJSON(w, http.StatusOK, struct {
		Applied bool        `json:"applied"`
		Balance json.Number `json:"balance"`
	}{Applied: applied, Balance: json.Number(s.store.Balance().String())})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if !s.requireReady(w) {
		return
	}
	var body draftRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	// The required-field check lives here, in the calling layer; the store
	// itself stays a silent no-op on bad drafts.
	if !body.complete() {
		writeError(w, http.StatusUnprocessableEntity, "title, price, category and date are required")
		return
	}

	rec, ok := s.store.AddExpense(body.draft())
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "invalid expense")
		return
	}

	s.logger.Info("expense created",
		applog.FieldExpenseID, rec.ID,
		applog.FieldExpenseTitle, rec.Title,
		applog.FieldAmount, rec.Price.String(),
		applog.FieldCategory, string(rec.Category),
		applog.FieldDate, rec.Date.String())
	writeJSON(w, http.StatusCreated, viewOf(rec))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if !s.requireReady(w) {
		return
	}
	var body draftRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if !body.complete() {
		writeError(w, http.StatusUnprocessableEntity, "title, price, category and date are required")
		return
	}

	rec, err := body.draft().Record()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid expense")
		return
	}
	rec.ID = r.PathValue("id")

	if !s.store.UpdateExpense(rec) {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(rec))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if !s.requireReady(w) {
		return
	}
	// Unknown ids are a no-op by contract; the response is 204 either way.
	s.store.DeleteExpense(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// handleSummary serves the derived views, cached per store version so charts
// polling an unchanged wallet never recompute the aggregates.
func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	key := strconv.FormatUint(s.store.Version(), 10)
	if view, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, view)
		return
	}

	expenses := s.store.Expenses()
	days := core.DailyTotals(expenses)

	view := summaryView{
		GrandTotal:     json.Number(core.GrandTotal(expenses).String()),
		AverageDaily:   json.Number(core.AverageDaily(days).String()),
		CategoryTotals: make(map[string]json.Number),
		DailyTotals:    make([]dayTotalView, len(days)),
	}
	for category, total := range core.CategoryTotals(expenses) {
		view.CategoryTotals[string(category)] = json.Number(total.String())
	}
	for i, day := range days {
		view.DailyTotals[i] = dayTotalView{
			Date:   day.Date.String(),
			Amount: json.Number(day.Amount.String()),
		}
	}

	s.summaryCache.Set(key, view)
	writeJSON(w, http.StatusOK, view)
}
