package handlers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/models"
	"github.com/kmcdade/finboard/internal/store"
)

// SpendingHandler handles transaction and expense requests.
type SpendingHandler struct {
	logger       *common.Logger
	transactions *store.Transactions
	expenses     *store.Expenses
}

// NewSpendingHandler creates a new spending handler.
func NewSpendingHandler(logger *common.Logger, transactions *store.Transactions, expenses *store.Expenses) *SpendingHandler {
	return &SpendingHandler{
		logger:       logger,
		transactions: transactions,
		expenses:     expenses,
	}
}

// ListTransactions handles GET /api/transactions. Optional from/to query
// parameters filter by date (inclusive).
func (h *SpendingHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from != "" || to != "" {
		WriteJSON(w, http.StatusOK, h.transactions.GetByDateRange(from, to))
		return
	}
	WriteJSON(w, http.StatusOK, h.transactions.Load())
}

type transactionRequest struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

// CreateTransaction handles POST /api/transactions.
func (h *SpendingHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.transactions.Add(models.Transaction{
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.Date,
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, tx)
}

// DeleteTransaction handles DELETE /api/transactions/{id}.
func (h *SpendingHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	if !h.transactions.Delete(id) {
		WriteError(w, http.StatusNotFound, "transaction not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Balance handles GET /api/transactions/balance.
func (h *SpendingHandler) Balance(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"income":   h.transactions.TotalIncome().StringFixed(2),
		"expenses": h.transactions.TotalExpenses().StringFixed(2),
		"net":      h.transactions.NetBalance().StringFixed(2),
	})
}

// ListExpenses handles GET /api/expenses. Optional category and from/to
// query parameters filter the result.
func (h *SpendingHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		WriteJSON(w, http.StatusOK, h.expenses.GetByCategory(category))
		return
	}
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from != "" || to != "" {
		WriteJSON(w, http.StatusOK, h.expenses.GetByDateRange(from, to))
		return
	}
	WriteJSON(w, http.StatusOK, h.expenses.Load())
}

type expenseRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

// CreateExpense handles POST /api/expenses.
func (h *SpendingHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.expenses.Add(models.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.Date,
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, exp)
}

// UpdateExpense handles PUT /api/expenses/{id}.
func (h *SpendingHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/expenses/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing expense id")
		return
	}

	var req expenseRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount.Sign() <= 0 {
		WriteError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	var updated models.Expense
	if !h.expenses.Update(id, func(exp *models.Expense) {
		if req.Description != "" {
			exp.Description = req.Description
		}
		exp.Amount = req.Amount
		if req.Category != "" {
			exp.Category = req.Category
		}
		if req.Date != "" {
			exp.Date = req.Date
		}
		updated = *exp
	}) {
		WriteError(w, http.StatusNotFound, "expense not found")
		return
	}

	WriteJSON(w, http.StatusOK, updated)
}

// DeleteExpense handles DELETE /api/expenses/{id}.
func (h *SpendingHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/expenses/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing expense id")
		return
	}

	if !h.expenses.Delete(id) {
		WriteError(w, http.StatusNotFound, "expense not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExpenseTotals handles GET /api/expenses/totals.
func (h *SpendingHandler) ExpenseTotals(w http.ResponseWriter, r *http.Request) {
	totals := h.expenses.TotalsByCategory()
	out := make(map[string]string, len(totals))
	for category, total := range totals {
		out[category] = total.StringFixed(2)
	}
	WriteJSON(w, http.StatusOK, out)
}
