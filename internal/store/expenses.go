package store

import (
	"errors"
	"time"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/interfaces"
	"github.com/kmcdade/finboard/internal/models"
	"github.com/shopspring/decimal"
)

// Expenses stores the categorized spending collection.
type Expenses struct {
	base
}

// NewExpenses creates the expenses store.
func NewExpenses(kv interfaces.KeyValueStorage, logger *common.Logger) *Expenses {
	return &Expenses{base: newBase(kv, logger)}
}

// Load returns all expenses, empty when absent or malformed.
func (e *Expenses) Load() []models.Expense {
	var expenses []models.Expense
	e.loadJSON(keyExpenses, &expenses)
	return expenses
}

// Save writes the whole expense collection.
func (e *Expenses) Save(expenses []models.Expense) bool {
	return e.saveJSON(keyExpenses, expenses)
}

// Add validates and appends an expense.
func (e *Expenses) Add(exp models.Expense) (models.Expense, error) {
	if exp.Description == "" {
		return models.Expense{}, errors.New("description must not be empty")
	}
	if exp.Amount.Sign() <= 0 {
		return models.Expense{}, errors.New("amount must be positive")
	}
	if exp.Category == "" {
		exp.Category = "uncategorized"
	}
	if exp.Date == "" {
		exp.Date = time.Now().Format("2006-01-02")
	}

	exp.ID = NewID()
	exp.CreatedAt = time.Now()

	expenses := e.Load()
	expenses = append(expenses, exp)
	if !e.Save(expenses) {
		return models.Expense{}, errors.New("failed to persist expenses")
	}
	return exp, nil
}

// Update applies mutate to the expense with the given ID.
func (e *Expenses) Update(id string, mutate func(*models.Expense)) bool {
	expenses := e.Load()
	for i := range expenses {
		if expenses[i].ID == id {
			mutate(&expenses[i])
			expenses[i].UpdatedAt = time.Now()
			return e.Save(expenses)
		}
	}
	return false
}

// Delete removes the expense with the given ID.
func (e *Expenses) Delete(id string) bool {
	expenses := e.Load()
	for i := range expenses {
		if expenses[i].ID == id {
			expenses = append(expenses[:i], expenses[i+1:]...)
			return e.Save(expenses)
		}
	}
	return false
}

// GetByCategory returns expenses in the given category.
func (e *Expenses) GetByCategory(category string) []models.Expense {
	var out []models.Expense
	for _, exp := range e.Load() {
		if exp.Category == category {
			out = append(out, exp)
		}
	}
	return out
}

// GetByDateRange returns expenses with from <= date <= to.
func (e *Expenses) GetByDateRange(from, to string) []models.Expense {
	var out []models.Expense
	for _, exp := range e.Load() {
		if (from == "" || exp.Date >= from) && (to == "" || exp.Date <= to) {
			out = append(out, exp)
		}
	}
	return out
}

// TotalsByCategory sums expense amounts per category.
func (e *Expenses) TotalsByCategory() map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, exp := range e.Load() {
		totals[exp.Category] = totals[exp.Category].Add(exp.Amount)
	}
	return totals
}
