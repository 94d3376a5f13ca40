package store

import (
	"errors"
	"time"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/interfaces"
	"github.com/kmcdade/finboard/internal/models"
	"github.com/shopspring/decimal"
)

// Transactions stores the income/expense transaction collection.
type Transactions struct {
	base
}

// NewTransactions creates the transactions store.
func NewTransactions(kv interfaces.KeyValueStorage, logger *common.Logger) *Transactions {
	return &Transactions{base: newBase(kv, logger)}
}

// Load returns all transactions, empty when absent or malformed.
func (t *Transactions) Load() []models.Transaction {
	var txs []models.Transaction
	t.loadJSON(keyTransactions, &txs)
	return txs
}

// Save writes the whole transaction collection.
func (t *Transactions) Save(txs []models.Transaction) bool {
	return t.saveJSON(keyTransactions, txs)
}

// Add validates and appends a transaction.
func (t *Transactions) Add(tx models.Transaction) (models.Transaction, error) {
	if tx.Type != models.TransactionIncome && tx.Type != models.TransactionExpense {
		return models.Transaction{}, errors.New("transaction type must be income or expense")
	}
	if tx.Description == "" {
		return models.Transaction{}, errors.New("description must not be empty")
	}
	if tx.Amount.Sign() <= 0 {
		return models.Transaction{}, errors.New("amount must be positive")
	}
	if tx.Date == "" {
		tx.Date = time.Now().Format("2006-01-02")
	}

	tx.ID = NewID()
	tx.CreatedAt = time.Now()

	txs := t.Load()
	txs = append(txs, tx)
	if !t.Save(txs) {
		return models.Transaction{}, errors.New("failed to persist transactions")
	}
	return tx, nil
}

// Delete removes the transaction with the given ID.
func (t *Transactions) Delete(id string) bool {
	txs := t.Load()
	for i := range txs {
		if txs[i].ID == id {
			txs = append(txs[:i], txs[i+1:]...)
			return t.Save(txs)
		}
	}
	return false
}

// GetByDateRange returns transactions with from <= date <= to. Dates are
// "2006-01-02" strings, so lexical comparison is chronological.
func (t *Transactions) GetByDateRange(from, to string) []models.Transaction {
	var out []models.Transaction
	for _, tx := range t.Load() {
		if (from == "" || tx.Date >= from) && (to == "" || tx.Date <= to) {
			out = append(out, tx)
		}
	}
	return out
}

// TotalIncome sums all income transactions.
func (t *Transactions) TotalIncome() decimal.Decimal {
	return t.sumByType(models.TransactionIncome)
}

// TotalExpenses sums all expense transactions.
func (t *Transactions) TotalExpenses() decimal.Decimal {
	return t.sumByType(models.TransactionExpense)
}

// NetBalance returns income minus expenses.
func (t *Transactions) NetBalance() decimal.Decimal {
	return t.TotalIncome().Sub(t.TotalExpenses())
}

func (t *Transactions) sumByType(txType string) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range t.Load() {
		if tx.Type == txType {
			total = total.Add(tx.Amount)
		}
	}
	return total
}
