// Package models defines data structures for finboard.
package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint represents a single day's price data for a symbol.
// Adapters return series newest-first; the chart reverses them.
type PricePoint struct {
	Date   string  `json:"date"` // "2026-08-28"
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Quote holds a normalized live quote snapshot.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`
	ChangePct     float64   `json:"change_p"`
	Volume        int64     `json:"volume"`
	LatestDay     string    `json:"latest_day"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// SymbolMatch is one result from a symbol search.
type SymbolMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Region   string `json:"region"`
	Currency string `json:"currency"`
}

// Article represents a normalized news article.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// RateTable holds exchange rates for one base currency.
type RateTable struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Holding is a portfolio position. Identity is the generated ID; the
// uppercased symbol is the natural key for lookups.
type Holding struct {
	ID           string          `json:"id"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	AvgCost      decimal.Decimal `json:"avg_cost"`
	PurchaseDate string          `json:"purchase_date,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at,omitempty"`
}

// Cost returns quantity * average cost.
func (h Holding) Cost() decimal.Decimal {
	return h.Quantity.Mul(h.AvgCost)
}

// Transaction is one income or expense entry.
type Transaction struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"` // "income" or "expense"
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	Date        string          `json:"date"` // "2026-08-28"
	CreatedAt   time.Time       `json:"created_at"`
}

// TransactionIncome and TransactionExpense are the two transaction types.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Expense is one categorized spending entry.
type Expense struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at,omitempty"`
}

// Goal is a savings goal. The stored CurrentAmount is not clamped by plain
// updates and can exceed the target; only display and quick-add clamp.
type Goal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      string          `json:"deadline,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at,omitempty"`
}

// UnmarshalJSON accepts the legacy field names "title" and "currentProgress"
// alongside the canonical "name" and "current_amount". Snapshots written by
// older versions load without migration.
func (g *Goal) UnmarshalJSON(data []byte) error {
	type alias Goal
	aux := struct {
		*alias
		LegacyTitle    string           `json:"title"`
		LegacyProgress *decimal.Decimal `json:"currentProgress"`
	}{alias: (*alias)(g)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if g.Name == "" && aux.LegacyTitle != "" {
		g.Name = aux.LegacyTitle
	}
	if g.CurrentAmount.IsZero() && aux.LegacyProgress != nil {
		g.CurrentAmount = *aux.LegacyProgress
	}
	return nil
}

// ProgressPct returns the display progress percentage, clamped to [0, 100].
// The stored amount itself is never clamped here.
func (g Goal) ProgressPct() int {
	if g.TargetAmount.Sign() <= 0 {
		return 0
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
	if pct.LessThan(decimal.Zero) {
		return 0
	}
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	return int(pct.IntPart())
}

// CartItem is one line in the shopping cart.
type CartItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	AddedAt  time.Time       `json:"added_at"`
}

// Subtotal returns price * quantity.
func (c CartItem) Subtotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// Settings holds user-facing preferences, stored as a single record.
type Settings struct {
	DisplayCurrency string    `json:"display_currency"`
	BaseCurrency    string    `json:"base_currency"`
	Theme           string    `json:"theme,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}
