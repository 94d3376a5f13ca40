package store

import (
	"errors"
	"strings"
	"time"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/interfaces"
	"github.com/kmcdade/finboard/internal/models"
)

// Portfolio stores the holdings collection.
type Portfolio struct {
	base
}

// NewPortfolio creates the holdings store.
func NewPortfolio(kv interfaces.KeyValueStorage, logger *common.Logger) *Portfolio {
	return &Portfolio{base: newBase(kv, logger)}
}

// Load returns all holdings, empty when absent or malformed.
func (p *Portfolio) Load() []models.Holding {
	var holdings []models.Holding
	p.loadJSON(keyPortfolio, &holdings)
	return holdings
}

// Save writes the whole holdings collection.
func (p *Portfolio) Save(holdings []models.Holding) bool {
	return p.saveJSON(keyPortfolio, holdings)
}

// Add validates and appends a holding, generating its ID and normalizing
// the symbol to uppercase.
func (p *Portfolio) Add(h models.Holding) (models.Holding, error) {
	h.Symbol = strings.ToUpper(strings.TrimSpace(h.Symbol))
	if h.Symbol == "" {
		return models.Holding{}, errors.New("symbol must not be empty")
	}
	if h.Quantity.Sign() <= 0 {
		return models.Holding{}, errors.New("quantity must be positive")
	}
	if h.AvgCost.Sign() < 0 {
		return models.Holding{}, errors.New("average cost must not be negative")
	}

	h.ID = NewID()
	h.CreatedAt = time.Now()

	holdings := p.Load()
	holdings = append(holdings, h)
	if !p.Save(holdings) {
		return models.Holding{}, errors.New("failed to persist portfolio")
	}
	return h, nil
}

// Update applies mutate to the holding with the given ID and saves the
// collection. Returns false when the ID is unknown or the write fails.
func (p *Portfolio) Update(id string, mutate func(*models.Holding)) bool {
	holdings := p.Load()
	for i := range holdings {
		if holdings[i].ID == id {
			mutate(&holdings[i])
			holdings[i].Symbol = strings.ToUpper(strings.TrimSpace(holdings[i].Symbol))
			holdings[i].UpdatedAt = time.Now()
			return p.Save(holdings)
		}
	}
	return false
}

// Delete removes the holding with the given ID. Cached price series for its
// symbol are untouched; there is no referential integrity between the two.
func (p *Portfolio) Delete(id string) bool {
	holdings := p.Load()
	for i := range holdings {
		if holdings[i].ID == id {
			holdings = append(holdings[:i], holdings[i+1:]...)
			return p.Save(holdings)
		}
	}
	return false
}

// GetBySymbol returns the first holding with the given symbol,
// case-insensitively.
func (p *Portfolio) GetBySymbol(symbol string) (models.Holding, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for _, h := range p.Load() {
		if h.Symbol == symbol {
			return h, true
		}
	}
	return models.Holding{}, false
}

// Symbols returns the distinct symbols held, in stored order.
func (p *Portfolio) Symbols() []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, h := range p.Load() {
		if !seen[h.Symbol] {
			seen[h.Symbol] = true
			symbols = append(symbols, h.Symbol)
		}
	}
	return symbols
}
