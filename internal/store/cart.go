package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/interfaces"
	"github.com/kmcdade/finboard/internal/models"
	"github.com/shopspring/decimal"
)

// Cart stores the shopping cart. Checkout converts the cart into an expense
// transaction and empties it.
type Cart struct {
	base
}

// NewCart creates the cart store.
func NewCart(kv interfaces.KeyValueStorage, logger *common.Logger) *Cart {
	return &Cart{base: newBase(kv, logger)}
}

// Load returns all cart items, empty when absent or malformed.
func (c *Cart) Load() []models.CartItem {
	var items []models.CartItem
	c.loadJSON(keyCart, &items)
	return items
}

// Save writes the whole cart.
func (c *Cart) Save(items []models.CartItem) bool {
	return c.saveJSON(keyCart, items)
}

// AddItem validates and appends an item. Adding a name that is already in
// the cart increments that line's quantity instead.
func (c *Cart) AddItem(item models.CartItem) (models.CartItem, error) {
	if item.Name == "" {
		return models.CartItem{}, errors.New("item name must not be empty")
	}
	if item.Price.Sign() < 0 {
		return models.CartItem{}, errors.New("price must not be negative")
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	items := c.Load()
	for i := range items {
		if items[i].Name == item.Name {
			items[i].Quantity += item.Quantity
			if !c.Save(items) {
				return models.CartItem{}, errors.New("failed to persist cart")
			}
			return items[i], nil
		}
	}

	item.ID = NewID()
	item.AddedAt = time.Now()
	items = append(items, item)
	if !c.Save(items) {
		return models.CartItem{}, errors.New("failed to persist cart")
	}
	return item, nil
}

// UpdateQuantity sets the quantity of the item with the given ID; a
// quantity of zero removes the line.
func (c *Cart) UpdateQuantity(id string, quantity int) bool {
	if quantity < 0 {
		return false
	}
	if quantity == 0 {
		return c.RemoveItem(id)
	}
	items := c.Load()
	for i := range items {
		if items[i].ID == id {
			items[i].Quantity = quantity
			return c.Save(items)
		}
	}
	return false
}

// RemoveItem removes the item with the given ID.
func (c *Cart) RemoveItem(id string) bool {
	items := c.Load()
	for i := range items {
		if items[i].ID == id {
			items = append(items[:i], items[i+1:]...)
			return c.Save(items)
		}
	}
	return false
}

// Subtotal returns the cart total.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Load() {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Checkout records the cart as one expense transaction and empties it.
func (c *Cart) Checkout(transactions *Transactions) (models.Transaction, error) {
	items := c.Load()
	if len(items) == 0 {
		return models.Transaction{}, errors.New("cart is empty")
	}

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	tx, err := transactions.Add(models.Transaction{
		Type:        models.TransactionExpense,
		Description: fmt.Sprintf("Checkout (%d items)", count),
		Amount:      c.Subtotal(),
		Category:    "shopping",
	})
	if err != nil {
		return models.Transaction{}, err
	}

	if !c.Save([]models.CartItem{}) {
		c.logger.Warn().Str("transaction", tx.ID).Msg("checkout recorded but cart could not be emptied")
	}
	return tx, nil
}
