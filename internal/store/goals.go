package store

import (
	"errors"
	"time"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/interfaces"
	"github.com/kmcdade/finboard/internal/models"
	"github.com/shopspring/decimal"
)

// ErrGoalNotFound is returned when a goal ID does not exist.
var ErrGoalNotFound = errors.New("goal not found")

// Goals stores the savings goal collection.
type Goals struct {
	base
}

// NewGoals creates the goals store.
func NewGoals(kv interfaces.KeyValueStorage, logger *common.Logger) *Goals {
	return &Goals{base: newBase(kv, logger)}
}

// Load returns all goals, empty when absent or malformed.
func (g *Goals) Load() []models.Goal {
	var goals []models.Goal
	g.loadJSON(keyGoals, &goals)
	return goals
}

// Save writes the whole goal collection.
func (g *Goals) Save(goals []models.Goal) bool {
	return g.saveJSON(keyGoals, goals)
}

// Get returns the goal with the given ID.
func (g *Goals) Get(id string) (models.Goal, bool) {
	for _, goal := range g.Load() {
		if goal.ID == id {
			return goal, true
		}
	}
	return models.Goal{}, false
}

// Add validates and appends a goal.
func (g *Goals) Add(goal models.Goal) (models.Goal, error) {
	if goal.Name == "" {
		return models.Goal{}, errors.New("goal name must not be empty")
	}
	if goal.TargetAmount.Sign() <= 0 {
		return models.Goal{}, errors.New("target amount must be positive")
	}
	if goal.CurrentAmount.Sign() < 0 {
		return models.Goal{}, errors.New("current amount must not be negative")
	}

	goal.ID = NewID()
	goal.CreatedAt = time.Now()

	goals := g.Load()
	goals = append(goals, goal)
	if !g.Save(goals) {
		return models.Goal{}, errors.New("failed to persist goals")
	}
	return goal, nil
}

// Update applies mutate to the goal with the given ID. The stored current
// amount is not clamped here and may exceed the target.
func (g *Goals) Update(id string, mutate func(*models.Goal)) bool {
	goals := g.Load()
	for i := range goals {
		if goals[i].ID == id {
			mutate(&goals[i])
			goals[i].UpdatedAt = time.Now()
			return g.Save(goals)
		}
	}
	return false
}

// Delete removes the goal with the given ID.
func (g *Goals) Delete(id string) bool {
	goals := g.Load()
	for i := range goals {
		if goals[i].ID == id {
			goals = append(goals[:i], goals[i+1:]...)
			return g.Save(goals)
		}
	}
	return false
}

// QuickAddProgress adds amount to the goal's current amount and clamps the
// stored result to the target. This is the one write path that clamps.
func (g *Goals) QuickAddProgress(id string, amount decimal.Decimal) (models.Goal, error) {
	if amount.Sign() <= 0 {
		return models.Goal{}, errors.New("progress amount must be positive")
	}

	goals := g.Load()
	for i := range goals {
		if goals[i].ID != id {
			continue
		}
		next := goals[i].CurrentAmount.Add(amount)
		if next.GreaterThan(goals[i].TargetAmount) {
			next = goals[i].TargetAmount
		}
		goals[i].CurrentAmount = next
		goals[i].UpdatedAt = time.Now()
		if !g.Save(goals) {
			return models.Goal{}, errors.New("failed to persist goals")
		}
		return goals[i], nil
	}
	return models.Goal{}, ErrGoalNotFound
}

// TotalSaved sums the current amount across all goals. This is the goals
// page total; the spending net balance is a separate metric.
func (g *Goals) TotalSaved() decimal.Decimal {
	total := decimal.Zero
	for _, goal := range g.Load() {
		total = total.Add(goal.CurrentAmount)
	}
	return total
}
