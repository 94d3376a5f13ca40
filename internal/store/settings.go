package store

import (
	"time"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/interfaces"
	"github.com/kmcdade/finboard/internal/models"
)

// Settings stores the single user-preferences record.
type Settings struct {
	base
}

// NewSettings creates the settings store.
func NewSettings(kv interfaces.KeyValueStorage, logger *common.Logger) *Settings {
	return &Settings{base: newBase(kv, logger)}
}

// Load returns the settings record, with defaults where absent.
func (s *Settings) Load() models.Settings {
	settings := models.Settings{
		DisplayCurrency: "USD",
		BaseCurrency:    "USD",
	}
	s.loadJSON(keySettings, &settings)
	if settings.DisplayCurrency == "" {
		settings.DisplayCurrency = "USD"
	}
	if settings.BaseCurrency == "" {
		settings.BaseCurrency = "USD"
	}
	return settings
}

// Save writes the settings record.
func (s *Settings) Save(settings models.Settings) bool {
	settings.UpdatedAt = time.Now()
	return s.saveJSON(keySettings, settings)
}
