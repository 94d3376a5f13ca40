package handlers

import (
	"net/http"
	"strings"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/store"
)

// SettingsHandler handles user preference requests.
type SettingsHandler struct {
	logger   *common.Logger
	settings *store.Settings
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(logger *common.Logger, settings *store.Settings) *SettingsHandler {
	return &SettingsHandler{logger: logger, settings: settings}
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.settings.Load())
}

type settingsRequest struct {
	DisplayCurrency string `json:"display_currency"`
	BaseCurrency    string `json:"base_currency"`
	Theme           string `json:"theme"`
}

// Update handles PUT /api/settings. Omitted fields keep their current
// values.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings := h.settings.Load()
	if req.DisplayCurrency != "" {
		settings.DisplayCurrency = strings.ToUpper(req.DisplayCurrency)
	}
	if req.BaseCurrency != "" {
		settings.BaseCurrency = strings.ToUpper(req.BaseCurrency)
	}
	if req.Theme != "" {
		settings.Theme = req.Theme
	}

	if !h.settings.Save(settings) {
		WriteError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	WriteJSON(w, http.StatusOK, h.settings.Load())
}
