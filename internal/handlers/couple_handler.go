package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nossoespaco/server/internal/services"
	"github.com/nossoespaco/server/pkg/logger"
	"github.com/nossoespaco/server/pkg/middleware"
)

type CoupleHandler struct {
	Service *services.CoupleService
}

func NewCoupleHandler(service *services.CoupleService) *CoupleHandler {
	return &CoupleHandler{Service: service}
}

// GET /couple/settings
func (h *CoupleHandler) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	settings, err := h.Service.GetSettings(r.Context(), userID)
	if err != nil {
		if err == services.ErrNoPartner {
			http.Error(w, "No linked partner", http.StatusNotFound)
			return
		}
		logger.Log.Errorf("Failed to fetch couple settings: %v", err)
		http.Error(w, "Failed to fetch settings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

// PUT /couple/settings
func (h *CoupleHandler) SaveSettingsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var update services.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.SaveSettings(r.Context(), userID, update); err != nil {
		if err == services.ErrNoPartner {
			http.Error(w, "No linked partner", http.StatusBadRequest)
			return
		}
		logger.Log.Errorf("Failed to save couple settings: %v", err)
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Settings saved"})
}
