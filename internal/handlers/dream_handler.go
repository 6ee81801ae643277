package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nossoespaco/server/internal/models"
	"github.com/nossoespaco/server/internal/services"
	"github.com/nossoespaco/server/pkg/logger"
	"github.com/nossoespaco/server/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DreamHandler struct {
	Service *services.DreamService
}

func NewDreamHandler(service *services.DreamService) *DreamHandler {
	return &DreamHandler{Service: service}
}

type dreamRequest struct {
	Text       string `json:"text"`
	Type       string `json:"type"`
	TargetDate string `json:"targetDate,omitempty"`
	Pinned     bool   `json:"pinned"`
}

// POST /dreams
func (h *DreamHandler) CreateDreamHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	dream, err := h.Service.CreateDream(r.Context(), userID, req.Text, req.Type, req.TargetDate, req.Pinned)
	if err != nil {
		logger.Log.Warnf("Failed to create dream: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dream)
}

// GET /dreams
func (h *DreamHandler) ListDreamsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	dreams, err := h.Service.ListDreams(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to list dreams: %v", err)
		http.Error(w, "Failed to list dreams", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dreams)
}

// PUT /dreams/{id}
func (h *DreamHandler) UpdateDreamHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	dreamID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid dream ID", http.StatusBadRequest)
		return
	}

	var req dreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	dream, err := h.Service.UpdateDream(r.Context(), dreamID, userID, req.Text, req.Type, req.TargetDate, req.Pinned)
	if err != nil {
		logger.Log.Warnf("Failed to update dream %s: %v", dreamID.Hex(), err)
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dream)
}

// POST /dreams/{id}/toggle-completed
func (h *DreamHandler) ToggleCompletedHandler(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Service.ToggleCompleted)
}

// POST /dreams/{id}/toggle-pinned
func (h *DreamHandler) TogglePinnedHandler(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Service.TogglePinned)
}

func (h *DreamHandler) toggle(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, userID primitive.ObjectID) (*models.Dream, error)) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	dreamID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid dream ID", http.StatusBadRequest)
		return
	}

	dream, err := fn(r.Context(), dreamID, userID)
	if err != nil {
		logger.Log.Warnf("Failed to toggle dream %s: %v", dreamID.Hex(), err)
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dream)
}

// DELETE /dreams/{id}
func (h *DreamHandler) DeleteDreamHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	dreamID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid dream ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteDream(r.Context(), dreamID, userID); err != nil {
		logger.Log.Warnf("Failed to delete dream %s: %v", dreamID.Hex(), err)
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Dream deleted"})
}
