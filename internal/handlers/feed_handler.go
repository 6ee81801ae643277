package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nossoespaco/server/internal/services"
	"github.com/nossoespaco/server/pkg/logger"
	"github.com/nossoespaco/server/pkg/middleware"
)

type FeedHandler struct {
	Service *services.FeedService
}

func NewFeedHandler(service *services.FeedService) *FeedHandler {
	return &FeedHandler{Service: service}
}

// GET /dashboard
func (h *FeedHandler) GetDashboardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	feed, err := h.Service.GetDashboard(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to build dashboard feed: %v", err)
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(feed)
}
