package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nossoespaco/server/internal/services"
	"github.com/nossoespaco/server/pkg/logger"
	"github.com/nossoespaco/server/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GameHandler struct {
	Service *services.GameService
}

func NewGameHandler(service *services.GameService) *GameHandler {
	return &GameHandler{Service: service}
}

// POST /games/scores
func (h *GameHandler) SaveScoreHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input services.ScoreInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	score, err := h.Service.SaveScore(r.Context(), userID, input)
	if err != nil {
		logger.Log.Warnf("Failed to save game score: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(score)
}

// GET /games/scoreboard
func (h *GameHandler) GetScoreboardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	board, err := h.Service.GetScoreboard(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to build scoreboard: %v", err)
		http.Error(w, "Failed to build scoreboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(board)
}

// GET /games/tictactoe
func (h *GameHandler) GetTicTacToeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	game, err := h.Service.GetOrCreateTicTacToe(r.Context(), userID)
	if err != nil {
		if err == services.ErrNoPartner {
			http.Error(w, "No linked partner", http.StatusBadRequest)
			return
		}
		logger.Log.Errorf("Failed to load tic-tac-toe board: %v", err)
		http.Error(w, "Failed to load game", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(game)
}

// POST /games/tictactoe/{id}/moves
func (h *GameHandler) PlayTicTacToeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	gameID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Cell int `json:"cell"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	game, err := h.Service.PlayTicTacToe(r.Context(), gameID, userID, req.Cell)
	if err != nil {
		logger.Log.Warnf("Rejected tic-tac-toe move on %s: %v", gameID.Hex(), err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(game)
}

// POST /games/tictactoe/{id}/restart
func (h *GameHandler) RestartTicTacToeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	gameID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	game, err := h.Service.RestartTicTacToe(r.Context(), gameID, userID)
	if err != nil {
		logger.Log.Warnf("Failed to restart tic-tac-toe game %s: %v", gameID.Hex(), err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(game)
}
