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

type NoteHandler struct {
	Service *services.NoteService
}

func NewNoteHandler(service *services.NoteService) *NoteHandler {
	return &NoteHandler{Service: service}
}

// POST /notes
func (h *NoteHandler) CreateNoteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Text      string `json:"text"`
		IsPrivate bool   `json:"isPrivate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	note, err := h.Service.CreateNote(r.Context(), userID, req.Text, req.IsPrivate)
	if err != nil {
		logger.Log.Warnf("Failed to create note: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(note)
}

// GET /notes
func (h *NoteHandler) ListNotesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notes, err := h.Service.ListNotes(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to list notes: %v", err)
		http.Error(w, "Failed to list notes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notes)
}

// POST /notes/{id}/replies
func (h *NoteHandler) ReplyToNoteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	noteID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid note ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	note, err := h.Service.ReplyToNote(r.Context(), noteID, userID, req.Text)
	if err != nil {
		logger.Log.Warnf("Failed to reply to note %s: %v", noteID.Hex(), err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(note)
}

// DELETE /notes/{id}
func (h *NoteHandler) DeleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromClaims(middleware.GetUserFromContext(r.Context()))
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	noteID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid note ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteNote(r.Context(), noteID, userID); err != nil {
		logger.Log.Warnf("Failed to delete note %s: %v", noteID.Hex(), err)
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Note deleted"})
}
