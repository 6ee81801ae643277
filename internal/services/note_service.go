package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nossoespaco/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoteStore is the persistence surface for notes.
type NoteStore interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Note, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AppendReply(ctx context.Context, id primitive.ObjectID, reply models.NoteReply) error
	ListAll(ctx context.Context) ([]models.Note, error)
}

// NoteService handles notes between partners, including the private-note
// visibility rule.
type NoteService struct {
	notes    NoteStore
	users    UserStore
	notifier PartnerNotifier
	hub      ChangePublisher
}

func NewNoteService(notes NoteStore, users UserStore, notifier PartnerNotifier, hub ChangePublisher) *NoteService {
	return &NoteService{
		notes:    notes,
		users:    users,
		notifier: notifier,
		hub:      hub,
	}
}

// CreateNote records a new note and notifies the linked partner, if any.
func (s *NoteService) CreateNote(ctx context.Context, authorID primitive.ObjectID, text string, isPrivate bool) (*models.Note, error) {
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %v", err)
	}

	note := &models.Note{
		Text:       text,
		IsPrivate:  isPrivate,
		AuthorID:   authorID,
		AuthorName: displayNameOr(author, "Anônimo"),
	}
	created, err := s.notes.Create(ctx, note)
	if err != nil {
		return nil, err
	}

	message := "adicionou uma nova nota"
	if isPrivate {
		message = "adicionou uma nova nota privada"
	}
	s.notifier.NotifyPartner(ctx, author.Relationship.PartnerID, authorID,
		displayNameOr(author, "Seu parceiro(a)"), models.NotifTypeNote, message, created.ID.Hex())

	s.publish(ctx, created, "create")
	return created, nil
}

// DeleteNote removes a note. Only the author may delete.
func (s *NoteService) DeleteNote(ctx context.Context, id, userID primitive.ObjectID) error {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if note.AuthorID != userID {
		return fmt.Errorf("only the author can delete a note")
	}

	if err := s.notes.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, note, "delete")
	return nil
}

// ReplyToNote appends a reply and notifies the note's author when someone
// else replied. Replies inherit the note's visibility and are never edited.
func (s *NoteService) ReplyToNote(ctx context.Context, noteID, userID primitive.ObjectID, text string) (*models.Note, error) {
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	replier, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	reply := models.NoteReply{
		Text:       text,
		AuthorID:   userID,
		AuthorName: displayNameOr(replier, "Anônimo"),
		IsReply:    true,
		CreatedAt:  time.Now(),
	}
	if err := s.notes.AppendReply(ctx, noteID, reply); err != nil {
		return nil, err
	}
	note.Replies = append(note.Replies, reply)

	if note.AuthorID != userID {
		s.notifier.NotifyPartner(ctx, note.AuthorID, userID,
			displayNameOr(replier, "Seu parceiro(a)"), models.NotifTypeNoteReply, "respondeu sua nota", noteID.Hex())
	}

	s.publish(ctx, note, "update")
	return note, nil
}

// ListNotes returns the notes visible to the viewer: every public note,
// plus private notes authored by the viewer or by the viewer's linked
// partner. The store holds no access rules, so the filter runs here, after
// the fetch.
func (s *NoteService) ListNotes(ctx context.Context, viewerID primitive.ObjectID) ([]models.Note, error) {
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	notes, err := s.notes.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	visible := notes[:0]
	for _, note := range notes {
		if !note.IsPrivate || note.AuthorID == viewerID || note.AuthorID == viewer.Relationship.PartnerID {
			visible = append(visible, note)
		}
	}
	return visible, nil
}

func (s *NoteService) publish(ctx context.Context, note *models.Note, action string) {
	if s.hub == nil {
		return
	}
	targets := []string{note.AuthorID.Hex()}
	if author, err := s.users.GetUserByID(ctx, note.AuthorID); err == nil && !author.Relationship.PartnerID.IsZero() {
		targets = append(targets, author.Relationship.PartnerID.Hex())
	}
	s.hub.Publish(targets, ChangeEvent{
		Collection: "notes",
		Action:     action,
		ID:         note.ID.Hex(),
		Doc:        note,
	})
}
