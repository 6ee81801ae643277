package services

import (
	"context"
	"fmt"

	"github.com/nossoespaco/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DreamStore is the persistence surface for dreams and goals.
type DreamStore interface {
	Create(ctx context.Context, dream *models.Dream) (*models.Dream, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Dream, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListForUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.Dream, error)
}

// DreamService handles shared dreams and goals.
type DreamService struct {
	dreams   DreamStore
	users    UserStore
	notifier PartnerNotifier
	hub      ChangePublisher
}

func NewDreamService(dreams DreamStore, users UserStore, notifier PartnerNotifier, hub ChangePublisher) *DreamService {
	return &DreamService{
		dreams:   dreams,
		users:    users,
		notifier: notifier,
		hub:      hub,
	}
}

// CreateDream records a new dream or goal and notifies the linked partner,
// if any.
func (s *DreamService) CreateDream(ctx context.Context, authorID primitive.ObjectID, text, dreamType, targetDate string, pinned bool) (*models.Dream, error) {
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	if dreamType != models.DreamTypeGoal && dreamType != models.DreamTypeDream {
		return nil, fmt.Errorf("invalid dream type %q", dreamType)
	}

	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %v", err)
	}

	dream := &models.Dream{
		Text:       text,
		Type:       dreamType,
		TargetDate: targetDate,
		Pinned:     pinned,
		AuthorID:   authorID,
	}
	created, err := s.dreams.Create(ctx, dream)
	if err != nil {
		return nil, err
	}

	category := models.NotifTypeDream
	message := "adicionou um novo sonho: " + text
	if dreamType == models.DreamTypeGoal {
		category = models.NotifTypeGoal
		message = "adicionou uma nova meta: " + text
	}
	s.notifier.NotifyPartner(ctx, author.Relationship.PartnerID, authorID,
		displayNameOr(author, "Seu parceiro(a)"), category, message, created.ID.Hex())

	s.publish(ctx, created, "create")
	return created, nil
}

// UpdateDream edits a dream's text, type, target date and pin state. Only
// the author may edit.
func (s *DreamService) UpdateDream(ctx context.Context, id, userID primitive.ObjectID, text, dreamType, targetDate string, pinned bool) (*models.Dream, error) {
	dream, err := s.dreams.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dream.AuthorID != userID {
		return nil, fmt.Errorf("only the author can edit")
	}

	if err := s.dreams.Update(ctx, id, bson.M{
		"text":       text,
		"type":       dreamType,
		"targetDate": targetDate,
		"pinned":     pinned,
	}); err != nil {
		return nil, err
	}
	dream.Text = text
	dream.Type = dreamType
	dream.TargetDate = targetDate
	dream.Pinned = pinned

	s.publish(ctx, dream, "update")
	return dream, nil
}

// ToggleCompleted flips completion. Either partner may toggle.
func (s *DreamService) ToggleCompleted(ctx context.Context, id, userID primitive.ObjectID) (*models.Dream, error) {
	return s.toggle(ctx, id, userID, "completed")
}

// TogglePinned flips pinning. Either partner may toggle.
func (s *DreamService) TogglePinned(ctx context.Context, id, userID primitive.ObjectID) (*models.Dream, error) {
	return s.toggle(ctx, id, userID, "pinned")
}

func (s *DreamService) toggle(ctx context.Context, id, userID primitive.ObjectID, field string) (*models.Dream, error) {
	dream, err := s.dreams.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCoupleAccess(ctx, dream.AuthorID, userID); err != nil {
		return nil, err
	}

	var value bool
	switch field {
	case "completed":
		dream.Completed = !dream.Completed
		value = dream.Completed
	case "pinned":
		dream.Pinned = !dream.Pinned
		value = dream.Pinned
	}
	if err := s.dreams.Update(ctx, id, bson.M{field: value}); err != nil {
		return nil, err
	}

	s.publish(ctx, dream, "update")
	return dream, nil
}

// DeleteDream removes a dream. Only the author may delete.
func (s *DreamService) DeleteDream(ctx context.Context, id, userID primitive.ObjectID) error {
	dream, err := s.dreams.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if dream.AuthorID != userID {
		return fmt.Errorf("only the author can delete")
	}

	if err := s.dreams.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, dream, "delete")
	return nil
}

// ListDreams returns the dreams of the user and their linked partner.
func (s *DreamService) ListDreams(ctx context.Context, userID primitive.ObjectID) ([]models.Dream, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	ids := []primitive.ObjectID{userID}
	if !user.Relationship.PartnerID.IsZero() {
		ids = append(ids, user.Relationship.PartnerID)
	}
	return s.dreams.ListForUsers(ctx, ids)
}

// authorizeCoupleAccess allows the author and the author's linked partner.
func (s *DreamService) authorizeCoupleAccess(ctx context.Context, authorID, userID primitive.ObjectID) error {
	if authorID == userID {
		return nil
	}
	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		return fmt.Errorf("failed to get author: %v", err)
	}
	if author.Relationship.PartnerID != userID {
		return fmt.Errorf("not allowed")
	}
	return nil
}

func (s *DreamService) publish(ctx context.Context, dream *models.Dream, action string) {
	if s.hub == nil {
		return
	}
	targets := []string{dream.AuthorID.Hex()}
	if author, err := s.users.GetUserByID(ctx, dream.AuthorID); err == nil && !author.Relationship.PartnerID.IsZero() {
		targets = append(targets, author.Relationship.PartnerID.Hex())
	}
	s.hub.Publish(targets, ChangeEvent{
		Collection: "dreams",
		Action:     action,
		ID:         dream.ID.Hex(),
		Doc:        dream,
	})
}
