package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nossoespaco/server/internal/models"
	"github.com/nossoespaco/server/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNoPartner is returned by operations that require a linked partner.
var ErrNoPartner = errors.New("no linked partner")

// CoupleStore is the persistence surface for couple documents.
type CoupleStore interface {
	Get(ctx context.Context, key string) (*models.Couple, error)
	Create(ctx context.Context, couple *models.Couple) error
	Update(ctx context.Context, key string, fields bson.M) error
}

// UserStore is the subset of user persistence shared services rely on.
type UserStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error)
}

// CoupleService manages the shared settings of a linked pair.
type CoupleService struct {
	couples  CoupleStore
	users    UserStore
	notifier PartnerNotifier
	hub      ChangePublisher
}

func NewCoupleService(couples CoupleStore, users UserStore, notifier PartnerNotifier, hub ChangePublisher) *CoupleService {
	return &CoupleService{
		couples:  couples,
		users:    users,
		notifier: notifier,
		hub:      hub,
	}
}

// CoupleSettings is the view of a couple document from one partner's side.
type CoupleSettings struct {
	Partner         models.PublicUser `json:"partner"`
	Anniversary     string            `json:"anniversary"`
	Nickname        string            `json:"nickname"`
	PartnerNickname string            `json:"partnerNickname"`
}

// SettingsUpdate carries the editable couple settings.
type SettingsUpdate struct {
	Anniversary     string `json:"anniversary"`
	Nickname        string `json:"nickname"`
	PartnerNickname string `json:"partnerNickname"`
}

// findCoupleDoc probes the canonical key and the reverse ordering, because
// documents written before key canonicalization may use either. Returns the
// found document and its key, or nil and the canonical key to create under.
func (s *CoupleService) findCoupleDoc(ctx context.Context, userID, partnerID string) (*models.Couple, string, error) {
	canonical := models.CoupleKey(userID, partnerID)
	for _, key := range models.LegacyCoupleKeys(userID, partnerID) {
		couple, err := s.couples.Get(ctx, key)
		if err == nil {
			return couple, key, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, "", err
		}
	}
	return nil, canonical, nil
}

// GetSettings returns the couple settings as seen by the given user.
func (s *CoupleService) GetSettings(ctx context.Context, userID primitive.ObjectID) (*CoupleSettings, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	if user.Relationship.PartnerID.IsZero() {
		return nil, ErrNoPartner
	}

	partner, err := s.users.GetUserByID(ctx, user.Relationship.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get partner: %v", err)
	}

	settings := &CoupleSettings{
		Partner:     partner.Public(),
		Anniversary: user.Relationship.Anniversary,
	}

	couple, _, err := s.findCoupleDoc(ctx, userID.Hex(), partner.ID.Hex())
	if err != nil {
		return nil, err
	}
	if couple != nil {
		if couple.Anniversary != "" {
			settings.Anniversary = couple.Anniversary
		}
		settings.Nickname = couple.Nicknames[userID.Hex()]
		settings.PartnerNickname = couple.Nicknames[partner.ID.Hex()]
	}
	return settings, nil
}

// SaveSettings creates or updates the couple document, mirrors the
// anniversary onto both user records, and notifies the partner. New
// documents always use the canonical (sorted) key, so two simultaneous
// first saves from both partners land on the same document id.
func (s *CoupleService) SaveSettings(ctx context.Context, userID primitive.ObjectID, update SettingsUpdate) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %v", err)
	}
	if user.Relationship.PartnerID.IsZero() {
		return ErrNoPartner
	}
	partnerID := user.Relationship.PartnerID

	couple, key, err := s.findCoupleDoc(ctx, userID.Hex(), partnerID.Hex())
	if err != nil {
		return err
	}
	if couple == nil {
		if err := s.couples.Create(ctx, &models.Couple{
			ID:        key,
			UserIDs:   []string{userID.Hex(), partnerID.Hex()},
			Nicknames: map[string]string{},
		}); err != nil {
			return err
		}
	}

	if err := s.couples.Update(ctx, key, bson.M{
		"anniversary": update.Anniversary,
		"nicknames": map[string]string{
			userID.Hex():    update.Nickname,
			partnerID.Hex(): update.PartnerNickname,
		},
	}); err != nil {
		return err
	}

	// Mirror the anniversary onto both user records so profile views agree.
	if _, err := s.users.UpdateUser(ctx, userID, bson.M{"relationship.anniversary": update.Anniversary}); err != nil {
		logrus.WithError(err).Warn("Failed to mirror anniversary to user")
	}
	if _, err := s.users.UpdateUser(ctx, partnerID, bson.M{"relationship.anniversary": update.Anniversary}); err != nil {
		logrus.WithError(err).Warn("Failed to mirror anniversary to partner")
	}

	s.notifier.NotifyPartner(ctx, partnerID, userID, displayNameOr(user, "Seu parceiro(a)"),
		models.NotifTypeSettings, "atualizou as configurações do casal", "")

	if s.hub != nil {
		s.hub.Publish([]string{userID.Hex(), partnerID.Hex()}, ChangeEvent{
			Collection: "couples",
			Action:     "update",
			ID:         key,
		})
	}
	return nil
}

func displayNameOr(user *models.User, fallback string) string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return fallback
}
