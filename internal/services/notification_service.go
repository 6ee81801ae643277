package services

import (
	"context"

	"github.com/nossoespaco/server/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationStore is the persistence surface the relay needs.
type NotificationStore interface {
	Create(ctx context.Context, notif *models.Notification) error
	CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error)
	ListByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, recipientID primitive.ObjectID) error
}

// PushQueue enqueues out-of-band delivery requests.
type PushQueue interface {
	Enqueue(ctx context.Context, push *models.PushNotification) error
}

// PartnerNotifier is what content services call as a side effect of a
// write. Implementations must never propagate failures to the caller.
type PartnerNotifier interface {
	NotifyPartner(ctx context.Context, recipientID, senderID primitive.ObjectID, senderName, category, message, itemID string)
}

// NotificationService decouples partner-activity events from delivery: one
// in-app notification record, one independent push-queue record.
type NotificationService struct {
	store NotificationStore
	queue PushQueue
}

func NewNotificationService(store NotificationStore, queue PushQueue) *NotificationService {
	return &NotificationService{
		store: store,
		queue: queue,
	}
}

// NotifyPartner records partner activity for recipientID and enqueues a
// push request. A zero recipient means the sender has no linked partner and
// the call is a silent no-op. The two writes are independent and
// non-transactional; either may succeed without the other. Failures are
// logged and swallowed so a failed notification never blocks the primary
// action that triggered it.
func (s *NotificationService) NotifyPartner(ctx context.Context, recipientID, senderID primitive.ObjectID, senderName, category, message, itemID string) {
	if recipientID.IsZero() {
		return
	}

	notif := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		SenderName:  senderName,
		Type:        category,
		Message:     message,
		ItemID:      itemID,
		Read:        false,
	}
	if err := s.store.Create(ctx, notif); err != nil {
		logrus.WithError(err).WithField("recipientID", recipientID.Hex()).Warn("Failed to store partner notification")
	}

	if err := s.queue.Enqueue(ctx, buildPushRequest(recipientID, senderName, category, message, itemID)); err != nil {
		logrus.WithError(err).WithField("recipientID", recipientID.Hex()).Warn("Failed to enqueue push notification")
	}
}

// buildPushRequest assembles the provider payload for one notification.
// The shape is the queue contract: the sender's name as title, the message
// as body, and a data block the client uses to deep-link.
func buildPushRequest(recipientID primitive.ObjectID, senderName, category, message, itemID string) *models.PushNotification {
	return &models.PushNotification{
		RecipientID: recipientID,
		Notification: models.PushContent{
			Title: senderName,
			Body:  message,
		},
		Data: models.PushData{
			Type:        category,
			ItemID:      itemID,
			URL:         "/" + category + "s",
			ClickAction: "FLUTTER_NOTIFICATION_CLICK",
		},
		Android: models.AndroidConfig{
			Priority: "high",
			Notification: models.AndroidNotification{
				ChannelID:  "default",
				Sound:      true,
				Priority:   "max",
				Visibility: "public",
			},
		},
		APNS: models.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
			Payload: models.APNSPayload{
				APS: models.APS{
					Sound: "default",
					Badge: 1,
				},
			},
		},
	}
}

// GetUnreadCount returns how many notifications the user has not read yet.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.store.CountUnread(ctx, userID)
}

// ListNotifications returns the user's full notification history, newest
// first, regardless of whether the store could run the sorted query.
func (s *NotificationService) ListNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.store.ListByRecipient(ctx, userID)
}

// MarkAsRead flips one notification to read. Safe to call repeatedly.
func (s *NotificationService) MarkAsRead(ctx context.Context, notifID primitive.ObjectID) error {
	return s.store.MarkAsRead(ctx, notifID)
}

// MarkAllAsRead flips every unread notification for the user.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.store.MarkAllAsRead(ctx, userID)
}
