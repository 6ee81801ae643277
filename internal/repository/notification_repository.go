package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/nossoespaco/server/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
	}
}

// Create inserts a new notification with a server-assigned timestamp.
func (r *NotificationRepository) Create(ctx context.Context, notif *models.Notification) error {
	notif.Read = false
	notif.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, notif)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert notification")
		return fmt.Errorf("failed to create notification: %v", err)
	}
	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		notif.ID = insertedID
	}
	return nil
}

// CountUnread counts unread notifications for a recipient. The query is a
// plain double-equality filter with no ordering clause, so it never depends
// on a compound index.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"recipientId": recipientID,
		"read":        false,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %v", err)
	}
	return count, nil
}

// ListByRecipient returns all notifications for a recipient, newest first.
// When the store cannot run the sorted query the records are sorted
// client-side; a record missing its timestamp is ranked as most recent
// rather than dropped.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.Notification, error) {
	return findRecent[models.Notification](ctx, r.collection, bson.M{"recipientId": recipientID}, 0, true)
}

// MarkAsRead flips a notification's read flag. Repeated calls are no-ops.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %v", err)
	}
	return nil
}

// MarkAllAsRead flips every unread notification for a recipient.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, recipientID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"recipientId": recipientID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications as read: %v", err)
	}
	return nil
}
