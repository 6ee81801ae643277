package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/nossoespaco/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PushRepository manages the push_notifications delivery queue.
type PushRepository struct {
	collection *mongo.Collection
}

func NewPushRepository(db *mongo.Database) *PushRepository {
	return &PushRepository{
		collection: db.Collection("push_notifications"),
	}
}

// Enqueue appends a delivery request to the queue.
func (r *PushRepository) Enqueue(ctx context.Context, push *models.PushNotification) error {
	push.Delivered = false
	push.Attempts = 0
	push.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, push)
	if err != nil {
		return fmt.Errorf("failed to enqueue push notification: %v", err)
	}
	return nil
}

// FetchUndelivered returns queued requests that still have delivery
// attempts left, oldest first.
func (r *PushRepository) FetchUndelivered(ctx context.Context, maxAttempts int, limit int64) ([]models.PushNotification, error) {
	filter := bson.M{
		"delivered": false,
		"attempts":  bson.M{"$lt": maxAttempts},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch push queue: %v", err)
	}
	defer cursor.Close(ctx)

	var pending []models.PushNotification
	if err := cursor.All(ctx, &pending); err != nil {
		return nil, fmt.Errorf("failed to decode push queue: %v", err)
	}
	return pending, nil
}

// MarkDelivered flags a queue entry as delivered.
func (r *PushRepository) MarkDelivered(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"delivered":     true,
		"lastAttemptAt": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to mark push delivered: %v", err)
	}
	return nil
}

// RecordFailure bumps the attempt counter after a failed delivery.
func (r *PushRepository) RecordFailure(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"attempts": 1},
		"$set": bson.M{"lastAttemptAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to record push failure: %v", err)
	}
	return nil
}
