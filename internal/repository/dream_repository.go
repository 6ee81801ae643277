package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/nossoespaco/server/internal/models"
	"github.com/nossoespaco/server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DreamRepository handles database operations related to dreams and goals.
type DreamRepository struct {
	collection *mongo.Collection
}

func NewDreamRepository(db *mongo.Database) *DreamRepository {
	return &DreamRepository{
		collection: db.Collection("dreams"),
	}
}

// Create inserts a new dream or goal.
func (r *DreamRepository) Create(ctx context.Context, dream *models.Dream) (*models.Dream, error) {
	dream.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, dream)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert dream")
		return nil, fmt.Errorf("failed to create dream: %v", err)
	}
	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		dream.ID = insertedID
	}

	logger.Log.WithField("dream_id", dream.ID.Hex()).Info("Dream created successfully")
	return dream, nil
}

// GetByID fetches a dream by its ID.
func (r *DreamRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Dream, error) {
	var dream models.Dream
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&dream); err != nil {
		return nil, fmt.Errorf("failed to find dream: %v", err)
	}
	return &dream, nil
}

// Update applies a partial field update.
func (r *DreamRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update dream: %v", err)
	}
	return nil
}

// Delete removes a dream.
func (r *DreamRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete dream: %v", err)
	}
	return nil
}

// ListForUsers returns the dreams authored by any of the given users.
// Ordering (pinned first, then target date) is a presentation concern left
// to the client, as it always was.
func (r *DreamRepository) ListForUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.Dream, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"authorId": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dreams: %v", err)
	}
	defer cursor.Close(ctx)

	var dreams []models.Dream
	if err := cursor.All(ctx, &dreams); err != nil {
		return nil, fmt.Errorf("failed to decode dreams: %v", err)
	}
	return dreams, nil
}

// ListRecentByAuthor returns the author's newest dreams for the dashboard.
func (r *DreamRepository) ListRecentByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int64) ([]models.Dream, error) {
	return findRecent[models.Dream](ctx, r.collection, bson.M{"authorId": authorID}, limit, false)
}
