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

// StoryRepository handles database operations related to stories.
type StoryRepository struct {
	collection *mongo.Collection
}

func NewStoryRepository(db *mongo.Database) *StoryRepository {
	return &StoryRepository{
		collection: db.Collection("stories"),
	}
}

// Create inserts a new story.
func (r *StoryRepository) Create(ctx context.Context, story *models.Story) (*models.Story, error) {
	story.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, story)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert story")
		return nil, fmt.Errorf("failed to create story: %v", err)
	}
	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		story.ID = insertedID
	}

	logger.Log.WithField("story_id", story.ID.Hex()).Info("Story created successfully")
	return story, nil
}

// GetByID fetches a story by its ID.
func (r *StoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Story, error) {
	var story models.Story
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&story); err != nil {
		return nil, fmt.Errorf("failed to find story: %v", err)
	}
	return &story, nil
}

// Update applies a partial field update.
func (r *StoryRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update story: %v", err)
	}
	return nil
}

// Delete removes a story.
func (r *StoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete story: %v", err)
	}
	return nil
}

// ListForUser returns stories authored by the user or addressed to them as
// partner, newest first.
func (r *StoryRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Story, error) {
	filter := bson.M{"$or": []bson.M{
		{"authorId": userID},
		{"partnerId": userID},
	}}
	return findRecent[models.Story](ctx, r.collection, filter, 0, true)
}

// ListRecentByAuthor returns the author's newest stories for the dashboard.
// Records without a timestamp are excluded here.
func (r *StoryRepository) ListRecentByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int64) ([]models.Story, error) {
	return findRecent[models.Story](ctx, r.collection, bson.M{"authorId": authorID}, limit, false)
}
