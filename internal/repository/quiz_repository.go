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

// QuizRepository handles database operations related to quizzes.
type QuizRepository struct {
	collection *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{
		collection: db.Collection("quizzes"),
	}
}

// Create inserts a new quiz.
func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error) {
	quiz.CreatedAt = time.Now()
	if quiz.Attempts == nil {
		quiz.Attempts = []models.QuizAttempt{}
	}

	result, err := r.collection.InsertOne(ctx, quiz)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert quiz")
		return nil, fmt.Errorf("failed to create quiz: %v", err)
	}
	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		quiz.ID = insertedID
	}
	return quiz, nil
}

// GetByID fetches a quiz by its ID.
func (r *QuizRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz); err != nil {
		return nil, fmt.Errorf("failed to find quiz: %v", err)
	}
	return &quiz, nil
}

// Delete removes a quiz.
func (r *QuizRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %v", err)
	}
	return nil
}

// ListByAuthor returns quizzes created by the user, newest first.
func (r *QuizRepository) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Quiz, error) {
	return findRecent[models.Quiz](ctx, r.collection, bson.M{"authorId": authorID}, 0, true)
}

// ListByPartner returns quizzes assigned to the user as answering partner,
// newest first.
func (r *QuizRepository) ListByPartner(ctx context.Context, partnerID primitive.ObjectID) ([]models.Quiz, error) {
	return findRecent[models.Quiz](ctx, r.collection, bson.M{"partnerId": partnerID}, 0, true)
}

// RecordAttempt overwrites the attempt-tracking fields after a partner
// finishes a pass.
func (r *QuizRepository) RecordAttempt(ctx context.Context, id primitive.ObjectID, attempts []models.QuizAttempt, bestScore int, answers []models.QuizAnswer) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"completed":       true,
		"partnerScore":    bestScore,
		"attempts":        attempts,
		"partnerAnswers":  answers,
		"lastCompletedAt": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to record quiz attempt: %v", err)
	}
	return nil
}
