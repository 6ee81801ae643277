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

// NoteRepository handles database operations related to notes.
type NoteRepository struct {
	collection *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{
		collection: db.Collection("notes"),
	}
}

// Create inserts a new note.
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	note.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, note)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert note")
		return nil, fmt.Errorf("failed to create note: %v", err)
	}
	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		note.ID = insertedID
	}
	return note, nil
}

// GetByID fetches a note by its ID.
func (r *NoteRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Note, error) {
	var note models.Note
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&note); err != nil {
		return nil, fmt.Errorf("failed to find note: %v", err)
	}
	return &note, nil
}

// Delete removes a note.
func (r *NoteRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete note: %v", err)
	}
	return nil
}

// AppendReply pushes a reply onto the note. Replies are never edited or
// removed once appended.
func (r *NoteRepository) AppendReply(ctx context.Context, id primitive.ObjectID, reply models.NoteReply) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"replies": reply}},
	)
	if err != nil {
		return fmt.Errorf("failed to append reply: %v", err)
	}
	return nil
}

// ListAll returns every note, newest first. Visibility filtering is applied
// by the caller after the fetch.
func (r *NoteRepository) ListAll(ctx context.Context) ([]models.Note, error) {
	return findRecent[models.Note](ctx, r.collection, bson.M{}, 0, true)
}

// ListRecentByAuthor returns the author's newest notes for the dashboard.
func (r *NoteRepository) ListRecentByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int64) ([]models.Note, error) {
	return findRecent[models.Note](ctx, r.collection, bson.M{"authorId": authorID}, limit, false)
}
