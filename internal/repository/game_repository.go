package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/nossoespaco/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GameScoreRepository handles the append-only game_scores collection.
type GameScoreRepository struct {
	collection *mongo.Collection
}

func NewGameScoreRepository(db *mongo.Database) *GameScoreRepository {
	return &GameScoreRepository{
		collection: db.Collection("game_scores"),
	}
}

// Insert appends one completed game session.
func (r *GameScoreRepository) Insert(ctx context.Context, score *models.GameScore) (*models.GameScore, error) {
	score.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, score)
	if err != nil {
		return nil, fmt.Errorf("failed to insert game score: %v", err)
	}
	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		score.ID = insertedID
	}
	return score, nil
}

// ListByUsers returns all score records for the given users.
func (r *GameScoreRepository) ListByUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.GameScore, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game scores: %v", err)
	}
	defer cursor.Close(ctx)

	var scores []models.GameScore
	if err := cursor.All(ctx, &scores); err != nil {
		return nil, fmt.Errorf("failed to decode game scores: %v", err)
	}
	return scores, nil
}

// TicTacToeRepository handles the shared tic_tac_toe_games boards.
type TicTacToeRepository struct {
	collection *mongo.Collection
}

func NewTicTacToeRepository(db *mongo.Database) *TicTacToeRepository {
	return &TicTacToeRepository{
		collection: db.Collection("tic_tac_toe_games"),
	}
}

// FindActive returns the active game containing the given player, or
// ErrNotFound.
func (r *TicTacToeRepository) FindActive(ctx context.Context, playerID primitive.ObjectID) (*models.TicTacToeGame, error) {
	filter := bson.M{
		"players": playerID,
		"status":  models.TicTacToeActive,
	}

	var game models.TicTacToeGame
	err := r.collection.FindOne(ctx, filter).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active game: %v", err)
	}
	return &game, nil
}

// Create inserts a fresh board.
func (r *TicTacToeRepository) Create(ctx context.Context, game *models.TicTacToeGame) (*models.TicTacToeGame, error) {
	game.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, game)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %v", err)
	}
	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		game.ID = insertedID
	}
	return game, nil
}

// Update applies a partial field update to a game document.
func (r *TicTacToeRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update game: %v", err)
	}
	return nil
}

// GetByID fetches a game by its ID.
func (r *TicTacToeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TicTacToeGame, error) {
	var game models.TicTacToeGame
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&game); err != nil {
		return nil, fmt.Errorf("failed to find game: %v", err)
	}
	return &game, nil
}
