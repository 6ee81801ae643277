package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameScore is an append-only record of one completed game session.
// Level, Moves and WrongGuesses are filled per game where they apply.
type GameScore struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	GameID       string             `bson:"gameId" json:"gameId"` // "memory", "word", "snake"
	Points       int                `bson:"points" json:"points"`
	Level        string             `bson:"level,omitempty" json:"level,omitempty"`
	Moves        int                `bson:"moves,omitempty" json:"moves,omitempty"`
	WrongGuesses int                `bson:"wrongGuesses,omitempty" json:"wrongGuesses,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// Tic-tac-toe game status values.
const (
	TicTacToeActive   = "active"
	TicTacToeFinished = "finished"
)

// DrawWinner marks a finished game with no winner.
const DrawWinner = "draw"

// TicTacToeGame is the shared board for a pair. Cells hold a player id hex
// or the empty string. Both partners write the same document; moves are
// last-write-wins like every other shared record.
type TicTacToeGame struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Players       []primitive.ObjectID `bson:"players" json:"players"`
	Board         []string             `bson:"board" json:"board"`
	CurrentPlayer primitive.ObjectID   `bson:"currentPlayer" json:"currentPlayer"`
	PlayerX       primitive.ObjectID   `bson:"playerX" json:"playerX"`
	Status        string               `bson:"status" json:"status"`
	Winner        string               `bson:"winner,omitempty" json:"winner,omitempty"` // player id hex or "draw"
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
}
