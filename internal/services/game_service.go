package services

import (
	"context"
	"fmt"

	"github.com/nossoespaco/server/internal/models"
	"github.com/nossoespaco/server/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// winningLines are the eight three-in-a-row cell index combinations.
var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// ScoreStore is the persistence surface for game score records.
type ScoreStore interface {
	Insert(ctx context.Context, score *models.GameScore) (*models.GameScore, error)
	ListByUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.GameScore, error)
}

// BoardStore is the persistence surface for tic-tac-toe boards.
type BoardStore interface {
	FindActive(ctx context.Context, playerID primitive.ObjectID) (*models.TicTacToeGame, error)
	Create(ctx context.Context, game *models.TicTacToeGame) (*models.TicTacToeGame, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.TicTacToeGame, error)
}

// GameService handles game score records and the shared tic-tac-toe board.
type GameService struct {
	scores ScoreStore
	boards BoardStore
	users  UserStore
	hub    ChangePublisher
}

func NewGameService(scores ScoreStore, boards BoardStore, users UserStore, hub ChangePublisher) *GameService {
	return &GameService{
		scores: scores,
		boards: boards,
		users:  users,
		hub:    hub,
	}
}

// ScoreInput carries one completed game session.
type ScoreInput struct {
	GameID       string `json:"gameId"`
	Points       int    `json:"points"`
	Level        string `json:"level,omitempty"`
	Moves        int    `json:"moves,omitempty"`
	WrongGuesses int    `json:"wrongGuesses,omitempty"`
}

// SaveScore appends one game session record.
func (s *GameService) SaveScore(ctx context.Context, userID primitive.ObjectID, input ScoreInput) (*models.GameScore, error) {
	if input.GameID == "" {
		return nil, fmt.Errorf("gameId is required")
	}

	score := &models.GameScore{
		UserID:       userID,
		GameID:       input.GameID,
		Points:       input.Points,
		Level:        input.Level,
		Moves:        input.Moves,
		WrongGuesses: input.WrongGuesses,
	}
	return s.scores.Insert(ctx, score)
}

// ScoreboardEntry is one player's point total.
type ScoreboardEntry struct {
	User   models.PublicUser `json:"user"`
	Points int               `json:"points"`
}

// GetScoreboard totals points for the user and their linked partner.
func (s *GameService) GetScoreboard(ctx context.Context, userID primitive.ObjectID) ([]ScoreboardEntry, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	members := []*models.User{user}
	if !user.Relationship.PartnerID.IsZero() {
		if partner, err := s.users.GetUserByID(ctx, user.Relationship.PartnerID); err == nil {
			members = append(members, partner)
		}
	}

	ids := make([]primitive.ObjectID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	scores, err := s.scores.ListByUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	totals := make(map[primitive.ObjectID]int)
	for _, score := range scores {
		totals[score.UserID] += score.Points
	}

	board := make([]ScoreboardEntry, 0, len(members))
	for _, m := range members {
		board = append(board, ScoreboardEntry{User: m.Public(), Points: totals[m.ID]})
	}
	// Highest total first.
	if len(board) == 2 && board[1].Points > board[0].Points {
		board[0], board[1] = board[1], board[0]
	}
	return board, nil
}

// GetOrCreateTicTacToe returns the couple's active board, creating a fresh
// one when none exists. Requires a linked partner.
func (s *GameService) GetOrCreateTicTacToe(ctx context.Context, userID primitive.ObjectID) (*models.TicTacToeGame, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	if user.Relationship.PartnerID.IsZero() {
		return nil, ErrNoPartner
	}

	game, err := s.boards.FindActive(ctx, userID)
	if err == nil {
		return game, nil
	}
	if err != repository.ErrNotFound {
		return nil, err
	}

	game = &models.TicTacToeGame{
		Players:       []primitive.ObjectID{userID, user.Relationship.PartnerID},
		Board:         make([]string, 9),
		CurrentPlayer: userID,
		PlayerX:       userID,
		Status:        models.TicTacToeActive,
	}
	created, err := s.boards.Create(ctx, game)
	if err != nil {
		return nil, err
	}
	s.publishGame(created, "create")
	return created, nil
}

// PlayTicTacToe applies one move: the cell gets the mover's id, the turn
// passes, and a finished line or full board settles the winner.
func (s *GameService) PlayTicTacToe(ctx context.Context, gameID, userID primitive.ObjectID, cell int) (*models.TicTacToeGame, error) {
	game, err := s.boards.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !containsPlayer(game.Players, userID) {
		return nil, fmt.Errorf("not a player in this game")
	}
	if game.Winner != "" {
		return nil, fmt.Errorf("game is already decided")
	}
	if game.CurrentPlayer != userID {
		return nil, fmt.Errorf("not your turn")
	}
	if cell < 0 || cell >= len(game.Board) || game.Board[cell] != "" {
		return nil, fmt.Errorf("invalid move")
	}

	game.Board[cell] = userID.Hex()
	game.CurrentPlayer = otherPlayer(game.Players, userID)
	game.Winner = boardWinner(game.Board)
	if game.Winner != "" {
		game.Status = models.TicTacToeFinished
	}

	if err := s.boards.Update(ctx, gameID, bson.M{
		"board":         game.Board,
		"currentPlayer": game.CurrentPlayer,
		"winner":        game.Winner,
		"status":        game.Status,
	}); err != nil {
		return nil, err
	}

	s.publishGame(game, "update")
	return game, nil
}

// RestartTicTacToe resets the board, alternating who plays X.
func (s *GameService) RestartTicTacToe(ctx context.Context, gameID, userID primitive.ObjectID) (*models.TicTacToeGame, error) {
	game, err := s.boards.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !containsPlayer(game.Players, userID) {
		return nil, fmt.Errorf("not a player in this game")
	}

	game.Board = make([]string, 9)
	game.CurrentPlayer = userID
	game.PlayerX = otherPlayer(game.Players, game.PlayerX)
	game.Winner = ""
	game.Status = models.TicTacToeActive

	if err := s.boards.Update(ctx, gameID, bson.M{
		"board":         game.Board,
		"currentPlayer": game.CurrentPlayer,
		"playerX":       game.PlayerX,
		"winner":        "",
		"status":        game.Status,
	}); err != nil {
		return nil, err
	}

	s.publishGame(game, "update")
	return game, nil
}

// boardWinner returns the winning player's id hex, "draw" on a full board
// with no line, or "" while the game is still open.
func boardWinner(board []string) string {
	for _, line := range winningLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != "" && a == b && a == c {
			return a
		}
	}
	for _, cell := range board {
		if cell == "" {
			return ""
		}
	}
	return models.DrawWinner
}

func containsPlayer(players []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, p := range players {
		if p == id {
			return true
		}
	}
	return false
}

func otherPlayer(players []primitive.ObjectID, id primitive.ObjectID) primitive.ObjectID {
	for _, p := range players {
		if p != id {
			return p
		}
	}
	return id
}

func (s *GameService) publishGame(game *models.TicTacToeGame, action string) {
	if s.hub == nil {
		return
	}
	targets := make([]string, 0, len(game.Players))
	for _, p := range game.Players {
		targets = append(targets, p.Hex())
	}
	s.hub.Publish(targets, ChangeEvent{
		Collection: "tic_tac_toe_games",
		Action:     action,
		ID:         game.ID.Hex(),
		Doc:        game,
	})
}
