package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nossoespaco/server/internal/models"
	"github.com/nossoespaco/server/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes backing the service tests. They mirror the repository
// behavior closely enough for service-level assertions without a database.

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return user, nil
}

func (s *fakeUserStore) UpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	if anniversary, ok := fields["relationship.anniversary"].(string); ok {
		user.Relationship.Anniversary = anniversary
	}
	return user, nil
}

type notifyCall struct {
	RecipientID primitive.ObjectID
	SenderID    primitive.ObjectID
	SenderName  string
	Category    string
	Message     string
	ItemID      string
}

type fakeNotifier struct {
	calls []notifyCall
}

func (n *fakeNotifier) NotifyPartner(ctx context.Context, recipientID, senderID primitive.ObjectID, senderName, category, message, itemID string) {
	if recipientID.IsZero() {
		return
	}
	n.calls = append(n.calls, notifyCall{
		RecipientID: recipientID,
		SenderID:    senderID,
		SenderName:  senderName,
		Category:    category,
		Message:     message,
		ItemID:      itemID,
	})
}

type publishedEvent struct {
	UserIDs []string
	Event   ChangeEvent
}

type fakeHub struct {
	events []publishedEvent
}

func (h *fakeHub) Publish(userIDs []string, event ChangeEvent) {
	h.events = append(h.events, publishedEvent{UserIDs: userIDs, Event: event})
}

type fakeNotificationStore struct {
	notifications []models.Notification
	createErr     error
}

func (s *fakeNotificationStore) Create(ctx context.Context, notif *models.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	notif.ID = primitive.NewObjectID()
	notif.CreatedAt = time.Now()
	s.notifications = append(s.notifications, *notif)
	return nil
}

func (s *fakeNotificationStore) CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	var count int64
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *fakeNotificationStore) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeNotificationStore) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
		}
	}
	return nil
}

func (s *fakeNotificationStore) MarkAllAsRead(ctx context.Context, recipientID primitive.ObjectID) error {
	for i := range s.notifications {
		if s.notifications[i].RecipientID == recipientID {
			s.notifications[i].Read = true
		}
	}
	return nil
}

type fakePushQueue struct {
	queued     []*models.PushNotification
	enqueueErr error
}

func (q *fakePushQueue) Enqueue(ctx context.Context, push *models.PushNotification) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.queued = append(q.queued, push)
	return nil
}

type fakeNoteStore struct {
	notes map[primitive.ObjectID]*models.Note
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[primitive.ObjectID]*models.Note)}
}

func (s *fakeNoteStore) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	note.ID = primitive.NewObjectID()
	note.CreatedAt = time.Now()
	s.notes[note.ID] = note
	return note, nil
}

func (s *fakeNoteStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Note, error) {
	note, ok := s.notes[id]
	if !ok {
		return nil, fmt.Errorf("note not found")
	}
	copied := *note
	return &copied, nil
}

func (s *fakeNoteStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(s.notes, id)
	return nil
}

func (s *fakeNoteStore) AppendReply(ctx context.Context, id primitive.ObjectID, reply models.NoteReply) error {
	note, ok := s.notes[id]
	if !ok {
		return fmt.Errorf("note not found")
	}
	note.Replies = append(note.Replies, reply)
	return nil
}

func (s *fakeNoteStore) ListAll(ctx context.Context) ([]models.Note, error) {
	out := make([]models.Note, 0, len(s.notes))
	for _, note := range s.notes {
		out = append(out, *note)
	}
	return out, nil
}

type fakeDreamStore struct {
	dreams map[primitive.ObjectID]*models.Dream
}

func newFakeDreamStore() *fakeDreamStore {
	return &fakeDreamStore{dreams: make(map[primitive.ObjectID]*models.Dream)}
}

func (s *fakeDreamStore) Create(ctx context.Context, dream *models.Dream) (*models.Dream, error) {
	dream.ID = primitive.NewObjectID()
	dream.CreatedAt = time.Now()
	s.dreams[dream.ID] = dream
	return dream, nil
}

func (s *fakeDreamStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Dream, error) {
	dream, ok := s.dreams[id]
	if !ok {
		return nil, fmt.Errorf("dream not found")
	}
	copied := *dream
	return &copied, nil
}

func (s *fakeDreamStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	dream, ok := s.dreams[id]
	if !ok {
		return fmt.Errorf("dream not found")
	}
	if text, ok := fields["text"].(string); ok {
		dream.Text = text
	}
	if dreamType, ok := fields["type"].(string); ok {
		dream.Type = dreamType
	}
	if targetDate, ok := fields["targetDate"].(string); ok {
		dream.TargetDate = targetDate
	}
	if completed, ok := fields["completed"].(bool); ok {
		dream.Completed = completed
	}
	if pinned, ok := fields["pinned"].(bool); ok {
		dream.Pinned = pinned
	}
	return nil
}

func (s *fakeDreamStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(s.dreams, id)
	return nil
}

func (s *fakeDreamStore) ListForUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.Dream, error) {
	var out []models.Dream
	for _, dream := range s.dreams {
		for _, id := range userIDs {
			if dream.AuthorID == id {
				out = append(out, *dream)
			}
		}
	}
	return out, nil
}

type fakeCoupleStore struct {
	couples map[string]*models.Couple
}

func newFakeCoupleStore() *fakeCoupleStore {
	return &fakeCoupleStore{couples: make(map[string]*models.Couple)}
}

func (s *fakeCoupleStore) Get(ctx context.Context, key string) (*models.Couple, error) {
	couple, ok := s.couples[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return couple, nil
}

func (s *fakeCoupleStore) Create(ctx context.Context, couple *models.Couple) error {
	s.couples[couple.ID] = couple
	return nil
}

func (s *fakeCoupleStore) Update(ctx context.Context, key string, fields bson.M) error {
	couple, ok := s.couples[key]
	if !ok {
		return repository.ErrNotFound
	}
	if anniversary, ok := fields["anniversary"].(string); ok {
		couple.Anniversary = anniversary
	}
	if nicknames, ok := fields["nicknames"].(map[string]string); ok {
		couple.Nicknames = nicknames
	}
	return nil
}

type fakeQuizStore struct {
	quizzes map[primitive.ObjectID]*models.Quiz
}

func newFakeQuizStore() *fakeQuizStore {
	return &fakeQuizStore{quizzes: make(map[primitive.ObjectID]*models.Quiz)}
}

func (s *fakeQuizStore) Create(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error) {
	quiz.ID = primitive.NewObjectID()
	quiz.CreatedAt = time.Now()
	s.quizzes[quiz.ID] = quiz
	return quiz, nil
}

func (s *fakeQuizStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error) {
	quiz, ok := s.quizzes[id]
	if !ok {
		return nil, fmt.Errorf("quiz not found")
	}
	copied := *quiz
	return &copied, nil
}

func (s *fakeQuizStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(s.quizzes, id)
	return nil
}

func (s *fakeQuizStore) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Quiz, error) {
	var out []models.Quiz
	for _, quiz := range s.quizzes {
		if quiz.AuthorID == authorID {
			out = append(out, *quiz)
		}
	}
	return out, nil
}

func (s *fakeQuizStore) ListByPartner(ctx context.Context, partnerID primitive.ObjectID) ([]models.Quiz, error) {
	var out []models.Quiz
	for _, quiz := range s.quizzes {
		if quiz.PartnerID == partnerID {
			out = append(out, *quiz)
		}
	}
	return out, nil
}

func (s *fakeQuizStore) RecordAttempt(ctx context.Context, id primitive.ObjectID, attempts []models.QuizAttempt, bestScore int, answers []models.QuizAnswer) error {
	quiz, ok := s.quizzes[id]
	if !ok {
		return fmt.Errorf("quiz not found")
	}
	quiz.Attempts = attempts
	quiz.PartnerScore = bestScore
	quiz.PartnerAnswers = answers
	quiz.Completed = true
	quiz.LastCompletedAt = time.Now()
	return nil
}

type fakeBoardStore struct {
	games map[primitive.ObjectID]*models.TicTacToeGame
}

func newFakeBoardStore() *fakeBoardStore {
	return &fakeBoardStore{games: make(map[primitive.ObjectID]*models.TicTacToeGame)}
}

func (s *fakeBoardStore) FindActive(ctx context.Context, playerID primitive.ObjectID) (*models.TicTacToeGame, error) {
	for _, game := range s.games {
		if game.Status != models.TicTacToeActive {
			continue
		}
		for _, p := range game.Players {
			if p == playerID {
				return game, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeBoardStore) Create(ctx context.Context, game *models.TicTacToeGame) (*models.TicTacToeGame, error) {
	game.ID = primitive.NewObjectID()
	game.CreatedAt = time.Now()
	s.games[game.ID] = game
	return game, nil
}

func (s *fakeBoardStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	game, ok := s.games[id]
	if !ok {
		return fmt.Errorf("game not found")
	}
	if board, ok := fields["board"].([]string); ok {
		game.Board = board
	}
	if current, ok := fields["currentPlayer"].(primitive.ObjectID); ok {
		game.CurrentPlayer = current
	}
	if winner, ok := fields["winner"].(string); ok {
		game.Winner = winner
	}
	if playerX, ok := fields["playerX"].(primitive.ObjectID); ok {
		game.PlayerX = playerX
	}
	if status, ok := fields["status"].(string); ok {
		game.Status = status
	}
	return nil
}

func (s *fakeBoardStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TicTacToeGame, error) {
	game, ok := s.games[id]
	if !ok {
		return nil, fmt.Errorf("game not found")
	}
	return game, nil
}

type fakeScoreStore struct {
	scores []models.GameScore
}

func (s *fakeScoreStore) Insert(ctx context.Context, score *models.GameScore) (*models.GameScore, error) {
	score.ID = primitive.NewObjectID()
	score.CreatedAt = time.Now()
	s.scores = append(s.scores, *score)
	return score, nil
}

func (s *fakeScoreStore) ListByUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.GameScore, error) {
	var out []models.GameScore
	for _, score := range s.scores {
		for _, id := range userIDs {
			if score.UserID == id {
				out = append(out, score)
			}
		}
	}
	return out, nil
}

// linkedCouple builds two users linked to each other.
func linkedCouple() (*models.User, *models.User) {
	a := &models.User{
		ID:          primitive.NewObjectID(),
		Email:       "ana@example.com",
		DisplayName: "Ana",
	}
	b := &models.User{
		ID:          primitive.NewObjectID(),
		Email:       "bruno@example.com",
		DisplayName: "Bruno",
	}
	a.Relationship = models.Relationship{Status: "dating", PartnerID: b.ID}
	b.Relationship = models.Relationship{Status: "dating", PartnerID: a.ID}
	return a, b
}
