package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nossoespaco/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuizStore is the persistence surface for quizzes.
type QuizStore interface {
	Create(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Quiz, error)
	ListByPartner(ctx context.Context, partnerID primitive.ObjectID) ([]models.Quiz, error)
	RecordAttempt(ctx context.Context, id primitive.ObjectID, attempts []models.QuizAttempt, bestScore int, answers []models.QuizAnswer) error
}

// QuizService handles quizzes authored by one partner and answered by the
// other.
type QuizService struct {
	quizzes QuizStore
	users   UserStore
	hub     ChangePublisher
}

func NewQuizService(quizzes QuizStore, users UserStore, hub ChangePublisher) *QuizService {
	return &QuizService{
		quizzes: quizzes,
		users:   users,
		hub:     hub,
	}
}

// CreateQuiz records a new quiz for the author's current partner.
func (s *QuizService) CreateQuiz(ctx context.Context, authorID primitive.ObjectID, title, description string, questions []models.QuizQuestion) (*models.Quiz, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("at least one question is required")
	}
	for i, q := range questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, fmt.Errorf("question %d has an invalid correct answer", i)
		}
	}

	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %v", err)
	}

	quiz := &models.Quiz{
		Title:       title,
		Description: description,
		Questions:   questions,
		AuthorID:    authorID,
		PartnerID:   author.Relationship.PartnerID,
		Attempts:    []models.QuizAttempt{},
	}
	created, err := s.quizzes.Create(ctx, quiz)
	if err != nil {
		return nil, err
	}

	s.publish(created, "create")
	return created, nil
}

// ListQuizzes returns quizzes the user authored plus quizzes assigned to
// them as answering partner, merged newest first.
func (s *QuizService) ListQuizzes(ctx context.Context, userID primitive.ObjectID) ([]models.Quiz, error) {
	authored, err := s.quizzes.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	assigned, err := s.quizzes.ListByPartner(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := append(authored, assigned...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged, nil
}

// GetQuiz fetches one quiz, restricted to its author and partner.
func (s *QuizService) GetQuiz(ctx context.Context, id, userID primitive.ObjectID) (*models.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz.AuthorID != userID && quiz.PartnerID != userID {
		return nil, fmt.Errorf("not allowed")
	}
	return quiz, nil
}

// SubmitAttempt scores the partner's answers and appends the attempt.
// PartnerScore always tracks the best attempt so far; attempts themselves
// only accumulate.
func (s *QuizService) SubmitAttempt(ctx context.Context, quizID, userID primitive.ObjectID, selected []int) (*models.QuizAttempt, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.PartnerID != userID {
		return nil, fmt.Errorf("only the assigned partner can answer this quiz")
	}
	if len(selected) != len(quiz.Questions) {
		return nil, fmt.Errorf("expected %d answers, got %d", len(quiz.Questions), len(selected))
	}

	score := 0
	answers := make([]models.QuizAnswer, 0, len(selected))
	for i, choice := range selected {
		correct := choice == quiz.Questions[i].CorrectAnswer
		if correct {
			score += quiz.Questions[i].Points
		}
		answers = append(answers, models.QuizAnswer{
			QuestionIndex:  i,
			SelectedOption: choice,
			IsCorrect:      correct,
		})
	}

	attempt := models.QuizAttempt{
		ID:        time.Now().UnixMilli(),
		Timestamp: time.Now(),
		Score:     score,
		Answers:   answers,
	}
	attempts := append(quiz.Attempts, attempt)

	best := 0
	for _, a := range attempts {
		if a.Score > best {
			best = a.Score
		}
	}

	if err := s.quizzes.RecordAttempt(ctx, quizID, attempts, best, answers); err != nil {
		return nil, err
	}

	quiz.Attempts = attempts
	quiz.PartnerScore = best
	quiz.Completed = true
	s.publish(quiz, "update")
	return &attempt, nil
}

// DeleteQuiz removes a quiz. Only the author may delete.
func (s *QuizService) DeleteQuiz(ctx context.Context, id, userID primitive.ObjectID) error {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if quiz.AuthorID != userID {
		return fmt.Errorf("only the author can delete a quiz")
	}

	if err := s.quizzes.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(quiz, "delete")
	return nil
}

func (s *QuizService) publish(quiz *models.Quiz, action string) {
	if s.hub == nil {
		return
	}
	targets := []string{quiz.AuthorID.Hex()}
	if !quiz.PartnerID.IsZero() {
		targets = append(targets, quiz.PartnerID.Hex())
	}
	s.hub.Publish(targets, ChangeEvent{
		Collection: "quizzes",
		Action:     action,
		ID:         quiz.ID.Hex(),
		Doc:        quiz,
	})
}
