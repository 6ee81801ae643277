package services

import (
	"context"
	"testing"

	"github.com/nossoespaco/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoQuestionQuiz() []models.QuizQuestion {
	return []models.QuizQuestion{
		{Question: "Minha cor favorita?", Options: []string{"azul", "verde"}, CorrectAnswer: 0, Points: 10},
		{Question: "Minha comida favorita?", Options: []string{"pizza", "sushi"}, CorrectAnswer: 1, Points: 5},
	}
}

func TestCreateQuiz_ValidatesQuestions(t *testing.T) {
	ana, bruno := linkedCouple()
	svc := NewQuizService(newFakeQuizStore(), newFakeUserStore(ana, bruno), &fakeHub{})
	ctx := context.Background()

	_, err := svc.CreateQuiz(ctx, ana.ID, "", "", twoQuestionQuiz())
	assert.Error(t, err)

	_, err = svc.CreateQuiz(ctx, ana.ID, "Quiz", "", nil)
	assert.Error(t, err)

	bad := twoQuestionQuiz()
	bad[0].CorrectAnswer = 5
	_, err = svc.CreateQuiz(ctx, ana.ID, "Quiz", "", bad)
	assert.Error(t, err)

	quiz, err := svc.CreateQuiz(ctx, ana.ID, "Quiz", "sobre nós", twoQuestionQuiz())
	require.NoError(t, err)
	assert.Equal(t, bruno.ID, quiz.PartnerID)
	assert.False(t, quiz.Completed)
}

func TestSubmitAttempt_ScoresAndKeepsBest(t *testing.T) {
	ana, bruno := linkedCouple()
	store := newFakeQuizStore()
	svc := NewQuizService(store, newFakeUserStore(ana, bruno), &fakeHub{})
	ctx := context.Background()

	quiz, err := svc.CreateQuiz(ctx, ana.ID, "Quiz", "", twoQuestionQuiz())
	require.NoError(t, err)

	// First attempt: one of two correct.
	attempt, err := svc.SubmitAttempt(ctx, quiz.ID, bruno.ID, []int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 10, attempt.Score)
	require.Len(t, attempt.Answers, 2)
	assert.True(t, attempt.Answers[0].IsCorrect)
	assert.False(t, attempt.Answers[1].IsCorrect)

	// Second attempt: all correct, becomes the best score.
	attempt, err = svc.SubmitAttempt(ctx, quiz.ID, bruno.ID, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 15, attempt.Score)

	// Third attempt: worse, best score stays.
	_, err = svc.SubmitAttempt(ctx, quiz.ID, bruno.ID, []int{1, 0})
	require.NoError(t, err)

	stored, err := store.GetByID(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, stored.PartnerScore)
	assert.Len(t, stored.Attempts, 3)
	assert.True(t, stored.Completed)
}

func TestSubmitAttempt_PartnerOnly(t *testing.T) {
	ana, bruno := linkedCouple()
	svc := NewQuizService(newFakeQuizStore(), newFakeUserStore(ana, bruno), &fakeHub{})
	ctx := context.Background()

	quiz, err := svc.CreateQuiz(ctx, ana.ID, "Quiz", "", twoQuestionQuiz())
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(ctx, quiz.ID, ana.ID, []int{0, 1})
	assert.Error(t, err)

	_, err = svc.SubmitAttempt(ctx, quiz.ID, bruno.ID, []int{0})
	assert.Error(t, err, "answer count must match question count")
}

func TestGetQuiz_RestrictedToCouple(t *testing.T) {
	ana, bruno := linkedCouple()
	svc := NewQuizService(newFakeQuizStore(), newFakeUserStore(ana, bruno), &fakeHub{})
	ctx := context.Background()

	quiz, err := svc.CreateQuiz(ctx, ana.ID, "Quiz", "", twoQuestionQuiz())
	require.NoError(t, err)

	_, err = svc.GetQuiz(ctx, quiz.ID, ana.ID)
	assert.NoError(t, err)
	_, err = svc.GetQuiz(ctx, quiz.ID, bruno.ID)
	assert.NoError(t, err)

	outsider, _ := linkedCouple()
	_, err = svc.GetQuiz(ctx, quiz.ID, outsider.ID)
	assert.Error(t, err)
}

func TestDeleteQuiz_AuthorOnly(t *testing.T) {
	ana, bruno := linkedCouple()
	store := newFakeQuizStore()
	svc := NewQuizService(store, newFakeUserStore(ana, bruno), &fakeHub{})
	ctx := context.Background()

	quiz, err := svc.CreateQuiz(ctx, ana.ID, "Quiz", "", twoQuestionQuiz())
	require.NoError(t, err)

	assert.Error(t, svc.DeleteQuiz(ctx, quiz.ID, bruno.ID))
	require.NoError(t, svc.DeleteQuiz(ctx, quiz.ID, ana.ID))
}
