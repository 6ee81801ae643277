package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuizQuestion is embedded in its quiz at creation time.
type QuizQuestion struct {
	Question      string   `bson:"question" json:"question"`
	Options       []string `bson:"options" json:"options"`
	CorrectAnswer int      `bson:"correctAnswer" json:"correctAnswer"` // index into Options
	Points        int      `bson:"points" json:"points"`
}

// QuizAnswer records one answered question within an attempt.
type QuizAnswer struct {
	QuestionIndex  int  `bson:"questionIndex" json:"questionIndex"`
	SelectedOption int  `bson:"selectedOption" json:"selectedOption"`
	IsCorrect      bool `bson:"isCorrect" json:"isCorrect"`
}

// QuizAttempt is one complete pass by the partner. Attempts only accumulate;
// PartnerScore on the quiz tracks the best of them.
type QuizAttempt struct {
	ID        int64        `bson:"id" json:"id"` // client-style ms timestamp id
	Timestamp time.Time    `bson:"timestamp" json:"timestamp"`
	Score     int          `bson:"score" json:"score"`
	Answers   []QuizAnswer `bson:"answers" json:"answers"`
}

// Quiz is authored by one partner and answered by the other.
type Quiz struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Questions       []QuizQuestion     `bson:"questions" json:"questions"`
	AuthorID        primitive.ObjectID `bson:"authorId" json:"authorId"`
	PartnerID       primitive.ObjectID `bson:"partnerId,omitempty" json:"partnerId,omitempty"`
	Completed       bool               `bson:"completed" json:"completed"`
	PartnerScore    int                `bson:"partnerScore" json:"partnerScore"`
	PartnerAnswers  []QuizAnswer       `bson:"partnerAnswers,omitempty" json:"partnerAnswers,omitempty"`
	Attempts        []QuizAttempt      `bson:"attempts" json:"attempts"`
	LastCompletedAt time.Time          `bson:"lastCompletedAt,omitempty" json:"lastCompletedAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

func (q Quiz) CreatedTime() time.Time { return q.CreatedAt }
