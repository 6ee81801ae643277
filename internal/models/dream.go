package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dream type values, kept in Portuguese as the client stores them.
const (
	DreamTypeGoal  = "meta"
	DreamTypeDream = "sonho"
)

// Dream is a shared dream or goal. Either partner may toggle completion and
// pinning; only the author edits the text or deletes the record.
type Dream struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text       string             `bson:"text" json:"text"`
	Type       string             `bson:"type" json:"type"` // "meta" or "sonho"
	Completed  bool               `bson:"completed" json:"completed"`
	Pinned     bool               `bson:"pinned" json:"pinned"`
	TargetDate string             `bson:"targetDate,omitempty" json:"targetDate,omitempty"` // YYYY-MM-DD
	AuthorID   primitive.ObjectID `bson:"authorId" json:"authorId"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

func (d Dream) CreatedTime() time.Time { return d.CreatedAt }
