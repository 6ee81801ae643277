package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Story is a shared journal entry, visible to its author and the partner
// captured at creation time.
type Story struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	AuthorID   primitive.ObjectID `bson:"authorId" json:"authorId"`
	AuthorName string             `bson:"authorName,omitempty" json:"authorName,omitempty"`
	PartnerID  primitive.ObjectID `bson:"partnerId,omitempty" json:"partnerId,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// CreatedTime implements the recency ordering used by degraded reads.
func (s Story) CreatedTime() time.Time { return s.CreatedAt }
