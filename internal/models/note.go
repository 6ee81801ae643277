package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoteReply is embedded in its parent note. Replies are append-only and
// inherit the parent's visibility.
type NoteReply struct {
	Text       string             `bson:"text" json:"text"`
	AuthorID   primitive.ObjectID `bson:"authorId" json:"authorId"`
	AuthorName string             `bson:"authorName" json:"authorName"`
	IsReply    bool               `bson:"isReply" json:"isReply"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// Note is a message between partners. A private note is visible only to its
// author and the author's linked partner.
type Note struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text       string             `bson:"text" json:"text"`
	IsPrivate  bool               `bson:"isPrivate" json:"isPrivate"`
	AuthorID   primitive.ObjectID `bson:"authorId" json:"authorId"`
	AuthorName string             `bson:"authorName" json:"authorName"`
	Replies    []NoteReply        `bson:"replies,omitempty" json:"replies,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

func (n Note) CreatedTime() time.Time { return n.CreatedAt }
