package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification categories produced by partner activity. The set is open:
// no validation is applied, new categories only affect which icon and deep
// link the client picks.
const (
	NotifTypeNote      = "note"
	NotifTypeNoteReply = "note_reply"
	NotifTypeQuiz      = "quiz"
	NotifTypeDream     = "dream"
	NotifTypeGoal      = "goal"
	NotifTypeStory     = "story"
	NotifTypeSettings  = "settings"
)

// Notification is the in-app record of partner activity. It is only ever
// mutated to flip Read; the app never deletes them.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID `bson:"recipientId" json:"recipientId"`
	SenderID    primitive.ObjectID `bson:"senderId" json:"senderId"`
	SenderName  string             `bson:"senderName" json:"senderName"`
	Type        string             `bson:"type" json:"type"`
	Message     string             `bson:"message" json:"message"`
	ItemID      string             `bson:"itemId,omitempty" json:"itemId,omitempty"`
	Read        bool               `bson:"read" json:"read"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

func (n Notification) CreatedTime() time.Time { return n.CreatedAt }
