package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PushContent is the visible part of a push message.
type PushContent struct {
	Title string `bson:"title" json:"title"`
	Body  string `bson:"body" json:"body"`
}

// PushData is echoed back to the client on notification click.
type PushData struct {
	Type        string `bson:"type" json:"type"`
	ItemID      string `bson:"itemId" json:"itemId"`
	URL         string `bson:"url" json:"url"`
	ClickAction string `bson:"clickAction" json:"clickAction"`
}

// AndroidNotification carries Android channel delivery hints.
type AndroidNotification struct {
	ChannelID  string `bson:"channelId" json:"channelId"`
	Sound      bool   `bson:"sound" json:"sound"`
	Priority   string `bson:"priority" json:"priority"`
	Visibility string `bson:"visibility" json:"visibility"`
}

// AndroidConfig carries Android-specific delivery hints.
type AndroidConfig struct {
	Priority     string              `bson:"priority" json:"priority"`
	Notification AndroidNotification `bson:"notification" json:"notification"`
}

// APS is the Apple push payload aps dictionary.
type APS struct {
	Sound string `bson:"sound" json:"sound"`
	Badge int    `bson:"badge" json:"badge"`
}

// APNSPayload wraps the aps dictionary.
type APNSPayload struct {
	APS APS `bson:"aps" json:"aps"`
}

// APNSConfig carries iOS-specific delivery hints.
type APNSConfig struct {
	Headers map[string]string `bson:"headers" json:"headers"`
	Payload APNSPayload       `bson:"payload" json:"payload"`
}

// PushNotification is a queued push-delivery request. Its shape is the
// contract consumed by delivery (the in-process dispatcher, or an external
// trigger on deployments that use one). Delivery bookkeeping fields are
// additive and ignored by external consumers.
type PushNotification struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientID  primitive.ObjectID `bson:"recipientId" json:"recipientId"`
	Notification PushContent        `bson:"notification" json:"notification"`
	Data         PushData           `bson:"data" json:"data"`
	Android      AndroidConfig      `bson:"android" json:"android"`
	APNS         APNSConfig         `bson:"apns" json:"apns"`

	Delivered     bool      `bson:"delivered" json:"delivered"`
	Attempts      int       `bson:"attempts" json:"attempts"`
	LastAttemptAt time.Time `bson:"lastAttemptAt,omitempty" json:"lastAttemptAt,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}
