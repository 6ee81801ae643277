package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Relationship designates the user's partner by convention: both partners
// hold each other's id. Nothing enforces the symmetry at the store level.
type Relationship struct {
	Status      string             `bson:"status" json:"status"` // "single", "in-relationship", "married"
	PartnerID   primitive.ObjectID `bson:"partnerId,omitempty" json:"partnerId,omitempty"`
	Anniversary string             `bson:"anniversary,omitempty" json:"anniversary,omitempty"` // YYYY-MM-DD
}

// User represents an account in the couples journal.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	HashedPassword string             `bson:"hashedPassword" json:"-"`
	DisplayName    string             `bson:"displayName" json:"displayName"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	DateOfBirth    string             `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	PreferredIcon  string             `bson:"preferredIcon,omitempty" json:"preferredIcon,omitempty"`
	IconColor      string             `bson:"iconColor,omitempty" json:"iconColor,omitempty"`
	Relationship   Relationship       `bson:"relationship" json:"relationship"`
	DeviceTokens   []string           `bson:"fcmTokens,omitempty" json:"-"`
	ResetToken     string             `bson:"resetToken,omitempty" json:"-"`
	ResetTokenExp  time.Time          `bson:"resetTokenExp,omitempty" json:"-"`
	LastActiveAt   time.Time          `bson:"lastActiveAt,omitempty" json:"lastActiveAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the partner-visible projection of a User.
type PublicUser struct {
	ID            primitive.ObjectID `json:"id"`
	DisplayName   string             `json:"displayName"`
	Email         string             `json:"email"`
	Bio           string             `json:"bio,omitempty"`
	DateOfBirth   string             `json:"dateOfBirth,omitempty"`
	PreferredIcon string             `json:"preferredIcon,omitempty"`
	IconColor     string             `json:"iconColor,omitempty"`
}

// Public returns the partner-visible projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		DisplayName:   u.DisplayName,
		Email:         u.Email,
		Bio:           u.Bio,
		DateOfBirth:   u.DateOfBirth,
		PreferredIcon: u.PreferredIcon,
		IconColor:     u.IconColor,
	}
}
