package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/nossoespaco/server/internal/models"
	"github.com/nossoespaco/server/internal/repository"
	"github.com/nossoespaco/server/pkg/email"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService encapsulates the business logic for user operations.
type UserService struct {
	repo *repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// RegisterUser registers a new user after hashing their password.
func (s *UserService) RegisterUser(ctx context.Context, email, password, displayName, preferredIcon, iconColor string) (*models.User, error) {
	if email == "" || password == "" || displayName == "" {
		return nil, fmt.Errorf("missing required user fields")
	}
	if !emailRegex.MatchString(email) {
		return nil, fmt.Errorf("invalid email format")
	}

	existingUser, _ := s.repo.GetUserByEmail(ctx, email)
	if existingUser != nil {
		logrus.WithField("email", email).Warn("Email already in use")
		return nil, fmt.Errorf("email already in use")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	if preferredIcon == "" {
		preferredIcon = "user"
	}
	if iconColor == "" {
		iconColor = "bg-blue-500"
	}

	user := &models.User{
		Email:          email,
		HashedPassword: string(hashedPwd),
		DisplayName:    displayName,
		PreferredIcon:  preferredIcon,
		IconColor:      iconColor,
		Relationship:   models.Relationship{Status: "single"},
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	logrus.WithField("userID", createdUser.ID.Hex()).Info("User registered successfully")
	return createdUser, nil
}

// AuthenticateUser verifies the email and password and returns the user if
// the credentials are valid.
func (s *UserService) AuthenticateUser(ctx context.Context, userEmail, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		logrus.WithField("email", userEmail).Warn("User not found")
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", userEmail).Warn("Invalid credentials")
		return nil, fmt.Errorf("invalid credentials")
	}

	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return user, nil
}

// GetPartner resolves the linked partner of a user, or nil when none is
// linked.
func (s *UserService) GetPartner(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Relationship.PartnerID.IsZero() {
		return nil, nil
	}
	partner, err := s.repo.GetUserByID(ctx, user.Relationship.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get partner: %v", err)
	}
	return partner, nil
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	DisplayName        string `json:"displayName"`
	Bio                string `json:"bio"`
	DateOfBirth        string `json:"dateOfBirth"`
	PreferredIcon      string `json:"preferredIcon"`
	IconColor          string `json:"iconColor"`
	RelationshipStatus string `json:"relationshipStatus"`
	PartnerID          string `json:"partnerId"`
	Anniversary        string `json:"anniversary"`
}

// UpdateProfile overwrites the user's profile, including the partner link.
// Partner linkage is symmetric by convention only: this writes the caller's
// side of the link.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	relationship := bson.M{
		"status":      update.RelationshipStatus,
		"anniversary": update.Anniversary,
	}
	if update.PartnerID != "" {
		partnerID, err := primitive.ObjectIDFromHex(update.PartnerID)
		if err != nil {
			return nil, fmt.Errorf("invalid partner ID: %v", err)
		}
		if partnerID == objID {
			return nil, fmt.Errorf("cannot link yourself as partner")
		}
		if _, err := s.repo.GetUserByID(ctx, partnerID); err != nil {
			return nil, fmt.Errorf("partner not found")
		}
		relationship["partnerId"] = partnerID
	}

	user, err := s.repo.UpdateUser(ctx, objID, bson.M{
		"displayName":   update.DisplayName,
		"bio":           update.Bio,
		"dateOfBirth":   update.DateOfBirth,
		"preferredIcon": update.PreferredIcon,
		"iconColor":     update.IconColor,
		"relationship":  relationship,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %v", err)
	}

	logrus.WithField("userID", id).Info("Profile updated")
	return user, nil
}

// ChangePassword re-authenticates with the current password before setting
// the new one.
func (s *UserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	_, err = s.repo.UpdateUser(ctx, user.ID, bson.M{"hashedPassword": string(hashedPwd)})
	if err != nil {
		return fmt.Errorf("failed to update password: %v", err)
	}
	return nil
}

// RequestPasswordReset emails the user a one-hour reset link.
func (s *UserService) RequestPasswordReset(ctx context.Context, userEmail, resetBaseURL string) error {
	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return fmt.Errorf("no account found with this email")
	}

	resetToken := uuid.NewString()
	_, err = s.repo.UpdateUser(ctx, user.ID, bson.M{
		"resetToken":    resetToken,
		"resetTokenExp": time.Now().Add(1 * time.Hour),
	})
	if err != nil {
		return fmt.Errorf("failed to save reset token")
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", resetBaseURL, resetToken)
	body := fmt.Sprintf("Click the link below to reset your password:\n\n%s", resetLink)

	if err := email.SendEmail(user.Email, "Reset Your Password", body); err != nil {
		return fmt.Errorf("failed to send password reset email: %v", err)
	}

	logrus.Infof("Password reset email sent to %s", userEmail)
	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.repo.GetUserByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid or expired reset token")
	}
	if time.Now().After(user.ResetTokenExp) {
		return fmt.Errorf("reset token has expired")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	_, err = s.repo.UpdateUser(ctx, user.ID, bson.M{
		"hashedPassword": string(hashedPwd),
		"resetToken":     "",
		"resetTokenExp":  time.Time{},
	})
	if err != nil {
		return fmt.Errorf("failed to update password: %v", err)
	}
	return nil
}

// RegisterDeviceToken stores a push device token on the user record.
func (s *UserService) RegisterDeviceToken(ctx context.Context, id string, token string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid user ID: %v", err)
	}
	if token == "" {
		return fmt.Errorf("missing device token")
	}
	return s.repo.AddDeviceToken(ctx, objID, token)
}

// UpdateLastActive stamps the user's presence timestamp.
func (s *UserService) UpdateLastActive(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.UpdateLastActive(ctx, id)
}
