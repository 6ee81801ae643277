package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/nossoespaco/server/internal/models"
	"github.com/nossoespaco/server/internal/repository"
	"github.com/nossoespaco/server/internal/services"
	"github.com/sirupsen/logrus"
)

// AnniversaryNotifier reminds each member of a couple on the day their
// anniversary comes around.
type AnniversaryNotifier struct {
	Users    *repository.UserRepository
	Notifier services.PartnerNotifier
}

func NewAnniversaryNotifier(users *repository.UserRepository, notifier services.PartnerNotifier) *AnniversaryNotifier {
	return &AnniversaryNotifier{
		Users:    users,
		Notifier: notifier,
	}
}

// RunDailyScan notifies every user whose anniversary falls on today's
// month and day. The anniversary date is mirrored onto both members, so
// each partner gets their own reminder.
func (a *AnniversaryNotifier) RunDailyScan(ctx context.Context) error {
	monthDay := time.Now().Format("01-02")

	users, err := a.Users.GetUsersWithAnniversary(ctx, monthDay)
	if err != nil {
		return fmt.Errorf("failed to fetch anniversary users: %v", err)
	}

	for _, user := range users {
		if user.Relationship.PartnerID.IsZero() {
			continue
		}
		partner, err := a.Users.GetUserByID(ctx, user.Relationship.PartnerID)
		if err != nil {
			logrus.WithError(err).WithField("userID", user.ID.Hex()).Warn("Skipping anniversary reminder, partner lookup failed")
			continue
		}

		a.Notifier.NotifyPartner(ctx, user.ID, partner.ID, partner.DisplayName,
			models.NotifTypeSettings, "Hoje é o aniversário de vocês!", "")
	}

	logrus.WithField("count", len(users)).Info("Anniversary scan completed")
	return nil
}
