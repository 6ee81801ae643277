package jobs

import (
	"context"
	"fmt"

	"github.com/nossoespaco/server/internal/config"
	"github.com/nossoespaco/server/internal/models"
	"github.com/nossoespaco/server/internal/repository"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
	"github.com/sirupsen/logrus"
)

const (
	dispatchBatchSize  = 100
	dispatchMaxRetries = 5
)

// PushDispatcher drains the push queue and delivers each request to the
// recipient's registered devices through APNs.
type PushDispatcher struct {
	client *apns2.Client
	topic  string
	pushes *repository.PushRepository
	users  *repository.UserRepository
}

// NewPushDispatcher builds the APNs token client. Returns nil when no key
// file is configured, which disables in-process delivery; queued records
// then wait for an external consumer.
func NewPushDispatcher(cfg *config.Config, pushes *repository.PushRepository, users *repository.UserRepository) (*PushDispatcher, error) {
	if cfg.APNsKeyFile == "" {
		return nil, nil
	}

	authKey, err := token.AuthKeyFromFile(cfg.APNsKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs auth key: %v", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.APNsKeyID,
		TeamID:  cfg.APNsTeamID,
	})
	if cfg.APNsProduction {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &PushDispatcher{
		client: client,
		topic:  cfg.APNsTopic,
		pushes: pushes,
		users:  users,
	}, nil
}

// Run delivers one batch of queued pushes. Records that keep failing stop
// being picked up after dispatchMaxRetries attempts.
func (d *PushDispatcher) Run(ctx context.Context) error {
	pending, err := d.pushes.FetchUndelivered(ctx, dispatchMaxRetries, dispatchBatchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch pending pushes: %v", err)
	}

	for _, push := range pending {
		if err := d.deliver(ctx, &push); err != nil {
			logrus.WithError(err).WithField("pushID", push.ID.Hex()).Warn("Push delivery failed")
			if err := d.pushes.RecordFailure(ctx, push.ID); err != nil {
				logrus.WithError(err).Error("Failed to record push failure")
			}
			continue
		}
		if err := d.pushes.MarkDelivered(ctx, push.ID); err != nil {
			logrus.WithError(err).Error("Failed to mark push delivered")
		}
	}
	return nil
}

// deliver sends the request to every device the recipient has registered.
// A recipient without devices counts as delivered so the record does not
// requeue forever.
func (d *PushDispatcher) deliver(ctx context.Context, push *models.PushNotification) error {
	user, err := d.users.GetUserByID(ctx, push.RecipientID)
	if err != nil {
		return fmt.Errorf("failed to load recipient: %v", err)
	}
	if len(user.DeviceTokens) == 0 {
		return nil
	}

	body := buildPayload(push)
	for _, deviceToken := range user.DeviceTokens {
		res, err := d.client.Push(&apns2.Notification{
			DeviceToken: deviceToken,
			Topic:       d.topic,
			Priority:    apns2.PriorityHigh,
			Payload:     body,
		})
		if err != nil {
			return err
		}
		if !res.Sent() {
			return fmt.Errorf("APNs rejected push: %s", res.Reason)
		}
	}
	return nil
}

func buildPayload(push *models.PushNotification) *payload.Payload {
	return payload.NewPayload().
		AlertTitle(push.Notification.Title).
		AlertBody(push.Notification.Body).
		Sound(push.APNS.Payload.APS.Sound).
		Badge(push.APNS.Payload.APS.Badge).
		Custom("type", push.Data.Type).
		Custom("itemId", push.Data.ItemID).
		Custom("url", push.Data.URL).
		Custom("clickAction", push.Data.ClickAction)
}
