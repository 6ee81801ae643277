package services

import (
	"context"
	"errors"
	"testing"

	"github.com/nossoespaco/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNotifyPartner_ZeroRecipientIsNoOp(t *testing.T) {
	store := &fakeNotificationStore{}
	queue := &fakePushQueue{}
	svc := NewNotificationService(store, queue)

	svc.NotifyPartner(context.Background(), primitive.NilObjectID, primitive.NewObjectID(),
		"Ana", models.NotifTypeNote, "adicionou uma nova nota", "abc")

	assert.Empty(t, store.notifications)
	assert.Empty(t, queue.queued)
}

func TestNotifyPartner_WritesNotificationAndPush(t *testing.T) {
	store := &fakeNotificationStore{}
	queue := &fakePushQueue{}
	svc := NewNotificationService(store, queue)

	recipient := primitive.NewObjectID()
	sender := primitive.NewObjectID()
	svc.NotifyPartner(context.Background(), recipient, sender,
		"Ana", models.NotifTypeNote, "adicionou uma nova nota", "item123")

	require.Len(t, store.notifications, 1)
	notif := store.notifications[0]
	assert.Equal(t, recipient, notif.RecipientID)
	assert.Equal(t, sender, notif.SenderID)
	assert.Equal(t, "Ana", notif.SenderName)
	assert.Equal(t, models.NotifTypeNote, notif.Type)
	assert.Equal(t, "adicionou uma nova nota", notif.Message)
	assert.Equal(t, "item123", notif.ItemID)
	assert.False(t, notif.Read)

	require.Len(t, queue.queued, 1)
	push := queue.queued[0]
	assert.Equal(t, recipient, push.RecipientID)
	assert.Equal(t, "Ana", push.Notification.Title)
	assert.Equal(t, "adicionou uma nova nota", push.Notification.Body)
	assert.Equal(t, "/notes", push.Data.URL)
	assert.Equal(t, "FLUTTER_NOTIFICATION_CLICK", push.Data.ClickAction)
	assert.Equal(t, "high", push.Android.Priority)
	assert.Equal(t, "default", push.Android.Notification.ChannelID)
	assert.Equal(t, "max", push.Android.Notification.Priority)
	assert.Equal(t, "public", push.Android.Notification.Visibility)
	assert.Equal(t, "10", push.APNS.Headers["apns-priority"])
	assert.Equal(t, "default", push.APNS.Payload.APS.Sound)
	assert.Equal(t, 1, push.APNS.Payload.APS.Badge)
}

func TestNotifyPartner_StoreFailureStillEnqueuesPush(t *testing.T) {
	store := &fakeNotificationStore{createErr: errors.New("write failed")}
	queue := &fakePushQueue{}
	svc := NewNotificationService(store, queue)

	svc.NotifyPartner(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(),
		"Ana", models.NotifTypeDream, "adicionou um novo sonho: viajar", "")

	assert.Empty(t, store.notifications)
	assert.Len(t, queue.queued, 1)
}

func TestNotifyPartner_QueueFailureDoesNotPanic(t *testing.T) {
	store := &fakeNotificationStore{}
	queue := &fakePushQueue{enqueueErr: errors.New("enqueue failed")}
	svc := NewNotificationService(store, queue)

	svc.NotifyPartner(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(),
		"Ana", models.NotifTypeStory, "escreveu uma história", "")

	assert.Len(t, store.notifications, 1)
	assert.Empty(t, queue.queued)
}

func TestMarkAsRead_Idempotent(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(store, &fakePushQueue{})
	ctx := context.Background()

	recipient := primitive.NewObjectID()
	svc.NotifyPartner(ctx, recipient, primitive.NewObjectID(), "Ana", models.NotifTypeNote, "nota um", "")
	require.Len(t, store.notifications, 1)
	notifID := store.notifications[0].ID

	require.NoError(t, svc.MarkAsRead(ctx, notifID))
	assert.True(t, store.notifications[0].Read)

	require.NoError(t, svc.MarkAsRead(ctx, notifID))
	assert.True(t, store.notifications[0].Read)

	count, err := svc.GetUnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUnreadCountAndMarkAllAsRead(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(store, &fakePushQueue{})
	ctx := context.Background()

	recipient := primitive.NewObjectID()
	other := primitive.NewObjectID()
	sender := primitive.NewObjectID()
	svc.NotifyPartner(ctx, recipient, sender, "Ana", models.NotifTypeNote, "nota um", "")
	svc.NotifyPartner(ctx, recipient, sender, "Ana", models.NotifTypeNote, "nota dois", "")
	svc.NotifyPartner(ctx, other, sender, "Ana", models.NotifTypeNote, "nota três", "")

	count, err := svc.GetUnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.MarkAllAsRead(ctx, recipient))

	count, err = svc.GetUnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = svc.GetUnreadCount(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
