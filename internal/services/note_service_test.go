package services

import (
	"context"
	"testing"

	"github.com/nossoespaco/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateNote_NotifiesPartner(t *testing.T) {
	ana, bruno := linkedCouple()
	notifier := &fakeNotifier{}
	svc := NewNoteService(newFakeNoteStore(), newFakeUserStore(ana, bruno), notifier, &fakeHub{})

	note, err := svc.CreateNote(context.Background(), ana.ID, "bom dia!", false)
	require.NoError(t, err)
	assert.Equal(t, "Ana", note.AuthorName)

	require.Len(t, notifier.calls, 1)
	call := notifier.calls[0]
	assert.Equal(t, bruno.ID, call.RecipientID)
	assert.Equal(t, "adicionou uma nova nota", call.Message)
	assert.Equal(t, models.NotifTypeNote, call.Category)
	assert.Equal(t, note.ID.Hex(), call.ItemID)
}

func TestCreateNote_PrivateChangesMessage(t *testing.T) {
	ana, bruno := linkedCouple()
	notifier := &fakeNotifier{}
	svc := NewNoteService(newFakeNoteStore(), newFakeUserStore(ana, bruno), notifier, &fakeHub{})

	_, err := svc.CreateNote(context.Background(), ana.ID, "segredo", true)
	require.NoError(t, err)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "adicionou uma nova nota privada", notifier.calls[0].Message)
}

func TestCreateNote_NoPartnerSkipsNotification(t *testing.T) {
	solo := &models.User{ID: primitive.NewObjectID(), DisplayName: "Solo"}
	notifier := &fakeNotifier{}
	svc := NewNoteService(newFakeNoteStore(), newFakeUserStore(solo), notifier, &fakeHub{})

	_, err := svc.CreateNote(context.Background(), solo.ID, "sozinho", false)
	require.NoError(t, err)
	assert.Empty(t, notifier.calls)
}

func TestListNotes_PrivateVisibility(t *testing.T) {
	ana, bruno := linkedCouple()
	stranger := &models.User{ID: primitive.NewObjectID(), DisplayName: "Carla"}
	store := newFakeNoteStore()
	svc := NewNoteService(store, newFakeUserStore(ana, bruno, stranger), &fakeNotifier{}, &fakeHub{})
	ctx := context.Background()

	_, err := svc.CreateNote(ctx, ana.ID, "pública", false)
	require.NoError(t, err)
	private, err := svc.CreateNote(ctx, ana.ID, "privada", true)
	require.NoError(t, err)

	// The author sees both.
	notes, err := svc.ListNotes(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 2)

	// The linked partner sees both.
	notes, err = svc.ListNotes(ctx, bruno.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 2)

	// Anyone else only sees the public note.
	notes, err = svc.ListNotes(ctx, stranger.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.NotEqual(t, private.ID, notes[0].ID)
}

func TestReplyToNote_NotifiesAuthorOnlyWhenDifferent(t *testing.T) {
	ana, bruno := linkedCouple()
	store := newFakeNoteStore()
	notifier := &fakeNotifier{}
	svc := NewNoteService(store, newFakeUserStore(ana, bruno), notifier, &fakeHub{})
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, ana.ID, "oi", false)
	require.NoError(t, err)
	notifier.calls = nil

	// Self-reply does not notify.
	_, err = svc.ReplyToNote(ctx, note.ID, ana.ID, "continuando...")
	require.NoError(t, err)
	assert.Empty(t, notifier.calls)

	// Partner reply notifies the note's author.
	replied, err := svc.ReplyToNote(ctx, note.ID, bruno.ID, "oi amor")
	require.NoError(t, err)
	assert.Len(t, replied.Replies, 2)

	require.Len(t, notifier.calls, 1)
	call := notifier.calls[0]
	assert.Equal(t, ana.ID, call.RecipientID)
	assert.Equal(t, models.NotifTypeNoteReply, call.Category)
	assert.Equal(t, "respondeu sua nota", call.Message)
}

func TestDeleteNote_AuthorOnly(t *testing.T) {
	ana, bruno := linkedCouple()
	store := newFakeNoteStore()
	svc := NewNoteService(store, newFakeUserStore(ana, bruno), &fakeNotifier{}, &fakeHub{})
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, ana.ID, "minha nota", false)
	require.NoError(t, err)

	err = svc.DeleteNote(ctx, note.ID, bruno.ID)
	assert.Error(t, err)

	require.NoError(t, svc.DeleteNote(ctx, note.ID, ana.ID))
	_, err = store.GetByID(ctx, note.ID)
	assert.Error(t, err)
}
