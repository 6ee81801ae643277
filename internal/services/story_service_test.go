package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nossoespaco/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStoryStore struct {
	stories map[primitive.ObjectID]*models.Story
}

func newFakeStoryStore() *fakeStoryStore {
	return &fakeStoryStore{stories: make(map[primitive.ObjectID]*models.Story)}
}

func (s *fakeStoryStore) Create(ctx context.Context, story *models.Story) (*models.Story, error) {
	story.ID = primitive.NewObjectID()
	story.CreatedAt = time.Now()
	s.stories[story.ID] = story
	return story, nil
}

func (s *fakeStoryStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Story, error) {
	story, ok := s.stories[id]
	if !ok {
		return nil, fmt.Errorf("story not found")
	}
	copied := *story
	return &copied, nil
}

func (s *fakeStoryStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	story, ok := s.stories[id]
	if !ok {
		return fmt.Errorf("story not found")
	}
	if title, ok := fields["title"].(string); ok {
		story.Title = title
	}
	if content, ok := fields["content"].(string); ok {
		story.Content = content
	}
	return nil
}

func (s *fakeStoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(s.stories, id)
	return nil
}

func (s *fakeStoryStore) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Story, error) {
	var out []models.Story
	for _, story := range s.stories {
		if story.AuthorID == userID || story.PartnerID == userID {
			out = append(out, *story)
		}
	}
	return out, nil
}

func TestCreateStory_CapturesPartnerWithoutNotifying(t *testing.T) {
	ana, bruno := linkedCouple()
	hub := &fakeHub{}
	svc := NewStoryService(newFakeStoryStore(), newFakeUserStore(ana, bruno), hub)

	story, err := svc.CreateStory(context.Background(), ana.ID, "Nosso primeiro encontro", "Foi num café...")
	require.NoError(t, err)
	assert.Equal(t, bruno.ID, story.PartnerID)
	assert.Equal(t, "Ana", story.AuthorName)

	// Both partners get the live event.
	require.Len(t, hub.events, 1)
	assert.ElementsMatch(t, []string{ana.ID.Hex(), bruno.ID.Hex()}, hub.events[0].UserIDs)
	assert.Equal(t, "stories", hub.events[0].Event.Collection)
}

func TestCreateStory_RequiresTitleAndContent(t *testing.T) {
	ana, bruno := linkedCouple()
	svc := NewStoryService(newFakeStoryStore(), newFakeUserStore(ana, bruno), &fakeHub{})

	_, err := svc.CreateStory(context.Background(), ana.ID, "", "conteúdo")
	assert.Error(t, err)
	_, err = svc.CreateStory(context.Background(), ana.ID, "título", "")
	assert.Error(t, err)
}

func TestListStories_IncludesPartnerEntries(t *testing.T) {
	ana, bruno := linkedCouple()
	outsider, _ := linkedCouple()
	store := newFakeStoryStore()
	svc := NewStoryService(store, newFakeUserStore(ana, bruno, outsider), &fakeHub{})
	ctx := context.Background()

	_, err := svc.CreateStory(ctx, ana.ID, "da Ana", "...")
	require.NoError(t, err)
	_, err = svc.CreateStory(ctx, bruno.ID, "do Bruno", "...")
	require.NoError(t, err)
	_, err = svc.CreateStory(ctx, outsider.ID, "de outro casal", "...")
	require.NoError(t, err)

	stories, err := svc.ListStories(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, stories, 2)
}

func TestUpdateAndDeleteStory_AuthorOnly(t *testing.T) {
	ana, bruno := linkedCouple()
	store := newFakeStoryStore()
	svc := NewStoryService(store, newFakeUserStore(ana, bruno), &fakeHub{})
	ctx := context.Background()

	story, err := svc.CreateStory(ctx, ana.ID, "original", "texto")
	require.NoError(t, err)

	_, err = svc.UpdateStory(ctx, story.ID, bruno.ID, "editado", "texto")
	assert.Error(t, err)

	updated, err := svc.UpdateStory(ctx, story.ID, ana.ID, "editado", "texto novo")
	require.NoError(t, err)
	assert.Equal(t, "editado", updated.Title)

	assert.Error(t, svc.DeleteStory(ctx, story.ID, bruno.ID))
	require.NoError(t, svc.DeleteStory(ctx, story.ID, ana.ID))
}
