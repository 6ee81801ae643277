package services

import (
	"context"
	"fmt"

	"github.com/nossoespaco/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoryStore is the persistence surface for stories.
type StoryStore interface {
	Create(ctx context.Context, story *models.Story) (*models.Story, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Story, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Story, error)
}

// StoryService handles the shared journal entries.
type StoryService struct {
	stories StoryStore
	users   UserStore
	hub     ChangePublisher
}

func NewStoryService(stories StoryStore, users UserStore, hub ChangePublisher) *StoryService {
	return &StoryService{
		stories: stories,
		users:   users,
		hub:     hub,
	}
}

// CreateStory records a new story, capturing the author's current partner
// so the entry stays visible to both even if the link changes later.
func (s *StoryService) CreateStory(ctx context.Context, authorID primitive.ObjectID, title, content string) (*models.Story, error) {
	if title == "" || content == "" {
		return nil, fmt.Errorf("title and content are required")
	}

	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %v", err)
	}

	story := &models.Story{
		Title:      title,
		Content:    content,
		AuthorID:   authorID,
		AuthorName: author.DisplayName,
		PartnerID:  author.Relationship.PartnerID,
	}
	created, err := s.stories.Create(ctx, story)
	if err != nil {
		return nil, err
	}

	s.publish(created, "create")
	return created, nil
}

// UpdateStory edits a story. Only the author may edit.
func (s *StoryService) UpdateStory(ctx context.Context, id, userID primitive.ObjectID, title, content string) (*models.Story, error) {
	story, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if story.AuthorID != userID {
		return nil, fmt.Errorf("only the author can edit a story")
	}

	if err := s.stories.Update(ctx, id, bson.M{"title": title, "content": content}); err != nil {
		return nil, err
	}
	story.Title = title
	story.Content = content

	s.publish(story, "update")
	return story, nil
}

// DeleteStory removes a story. Only the author may delete.
func (s *StoryService) DeleteStory(ctx context.Context, id, userID primitive.ObjectID) error {
	story, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if story.AuthorID != userID {
		return fmt.Errorf("only the author can delete a story")
	}

	if err := s.stories.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(story, "delete")
	return nil
}

// ListStories returns the stories visible to the user: authored by them or
// addressed to them as partner.
func (s *StoryService) ListStories(ctx context.Context, userID primitive.ObjectID) ([]models.Story, error) {
	return s.stories.ListForUser(ctx, userID)
}

func (s *StoryService) publish(story *models.Story, action string) {
	if s.hub == nil {
		return
	}
	targets := []string{story.AuthorID.Hex()}
	if !story.PartnerID.IsZero() {
		targets = append(targets, story.PartnerID.Hex())
	}
	s.hub.Publish(targets, ChangeEvent{
		Collection: "stories",
		Action:     action,
		ID:         story.ID.Hex(),
		Doc:        story,
	})
}
