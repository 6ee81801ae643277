package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nossoespaco/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const feedSectionSize = 3

// StoryFeed lists a member's newest stories.
type StoryFeed interface {
	ListRecentByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int64) ([]models.Story, error)
}

// DreamFeed lists a member's newest dreams and goals.
type DreamFeed interface {
	ListRecentByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int64) ([]models.Dream, error)
}

// NoteFeed lists a member's newest notes.
type NoteFeed interface {
	ListRecentByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int64) ([]models.Note, error)
}

// FeedService assembles the dashboard: the newest few records of each
// kind across both partners. Records without a timestamp never rank here.
type FeedService struct {
	stories StoryFeed
	dreams  DreamFeed
	notes   NoteFeed
	users   UserStore
}

func NewFeedService(stories StoryFeed, dreams DreamFeed, notes NoteFeed, users UserStore) *FeedService {
	return &FeedService{
		stories: stories,
		dreams:  dreams,
		notes:   notes,
		users:   users,
	}
}

// DashboardFeed groups the newest records per section.
type DashboardFeed struct {
	Stories []models.Story `json:"stories"`
	Dreams  []models.Dream `json:"dreams"`
	Notes   []models.Note  `json:"notes"`
}

// GetDashboard returns the newest records of each section for the user
// and their partner.
func (s *FeedService) GetDashboard(ctx context.Context, userID primitive.ObjectID) (*DashboardFeed, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	members := []primitive.ObjectID{userID}
	if !user.Relationship.PartnerID.IsZero() {
		members = append(members, user.Relationship.PartnerID)
	}

	feed := &DashboardFeed{
		Stories: []models.Story{},
		Dreams:  []models.Dream{},
		Notes:   []models.Note{},
	}

	for _, member := range members {
		stories, err := s.stories.ListRecentByAuthor(ctx, member, feedSectionSize)
		if err != nil {
			return nil, err
		}
		feed.Stories = append(feed.Stories, stories...)

		dreams, err := s.dreams.ListRecentByAuthor(ctx, member, feedSectionSize)
		if err != nil {
			return nil, err
		}
		feed.Dreams = append(feed.Dreams, dreams...)

		notes, err := s.notes.ListRecentByAuthor(ctx, member, feedSectionSize)
		if err != nil {
			return nil, err
		}
		// Private notes still show on the couple's own dashboard, so no
		// visibility filter applies here.
		feed.Notes = append(feed.Notes, notes...)
	}

	feed.Stories = trimNewest(feed.Stories, feedSectionSize)
	feed.Dreams = trimNewest(feed.Dreams, feedSectionSize)
	feed.Notes = trimNewest(feed.Notes, feedSectionSize)
	return feed, nil
}

type timestamped interface {
	CreatedTime() time.Time
}

// trimNewest keeps only the newest records after merging both partners'
// sections.
func trimNewest[T timestamped](records []T, limit int) []T {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedTime().After(records[j].CreatedTime())
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}
