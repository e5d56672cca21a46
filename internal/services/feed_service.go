package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pulsefeed/internal/database"
	"pulsefeed/internal/models"
)

// FeedService assembles the home feed from recent posts. It is deliberately
// simple; ranking the feed itself is not this service's job, it only hands
// the suggestion engine a realistic ordered payload to splice into.
type FeedService struct {
	posts    *mongo.Collection
	pageSize int
}

// NewFeedService creates a new feed service
func NewFeedService(db *database.MongoDB, pageSize int) *FeedService {
	return &FeedService{
		posts:    db.Collection(database.CollectionPosts),
		pageSize: pageSize,
	}
}

// HomeFeed returns the most recent posts shaped as feed items, newest first
func (s *FeedService) HomeFeed(ctx context.Context, accountID string) (*models.FeedResponse, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(s.pageSize))

	cursor, err := s.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}

	items := make([]models.FeedItem, 0, len(posts))
	for i := range posts {
		items = append(items, models.FeedItem{
			ID:      posts[i].PostID,
			Type:    models.FeedItemTypePost,
			Payload: posts[i].ToResponse(),
		})
	}

	meta := models.FeedMeta{ResultCount: len(items)}
	if len(items) > 0 {
		meta.NewestID = items[0].ID
		meta.OldestID = items[len(items)-1].ID
	}

	return &models.FeedResponse{Payload: items, Meta: meta}, nil
}

// CreatePost stores a new post authored by the given user
func (s *FeedService) CreatePost(ctx context.Context, authorID, body, mediaURL string) (*models.Post, error) {
	post := &models.Post{
		PostID:    uuid.NewString(),
		AuthorID:  authorID,
		Body:      body,
		MediaURL:  mediaURL,
		CreatedAt: time.Now(),
	}

	if _, err := s.posts.InsertOne(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}
