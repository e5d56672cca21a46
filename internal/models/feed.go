package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feed item types
const (
	FeedItemTypePost             = "post"
	FeedItemTypeSuggestionFollow = "suggestion-follow"
)

// SuggestionBlockID is the synthetic item ID for an injected follow-suggestion block
const SuggestionBlockID = "for-you"

// Post is a content document authored by a user or page
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    string             `bson:"postId" json:"post_id"`
	AuthorID  string             `bson:"authorId" json:"author_id"`
	Body      string             `bson:"body" json:"body"`
	MediaURL  string             `bson:"mediaUrl,omitempty" json:"media_url,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
}

// FeedItem is a single entry of an assembled feed. Payload is either a
// PostResponse or, for injected suggestion blocks, a []UserResponse.
type FeedItem struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// FeedMeta is pagination metadata for an assembled feed
type FeedMeta struct {
	ResultCount int    `json:"result_count"`
	OldestID    string `json:"oldest_id,omitempty"`
	NewestID    string `json:"newest_id,omitempty"`
}

// FeedResponse is the API response for a feed request
type FeedResponse struct {
	Payload []FeedItem `json:"payload"`
	Meta    FeedMeta   `json:"meta"`
}

// PostResponse is the public API shape for a post
type PostResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	MediaURL  string    `json:"media_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a Post to its public shape
func (p *Post) ToResponse() PostResponse {
	return PostResponse{
		ID:        p.PostID,
		AuthorID:  p.AuthorID,
		Body:      p.Body,
		MediaURL:  p.MediaURL,
		CreatedAt: p.CreatedAt,
	}
}
