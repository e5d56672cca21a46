package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserType distinguishes personal accounts from pages
type UserType string

const (
	UserTypePerson UserType = "person"
	UserTypePage   UserType = "page"
)

// User represents a user or page profile in the directory
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"user_id"` // Stable public identifier
	Type      UserType           `bson:"type,omitempty" json:"type,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Bio       string             `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL string             `bson:"avatarUrl,omitempty" json:"avatar_url,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`

	// Person fields
	FirstName string `bson:"firstName,omitempty" json:"first_name,omitempty"`
	LastName  string `bson:"lastName,omitempty" json:"last_name,omitempty"`

	// Page fields
	Title    string `bson:"title,omitempty" json:"title,omitempty"`
	Category string `bson:"category,omitempty" json:"category,omitempty"`

	// Denormalized counter maintained by the follow pipeline
	FollowerCount int64 `bson:"followerCount" json:"follower_count"`
}

// UserResponse is the public API shape for a user or page
type UserResponse struct {
	ID            string    `json:"id"`
	Type          UserType  `json:"type"`
	Username      string    `json:"username"`
	Bio           string    `json:"bio,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	FollowerCount int64     `json:"follower_count"`

	// Person shape
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`

	// Page shape
	Title    string `json:"title,omitempty"`
	Category string `json:"category,omitempty"`

	// Relationship flags, populated only when requested
	Followed *bool `json:"followed,omitempty"`
	Blocked  *bool `json:"blocked,omitempty"`
}

// ToPersonResponse converts a person User to its public shape
func (u *User) ToPersonResponse() UserResponse {
	return UserResponse{
		ID:            u.UserID,
		Type:          UserTypePerson,
		Username:      u.Username,
		Bio:           u.Bio,
		AvatarURL:     u.AvatarURL,
		CreatedAt:     u.CreatedAt,
		FollowerCount: u.FollowerCount,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
	}
}

// ToPageResponse converts a page User to its public shape
func (u *User) ToPageResponse() UserResponse {
	return UserResponse{
		ID:            u.UserID,
		Type:          UserTypePage,
		Username:      u.Username,
		Bio:           u.Bio,
		AvatarURL:     u.AvatarURL,
		CreatedAt:     u.CreatedAt,
		FollowerCount: u.FollowerCount,
		Title:         u.Title,
		Category:      u.Category,
	}
}

// Relationship holds the viewer's relationship to another user
type Relationship struct {
	Followed bool `json:"followed"`
	Blocked  bool `json:"blocked"`
}

// Follow is a follower edge (account follows target user)
type Follow struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AccountID    string             `bson:"accountId" json:"account_id"`
	TargetUserID string             `bson:"targetUserId" json:"target_user_id"`
	CreatedAt    time.Time          `bson:"createdAt" json:"created_at"`
}

// Block is a block edge (account blocked target user)
type Block struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AccountID    string             `bson:"accountId" json:"account_id"`
	TargetUserID string             `bson:"targetUserId" json:"target_user_id"`
	CreatedAt    time.Time          `bson:"createdAt" json:"created_at"`
}
