package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"pulsefeed/internal/database"
	"pulsefeed/internal/models"
)

// ErrUserNotFound indicates a user ID with no backing directory entry
var ErrUserNotFound = errors.New("user not found")

// UserDirectory is the lookup capability the suggestion engines consume.
// *UserService satisfies it; tests supply an in-memory implementation.
type UserDirectory interface {
	ResolveUser(ctx context.Context, userID string) (*models.User, error)
	RelationshipFlags(ctx context.Context, accountID string, userIDs []string) (map[string]models.Relationship, error)
}

// UserService handles user directory operations with MongoDB. Resolved users
// are memoized in-process for a short window because the suggestion engines
// re-resolve the same ranked candidates across consecutive requests.
type UserService struct {
	collection *mongo.Collection
	follows    *mongo.Collection
	blocks     *mongo.Collection
	memo       *gocache.Cache
}

// NewUserService creates a new user service
func NewUserService(db *database.MongoDB) *UserService {
	return &UserService{
		collection: db.Collection(database.CollectionUsers),
		follows:    db.Collection(database.CollectionFollows),
		blocks:     db.Collection(database.CollectionBlocks),
		memo:       gocache.New(30*time.Second, time.Minute),
	}
}

// ResolveUser retrieves a user by their public user ID.
// Returns ErrUserNotFound for IDs with no directory entry.
func (s *UserService) ResolveUser(ctx context.Context, userID string) (*models.User, error) {
	if cached, ok := s.memo.Get(userID); ok {
		return cached.(*models.User), nil
	}

	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	s.memo.SetDefault(userID, &user)
	return &user, nil
}

// RelationshipFlags returns the viewer's followed/blocked flags for a set of
// user IDs. IDs with no edges map to the zero Relationship.
func (s *UserService) RelationshipFlags(ctx context.Context, accountID string, userIDs []string) (map[string]models.Relationship, error) {
	flags := make(map[string]models.Relationship, len(userIDs))
	if len(userIDs) == 0 {
		return flags, nil
	}

	filter := bson.M{"accountId": accountID, "targetUserId": bson.M{"$in": userIDs}}

	cursor, err := s.follows.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query follows: %w", err)
	}
	var followEdges []models.Follow
	if err := cursor.All(ctx, &followEdges); err != nil {
		return nil, fmt.Errorf("failed to decode follows: %w", err)
	}
	for _, edge := range followEdges {
		rel := flags[edge.TargetUserID]
		rel.Followed = true
		flags[edge.TargetUserID] = rel
	}

	cursor, err = s.blocks.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocks: %w", err)
	}
	var blockEdges []models.Block
	if err := cursor.All(ctx, &blockEdges); err != nil {
		return nil, fmt.Errorf("failed to decode blocks: %w", err)
	}
	for _, edge := range blockEdges {
		rel := flags[edge.TargetUserID]
		rel.Blocked = true
		flags[edge.TargetUserID] = rel
	}

	return flags, nil
}

// GetUserCount returns the total number of directory entries (for admin analytics)
func (s *UserService) GetUserCount(ctx context.Context) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// RenderUser shapes a user into its public response depending on account
// kind. Users with no determinable type render to nil and are filtered out
// by the suggestion engines.
func RenderUser(u *models.User) *models.UserResponse {
	switch u.Type {
	case models.UserTypePerson:
		resp := u.ToPersonResponse()
		return &resp
	case models.UserTypePage:
		resp := u.ToPageResponse()
		return &resp
	default:
		return nil
	}
}
