package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"pulsefeed/internal/models"
)

// memCache is an in-memory Cache used by the suggestion-layer tests
type memCache struct {
	strings map[string]string
	hashes  map[string]map[string]string
	writes  int
	failAll bool
}

func newMemCache() *memCache {
	return &memCache{
		strings: make(map[string]string),
		hashes:  make(map[string]map[string]string),
	}
}

var errCacheDown = errors.New("cache down")

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	if m.failAll {
		return "", errCacheDown
	}
	v, ok := m.strings[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if m.failAll {
		return errCacheDown
	}
	m.writes++
	switch v := value.(type) {
	case string:
		m.strings[key] = v
	case []byte:
		m.strings[key] = string(v)
	default:
		panic("unsupported value type in memCache.Set")
	}
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	if m.failAll {
		return errCacheDown
	}
	m.writes++
	for _, key := range keys {
		delete(m.strings, key)
		delete(m.hashes, key)
	}
	return nil
}

func (m *memCache) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if m.failAll {
		return nil, errCacheDown
	}
	fields := make(map[string]string, len(m.hashes[key]))
	for k, v := range m.hashes[key] {
		fields[k] = v
	}
	return fields, nil
}

func (m *memCache) HIncrBy(_ context.Context, key, field string, incr int64) (int64, error) {
	if m.failAll {
		return 0, errCacheDown
	}
	m.writes++
	h := m.hashes[key]
	if h == nil {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	current, _ := strconv.ParseInt(h[field], 10, 64)
	current += incr
	h[field] = strconv.FormatInt(current, 10)
	return current, nil
}

func (m *memCache) HSet(_ context.Context, key string, values ...interface{}) error {
	if m.failAll {
		return errCacheDown
	}
	m.writes++
	h := m.hashes[key]
	if h == nil {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	for i := 0; i+1 < len(values); i += 2 {
		field := values[i].(string)
		switch v := values[i+1].(type) {
		case string:
			h[field] = v
		case int:
			h[field] = strconv.Itoa(v)
		case int64:
			h[field] = strconv.FormatInt(v, 10)
		default:
			panic("unsupported value type in memCache.HSet")
		}
	}
	return nil
}

// stubPredictor returns a canned ranking or error
type stubPredictor struct {
	candidates []models.SuggestionCandidate
	err        error
	calls      int
}

func (p *stubPredictor) PredictFollowSuggestions(_ context.Context, _ string) ([]models.SuggestionCandidate, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.candidates, nil
}

// stubDirectory resolves users from a fixed map
type stubDirectory struct {
	users   map[string]*models.User
	follows map[string]bool
	blocks  map[string]bool
}

func newStubDirectory(users ...*models.User) *stubDirectory {
	d := &stubDirectory{
		users:   make(map[string]*models.User),
		follows: make(map[string]bool),
		blocks:  make(map[string]bool),
	}
	for _, u := range users {
		d.users[u.UserID] = u
	}
	return d
}

func (d *stubDirectory) ResolveUser(_ context.Context, userID string) (*models.User, error) {
	user, ok := d.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (d *stubDirectory) RelationshipFlags(_ context.Context, _ string, userIDs []string) (map[string]models.Relationship, error) {
	flags := make(map[string]models.Relationship, len(userIDs))
	for _, id := range userIDs {
		flags[id] = models.Relationship{Followed: d.follows[id], Blocked: d.blocks[id]}
	}
	return flags, nil
}

func person(userID string) *models.User {
	return &models.User{
		UserID:   userID,
		Type:     models.UserTypePerson,
		Username: userID,
	}
}

func page(userID string) *models.User {
	return &models.User{
		UserID:   userID,
		Type:     models.UserTypePage,
		Username: userID,
		Title:    "Page " + userID,
	}
}
