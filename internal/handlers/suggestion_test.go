package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"pulsefeed/internal/models"
	"pulsefeed/internal/services"
)

// noopCache is an always-empty services.Cache
type noopCache struct{}

func (noopCache) Get(context.Context, string) (string, error) { return "", redis.Nil }
func (noopCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (noopCache) Delete(context.Context, ...string) error { return nil }
func (noopCache) HGetAll(context.Context, string) (map[string]string, error) {
	return map[string]string{}, nil
}
func (noopCache) HIncrBy(context.Context, string, string, int64) (int64, error) { return 0, nil }
func (noopCache) HSet(context.Context, string, ...interface{}) error            { return nil }

type fixedPredictor struct {
	candidates []models.SuggestionCandidate
	err        error
}

func (p fixedPredictor) PredictFollowSuggestions(context.Context, string) ([]models.SuggestionCandidate, error) {
	return p.candidates, p.err
}

type fixedDirectory struct {
	users map[string]*models.User
}

func (d fixedDirectory) ResolveUser(_ context.Context, userID string) (*models.User, error) {
	user, ok := d.users[userID]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return user, nil
}

func (d fixedDirectory) RelationshipFlags(_ context.Context, _ string, userIDs []string) (map[string]models.Relationship, error) {
	flags := make(map[string]models.Relationship, len(userIDs))
	for _, id := range userIDs {
		flags[id] = models.Relationship{}
	}
	return flags, nil
}

func setupSuggestionApp(predictor services.FollowPredictor, directory services.UserDirectory, authed bool) *fiber.App {
	app := fiber.New()
	if authed {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("account_id", "acct-1")
			c.Locals("access_token", "token-a")
			return c.Next()
		})
	}

	service := services.NewSuggestionServiceV2(noopCache{}, predictor, directory, 10, 50)
	handler := NewSuggestionHandler(service)
	app.Get("/api/suggestions", handler.List)
	return app
}

func TestSuggestionListRequiresAuth(t *testing.T) {
	app := setupSuggestionApp(fixedPredictor{}, fixedDirectory{}, false)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/suggestions", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}
}

func TestSuggestionListRejectsBadMaxResults(t *testing.T) {
	app := setupSuggestionApp(fixedPredictor{}, fixedDirectory{}, true)

	for _, raw := range []string{"abc", "-3", "1.5"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/suggestions?max_results="+raw, nil))
		if err != nil {
			t.Fatalf("Failed to send request: %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("max_results=%q: expected status 400, got %d", raw, resp.StatusCode)
		}
	}
}

func TestSuggestionListServesFreshPage(t *testing.T) {
	predictor := fixedPredictor{candidates: []models.SuggestionCandidate{
		{UserID: "alice", Engagements: 9},
		{UserID: "bob", Engagements: 5},
	}}
	directory := fixedDirectory{users: map[string]*models.User{
		"alice": {UserID: "alice", Type: models.UserTypePerson, Username: "alice"},
		"bob":   {UserID: "bob", Type: models.UserTypePage, Username: "bob", Title: "Bob's Page"},
	}}
	app := setupSuggestionApp(predictor, directory, true)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/suggestions", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var page models.SuggestionPage
	if err := json.Unmarshal(body, &page); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if page.Meta.ResultCount != 2 {
		t.Errorf("Expected result count 2, got %d", page.Meta.ResultCount)
	}
	if len(page.Payload) != 2 || page.Payload[0].ID != "alice" || page.Payload[1].ID != "bob" {
		t.Errorf("Expected [alice bob], got %+v", page.Payload)
	}
	if page.Meta.FirstID != "alice" || page.Meta.LastID != "bob" {
		t.Errorf("Expected meta cursors alice/bob, got %q/%q", page.Meta.FirstID, page.Meta.LastID)
	}
}

func TestSuggestionListPredictorOutageIs503(t *testing.T) {
	app := setupSuggestionApp(fixedPredictor{err: services.ErrPredictorUnavailable}, fixedDirectory{}, true)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/suggestions", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if retryable, _ := payload["retryable"].(bool); !retryable {
		t.Error("Expected the outage response to be marked retryable")
	}
}
