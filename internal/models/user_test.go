package models

import (
	"encoding/json"
	"testing"
)

func TestToPersonResponse(t *testing.T) {
	u := &User{
		UserID:        "alice",
		Type:          UserTypePerson,
		Username:      "alice",
		FirstName:     "Alice",
		LastName:      "Doe",
		Title:         "ignored for persons",
		FollowerCount: 42,
	}

	resp := u.ToPersonResponse()
	if resp.ID != "alice" || resp.Type != UserTypePerson {
		t.Errorf("Expected person alice, got %+v", resp)
	}
	if resp.FirstName != "Alice" || resp.LastName != "Doe" {
		t.Errorf("Expected person name fields, got %+v", resp)
	}
	if resp.Title != "" {
		t.Errorf("Expected page fields omitted for a person, got title %q", resp.Title)
	}
	if resp.FollowerCount != 42 {
		t.Errorf("Expected follower count 42, got %d", resp.FollowerCount)
	}
}

func TestToPageResponse(t *testing.T) {
	u := &User{
		UserID:    "acme",
		Type:      UserTypePage,
		Username:  "acme",
		Title:     "ACME Inc",
		Category:  "business",
		FirstName: "ignored for pages",
	}

	resp := u.ToPageResponse()
	if resp.ID != "acme" || resp.Type != UserTypePage {
		t.Errorf("Expected page acme, got %+v", resp)
	}
	if resp.Title != "ACME Inc" || resp.Category != "business" {
		t.Errorf("Expected page fields, got %+v", resp)
	}
	if resp.FirstName != "" {
		t.Errorf("Expected person fields omitted for a page, got first name %q", resp.FirstName)
	}
}

func TestRelationshipFlagsOmittedWhenUnset(t *testing.T) {
	data, err := json.Marshal(UserResponse{ID: "alice", Type: UserTypePerson, Username: "alice"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, present := raw["followed"]; present {
		t.Error("Expected followed omitted when not populated")
	}
	if _, present := raw["blocked"]; present {
		t.Error("Expected blocked omitted when not populated")
	}
}
