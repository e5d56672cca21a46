package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestPredictorClientFetchesRanking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/predictions/follow-suggestions/acct-1" {
			t.Errorf("Unexpected request path %q", r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("Expected an X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"suggestions":[{"user_id":"alice","engagements":9},{"user_id":"bob","engagements":5}]}`))
	}))
	defer server.Close()

	client := NewPredictorClient(server.URL, 2*time.Second, 50)

	candidates, err := client.PredictFollowSuggestions(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("PredictFollowSuggestions failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].UserID != "alice" || candidates[0].Engagements != 9 {
		t.Errorf("Expected alice first with 9 engagements, got %+v", candidates[0])
	}
	if candidates[1].UserID != "bob" {
		t.Errorf("Expected bob second, got %+v", candidates[1])
	}
}

func TestPredictorClientServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewPredictorClient(server.URL, 2*time.Second, 50)

	_, err := client.PredictFollowSuggestions(context.Background(), "acct-1")
	if !errors.Is(err, ErrPredictorUnavailable) {
		t.Errorf("Expected ErrPredictorUnavailable, got %v", err)
	}
}

func TestPredictorClientBreakerStopsHammering(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewPredictorClient(server.URL, 2*time.Second, 50)

	for i := 0; i < 10; i++ {
		if _, err := client.PredictFollowSuggestions(context.Background(), "acct-1"); !errors.Is(err, ErrPredictorUnavailable) {
			t.Fatalf("Call %d: expected ErrPredictorUnavailable, got %v", i, err)
		}
	}

	// The breaker opens after five consecutive failures and stops further traffic
	if got := atomic.LoadInt64(&hits); got != 5 {
		t.Errorf("Expected the upstream to see exactly 5 requests, got %d", got)
	}
}
