package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"pulsefeed/internal/models"
)

// ErrPredictorUnavailable indicates the ranking predictor could not serve a
// request (network failure, timeout, non-2xx response, or open breaker).
var ErrPredictorUnavailable = errors.New("ranking predictor unavailable")

// FollowPredictor abstracts the remote ranking service that scores
// follow-suggestion candidates for an account. Results are ordered most
// relevant first; ties are whatever the predictor returned.
type FollowPredictor interface {
	PredictFollowSuggestions(ctx context.Context, accountID string) ([]models.SuggestionCandidate, error)
}

// PredictorClient is the HTTP implementation of FollowPredictor. The
// predictor is the one external latency source of the suggestion layer, so
// calls are bounded by a timeout, throttled client-side, and wrapped in a
// circuit breaker.
type PredictorClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]models.SuggestionCandidate]
}

// NewPredictorClient creates a new predictor client
func NewPredictorClient(baseURL string, timeout time.Duration, rps int) *PredictorClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	breaker := gobreaker.NewCircuitBreaker[[]models.SuggestionCandidate](gobreaker.Settings{
		Name:    "follow-predictor",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &PredictorClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		breaker: breaker,
	}
}

// predictorResponse is the wire shape of the predictor's ranking result
type predictorResponse struct {
	Suggestions []models.SuggestionCandidate `json:"suggestions"`
}

// PredictFollowSuggestions fetches the ordered candidate ranking for an
// account. Any transport or server failure is reported as
// ErrPredictorUnavailable; callers decide whether that is fatal.
func (c *PredictorClient) PredictFollowSuggestions(ctx context.Context, accountID string) ([]models.SuggestionCandidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPredictorUnavailable, err)
	}

	start := time.Now()
	candidates, err := c.breaker.Execute(func() ([]models.SuggestionCandidate, error) {
		return c.fetch(ctx, accountID)
	})
	if m := GetMetrics(); m != nil {
		m.PredictorLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPredictorUnavailable, err)
	}
	return candidates, nil
}

func (c *PredictorClient) fetch(ctx context.Context, accountID string) ([]models.SuggestionCandidate, error) {
	endpoint := fmt.Sprintf("%s/v1/predictions/follow-suggestions/%s", c.baseURL, url.PathEscape(accountID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("predictor returned status %d", resp.StatusCode)
	}

	var body predictorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode predictor response: %w", err)
	}

	return body.Suggestions, nil
}
