package services

import (
	"context"
	"log"
	"time"

	"pulsefeed/internal/models"
)

// SuggestionConfig carries the tunable parameters of the suggestion engines.
// Values come from the environment (config.Load) and are passed explicitly.
type SuggestionConfig struct {
	MinContentThreshold int
	MinDiffTime         time.Duration
	SuggestAmount       int
}

// SuggestionService decides, per feed request, whether to splice a "for-you"
// block of follow recommendations into the assembled feed. Suggestion is a
// best-effort enhancement: every failure path returns the caller's feed
// unchanged.
type SuggestionService struct {
	tracker   *SeenTracker
	predictor FollowPredictor
	directory UserDirectory
	cfg       SuggestionConfig
	now       func() time.Time
}

// NewSuggestionService creates a new feed suggestion injector
func NewSuggestionService(tracker *SeenTracker, predictor FollowPredictor, directory UserDirectory, cfg SuggestionConfig) *SuggestionService {
	return &SuggestionService{
		tracker:   tracker,
		predictor: predictor,
		directory: directory,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Suggest inspects the account's viewing cadence and, when eligible, returns
// the feed with a suggestion block spliced in and the seen counter reset.
// Ineligible or failing requests return the input feed with no state change.
func (s *SuggestionService) Suggest(ctx context.Context, accountID string, feed *models.FeedResponse) *models.FeedResponse {
	state := s.tracker.State(ctx, accountID)
	if state == nil {
		return feed
	}

	// An account that never received a block is immediately past the time gate
	lastSuggestion := time.UnixMilli(0)
	if state.LastSuggestion != nil {
		lastSuggestion = *state.LastSuggestion
	}
	diffSuggestionTime := s.now().Sub(lastSuggestion)

	if state.SeenCount <= int64(s.cfg.MinContentThreshold) || diffSuggestionTime <= s.cfg.MinDiffTime {
		if m := GetMetrics(); m != nil {
			m.InjectionSkipped.WithLabelValues("ineligible").Inc()
		}
		return feed
	}

	ranked, err := resolveRankedCandidates(ctx, s.predictor, s.directory, accountID)
	if err != nil {
		log.Printf("⚠️ Suggestion skipped for %s: %v", accountID, err)
		if m := GetMetrics(); m != nil {
			m.InjectionSkipped.WithLabelValues("predictor_failure").Inc()
		}
		return feed
	}
	if len(ranked) == 0 {
		if m := GetMetrics(); m != nil {
			m.InjectionSkipped.WithLabelValues("no_candidates").Inc()
		}
		return feed
	}

	if len(ranked) > s.cfg.SuggestAmount {
		ranked = ranked[:s.cfg.SuggestAmount]
	}

	payload := make([]models.UserResponse, 0, len(ranked))
	for _, rc := range ranked {
		payload = append(payload, *RenderUser(rc.user))
	}

	block := models.FeedItem{
		ID:      models.SuggestionBlockID,
		Type:    models.FeedItemTypeSuggestionFollow,
		Payload: payload,
	}

	items := spliceFeedItem(feed.Payload, block, s.insertIndex(len(feed.Payload)))

	if err := s.tracker.Reset(ctx, accountID); err != nil {
		log.Printf("⚠️ Failed to reset seen state for %s: %v", accountID, err)
	}
	if m := GetMetrics(); m != nil {
		m.SuggestionsInjected.Inc()
	}

	return &models.FeedResponse{
		Payload: items,
		Meta:    feed.Meta,
	}
}

// insertIndex places the block after the Nth feed item, or second-to-last
// when the feed is shorter than the content threshold. Feeds of fewer than
// two items clamp to index 0.
func (s *SuggestionService) insertIndex(feedLen int) int {
	idx := s.cfg.MinContentThreshold - 1
	if s.cfg.MinContentThreshold > feedLen {
		idx = feedLen - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// spliceFeedItem inserts item at idx without removing existing entries
func spliceFeedItem(items []models.FeedItem, item models.FeedItem, idx int) []models.FeedItem {
	out := make([]models.FeedItem, 0, len(items)+1)
	out = append(out, items[:idx]...)
	out = append(out, item)
	out = append(out, items[idx:]...)
	return out
}

// rankedUser pairs a predictor candidate with its resolved directory entry
type rankedUser struct {
	user      *models.User
	candidate models.SuggestionCandidate
}

// resolveRankedCandidates fetches the predictor ranking for an account and
// resolves each candidate against the user directory, preserving rank order.
// Candidates that no longer resolve, or resolve to an entry with no
// determinable type, are dropped silently. Only the predictor call itself can
// fail the whole step.
func resolveRankedCandidates(ctx context.Context, predictor FollowPredictor, directory UserDirectory, accountID string) ([]rankedUser, error) {
	candidates, err := predictor.PredictFollowSuggestions(ctx, accountID)
	if err != nil {
		if m := GetMetrics(); m != nil {
			m.PredictorFailures.Inc()
		}
		return nil, err
	}

	resolved := make([]rankedUser, 0, len(candidates))
	for _, candidate := range candidates {
		user, err := directory.ResolveUser(ctx, candidate.UserID)
		if err != nil {
			// Deleted or unreadable entries are filtered, not fatal
			continue
		}
		if user.Type != models.UserTypePerson && user.Type != models.UserTypePage {
			continue
		}
		resolved = append(resolved, rankedUser{user: user, candidate: candidate})
	}
	return resolved, nil
}
