package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"pulsefeed/internal/models"
)

// Authorizer identifies the requesting session. The ranking snapshot is
// scoped to the (account, access token) pair so cursors from one session
// never replay against another session's snapshot.
type Authorizer struct {
	AccountID   string
	AccessToken string
}

// SuggestionServiceV2 serves the dedicated, cursor-paginated listing of
// suggested accounts. A fresh request ranks candidates through the predictor
// and caches the resolved ordering as a snapshot; cursor requests replay
// slices of that snapshot so pagination stays stable until the next fresh
// ranking overwrites it.
type SuggestionServiceV2 struct {
	cache           Cache
	predictor       FollowPredictor
	directory       UserDirectory
	defaultPageSize int
	maxPageSize     int
}

// NewSuggestionServiceV2 creates a new paginated suggestion service
func NewSuggestionServiceV2(cache Cache, predictor FollowPredictor, directory UserDirectory, defaultPageSize, maxPageSize int) *SuggestionServiceV2 {
	return &SuggestionServiceV2{
		cache:           cache,
		predictor:       predictor,
		directory:       directory,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func snapshotKey(auth Authorizer) string {
	tokenHash := sha256.Sum256([]byte(auth.AccessToken))
	return fmt.Sprintf("suggest:%s:%s", auth.AccountID, hex.EncodeToString(tokenHash[:8]))
}

// Suggest serves one page of suggested accounts. With a cursor it replays the
// cached snapshot (a stale or unknown cursor degrades to an empty page, never
// an error); without one it fetches a fresh ranking, and a predictor failure
// there is returned to the caller because the ranking is the response.
func (s *SuggestionServiceV2) Suggest(ctx context.Context, auth Authorizer, query *models.PageQuery) (*models.SuggestionPage, error) {
	maxResults := s.pageSize(query)

	var pageUsers []*models.User
	if query.HasCursor() {
		pageUsers = s.cursorPage(ctx, auth, query, maxResults)
		if m := GetMetrics(); m != nil {
			m.SuggestionPages.WithLabelValues("cursor").Inc()
		}
	} else {
		fresh, err := s.freshPage(ctx, auth, maxResults)
		if err != nil {
			return nil, err
		}
		pageUsers = fresh
		if m := GetMetrics(); m != nil {
			m.SuggestionPages.WithLabelValues("fresh").Inc()
		}
	}

	return s.shapePage(ctx, auth.AccountID, query, pageUsers)
}

// cursorPage replays a slice of the cached ranking snapshot
func (s *SuggestionServiceV2) cursorPage(ctx context.Context, auth Authorizer, query *models.PageQuery, maxResults int) []*models.User {
	snapshot := s.loadSnapshot(ctx, auth)
	if len(snapshot) == 0 {
		return nil
	}

	cursorID := query.UntilID
	if cursorID == "" {
		cursorID = query.SinceID
	}

	currentUserIndex := -1
	for i, candidate := range snapshot {
		if candidate.UserID == cursorID {
			currentUserIndex = i
			break
		}
	}
	if currentUserIndex == -1 {
		// Cursor no longer valid against the current snapshot
		return nil
	}

	var page []models.SuggestionCandidate
	if query.UntilID != "" {
		// Forward: the maxResults entries after the cursor, cursor excluded
		start := currentUserIndex + 1
		end := start + maxResults
		if end > len(snapshot) {
			end = len(snapshot)
		}
		page = snapshot[start:end]
	} else {
		// Backward: the window of up to maxResults entries ending at the
		// cursor inclusive, clamped at the head. Asymmetric with the forward
		// slice on purpose.
		start := currentUserIndex - maxResults
		if start < 0 {
			start = 0
		}
		lo := start + 1
		hi := currentUserIndex + 1
		if lo > hi {
			lo = hi
		}
		page = snapshot[lo:hi]
	}

	return s.resolvePage(ctx, page)
}

// freshPage ranks candidates through the predictor, replaces the snapshot,
// and returns the head of the new ordering
func (s *SuggestionServiceV2) freshPage(ctx context.Context, auth Authorizer, maxResults int) ([]*models.User, error) {
	ranked, err := resolveRankedCandidates(ctx, s.predictor, s.directory, auth.AccountID)
	if err != nil {
		return nil, err
	}

	// Persisting the resolved ordering is what invalidates old cursors
	snapshot := make([]models.SuggestionCandidate, 0, len(ranked))
	for _, rc := range ranked {
		snapshot = append(snapshot, rc.candidate)
	}
	if data, err := json.Marshal(snapshot); err == nil {
		if err := s.cache.Set(ctx, snapshotKey(auth), data, 0); err != nil {
			log.Printf("⚠️ Failed to persist suggestion snapshot for %s: %v", auth.AccountID, err)
		}
	}

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	users := make([]*models.User, 0, len(ranked))
	for _, rc := range ranked {
		users = append(users, rc.user)
	}
	return users, nil
}

// loadSnapshot reads the cached ranking for a session. Missing or corrupt
// entries read as absent.
func (s *SuggestionServiceV2) loadSnapshot(ctx context.Context, auth Authorizer) []models.SuggestionCandidate {
	raw, err := s.cache.Get(ctx, snapshotKey(auth))
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		log.Printf("⚠️ Failed to read suggestion snapshot for %s: %v", auth.AccountID, err)
		return nil
	}

	var snapshot []models.SuggestionCandidate
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		log.Printf("⚠️ Discarding corrupt suggestion snapshot for %s: %v", auth.AccountID, err)
		return nil
	}
	return snapshot
}

// resolvePage resolves snapshot candidates back to directory entries,
// silently dropping users deleted since the snapshot was taken
func (s *SuggestionServiceV2) resolvePage(ctx context.Context, page []models.SuggestionCandidate) []*models.User {
	users := make([]*models.User, 0, len(page))
	for _, candidate := range page {
		user, err := s.directory.ResolveUser(ctx, candidate.UserID)
		if err != nil {
			continue
		}
		if user.Type != models.UserTypePerson && user.Type != models.UserTypePage {
			continue
		}
		users = append(users, user)
	}
	return users
}

// shapePage renders a page of users into response DTOs, optionally enriched
// with the viewer's relationship flags, and computes pagination metadata
func (s *SuggestionServiceV2) shapePage(ctx context.Context, accountID string, query *models.PageQuery, users []*models.User) (*models.SuggestionPage, error) {
	payload := make([]models.UserResponse, 0, len(users))
	for _, user := range users {
		if resp := RenderUser(user); resp != nil {
			payload = append(payload, *resp)
		}
	}

	if query.WantsField("relationships") && len(payload) > 0 {
		ids := make([]string, len(payload))
		for i := range payload {
			ids[i] = payload[i].ID
		}
		flags, err := s.directory.RelationshipFlags(ctx, accountID, ids)
		if err != nil {
			// Enrichment is optional; serve the page without it
			log.Printf("⚠️ Failed to load relationship flags for %s: %v", accountID, err)
		} else {
			for i := range payload {
				rel := flags[payload[i].ID]
				followed, blocked := rel.Followed, rel.Blocked
				payload[i].Followed = &followed
				payload[i].Blocked = &blocked
			}
		}
	}

	meta := models.PageMeta{ResultCount: len(payload)}
	if len(payload) > 0 {
		meta.FirstID = payload[0].ID
		meta.LastID = payload[len(payload)-1].ID
	}

	return &models.SuggestionPage{Payload: payload, Meta: meta}, nil
}

func (s *SuggestionServiceV2) pageSize(query *models.PageQuery) int {
	if query.MaxResults <= 0 {
		return s.defaultPageSize
	}
	if query.MaxResults > s.maxPageSize {
		return s.maxPageSize
	}
	return query.MaxResults
}
