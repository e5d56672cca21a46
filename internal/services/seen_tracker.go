package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"pulsefeed/internal/models"
)

// Hash fields of the per-account seen state
const (
	seenFieldCount          = "seen_count"
	seenFieldLastSeen       = "last_seen_ms"
	seenFieldLastSuggestion = "last_suggestion_ms"
)

// SeenTracker records per-account feed-view cadence in the shared cache.
// The view counter is incremented server-side (HINCRBY) so concurrent views
// never lose increments; the reset performed on suggestion injection is a
// plain overwrite and remains last-writer-wins under concurrency.
type SeenTracker struct {
	cache Cache
	now   func() time.Time
}

// NewSeenTracker creates a new seen tracker
func NewSeenTracker(cache Cache) *SeenTracker {
	return &SeenTracker{
		cache: cache,
		now:   time.Now,
	}
}

func seenKey(accountID string) string {
	return fmt.Sprintf("%s-seen", accountID)
}

// Seen records one feed view for an account. Bookkeeping is best-effort:
// cache failures are logged and swallowed so a feed request never fails
// because of them.
func (t *SeenTracker) Seen(ctx context.Context, accountID string) {
	key := seenKey(accountID)

	if _, err := t.cache.HIncrBy(ctx, key, seenFieldCount, 1); err != nil {
		log.Printf("⚠️ Failed to record feed view for %s: %v", accountID, err)
		return
	}
	if err := t.cache.HSet(ctx, key, seenFieldLastSeen, t.now().UnixMilli()); err != nil {
		log.Printf("⚠️ Failed to update last-seen for %s: %v", accountID, err)
	}
}

// State returns the current seen state for an account, or nil if the account
// has no recorded views. Cache failures are reported as nil state: callers
// treat an unreachable cache the same as an account nobody tracked.
func (t *SeenTracker) State(ctx context.Context, accountID string) *models.SeenState {
	fields, err := t.cache.HGetAll(ctx, seenKey(accountID))
	if err != nil {
		log.Printf("⚠️ Failed to read seen state for %s: %v", accountID, err)
		return nil
	}
	if len(fields) == 0 {
		return nil
	}

	state := &models.SeenState{}
	if v, ok := fields[seenFieldCount]; ok {
		state.SeenCount, _ = strconv.ParseInt(v, 10, 64)
	}
	if ts := parseMillisField(fields, seenFieldLastSeen); ts != nil {
		state.LastSeen = ts
	}
	if ts := parseMillisField(fields, seenFieldLastSuggestion); ts != nil {
		state.LastSuggestion = ts
	}
	return state
}

// Reset clears the view counter after a suggestion block was injected and
// stamps the injection time.
func (t *SeenTracker) Reset(ctx context.Context, accountID string) error {
	nowMs := t.now().UnixMilli()
	return t.cache.HSet(ctx, seenKey(accountID),
		seenFieldCount, 0,
		seenFieldLastSeen, nowMs,
		seenFieldLastSuggestion, nowMs,
	)
}

func parseMillisField(fields map[string]string, name string) *time.Time {
	v, ok := fields[name]
	if !ok {
		return nil
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	ts := time.UnixMilli(ms)
	return &ts
}
