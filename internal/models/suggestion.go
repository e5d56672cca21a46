package models

import "time"

// SeenState tracks feed-view cadence for one account. It lives in Redis and
// is created lazily on the first recorded view.
type SeenState struct {
	SeenCount      int64      `json:"seen_count"`
	LastSeen       *time.Time `json:"last_seen,omitempty"`
	LastSuggestion *time.Time `json:"last_suggestion,omitempty"`
}

// SuggestionCandidate is one ranked follow recommendation from the predictor.
// Order of a candidate list is rank order, most relevant first.
type SuggestionCandidate struct {
	UserID      string `json:"user_id"`
	Engagements int64  `json:"engagements"`
}

// PageQuery carries cursor bounds and page size for the suggestion listing.
// SinceID and UntilID are opaque user-ID cursors into the cached ranking
// snapshot; Fields selects optional response enrichments.
type PageQuery struct {
	SinceID    string
	UntilID    string
	MaxResults int
	Fields     []string
}

// HasCursor reports whether the query continues a previous snapshot
func (q *PageQuery) HasCursor() bool {
	return q.SinceID != "" || q.UntilID != ""
}

// WantsField reports whether a response enrichment was requested
func (q *PageQuery) WantsField(name string) bool {
	for _, f := range q.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// PageMeta exposes enough of the returned slice for the caller to build
// next/previous cursors
type PageMeta struct {
	ResultCount int    `json:"result_count"`
	FirstID     string `json:"first_id,omitempty"`
	LastID      string `json:"last_id,omitempty"`
}

// SuggestionPage is the API response for the suggestion listing
type SuggestionPage struct {
	Payload []UserResponse `json:"payload"`
	Meta    PageMeta       `json:"meta"`
}
