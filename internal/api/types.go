package api

import (
	"encoding/json"

	"github.com/nikbrunner/bmdash/internal/model"
)

// RateLimitSignal is the substring the backend puts in `message` when it is
// being throttled upstream.
const RateLimitSignal = "Rate limited"

// SessionInfo is the response of the session check endpoint.
type SessionInfo struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// BookmarksPage is a decoded bookmarks response.
type BookmarksPage struct {
	Items       []model.RawItem
	Message     string
	RateLimited bool
}

// bookmarksResponse mirrors the wire format. `bookmarks` is an older name
// for `data` that some backend versions still send.
type bookmarksResponse struct {
	Data      json.RawMessage `json:"data"`
	Bookmarks json.RawMessage `json:"bookmarks"`
	Message   string          `json:"message,omitempty"`
}
