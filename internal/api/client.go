package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/nikbrunner/bmdash/internal/logger"
	"github.com/nikbrunner/bmdash/internal/model"
)

const (
	sessionPath   = "/api/session"
	bookmarksPath = "/api/bookmarks"
	logoutPath    = "/api/logout"

	// maxErrorBody bounds how much of an error response ends up in messages.
	maxErrorBody = 512
)

// Client talks to the bookmarks backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	log        logger.Logger
}

// ClientParams holds parameters for creating a new Client.
type ClientParams struct {
	BaseURL    string
	HTTPClient *http.Client  // optional, defaults to a client with a 30s timeout
	Logger     logger.Logger // optional, defaults to a no-op logger
}

// NewClient creates a new backend client.
func NewClient(params ClientParams) (*Client, error) {
	base, err := url.Parse(params.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", params.BaseURL)
	}

	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	log := params.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		log:        log,
	}, nil
}

// Session asks the backend whether userID still has a valid session. An
// error response that still carries a session verdict, such as
// 401 {"authenticated":false}, is returned as that verdict.
func (c *Client) Session(ctx context.Context, userID string) (*SessionInfo, error) {
	body, err := c.get(ctx, sessionPath, url.Values{"user_id": {userID}})
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			if info, ok := sessionVerdict(statusErr.Body); ok {
				return info, nil
			}
		}
		return nil, err
	}

	var info SessionInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, transient(fmt.Errorf("%w: decode session: %v", ErrInvalidResponse, err))
	}
	return &info, nil
}

func sessionVerdict(body string) (*SessionInfo, bool) {
	var verdict struct {
		Authenticated *bool  `json:"authenticated"`
		Username      string `json:"username"`
	}
	if err := json.Unmarshal([]byte(body), &verdict); err != nil || verdict.Authenticated == nil {
		return nil, false
	}
	return &SessionInfo{Authenticated: *verdict.Authenticated, Username: verdict.Username}, true
}

// Bookmarks fetches up to maxResults bookmarks for userID.
// A rate-limited response is returned as a page with RateLimited set and no
// items; the caller decides whether to wait.
func (c *Client) Bookmarks(ctx context.Context, userID string, maxResults int) (*BookmarksPage, error) {
	query := url.Values{"user_id": {userID}}
	if maxResults > 0 {
		query.Set("max_results", strconv.Itoa(maxResults))
	}

	body, err := c.get(ctx, bookmarksPath, query)
	if err != nil {
		return nil, err
	}

	return decodeBookmarks(body)
}

// Logout tells the backend to drop the session. Callers clear local state
// whatever the outcome.
func (c *Client) Logout(ctx context.Context, userID string) error {
	_, err := c.get(ctx, logoutPath, url.Values{"user_id": {userID}})
	return err
}

func decodeBookmarks(body []byte) (*BookmarksPage, error) {
	if len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, transient(fmt.Errorf("%w: empty response", ErrInvalidResponse))
	}

	var resp bookmarksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, transient(fmt.Errorf("%w: decode bookmarks: %v", ErrInvalidResponse, err))
	}

	if strings.Contains(resp.Message, RateLimitSignal) {
		return &BookmarksPage{Message: resp.Message, RateLimited: true}, nil
	}

	list := resp.Data
	if isAbsent(list) {
		list = resp.Bookmarks
	}

	page := &BookmarksPage{Message: resp.Message, Items: []model.RawItem{}}
	if isAbsent(list) {
		return page, nil
	}

	if trimmed := bytes.TrimSpace(list); trimmed[0] != '[' {
		return nil, transient(fmt.Errorf("%w: bookmarks payload is not a list", ErrInvalidResponse))
	}
	if err := json.Unmarshal(list, &page.Items); err != nil {
		return nil, transient(fmt.Errorf("%w: decode bookmark items: %v", ErrInvalidResponse, err))
	}

	return page, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// get performs a GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL.JoinPath(path)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			logger.String("path", path),
			logger.String("request_id", requestID),
			logger.Error(err))
		return nil, transient(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transient(fmt.Errorf("read response: %w", err))
	}

	c.log.Debug("request done",
		logger.String("path", path),
		logger.String("request_id", requestID),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: errorSnippet(body, resp.Header.Get("Content-Type"))}
	}

	return body, nil
}

var errorPagePolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// errorSnippet shortens an error response for messages. Proxies answer with
// HTML pages, which are reduced to their text.
func errorSnippet(body []byte, contentType string) string {
	snippet := string(body)
	if strings.HasPrefix(contentType, "text/html") {
		snippet = html.UnescapeString(errorPagePolicy.Sanitize(snippet))
		snippet = strings.Join(strings.Fields(snippet), " ")
	}
	snippet = strings.TrimSpace(snippet)
	if len(snippet) > maxErrorBody {
		snippet = strings.ToValidUTF8(snippet[:maxErrorBody], "")
	}
	return snippet
}
