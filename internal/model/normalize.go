package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RawID accepts a JSON string, number or null.
type RawID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *RawID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RawID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = RawID(n.String())
	return nil
}

// RawItem is a bookmark as the backend sends it.
type RawItem struct {
	ID        RawID  `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	AuthorID  RawID  `json:"author_id,omitempty"`
}

// Normalize converts raw items into bookmarks.
// Items without a usable id are dropped. When an id repeats, the last
// occurrence wins and keeps its own position.
func Normalize(items []RawItem, now time.Time) []Bookmark {
	fallbackTime := now.UTC().Format(time.RFC3339)

	lastIndex := make(map[string]int, len(items))
	for i, item := range items {
		lastIndex[string(item.ID)] = i
	}

	result := make([]Bookmark, 0, len(items))
	for i, item := range items {
		id := string(item.ID)
		if id == "" || id == PlaceholderID {
			continue
		}
		if lastIndex[id] != i {
			continue
		}

		content := item.Text
		if content == "" {
			content = PlaceholderContent
		}

		createdAt := item.CreatedAt
		if createdAt == "" {
			createdAt = fallbackTime
		}

		result = append(result, Bookmark{
			ID:        id,
			Content:   content,
			CreatedAt: createdAt,
			AuthorID:  string(item.AuthorID),
			Created:   ParseCreatedAt(createdAt),
		})
	}

	return result
}
