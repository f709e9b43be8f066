package pagination

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// PageInfo describes cursor pagination state embedded in list responses.
type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

// Cursor is the opaque pagination position.
type Cursor struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

// EncodeCursor serializes a cursor into an opaque token.
func EncodeCursor(cursor Cursor) (string, error) {
	raw, err := json.Marshal(cursor)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeCursor parses an opaque token back into a cursor. An empty token
// yields a zero cursor.
func DecodeCursor(token string) (Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Cursor{}, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, err
	}
	var cursor Cursor
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return Cursor{}, err
	}
	return cursor, nil
}

// BuildCursorPageInfo computes page info for a result fetched with limit+1.
// tokenOf extracts the cursor token from the last visible record.
func BuildCursorPageInfo[T any](items []T, pageSize int32, tokenOf func(T) string) *PageInfo {
	info := &PageInfo{}
	if pageSize <= 0 || len(items) <= int(pageSize) {
		return info
	}
	info.HasMore = true
	last := items[pageSize-1]
	info.NextPageToken = tokenOf(last)
	return info
}
