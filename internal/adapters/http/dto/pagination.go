package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// DefaultLimit is the page size used when the caller does not ask for one.
	DefaultLimit = 20
	// MaxLimit caps the page size a caller may request.
	MaxLimit = 100
)

var (
	// ErrInvalidCursor reports a cursor that could not be decoded.
	ErrInvalidCursor = errors.New("invalid pagination cursor")
	// ErrNoCursor reports a request without a cursor, i.e. the first page.
	ErrNoCursor = errors.New("no cursor provided")
)

// PaginationRequest carries the cursor-based paging parameters shared by the
// list endpoints.
type PaginationRequest struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the effective page size, clamped to [1, MaxLimit].
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	if p.Limit > MaxLimit {
		return MaxLimit
	}
	return p.Limit
}

// DecodeCursor unpacks the request cursor. ErrNoCursor means the caller wants
// the first page.
func (p *PaginationRequest) DecodeCursor() (*CursorData, error) {
	return DecodeCursor(p.Cursor)
}

// PaginatedResponse wraps one page of items with the cursor for the next one.
type PaginatedResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// NewPaginatedResponse builds a page from a slice fetched with limit+1 items.
// The extra item, when present, signals another page and is trimmed off; the
// cursor for it comes from cursorBuilder applied to the last retained item.
func NewPaginatedResponse[T any](items []T, limit int, cursorBuilder func(T) *CursorData) *PaginatedResponse[T] {
	resp := &PaginatedResponse[T]{Items: items}
	if len(items) > limit {
		resp.Items = items[:limit]
		resp.HasMore = true
		if cursorBuilder != nil {
			resp.NextCursor = EncodeCursor(cursorBuilder(resp.Items[limit-1]))
		}
	}
	return resp
}

// EmptyPaginatedResponse builds a page with no items.
func EmptyPaginatedResponse[T any]() *PaginatedResponse[T] {
	return &PaginatedResponse[T]{Items: []T{}}
}

// CursorData identifies the position after the last item of a page. Field and
// Value name the sort key; ID breaks ties between equal sort values.
type CursorData struct {
	Field string `json:"f"`
	Value string `json:"v"`
	ID    string `json:"id"`
}

// NewCursor builds cursor data for a sort position.
func NewCursor(field, value, id string) *CursorData {
	return &CursorData{Field: field, Value: value, ID: id}
}

// EncodeCursor serializes cursor data into an opaque URL-safe token. A nil
// cursor encodes to the empty string.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}
	// CursorData is three plain strings; marshalling cannot fail.
	raw, _ := json.Marshal(data)
	return base64.URLEncoding.EncodeToString(raw)
}

// DecodeCursor parses an opaque token back into cursor data. An empty token
// yields ErrNoCursor.
func DecodeCursor(cursor string) (*CursorData, error) {
	if cursor == "" {
		return nil, ErrNoCursor
	}
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	var data CursorData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return &data, nil
}
