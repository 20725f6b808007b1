package logging

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	viewIDKey contextKey = "view_id"
	docKeyKey contextKey = "doc_key"
)

// NewViewID returns a fresh identifier for one reader view.
func NewViewID() string {
	return uuid.NewString()
}

// WithViewID adds a reader view ID to the context.
func WithViewID(ctx context.Context, viewID string) context.Context {
	return context.WithValue(ctx, viewIDKey, viewID)
}

// WithDocKey adds the cache key of the document being read to the context.
func WithDocKey(ctx context.Context, docKey string) context.Context {
	return context.WithValue(ctx, docKeyKey, docKey)
}

// GetViewID retrieves the view ID from the context.
// Returns empty string if not present.
func GetViewID(ctx context.Context) string {
	if id, ok := ctx.Value(viewIDKey).(string); ok {
		return id
	}
	return ""
}

// GetDocKey retrieves the document key from the context.
// Returns empty string if not present.
func GetDocKey(ctx context.Context) string {
	if key, ok := ctx.Value(docKeyKey).(string); ok {
		return key
	}
	return ""
}
