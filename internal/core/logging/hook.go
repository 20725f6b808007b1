package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts view_id and doc_key from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if viewID := GetViewID(ctx); viewID != "" {
		e.Str("view_id", viewID)
	}

	if docKey := GetDocKey(ctx); docKey != "" {
		e.Str("doc_key", docKey)
	}
}
