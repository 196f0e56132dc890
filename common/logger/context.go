package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
type LogFields struct {
	ProjectID    *int64  // Project (graph context) the request operates on
	SuggestionID *int64  // Suggestion being reviewed or merged
	ActorID      *int64  // Actor a path/neighbor query is anchored on
	MessageID    *string // Redis stream message ID
	RequestID    *string // HTTP request ID
	Component    string  // e.g. "atlas.worker.reclaimer"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.ProjectID != nil {
		result.ProjectID = new.ProjectID
	}
	if new.SuggestionID != nil {
		result.SuggestionID = new.SuggestionID
	}
	if new.ActorID != nil {
		result.ActorID = new.ActorID
	}
	if new.MessageID != nil {
		result.MessageID = new.MessageID
	}
	if new.RequestID != nil {
		result.RequestID = new.RequestID
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

func (f LogFields) attrs() []slog.Attr {
	var attrs []slog.Attr
	if f.ProjectID != nil {
		attrs = append(attrs, slog.Int64("project_id", *f.ProjectID))
	}
	if f.SuggestionID != nil {
		attrs = append(attrs, slog.Int64("suggestion_id", *f.SuggestionID))
	}
	if f.ActorID != nil {
		attrs = append(attrs, slog.Int64("actor_id", *f.ActorID))
	}
	if f.MessageID != nil {
		attrs = append(attrs, slog.String("message_id", *f.MessageID))
	}
	if f.RequestID != nil {
		attrs = append(attrs, slog.String("request_id", *f.RequestID))
	}
	if f.Component != "" {
		attrs = append(attrs, slog.String("component", f.Component))
	}
	return attrs
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{ProjectID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate shortens s to at most maxLen runes, appending "..." if cut.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
