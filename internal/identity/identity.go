// Package identity carries the caller's user and session ids through a
// request context and derives a request-scoped logger from them.
package identity

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	// DefaultSessionIDValue is used when a request carries no usable session id.
	DefaultSessionIDValue = "default"
)

type contextKey int

const (
	userIDKey contextKey = iota
	sessionIDKey
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,256}$`)

// WithUser stores the user and session ids in ctx.
func WithUser(ctx context.Context, userID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, sessionIDKey, SanitizeSessionID(sessionID))
}

// UserIDFromContext extracts the user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// SessionIDFromContext extracts the session ID from the request context.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return DefaultSessionIDValue
}

// SanitizeSessionID returns id, or DefaultSessionIDValue when id is empty or
// contains characters unfit for logs and storage keys.
func SanitizeSessionID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || !sessionIDPattern.MatchString(id) {
		return DefaultSessionIDValue
	}
	return id
}

// LoggerFromContext returns the default logger annotated with whatever
// request, user and session ids ctx carries.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if reqID := chiMiddleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if userID := UserIDFromContext(ctx); userID != "" {
		logger = logger.With("user_id", userID)
	}
	if sid, ok := ctx.Value(sessionIDKey).(string); ok {
		logger = logger.With("session_id", sid)
	}
	return logger
}
