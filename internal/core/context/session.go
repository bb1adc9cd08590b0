package context

import (
	"context"
)

// SessionContext identifies the POS terminal session a request belongs to.
// Margin settings are fetched once per session and stay read-only for its
// duration, so the session id is the cache key for pricing configuration.
type SessionContext struct {
	SessionID  string
	TerminalID string
	OperatorID string
}

type sessionContextKey struct{}

// WithSession adds SessionContext to context.
func WithSession(ctx context.Context, s *SessionContext) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// GetSession returns SessionContext from context.
func GetSession(ctx context.Context) *SessionContext {
	if v, ok := ctx.Value(sessionContextKey{}).(*SessionContext); ok {
		return v
	}
	return nil
}

// GetSessionID returns session ID from context or empty string.
func GetSessionID(ctx context.Context) string {
	if s := GetSession(ctx); s != nil {
		return s.SessionID
	}
	return ""
}
