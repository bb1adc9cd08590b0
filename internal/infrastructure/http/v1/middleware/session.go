package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appctx "tilepos/internal/core/context"
)

const (
	HeaderSessionID  = "X-Session-ID"
	HeaderTerminalID = "X-Terminal-ID"
	HeaderOperatorID = "X-Operator-ID"
)

// Session middleware binds the POS session to the request context.
// The terminal sends its session and terminal identifiers on every call;
// a missing session ID gets one generated so journal entries always have
// a session to attach to.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(HeaderSessionID)
		if sessionID == "" {
			sessionID = uuid.New().String()
		}

		session := &appctx.SessionContext{
			SessionID:  sessionID,
			TerminalID: c.GetHeader(HeaderTerminalID),
			OperatorID: c.GetHeader(HeaderOperatorID),
		}

		ctx := appctx.WithSession(c.Request.Context(), session)
		c.Request = c.Request.WithContext(ctx)

		c.Header(HeaderSessionID, sessionID)

		c.Next()
	}
}
