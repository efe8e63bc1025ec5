package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionIDKey is the gin context key the chat handlers read.
const SessionIDKey = "sessionID"

// EnsureSession makes sure every chat request carries a session id. An
// existing cookie wins; otherwise a fresh uuid is issued and set as an
// HttpOnly cookie so the browser keeps the same conversation across turns.
// Clients that manage their own ids (the websocket client, tests) can still
// send session_id in the request body, which takes precedence in the handler.
func EnsureSession(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(cookieName, sessionID, 0, "/", "", false, true)
		}
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}
