package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/session"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "keepevents_session"

const sessionKey = "session"

// SessionMiddleware resolves the session cookie and puts the live session
// on the context. Requests without a valid session get a 401 with a
// redirect hint for the login page.
func SessionMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			log.Printf("❌ [Auth] Missing session cookie - Path: %s", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session required", "redirect": "/"})
			c.Abort()
			return
		}

		sess, err := manager.Get(c.Request.Context(), token)
		if err != nil {
			log.Printf("❌ [Auth] Invalid session - Path: %s, Error: %v", c.Request.URL.Path, err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session", "redirect": "/"})
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// GetSession returns the session placed on the context by
// SessionMiddleware, or nil.
func GetSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, ok := v.(*session.Session)
	if !ok {
		return nil
	}
	return sess
}
