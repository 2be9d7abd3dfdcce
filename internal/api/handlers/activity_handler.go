package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/api/middleware"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/notify"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/session"
)

// ============================================
// Activity Handler (my-clicks page)
// ============================================

type ActivityHandler struct {
	manager *session.Manager
	hub     *notify.Hub
}

// Summary returns the user's aggregates: top tags, top locations, the
// biggest events and overall counters.
func (h *ActivityHandler) Summary(c *gin.Context) {
	sess := middleware.GetSession(c)

	summary, err := sess.API.ActivitySummary(c.Request.Context())
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
