package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/api/middleware"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/notify"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/session"
)

// ============================================
// Comment Handler (per-photo feeds)
// ============================================

type CommentHandler struct {
	manager *session.Manager
	hub     *notify.Hub
}

// List loads (or reloads) one photo's comment feed, newest first.
func (h *CommentHandler) List(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := photoIDParam(c)
	if !ok {
		return
	}

	comments := sess.Comments(id)
	if err := comments.Load(c.Request.Context()); err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(comments.Items(), comments.Count(), comments.HasMore(), comments.Err()))
}

// LoadMore appends the next page of comments.
func (h *CommentHandler) LoadMore(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := photoIDParam(c)
	if !ok {
		return
	}

	comments := sess.Comments(id)
	loaded, err := comments.LoadMore(c.Request.Context())
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	body := listResponse(comments.Items(), comments.Count(), comments.HasMore(), comments.Err())
	body["loaded"] = loaded
	c.JSON(http.StatusOK, body)
}

// Add posts a comment and reloads the feed so it shows at the top.
func (h *CommentHandler) Add(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := photoIDParam(c)
	if !ok {
		return
	}

	var req struct {
		CommentText string `json:"commentText" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := sess.API.AddComment(c.Request.Context(), id, req.CommentText)
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}

	comments := sess.Comments(id)
	if err := comments.Load(c.Request.Context()); err != nil {
		// The comment went through; the stale feed is the lesser problem.
		c.JSON(http.StatusCreated, gin.H{"comment": comment})
		return
	}

	body := listResponse(comments.Items(), comments.Count(), comments.HasMore(), comments.Err())
	body["comment"] = comment
	c.JSON(http.StatusCreated, body)
}

// Delete removes one of the user's own comments.
func (h *CommentHandler) Delete(c *gin.Context) {
	sess := middleware.GetSession(c)
	commentID, err := strconv.Atoi(c.Param("commentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment id"})
		return
	}

	if err := sess.API.DeleteComment(c.Request.Context(), commentID); err != nil {
		fail(c, h.hub, sess, err)
		return
	}

	toast(h.hub, sess, notify.KindSuccess, "Comment deleted")
	c.JSON(http.StatusOK, gin.H{"deleted": commentID})
}

// Likes loads one photo's like feed, newest first.
func (h *CommentHandler) Likes(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := photoIDParam(c)
	if !ok {
		return
	}

	likes := sess.Likes(id)
	if err := likes.Load(c.Request.Context()); err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(likes.Items(), likes.Count(), likes.HasMore(), likes.Err()))
}

// MoreLikes appends the next page of the like feed.
func (h *CommentHandler) MoreLikes(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := photoIDParam(c)
	if !ok {
		return
	}

	likes := sess.Likes(id)
	loaded, err := likes.LoadMore(c.Request.Context())
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	body := listResponse(likes.Items(), likes.Count(), likes.HasMore(), likes.Err())
	body["loaded"] = loaded
	c.JSON(http.StatusOK, body)
}
