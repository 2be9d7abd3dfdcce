package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/api/middleware"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/notify"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/session"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/state"
)

// ============================================
// User Handler (profile page)
// ============================================

type UserHandler struct {
	manager *session.Manager
	hub     *notify.Hub
}

// profileFields builds the editor's confirmed values from the session user.
func profileFields(u *models.User) map[string]string {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	num := func(p *int) string {
		if p == nil {
			return ""
		}
		return strconv.Itoa(*p)
	}
	return map[string]string{
		"username":     u.Username,
		"userbio":      deref(u.UserBio),
		"dept":         deref(u.Dept),
		"batch":        num(u.Batch),
		"enrollmentNo": num(u.EnrollmentNo),
		"userProfile":  deref(u.UserProfile),
	}
}

// StartEditor opens a fresh profile editor seeded from the session user,
// replacing any stale one.
func (h *UserHandler) StartEditor(c *gin.Context) {
	sess := middleware.GetSession(c)
	user, ok := h.currentUser(c, sess)
	if !ok {
		return
	}

	editor := state.NewDraftEditor(profileFields(user))
	sess.SetProfileEditor(editor)
	c.JSON(http.StatusOK, editor.View())
}

// currentUser returns the session's identity, fetching it once from the
// backend for sessions restored after a restart.
func (h *UserHandler) currentUser(c *gin.Context, sess *session.Session) (*models.User, bool) {
	if user := sess.User(); user != nil {
		return user, true
	}
	user, err := sess.API.Me(c.Request.Context())
	if err != nil {
		fail(c, h.hub, sess, err)
		return nil, false
	}
	sess.SetUser(user)
	return user, true
}

// editor fetches the open profile editor or 409s.
func (h *UserHandler) editor(c *gin.Context) *state.DraftEditor {
	sess := middleware.GetSession(c)
	editor := sess.ProfileEditor()
	if editor == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Profile editor not open"})
		return nil
	}
	return editor
}

// Editor returns the current editor snapshot.
func (h *UserHandler) Editor(c *gin.Context) {
	editor := h.editor(c)
	if editor == nil {
		return
	}
	c.JSON(http.StatusOK, editor.View())
}

// EditField marks one field as being edited.
func (h *UserHandler) EditField(c *gin.Context) {
	editor := h.editor(c)
	if editor == nil {
		return
	}

	var req models.EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := editor.StartEdit(req.Field); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, editor.View())
}

// ChangeField writes one draft value.
func (h *UserHandler) ChangeField(c *gin.Context) {
	editor := h.editor(c)
	if editor == nil {
		return
	}

	var req models.EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := editor.ChangeField(req.Field, req.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, editor.View())
}

// RevertField restores one field's confirmed value.
func (h *UserHandler) RevertField(c *gin.Context) {
	editor := h.editor(c)
	if editor == nil {
		return
	}

	var req models.EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := editor.RevertField(req.Field); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, editor.View())
}

// StageImage stages a new profile picture in the draft. Nothing is
// uploaded until the save.
func (h *UserHandler) StageImage(c *gin.Context) {
	editor := h.editor(c)
	if editor == nil {
		return
	}

	file, header, err := c.Request.FormFile("userProfile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userProfile file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	img := state.StagedImage{Field: "userProfile", FileName: header.Filename, Data: data}
	if err := editor.StageImage(img, header.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, editor.View())
}

// DiscardAll throws away every pending change.
func (h *UserHandler) DiscardAll(c *gin.Context) {
	editor := h.editor(c)
	if editor == nil {
		return
	}
	editor.DiscardAll()
	c.JSON(http.StatusOK, editor.View())
}

// Save persists the whole draft in one go: the staged picture first, then
// the text fields, and refreshes the session user from the response.
func (h *UserHandler) Save(c *gin.Context) {
	sess := middleware.GetSession(c)
	editor := h.editor(c)
	if editor == nil {
		return
	}
	user, ok := h.currentUser(c, sess)
	if !ok {
		return
	}

	saveErr := editor.SaveAll(c.Request.Context(), func(ctx context.Context, fields map[string]string, image *state.StagedImage) (map[string]string, error) {
		if image != nil {
			if _, err := sess.API.UpdateUserImage(ctx, user.UserID, image.FileName, image.Data); err != nil {
				return nil, err
			}
		}

		payload := make(map[string]any, len(fields))
		for k, v := range fields {
			switch k {
			case "userProfile":
				// The picture only travels in its own multipart request.
			case "enrollmentNo", "batch":
				if n, err := strconv.Atoi(v); err == nil {
					payload[k] = n
				}
			default:
				payload[k] = v
			}
		}

		updated, err := sess.API.UpdateUser(ctx, user.UserID, payload)
		if err != nil {
			return nil, err
		}
		sess.SetUser(updated)
		return profileFields(updated), nil
	})

	if saveErr != nil {
		fail(c, h.hub, sess, saveErr)
		return
	}

	toast(h.hub, sess, notify.KindSuccess, "Profile updated")
	c.JSON(http.StatusOK, gin.H{"user": sess.User(), "editor": editor.View()})
}
