package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/api/middleware"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/gateway"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/notify"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/session"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/state"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/types"
)

// ============================================
// Event Handler
// ============================================

type EventHandler struct {
	manager *session.Manager
	hub     *notify.Hub
}

type eventFiltersRequest struct {
	Search    string   `json:"search"`
	Ordering  string   `json:"ordering"`
	Locations []string `json:"locations"`
	DateFrom  string   `json:"dateFrom"`
	DateTo    string   `json:"dateTo"`
}

func eventID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return 0, false
	}
	return id, true
}

// listResponse is the common shape for the incremental list pages.
func listResponse[T any](items []T, count int, hasMore bool, loadErr string) gin.H {
	body := gin.H{
		"results":  items,
		"count":    count,
		"has_more": hasMore,
	}
	if loadErr != "" {
		body["load_error"] = loadErr
	}
	return body
}

// List loads (or reloads) the home page's event list.
func (h *EventHandler) List(c *gin.Context) {
	sess := middleware.GetSession(c)
	events := sess.Events()

	if err := events.Load(c.Request.Context()); err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(events.Items(), events.Count(), events.HasMore(), events.Err()))
}

// SetFilters applies search and filter criteria and reloads from the top.
func (h *EventHandler) SetFilters(c *gin.Context) {
	sess := middleware.GetSession(c)

	var req eventFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Ordering != "" && !types.IsValidEventOrdering(req.Ordering) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ordering"})
		return
	}

	sess.SetEventQuery(gateway.EventQuery{
		Search:    req.Search,
		Ordering:  req.Ordering,
		Locations: req.Locations,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
	})

	events := sess.Events()
	if err := events.Load(c.Request.Context()); err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(events.Items(), events.Count(), events.HasMore(), events.Err()))
}

// ResetFilters clears the filters and reloads.
func (h *EventHandler) ResetFilters(c *gin.Context) {
	sess := middleware.GetSession(c)
	sess.ResetEventQuery()

	events := sess.Events()
	if err := events.Load(c.Request.Context()); err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(events.Items(), events.Count(), events.HasMore(), events.Err()))
}

// LoadMore appends the next page, if there is one.
func (h *EventHandler) LoadMore(c *gin.Context) {
	sess := middleware.GetSession(c)
	events := sess.Events()

	loaded, err := events.LoadMore(c.Request.Context())
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	body := listResponse(events.Items(), events.Count(), events.HasMore(), events.Err())
	body["loaded"] = loaded
	c.JSON(http.StatusOK, body)
}

// Create makes a new event. The form never offers private visibility.
func (h *EventHandler) Create(c *gin.Context) {
	sess := middleware.GetSession(c)

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !types.IsCreateVisibility(req.Visibility) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid visibility"})
		return
	}

	event, err := sess.API.CreateEvent(c.Request.Context(), req)
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}

	toast(h.hub, sess, notify.KindSuccess, "Event created")
	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// Get returns one event's detail.
func (h *EventHandler) Get(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := eventID(c)
	if !ok {
		return
	}

	event, err := sess.API.GetEvent(c.Request.Context(), id)
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	canManage := event.MyRole == types.MyRoleOwner || event.MyRole == types.MyRoleEditor
	c.JSON(http.StatusOK, gin.H{"event": event, "can_manage": canManage})
}

// ============================================
// Event Settings Editor
// ============================================

func eventFields(e *models.Event) map[string]string {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	return map[string]string{
		"eventname":       e.EventName,
		"eventdesc":       deref(e.EventDesc),
		"eventlocation":   deref(e.EventLocation),
		"eventdate":       deref(e.EventDate),
		"eventtime":       deref(e.EventTime),
		"visibility":      e.Visibility,
		"eventCoverPhoto": deref(e.EventCoverPhotoURL),
	}
}

// StartEditor opens the settings editor for an event, seeded from a fresh
// fetch of its current values.
func (h *EventHandler) StartEditor(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := eventID(c)
	if !ok {
		return
	}

	event, err := sess.API.GetEvent(c.Request.Context(), id)
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}

	editor := state.NewDraftEditor(eventFields(event))
	sess.SetEventEditor(id, editor)
	c.JSON(http.StatusOK, editor.View())
}

func (h *EventHandler) editor(c *gin.Context) (*state.DraftEditor, int) {
	sess := middleware.GetSession(c)
	id, ok := eventID(c)
	if !ok {
		return nil, 0
	}
	editor := sess.EventEditor(id)
	if editor == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Event editor not open"})
		return nil, 0
	}
	return editor, id
}

// Editor returns the current editor snapshot.
func (h *EventHandler) Editor(c *gin.Context) {
	editor, _ := h.editor(c)
	if editor == nil {
		return
	}
	c.JSON(http.StatusOK, editor.View())
}

// EditField marks one field as being edited.
func (h *EventHandler) EditField(c *gin.Context) {
	editor, _ := h.editor(c)
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

// ChangeField writes one draft value. Visibility changes may use any of
// the four levels here, private included.
func (h *EventHandler) ChangeField(c *gin.Context) {
	editor, _ := h.editor(c)
	if editor == nil {
		return
	}

	var req models.EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Field == "visibility" && !types.IsValidVisibility(req.Value) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid visibility"})
		return
	}
	if err := editor.ChangeField(req.Field, req.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, editor.View())
}

// RevertField restores one field's confirmed value.
func (h *EventHandler) RevertField(c *gin.Context) {
	editor, _ := h.editor(c)
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

// StageCover stages a replacement cover photo in the draft.
func (h *EventHandler) StageCover(c *gin.Context) {
	editor, _ := h.editor(c)
	if editor == nil {
		return
	}

	file, header, err := c.Request.FormFile("eventCoverPhoto")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing eventCoverPhoto file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	img := state.StagedImage{Field: "eventCoverPhoto", FileName: header.Filename, Data: data}
	if err := editor.StageImage(img, header.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, editor.View())
}

// DiscardAll throws away every pending change.
func (h *EventHandler) DiscardAll(c *gin.Context) {
	editor, _ := h.editor(c)
	if editor == nil {
		return
	}
	editor.DiscardAll()
	c.JSON(http.StatusOK, editor.View())
}

// Save persists the whole draft: staged cover first, then the text fields.
func (h *EventHandler) Save(c *gin.Context) {
	sess := middleware.GetSession(c)
	editor, id := h.editor(c)
	if editor == nil {
		return
	}

	saveErr := editor.SaveAll(c.Request.Context(), func(ctx context.Context, fields map[string]string, image *state.StagedImage) (map[string]string, error) {
		if image != nil {
			if _, err := sess.API.UpdateEventCover(ctx, id, image.FileName, image.Data); err != nil {
				return nil, err
			}
		}

		payload := make(map[string]any, len(fields))
		for k, v := range fields {
			if k == "eventCoverPhoto" {
				// The cover only travels in its own multipart request.
				continue
			}
			payload[k] = v
		}
		updated, err := sess.API.UpdateEvent(ctx, id, payload)
		if err != nil {
			return nil, err
		}
		return eventFields(updated), nil
	})

	if saveErr != nil {
		fail(c, h.hub, sess, saveErr)
		return
	}

	toast(h.hub, sess, notify.KindSuccess, "Event updated")
	c.JSON(http.StatusOK, editor.View())
}

// ============================================
// Collaborators
// ============================================

// Viewers lists the event's viewers.
func (h *EventHandler) Viewers(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := eventID(c)
	if !ok {
		return
	}

	users, err := sess.API.EventViewers(c.Request.Context(), id)
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"viewers": users})
}

// Editors lists the event's editors.
func (h *EventHandler) Editors(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := eventID(c)
	if !ok {
		return
	}

	users, err := sess.API.EventEditors(c.Request.Context(), id)
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"editors": users})
}

// RemoveViewer revokes one user's viewer access.
func (h *EventHandler) RemoveViewer(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := eventID(c)
	if !ok {
		return
	}
	userID, err := strconv.Atoi(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if err := sess.API.RemoveEventViewer(c.Request.Context(), id, userID); err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	toast(h.hub, sess, notify.KindSuccess, "Viewer removed")
	c.JSON(http.StatusOK, gin.H{"removed": userID})
}

// RemoveEditor revokes one user's editor access.
func (h *EventHandler) RemoveEditor(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := eventID(c)
	if !ok {
		return
	}
	userID, err := strconv.Atoi(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if err := sess.API.RemoveEventEditor(c.Request.Context(), id, userID); err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	toast(h.hub, sess, notify.KindSuccess, "Editor removed")
	c.JSON(http.StatusOK, gin.H{"removed": userID})
}

// CreateInvite mints a share link granting viewer or editor access.
func (h *EventHandler) CreateInvite(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req models.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !types.IsValidInviteRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	invite, err := sess.API.CreateInvite(c.Request.Context(), id, req.Role, req.ExpiresAt)
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}

	toast(h.hub, sess, notify.KindSuccess, "Invite link created")
	c.JSON(http.StatusCreated, invite)
}

// AcceptInvite redeems an invite token and reports where to go next.
func (h *EventHandler) AcceptInvite(c *gin.Context) {
	sess := middleware.GetSession(c)

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acc, err := sess.API.AcceptInvite(c.Request.Context(), req.Token)
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}

	toast(h.hub, sess, notify.KindSuccess, "Invite accepted")
	c.JSON(http.StatusOK, acc)
}

// DeclineInvite dismisses an invite without redeeming the token. The backend
// never learns about it, the link stays valid until it expires.
func (h *EventHandler) DeclineInvite(c *gin.Context) {
	sess := middleware.GetSession(c)

	toast(h.hub, sess, notify.KindInfo, "Invite declined")
	c.JSON(http.StatusOK, gin.H{"declined": true, "redirect": "/events"})
}
