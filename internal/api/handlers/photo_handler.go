package handlers

import (
	"errors"
	"fmt"
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
// Photo Handler
// ============================================

// PhotoHandler serves the photo grids. The same operations back three
// pages: the global browse gallery, each event's photo grid, and the
// my-clicks view; routes differ only in which gallery they resolve.
type PhotoHandler struct {
	manager *session.Manager
	hub     *notify.Hub

	// MaxUploadBytes caps one staged file. Zero means no cap.
	MaxUploadBytes int64
}

type photoFiltersRequest struct {
	Search     string `json:"search"`
	Ordering   string `json:"ordering"`
	DateAfter  string `json:"dateAfter"`
	DateBefore string `json:"dateBefore"`
}

// galleryResolver picks the gallery a route operates on.
type galleryResolver func(c *gin.Context, sess *session.Session) (*state.Gallery, bool)

func browseGallery(c *gin.Context, sess *session.Session) (*state.Gallery, bool) {
	return sess.BrowseGallery(), true
}

func activityGallery(c *gin.Context, sess *session.Session) (*state.Gallery, bool) {
	return sess.ActivityGallery(), true
}

func eventGallery(c *gin.Context, sess *session.Session) (*state.Gallery, bool) {
	id, ok := eventID(c)
	if !ok {
		return nil, false
	}
	return sess.EventGallery(id), true
}

func galleryResponse(g *state.Gallery) gin.H {
	body := listResponse(g.Photos(), g.Count(), g.HasMore(), g.Err())
	body["filter_applied"] = g.FilterApplied()
	body["selection"] = g.SelectedIDs()
	body["selection_mode"] = g.SelectionMode()
	return body
}

func (h *PhotoHandler) load(resolve galleryResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.GetSession(c)
		g, ok := resolve(c, sess)
		if !ok {
			return
		}
		if err := g.Load(c.Request.Context()); err != nil {
			fail(c, h.hub, sess, err)
			return
		}
		c.JSON(http.StatusOK, galleryResponse(g))
	}
}

func (h *PhotoHandler) setFilters(resolve galleryResolver, base func(c *gin.Context) gateway.PhotoQuery) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.GetSession(c)
		g, ok := resolve(c, sess)
		if !ok {
			return
		}

		var req photoFiltersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Ordering != "" && !types.IsValidPhotoOrdering(req.Ordering) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ordering"})
			return
		}

		q := base(c)
		q.Search = req.Search
		q.Ordering = req.Ordering
		q.DateAfter = req.DateAfter
		q.DateBefore = req.DateBefore

		if err := g.ApplyFilters(c.Request.Context(), q); err != nil {
			fail(c, h.hub, sess, err)
			return
		}
		c.JSON(http.StatusOK, galleryResponse(g))
	}
}

func (h *PhotoHandler) resetFilters(resolve galleryResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.GetSession(c)
		g, ok := resolve(c, sess)
		if !ok {
			return
		}
		if err := g.Reset(c.Request.Context()); err != nil {
			fail(c, h.hub, sess, err)
			return
		}
		c.JSON(http.StatusOK, galleryResponse(g))
	}
}

func (h *PhotoHandler) loadMore(resolve galleryResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.GetSession(c)
		g, ok := resolve(c, sess)
		if !ok {
			return
		}
		loaded, err := g.LoadMore(c.Request.Context())
		if err != nil {
			fail(c, h.hub, sess, err)
			return
		}
		body := galleryResponse(g)
		body["loaded"] = loaded
		c.JSON(http.StatusOK, body)
	}
}

func photoIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("photoID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photo id"})
		return 0, false
	}
	return id, true
}

func (h *PhotoHandler) toggleLike(resolve galleryResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.GetSession(c)
		g, ok := resolve(c, sess)
		if !ok {
			return
		}
		id, ok := photoIDParam(c)
		if !ok {
			return
		}

		status, applied, err := g.ToggleLike(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, state.ErrUnknownPhoto) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Photo not in gallery"})
				return
			}
			// Rolled back already; report the failure with the restored state.
			toast(h.hub, sess, kindFor(err), messageFor(err))
			c.JSON(http.StatusOK, gin.H{"liked": status.Liked, "likes": status.Likes, "applied": false, "error": messageFor(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"liked": status.Liked, "likes": status.Likes, "applied": applied})
	}
}

func (h *PhotoHandler) toggleSelect(resolve galleryResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.GetSession(c)
		g, ok := resolve(c, sess)
		if !ok {
			return
		}
		id, ok := photoIDParam(c)
		if !ok {
			return
		}

		selected := g.ToggleSelect(id)
		c.JSON(http.StatusOK, gin.H{
			"selected":       selected,
			"selection":      g.SelectedIDs(),
			"selection_mode": g.SelectionMode(),
		})
	}
}

func (h *PhotoHandler) clearSelection(resolve galleryResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.GetSession(c)
		g, ok := resolve(c, sess)
		if !ok {
			return
		}
		g.ClearSelection()
		c.JSON(http.StatusOK, gin.H{"selection": []int{}, "selection_mode": false})
	}
}

func (h *PhotoHandler) deleteSelected(resolve galleryResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.GetSession(c)
		g, ok := resolve(c, sess)
		if !ok {
			return
		}

		result, err := g.DeleteSelected(c.Request.Context())
		if err != nil {
			fail(c, h.hub, sess, err)
			return
		}

		if len(result.SkippedNoPermission) > 0 {
			toast(h.hub, sess, notify.KindValidation,
				fmt.Sprintf("%d photos deleted, %d skipped (no permission)", len(result.Deleted), len(result.SkippedNoPermission)))
		} else if len(result.Deleted) > 0 {
			toast(h.hub, sess, notify.KindSuccess, fmt.Sprintf("%d photos deleted", len(result.Deleted)))
		}

		body := galleryResponse(g)
		body["deleted"] = result.Deleted
		body["skipped_no_permission"] = result.SkippedNoPermission
		c.JSON(http.StatusOK, body)
	}
}

// Route bindings per scope. gin handlers are produced once at router build
// time.

func (h *PhotoHandler) BrowseLoad() gin.HandlerFunc    { return h.load(browseGallery) }
func (h *PhotoHandler) BrowseMore() gin.HandlerFunc    { return h.loadMore(browseGallery) }
func (h *PhotoHandler) BrowseReset() gin.HandlerFunc   { return h.resetFilters(browseGallery) }
func (h *PhotoHandler) BrowseLike() gin.HandlerFunc    { return h.toggleLike(browseGallery) }
func (h *PhotoHandler) BrowseSelect() gin.HandlerFunc  { return h.toggleSelect(browseGallery) }
func (h *PhotoHandler) BrowseClear() gin.HandlerFunc   { return h.clearSelection(browseGallery) }
func (h *PhotoHandler) BrowseDelete() gin.HandlerFunc  { return h.deleteSelected(browseGallery) }
func (h *PhotoHandler) BrowseFilters() gin.HandlerFunc {
	return h.setFilters(browseGallery, func(c *gin.Context) gateway.PhotoQuery {
		return gateway.PhotoQuery{}
	})
}

func (h *PhotoHandler) EventLoad() gin.HandlerFunc   { return h.load(eventGallery) }
func (h *PhotoHandler) EventMore() gin.HandlerFunc   { return h.loadMore(eventGallery) }
func (h *PhotoHandler) EventReset() gin.HandlerFunc  { return h.resetFilters(eventGallery) }
func (h *PhotoHandler) EventLike() gin.HandlerFunc   { return h.toggleLike(eventGallery) }
func (h *PhotoHandler) EventSelect() gin.HandlerFunc { return h.toggleSelect(eventGallery) }
func (h *PhotoHandler) EventClear() gin.HandlerFunc  { return h.clearSelection(eventGallery) }
func (h *PhotoHandler) EventDelete() gin.HandlerFunc { return h.deleteSelected(eventGallery) }
func (h *PhotoHandler) EventFilters() gin.HandlerFunc {
	return h.setFilters(eventGallery, func(c *gin.Context) gateway.PhotoQuery {
		id, _ := strconv.Atoi(c.Param("id"))
		return gateway.PhotoQuery{EventID: id}
	})
}

func (h *PhotoHandler) ActivityLoad() gin.HandlerFunc { return h.load(activityGallery) }
func (h *PhotoHandler) ActivityMore() gin.HandlerFunc { return h.loadMore(activityGallery) }
func (h *PhotoHandler) ActivityLike() gin.HandlerFunc { return h.toggleLike(activityGallery) }

// ============================================
// Upload Batch
// ============================================

func (h *PhotoHandler) batch(c *gin.Context) (*session.Session, *state.UploadBatch, int, bool) {
	sess := middleware.GetSession(c)
	id, ok := eventID(c)
	if !ok {
		return nil, nil, 0, false
	}
	return sess, sess.UploadBatch(id), id, true
}

// AddFiles stages the uploaded files and kicks off auto-tagging for each.
func (h *PhotoHandler) AddFiles(c *gin.Context) {
	_, batch, _, ok := h.batch(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}

	files := make([]state.FileUpload, 0, len(headers))
	for _, header := range headers {
		if h.MaxUploadBytes > 0 && header.Size > h.MaxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("%s is too large", header.Filename)})
			return
		}
		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
			return
		}
		files = append(files, state.FileUpload{Name: header.Filename, Data: data})
	}

	added := batch.AddFiles(files)
	c.JSON(http.StatusOK, gin.H{"added": added, "drafts": batch.Drafts()})
}

// Drafts returns the staged files, tagging progress included.
func (h *PhotoHandler) Drafts(c *gin.Context) {
	_, batch, _, ok := h.batch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": batch.Drafts()})
}

// UpdateDraft edits one staged file's caption or tags.
func (h *PhotoHandler) UpdateDraft(c *gin.Context) {
	_, batch, _, ok := h.batch(c)
	if !ok {
		return
	}

	var req models.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := batch.UpdateDraft(c.Param("draftID"), req.PhotoDesc, req.ExtractedTags)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// RemoveDraft drops one staged file.
func (h *PhotoHandler) RemoveDraft(c *gin.Context) {
	_, batch, _, ok := h.batch(c)
	if !ok {
		return
	}
	if err := batch.RemoveDraft(c.Param("draftID")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": batch.Drafts()})
}

// Preview serves a thumbnail of one staged file.
func (h *PhotoHandler) Preview(c *gin.Context) {
	_, batch, _, ok := h.batch(c)
	if !ok {
		return
	}
	thumb, err := batch.Preview(c.Param("draftID"))
	if err != nil {
		if errors.Is(err, state.ErrUnknownDraft) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Not a decodable image"})
		return
	}
	c.Data(http.StatusOK, "image/jpeg", thumb)
}

// Submit sends the whole batch in one request. On failure the drafts stay
// staged so the user can retry.
func (h *PhotoHandler) Submit(c *gin.Context) {
	sess, batch, eventID, ok := h.batch(c)
	if !ok {
		return
	}

	if err := batch.Submit(c.Request.Context()); err != nil {
		switch {
		case errors.Is(err, state.ErrEmptyBatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No files staged for upload"})
		case errors.Is(err, state.ErrUploadInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": "Upload already in progress"})
		default:
			fail(c, h.hub, sess, err)
		}
		return
	}

	sess.DropUploadBatch(eventID)
	toast(h.hub, sess, notify.KindSuccess, "Photos uploaded")
	c.JSON(http.StatusCreated, gin.H{"uploaded": true})
}

// DiscardBatch throws away every staged file for the event.
func (h *PhotoHandler) DiscardBatch(c *gin.Context) {
	sess, _, eventID, ok := h.batch(c)
	if !ok {
		return
	}
	sess.DropUploadBatch(eventID)
	c.JSON(http.StatusOK, gin.H{"drafts": []state.Draft{}})
}
