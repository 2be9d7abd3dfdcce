package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/gateway"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/notify"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/session"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Event    *EventHandler
	Photo    *PhotoHandler
	Comment  *CommentHandler
	Activity *ActivityHandler
}

// NewHandlers creates all handlers
func NewHandlers(manager *session.Manager, hub *notify.Hub) *Handlers {
	return &Handlers{
		Auth:     &AuthHandler{manager: manager, hub: hub},
		User:     &UserHandler{manager: manager, hub: hub},
		Event:    &EventHandler{manager: manager, hub: hub},
		Photo:    &PhotoHandler{manager: manager, hub: hub},
		Comment:  &CommentHandler{manager: manager, hub: hub},
		Activity: &ActivityHandler{manager: manager, hub: hub},
	}
}

// ============================================
// Shared Failure Presentation
// ============================================

// kindFor maps a gateway failure to its one toast kind.
func kindFor(err error) notify.Kind {
	switch {
	case errors.Is(err, gateway.ErrValidation):
		return notify.KindValidation
	case errors.Is(err, gateway.ErrUnauthorized), errors.Is(err, gateway.ErrForbidden):
		return notify.KindAuth
	case errors.Is(err, gateway.ErrNetwork):
		return notify.KindNetwork
	default:
		return notify.KindServer
	}
}

func statusFor(err error) int {
	var gerr *gateway.Error
	if errors.As(err, &gerr) && gerr.Status != 0 {
		return gerr.Status
	}
	if errors.Is(err, gateway.ErrNetwork) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func messageFor(err error) string {
	var gerr *gateway.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return gerr.Message
	}
	switch {
	case errors.Is(err, gateway.ErrNetwork):
		return "Could not reach the server"
	case errors.Is(err, gateway.ErrValidation):
		return "Invalid input"
	case errors.Is(err, gateway.ErrForbidden):
		return "You don't have permission to do that"
	case errors.Is(err, gateway.ErrUnauthorized):
		return "Please sign in again"
	case errors.Is(err, gateway.ErrNotFound):
		return "Not found"
	default:
		return "Something went wrong"
	}
}

// fail translates a gateway failure into an HTTP response plus a toast.
// Auth failures additionally carry a redirect hint so the page bounces to
// the landing screen.
func fail(c *gin.Context, hub *notify.Hub, sess *session.Session, err error) {
	msg := messageFor(err)
	if hub != nil && sess != nil {
		hub.Push(sess.ID, notify.New(kindFor(err), msg))
	}

	body := gin.H{"error": msg}
	if gateway.IsAuthFailure(err) {
		body["redirect"] = "/"
	}
	c.JSON(statusFor(err), body)
}

// toast pushes a success or info toast for the session.
func toast(hub *notify.Hub, sess *session.Session, kind notify.Kind, msg string) {
	if hub != nil && sess != nil {
		hub.Push(sess.ID, notify.New(kind, msg))
	}
}
