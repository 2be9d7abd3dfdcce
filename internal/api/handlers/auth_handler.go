package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/api/middleware"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/notify"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/session"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/types"
)

// ============================================
// Auth Handler
// ============================================

type AuthHandler struct {
	manager *session.Manager
	hub     *notify.Hub
}

// ensureSession returns the request's session, creating a fresh one (and
// setting its cookie) when the request arrived without one. Pre-login
// endpoints need this: register and the OTP flow run before any session
// exists.
func (h *AuthHandler) ensureSession(c *gin.Context) (*session.Session, error) {
	if token, err := c.Cookie(middleware.SessionCookie); err == nil && token != "" {
		if sess, err := h.manager.Get(c.Request.Context(), token); err == nil {
			return sess, nil
		}
	}

	sess, token, err := h.manager.Create()
	if err != nil {
		return nil, err
	}
	c.SetCookie(middleware.SessionCookie, token, 0, "/", "", false, true)
	return sess, nil
}

// Login authenticates against the backend and binds the resulting identity
// to this session for the whole of its lifetime.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.ensureSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	resp, err := sess.API.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}

	sess.SetUser(&resp.User)
	if err := h.manager.Persist(c.Request.Context(), sess); err != nil {
		log.Printf("⚠️ [Auth] Failed to persist session cookies: %v", err)
	}

	log.Printf("✅ [Auth] Login: user=%s, session=%s", resp.User.Username, sess.ID)
	toast(h.hub, sess, notify.KindSuccess, "Signed in")
	c.JSON(http.StatusOK, gin.H{"user": resp.User})
}

// Logout ends both the backend session and ours.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		c.JSON(http.StatusOK, gin.H{"redirect": "/"})
		return
	}

	if err := sess.API.Logout(c.Request.Context()); err != nil {
		log.Printf("⚠️ [Auth] Backend logout failed: %v", err)
	}
	h.manager.Invalidate(c.Request.Context(), sess)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{"redirect": "/"})
}

// Me returns the session's user. The identity is fetched from the backend
// at most once per session and kept on the session object afterwards.
func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.GetSession(c)

	if user := sess.User(); user != nil {
		c.JSON(http.StatusOK, gin.H{"user": user, "can_edit": types.CanEdit(user.Groups)})
		return
	}

	user, err := sess.API.Me(c.Request.Context())
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}
	sess.SetUser(user)
	c.JSON(http.StatusOK, gin.H{"user": user, "can_edit": types.CanEdit(user.Groups)})
}

// Register creates an account. It stays inactive until the OTP flow
// confirms the email.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.ensureSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	user, err := sess.API.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		fail(c, h.hub, sess, err)
		return
	}

	log.Printf("✅ [Auth] Registered: user=%s", user.Username)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// RequestOTP asks the backend to email a verification code. Also serves as
// the resend endpoint.
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req models.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.ensureSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	if err := sess.API.RequestOTP(c.Request.Context(), req.Email); err != nil {
		fail(c, h.hub, sess, err)
		return
	}

	toast(h.hub, sess, notify.KindInfo, "Verification code sent")
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// VerifyOTP confirms the emailed code and activates the account.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.ensureSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	if err := sess.API.VerifyOTP(c.Request.Context(), req.Email, req.Code); err != nil {
		fail(c, h.hub, sess, err)
		return
	}

	toast(h.hub, sess, notify.KindSuccess, "Email verified, you can sign in now")
	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}
