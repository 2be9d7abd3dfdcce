// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/api/handlers"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/api/middleware"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/config"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/notify"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/session"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()

	// ============================================
	// Set Gin mode
	// ============================================
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Initialize Redis session store (optional)
	// ============================================
	var store *session.Store
	if cfg.RedisURL != "" {
		var err error
		store, err = session.NewStore(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (sessions won't survive restarts)", err)
			store = nil
		} else {
			defer store.Close()
			log.Println("⚡ Redis session persistence enabled")
		}
	}

	// ============================================
	// Initialize Session Manager
	// ============================================
	manager := session.NewManager(cfg.APIBaseURL, cfg.TaggingURL, cfg.SessionSecret, cfg.SessionTTL, store)
	log.Printf("📦 Session manager initialized (backend: %s)", cfg.APIBaseURL)

	if cfg.TaggingURL == "" {
		log.Println("⚠️  Auto-tagging not configured (TAGGING_URL not set)")
	}

	// ============================================
	// Initialize Notification Hub
	// ============================================
	hub := notify.NewHub()
	go hub.Run()
	log.Println("🔌 Notification hub initialized")

	// ============================================
	// Initialize Session Sweeper
	// ============================================
	sweeper := session.NewSweeper(manager)
	sweeper.Start()
	defer sweeper.Stop()

	// ============================================
	// Initialize Handlers
	// ============================================
	h := handlers.NewHandlers(manager, hub)
	h.Photo.MaxUploadBytes = cfg.MaxUploadMB * 1024 * 1024

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL, "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now(),
			"sessions":   manager.Count(),
			"ws_clients": hub.ConnectedCount(),
		})
	})

	// App routes
	app := r.Group("/app")
	{
		// ============================================
		// Public routes (no session required)
		// ============================================
		auth := app.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/request-otp", h.Auth.RequestOTP)
			auth.POST("/verify-otp", h.Auth.VerifyOTP)
		}

		// ============================================
		// Protected routes (require a live session)
		// ============================================
		protected := app.Group("")
		protected.Use(middleware.SessionMiddleware(manager))
		{
			protected.POST("/auth/logout", h.Auth.Logout)
			protected.GET("/me", h.Auth.Me)

			// Toast stream
			protected.GET("/ws", func(c *gin.Context) {
				sess := middleware.GetSession(c)
				if err := hub.Serve(c.Writer, c.Request, sess.ID); err != nil {
					log.Printf("❌ [WS] Upgrade failed: %v", err)
				}
			})

			// Profile editor
			profile := protected.Group("/profile")
			{
				profile.POST("/editor", h.User.StartEditor)
				profile.GET("/editor", h.User.Editor)
				profile.POST("/editor/edit", h.User.EditField)
				profile.POST("/editor/change", h.User.ChangeField)
				profile.POST("/editor/revert", h.User.RevertField)
				profile.POST("/editor/image", h.User.StageImage)
				profile.POST("/editor/discard", h.User.DiscardAll)
				profile.POST("/editor/save", h.User.Save)
			}

			// Home page event list
			events := protected.Group("/events")
			{
				events.GET("", h.Event.List)
				events.POST("", h.Event.Create)
				events.POST("/filters", h.Event.SetFilters)
				events.POST("/filters/reset", h.Event.ResetFilters)
				events.POST("/more", h.Event.LoadMore)

				events.GET("/:id", h.Event.Get)

				// Settings editor
				events.POST("/:id/editor", h.Event.StartEditor)
				events.GET("/:id/editor", h.Event.Editor)
				events.POST("/:id/editor/edit", h.Event.EditField)
				events.POST("/:id/editor/change", h.Event.ChangeField)
				events.POST("/:id/editor/revert", h.Event.RevertField)
				events.POST("/:id/editor/cover", h.Event.StageCover)
				events.POST("/:id/editor/discard", h.Event.DiscardAll)
				events.POST("/:id/editor/save", h.Event.Save)

				// Collaborators
				events.GET("/:id/viewers", h.Event.Viewers)
				events.GET("/:id/editors", h.Event.Editors)
				events.DELETE("/:id/viewers/:userID", h.Event.RemoveViewer)
				events.DELETE("/:id/editors/:userID", h.Event.RemoveEditor)
				events.POST("/:id/invites", h.Event.CreateInvite)

				// Event photo grid
				events.GET("/:id/photos", h.Photo.EventLoad())
				events.POST("/:id/photos/filters", h.Photo.EventFilters())
				events.POST("/:id/photos/filters/reset", h.Photo.EventReset())
				events.POST("/:id/photos/more", h.Photo.EventMore())
				events.POST("/:id/photos/like/:photoID", h.Photo.EventLike())
				events.POST("/:id/photos/select/:photoID", h.Photo.EventSelect())
				events.POST("/:id/photos/selection/clear", h.Photo.EventClear())
				events.POST("/:id/photos/selection/delete", h.Photo.EventDelete())

				// Upload batch
				events.GET("/:id/uploads", h.Photo.Drafts)
				events.POST("/:id/uploads/files", h.Photo.AddFiles)
				events.PATCH("/:id/uploads/:draftID", h.Photo.UpdateDraft)
				events.DELETE("/:id/uploads/:draftID", h.Photo.RemoveDraft)
				events.GET("/:id/uploads/:draftID/preview", h.Photo.Preview)
				events.POST("/:id/uploads/submit", h.Photo.Submit)
				events.DELETE("/:id/uploads", h.Photo.DiscardBatch)
			}

			// Invite redemption
			protected.POST("/invites/accept", h.Event.AcceptInvite)
			protected.POST("/invites/decline", h.Event.DeclineInvite)

			// Global photo gallery
			browse := protected.Group("/browse")
			{
				browse.GET("", h.Photo.BrowseLoad())
				browse.POST("/filters", h.Photo.BrowseFilters())
				browse.POST("/filters/reset", h.Photo.BrowseReset())
				browse.POST("/more", h.Photo.BrowseMore())
				browse.POST("/like/:photoID", h.Photo.BrowseLike())
				browse.POST("/select/:photoID", h.Photo.BrowseSelect())
				browse.POST("/selection/clear", h.Photo.BrowseClear())
				browse.POST("/selection/delete", h.Photo.BrowseDelete())
			}

			// Per-photo feeds
			photos := protected.Group("/photos")
			{
				photos.GET("/:photoID/comments", h.Comment.List)
				photos.POST("/:photoID/comments", h.Comment.Add)
				photos.POST("/:photoID/comments/more", h.Comment.LoadMore)
				photos.GET("/:photoID/likes", h.Comment.Likes)
				photos.POST("/:photoID/likes/more", h.Comment.MoreLikes)
			}
			protected.DELETE("/comments/:commentID", h.Comment.Delete)

			// My-clicks page
			activity := protected.Group("/activity")
			{
				activity.GET("", h.Photo.ActivityLoad())
				activity.POST("/more", h.Photo.ActivityMore())
				activity.POST("/like/:photoID", h.Photo.ActivityLike())
				activity.GET("/summary", h.Activity.Summary)
			}
		}
	}

	// ============================================
	// Start Server with graceful shutdown
	// ============================================
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("🚀 Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Forced shutdown: %v", err)
	}
	log.Println("✅ Server stopped")
}
