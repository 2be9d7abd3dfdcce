package session

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically drops idle sessions so abandoned browsers don't pin
// page state forever.
type Sweeper struct {
	cron    *cron.Cron
	manager *Manager
}

// NewSweeper creates a sweeper over the given manager.
func NewSweeper(manager *Manager) *Sweeper {
	return &Sweeper{
		cron:    cron.New(),
		manager: manager,
	}
}

// Start schedules the sweep and starts the scheduler.
func (s *Sweeper) Start() {
	// Run every 15 minutes
	s.cron.AddFunc("*/15 * * * *", func() {
		log.Println("[Cron] Running idle session sweep...")
		removed := s.manager.Sweep()
		if removed > 0 {
			log.Printf("[Cron] 🧹 Swept %d idle sessions, %d remaining", removed, s.manager.Count())
		}
	})

	s.cron.Start()
	log.Println("[Cron] ✅ Session sweeper started")
}

// Stop halts the scheduler.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		log.Println("[Cron] Session sweeper stopped")
	}
}
