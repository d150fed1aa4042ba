package scanner

import (
	"log"
	"moderation-bot/model"
	"moderation-bot/utils/database/sanctions"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	sweepInterval    = 5 * time.Minute
	archiveRetention = 90 * 24 * time.Hour
)

// LadderCleaner clears escalation roles for users whose sanctions expired.
type LadderCleaner interface {
	RemoveEscalationRoles(userID string)
}

// StartSanctionSweeper runs the expiry and retention sweeps until done is
// closed. It is the third independent timer next to the action queue drain
// and the log ingestion loop.
func StartSanctionSweeper(db *sqlx.DB, roles LadderCleaner, done <-chan struct{}) {
	log.Printf("[SanctionSweeper] Started. Sweeping every %v", sweepInterval)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sweepOnce(db, roles)
		case <-done:
			log.Println("[SanctionSweeper] Stopped")
			return
		}
	}
}

// sweepOnce expires due sanctions, cleans up their roles, and archives old
// expired records.
func sweepOnce(db *sqlx.DB, roles LadderCleaner) {
	expired, err := sanctions.ExpireDue(db, time.Now())
	if err != nil {
		log.Printf("[SanctionSweeper] Error expiring sanctions: %v", err)
		return
	}
	if len(expired) > 0 {
		log.Printf("[SanctionSweeper] Expired %d sanctions", len(expired))
	}

	for _, s := range expired {
		if s.Category != model.CategoryEscalating || roles == nil {
			continue
		}
		roles.RemoveEscalationRoles(s.UserID)
	}

	archived, err := sanctions.ArchiveOlderThan(db, time.Now().Add(-archiveRetention))
	if err != nil {
		log.Printf("[SanctionSweeper] Error archiving sanctions: %v", err)
		return
	}
	if archived > 0 {
		log.Printf("[SanctionSweeper] Archived %d old sanctions", archived)
	}
}
