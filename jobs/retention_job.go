package jobs

import (
	"log"
	"time"

	"github.com/okothbrian/socialite/database"
	"github.com/okothbrian/socialite/models"
)

const auditRetention = 90 * 24 * time.Hour

// PruneAuditLogs drops audit entries older than the retention window. The
// admin stream re-baselines on the shrink, so pruning never triggers a
// "new action" frame.
func PruneAuditLogs() {
	log.Println("Running job: PruneAuditLogs...")

	cutoff := time.Now().Add(-auditRetention)
	result := database.DB.
		Where("created_at < ?", cutoff).
		Delete(&models.AuditLog{})
	if result.Error != nil {
		log.Printf("Error pruning audit logs: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Pruned %d audit log entries older than %s", result.RowsAffected, cutoff.Format(time.DateOnly))
	}
}
