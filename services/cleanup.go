// services/cleanup.go - scheduled maintenance jobs
package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"

	"parlez/database"
	"parlez/models"
)

// CleanupService purges abandoned guest accounts and trims old points
// history on a daily schedule.
type CleanupService struct {
	scheduler *gocron.Scheduler
}

var cleanupService *CleanupService

// InitCleanupService initializes the singleton cleanup service and starts
// its schedule unless GUEST_CLEANUP_ENABLED=false.
func InitCleanupService() {
	cleanupService = &CleanupService{
		scheduler: gocron.NewScheduler(time.UTC),
	}

	if os.Getenv("GUEST_CLEANUP_ENABLED") == "false" {
		log.Println("Cleanup service disabled")
		return
	}
	cleanupService.Start()
}

// GetCleanupService returns the initialized cleanup service.
func GetCleanupService() *CleanupService {
	return cleanupService
}

// Start schedules the daily jobs.
func (s *CleanupService) Start() {
	if _, err := s.scheduler.Every(1).Day().At("03:00").Do(s.CleanupStaleGuests); err != nil {
		log.Printf("Failed to schedule guest cleanup: %v", err)
	}
	if _, err := s.scheduler.Every(1).Day().At("03:30").Do(s.TrimPointsHistory); err != nil {
		log.Printf("Failed to schedule history trim: %v", err)
	}
	s.scheduler.StartAsync()
	log.Println("🧹 Cleanup service started")
}

// Stop stops the scheduler.
func (s *CleanupService) Stop() {
	s.scheduler.Stop()
}

// CleanupStaleGuests deletes guest accounts with no activity for the
// retention window, together with all their per-user rows.
func (s *CleanupService) CleanupStaleGuests() {
	db := database.GetDB()
	if db == nil {
		return
	}

	retentionDays := getEnvInt("GUEST_RETENTION_DAYS", 30)
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	var guests []models.User
	if err := db.Where("is_guest = ? AND (last_activity IS NULL OR last_activity < ?) AND created_at < ?",
		true, cutoff, cutoff).Find(&guests).Error; err != nil {
		log.Printf("Error finding stale guests: %v", err)
		return
	}
	if len(guests) == 0 {
		return
	}

	ids := make([]uint, len(guests))
	for i, g := range guests {
		ids[i] = g.ID
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.PointsAccount{},
			&models.PointsHistoryEntry{},
			&models.Mistake{},
			&models.CheckIn{},
			&models.UserCounters{},
			&models.UserBadge{},
			&models.CourseProgress{},
		} {
			if err := tx.Where("user_id IN ?", ids).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.User{}, ids).Error
	})
	if err != nil {
		log.Printf("Error deleting stale guests: %v", err)
		return
	}

	log.Printf("✅ Cleaned up %d stale guest accounts", len(guests))
}

// TrimPointsHistory drops ledger entries older than the retention window.
// The running totals live on user_points, so old entries are display-only.
func (s *CleanupService) TrimPointsHistory() {
	db := database.GetDB()
	if db == nil {
		return
	}

	retentionDays := getEnvInt("HISTORY_RETENTION_DAYS", 180)
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	result := db.Where("created_at < ?", cutoff).Delete(&models.PointsHistoryEntry{})
	if result.Error != nil {
		log.Printf("Error trimming points history: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("✅ Trimmed %d old points history entries", result.RowsAffected)
	}
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return def
}
