// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"gorm.io/gorm"

	"parlez/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := Migrate(db); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes(db)

	log.Println("✅ All migrations completed successfully")
}

// Migrate applies the schema to any gorm connection (the server database or
// a test database).
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.PointsAccount{},
		&models.PointsHistoryEntry{},
		&models.Mistake{},
		&models.CheckIn{},
		&models.UserCounters{},
		&models.UserBadge{},
		&models.CourseProgress{},
	)
}

func createIndexes(db *gorm.DB) {
	log.Println("Creating indexes...")

	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_guest ON users(is_guest)")

	db.Exec("CREATE INDEX IF NOT EXISTS idx_points_history_user ON points_history(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_points_history_created ON points_history(created_at DESC)")

	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_mistakes_user ON user_mistakes(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_mistakes_reviewed ON user_mistakes(user_id, reviewed)")

	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_checkins_user ON user_checkins(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_badges_user ON user_badges(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_progress_user ON user_progress(user_id)")

	log.Println("✅ Indexes created successfully")
}
