package database

import (
	"log"

	"github.com/pmalinowski/tutorbase/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.Availability{},
		&models.Vacation{},
		&models.SchoolYear{},
		&models.Notification{},
		&models.Settlement{},
		&models.Announcement{},
		&models.Review{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial unique index: at most one active lesson per tutor slot. Released
	// and completed statuses stay out so cancelled slots can be rebooked.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_active_slot
		ON bookings (tutor_id, full_date, time)
		WHERE status IN ('scheduled', 'makeup')
	`)

	// A makeup credit spends once: at most one booking may reference a given
	// original lesson.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_makeup_link
		ON bookings (original_lesson_id)
		WHERE original_lesson_id IS NOT NULL
	`)

	return db
}
