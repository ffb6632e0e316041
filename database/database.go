package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"run2rejuvenate-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Info),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Auto migrate all models
	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventParticipant{},
		&models.ProgressEntry{},
		&models.Article{},
		&models.Photo{},
	)

	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Add custom indexes for better query performance
	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	// Add constraints if needed
	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Leaderboard and per-user progress queries
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_progress_entries_event_user ON progress_entries(event_id, user_id)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for progress_entries: %v\n", err)
	}

	// Gallery is browsed newest first
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_photos_created_at ON photos(created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for photos: %v\n", err)
	}

	// Article listing per category, newest first
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_articles_category_created ON articles(category, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for articles: %v\n", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// A user can appear in an event's participant set at most once. Register
	// relies on this key for its atomic insert-or-nothing behavior.
	if err := db.Exec("ALTER TABLE event_participants ADD CONSTRAINT uk_event_participants_event_user UNIQUE (event_id, user_id)").Error; err != nil {
		// Ignore error if constraint already exists
		fmt.Printf("Warning: Could not add unique constraint for event_participants: %v\n", err)
	}

	// Bib numbers are unique across users when assigned
	if err := db.Exec("ALTER TABLE users ADD CONSTRAINT uk_users_bib_number UNIQUE (bib_number)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for users.bib_number: %v\n", err)
	}

	return nil
}

// SeedData can be used to populate the database with initial data for development/testing
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	admin := models.User{
		ID:            "user-admin",
		AuthUID:       "dev-admin",
		Email:         "admin@run2rejuvenate.com",
		FirstName:     "Admin",
		LastName:      "User",
		IsAdmin:       true,
		ContactNumber: "0000000000",
		AgeCategory:   "18-35",
		City:          "Pune",
		State:         "Maharashtra",
		Country:       "India",
	}
	if err := db.Create(&admin).Error; err != nil {
		fmt.Printf("Warning: Could not create seed admin user: %v\n", err)
	}

	fmt.Println("Database seeded with development admin user")
	return nil
}
