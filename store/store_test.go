package store

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"maladireta/models"
)

// newTestStore opens an isolated in-memory database, migrates the
// schema, and returns the store set.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get DB instance: %v", err)
	}
	// A second connection would see a different in-memory database
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Campaign{},
		&models.CampaignAttachment{},
		&models.CampaignSend{},
		&models.EmailConfig{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return New(db)
}

func createTestUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:             username,
		Email:                username + "@example.com",
		PasswordHash:         "not-a-real-hash",
		Role:                 models.RoleUser,
		IsActive:             true,
		CanAccessDirectMail:  true,
		CanAccessEmailConfig: true,
	}
	if err := s.Users.Create(user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}
