package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crewdesk/internal/models"
)

// setupTestDB opens a fresh in-memory database with the real schema so the
// unique and foreign-key constraints behave like production.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single pooled connection keeps the in-memory schema and the pragma alive.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(&models.Applicant{}, &models.ContractorRequest{}))

	return db
}

func createTestApplicant(t *testing.T, db *gorm.DB, email, phone string) *models.Applicant {
	t.Helper()
	applicant := &models.Applicant{
		Email:          email,
		Phone:          phone,
		RedditUsername: "someuser",
		Verified:       true,
	}
	require.NoError(t, db.Create(applicant).Error)
	return applicant
}
