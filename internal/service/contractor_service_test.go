package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crewdesk/internal/models"
)

func setupServiceDB(t *testing.T) *gorm.DB {
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

func seedApplicant(t *testing.T, db *gorm.DB, email string) *models.Applicant {
	t.Helper()
	applicant := &models.Applicant{
		Email:          email,
		Phone:          "555-0100",
		RedditUsername: "testuser",
		Verified:       true,
	}
	require.NoError(t, db.Create(applicant).Error)
	return applicant
}

func countRequests(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.ContractorRequest{}).Count(&n).Error)
	return n
}

func TestSubmitSuccess(t *testing.T) {
	db := setupServiceDB(t)
	applicant := seedApplicant(t, db, "a@x.com")
	svc := NewContractorRequestService(db)

	request, err := svc.Submit(context.Background(), SubmitRequestInput{
		Email:       "a@x.com",
		CompanySlug: "meridian-build",
		CompanyName: "Meridian Build Co",
	})
	require.NoError(t, err)
	assert.Equal(t, applicant.ID, request.ApplicantID)
	assert.Equal(t, models.ContractorRequestStatusPending, request.Status)
	assert.True(t, request.JoinedChannel)
	assert.False(t, request.MayBeginWork)
	assert.Equal(t, int64(1), countRequests(t, db))
}

func TestSubmitUnknownApplicant(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewContractorRequestService(db)

	_, err := svc.Submit(context.Background(), SubmitRequestInput{
		Email:       "nobody@x.com",
		CompanySlug: "meridian-build",
		CompanyName: "Meridian Build Co",
	})
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	assert.Zero(t, countRequests(t, db))
}

func TestSubmitDuplicateCompany(t *testing.T) {
	db := setupServiceDB(t)
	seedApplicant(t, db, "a@x.com")
	svc := NewContractorRequestService(db)

	in := SubmitRequestInput{
		Email:       "a@x.com",
		CompanySlug: "meridian-build",
		CompanyName: "Meridian Build Co",
	}

	_, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, models.CodeDuplicate, models.ErrorCode(err))
	assert.Equal(t, int64(1), countRequests(t, db), "exactly one row survives a repeat submission")
}

func TestSubmitSecondCompanyAllowed(t *testing.T) {
	db := setupServiceDB(t)
	seedApplicant(t, db, "a@x.com")
	svc := NewContractorRequestService(db)

	_, err := svc.Submit(context.Background(), SubmitRequestInput{
		Email: "a@x.com", CompanySlug: "meridian-build", CompanyName: "Meridian Build Co",
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), SubmitRequestInput{
		Email: "a@x.com", CompanySlug: "northpoint-crews", CompanyName: "Northpoint Crews",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), countRequests(t, db))
}

func TestSubmitMissingCompanyFields(t *testing.T) {
	db := setupServiceDB(t)
	seedApplicant(t, db, "a@x.com")
	svc := NewContractorRequestService(db)

	tests := []struct {
		name string
		in   SubmitRequestInput
	}{
		{"missing slug", SubmitRequestInput{Email: "a@x.com", CompanyName: "Meridian Build Co"}},
		{"missing name", SubmitRequestInput{Email: "a@x.com", CompanySlug: "meridian-build"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.in)
			require.Error(t, err)
			assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
		})
	}

	assert.Zero(t, countRequests(t, db), "validation failure must not leave partial writes")
}

func TestSubmitInvalidEmail(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewContractorRequestService(db)

	_, err := svc.Submit(context.Background(), SubmitRequestInput{
		Email:       "not-an-email",
		CompanySlug: "meridian-build",
		CompanyName: "Meridian Build Co",
	})
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestSubmitEmailNormalized(t *testing.T) {
	db := setupServiceDB(t)
	applicant := seedApplicant(t, db, "a@x.com")
	svc := NewContractorRequestService(db)

	request, err := svc.Submit(context.Background(), SubmitRequestInput{
		Email:       "  A@X.COM ",
		CompanySlug: "meridian-build",
		CompanyName: "Meridian Build Co",
	})
	require.NoError(t, err)
	assert.Equal(t, applicant.ID, request.ApplicantID)
}
