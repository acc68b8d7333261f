package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"crewdesk/internal/models"
)

// ApplicantRepository defines persistence operations for applicants.
type ApplicantRepository interface {
	GetByEmailAndPhone(ctx context.Context, email, phone string) (*models.Applicant, error)
	GetByEmail(ctx context.Context, email string) (*models.Applicant, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.Applicant, error)
	Create(ctx context.Context, applicant *models.Applicant) error
	List(ctx context.Context, limit, offset int) ([]models.Applicant, error)
}

type applicantRepository struct {
	db *gorm.DB
}

// NewApplicantRepository returns a new ApplicantRepository implementation.
func NewApplicantRepository(db *gorm.DB) ApplicantRepository {
	return &applicantRepository{db: db}
}

// GetByEmailAndPhone looks up an applicant by its identity pair. A missing
// row returns (nil, nil) so callers can use this as an existence check.
func (r *applicantRepository) GetByEmailAndPhone(ctx context.Context, email, phone string) (*models.Applicant, error) {
	var applicant models.Applicant
	err := r.db.WithContext(ctx).
		Where("email = ? AND phone = ?", email, phone).
		First(&applicant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &applicant, nil
}

// GetByEmail returns the applicant with the given email, or (nil, nil) when
// none exists. When several applicants share an email the oldest row wins.
func (r *applicantRepository) GetByEmail(ctx context.Context, email string) (*models.Applicant, error) {
	var applicant models.Applicant
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("id ASC").
		First(&applicant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &applicant, nil
}

func (r *applicantRepository) GetByPublicID(ctx context.Context, publicID string) (*models.Applicant, error) {
	var applicant models.Applicant
	err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&applicant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("applicant not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &applicant, nil
}

// Create inserts the applicant. A unique-index violation on (email, phone)
// is returned as a duplicate error so races with the pre-check still resolve
// to the same outcome.
func (r *applicantRepository) Create(ctx context.Context, applicant *models.Applicant) error {
	if err := r.db.WithContext(ctx).Create(applicant).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewDuplicateError("applicant already registered")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *applicantRepository) List(ctx context.Context, limit, offset int) ([]models.Applicant, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	var applicants []models.Applicant
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&applicants).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return applicants, nil
}
