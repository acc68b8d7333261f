package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"crewdesk/internal/models"
)

// ContractorRequestRepository defines persistence operations for contractor
// requests.
type ContractorRequestRepository interface {
	GetByApplicantAndCompany(ctx context.Context, applicantID uint, companySlug string) (*models.ContractorRequest, error)
	Create(ctx context.Context, request *models.ContractorRequest) error
	ListByApplicant(ctx context.Context, applicantID uint) ([]models.ContractorRequest, error)
}

type contractorRequestRepository struct {
	db *gorm.DB
}

// NewContractorRequestRepository returns a new ContractorRequestRepository
// implementation.
func NewContractorRequestRepository(db *gorm.DB) ContractorRequestRepository {
	return &contractorRequestRepository{db: db}
}

// GetByApplicantAndCompany returns the request for the (applicant, company)
// pair, or (nil, nil) when none exists.
func (r *contractorRequestRepository) GetByApplicantAndCompany(ctx context.Context, applicantID uint, companySlug string) (*models.ContractorRequest, error) {
	var request models.ContractorRequest
	err := r.db.WithContext(ctx).
		Where("applicant_id = ? AND company_slug = ?", applicantID, companySlug).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

// Create inserts the request. The composite unique index and the applicant
// foreign key are the authoritative backstops: their violations come back as
// duplicate and not-found errors rather than raw driver errors.
func (r *contractorRequestRepository) Create(ctx context.Context, request *models.ContractorRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewDuplicateError("contractor request already submitted for this company")
		}
		if isForeignKeyViolation(err) {
			return models.NewNotFoundError("applicant not found")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *contractorRequestRepository) ListByApplicant(ctx context.Context, applicantID uint) ([]models.ContractorRequest, error) {
	var requests []models.ContractorRequest
	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}
