package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"crewdesk/internal/models"
	"crewdesk/internal/observability"
	"crewdesk/internal/repository"
	"crewdesk/internal/validation"
)

// ContractorRequestService records applicants' requests to join companies.
type ContractorRequestService struct {
	db *gorm.DB
}

// SubmitRequestInput is the input for submitting a contractor request.
type SubmitRequestInput struct {
	Email       string
	CompanySlug string
	CompanyName string
}

// NewContractorRequestService returns a new ContractorRequestService.
// The service owns its transaction boundary, so it takes the database handle
// rather than pre-built repositories.
func NewContractorRequestService(db *gorm.DB) *ContractorRequestService {
	return &ContractorRequestService{db: db}
}

// Submit records a pending request for the applicant identified by email to
// join the named company. Lookup, duplicate check, and insert run in one
// transaction; the composite unique index resolves races between concurrent
// submissions so exactly one row survives.
func (s *ContractorRequestService) Submit(ctx context.Context, in SubmitRequestInput) (*models.ContractorRequest, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.CompanySlug = strings.TrimSpace(in.CompanySlug)
	in.CompanyName = strings.TrimSpace(in.CompanyName)

	if err := validation.ValidateEmail(in.Email); err != nil {
		observability.ContractorRequests.WithLabelValues("validation_error").Inc()
		return nil, models.NewValidationError(err.Error())
	}

	var request *models.ContractorRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applicantRepo := repository.NewApplicantRepository(tx)
		requestRepo := repository.NewContractorRequestRepository(tx)

		applicant, err := applicantRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if applicant == nil {
			return models.NewNotFoundError("applicant not found; complete qualification first")
		}

		existing, err := requestRepo.GetByApplicantAndCompany(ctx, applicant.ID, in.CompanySlug)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.NewDuplicateError("already requested to join this company")
		}

		// Field validation comes after the lookups so a missing applicant is
		// reported as not-found rather than masked by a validation error.
		if in.CompanySlug == "" || in.CompanyName == "" {
			return models.NewValidationError("company slug and company name are required")
		}

		// The communication channel is provisioned eagerly; work clearance is
		// granted later by back-office review.
		request = &models.ContractorRequest{
			ApplicantID:   applicant.ID,
			CompanySlug:   in.CompanySlug,
			CompanyName:   in.CompanyName,
			Status:        models.ContractorRequestStatusPending,
			JoinedChannel: true,
		}
		return requestRepo.Create(ctx, request)
	})
	if err != nil {
		switch models.ErrorCode(err) {
		case models.CodeNotFound:
			observability.ContractorRequests.WithLabelValues("not_found").Inc()
		case models.CodeDuplicate:
			observability.ContractorRequests.WithLabelValues("duplicate").Inc()
		case models.CodeValidation:
			observability.ContractorRequests.WithLabelValues("validation_error").Inc()
		default:
			observability.ContractorRequests.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	observability.ContractorRequests.WithLabelValues("success").Inc()
	return request, nil
}
