// Package service provides application business logic (qualification,
// contractor requests).
package service

import (
	"context"
	"fmt"
	"strings"

	"crewdesk/internal/catalog"
	"crewdesk/internal/models"
	"crewdesk/internal/observability"
	"crewdesk/internal/repository"
	"crewdesk/internal/validation"
)

// AccountVerifier checks that a claimed social account exists. Errors other
// than "the account does not exist" must come back as errors, never as a
// false result.
type AccountVerifier interface {
	UserExists(ctx context.Context, username string) (bool, error)
}

// QualificationService runs the applicant qualification pipeline.
type QualificationService struct {
	applicantRepo repository.ApplicantRepository
	verifier      AccountVerifier
	companies     *catalog.Catalog
}

// QualifyInput is the input for qualifying an applicant.
type QualifyInput struct {
	Email           string
	Phone           string
	RedditUsername  string
	InstagramHandle string
	TwitterHandle   string
	TiktokHandle    string
}

// QualifyResult is the outcome of a successful qualification. MatchedCompany
// is nil when the catalog has no capacity; the applicant is persisted either
// way.
type QualifyResult struct {
	Applicant      *models.Applicant
	MatchedCompany *catalog.Company
}

// NewQualificationService returns a new QualificationService.
func NewQualificationService(
	applicantRepo repository.ApplicantRepository,
	verifier AccountVerifier,
	companies *catalog.Catalog,
) *QualificationService {
	return &QualificationService{
		applicantRepo: applicantRepo,
		verifier:      verifier,
		companies:     companies,
	}
}

// Qualify validates the input, rejects duplicates, verifies the claimed
// reddit account, matches a company, and persists the applicant.
//
// Ordering matters: the duplicate pre-check runs before verification so a
// repeat submission never spends an upstream API call, and the unique index
// on (email, phone) resolves races the pre-check cannot see. Verification
// failures propagate as-is; they are never downgraded to "account does not
// exist".
func (s *QualificationService) Qualify(ctx context.Context, in QualifyInput) (*QualifyResult, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.RedditUsername = validation.NormalizeRedditUsername(in.RedditUsername)

	if err := validation.ValidateEmail(in.Email); err != nil {
		observability.Qualifications.WithLabelValues("validation_error").Inc()
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		observability.Qualifications.WithLabelValues("validation_error").Inc()
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateRedditUsername(in.RedditUsername); err != nil {
		observability.Qualifications.WithLabelValues("validation_error").Inc()
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.applicantRepo.GetByEmailAndPhone(ctx, in.Email, in.Phone)
	if err != nil {
		observability.Qualifications.WithLabelValues("error").Inc()
		return nil, err
	}
	if existing != nil {
		observability.Qualifications.WithLabelValues("duplicate").Inc()
		return nil, models.NewDuplicateError("applicant already registered")
	}

	exists, err := s.verifier.UserExists(ctx, in.RedditUsername)
	if err != nil {
		observability.Qualifications.WithLabelValues("verifier_error").Inc()
		return nil, err
	}
	if !exists {
		observability.Qualifications.WithLabelValues("verification_failed").Inc()
		return nil, models.NewVerificationFailedError(
			fmt.Sprintf("reddit user '%s' does not exist", in.RedditUsername))
	}

	applicant := &models.Applicant{
		Email:           in.Email,
		Phone:           in.Phone,
		RedditUsername:  in.RedditUsername,
		InstagramHandle: in.InstagramHandle,
		TwitterHandle:   in.TwitterHandle,
		TiktokHandle:    in.TiktokHandle,
		Verified:        true,
	}
	if err := s.applicantRepo.Create(ctx, applicant); err != nil {
		if models.ErrorCode(err) == models.CodeDuplicate {
			observability.Qualifications.WithLabelValues("duplicate").Inc()
		} else {
			observability.Qualifications.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	observability.Qualifications.WithLabelValues("success").Inc()
	return &QualifyResult{
		Applicant:      applicant,
		MatchedCompany: s.companies.MatchFor(),
	}, nil
}
