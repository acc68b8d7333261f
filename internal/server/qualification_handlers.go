package server

import (
	"github.com/gofiber/fiber/v2"

	"crewdesk/internal/catalog"
	"crewdesk/internal/middleware"
	"crewdesk/internal/models"
	"crewdesk/internal/service"
)

// ApplicantDTO is the API response model for applicants.
type ApplicantDTO struct {
	PublicID        string `json:"public_id"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	RedditUsername  string `json:"reddit_username"`
	InstagramHandle string `json:"instagram_handle,omitempty"`
	TwitterHandle   string `json:"twitter_handle,omitempty"`
	TiktokHandle    string `json:"tiktok_handle,omitempty"`
	Verified        bool   `json:"verified"`
	CreatedAt       string `json:"created_at"`
}

// MatchedCompanyDTO carries the public terms of the matched company.
type MatchedCompanyDTO struct {
	Slug         string  `json:"slug"`
	Name         string  `json:"name"`
	HourlyRate   float64 `json:"hourly_rate"`
	SigningBonus float64 `json:"signing_bonus"`
}

func toApplicantDTO(a *models.Applicant) ApplicantDTO {
	return ApplicantDTO{
		PublicID:        a.PublicID,
		Email:           a.Email,
		Phone:           a.Phone,
		RedditUsername:  a.RedditUsername,
		InstagramHandle: a.InstagramHandle,
		TwitterHandle:   a.TwitterHandle,
		TiktokHandle:    a.TiktokHandle,
		Verified:        a.Verified,
		CreatedAt:       a.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999999Z07:00"),
	}
}

func toMatchedCompanyDTO(company *catalog.Company) *MatchedCompanyDTO {
	if company == nil {
		return nil
	}
	return &MatchedCompanyDTO{
		Slug:         company.Slug,
		Name:         company.Name,
		HourlyRate:   company.HourlyRate,
		SigningBonus: company.SigningBonus,
	}
}

// Qualify handles POST /api/qualify
// @Summary Qualify an applicant
// @Description Validates applicant input, verifies the claimed reddit account, matches a hiring company, and registers the applicant.
// @Tags qualification
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /qualify [post]
func (s *Server) Qualify(c *fiber.Ctx) error {
	req := struct {
		Email           string `json:"email"`
		Phone           string `json:"phone"`
		RedditUsername  string `json:"reddit_username"`
		InstagramHandle string `json:"instagram_handle"`
		TwitterHandle   string `json:"twitter_handle"`
		TiktokHandle    string `json:"tiktok_handle"`
	}{}

	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	result, err := s.qualificationService.Qualify(c.UserContext(), service.QualifyInput{
		Email:           req.Email,
		Phone:           req.Phone,
		RedditUsername:  req.RedditUsername,
		InstagramHandle: req.InstagramHandle,
		TwitterHandle:   req.TwitterHandle,
		TiktokHandle:    req.TiktokHandle,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "applicant qualified",
		"public_id", result.Applicant.PublicID,
		"matched", result.MatchedCompany != nil)

	message := "Qualified and matched"
	if result.MatchedCompany == nil {
		message = "Qualified; no company currently has capacity"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":         true,
		"message":         message,
		"applicant":       toApplicantDTO(result.Applicant),
		"matched_company": toMatchedCompanyDTO(result.MatchedCompany),
	})
}
