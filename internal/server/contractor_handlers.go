package server

import (
	"github.com/gofiber/fiber/v2"

	"crewdesk/internal/middleware"
	"crewdesk/internal/models"
	"crewdesk/internal/service"
)

// ContractorRequestDTO is the API response model for contractor requests.
type ContractorRequestDTO struct {
	CompanySlug   string                         `json:"company_slug"`
	CompanyName   string                         `json:"company_name"`
	Status        models.ContractorRequestStatus `json:"status"`
	JoinedChannel bool                           `json:"joined_channel"`
	MayBeginWork  bool                           `json:"may_begin_work"`
	CreatedAt     string                         `json:"created_at"`
}

func toContractorRequestDTO(r *models.ContractorRequest) ContractorRequestDTO {
	return ContractorRequestDTO{
		CompanySlug:   r.CompanySlug,
		CompanyName:   r.CompanyName,
		Status:        r.Status,
		JoinedChannel: r.JoinedChannel,
		MayBeginWork:  r.MayBeginWork,
		CreatedAt:     r.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999999Z07:00"),
	}
}

// CreateContractorRequest handles POST /api/contractors/requests
// @Summary Submit a contractor join request
// @Description Records a pending request for a registered applicant to join one hiring company.
// @Tags contractors
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /contractors/requests [post]
func (s *Server) CreateContractorRequest(c *fiber.Ctx) error {
	req := struct {
		Email       string `json:"email"`
		CompanySlug string `json:"company_slug"`
		CompanyName string `json:"company_name"`
	}{}

	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	// When the caller knows the slug but not the display name, fill it from
	// the catalog.
	if req.CompanyName == "" && req.CompanySlug != "" {
		if company := s.companies.BySlug(req.CompanySlug); company != nil {
			req.CompanyName = company.Name
		}
	}

	request, err := s.contractorService.Submit(c.UserContext(), service.SubmitRequestInput{
		Email:       req.Email,
		CompanySlug: req.CompanySlug,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "contractor request submitted",
		"company_slug", request.CompanySlug)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Request submitted",
		"request": toContractorRequestDTO(request),
	})
}
