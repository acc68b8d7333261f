package server

import (
	"github.com/gofiber/fiber/v2"

	"crewdesk/internal/cache"
	"crewdesk/internal/models"
)

// GetApplicant handles GET /api/applicants/:publicId
// @Summary Get an applicant by public ID
// @Tags applicants
// @Produce json
// @Success 200 {object} ApplicantDTO
// @Failure 404 {object} models.ErrorResponse
// @Router /applicants/{publicId} [get]
func (s *Server) GetApplicant(c *fiber.Ctx) error {
	publicID := c.Params("publicId")
	ctx := c.UserContext()

	var dto ApplicantDTO
	err := cache.CacheAside(ctx, cache.ApplicantCacheKey(publicID), &dto, cache.ApplicantTTL, func() error {
		applicant, err := s.applicantRepo.GetByPublicID(ctx, publicID)
		if err != nil {
			return err
		}
		dto = toApplicantDTO(applicant)
		return nil
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto)
}

// GetApplicantRequests handles GET /api/applicants/:publicId/requests
// @Summary List an applicant's contractor requests
// @Tags applicants
// @Produce json
// @Success 200 {array} ContractorRequestDTO
// @Failure 404 {object} models.ErrorResponse
// @Router /applicants/{publicId}/requests [get]
func (s *Server) GetApplicantRequests(c *fiber.Ctx) error {
	ctx := c.UserContext()

	applicant, err := s.applicantRepo.GetByPublicID(ctx, c.Params("publicId"))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	requests, err := s.requestRepo.ListByApplicant(ctx, applicant.ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	dtos := make([]ContractorRequestDTO, 0, len(requests))
	for i := range requests {
		dtos = append(dtos, toContractorRequestDTO(&requests[i]))
	}

	return c.Status(fiber.StatusOK).JSON(dtos)
}
