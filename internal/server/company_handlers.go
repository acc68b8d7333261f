package server

import (
	"github.com/gofiber/fiber/v2"

	"crewdesk/internal/cache"
	"crewdesk/internal/catalog"
	"crewdesk/internal/models"
)

// GetCompanies handles GET /api/companies
// @Summary List the hiring catalog
// @Description Lists all companies and their public terms, including ones without current capacity.
// @Tags companies
// @Produce json
// @Success 200 {array} catalog.Company
// @Router /companies [get]
func (s *Server) GetCompanies(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var companies []catalog.Company
	err := cache.CacheAside(ctx, cache.CompaniesKey, &companies, cache.CompaniesTTL, func() error {
		companies = s.companies.Companies()
		return nil
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(companies)
}
