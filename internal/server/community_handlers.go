package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"crewdesk/internal/models"
)

// GetCommunityTopPosts handles GET /api/communities/:name/top
// @Summary Top posts of a community
// @Description Returns this week's top posts for content surfaces elsewhere in the product.
// @Tags communities
// @Produce json
// @Success 200 {array} reddit.Post
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /communities/{name}/top [get]
func (s *Server) GetCommunityTopPosts(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	posts, err := s.communities.TopPosts(c.UserContext(), c.Params("name"), limit)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}
