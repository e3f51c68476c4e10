package httpx

import "github.com/gofiber/fiber/v2"

// HealthHandler reports service liveness.
//
//	@Summary		Health check
//	@Description	Checks the health of the API service
//	@Tags			health
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func HealthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
