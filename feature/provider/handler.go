package provider

import (
	"errors"

	"game-catalog/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for providers.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the provider routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/providers", h.HandleListProviders)
	app.Get("/providers/:provider", h.HandleGetProvider)
	app.Get("/titles/:id/providers", h.HandleTitleProviders)
}

// HandleListProviders returns the provider registry.
// @Summary List Providers
// @Tags providers
// @Produce json
// @Success 200 {array} provider.Metadata
// @Router /providers [get]
func (h *Handler) HandleListProviders(c *fiber.Ctx) error {
	return c.JSON(h.service.List())
}

// HandleGetProvider returns one provider. Unknown providers resolve to a
// synthesized entry.
// @Summary Get Provider
// @Tags providers
// @Produce json
// @Param provider path string true "Provider (e.g. 'igdb')"
// @Success 200 {object} provider.Metadata
// @Router /providers/{provider} [get]
func (h *Handler) HandleGetProvider(c *fiber.Ctx) error {
	return c.JSON(h.service.Get(c.Params("provider")))
}

// HandleTitleProviders returns the providers mapped to a title.
// @Summary Title Providers
// @Tags providers
// @Produce json
// @Param id path int true "Title ID"
// @Success 200 {object} provider.TitleProviders
// @Failure 404 {object} map[string]string "Title Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /titles/{id}/providers [get]
func (h *Handler) HandleTitleProviders(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid title id"})
	}

	report, err := h.service.ForTitle(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "title not found"})
		}
		logger.WithRayID(h.service.logger, c).Error("Provider discovery failed", zap.Int("title_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
