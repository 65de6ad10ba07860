package media

import (
	"errors"

	"game-catalog/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for product media.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the media routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/products/:id/media", h.HandleProductMedia)
}

// HandleProductMedia returns the ranked media of a product.
// @Summary Product Media
// @Description Primary image, cover, primary video, gallery and trailers aggregated across providers.
// @Tags media
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} media.View
// @Failure 404 {object} map[string]string "Product Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /products/{id}/media [get]
func (h *Handler) HandleProductMedia(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}

	view, err := h.service.ProductMedia(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		logger.WithRayID(h.service.logger, c).Error("Media view failed", zap.Int("product_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(view)
}
