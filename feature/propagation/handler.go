package propagation

import (
	"errors"

	"game-catalog/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP ingestion of source records.
type Handler struct {
	recorder *Recorder
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(recorder *Recorder, logger *zap.Logger) *Handler {
	return &Handler{recorder: recorder, logger: logger}
}

// RegisterRoutes registers the ingestion routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sources")
	group.Post("/", h.HandleUpsertSource)
	group.Delete("/:id", h.HandleDeleteSource)
	group.Post("/:id/restore", h.HandleRestoreSource)
}

// HandleUpsertSource creates or updates a source record keyed by provider and
// external id. Propagation runs asynchronously.
// @Summary Ingest Source Record
// @Tags sources
// @Accept json
// @Produce json
// @Param source body propagation.SourceInput true "Source record"
// @Success 201 {object} catalog.SourceRecord "Created"
// @Success 200 {object} catalog.SourceRecord "Updated"
// @Failure 400 {object} map[string]string "Invalid Input"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sources [post]
func (h *Handler) HandleUpsertSource(c *fiber.Ctx) error {
	var in SourceInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	rec, created, err := h.recorder.Upsert(c.Context(), in)
	if err != nil {
		return h.fail(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(rec)
}

// HandleDeleteSource soft deletes a source record.
// @Summary Delete Source Record
// @Tags sources
// @Param id path int true "Source ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /sources/{id} [delete]
func (h *Handler) HandleDeleteSource(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid source id"})
	}
	if err := h.recorder.Delete(c.Context(), uint(id)); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRestoreSource restores a soft deleted source record and re-runs
// propagation.
// @Summary Restore Source Record
// @Tags sources
// @Produce json
// @Param id path int true "Source ID"
// @Success 200 {object} catalog.SourceRecord
// @Failure 404 {object} map[string]string "Not Found"
// @Router /sources/{id}/restore [post]
func (h *Handler) HandleRestoreSource(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid source id"})
	}
	rec, err := h.recorder.Restore(c.Context(), uint(id))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(rec)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvalidSource):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrSourceNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.logger, c).Error("Source ingestion failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
