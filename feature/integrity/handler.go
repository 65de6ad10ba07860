package integrity

import (
	"game-catalog/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/storage", h.HandleStorageCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the schema and storage checks.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]any)

	if schemaReport, err := h.service.CheckSchema(ctx); err != nil {
		report["schema"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schemaReport
	}
	report["storage"] = h.service.CheckStorage(ctx)

	return c.JSON(report)
}

// HandleSchemaCheck checks the catalog schema.
// @Summary Check Schema
// @Description Checks that every catalog table exists with every mapped column.
// @Tags integrity
// @Produce json
// @Success 200 {object} integrity.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema(c.Context())
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Schema drift detected")
	}
	return c.JSON(report)
}

// HandleStorageCheck checks object storage.
// @Summary Check Storage
// @Description Checks the bucket and the provider registry document.
// @Tags integrity
// @Produce json
// @Success 200 {object} integrity.StorageReport "Storage Report"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	report := h.service.CheckStorage(c.Context())
	if !report.Healthy() {
		logger.WithRayID(h.service.logger, c).Warn("Storage check failed", zap.Strings("errors", report.Errors))
	}
	return c.JSON(report)
}
