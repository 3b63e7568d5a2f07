package estadisticas

import (
	"pjstats/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the sync operations over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/", h.HandleRun)
	group.Post("/sheet", h.HandleSyncSheet)
	group.Get("/status", h.HandleStatus)
	group.Get("/sheet/:id/synced", h.HandleIsSynced)
}

type runRequest struct {
	// Sheets optionally restricts the run to the named sheets.
	Sheets []string `json:"sheets"`
}

// HandleRun triggers a full sync run.
// @Summary Run Sync
// @Description Discover, fetch, parse and reconcile all valid sheets. Optionally restricted to named sheets.
// @Tags sync
// @Accept json
// @Produce json
// @Success 200 {object} models.SyncRunResult "Run result"
// @Failure 500 {object} map[string]string "Fatal error (credentials, workbook access)"
// @Router /sync [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req runRequest
	// Body is optional; an empty body means a full discovery run.
	_ = c.BodyParser(&req)

	result, err := h.service.Run(c.Context(), req.Sheets)
	if err != nil {
		l.Error("Sync run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(result)
}

type syncSheetRequest struct {
	SourceID   string `json:"source_id"`
	Period     string `json:"period"`
	Dependency string `json:"dependency"`
}

// HandleSyncSheet ingests a single referenced document out of band.
// @Summary Sync Single Sheet
// @Description Fetch and reconcile one referenced document for a known dependency and period.
// @Tags sync
// @Accept json
// @Produce json
// @Success 200 {object} models.SingleSheetResult "Outcome"
// @Failure 400 {object} map[string]string "Bad request"
// @Router /sync/sheet [post]
func (h *Handler) HandleSyncSheet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req syncSheetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.SourceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "source_id is required"})
	}

	result := h.service.SyncSingleSheet(c.Context(), req.SourceID, req.Period, req.Dependency)
	if !result.Success {
		l.Warn("Single sheet sync failed", zap.String("message", result.Message))
	}
	return c.JSON(result)
}

// HandleStatus reports whether the sheets API is reachable.
// @Summary Connection Status
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]bool "Connection state"
// @Router /sync/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"connected": h.service.TestConnection(c.Context()),
	})
}

// HandleIsSynced reports whether a source document was already ingested.
// @Summary Is Sheet Synced
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]bool "Synced state"
// @Router /sync/sheet/{id}/synced [get]
func (h *Handler) HandleIsSynced(c *fiber.Ctx) error {
	synced, err := h.service.IsSheetAlreadySynced(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"synced": synced})
}
