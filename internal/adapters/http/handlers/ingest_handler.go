package handlers

import (
	"creditline/internal/core/services"
	"creditline/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// IngestHandler handles bulk ingestion endpoints
type IngestHandler struct {
	ingestService *services.IngestService
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(ingestService *services.IngestService) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
	}
}

// Trigger runs the spreadsheet ingestion now
// @Summary Trigger ingestion
// @Description Ingest customer and loan spreadsheets from the data directory
// @Tags Ingestion
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /ingest [post]
func (h *IngestHandler) Trigger(c *fiber.Ctx) error {
	reports, err := h.ingestService.RunAll(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Ingestion failed: "+err.Error())
	}

	return response.Success(c, "Ingestion completed", fiber.Map{
		"reports": reports,
	})
}
