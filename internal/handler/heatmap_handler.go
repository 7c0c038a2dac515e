package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantlab/sandbox-backend-go/internal/heatmap"
	"github.com/quantlab/sandbox-backend-go/internal/models"
	"github.com/quantlab/sandbox-backend-go/internal/service"
	"github.com/quantlab/sandbox-backend-go/pkg/response"
)

// HeatMapHandler handles HTTP requests for heatmap builds
type HeatMapHandler struct {
	service *service.HeatMapService
}

// NewHeatMapHandler creates a new heatmap handler
func NewHeatMapHandler(service *service.HeatMapService) *HeatMapHandler {
	return &HeatMapHandler{service: service}
}

// BuildHeatMap handles POST /api/v1/sweeps/:id/heatmap.
// The body carries the projection config and the caller's zoom stack;
// a null matrix in the response means no results survived filtering.
func (h *HeatMapHandler) BuildHeatMap(c *gin.Context) {
	var req models.HeatMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	matrix, err := h.service.Build(c.Param("id"), req)
	if errors.Is(err, service.ErrSweepNotFound) {
		response.NotFound(c, "Sweep not found")
		return
	}
	if errors.Is(err, heatmap.ErrInvalidConfig) {
		response.Error(c, http.StatusBadRequest, "Invalid heatmap config", err)
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to build heatmap", err)
		return
	}

	response.Success(c, gin.H{
		"matrix": matrix,
	})
}
