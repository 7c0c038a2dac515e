package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantlab/sandbox-backend-go/internal/models"
	"github.com/quantlab/sandbox-backend-go/internal/service"
	"github.com/quantlab/sandbox-backend-go/pkg/response"
)

// SweepHandler handles HTTP requests for sweep definitions
type SweepHandler struct {
	service *service.SweepService
}

// NewSweepHandler creates a new sweep handler
func NewSweepHandler(service *service.SweepService) *SweepHandler {
	return &SweepHandler{service: service}
}

// CreateSweep handles POST /api/v1/sweeps
func (h *SweepHandler) CreateSweep(c *gin.Context) {
	var req models.CreateSweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Params) == 0 {
		response.Error(c, http.StatusBadRequest, "At least one parameter spec is required", nil)
		return
	}

	sweep, err := h.service.Create(req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to create sweep", err)
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Code:    0,
		Message: "success",
		Data:    sweep,
	})
}

// ListSweeps handles GET /api/v1/sweeps
func (h *SweepHandler) ListSweeps(c *gin.Context) {
	var filter models.SweepFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	sweeps, err := h.service.List(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list sweeps", err)
		return
	}

	response.Success(c, gin.H{
		"data":  sweeps,
		"count": len(sweeps),
	})
}

// GetSweep handles GET /api/v1/sweeps/:id
func (h *SweepHandler) GetSweep(c *gin.Context) {
	sweep, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get sweep", err)
		return
	}
	if sweep == nil {
		response.NotFound(c, "Sweep not found")
		return
	}

	response.Success(c, sweep)
}

// DeleteSweep handles DELETE /api/v1/sweeps/:id
func (h *SweepHandler) DeleteSweep(c *gin.Context) {
	err := h.service.Delete(c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		response.NotFound(c, "Sweep not found")
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to delete sweep", err)
		return
	}

	response.Success(c, nil)
}

// GetSweepResults handles GET /api/v1/sweeps/:id/results
func (h *SweepHandler) GetSweepResults(c *gin.Context) {
	var filter models.ResultFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	sweep, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get sweep", err)
		return
	}
	if sweep == nil {
		response.NotFound(c, "Sweep not found")
		return
	}

	results, err := h.service.Results(sweep.ID, filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get results", err)
		return
	}

	response.Success(c, gin.H{
		"data":  results,
		"count": len(results),
	})
}
