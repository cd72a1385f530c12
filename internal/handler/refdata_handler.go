package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tra-capacitacion/inscripciones-api/internal/models"
	"github.com/tra-capacitacion/inscripciones-api/internal/service"
	"github.com/tra-capacitacion/inscripciones-api/pkg/response"
)

type refdataService interface {
	Refresh(ctx context.Context) (*models.ReferenceSnapshot, error)
	Status(ctx context.Context) service.RefDataStatus
}

// RefDataHandler exposes the reference data admin endpoints.
type RefDataHandler struct {
	refdata refdataService
}

// NewRefDataHandler constructs RefDataHandler.
func NewRefDataHandler(refdata refdataService) *RefDataHandler {
	return &RefDataHandler{refdata: refdata}
}

// Refresh godoc
// @Summary Reload the reference tables from their sources
// @Tags Reference Data
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /refdata/refresh [post]
func (h *RefDataHandler) Refresh(c *gin.Context) {
	if _, err := h.refdata.Refresh(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.refdata.Status(c.Request.Context()))
}

// Status godoc
// @Summary Reference data snapshot status
// @Tags Reference Data
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /refdata/status [get]
func (h *RefDataHandler) Status(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.refdata.Status(c.Request.Context()))
}
