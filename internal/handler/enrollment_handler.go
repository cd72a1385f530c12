package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tra-capacitacion/inscripciones-api/internal/models"
	"github.com/tra-capacitacion/inscripciones-api/internal/service"
	appErrors "github.com/tra-capacitacion/inscripciones-api/pkg/errors"
	"github.com/tra-capacitacion/inscripciones-api/pkg/response"
)

type enrollmentService interface {
	List(ctx context.Context) ([]models.EnrollmentRecord, error)
	Enroll(ctx context.Context, req service.EnrollRequest) (*models.EnrollmentRecord, error)
}

type exportService interface {
	Roster(ctx context.Context, format string) (*service.ExportResult, error)
}

// EnrollmentHandler exposes the enrollment ledger endpoints.
type EnrollmentHandler struct {
	enrollments enrollmentService
	exports     exportService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService, exports exportService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, exports: exports}
}

// List godoc
// @Summary List confirmed enrollments
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	records, err := h.enrollments.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"count": len(records)})
}

// Create godoc
// @Summary Confirm an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.EnrollRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.enrollments.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Export godoc
// @Summary Download the enrollment roster
// @Tags Enrollments
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} byte
// @Router /enrollments/export [get]
func (h *EnrollmentHandler) Export(c *gin.Context) {
	result, err := h.exports.Roster(c.Request.Context(), c.DefaultQuery("format", service.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
