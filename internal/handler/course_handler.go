package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/tra-capacitacion/inscripciones-api/pkg/errors"
	"github.com/tra-capacitacion/inscripciones-api/pkg/response"
)

// CourseHandler exposes the instance selection endpoint.
type CourseHandler struct {
	eligibility eligibilityService
	targetYear  int
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(eligibility eligibilityService, targetYear int) *CourseHandler {
	return &CourseHandler{eligibility: eligibility, targetYear: targetYear}
}

// Instances godoc
// @Summary Scheduled instances of a course for a year
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Param year query int false "Target year (defaults to the configured registration year)"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/instances [get]
func (h *CourseHandler) Instances(c *gin.Context) {
	year := h.targetYear
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be an integer"))
			return
		}
		year = parsed
	}

	instances, err := h.eligibility.InstancesForCourse(c.Request.Context(), c.Param("code"), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(instances) == 0 {
		response.Error(c, appErrors.ErrNoInstancesForYear)
		return
	}
	response.JSON(c, http.StatusOK, instances, map[string]interface{}{"year": year})
}
