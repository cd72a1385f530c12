package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tra-capacitacion/inscripciones-api/internal/models"
	appErrors "github.com/tra-capacitacion/inscripciones-api/pkg/errors"
	"github.com/tra-capacitacion/inscripciones-api/pkg/response"
)

type eligibilityService interface {
	Instructors(ctx context.Context) ([]string, error)
	CoursesForInstructor(ctx context.Context, name string) ([]string, error)
	InstancesForCourse(ctx context.Context, courseCode string, year int) ([]models.CourseInstance, error)
}

// InstructorHandler exposes the instructor selection endpoints.
type InstructorHandler struct {
	eligibility eligibilityService
}

// NewInstructorHandler constructs InstructorHandler.
func NewInstructorHandler(eligibility eligibilityService) *InstructorHandler {
	return &InstructorHandler{eligibility: eligibility}
}

// List godoc
// @Summary List instructor names
// @Tags Instructors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /instructors [get]
func (h *InstructorHandler) List(c *gin.Context) {
	names, err := h.eligibility.Instructors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, names)
}

// Courses godoc
// @Summary Courses an instructor is authorized to register for
// @Tags Instructors
// @Produce json
// @Param name path string true "Instructor display name"
// @Success 200 {object} response.Envelope
// @Router /instructors/{name}/courses [get]
func (h *InstructorHandler) Courses(c *gin.Context) {
	courses, err := h.eligibility.CoursesForInstructor(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(courses) == 0 {
		// Valid terminal outcome, surfaced as an informational rejection.
		response.Error(c, appErrors.ErrNoEligibleCourses)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}
