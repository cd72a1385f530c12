package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/tra-capacitacion/inscripciones-api/internal/models"
	appErrors "github.com/tra-capacitacion/inscripciones-api/pkg/errors"
)

type fakeEligibilityService struct {
	instructors []string
	courses     []string
	instances   []models.CourseInstance
	err         error

	gotName string
	gotCode string
	gotYear int
}

func (f *fakeEligibilityService) Instructors(ctx context.Context) ([]string, error) {
	return f.instructors, f.err
}

func (f *fakeEligibilityService) CoursesForInstructor(ctx context.Context, name string) ([]string, error) {
	f.gotName = name
	return f.courses, f.err
}

func (f *fakeEligibilityService) InstancesForCourse(ctx context.Context, courseCode string, year int) ([]models.CourseInstance, error) {
	f.gotCode = courseCode
	f.gotYear = year
	return f.instances, f.err
}

func buildInstructorRouter(svc *fakeEligibilityService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewInstructorHandler(svc)
	router := gin.New()
	router.GET("/instructors", h.List)
	router.GET("/instructors/:name/courses", h.Courses)
	return router
}

func TestInstructorRoutes(t *testing.T) {
	t.Run("list success", func(t *testing.T) {
		router := buildInstructorRouter(&fakeEligibilityService{instructors: []string{"Ana Pérez", "Luis Núñez"}})

		req, _ := http.NewRequest(http.MethodGet, "/instructors", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), "Ana Pérez")
	})

	t.Run("courses success", func(t *testing.T) {
		svc := &fakeEligibilityService{courses: []string{"TRA-101", "TRA-202"}}
		router := buildInstructorRouter(svc)

		req, _ := http.NewRequest(http.MethodGet, "/instructors/Ana%20P%C3%A9rez/courses", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Equal(t, "Ana Pérez", svc.gotName)
		require.Contains(t, resp.Body.String(), "TRA-202")
	})

	t.Run("courses empty set", func(t *testing.T) {
		router := buildInstructorRouter(&fakeEligibilityService{courses: []string{}})

		req, _ := http.NewRequest(http.MethodGet, "/instructors/Nadie/courses", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusNotFound, resp.Code)
		require.Contains(t, resp.Body.String(), appErrors.ErrNoEligibleCourses.Code)
	})

	t.Run("courses snapshot failure", func(t *testing.T) {
		router := buildInstructorRouter(&fakeEligibilityService{err: appErrors.ErrDataFormat})

		req, _ := http.NewRequest(http.MethodGet, "/instructors/Ana/courses", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		require.Contains(t, resp.Body.String(), appErrors.ErrDataFormat.Code)
	})
}
