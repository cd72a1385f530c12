package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/tra-capacitacion/inscripciones-api/internal/models"
	"github.com/tra-capacitacion/inscripciones-api/internal/service"
	appErrors "github.com/tra-capacitacion/inscripciones-api/pkg/errors"
)

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

type fakeEnrollmentService struct {
	records []models.EnrollmentRecord
	listErr error

	enrolled  *models.EnrollmentRecord
	enrollErr error
	gotReq    service.EnrollRequest
}

func (f *fakeEnrollmentService) List(ctx context.Context) ([]models.EnrollmentRecord, error) {
	return f.records, f.listErr
}

func (f *fakeEnrollmentService) Enroll(ctx context.Context, req service.EnrollRequest) (*models.EnrollmentRecord, error) {
	f.gotReq = req
	return f.enrolled, f.enrollErr
}

type fakeExportService struct {
	result *service.ExportResult
	err    error
	format string
}

func (f *fakeExportService) Roster(ctx context.Context, format string) (*service.ExportResult, error) {
	f.format = format
	return f.result, f.err
}

func buildEnrollmentRouter(enrollments *fakeEnrollmentService, exports *fakeExportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewEnrollmentHandler(enrollments, exports)
	router := gin.New()
	router.GET("/enrollments", h.List)
	router.POST("/enrollments", h.Create)
	router.GET("/enrollments/export", h.Export)
	return router
}

func TestEnrollmentRoutes(t *testing.T) {
	t.Run("list success", func(t *testing.T) {
		svc := &fakeEnrollmentService{records: []models.EnrollmentRecord{
			{Instructor: "Ana Pérez", CourseCode: "TRA-101", VirtualStart: "01/03/2026", OnsiteStart: "20/03/2026"},
		}}
		router := buildEnrollmentRouter(svc, &fakeExportService{})

		req, _ := http.NewRequest(http.MethodGet, "/enrollments", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"course_code":"TRA-101"`)
		require.Contains(t, resp.Body.String(), `"count":1`)
	})

	t.Run("create success", func(t *testing.T) {
		svc := &fakeEnrollmentService{enrolled: &models.EnrollmentRecord{
			Instructor: "Ana Pérez", CourseCode: "TRA-101", VirtualStart: "01/03/2026", OnsiteStart: "20/03/2026",
		}}
		router := buildEnrollmentRouter(svc, &fakeExportService{})

		payload := `{"instructor":"Ana Pérez","course_code":"TRA-101","virtual_start":"01/03/2026","onsite_start":"20/03/2026"}`
		req, _ := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
		require.Equal(t, "Ana Pérez", svc.gotReq.Instructor)
	})

	t.Run("create malformed body", func(t *testing.T) {
		router := buildEnrollmentRouter(&fakeEnrollmentService{}, &fakeExportService{})

		req, _ := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewBufferString(`{not json`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		require.Contains(t, resp.Body.String(), appErrors.ErrValidation.Code)
	})

	t.Run("create capacity exceeded", func(t *testing.T) {
		svc := &fakeEnrollmentService{enrollErr: appErrors.ErrCapacityExceeded}
		router := buildEnrollmentRouter(svc, &fakeExportService{})

		req, _ := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewBufferString(`{"instructor":"Ana","course_code":"TRA-101"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusConflict, resp.Code)
		require.Contains(t, resp.Body.String(), "CAPACITY_EXCEEDED")
	})

	t.Run("create duplicate", func(t *testing.T) {
		svc := &fakeEnrollmentService{enrollErr: appErrors.ErrDuplicateEnrollment}
		router := buildEnrollmentRouter(svc, &fakeExportService{})

		req, _ := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewBufferString(`{"instructor":"Ana","course_code":"TRA-101"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusConflict, resp.Code)
		require.Contains(t, resp.Body.String(), "DUPLICATE_ENROLLMENT")
	})

	t.Run("create not authorized", func(t *testing.T) {
		svc := &fakeEnrollmentService{enrollErr: appErrors.ErrCourseNotAuthorized}
		router := buildEnrollmentRouter(svc, &fakeExportService{})

		req, _ := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewBufferString(`{"instructor":"Ana","course_code":"TRA-999"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("export csv", func(t *testing.T) {
		exports := &fakeExportService{result: &service.ExportResult{
			Filename:    "inscripciones-20260301-120000-abcd1234.csv",
			ContentType: "text/csv",
			Data:        []byte("Instructor,Curso\n"),
		}}
		router := buildEnrollmentRouter(&fakeEnrollmentService{}, exports)

		req, _ := http.NewRequest(http.MethodGet, "/enrollments/export", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Equal(t, service.FormatCSV, exports.format)
		require.Contains(t, resp.Header().Get("Content-Disposition"), "attachment")
		require.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
	})

	t.Run("export forwards format", func(t *testing.T) {
		exports := &fakeExportService{result: &service.ExportResult{
			Filename:    "inscripciones.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.3"),
		}}
		router := buildEnrollmentRouter(&fakeEnrollmentService{}, exports)

		req, _ := http.NewRequest(http.MethodGet, "/enrollments/export?format=pdf", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Equal(t, service.FormatPDF, exports.format)
	})
}
