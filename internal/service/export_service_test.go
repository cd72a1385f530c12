package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tra-capacitacion/inscripciones-api/internal/models"
	appErrors "github.com/tra-capacitacion/inscripciones-api/pkg/errors"
)

type stubLedger struct {
	records []models.EnrollmentRecord
	err     error
}

func (s *stubLedger) List(ctx context.Context) ([]models.EnrollmentRecord, error) {
	return s.records, s.err
}

type captureStorage struct {
	filename string
	size     int
}

func (s *captureStorage) Save(filename string, data []byte) (string, error) {
	s.filename = filename
	s.size = len(data)
	return filename, nil
}

func TestRosterCSV(t *testing.T) {
	ledger := &stubLedger{records: []models.EnrollmentRecord{
		{Instructor: "Ana Pérez", CourseCode: "TRA-101", VirtualStart: "01/03/2026", OnsiteStart: "20/03/2026"},
	}}
	svc := NewExportService(ledger, nil, nil, nil, nil)

	result, err := svc.Roster(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	body := string(result.Data)
	assert.Contains(t, body, "Instructor,Curso")
	assert.Contains(t, body, "Ana Pérez,TRA-101,01/03/2026,20/03/2026")
}

func TestRosterDefaultsToCSV(t *testing.T) {
	svc := NewExportService(&stubLedger{}, nil, nil, nil, nil)

	result, err := svc.Roster(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
}

func TestRosterPDF(t *testing.T) {
	ledger := &stubLedger{records: []models.EnrollmentRecord{
		{Instructor: "Ana Pérez", CourseCode: "TRA-101", VirtualStart: "01/03/2026", OnsiteStart: "20/03/2026"},
	}}
	svc := NewExportService(ledger, nil, nil, nil, nil)

	result, err := svc.Roster(context.Background(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Data), "%PDF"))
}

func TestRosterUnsupportedFormat(t *testing.T) {
	svc := NewExportService(&stubLedger{}, nil, nil, nil, nil)

	_, err := svc.Roster(context.Background(), "xlsx")
	requireAppErrCode(t, err, appErrors.ErrValidation.Code)
}

func TestRosterKeepsAuditCopy(t *testing.T) {
	storage := &captureStorage{}
	svc := NewExportService(&stubLedger{}, storage, nil, nil, nil)

	result, err := svc.Roster(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, result.Filename, storage.filename)
	assert.Equal(t, len(result.Data), storage.size)
}
