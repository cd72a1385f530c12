package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tra-capacitacion/inscripciones-api/internal/models"
	appErrors "github.com/tra-capacitacion/inscripciones-api/pkg/errors"
	"github.com/tra-capacitacion/inscripciones-api/pkg/export"
)

// Export formats supported for the enrollment roster.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

var rosterHeaders = []string{"Instructor", "Curso", "Teórico Virtual (inicio)", "Instancia Presencial (inicio)"}

type rosterSource interface {
	List(ctx context.Context) ([]models.EnrollmentRecord, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type csvRenderer interface {
	Render(roster export.Roster) ([]byte, error)
}

type pdfRenderer interface {
	Render(roster export.Roster, title string) ([]byte, error)
}

// ExportResult carries a rendered roster ready for download.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the current enrollment ledger as CSV or PDF and keeps
// an audit copy under the export directory.
type ExportService struct {
	ledger  rosterSource
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService. storage may be nil, in which
// case no audit copy is kept.
func NewExportService(ledger rosterSource, storage fileStorage, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{ledger: ledger, storage: storage, csv: csv, pdf: pdf, logger: logger}
}

// Roster renders the full ledger in the requested format.
func (s *ExportService) Roster(ctx context.Context, format string) (*ExportResult, error) {
	records, err := s.ledger.List(ctx)
	if err != nil {
		return nil, err
	}

	roster := export.Roster{Headers: rosterHeaders, Rows: make([][]string, 0, len(records))}
	for _, record := range records {
		roster.Rows = append(roster.Rows, []string{record.Instructor, record.CourseCode, record.VirtualStart, record.OnsiteStart})
	}

	var (
		data        []byte
		contentType string
	)
	switch strings.ToLower(format) {
	case FormatCSV, "":
		format = FormatCSV
		contentType = "text/csv"
		data, err = s.csv.Render(roster)
	case FormatPDF:
		contentType = "application/pdf"
		data, err = s.pdf.Render(roster, "Inscripciones Instructores TRA")
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}

	filename := fmt.Sprintf("inscripciones-%s-%s.%s", time.Now().UTC().Format("20060102-150405"), shortID(), format)
	if s.storage != nil {
		if _, err := s.storage.Save(filename, data); err != nil {
			s.logger.Warn("failed to keep export audit copy", zap.String("filename", filename), zap.Error(err))
		}
	}

	return &ExportResult{Filename: filename, ContentType: contentType, Data: data}, nil
}

func shortID() string {
	return uuid.NewString()[:8]
}
