package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tra-capacitacion/inscripciones-api/internal/models"
)

// Column names of the persisted enrollment table. They are part of the store
// contract shared with the spreadsheet consumers, so they stay in Spanish.
var enrollmentColumns = []string{
	"Instructor",
	"Curso",
	"Teórico Virtual (inicio)",
	"Instancia Presencial (inicio)",
}

// CSVStore persists the enrollment ledger as a single CSV file, the same
// contract the original registration sheet used. Writes replace the whole file
// atomically via a temp file and rename.
type CSVStore struct {
	path   string
	logger *zap.Logger
}

// NewCSVStore constructs the file-backed store.
func NewCSVStore(path string, logger *zap.Logger) *CSVStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVStore{path: path, logger: logger}
}

// ReadAll returns every persisted record. A store that has never been written
// reads as an empty ledger, not an error.
func (s *CSVStore) ReadAll(ctx context.Context) ([]models.EnrollmentRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.EnrollmentRecord{}, nil
		}
		return nil, fmt.Errorf("open enrollment store: %w", err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read enrollment store: %w", err)
	}
	if len(rows) == 0 {
		return []models.EnrollmentRecord{}, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		index[strings.TrimSpace(header)] = i
	}
	for _, column := range enrollmentColumns {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("enrollment store missing column %q", column)
		}
	}

	records := make([]models.EnrollmentRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, models.EnrollmentRecord{
			Instructor:   cell(row, index[enrollmentColumns[0]]),
			CourseCode:   cell(row, index[enrollmentColumns[1]]),
			VirtualStart: cell(row, index[enrollmentColumns[2]]),
			OnsiteStart:  cell(row, index[enrollmentColumns[3]]),
		})
	}
	return records, nil
}

// WriteAll durably replaces the ledger with the provided record set.
func (s *CSVStore) WriteAll(ctx context.Context, records []models.EnrollmentRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prepare store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	writer := csv.NewWriter(tmp)
	if err := writer.Write(enrollmentColumns); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write store header: %w", err)
	}
	for _, record := range records {
		row := []string{record.Instructor, record.CourseCode, record.VirtualStart, record.OnsiteStart}
		if err := writer.Write(row); err != nil {
			tmp.Close() //nolint:errcheck
			return fmt.Errorf("write store row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("flush store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}

	s.logger.Debug("enrollment store written", zap.String("path", s.path), zap.Int("records", len(records)))
	return nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
