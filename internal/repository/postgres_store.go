package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tra-capacitacion/inscripciones-api/internal/models"
)

// PostgresStore persists the enrollment ledger in a relational table with the
// same four-column shape as the CSV contract. WriteAll replaces the visible
// record set inside a transaction, matching the full-replace semantics the
// validation sequence relies on.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs the store.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ReadAll returns every persisted record.
func (s *PostgresStore) ReadAll(ctx context.Context) ([]models.EnrollmentRecord, error) {
	const query = `SELECT instructor, course_code, virtual_start, onsite_start FROM inscripciones`
	records := []models.EnrollmentRecord{}
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("read enrollments: %w", err)
	}
	return records, nil
}

// WriteAll atomically replaces the ledger with the provided record set.
func (s *PostgresStore) WriteAll(ctx context.Context, records []models.EnrollmentRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enrollment write: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM inscripciones`); err != nil {
		return fmt.Errorf("clear enrollments: %w", err)
	}

	const insert = `INSERT INTO inscripciones (instructor, course_code, virtual_start, onsite_start) VALUES ($1, $2, $3, $4)`
	for _, record := range records {
		if _, err := tx.ExecContext(ctx, insert, record.Instructor, record.CourseCode, record.VirtualStart, record.OnsiteStart); err != nil {
			return fmt.Errorf("insert enrollment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit enrollment write: %w", err)
	}
	return nil
}
