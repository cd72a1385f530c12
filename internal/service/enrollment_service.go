package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tra-capacitacion/inscripciones-api/internal/models"
	"github.com/tra-capacitacion/inscripciones-api/internal/refdata"
	appErrors "github.com/tra-capacitacion/inscripciones-api/pkg/errors"
)

// EnrollmentStore is the persistence collaborator for the ledger. ReadAll
// returns an empty slice for a store that was never written; WriteAll must be
// atomic full-replace.
type EnrollmentStore interface {
	ReadAll(ctx context.Context) ([]models.EnrollmentRecord, error)
	WriteAll(ctx context.Context, records []models.EnrollmentRecord) error
}

type eligibilityResolver interface {
	CoursesForInstructor(ctx context.Context, name string) ([]string, error)
	InstancesForCourse(ctx context.Context, courseCode string, year int) ([]models.CourseInstance, error)
}

// EnrollRequest describes one enrollment confirmation. The start fields
// identify the chosen instance among those sharing a course code.
type EnrollRequest struct {
	Instructor   string `json:"instructor" validate:"required"`
	CourseCode   string `json:"course_code" validate:"required"`
	VirtualStart string `json:"virtual_start"`
	OnsiteStart  string `json:"onsite_start"`
}

// EnrollmentService owns the enrollment ledger: it enforces the per-instance
// capacity cap and the no-duplicate rule, and persists accepted records.
type EnrollmentService struct {
	store       EnrollmentStore
	eligibility eligibilityResolver
	validator   *validator.Validate
	metrics     *MetricsService
	logger      *zap.Logger
	targetYear  int
	maxCapacity int

	// mu serializes the read-validate-append-persist sequence so two
	// near-simultaneous attempts cannot both pass validation against the
	// same pre-mutation snapshot.
	mu sync.Mutex
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(store EnrollmentStore, eligibility eligibilityResolver, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, targetYear, maxCapacity int) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxCapacity <= 0 {
		maxCapacity = 2
	}
	return &EnrollmentService{
		store:       store,
		eligibility: eligibility,
		validator:   validate,
		metrics:     metrics,
		logger:      logger,
		targetYear:  targetYear,
		maxCapacity: maxCapacity,
	}
}

// List returns all persisted records. An empty ledger is not an error.
func (s *EnrollmentService) List(ctx context.Context) ([]models.EnrollmentRecord, error) {
	start := time.Now()
	records, err := s.store.ReadAll(ctx)
	s.metrics.ObserveStoreOperation("read", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read enrollments")
	}
	return records, nil
}

// Enroll runs the full validate-then-append sequence for one attempt. The
// capacity check runs before the duplicate check; an attempt that would
// overfill an instance must never succeed merely because the instructor is
// already enrolled under a different instance key.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (*models.EnrollmentRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	instructor := strings.TrimSpace(req.Instructor)
	courseCode := strings.TrimSpace(req.CourseCode)

	eligible, err := s.eligibility.CoursesForInstructor(ctx, instructor)
	if err != nil {
		return nil, err
	}
	if !contains(eligible, courseCode) {
		s.metrics.RecordEnrollmentDecision(OutcomeNotAuthorized)
		return nil, appErrors.Clone(appErrors.ErrCourseNotAuthorized, "")
	}

	instance, err := s.resolveInstance(ctx, courseCode, req.VirtualStart, req.OnsiteStart)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-read the committed ledger inside the critical section so the
	// checks see the latest state.
	start := time.Now()
	records, err := s.store.ReadAll(ctx)
	s.metrics.ObserveStoreOperation("read", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read enrollments")
	}

	capacityKey := instance.CapacityKey()
	taken := 0
	for _, record := range records {
		if record.CapacityKey() == capacityKey {
			taken++
		}
	}
	if taken >= s.maxCapacity {
		s.metrics.RecordEnrollmentDecision(OutcomeCapacityExceeded)
		return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, "")
	}

	instructorKey := refdata.NormalizeName(instructor)
	for _, record := range records {
		if record.CourseCode == courseCode && refdata.NormalizeName(record.Instructor) == instructorKey {
			s.metrics.RecordEnrollmentDecision(OutcomeDuplicate)
			return nil, appErrors.Clone(appErrors.ErrDuplicateEnrollment, "")
		}
	}

	record := models.EnrollmentRecord{
		Instructor:   instructor,
		CourseCode:   instance.CourseCode,
		VirtualStart: instance.VirtualStart,
		OnsiteStart:  instance.OnsiteStart,
	}

	start = time.Now()
	err = s.store.WriteAll(ctx, append(records, record))
	s.metrics.ObserveStoreOperation("write", time.Since(start))
	if err != nil {
		// No in-memory state to roll back: the ledger is re-read from the
		// store on every attempt, so a failed write leaves no orphan.
		s.metrics.RecordEnrollmentDecision(OutcomePersistenceFailed)
		s.logger.Error("enrollment persistence failed",
			zap.String("instructor", instructor),
			zap.String("course", courseCode),
			zap.Error(err),
		)
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, appErrors.ErrPersistence.Message)
	}

	s.metrics.RecordEnrollmentDecision(OutcomeAccepted)
	s.logger.Info("enrollment confirmed",
		zap.String("instructor", instructor),
		zap.String("course", record.CourseCode),
		zap.String("virtual_start", record.VirtualStart),
		zap.String("onsite_start", record.OnsiteStart),
	)
	return &record, nil
}

// resolveInstance matches the request against the scheduled instances of the
// course in the target year.
func (s *EnrollmentService) resolveInstance(ctx context.Context, courseCode, virtualStart, onsiteStart string) (*models.CourseInstance, error) {
	instances, err := s.eligibility.InstancesForCourse(ctx, courseCode, s.targetYear)
	if err != nil {
		return nil, err
	}
	for i := range instances {
		if instances[i].VirtualStart == strings.TrimSpace(virtualStart) && instances[i].OnsiteStart == strings.TrimSpace(onsiteStart) {
			return &instances[i], nil
		}
	}
	s.metrics.RecordEnrollmentDecision(OutcomeInstanceNotFound)
	return nil, appErrors.Clone(appErrors.ErrInstanceNotFound, "")
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
