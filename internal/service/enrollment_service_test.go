package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tra-capacitacion/inscripciones-api/internal/models"
	appErrors "github.com/tra-capacitacion/inscripciones-api/pkg/errors"
)

type memStore struct {
	mu        sync.Mutex
	records   []models.EnrollmentRecord
	readDelay time.Duration
	writeErr  error
	reads     int
}

func (s *memStore) ReadAll(ctx context.Context) ([]models.EnrollmentRecord, error) {
	s.mu.Lock()
	out := make([]models.EnrollmentRecord, len(s.records))
	copy(out, s.records)
	s.reads++
	s.mu.Unlock()

	if s.readDelay > 0 {
		time.Sleep(s.readDelay)
	}
	return out, nil
}

func (s *memStore) WriteAll(ctx context.Context, records []models.EnrollmentRecord) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]models.EnrollmentRecord, len(records))
	copy(s.records, records)
	return nil
}

type stubEligibility struct {
	courses   map[string][]string
	instances []models.CourseInstance
}

func (s *stubEligibility) CoursesForInstructor(ctx context.Context, name string) ([]string, error) {
	return s.courses[name], nil
}

func (s *stubEligibility) InstancesForCourse(ctx context.Context, courseCode string, year int) ([]models.CourseInstance, error) {
	matched := []models.CourseInstance{}
	for _, instance := range s.instances {
		if instance.CourseCode == courseCode {
			matched = append(matched, instance)
		}
	}
	return matched, nil
}

func newTestEnrollmentService(store *memStore) *EnrollmentService {
	eligibility := &stubEligibility{
		courses: map[string][]string{
			"Ana Pérez":  {"TRA-101", "TRA-202"},
			"Luis Núñez": {"TRA-101"},
			"María Sol":  {"TRA-101"},
		},
		instances: []models.CourseInstance{
			{CourseCode: "TRA-101", Year: yearPtr(2026), VirtualStart: "01/03/2026", OnsiteStart: "20/03/2026"},
			{CourseCode: "TRA-101", Year: yearPtr(2026), VirtualStart: "05/06/2026", OnsiteStart: "19/06/2026"},
			{CourseCode: "TRA-202", Year: yearPtr(2026), VirtualStart: "10/04/2026", OnsiteStart: "25/04/2026"},
		},
	}
	return NewEnrollmentService(store, eligibility, nil, nil, nil, 2026, 2)
}

func requireAppErrCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected app error, got %v", err)
	require.Equal(t, code, appErr.Code)
}

func TestEnrollAcceptsAndPersists(t *testing.T) {
	store := &memStore{}
	svc := newTestEnrollmentService(store)

	record, err := svc.Enroll(context.Background(), EnrollRequest{
		Instructor:   " Ana Pérez ",
		CourseCode:   "TRA-101",
		VirtualStart: "01/03/2026",
		OnsiteStart:  "20/03/2026",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", record.Instructor)
	assert.Equal(t, "TRA-101", record.CourseCode)

	require.Len(t, store.records, 1)
	assert.Equal(t, *record, store.records[0])
}

func TestEnrollRejectsMissingFields(t *testing.T) {
	svc := newTestEnrollmentService(&memStore{})

	_, err := svc.Enroll(context.Background(), EnrollRequest{Instructor: "Ana Pérez"})
	requireAppErrCode(t, err, appErrors.ErrValidation.Code)
}

func TestEnrollRejectsUnauthorizedCourse(t *testing.T) {
	svc := newTestEnrollmentService(&memStore{})

	_, err := svc.Enroll(context.Background(), EnrollRequest{
		Instructor:   "Luis Núñez",
		CourseCode:   "TRA-202",
		VirtualStart: "10/04/2026",
		OnsiteStart:  "25/04/2026",
	})
	requireAppErrCode(t, err, appErrors.ErrCourseNotAuthorized.Code)
}

func TestEnrollRejectsUnknownInstance(t *testing.T) {
	svc := newTestEnrollmentService(&memStore{})

	_, err := svc.Enroll(context.Background(), EnrollRequest{
		Instructor:   "Ana Pérez",
		CourseCode:   "TRA-101",
		VirtualStart: "31/12/2026",
		OnsiteStart:  "31/12/2026",
	})
	requireAppErrCode(t, err, appErrors.ErrInstanceNotFound.Code)
}

func TestEnrollEnforcesInstanceCapacity(t *testing.T) {
	store := &memStore{records: []models.EnrollmentRecord{
		{Instructor: "Ana Pérez", CourseCode: "TRA-101", VirtualStart: "01/03/2026", OnsiteStart: "20/03/2026"},
		{Instructor: "Luis Núñez", CourseCode: "TRA-101", VirtualStart: "01/03/2026", OnsiteStart: "20/03/2026"},
	}}
	svc := newTestEnrollmentService(store)

	_, err := svc.Enroll(context.Background(), EnrollRequest{
		Instructor:   "María Sol",
		CourseCode:   "TRA-101",
		VirtualStart: "01/03/2026",
		OnsiteStart:  "20/03/2026",
	})
	requireAppErrCode(t, err, appErrors.ErrCapacityExceeded.Code)
	assert.Len(t, store.records, 2)
}

func TestEnrollCapacityCheckedBeforeDuplicate(t *testing.T) {
	// Ana already holds a seat in the full instance. The capacity verdict must
	// win over the duplicate verdict for a repeat attempt at the same instance.
	store := &memStore{records: []models.EnrollmentRecord{
		{Instructor: "Ana Pérez", CourseCode: "TRA-101", VirtualStart: "01/03/2026", OnsiteStart: "20/03/2026"},
		{Instructor: "Luis Núñez", CourseCode: "TRA-101", VirtualStart: "01/03/2026", OnsiteStart: "20/03/2026"},
	}}
	svc := newTestEnrollmentService(store)

	_, err := svc.Enroll(context.Background(), EnrollRequest{
		Instructor:   "Ana Pérez",
		CourseCode:   "TRA-101",
		VirtualStart: "01/03/2026",
		OnsiteStart:  "20/03/2026",
	})
	requireAppErrCode(t, err, appErrors.ErrCapacityExceeded.Code)
}

func TestEnrollRejectsDuplicateAcrossInstancesOfSameCourse(t *testing.T) {
	store := &memStore{records: []models.EnrollmentRecord{
		{Instructor: "ANA PEREZ", CourseCode: "TRA-101", VirtualStart: "01/03/2026", OnsiteStart: "20/03/2026"},
	}}
	svc := newTestEnrollmentService(store)

	_, err := svc.Enroll(context.Background(), EnrollRequest{
		Instructor:   "Ana Pérez",
		CourseCode:   "TRA-101",
		VirtualStart: "05/06/2026",
		OnsiteStart:  "19/06/2026",
	})
	requireAppErrCode(t, err, appErrors.ErrDuplicateEnrollment.Code)
	assert.Len(t, store.records, 1)
}

func TestEnrollAllowsSameInstructorDifferentCourse(t *testing.T) {
	store := &memStore{records: []models.EnrollmentRecord{
		{Instructor: "Ana Pérez", CourseCode: "TRA-101", VirtualStart: "01/03/2026", OnsiteStart: "20/03/2026"},
	}}
	svc := newTestEnrollmentService(store)

	_, err := svc.Enroll(context.Background(), EnrollRequest{
		Instructor:   "Ana Pérez",
		CourseCode:   "TRA-202",
		VirtualStart: "10/04/2026",
		OnsiteStart:  "25/04/2026",
	})
	require.NoError(t, err)
	assert.Len(t, store.records, 2)
}

func TestEnrollPersistenceFailureLeavesLedgerIntact(t *testing.T) {
	store := &memStore{writeErr: errors.New("disk full")}
	svc := newTestEnrollmentService(store)

	_, err := svc.Enroll(context.Background(), EnrollRequest{
		Instructor:   "Ana Pérez",
		CourseCode:   "TRA-101",
		VirtualStart: "01/03/2026",
		OnsiteStart:  "20/03/2026",
	})
	requireAppErrCode(t, err, appErrors.ErrPersistence.Code)
	assert.Empty(t, store.records)

	// Next attempt succeeds once the store recovers.
	store.writeErr = nil
	_, err = svc.Enroll(context.Background(), EnrollRequest{
		Instructor:   "Ana Pérez",
		CourseCode:   "TRA-101",
		VirtualStart: "01/03/2026",
		OnsiteStart:  "20/03/2026",
	})
	require.NoError(t, err)
	assert.Len(t, store.records, 1)
}

func TestEnrollConcurrentAttemptsAtLastSlot(t *testing.T) {
	store := &memStore{
		records: []models.EnrollmentRecord{
			{Instructor: "Ana Pérez", CourseCode: "TRA-101", VirtualStart: "01/03/2026", OnsiteStart: "20/03/2026"},
		},
		readDelay: 5 * time.Millisecond,
	}
	svc := newTestEnrollmentService(store)

	attempts := []string{"Luis Núñez", "María Sol"}
	results := make([]error, len(attempts))
	var wg sync.WaitGroup
	for i, instructor := range attempts {
		wg.Add(1)
		go func(i int, instructor string) {
			defer wg.Done()
			_, results[i] = svc.Enroll(context.Background(), EnrollRequest{
				Instructor:   instructor,
				CourseCode:   "TRA-101",
				VirtualStart: "01/03/2026",
				OnsiteStart:  "20/03/2026",
			})
		}(i, instructor)
	}
	wg.Wait()

	accepted, rejected := 0, 0
	for _, err := range results {
		if err == nil {
			accepted++
			continue
		}
		requireAppErrCode(t, err, appErrors.ErrCapacityExceeded.Code)
		rejected++
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, rejected)
	assert.Len(t, store.records, 2)
}
