package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/tra-capacitacion/inscripciones-api/internal/models"
	"github.com/tra-capacitacion/inscripciones-api/internal/refdata"
)

type referenceProvider interface {
	Snapshot(ctx context.Context) (*models.ReferenceSnapshot, error)
}

// EligibilityService answers the two read-only queries that drive selection:
// which courses an instructor may register for, and which instances of a
// course are scheduled in a given year.
type EligibilityService struct {
	refdata referenceProvider
	logger  *zap.Logger
}

// NewEligibilityService constructs the service.
func NewEligibilityService(refdata referenceProvider, logger *zap.Logger) *EligibilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibilityService{refdata: refdata, logger: logger}
}

// Instructors returns the sorted distinct display names from the
// authorization table, driving the name selection in the form.
func (s *EligibilityService) Instructors(ctx context.Context) ([]string, error) {
	snap, err := s.refdata.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(snap.Authorizations))
	names := make([]string, 0, len(snap.Authorizations))
	for _, auth := range snap.Authorizations {
		if _, ok := seen[auth.InstructorName]; ok {
			continue
		}
		seen[auth.InstructorName] = struct{}{}
		names = append(names, auth.InstructorName)
	}
	sort.Strings(names)
	return names, nil
}

// CoursesForInstructor returns the union of authorized course codes across
// every authorization row matching the normalized name. An empty result is a
// valid terminal outcome, not an error.
func (s *EligibilityService) CoursesForInstructor(ctx context.Context, name string) ([]string, error) {
	snap, err := s.refdata.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := refdata.NormalizeName(name)
	seen := make(map[string]struct{})
	courses := []string{}
	for _, auth := range snap.Authorizations {
		if auth.InstructorKey != key {
			continue
		}
		for _, code := range auth.Courses {
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			courses = append(courses, code)
		}
	}
	sort.Strings(courses)
	return courses, nil
}

// InstancesForCourse returns catalog entries matching the course code and
// year exactly, preserving catalog row order. Rows without a parseable year
// never match. An empty result is a valid terminal outcome.
func (s *EligibilityService) InstancesForCourse(ctx context.Context, courseCode string, year int) ([]models.CourseInstance, error) {
	snap, err := s.refdata.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(courseCode)
	instances := []models.CourseInstance{}
	for _, instance := range snap.Catalog {
		if instance.CourseCode != code {
			continue
		}
		if instance.Year == nil || *instance.Year != year {
			continue
		}
		instances = append(instances, instance)
	}
	return instances, nil
}
