package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tra-capacitacion/inscripciones-api/internal/models"
	"github.com/tra-capacitacion/inscripciones-api/internal/refdata"
	appErrors "github.com/tra-capacitacion/inscripciones-api/pkg/errors"
)

const snapshotCacheKey = "refdata:snapshot"

// SnapshotCache abstracts the optional shared cache for the parsed snapshot.
type SnapshotCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RefDataStatus summarizes the currently held snapshot.
type RefDataStatus struct {
	Loaded         bool      `json:"loaded"`
	LoadedAt       time.Time `json:"loaded_at,omitempty"`
	Authorizations int       `json:"authorizations"`
	CatalogRows    int       `json:"catalog_rows"`
}

// RefDataService owns the session snapshot of the two reference tables. The
// sources are assumed externally static while a snapshot is held; Refresh is
// the explicit invalidation path.
type RefDataService struct {
	instructors refdata.RowSource
	courses     refdata.RowSource
	cache       SnapshotCache
	cacheTTL    time.Duration
	metrics     *MetricsService
	logger      *zap.Logger

	mu       sync.RWMutex
	snapshot *models.ReferenceSnapshot
	loadedAt time.Time
}

// NewRefDataService constructs the service. cache may be nil.
func NewRefDataService(instructors, courses refdata.RowSource, cache SnapshotCache, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *RefDataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &RefDataService{
		instructors: instructors,
		courses:     courses,
		cache:       cache,
		cacheTTL:    cacheTTL,
		metrics:     metrics,
		logger:      logger,
	}
}

// Snapshot returns the memoized reference snapshot, loading it on first use.
func (s *RefDataService) Snapshot(ctx context.Context) (*models.ReferenceSnapshot, error) {
	s.mu.RLock()
	if s.snapshot != nil {
		snap := s.snapshot
		s.mu.RUnlock()
		return snap, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil {
		return s.snapshot, nil
	}

	if s.cache != nil {
		var cached models.ReferenceSnapshot
		err := s.cache.Get(ctx, snapshotCacheKey, &cached)
		if err == nil {
			s.snapshot = &cached
			s.loadedAt = time.Now().UTC()
			return s.snapshot, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("refdata cache get failed", zap.Error(err))
		}
	}

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.install(ctx, snap)
	return s.snapshot, nil
}

// Refresh discards the held snapshot and reloads from the sources.
func (s *RefDataService) Refresh(ctx context.Context) (*models.ReferenceSnapshot, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.install(ctx, snap)
	return s.snapshot, nil
}

// Status reports whether a snapshot is held and how big it is.
func (s *RefDataService) Status(ctx context.Context) RefDataStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return RefDataStatus{}
	}
	return RefDataStatus{
		Loaded:         true,
		LoadedAt:       s.loadedAt,
		Authorizations: len(s.snapshot.Authorizations),
		CatalogRows:    len(s.snapshot.Catalog),
	}
}

// install stores the snapshot and pushes it to the shared cache best-effort.
// Callers must hold the write lock.
func (s *RefDataService) install(ctx context.Context, snap *models.ReferenceSnapshot) {
	s.snapshot = snap
	s.loadedAt = time.Now().UTC()
	if s.cache != nil {
		if err := s.cache.Set(ctx, snapshotCacheKey, snap, s.cacheTTL); err != nil {
			s.logger.Warn("refdata cache set failed", zap.Error(err))
		}
	}
}

func (s *RefDataService) load(ctx context.Context) (*models.ReferenceSnapshot, error) {
	start := time.Now()

	instructorTable, err := s.instructors.Fetch(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataFormat.Code, appErrors.ErrDataFormat.Status, "failed to fetch instructor table")
	}
	courseTable, err := s.courses.Fetch(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataFormat.Code, appErrors.ErrDataFormat.Status, "failed to fetch course catalog")
	}

	auths, err := refdata.LoadAuthorizations(instructorTable)
	if err != nil {
		return nil, err
	}
	catalog, err := refdata.LoadCourseCatalog(courseTable)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveRefdataLoad(time.Since(start), len(auths), len(catalog))
	s.logger.Info("reference data loaded",
		zap.Int("authorizations", len(auths)),
		zap.Int("catalog_rows", len(catalog)),
		zap.Duration("duration", time.Since(start)),
	)

	return &models.ReferenceSnapshot{Authorizations: auths, Catalog: catalog}, nil
}
