package service

import (
	"context"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"chalkup/internal/modules/catalog/domain"
	catalogout "chalkup/internal/modules/catalog/port/out"
	apperrors "chalkup/internal/platform/errors"
	"chalkup/internal/platform/logging"
)

// CatalogService serves workouts, exercises and presets. The catalog is read
// once and cached until the next Init.
type CatalogService struct {
	store  catalogout.CatalogStore
	logger hclog.Logger

	mu     sync.Mutex
	cached *domain.Catalog
}

func NewCatalogService(store catalogout.CatalogStore, logger hclog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logging.OrDiscard(logger).Named("catalog")}
}

func (s *CatalogService) Catalog(ctx context.Context) (domain.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return *s.cached, nil
	}
	catalog, err := s.store.Load(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	if err := catalog.Validate(); err != nil {
		return domain.Catalog{}, fmt.Errorf("catalog %s: %w", s.store.Path(), err)
	}
	s.cached = &catalog
	return catalog, nil
}

// Init writes the seed catalog unless a file exists and force is false.
func (s *CatalogService) Init(ctx context.Context, force bool) (bool, error) {
	if s.store.Exists() && !force {
		return false, nil
	}
	if err := s.store.Save(ctx, domain.Seed()); err != nil {
		return false, err
	}
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
	s.logger.Info("catalog written", "path", s.store.Path())
	return true, nil
}

func (s *CatalogService) Path() string {
	return s.store.Path()
}

func (s *CatalogService) Workout(ctx context.Context, id string) (domain.Workout, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return domain.Workout{}, err
	}
	workout, ok := catalog.Workout(id)
	if !ok {
		return domain.Workout{}, fmt.Errorf("workout %s: %w", id, apperrors.ErrNotFound)
	}
	return workout, nil
}

func (s *CatalogService) Exercise(ctx context.Context, id string) (domain.Exercise, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return domain.Exercise{}, err
	}
	exercise, ok := catalog.Exercise(id)
	if !ok {
		return domain.Exercise{}, fmt.Errorf("exercise %s: %w", id, apperrors.ErrNotFound)
	}
	return exercise, nil
}
