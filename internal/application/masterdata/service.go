// Package masterdata exposes the master-data use cases on top of whichever
// store the backend selector picked.
package masterdata

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/distributor/backend/internal/infrastructure/logger"
	"github.com/distributor/backend/internal/infrastructure/telemetry"
)

// MaxPageSize caps the page size a caller can request.
const MaxPageSize = 500

// Service wraps a masterdata.Store with validation, lookup checks and
// logging. It is generic over the entity type.
type Service[T any] struct {
	entity   string
	store    masterdata.Store[T]
	validate func(*T) error
	prepare  []func(*T)
	checks   []func(context.Context, *T) error
	enrich   func(context.Context, []T) error
	metrics  *telemetry.Metrics
	logger   *zap.Logger
}

// Option configures a Service
type Option[T any] func(*Service[T])

// WithPrepare runs fn on every incoming entity before validation.
func WithPrepare[T any](fn func(*T)) Option[T] {
	return func(s *Service[T]) {
		s.prepare = append(s.prepare, fn)
	}
}

// WithCheck adds a lookup check run after validation on create and update.
func WithCheck[T any](fn func(context.Context, *T) error) Option[T] {
	return func(s *Service[T]) {
		s.checks = append(s.checks, fn)
	}
}

// WithEnricher fills display fields on entities returned by reads.
func WithEnricher[T any](fn func(context.Context, []T) error) Option[T] {
	return func(s *Service[T]) {
		s.enrich = fn
	}
}

// WithMetrics records the outcome and duration of every operation on m.
func WithMetrics[T any](m *telemetry.Metrics) Option[T] {
	return func(s *Service[T]) {
		s.metrics = m
	}
}

// NewService creates a service for entity, using validate as the entity's
// own field validation (typically a method expression like
// (*masterdata.Product).Validate).
func NewService[T any](entity string, store masterdata.Store[T], validate func(*T) error, log *zap.Logger, opts ...Option[T]) *Service[T] {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service[T]{
		entity:   entity,
		store:    store,
		validate: validate,
		logger:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Entity returns the entity name used in messages and routes.
func (s *Service[T]) Entity() string {
	return s.entity
}

// List returns the entities matching filter.
func (s *Service[T]) List(ctx context.Context, filter shared.Filter) (_ []T, err error) {
	defer s.observe(ctx, "list", time.Now(), &err)
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}
	if filter.PageSize > 0 && filter.Page < 1 {
		filter.Page = 1
	}
	items, err := s.store.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.runEnrich(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns the entity identified by key.
func (s *Service[T]) Get(ctx context.Context, key string) (_ *T, err error) {
	defer s.observe(ctx, "get", time.Now(), &err)
	key, err = s.requireKey(key)
	if err != nil {
		return nil, err
	}
	item, err := s.store.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	one := []T{*item}
	if err := s.runEnrich(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Create validates and stores entity.
func (s *Service[T]) Create(ctx context.Context, entity *T) (_ *T, err error) {
	defer s.observe(ctx, "create", time.Now(), &err)
	if err := s.check(ctx, entity); err != nil {
		return nil, err
	}
	created, err := s.store.Create(ctx, entity)
	if err != nil {
		s.log(ctx).Warn("Create failed", zap.Error(err))
		return nil, err
	}
	s.log(ctx).Info("Created")
	return created, nil
}

// Update validates entity and replaces the one identified by key.
func (s *Service[T]) Update(ctx context.Context, key string, entity *T) (_ *T, err error) {
	defer s.observe(ctx, "update", time.Now(), &err)
	key, err = s.requireKey(key)
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, entity); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, key, entity)
	if err != nil {
		s.log(ctx).Warn("Update failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	s.log(ctx).Info("Updated", zap.String("key", key))
	return updated, nil
}

// Delete removes the entity identified by key.
func (s *Service[T]) Delete(ctx context.Context, key string) (err error) {
	defer s.observe(ctx, "delete", time.Now(), &err)
	key, err = s.requireKey(key)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.log(ctx).Warn("Delete failed", zap.String("key", key), zap.Error(err))
		return err
	}
	s.log(ctx).Info("Deleted", zap.String("key", key))
	return nil
}

func (s *Service[T]) check(ctx context.Context, entity *T) error {
	if entity == nil {
		return shared.NewValidationError("%s body is required", s.entity)
	}
	for _, fn := range s.prepare {
		fn(entity)
	}
	if s.validate != nil {
		if err := s.validate(entity); err != nil {
			return err
		}
	}
	for _, fn := range s.checks {
		if err := fn(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service[T]) runEnrich(ctx context.Context, items []T) error {
	if s.enrich == nil || len(items) == 0 {
		return nil
	}
	return s.enrich(ctx, items)
}

func (s *Service[T]) requireKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", shared.NewValidationError("%s key is required", s.entity)
	}
	return key, nil
}

func (s *Service[T]) log(ctx context.Context) *zap.Logger {
	return logger.FromContext(ctx, s.logger).With(zap.String("entity", s.entity))
}

func (s *Service[T]) observe(ctx context.Context, op string, start time.Time, err *error) {
	s.metrics.RecordOperation(ctx, s.entity, op, start, *err)
}
