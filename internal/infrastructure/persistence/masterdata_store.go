package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/distributor/backend/internal/domain/shared"
)

// record is the contract every master-data model satisfies: conversion to
// and from its domain entity plus primary-key access.
type record[T, M any] interface {
	*M
	ToDomain() *T
	FromDomain(*T)
	GetID() int64
	SetID(int64)
}

// storeSpec describes one master-data table.
type storeSpec[T any] struct {
	table  string
	label  string
	code   string // substring-filter column for Filter.Code, empty when none
	name   string // substring-filter and sort column
	unique string // case-insensitive unique column

	uniqueValue func(*T) string
	// reads customizes every read query, e.g. to join display columns.
	reads func(*gorm.DB) *gorm.DB
	// group applies Filter.Group; nil means the table has no group.
	group func(db *gorm.DB, group string) (*gorm.DB, error)
}

func (s storeSpec[T]) column(name string) string {
	return s.table + "." + name
}

// GormStore implements masterdata.Store for a local table.
type GormStore[T, M any, PM record[T, M]] struct {
	db   *gorm.DB
	spec storeSpec[T]
}

func newGormStore[T, M any, PM record[T, M]](db *gorm.DB, spec storeSpec[T]) *GormStore[T, M, PM] {
	return &GormStore[T, M, PM]{db: db, spec: spec}
}

func (s *GormStore[T, M, PM]) query(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx).Model(new(M))
	if s.spec.reads != nil {
		q = s.spec.reads(q)
	}
	return q
}

// FindAll lists rows ordered by name, applying substring and group filters.
func (s *GormStore[T, M, PM]) FindAll(ctx context.Context, filter shared.Filter) ([]T, error) {
	q := s.query(ctx)
	if filter.Code != "" && s.spec.code != "" {
		q = q.Where("LOWER("+s.spec.column(s.spec.code)+") LIKE ? ESCAPE '\\'", likePattern(filter.Code))
	}
	if filter.Name != "" {
		q = q.Where("LOWER("+s.spec.column(s.spec.name)+") LIKE ? ESCAPE '\\'", likePattern(filter.Name))
	}
	if filter.Group != "" && s.spec.group != nil {
		var err error
		if q, err = s.spec.group(q, strings.TrimSpace(filter.Group)); err != nil {
			return nil, err
		}
	}
	q = q.Order(s.spec.column(s.spec.name) + " ASC").Order(s.spec.column("id") + " ASC")
	if filter.Paged() {
		q = q.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []M
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", s.spec.table, err)
	}
	out := make([]T, 0, len(rows))
	for i := range rows {
		out = append(out, *PM(&rows[i]).ToDomain())
	}
	return out, nil
}

// FindByKey loads one row by its integer id.
func (s *GormStore[T, M, PM]) FindByKey(ctx context.Context, key string) (*T, error) {
	id, err := parseID(s.spec.label, key)
	if err != nil {
		return nil, err
	}
	return s.findByID(ctx, id)
}

func (s *GormStore[T, M, PM]) findByID(ctx context.Context, id int64) (*T, error) {
	var row M
	if err := s.query(ctx).Where(s.spec.column("id")+" = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(s.spec.label, strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("find %s %d: %w", s.spec.table, id, err)
	}
	return PM(&row).ToDomain(), nil
}

// Create inserts entity after the uniqueness pre-check and returns the
// stored row.
func (s *GormStore[T, M, PM]) Create(ctx context.Context, entity *T) (*T, error) {
	if err := s.ensureUnique(ctx, entity, 0); err != nil {
		return nil, err
	}
	var row M
	pm := PM(&row)
	pm.FromDomain(entity)
	pm.SetID(0)
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(pm).Error; err != nil {
		return nil, s.translate(err, entity, "create")
	}
	return s.findByID(ctx, pm.GetID())
}

// Update replaces every column of the row identified by key.
func (s *GormStore[T, M, PM]) Update(ctx context.Context, key string, entity *T) (*T, error) {
	id, err := parseID(s.spec.label, key)
	if err != nil {
		return nil, err
	}
	if err := s.ensureExists(ctx, id, key); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, entity, id); err != nil {
		return nil, err
	}

	var row M
	pm := PM(&row)
	pm.FromDomain(entity)
	pm.SetID(id)
	if err := s.db.WithContext(ctx).
		Model(pm).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(pm).Error; err != nil {
		return nil, s.translate(err, entity, "update")
	}
	return s.findByID(ctx, id)
}

// Delete removes the row identified by key. Rows still referenced by
// other tables are reported as conflicts.
func (s *GormStore[T, M, PM]) Delete(ctx context.Context, key string) error {
	id, err := parseID(s.spec.label, key)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Delete(new(M), id)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return shared.NewConflictError(fmt.Sprintf("%s '%s' is in use and cannot be deleted", s.spec.label, key)).
				WithCause(result.Error, result.Error.Error())
		}
		return fmt.Errorf("delete %s %d: %w", s.spec.table, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError(s.spec.label, key)
	}
	return nil
}

func (s *GormStore[T, M, PM]) ensureExists(ctx context.Context, id int64, key string) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(new(M)).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check %s %d: %w", s.spec.table, id, err)
	}
	if n == 0 {
		return shared.NewNotFoundError(s.spec.label, key)
	}
	return nil
}

// ensureUnique rejects a case-insensitive duplicate of the unique column
// before anything is written. excludeID skips the row being updated.
func (s *GormStore[T, M, PM]) ensureUnique(ctx context.Context, entity *T, excludeID int64) error {
	if s.spec.unique == "" || s.spec.uniqueValue == nil {
		return nil
	}
	value := s.spec.uniqueValue(entity)
	q := s.db.WithContext(ctx).Model(new(M)).Where("LOWER("+s.spec.unique+") = LOWER(?)", value)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return fmt.Errorf("check %s uniqueness: %w", s.spec.table, err)
	}
	if n > 0 {
		return shared.NewAlreadyExistsError(s.spec.label, s.spec.unique, value)
	}
	return nil
}

func (s *GormStore[T, M, PM]) translate(err error, entity *T, op string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		value := ""
		if s.spec.uniqueValue != nil {
			value = s.spec.uniqueValue(entity)
		}
		return shared.NewAlreadyExistsError(s.spec.label, s.spec.unique, value).WithCause(err, err.Error())
	case isForeignKeyViolation(err):
		return shared.NewConflictError(fmt.Sprintf("%s references a record that does not exist", s.spec.label)).
			WithCause(err, err.Error())
	default:
		return fmt.Errorf("%s %s: %w", op, s.spec.table, err)
	}
}

// parseID accepts positive integer keys only.
func parseID(label, key string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.NewValidationError("%s key must be a positive integer, got '%s'", label, key)
	}
	return id, nil
}

// likePattern lowercases s and escapes LIKE wildcards for a substring match.
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(s))
	return "%" + s + "%"
}
