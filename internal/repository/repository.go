// Package repository wraps GORM with a generic, tenant-aware data access
// surface. Mutations refuse to run without a resolved tenant; reads are
// deliberately caller-trust (see the method comments), matching how the
// services compose their own tenant predicates per query.
package repository

import (
	"errors"

	"gorm.io/gorm"

	"fieldservice/internal/tenant"
)

// Scope narrows a query, e.g. adding predicates, ordering or limits.
type Scope func(*gorm.DB) *gorm.DB

// Where returns a Scope adding a single predicate.
func Where(query interface{}, args ...interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

// Order returns a Scope adding an ORDER BY clause.
func Order(order string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	}
}

// Page returns a Scope applying limit/offset pagination.
func Page(limit, offset int) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(limit).Offset(offset)
	}
}

// Scoped is a generic repository for one entity type. One instance per
// entity; all services share the underlying *gorm.DB.
type Scoped[T any] struct {
	db *gorm.DB
}

// NewScoped builds a repository for T on db.
func NewScoped[T any](db *gorm.DB) *Scoped[T] {
	return &Scoped[T]{db: db}
}

// DB exposes the underlying handle for queries the generic surface cannot
// express (counts, joins).
func (r *Scoped[T]) DB() *gorm.DB {
	return r.db
}

// FindOne returns the first record matching the scopes, or nil when none
// match. No tenant predicate is injected here: callers own their read
// scoping and must include the tenant condition themselves.
func (r *Scoped[T]) FindOne(_ tenant.Context, scopes ...Scope) (*T, error) {
	var record T
	result := r.db.Scopes(toGorm(scopes)...).First(&record)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &record, nil
}

// FindMany returns all records matching the scopes. Same read-side
// contract as FindOne: tenant scoping is the caller's predicate.
func (r *Scoped[T]) FindMany(_ tenant.Context, scopes ...Scope) ([]T, error) {
	var records []T
	result := r.db.Scopes(toGorm(scopes)...).Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

// Create inserts record. Fails with MissingTenant before touching the
// store when no tenant is bound.
func (r *Scoped[T]) Create(ctx tenant.Context, record *T) error {
	if _, err := ctx.Resolve(); err != nil {
		return err
	}
	return r.db.Create(record).Error
}

// Save persists all fields of record, including zeroed ones, which is how
// cleared relations reach the store. Fails with MissingTenant when no
// tenant is bound.
func (r *Scoped[T]) Save(ctx tenant.Context, record *T) error {
	if _, err := ctx.Resolve(); err != nil {
		return err
	}
	return r.db.Save(record).Error
}

// Delete removes records matching the scopes and reports how many rows
// were affected, so callers can map a miss to NotFound. Fails with
// MissingTenant when no tenant is bound.
func (r *Scoped[T]) Delete(ctx tenant.Context, scopes ...Scope) (int64, error) {
	if _, err := ctx.Resolve(); err != nil {
		return 0, err
	}
	var record T
	result := r.db.Scopes(toGorm(scopes)...).Delete(&record)
	return result.RowsAffected, result.Error
}

func toGorm(scopes []Scope) []func(*gorm.DB) *gorm.DB {
	out := make([]func(*gorm.DB) *gorm.DB, len(scopes))
	for i, s := range scopes {
		out[i] = s
	}
	return out
}
