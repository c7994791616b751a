// Package gorm provides GORM-based DAO implementations for the
// supported SQL databases (MySQL, PostgreSQL; SQLite in tests).
package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// baseGormDAO provides helpers shared by all entity DAOs.
type baseGormDAO[T any] struct {
	db *gorm.DB
}

func newBaseGormDAO[T any](db *gorm.DB) *baseGormDAO[T] {
	return &baseGormDAO[T]{db: db}
}

// getDB returns the underlying GORM database instance.
func (d *baseGormDAO[T]) getDB() *gorm.DB {
	return d.db
}

// findByField retrieves an entity by a specific field value.
// Returns nil, nil if the entity is not found.
func (d *baseGormDAO[T]) findByField(ctx context.Context, field string, value any) (*T, error) {
	var entity T
	err := d.db.WithContext(ctx).Where(field+" = ?", value).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// countByField counts entities matching a specific field value.
func (d *baseGormDAO[T]) countByField(ctx context.Context, field string, value any) (int64, error) {
	var count int64
	var model T
	err := d.db.WithContext(ctx).
		Model(&model).
		Where(field+" = ?", value).
		Count(&count).Error
	return count, err
}
