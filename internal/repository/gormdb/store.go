package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wallace-21/BirdNest/internal/domain/models"
)

// Open connects to the catalog database. A postgres:// DSN selects the
// postgres driver; anything else is treated as a SQLite file path.
func Open(databaseURL string, debug bool) (*gorm.DB, error) {
	level := gormlogger.Silent
	if debug {
		level = gormlogger.Info
	}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"),
		strings.HasPrefix(databaseURL, "postgresql://"):
		dialector = postgres.Open(databaseURL)
	default:
		dialector = sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema for the given entities.
func Migrate(db *gorm.DB, entities ...any) error {
	if err := db.AutoMigrate(entities...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Store provides generic create/get/update/delete/list primitives over a
// homogeneous collection of one entity type. Concurrency control is left
// entirely to the underlying database; each call is one store operation.
type Store[T any] struct {
	db *gorm.DB
}

// NewStore wires a generic store for the entity type T.
func NewStore[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

// Get fetches a record by its surrogate id.
func (s *Store[T]) Get(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := s.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get record %d: %w", id, err)
	}
	return &entity, nil
}

// GetMulti returns records in insertion order, windowed by offset and
// capped at limit. Ordering is not stable across concurrent writes.
func (s *Store[T]) GetMulti(ctx context.Context, skip, limit int) ([]T, error) {
	var entities []T
	if err := s.db.WithContext(ctx).Offset(skip).Limit(limit).Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return entities, nil
}

// Create inserts the record, letting the store assign the surrogate id
// and both timestamps.
func (s *Store[T]) Create(ctx context.Context, entity *T) error {
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

// Update applies only the supplied fields to an existing record and
// refreshes updated_at. The entity is mutated in place.
func (s *Store[T]) Update(ctx context.Context, entity *T, fields map[string]any) error {
	if len(fields) == 0 {
		// An empty update still counts as a mutation.
		fields = map[string]any{"updated_at": time.Now()}
	}

	if err := s.db.WithContext(ctx).Model(entity).Updates(fields).Error; err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

// Remove hard-deletes a record by surrogate id and returns the removed
// row, or models.ErrNotFound if no such record exists.
func (s *Store[T]) Remove(ctx context.Context, id uint) (*T, error) {
	entity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(entity).Error; err != nil {
		return nil, fmt.Errorf("remove record %d: %w", id, err)
	}

	return entity, nil
}
