package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wallace-21/BirdNest/internal/domain/models"
)

// BirdRepository specializes the generic store with bird-specific
// lookups. Minimum query lengths for the searches are enforced at the
// HTTP boundary, not here.
type BirdRepository struct {
	*Store[models.Bird]
	db *gorm.DB
}

// NewBirdRepository wires a bird repository over the given database.
func NewBirdRepository(db *gorm.DB) *BirdRepository {
	return &BirdRepository{
		Store: NewStore[models.Bird](db),
		db:    db,
	}
}

// GetByBirdID fetches a bird by its natural key (e.g. "peregrine-falcon").
func (r *BirdRepository) GetByBirdID(ctx context.Context, birdID string) (*models.Bird, error) {
	var bird models.Bird
	if err := r.db.WithContext(ctx).Where("bird_id = ?", birdID).First(&bird).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get bird %q: %w", birdID, err)
	}
	return &bird, nil
}

// SearchByName returns birds whose name contains the query,
// case-insensitively, in natural store order.
func (r *BirdRepository) SearchByName(ctx context.Context, name string) ([]models.Bird, error) {
	return r.searchColumn(ctx, "name", name)
}

// SearchByScientificName returns birds whose scientific name contains
// the query, case-insensitively, in natural store order.
func (r *BirdRepository) SearchByScientificName(ctx context.Context, scientificName string) ([]models.Bird, error) {
	return r.searchColumn(ctx, "scientific_name", scientificName)
}

// GetByConservationStatus returns birds whose nested
// conservation_status.status equals the given value exactly.
func (r *BirdRepository) GetByConservationStatus(ctx context.Context, status string) ([]models.Bird, error) {
	var birds []models.Bird
	err := r.db.WithContext(ctx).
		Where(datatypes.JSONQuery("conservation_status").Equals(status, "status")).
		Find(&birds).Error
	if err != nil {
		return nil, fmt.Errorf("filter birds by status %q: %w", status, err)
	}
	return birds, nil
}

// Count returns the number of catalogued birds.
func (r *BirdRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Bird{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count birds: %w", err)
	}
	return count, nil
}

func (r *BirdRepository) searchColumn(ctx context.Context, column, query string) ([]models.Bird, error) {
	var birds []models.Bird
	// lower(...) keeps the match case-insensitive on both SQLite and Postgres.
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.db.WithContext(ctx).
		Where(fmt.Sprintf("lower(%s) LIKE ?", column), pattern).
		Find(&birds).Error
	if err != nil {
		return nil, fmt.Errorf("search birds by %s %q: %w", column, query, err)
	}
	return birds, nil
}
