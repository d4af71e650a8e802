package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sangkips/stall-pos/internal/domain/entity"
	"github.com/sangkips/stall-pos/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type snapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a snapshot repository backed by postgres
func NewSnapshotRepository(db *gorm.DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Load returns the document stored under key
func (r *snapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var snap entity.Snapshot
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return snap.Data, nil
}

// Save upserts the document stored under key
func (r *snapshotRepository) Save(ctx context.Context, key string, data []byte) error {
	snap := entity.Snapshot{Key: key, Data: data, UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&snap).Error
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}
