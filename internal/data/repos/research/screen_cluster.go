package research

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
)

type ScreenClusterRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ScreenCluster) error
	Update(ctx context.Context, tx *gorm.DB, row *types.ScreenCluster) error
	GetByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ScreenCluster, error)
	GetByProjectAndLabel(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, label string) (*types.ScreenCluster, error)

	// GetStalePipelineIDs lists pipeline-owned clusters of the project whose
	// generation stamp is strictly older than olderThan (or never set).
	// Researcher-owned clusters are never returned.
	GetStalePipelineIDs(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, olderThan time.Time) ([]uuid.UUID, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type screenClusterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScreenClusterRepo(db *gorm.DB, baseLog *logger.Logger) ScreenClusterRepo {
	return &screenClusterRepo{db: db, log: baseLog.With("repo", "ScreenClusterRepo")}
}

func (r *screenClusterRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ScreenCluster) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *screenClusterRepo) Update(ctx context.Context, tx *gorm.DB, row *types.ScreenCluster) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(ctx).Save(row).Error
}

func (r *screenClusterRepo) GetByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ScreenCluster, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ScreenCluster
	if projectID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("display_order ASC, label ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *screenClusterRepo) GetByProjectAndLabel(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, label string) (*types.ScreenCluster, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if projectID == uuid.Nil || label == "" {
		return nil, nil
	}
	var out types.ScreenCluster
	if err := t.WithContext(ctx).
		Where("project_id = ? AND label = ?", projectID, label).
		First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *screenClusterRepo) GetStalePipelineIDs(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, olderThan time.Time) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if projectID == uuid.Nil {
		return ids, nil
	}
	if err := t.WithContext(ctx).
		Model(&types.ScreenCluster{}).
		Where("project_id = ? AND created_by = ? AND (last_imported_at IS NULL OR last_imported_at < ?)",
			projectID, types.OriginPipeline, olderThan).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *screenClusterRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.ScreenCluster{}).Error
}
