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

type ThemeGroupRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ThemeGroup) error
	Update(ctx context.Context, tx *gorm.DB, row *types.ThemeGroup) error
	GetByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ThemeGroup, error)
	GetByProjectAndLabel(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, label string) (*types.ThemeGroup, error)
	GetStalePipelineIDs(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, olderThan time.Time) ([]uuid.UUID, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type themeGroupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewThemeGroupRepo(db *gorm.DB, baseLog *logger.Logger) ThemeGroupRepo {
	return &themeGroupRepo{db: db, log: baseLog.With("repo", "ThemeGroupRepo")}
}

func (r *themeGroupRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ThemeGroup) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *themeGroupRepo) Update(ctx context.Context, tx *gorm.DB, row *types.ThemeGroup) error {
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

func (r *themeGroupRepo) GetByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ThemeGroup, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ThemeGroup
	if projectID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("label ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *themeGroupRepo) GetByProjectAndLabel(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, label string) (*types.ThemeGroup, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if projectID == uuid.Nil || label == "" {
		return nil, nil
	}
	var out types.ThemeGroup
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

func (r *themeGroupRepo) GetStalePipelineIDs(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, olderThan time.Time) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if projectID == uuid.Nil {
		return ids, nil
	}
	if err := t.WithContext(ctx).
		Model(&types.ThemeGroup{}).
		Where("project_id = ? AND created_by = ? AND (last_imported_at IS NULL OR last_imported_at < ?)",
			projectID, types.OriginPipeline, olderThan).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *themeGroupRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.ThemeGroup{}).Error
}
