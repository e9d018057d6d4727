package research

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
)

type ImportConflictRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ImportConflict) error
	GetByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ImportConflict, error)

	// GetByProjectKindLabel finds an open conflict for one grouping label, so
	// repeated runs against the same collision do not stack duplicates.
	GetByProjectKindLabel(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, kind, label string) (*types.ImportConflict, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type importConflictRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImportConflictRepo(db *gorm.DB, baseLog *logger.Logger) ImportConflictRepo {
	return &importConflictRepo{db: db, log: baseLog.With("repo", "ImportConflictRepo")}
}

func (r *importConflictRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ImportConflict) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *importConflictRepo) GetByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ImportConflict, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ImportConflict
	if projectID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *importConflictRepo) GetByProjectKindLabel(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, kind, label string) (*types.ImportConflict, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if projectID == uuid.Nil || kind == "" || label == "" {
		return nil, nil
	}
	var out types.ImportConflict
	if err := t.WithContext(ctx).
		Where("project_id = ? AND kind = ? AND label = ?", projectID, kind, label).
		First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *importConflictRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.ImportConflict{}).Error
}
