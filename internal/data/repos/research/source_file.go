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

type SourceFileRepo interface {
	GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.SourceFile, error)
	UpsertBySessionKindPath(ctx context.Context, tx *gorm.DB, row *types.SourceFile) error
	FullDeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error
}

type sourceFileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSourceFileRepo(db *gorm.DB, baseLog *logger.Logger) SourceFileRepo {
	return &sourceFileRepo{db: db, log: baseLog.With("repo", "SourceFileRepo")}
}

func (r *sourceFileRepo) GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.SourceFile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.SourceFile
	if len(sessionIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("session_id IN ?", sessionIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sourceFileRepo) UpsertBySessionKindPath(ctx context.Context, tx *gorm.DB, row *types.SourceFile) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.SessionID == uuid.Nil || row.Path == "" {
		return nil
	}
	// Match on the natural key alone; the caller's preset id must not leak
	// into the lookup or every run inserts a duplicate.
	var existing types.SourceFile
	err := t.WithContext(ctx).
		Where("session_id = ? AND kind = ? AND path = ?", row.SessionID, row.Kind, row.Path).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return t.WithContext(ctx).Create(row).Error
		}
		return err
	}
	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(ctx).Save(row).Error
}

func (r *sourceFileRepo) FullDeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(sessionIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Delete(&types.SourceFile{}).Error
}
