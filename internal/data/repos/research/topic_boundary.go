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

type TopicBoundaryRepo interface {
	GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.TopicBoundary, error)
	UpsertBySessionAndTimecode(ctx context.Context, tx *gorm.DB, row *types.TopicBoundary) error

	// GetStaleIDs lists boundaries of the project's sessions whose generation
	// stamp is strictly older than olderThan (or never set). Boundaries have
	// no project column, so scope goes through the session table.
	GetStaleIDs(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, olderThan time.Time) ([]uuid.UUID, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	FullDeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error
}

type topicBoundaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicBoundaryRepo(db *gorm.DB, baseLog *logger.Logger) TopicBoundaryRepo {
	return &topicBoundaryRepo{db: db, log: baseLog.With("repo", "TopicBoundaryRepo")}
}

func (r *topicBoundaryRepo) GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.TopicBoundary, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.TopicBoundary
	if len(sessionIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Order("timecode_seconds ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicBoundaryRepo) UpsertBySessionAndTimecode(ctx context.Context, tx *gorm.DB, row *types.TopicBoundary) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.SessionID == uuid.Nil {
		return nil
	}
	// Look up by the natural key only; the caller's preset id must not leak
	// into the match or an existing row is never found.
	var existing types.TopicBoundary
	err := t.WithContext(ctx).
		Where("session_id = ? AND timecode_seconds = ?", row.SessionID, row.TimecodeSeconds).
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

func (r *topicBoundaryRepo) GetStaleIDs(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, olderThan time.Time) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if projectID == uuid.Nil {
		return ids, nil
	}
	sub := t.WithContext(ctx).
		Model(&types.Session{}).
		Select("id").
		Where("project_id = ?", projectID)
	if err := t.WithContext(ctx).
		Model(&types.TopicBoundary{}).
		Where("session_id IN (?) AND (last_imported_at IS NULL OR last_imported_at < ?)", sub, olderThan).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *topicBoundaryRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.TopicBoundary{}).Error
}

func (r *topicBoundaryRepo) FullDeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(sessionIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Delete(&types.TopicBoundary{}).Error
}
