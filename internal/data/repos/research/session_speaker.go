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

type SessionSpeakerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.SessionSpeaker) error
	GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.SessionSpeaker, error)
	GetBySessionAndCode(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, code string) (*types.SessionSpeaker, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	FullDeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error
}

type sessionSpeakerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionSpeakerRepo(db *gorm.DB, baseLog *logger.Logger) SessionSpeakerRepo {
	return &sessionSpeakerRepo{db: db, log: baseLog.With("repo", "SessionSpeakerRepo")}
}

func (r *sessionSpeakerRepo) Create(ctx context.Context, tx *gorm.DB, row *types.SessionSpeaker) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *sessionSpeakerRepo) GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.SessionSpeaker, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.SessionSpeaker
	if len(sessionIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Order("code ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionSpeakerRepo) GetBySessionAndCode(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, code string) (*types.SessionSpeaker, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if sessionID == uuid.Nil || code == "" {
		return nil, nil
	}
	var out types.SessionSpeaker
	if err := t.WithContext(ctx).
		Where("session_id = ? AND code = ?", sessionID, code).
		First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *sessionSpeakerRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(ctx).
		Model(&types.SessionSpeaker{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *sessionSpeakerRepo) FullDeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(sessionIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Delete(&types.SessionSpeaker{}).Error
}
