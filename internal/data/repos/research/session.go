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

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Session) error
	GetByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Session, error)
	GetByProjectAndExternalID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, externalID string) (*types.Session, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Session) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error

	// GetIDsNotInExternalIDs lists sessions of the project whose external id
	// is absent from keep. An empty keep set matches every session.
	GetIDsNotInExternalIDs(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, keep []string) ([]uuid.UUID, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Session) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *sessionRepo) GetByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Session, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Session
	if projectID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("external_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRepo) GetByProjectAndExternalID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, externalID string) (*types.Session, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if projectID == uuid.Nil || externalID == "" {
		return nil, nil
	}
	var out types.Session
	if err := t.WithContext(ctx).
		Where("project_id = ? AND external_id = ?", projectID, externalID).
		First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *sessionRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Session) error {
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

func (r *sessionRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.Session{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *sessionRepo) GetIDsNotInExternalIDs(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, keep []string) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if projectID == uuid.Nil {
		return ids, nil
	}
	q := t.WithContext(ctx).
		Model(&types.Session{}).
		Where("project_id = ?", projectID)
	if len(keep) > 0 {
		q = q.Where("external_id NOT IN ?", keep)
	}
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *sessionRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Session{}).Error
}
