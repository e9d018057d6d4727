package research

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
)

type PersonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Person) ([]*types.Person, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Person, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Person) error

	// GetOrphanIDs lists persons no session speaker references anymore.
	GetOrphanIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type personRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonRepo(db *gorm.DB, baseLog *logger.Logger) PersonRepo {
	return &personRepo{db: db, log: baseLog.With("repo", "PersonRepo")}
}

func (r *personRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Person) ([]*types.Person, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Person{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *personRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Person, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Person
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *personRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Person) error {
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

func (r *personRepo) GetOrphanIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if err := t.WithContext(ctx).
		Model(&types.Person{}).
		Where("NOT EXISTS (SELECT 1 FROM session_speaker ss WHERE ss.person_id = person.id)").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *personRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Person{}).Error
}
