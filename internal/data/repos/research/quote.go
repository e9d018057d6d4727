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

type QuoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Quote) error
	Update(ctx context.Context, tx *gorm.DB, row *types.Quote) error

	// GetByStableKey looks a quote up by the identity that survives re-runs:
	// session, speaker code and start timecode.
	GetByStableKey(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, speakerCode, startTimecode string) (*types.Quote, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Quote, error)
	GetByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Quote, error)

	// GetStaleIDs lists the project's quotes whose generation stamp is strictly
	// older than olderThan (or was never set).
	GetStaleIDs(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, olderThan time.Time) ([]uuid.UUID, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type quoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuoteRepo(db *gorm.DB, baseLog *logger.Logger) QuoteRepo {
	return &quoteRepo{db: db, log: baseLog.With("repo", "QuoteRepo")}
}

func (r *quoteRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Quote) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *quoteRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Quote) error {
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

func (r *quoteRepo) GetByStableKey(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, speakerCode, startTimecode string) (*types.Quote, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if sessionID == uuid.Nil || speakerCode == "" || startTimecode == "" {
		return nil, nil
	}
	var out types.Quote
	if err := t.WithContext(ctx).
		Where("session_id = ? AND speaker_code = ? AND start_timecode = ?", sessionID, speakerCode, startTimecode).
		First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *quoteRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Quote, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Quote
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quoteRepo) GetByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Quote, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Quote
	if projectID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("start_timecode ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quoteRepo) GetStaleIDs(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, olderThan time.Time) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if projectID == uuid.Nil {
		return ids, nil
	}
	if err := t.WithContext(ctx).
		Model(&types.Quote{}).
		Where("project_id = ? AND (last_imported_at IS NULL OR last_imported_at < ?)", projectID, olderThan).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *quoteRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Quote{}).Error
}
