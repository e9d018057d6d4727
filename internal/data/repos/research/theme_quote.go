package research

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
)

type ThemeQuoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ThemeQuote) error
	GetByThemeIDs(ctx context.Context, tx *gorm.DB, themeIDs []uuid.UUID) ([]*types.ThemeQuote, error)
	GetByQuoteIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) ([]*types.ThemeQuote, error)
	GetByThemeAndQuote(ctx context.Context, tx *gorm.DB, themeID, quoteID uuid.UUID) (*types.ThemeQuote, error)

	FullDeleteByQuoteIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) error
	FullDeleteByThemeIDs(ctx context.Context, tx *gorm.DB, themeIDs []uuid.UUID) error
	DeletePipelineNotInQuoteSet(ctx context.Context, tx *gorm.DB, themeID uuid.UUID, keep []uuid.UUID) error
	CountDangling(ctx context.Context, tx *gorm.DB) (int64, error)
}

type themeQuoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewThemeQuoteRepo(db *gorm.DB, baseLog *logger.Logger) ThemeQuoteRepo {
	return &themeQuoteRepo{db: db, log: baseLog.With("repo", "ThemeQuoteRepo")}
}

func (r *themeQuoteRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ThemeQuote) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *themeQuoteRepo) GetByThemeIDs(ctx context.Context, tx *gorm.DB, themeIDs []uuid.UUID) ([]*types.ThemeQuote, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ThemeQuote
	if len(themeIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("theme_id IN ?", themeIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *themeQuoteRepo) GetByQuoteIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) ([]*types.ThemeQuote, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ThemeQuote
	if len(quoteIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("quote_id IN ?", quoteIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *themeQuoteRepo) GetByThemeAndQuote(ctx context.Context, tx *gorm.DB, themeID, quoteID uuid.UUID) (*types.ThemeQuote, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if themeID == uuid.Nil || quoteID == uuid.Nil {
		return nil, nil
	}
	var out types.ThemeQuote
	if err := t.WithContext(ctx).
		Where("theme_id = ? AND quote_id = ?", themeID, quoteID).
		First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *themeQuoteRepo) FullDeleteByQuoteIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(quoteIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("quote_id IN ?", quoteIDs).
		Delete(&types.ThemeQuote{}).Error
}

func (r *themeQuoteRepo) FullDeleteByThemeIDs(ctx context.Context, tx *gorm.DB, themeIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(themeIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("theme_id IN ?", themeIDs).
		Delete(&types.ThemeQuote{}).Error
}

func (r *themeQuoteRepo) DeletePipelineNotInQuoteSet(ctx context.Context, tx *gorm.DB, themeID uuid.UUID, keep []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if themeID == uuid.Nil {
		return nil
	}
	q := t.WithContext(ctx).
		Where("theme_id = ? AND assigned_by = ?", themeID, types.OriginPipeline)
	if len(keep) > 0 {
		q = q.Where("quote_id NOT IN ?", keep)
	}
	return q.Delete(&types.ThemeQuote{}).Error
}

func (r *themeQuoteRepo) CountDangling(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	err := t.WithContext(ctx).
		Model(&types.ThemeQuote{}).
		Where("NOT EXISTS (SELECT 1 FROM quote q WHERE q.id = theme_quote.quote_id)" +
			" OR NOT EXISTS (SELECT 1 FROM theme_group g WHERE g.id = theme_quote.theme_id)").
		Count(&n).Error
	return n, err
}
