package research

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
)

// AnnotationRepo covers the four researcher-annotation tables as one unit.
// The import engine treats them uniformly: it never writes them and deletes
// them only by quote id when the target quote is reaped. The serving layer
// creates them; Create methods here exist for it and for tests.
type AnnotationRepo interface {
	CreateFlag(ctx context.Context, tx *gorm.DB, row *types.QuoteFlag) error
	CreateTag(ctx context.Context, tx *gorm.DB, row *types.QuoteTag) error
	CreateRevision(ctx context.Context, tx *gorm.DB, row *types.QuoteRevision) error
	CreateBadgeRemoval(ctx context.Context, tx *gorm.DB, row *types.QuoteBadgeRemoval) error

	GetFlagByQuoteID(ctx context.Context, tx *gorm.DB, quoteID uuid.UUID) (*types.QuoteFlag, error)
	GetTagsByQuoteIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) ([]*types.QuoteTag, error)
	GetRevisionByQuoteID(ctx context.Context, tx *gorm.DB, quoteID uuid.UUID) (*types.QuoteRevision, error)
	GetBadgeRemovalsByQuoteIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) ([]*types.QuoteBadgeRemoval, error)

	// FullDeleteByQuoteIDs clears every annotation row across all four tables
	// for the given quotes. Runs before the quotes themselves are deleted.
	FullDeleteByQuoteIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) error
}

type annotationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnnotationRepo(db *gorm.DB, baseLog *logger.Logger) AnnotationRepo {
	return &annotationRepo{db: db, log: baseLog.With("repo", "AnnotationRepo")}
}

func (r *annotationRepo) CreateFlag(ctx context.Context, tx *gorm.DB, row *types.QuoteFlag) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *annotationRepo) CreateTag(ctx context.Context, tx *gorm.DB, row *types.QuoteTag) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *annotationRepo) CreateRevision(ctx context.Context, tx *gorm.DB, row *types.QuoteRevision) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *annotationRepo) CreateBadgeRemoval(ctx context.Context, tx *gorm.DB, row *types.QuoteBadgeRemoval) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *annotationRepo) GetFlagByQuoteID(ctx context.Context, tx *gorm.DB, quoteID uuid.UUID) (*types.QuoteFlag, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if quoteID == uuid.Nil {
		return nil, nil
	}
	var out types.QuoteFlag
	if err := t.WithContext(ctx).Where("quote_id = ?", quoteID).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *annotationRepo) GetTagsByQuoteIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) ([]*types.QuoteTag, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.QuoteTag
	if len(quoteIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("quote_id IN ?", quoteIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *annotationRepo) GetRevisionByQuoteID(ctx context.Context, tx *gorm.DB, quoteID uuid.UUID) (*types.QuoteRevision, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if quoteID == uuid.Nil {
		return nil, nil
	}
	var out types.QuoteRevision
	if err := t.WithContext(ctx).Where("quote_id = ?", quoteID).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *annotationRepo) GetBadgeRemovalsByQuoteIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) ([]*types.QuoteBadgeRemoval, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.QuoteBadgeRemoval
	if len(quoteIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("quote_id IN ?", quoteIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *annotationRepo) FullDeleteByQuoteIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(quoteIDs) == 0 {
		return nil
	}
	if err := t.WithContext(ctx).Where("quote_id IN ?", quoteIDs).Delete(&types.QuoteFlag{}).Error; err != nil {
		return err
	}
	if err := t.WithContext(ctx).Where("quote_id IN ?", quoteIDs).Delete(&types.QuoteTag{}).Error; err != nil {
		return err
	}
	if err := t.WithContext(ctx).Where("quote_id IN ?", quoteIDs).Delete(&types.QuoteRevision{}).Error; err != nil {
		return err
	}
	return t.WithContext(ctx).Where("quote_id IN ?", quoteIDs).Delete(&types.QuoteBadgeRemoval{}).Error
}
