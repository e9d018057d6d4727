package research

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
)

type ClusterQuoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ClusterQuote) error
	GetByClusterIDs(ctx context.Context, tx *gorm.DB, clusterIDs []uuid.UUID) ([]*types.ClusterQuote, error)
	GetByQuoteIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) ([]*types.ClusterQuote, error)
	GetByClusterAndQuote(ctx context.Context, tx *gorm.DB, clusterID, quoteID uuid.UUID) (*types.ClusterQuote, error)

	FullDeleteByQuoteIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) error
	FullDeleteByClusterIDs(ctx context.Context, tx *gorm.DB, clusterIDs []uuid.UUID) error

	// DeletePipelineNotInQuoteSet removes pipeline-assigned joins of the
	// cluster pointing at quotes outside keep. Researcher-assigned joins are
	// left alone regardless of keep.
	DeletePipelineNotInQuoteSet(ctx context.Context, tx *gorm.DB, clusterID uuid.UUID, keep []uuid.UUID) error

	// CountDangling counts joins whose quote or cluster endpoint is gone.
	// After a reap this must be zero; anything else is an engine defect.
	CountDangling(ctx context.Context, tx *gorm.DB) (int64, error)
}

type clusterQuoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClusterQuoteRepo(db *gorm.DB, baseLog *logger.Logger) ClusterQuoteRepo {
	return &clusterQuoteRepo{db: db, log: baseLog.With("repo", "ClusterQuoteRepo")}
}

func (r *clusterQuoteRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ClusterQuote) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *clusterQuoteRepo) GetByClusterIDs(ctx context.Context, tx *gorm.DB, clusterIDs []uuid.UUID) ([]*types.ClusterQuote, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ClusterQuote
	if len(clusterIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("cluster_id IN ?", clusterIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *clusterQuoteRepo) GetByQuoteIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) ([]*types.ClusterQuote, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ClusterQuote
	if len(quoteIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("quote_id IN ?", quoteIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *clusterQuoteRepo) GetByClusterAndQuote(ctx context.Context, tx *gorm.DB, clusterID, quoteID uuid.UUID) (*types.ClusterQuote, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if clusterID == uuid.Nil || quoteID == uuid.Nil {
		return nil, nil
	}
	var out types.ClusterQuote
	if err := t.WithContext(ctx).
		Where("cluster_id = ? AND quote_id = ?", clusterID, quoteID).
		First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *clusterQuoteRepo) FullDeleteByQuoteIDs(ctx context.Context, tx *gorm.DB, quoteIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(quoteIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("quote_id IN ?", quoteIDs).
		Delete(&types.ClusterQuote{}).Error
}

func (r *clusterQuoteRepo) FullDeleteByClusterIDs(ctx context.Context, tx *gorm.DB, clusterIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(clusterIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("cluster_id IN ?", clusterIDs).
		Delete(&types.ClusterQuote{}).Error
}

func (r *clusterQuoteRepo) DeletePipelineNotInQuoteSet(ctx context.Context, tx *gorm.DB, clusterID uuid.UUID, keep []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if clusterID == uuid.Nil {
		return nil
	}
	q := t.WithContext(ctx).
		Where("cluster_id = ? AND assigned_by = ?", clusterID, types.OriginPipeline)
	if len(keep) > 0 {
		q = q.Where("quote_id NOT IN ?", keep)
	}
	return q.Delete(&types.ClusterQuote{}).Error
}

func (r *clusterQuoteRepo) CountDangling(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	err := t.WithContext(ctx).
		Model(&types.ClusterQuote{}).
		Where("NOT EXISTS (SELECT 1 FROM quote q WHERE q.id = cluster_quote.quote_id)" +
			" OR NOT EXISTS (SELECT 1 FROM screen_cluster c WHERE c.id = cluster_quote.cluster_id)").
		Count(&n).Error
	return n, err
}
