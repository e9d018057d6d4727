package research

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
)

type TranscriptSegmentRepo interface {
	GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.TranscriptSegment, error)

	// ReplaceForSession swaps the session's segments wholesale. Segments carry
	// no human edits, so a full rewrite per run is the simplest correct merge.
	ReplaceForSession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, rows []*types.TranscriptSegment) error
	FullDeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error
}

type transcriptSegmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTranscriptSegmentRepo(db *gorm.DB, baseLog *logger.Logger) TranscriptSegmentRepo {
	return &transcriptSegmentRepo{db: db, log: baseLog.With("repo", "TranscriptSegmentRepo")}
}

func (r *transcriptSegmentRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.TranscriptSegment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.TranscriptSegment
	if sessionID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("ordinal ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *transcriptSegmentRepo) ReplaceForSession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, rows []*types.TranscriptSegment) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if sessionID == uuid.Nil {
		return nil
	}
	if err := t.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&types.TranscriptSegment{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return t.WithContext(ctx).Create(&rows).Error
}

func (r *transcriptSegmentRepo) FullDeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(sessionIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Delete(&types.TranscriptSegment{}).Error
}
