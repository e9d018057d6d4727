package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	"github.com/fieldlens/fieldlens-backend/internal/modules/importer/artifacts"
)

type SyncTopicsInput struct {
	Project    *types.Project
	ImportedAt time.Time
	Sessions   map[string]*types.Session
	Topics     []artifacts.TopicBoundaryDoc
}

type SyncTopicsOutput struct {
	Upserted int
	Skipped  int
}

// SyncTopics upserts topic boundaries by (session, timecode). Boundaries are
// fully pipeline-owned, so every touched row just gets rewritten and stamped.
func SyncTopics(ctx context.Context, deps Deps, tx *gorm.DB, input SyncTopicsInput) (SyncTopicsOutput, error) {
	log := deps.Log.With("step", "SyncTopics")
	out := SyncTopicsOutput{}
	if input.Project == nil {
		return out, fmt.Errorf("sync topics: missing project")
	}

	for _, doc := range input.Topics {
		session := input.Sessions[doc.SessionID]
		if session == nil || doc.TimecodeSeconds < 0 {
			log.Warn("Skipping topic boundary with unresolved session",
				"session_id", doc.SessionID, "timecode_seconds", doc.TimecodeSeconds)
			out.Skipped++
			continue
		}
		stamp := input.ImportedAt
		row := &types.TopicBoundary{
			ID:              uuid.New(),
			SessionID:       session.ID,
			TimecodeSeconds: doc.TimecodeSeconds,
			TopicLabel:      doc.TopicLabel,
			TransitionType:  doc.TransitionType,
			Confidence:      doc.Confidence,
			LastImportedAt:  &stamp,
		}
		if err := deps.Repos.TopicBoundary.UpsertBySessionAndTimecode(ctx, tx, row); err != nil {
			return out, fmt.Errorf("upsert topic boundary %s@%d: %w", doc.SessionID, doc.TimecodeSeconds, err)
		}
		out.Upserted++
	}

	log.Debug("Synced topic boundaries", "upserted", out.Upserted, "skipped", out.Skipped)
	return out, nil
}
