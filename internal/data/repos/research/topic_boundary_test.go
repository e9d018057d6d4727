package research

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"

	"github.com/fieldlens/fieldlens-backend/internal/data/repos/testutil"
)

func TestTopicBoundaryRepo(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewTopicBoundaryRepo(db, testutil.Logger(t))

	project := testutil.SeedProject(t, ctx, tx, "topic-boundary-repo-test")
	session := testutil.SeedSession(t, ctx, tx, project.ID, "s1")
	stamp := time.Now().UTC()

	t.Run("UpsertBySessionAndTimecode", func(t *testing.T) {
		first := &types.TopicBoundary{
			ID:              uuid.New(),
			SessionID:       session.ID,
			TimecodeSeconds: 760,
			TopicLabel:      "settings",
			LastImportedAt:  &stamp,
		}
		if err := repo.UpsertBySessionAndTimecode(ctx, tx, first); err != nil {
			t.Fatalf("first upsert: %v", err)
		}

		// Same session and timecode next run: the row is rewritten, not doubled.
		later := stamp.Add(time.Minute)
		second := &types.TopicBoundary{
			ID:              uuid.New(),
			SessionID:       session.ID,
			TimecodeSeconds: 760,
			TopicLabel:      "settings and preferences",
			LastImportedAt:  &later,
		}
		if err := repo.UpsertBySessionAndTimecode(ctx, tx, second); err != nil {
			t.Fatalf("second upsert: %v", err)
		}

		rows, err := repo.GetBySessionIDs(ctx, tx, []uuid.UUID{session.ID})
		if err != nil {
			t.Fatalf("reload: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 boundary, got %d", len(rows))
		}
		if rows[0].ID != first.ID {
			t.Fatalf("boundary row replaced instead of updated: %s -> %s", first.ID, rows[0].ID)
		}
		if rows[0].TopicLabel != "settings and preferences" {
			t.Fatalf("label not rewritten: %+v", rows[0])
		}
		if rows[0].LastImportedAt == nil || !rows[0].LastImportedAt.After(stamp) {
			t.Fatalf("generation stamp not refreshed: %+v", rows[0].LastImportedAt)
		}
	})

	t.Run("GetStaleIDs", func(t *testing.T) {
		old := stamp.Add(-time.Hour)
		stale := &types.TopicBoundary{
			ID:              uuid.New(),
			SessionID:       session.ID,
			TimecodeSeconds: 1500,
			TopicLabel:      "wrap-up",
			LastImportedAt:  &old,
		}
		if err := repo.UpsertBySessionAndTimecode(ctx, tx, stale); err != nil {
			t.Fatalf("seed stale boundary: %v", err)
		}

		ids, err := repo.GetStaleIDs(ctx, tx, project.ID, stamp)
		if err != nil {
			t.Fatalf("stale ids: %v", err)
		}
		if len(ids) != 1 {
			t.Fatalf("expected 1 stale boundary, got %v", ids)
		}
		if err := repo.FullDeleteByIDs(ctx, tx, ids); err != nil {
			t.Fatalf("delete stale: %v", err)
		}
		rows, err := repo.GetBySessionIDs(ctx, tx, []uuid.UUID{session.ID})
		if err != nil || len(rows) != 1 {
			t.Fatalf("expected only the fresh boundary left: %v rows %d", err, len(rows))
		}
	})
}
