package research

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/fieldlens/fieldlens-backend/internal/data/repos/testutil"
)

func TestSessionRepo(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewSessionRepo(db, testutil.Logger(t))

	project := testutil.SeedProject(t, ctx, tx, "session-repo-test")
	other := testutil.SeedProject(t, ctx, tx, "session-repo-test-other")

	s1 := testutil.SeedSession(t, ctx, tx, project.ID, "s1")
	s2 := testutil.SeedSession(t, ctx, tx, project.ID, "s2")
	s3 := testutil.SeedSession(t, ctx, tx, project.ID, "s3")
	foreign := testutil.SeedSession(t, ctx, tx, other.ID, "s1")

	t.Run("GetByProjectAndExternalID", func(t *testing.T) {
		got, err := repo.GetByProjectAndExternalID(ctx, tx, project.ID, "s2")
		if err != nil || got == nil || got.ID != s2.ID {
			t.Fatalf("get s2: %+v err %v", got, err)
		}
		// Same external id under another project is a different session.
		got, err = repo.GetByProjectAndExternalID(ctx, tx, other.ID, "s1")
		if err != nil || got == nil || got.ID != foreign.ID {
			t.Fatalf("get foreign s1: %+v err %v", got, err)
		}
		miss, err := repo.GetByProjectAndExternalID(ctx, tx, project.ID, "s99")
		if err != nil || miss != nil {
			t.Fatalf("expected nil for unknown external id, got %+v err %v", miss, err)
		}
	})

	t.Run("GetIDsNotInExternalIDs", func(t *testing.T) {
		ids, err := repo.GetIDsNotInExternalIDs(ctx, tx, project.ID, []string{"s1", "s3"})
		if err != nil {
			t.Fatalf("dropped ids: %v", err)
		}
		if len(ids) != 1 || ids[0] != s2.ID {
			t.Fatalf("expected only s2 dropped, got %v", ids)
		}

		// An empty keep set means the run saw no sessions at all: every
		// session of the project is up for removal.
		ids, err = repo.GetIDsNotInExternalIDs(ctx, tx, project.ID, nil)
		if err != nil {
			t.Fatalf("dropped ids (empty keep): %v", err)
		}
		if len(ids) != 3 {
			t.Fatalf("expected all 3 sessions dropped, got %v", ids)
		}
		for _, id := range ids {
			if id == foreign.ID {
				t.Fatalf("session of another project returned")
			}
		}
	})

	t.Run("UpdateFields", func(t *testing.T) {
		if err := repo.UpdateFields(ctx, tx, s1.ID, map[string]interface{}{
			"duration_seconds": 2712,
			"has_transcript":   true,
		}); err != nil {
			t.Fatalf("update fields: %v", err)
		}
		got, err := repo.GetByProjectAndExternalID(ctx, tx, project.ID, "s1")
		if err != nil || got == nil {
			t.Fatalf("reload: %+v err %v", got, err)
		}
		if got.DurationSeconds != 2712 || !got.HasTranscript {
			t.Fatalf("fields not applied: %+v", got)
		}
	})

	t.Run("FullDeleteByIDs", func(t *testing.T) {
		if err := repo.FullDeleteByIDs(ctx, tx, []uuid.UUID{s3.ID}); err != nil {
			t.Fatalf("delete: %v", err)
		}
		rows, err := repo.GetByProject(ctx, tx, project.ID)
		if err != nil {
			t.Fatalf("get by project: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 sessions after delete, got %d", len(rows))
		}
	})
}
