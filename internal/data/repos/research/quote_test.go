package research

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fieldlens/fieldlens-backend/internal/data/repos/testutil"
)

func TestQuoteRepo(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewQuoteRepo(db, testutil.Logger(t))

	project := testutil.SeedProject(t, ctx, tx, "quote-repo-test")
	session := testutil.SeedSession(t, ctx, tx, project.ID, "s1")

	stamp := time.Now().UTC()
	quote := testutil.SeedQuote(t, ctx, tx, project.ID, session.ID, "p1", "00:12:40", &stamp)

	t.Run("GetByStableKey", func(t *testing.T) {
		got, err := repo.GetByStableKey(ctx, tx, session.ID, "p1", "00:12:40")
		if err != nil {
			t.Fatalf("get by stable key: %v", err)
		}
		if got == nil || got.ID != quote.ID {
			t.Fatalf("expected quote %s, got %+v", quote.ID, got)
		}

		miss, err := repo.GetByStableKey(ctx, tx, session.ID, "p1", "00:99:99")
		if err != nil {
			t.Fatalf("get miss: %v", err)
		}
		if miss != nil {
			t.Fatalf("expected nil for unknown key, got %+v", miss)
		}
	})

	t.Run("Update", func(t *testing.T) {
		quote.Text = "updated text"
		quote.Sentiment = "frustrated"
		if err := repo.Update(ctx, tx, quote); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := repo.GetByStableKey(ctx, tx, session.ID, "p1", "00:12:40")
		if err != nil || got == nil {
			t.Fatalf("reload: %v %+v", err, got)
		}
		if got.Text != "updated text" || got.Sentiment != "frustrated" {
			t.Fatalf("update not persisted: %+v", got)
		}
	})

	t.Run("GetStaleIDs", func(t *testing.T) {
		never := testutil.SeedQuote(t, ctx, tx, project.ID, session.ID, "p1", "00:20:00", nil)
		old := stamp.Add(-time.Hour)
		older := testutil.SeedQuote(t, ctx, tx, project.ID, session.ID, "p2", "00:21:00", &old)

		ids, err := repo.GetStaleIDs(ctx, tx, project.ID, stamp)
		if err != nil {
			t.Fatalf("stale ids: %v", err)
		}
		if len(ids) != 2 {
			t.Fatalf("expected 2 stale quotes, got %d: %v", len(ids), ids)
		}
		seen := map[uuid.UUID]bool{}
		for _, id := range ids {
			seen[id] = true
		}
		if !seen[never.ID] || !seen[older.ID] {
			t.Fatalf("stale set wrong: %v", ids)
		}
		if seen[quote.ID] {
			t.Fatalf("freshly stamped quote must not be stale")
		}
	})

	t.Run("FullDeleteByIDs", func(t *testing.T) {
		if err := repo.FullDeleteByIDs(ctx, tx, []uuid.UUID{quote.ID}); err != nil {
			t.Fatalf("delete: %v", err)
		}
		got, err := repo.GetByStableKey(ctx, tx, session.ID, "p1", "00:12:40")
		if err != nil {
			t.Fatalf("reload after delete: %v", err)
		}
		if got != nil {
			t.Fatalf("quote survived delete: %+v", got)
		}
		// Empty id set is a no-op, not an error.
		if err := repo.FullDeleteByIDs(ctx, tx, nil); err != nil {
			t.Fatalf("empty delete: %v", err)
		}
	})
}
