package research

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/fieldlens/fieldlens-backend/internal/data/repos/testutil"
)

func TestPersonRepo(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPersonRepo(db, testutil.Logger(t))

	project := testutil.SeedProject(t, ctx, tx, "person-repo-test")
	session := testutil.SeedSession(t, ctx, tx, project.ID, "s1")

	linked := testutil.SeedPerson(t, ctx, tx, "Maya Krishnan")
	testutil.SeedSpeaker(t, ctx, tx, session.ID, linked.ID, "p1")
	orphan := testutil.SeedPerson(t, ctx, tx, "")

	t.Run("GetOrphanIDs", func(t *testing.T) {
		ids, err := repo.GetOrphanIDs(ctx, tx)
		if err != nil {
			t.Fatalf("orphan ids: %v", err)
		}
		if len(ids) != 1 || ids[0] != orphan.ID {
			t.Fatalf("expected only the unlinked person, got %v", ids)
		}
	})

	t.Run("Update", func(t *testing.T) {
		linked.ShortName = "Maya"
		if err := repo.Update(ctx, tx, linked); err != nil {
			t.Fatalf("update: %v", err)
		}
		rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{linked.ID})
		if err != nil || len(rows) != 1 {
			t.Fatalf("reload: %v rows %d", err, len(rows))
		}
		if rows[0].ShortName != "Maya" {
			t.Fatalf("update not persisted: %+v", rows[0])
		}
	})

	t.Run("FullDeleteByIDs", func(t *testing.T) {
		if err := repo.FullDeleteByIDs(ctx, tx, []uuid.UUID{orphan.ID}); err != nil {
			t.Fatalf("delete: %v", err)
		}
		ids, err := repo.GetOrphanIDs(ctx, tx)
		if err != nil {
			t.Fatalf("orphan ids after delete: %v", err)
		}
		if len(ids) != 0 {
			t.Fatalf("orphan survived delete: %v", ids)
		}
	})
}
