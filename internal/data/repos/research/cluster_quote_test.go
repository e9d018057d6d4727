package research

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"

	"github.com/fieldlens/fieldlens-backend/internal/data/repos/testutil"
)

func TestClusterQuoteRepo(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewClusterQuoteRepo(db, testutil.Logger(t))

	project := testutil.SeedProject(t, ctx, tx, "cluster-quote-repo-test")
	session := testutil.SeedSession(t, ctx, tx, project.ID, "s1")
	stamp := time.Now().UTC()
	cluster := testutil.SeedCluster(t, ctx, tx, project.ID, "Settings", types.OriginPipeline, &stamp)

	kept := testutil.SeedQuote(t, ctx, tx, project.ID, session.ID, "p1", "00:01:00", &stamp)
	moved := testutil.SeedQuote(t, ctx, tx, project.ID, session.ID, "p1", "00:02:00", &stamp)
	manual := testutil.SeedQuote(t, ctx, tx, project.ID, session.ID, "p2", "00:03:00", &stamp)

	keptJoin := testutil.SeedClusterQuote(t, ctx, tx, cluster.ID, kept.ID, types.OriginPipeline)
	testutil.SeedClusterQuote(t, ctx, tx, cluster.ID, moved.ID, types.OriginPipeline)
	manualJoin := testutil.SeedClusterQuote(t, ctx, tx, cluster.ID, manual.ID, types.OriginResearcher)

	t.Run("DeletePipelineNotInQuoteSet", func(t *testing.T) {
		// This run only the first quote still belongs to the cluster.
		if err := repo.DeletePipelineNotInQuoteSet(ctx, tx, cluster.ID, []uuid.UUID{kept.ID}); err != nil {
			t.Fatalf("prune: %v", err)
		}
		rows, err := repo.GetByClusterIDs(ctx, tx, []uuid.UUID{cluster.ID})
		if err != nil {
			t.Fatalf("reload joins: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 surviving joins, got %d", len(rows))
		}
		ids := map[uuid.UUID]bool{}
		for _, row := range rows {
			ids[row.ID] = true
		}
		if !ids[keptJoin.ID] {
			t.Fatalf("kept pipeline join was pruned")
		}
		if !ids[manualJoin.ID] {
			t.Fatalf("researcher join was pruned")
		}
	})

	t.Run("GetByClusterAndQuote", func(t *testing.T) {
		got, err := repo.GetByClusterAndQuote(ctx, tx, cluster.ID, kept.ID)
		if err != nil || got == nil || got.ID != keptJoin.ID {
			t.Fatalf("get join: %+v err %v", got, err)
		}
		miss, err := repo.GetByClusterAndQuote(ctx, tx, cluster.ID, moved.ID)
		if err != nil || miss != nil {
			t.Fatalf("pruned join still found: %+v err %v", miss, err)
		}
	})

	t.Run("CountDangling", func(t *testing.T) {
		n, err := repo.CountDangling(ctx, tx)
		if err != nil {
			t.Fatalf("count dangling: %v", err)
		}
		if n != 0 {
			t.Fatalf("expected no dangling joins, got %d", n)
		}

		// Delete a quote row out from under its join; the join now dangles.
		if err := tx.WithContext(ctx).Where("id = ?", kept.ID).Delete(&types.Quote{}).Error; err != nil {
			t.Fatalf("delete quote: %v", err)
		}
		n, err = repo.CountDangling(ctx, tx)
		if err != nil {
			t.Fatalf("count dangling: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected 1 dangling join, got %d", n)
		}
	})
}
