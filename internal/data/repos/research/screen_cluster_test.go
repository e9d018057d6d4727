package research

import (
	"context"
	"testing"
	"time"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"

	"github.com/fieldlens/fieldlens-backend/internal/data/repos/testutil"
)

func TestScreenClusterRepo(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewScreenClusterRepo(db, testutil.Logger(t))

	project := testutil.SeedProject(t, ctx, tx, "cluster-repo-test")
	stamp := time.Now().UTC()

	fresh := testutil.SeedCluster(t, ctx, tx, project.ID, "Dashboard", types.OriginPipeline, &stamp)
	old := stamp.Add(-time.Hour)
	stale := testutil.SeedCluster(t, ctx, tx, project.ID, "Settings", types.OriginPipeline, &old)
	manual := testutil.SeedCluster(t, ctx, tx, project.ID, "Key Moments", types.OriginResearcher, nil)

	t.Run("GetByProjectAndLabel", func(t *testing.T) {
		got, err := repo.GetByProjectAndLabel(ctx, tx, project.ID, "Settings")
		if err != nil {
			t.Fatalf("get by label: %v", err)
		}
		if got == nil || got.ID != stale.ID {
			t.Fatalf("expected cluster %s, got %+v", stale.ID, got)
		}
		miss, err := repo.GetByProjectAndLabel(ctx, tx, project.ID, "Onboarding")
		if err != nil || miss != nil {
			t.Fatalf("expected nil for unknown label, got %+v err %v", miss, err)
		}
	})

	t.Run("GetStalePipelineIDs", func(t *testing.T) {
		ids, err := repo.GetStalePipelineIDs(ctx, tx, project.ID, stamp)
		if err != nil {
			t.Fatalf("stale ids: %v", err)
		}
		if len(ids) != 1 || ids[0] != stale.ID {
			t.Fatalf("expected only the old pipeline cluster, got %v", ids)
		}
		// Neither the freshly stamped cluster nor a researcher cluster may
		// ever be reported stale.
		for _, id := range ids {
			if id == fresh.ID || id == manual.ID {
				t.Fatalf("protected cluster returned as stale: %v", id)
			}
		}
	})

	t.Run("GetByProject", func(t *testing.T) {
		rows, err := repo.GetByProject(ctx, tx, project.ID)
		if err != nil {
			t.Fatalf("get by project: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected 3 clusters, got %d", len(rows))
		}
	})
}
