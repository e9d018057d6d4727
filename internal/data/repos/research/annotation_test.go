package research

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"

	"github.com/fieldlens/fieldlens-backend/internal/data/repos/testutil"
)

func TestAnnotationRepo(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewAnnotationRepo(db, testutil.Logger(t))

	project := testutil.SeedProject(t, ctx, tx, "annotation-repo-test")
	session := testutil.SeedSession(t, ctx, tx, project.ID, "s1")
	stamp := time.Now().UTC()
	quote := testutil.SeedQuote(t, ctx, tx, project.ID, session.ID, "p1", "00:05:00", &stamp)
	untouched := testutil.SeedQuote(t, ctx, tx, project.ID, session.ID, "p1", "00:06:00", &stamp)

	if err := repo.CreateFlag(ctx, tx, &types.QuoteFlag{ID: uuid.New(), QuoteID: quote.ID, Starred: true}); err != nil {
		t.Fatalf("create flag: %v", err)
	}
	if err := repo.CreateTag(ctx, tx, &types.QuoteTag{ID: uuid.New(), QuoteID: quote.ID, Tag: "pricing"}); err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if err := repo.CreateRevision(ctx, tx, &types.QuoteRevision{
		ID: uuid.New(), QuoteID: quote.ID, CorrectedText: "corrected", EditedAt: stamp,
	}); err != nil {
		t.Fatalf("create revision: %v", err)
	}
	if err := repo.CreateBadgeRemoval(ctx, tx, &types.QuoteBadgeRemoval{ID: uuid.New(), QuoteID: quote.ID, Badge: "sentiment"}); err != nil {
		t.Fatalf("create badge removal: %v", err)
	}
	if err := repo.CreateFlag(ctx, tx, &types.QuoteFlag{ID: uuid.New(), QuoteID: untouched.ID, Hidden: true}); err != nil {
		t.Fatalf("create second flag: %v", err)
	}

	t.Run("Reads", func(t *testing.T) {
		flag, err := repo.GetFlagByQuoteID(ctx, tx, quote.ID)
		if err != nil || flag == nil || !flag.Starred {
			t.Fatalf("flag: %+v err %v", flag, err)
		}
		tags, err := repo.GetTagsByQuoteIDs(ctx, tx, []uuid.UUID{quote.ID})
		if err != nil || len(tags) != 1 || tags[0].Tag != "pricing" {
			t.Fatalf("tags: %+v err %v", tags, err)
		}
		rev, err := repo.GetRevisionByQuoteID(ctx, tx, quote.ID)
		if err != nil || rev == nil || rev.CorrectedText != "corrected" {
			t.Fatalf("revision: %+v err %v", rev, err)
		}
		removals, err := repo.GetBadgeRemovalsByQuoteIDs(ctx, tx, []uuid.UUID{quote.ID})
		if err != nil || len(removals) != 1 || removals[0].Badge != "sentiment" {
			t.Fatalf("badge removals: %+v err %v", removals, err)
		}
	})

	t.Run("FullDeleteByQuoteIDs", func(t *testing.T) {
		if err := repo.FullDeleteByQuoteIDs(ctx, tx, []uuid.UUID{quote.ID}); err != nil {
			t.Fatalf("delete: %v", err)
		}
		flag, err := repo.GetFlagByQuoteID(ctx, tx, quote.ID)
		if err != nil || flag != nil {
			t.Fatalf("flag survived: %+v err %v", flag, err)
		}
		tags, err := repo.GetTagsByQuoteIDs(ctx, tx, []uuid.UUID{quote.ID})
		if err != nil || len(tags) != 0 {
			t.Fatalf("tags survived: %+v err %v", tags, err)
		}
		rev, err := repo.GetRevisionByQuoteID(ctx, tx, quote.ID)
		if err != nil || rev != nil {
			t.Fatalf("revision survived: %+v err %v", rev, err)
		}
		removals, err := repo.GetBadgeRemovalsByQuoteIDs(ctx, tx, []uuid.UUID{quote.ID})
		if err != nil || len(removals) != 0 {
			t.Fatalf("badge removals survived: %+v err %v", removals, err)
		}

		// Annotations of other quotes are untouched.
		other, err := repo.GetFlagByQuoteID(ctx, tx, untouched.ID)
		if err != nil || other == nil || !other.Hidden {
			t.Fatalf("unrelated flag lost: %+v err %v", other, err)
		}
	})
}
