package steps

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	pkgerrors "github.com/fieldlens/fieldlens-backend/internal/pkg/errors"
)

type ReapInput struct {
	Project    *types.Project
	ImportedAt time.Time
	// SessionExternalIDs is the full identifier set seen this run. Sessions
	// outside it are swept with everything under them.
	SessionExternalIDs []string
}

type ReapOutput struct {
	QuotesDeleted     int
	ClustersDeleted   int
	ThemesDeleted     int
	BoundariesDeleted int
	SessionsDeleted   int
	PersonsDeleted    int
}

// Reap is the sweep phase: everything pipeline-owned that the just-completed
// mark phase did not stamp gets deleted, children strictly before the rows
// they reference. The order below is a topological order over the reference
// graph; a dangling join left afterwards means the engine itself is broken
// and the whole run must abort.
func Reap(ctx context.Context, deps Deps, tx *gorm.DB, input ReapInput) (ReapOutput, error) {
	log := deps.Log.With("step", "Reap")
	out := ReapOutput{}
	if input.Project == nil {
		return out, fmt.Errorf("reap: missing project")
	}
	projectID := input.Project.ID

	// 1. Stale quotes, deepest first: annotations, then joins, then the rows.
	staleQuotes, err := deps.Repos.Quote.GetStaleIDs(ctx, tx, projectID, input.ImportedAt)
	if err != nil {
		return out, fmt.Errorf("list stale quotes: %w", err)
	}
	if len(staleQuotes) > 0 {
		if err := deps.Repos.Annotation.FullDeleteByQuoteIDs(ctx, tx, staleQuotes); err != nil {
			return out, fmt.Errorf("delete annotations of stale quotes: %w", err)
		}
		if err := deps.Repos.ClusterQuote.FullDeleteByQuoteIDs(ctx, tx, staleQuotes); err != nil {
			return out, fmt.Errorf("delete cluster joins of stale quotes: %w", err)
		}
		if err := deps.Repos.ThemeQuote.FullDeleteByQuoteIDs(ctx, tx, staleQuotes); err != nil {
			return out, fmt.Errorf("delete theme joins of stale quotes: %w", err)
		}
		if err := deps.Repos.Quote.FullDeleteByIDs(ctx, tx, staleQuotes); err != nil {
			return out, fmt.Errorf("delete stale quotes: %w", err)
		}
		out.QuotesDeleted = len(staleQuotes)
	}

	// 2. Stale pipeline groupings and their joins. Researcher groupings are
	// structurally excluded by the stale query.
	staleClusters, err := deps.Repos.ScreenCluster.GetStalePipelineIDs(ctx, tx, projectID, input.ImportedAt)
	if err != nil {
		return out, fmt.Errorf("list stale clusters: %w", err)
	}
	if len(staleClusters) > 0 {
		if err := deps.Repos.ClusterQuote.FullDeleteByClusterIDs(ctx, tx, staleClusters); err != nil {
			return out, fmt.Errorf("delete joins of stale clusters: %w", err)
		}
		if err := deps.Repos.ScreenCluster.FullDeleteByIDs(ctx, tx, staleClusters); err != nil {
			return out, fmt.Errorf("delete stale clusters: %w", err)
		}
		out.ClustersDeleted = len(staleClusters)
	}
	staleThemes, err := deps.Repos.ThemeGroup.GetStalePipelineIDs(ctx, tx, projectID, input.ImportedAt)
	if err != nil {
		return out, fmt.Errorf("list stale themes: %w", err)
	}
	if len(staleThemes) > 0 {
		if err := deps.Repos.ThemeQuote.FullDeleteByThemeIDs(ctx, tx, staleThemes); err != nil {
			return out, fmt.Errorf("delete joins of stale themes: %w", err)
		}
		if err := deps.Repos.ThemeGroup.FullDeleteByIDs(ctx, tx, staleThemes); err != nil {
			return out, fmt.Errorf("delete stale themes: %w", err)
		}
		out.ThemesDeleted = len(staleThemes)
	}

	// 3. Stale topic boundaries.
	staleBoundaries, err := deps.Repos.TopicBoundary.GetStaleIDs(ctx, tx, projectID, input.ImportedAt)
	if err != nil {
		return out, fmt.Errorf("list stale topic boundaries: %w", err)
	}
	if len(staleBoundaries) > 0 {
		if err := deps.Repos.TopicBoundary.FullDeleteByIDs(ctx, tx, staleBoundaries); err != nil {
			return out, fmt.Errorf("delete stale topic boundaries: %w", err)
		}
		out.BoundariesDeleted = len(staleBoundaries)
	}

	// 4. Sessions absent from this run's identifier set, cascading through
	// everything that references them. Their quotes were already stale and
	// are gone since (1).
	droppedSessions, err := deps.Repos.Session.GetIDsNotInExternalIDs(ctx, tx, projectID, input.SessionExternalIDs)
	if err != nil {
		return out, fmt.Errorf("list dropped sessions: %w", err)
	}
	if len(droppedSessions) > 0 {
		if err := deps.Repos.TranscriptSegment.FullDeleteBySessionIDs(ctx, tx, droppedSessions); err != nil {
			return out, fmt.Errorf("delete segments of dropped sessions: %w", err)
		}
		if err := deps.Repos.TopicBoundary.FullDeleteBySessionIDs(ctx, tx, droppedSessions); err != nil {
			return out, fmt.Errorf("delete boundaries of dropped sessions: %w", err)
		}
		if err := deps.Repos.SourceFile.FullDeleteBySessionIDs(ctx, tx, droppedSessions); err != nil {
			return out, fmt.Errorf("delete source files of dropped sessions: %w", err)
		}
		if err := deps.Repos.SessionSpeaker.FullDeleteBySessionIDs(ctx, tx, droppedSessions); err != nil {
			return out, fmt.Errorf("delete speaker links of dropped sessions: %w", err)
		}
		if err := deps.Repos.Session.FullDeleteByIDs(ctx, tx, droppedSessions); err != nil {
			return out, fmt.Errorf("delete dropped sessions: %w", err)
		}
		out.SessionsDeleted = len(droppedSessions)
	}

	// Persons are instance-scoped: deleted only once no speaker link anywhere
	// references them.
	orphans, err := deps.Repos.Person.GetOrphanIDs(ctx, tx)
	if err != nil {
		return out, fmt.Errorf("list orphan persons: %w", err)
	}
	if len(orphans) > 0 {
		if err := deps.Repos.Person.FullDeleteByIDs(ctx, tx, orphans); err != nil {
			return out, fmt.Errorf("delete orphan persons: %w", err)
		}
		out.PersonsDeleted = len(orphans)
	}

	if err := verifyNoDanglingJoins(ctx, deps, tx); err != nil {
		return out, err
	}

	log.Debug("Reaped stale generation",
		"quotes", out.QuotesDeleted, "clusters", out.ClustersDeleted, "themes", out.ThemesDeleted,
		"boundaries", out.BoundariesDeleted, "sessions", out.SessionsDeleted, "persons", out.PersonsDeleted)
	return out, nil
}

// verifyNoDanglingJoins proves the sweep honored the reference graph. A
// non-zero count is an ordering bug in this file, not a data problem, so it
// aborts the transaction.
func verifyNoDanglingJoins(ctx context.Context, deps Deps, tx *gorm.DB) error {
	n, err := deps.Repos.ClusterQuote.CountDangling(ctx, tx)
	if err != nil {
		return fmt.Errorf("verify cluster joins: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%d cluster joins left dangling after reap: %w", n, pkgerrors.ErrIntegrity)
	}
	n, err = deps.Repos.ThemeQuote.CountDangling(ctx, tx)
	if err != nil {
		return fmt.Errorf("verify theme joins: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%d theme joins left dangling after reap: %w", n, pkgerrors.ErrIntegrity)
	}
	return nil
}
