package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	"github.com/fieldlens/fieldlens-backend/internal/modules/importer/artifacts"
)

type SyncGroupingsInput struct {
	Project    *types.Project
	ImportedAt time.Time
	Clusters   []artifacts.ClusterDoc
	Themes     []artifacts.ThemeDoc
	Quotes     map[QuoteKey]*types.Quote
}

type SyncGroupingsOutput struct {
	ClustersSynced int
	ThemesSynced   int
	Conflicts      int
}

// SyncGroupings find-or-creates screen clusters and theme groups by label,
// refreshes pipeline-owned ones and rebuilds their pipeline-assigned joins.
// Researcher-owned groupings with a colliding label are recorded as conflicts
// and left exactly as they are; researcher-assigned joins are never removed.
func SyncGroupings(ctx context.Context, deps Deps, tx *gorm.DB, input SyncGroupingsInput) (SyncGroupingsOutput, error) {
	log := deps.Log.With("step", "SyncGroupings")
	out := SyncGroupingsOutput{}
	if input.Project == nil {
		return out, fmt.Errorf("sync groupings: missing project")
	}

	for _, doc := range input.Clusters {
		label := strings.TrimSpace(doc.ScreenLabel)
		if label == "" {
			log.Warn("Skipping cluster without a label")
			continue
		}
		synced, err := syncCluster(ctx, deps, tx, input, doc, label)
		if err != nil {
			return out, err
		}
		if synced {
			out.ClustersSynced++
		} else {
			out.Conflicts++
		}
	}

	for _, doc := range input.Themes {
		label := strings.TrimSpace(doc.ThemeLabel)
		if label == "" {
			log.Warn("Skipping theme without a label")
			continue
		}
		synced, err := syncTheme(ctx, deps, tx, input, doc, label)
		if err != nil {
			return out, err
		}
		if synced {
			out.ThemesSynced++
		} else {
			out.Conflicts++
		}
	}

	log.Debug("Synced groupings",
		"clusters", out.ClustersSynced, "themes", out.ThemesSynced, "conflicts", out.Conflicts)
	return out, nil
}

func syncCluster(ctx context.Context, deps Deps, tx *gorm.DB, input SyncGroupingsInput, doc artifacts.ClusterDoc, label string) (bool, error) {
	stamp := input.ImportedAt
	row, err := deps.Repos.ScreenCluster.GetByProjectAndLabel(ctx, tx, input.Project.ID, label)
	if err != nil {
		return false, fmt.Errorf("look up cluster %q: %w", label, err)
	}
	if row == nil {
		row = &types.ScreenCluster{
			ID:             uuid.New(),
			ProjectID:      input.Project.ID,
			Label:          label,
			Description:    doc.Description,
			DisplayOrder:   doc.DisplayOrder,
			CreatedBy:      types.OriginPipeline,
			LastImportedAt: &stamp,
		}
		if err := deps.Repos.ScreenCluster.Create(ctx, tx, row); err != nil {
			return false, fmt.Errorf("create cluster %q: %w", label, err)
		}
	} else {
		switch row.CreatedBy {
		case types.OriginPipeline:
			row.Description = doc.Description
			row.DisplayOrder = doc.DisplayOrder
			row.LastImportedAt = &stamp
			if err := deps.Repos.ScreenCluster.Update(ctx, tx, row); err != nil {
				return false, fmt.Errorf("update cluster %q: %w", label, err)
			}
		case types.OriginResearcher:
			if err := recordConflict(ctx, deps, tx, input.Project.ID, types.ConflictKindScreenCluster, label); err != nil {
				return false, err
			}
			return false, nil
		default:
			return false, fmt.Errorf("cluster %q has unknown ownership tag %q", label, row.CreatedBy)
		}
	}

	desired, err := joinQuoteIDs(deps, input.Quotes, doc.Quotes)
	if err != nil {
		return false, err
	}
	for _, quoteID := range desired {
		existing, err := deps.Repos.ClusterQuote.GetByClusterAndQuote(ctx, tx, row.ID, quoteID)
		if err != nil {
			return false, fmt.Errorf("look up cluster join %q: %w", label, err)
		}
		if existing != nil {
			continue
		}
		join := &types.ClusterQuote{
			ID:         uuid.New(),
			ClusterID:  row.ID,
			QuoteID:    quoteID,
			AssignedBy: types.OriginPipeline,
		}
		if err := deps.Repos.ClusterQuote.Create(ctx, tx, join); err != nil {
			return false, fmt.Errorf("create cluster join %q: %w", label, err)
		}
	}
	if err := deps.Repos.ClusterQuote.DeletePipelineNotInQuoteSet(ctx, tx, row.ID, desired); err != nil {
		return false, fmt.Errorf("prune cluster joins %q: %w", label, err)
	}
	return true, nil
}

func syncTheme(ctx context.Context, deps Deps, tx *gorm.DB, input SyncGroupingsInput, doc artifacts.ThemeDoc, label string) (bool, error) {
	stamp := input.ImportedAt
	row, err := deps.Repos.ThemeGroup.GetByProjectAndLabel(ctx, tx, input.Project.ID, label)
	if err != nil {
		return false, fmt.Errorf("look up theme %q: %w", label, err)
	}
	if row == nil {
		row = &types.ThemeGroup{
			ID:             uuid.New(),
			ProjectID:      input.Project.ID,
			Label:          label,
			Description:    doc.Description,
			CreatedBy:      types.OriginPipeline,
			LastImportedAt: &stamp,
		}
		if err := deps.Repos.ThemeGroup.Create(ctx, tx, row); err != nil {
			return false, fmt.Errorf("create theme %q: %w", label, err)
		}
	} else {
		switch row.CreatedBy {
		case types.OriginPipeline:
			row.Description = doc.Description
			row.LastImportedAt = &stamp
			if err := deps.Repos.ThemeGroup.Update(ctx, tx, row); err != nil {
				return false, fmt.Errorf("update theme %q: %w", label, err)
			}
		case types.OriginResearcher:
			if err := recordConflict(ctx, deps, tx, input.Project.ID, types.ConflictKindThemeGroup, label); err != nil {
				return false, err
			}
			return false, nil
		default:
			return false, fmt.Errorf("theme %q has unknown ownership tag %q", label, row.CreatedBy)
		}
	}

	desired, err := joinQuoteIDs(deps, input.Quotes, doc.Quotes)
	if err != nil {
		return false, err
	}
	for _, quoteID := range desired {
		existing, err := deps.Repos.ThemeQuote.GetByThemeAndQuote(ctx, tx, row.ID, quoteID)
		if err != nil {
			return false, fmt.Errorf("look up theme join %q: %w", label, err)
		}
		if existing != nil {
			continue
		}
		join := &types.ThemeQuote{
			ID:         uuid.New(),
			ThemeID:    row.ID,
			QuoteID:    quoteID,
			AssignedBy: types.OriginPipeline,
		}
		if err := deps.Repos.ThemeQuote.Create(ctx, tx, join); err != nil {
			return false, fmt.Errorf("create theme join %q: %w", label, err)
		}
	}
	if err := deps.Repos.ThemeQuote.DeletePipelineNotInQuoteSet(ctx, tx, row.ID, desired); err != nil {
		return false, fmt.Errorf("prune theme joins %q: %w", label, err)
	}
	return true, nil
}

func joinQuoteIDs(deps Deps, quotes map[QuoteKey]*types.Quote, docs []artifacts.QuoteDoc) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]bool{}
	out := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		key, ok := keyForDoc(doc)
		if !ok {
			continue
		}
		row := quotes[key]
		if row == nil {
			// The upserter skipped it (unresolved session); skip here too.
			continue
		}
		if !seen[row.ID] {
			seen[row.ID] = true
			out = append(out, row.ID)
		}
	}
	return out, nil
}

func recordConflict(ctx context.Context, deps Deps, tx *gorm.DB, projectID uuid.UUID, kind, label string) error {
	existing, err := deps.Repos.ImportConflict.GetByProjectKindLabel(ctx, tx, projectID, kind, label)
	if err != nil {
		return fmt.Errorf("look up conflict for %q: %w", label, err)
	}
	if existing != nil {
		// Still unresolved from an earlier run; one row per collision is
		// enough for the reviewer.
		return nil
	}
	details, _ := json.Marshal(map[string]string{
		"wanted_by": string(types.OriginPipeline),
		"owned_by":  string(types.OriginResearcher),
		"reason":    "pipeline grouping label collides with a researcher-created grouping",
	})
	row := &types.ImportConflict{
		ID:        uuid.New(),
		ProjectID: projectID,
		Kind:      kind,
		Label:     label,
		Details:   details,
	}
	if err := deps.Repos.ImportConflict.Create(ctx, tx, row); err != nil {
		return fmt.Errorf("record conflict for %q: %w", label, err)
	}
	deps.Log.Warn("Grouping label owned by researcher, recorded conflict", "kind", kind, "label", label)
	return nil
}
