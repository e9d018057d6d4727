package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldlens/fieldlens-backend/internal/data/repos"
	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	"github.com/fieldlens/fieldlens-backend/internal/modules/importer/artifacts"
	"github.com/fieldlens/fieldlens-backend/internal/modules/importer/steps"
	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
)

type Deps struct {
	DB    *gorm.DB
	Log   *logger.Logger
	Repos repos.All
}

type RunImportInput struct {
	// ProjectDir holds the pipeline's artifacts and transcript directory.
	ProjectDir string
	// ProjectName overrides the name from project.json; defaults to the
	// directory base name when both are absent.
	ProjectName string
}

// RunImport reconciles one pipeline run into the store. It is the engine's
// sole public entry point: one generation timestamp, one transaction, mark
// then sweep. Running twice against unchanged artifacts changes nothing but
// generation stamps. Absent artifacts still make a valid (empty) run, after
// which the reaper has cleared everything pipeline-owned.
//
// Not safe for concurrent invocation against the same project; the contract
// is one importer per project with no overlapping runs.
func RunImport(ctx context.Context, deps Deps, input RunImportInput) (*types.Project, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("importer: missing db")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log := deps.Log.With("module", "importer", "project_dir", input.ProjectDir)

	set := artifacts.Load(input.ProjectDir, deps.Log)
	name := projectName(input, set)
	if name == "" {
		return nil, fmt.Errorf("importer: cannot derive a project name")
	}

	importedAt := time.Now().UTC()
	log.Info("Starting import", "project", name, "imported_at", importedAt,
		"clusters", len(set.Clusters), "themes", len(set.Themes),
		"topics", len(set.Topics), "transcripts", len(set.TranscriptPaths))

	var project *types.Project
	err := deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		project, err = findOrCreateProject(ctx, deps, tx, name)
		if err != nil {
			return err
		}

		stepDeps := steps.Deps{Log: deps.Log, Repos: deps.Repos}

		identities, err := steps.ResolveIdentities(ctx, stepDeps, tx, steps.ResolveIdentitiesInput{
			Project:         project,
			ImportedAt:      importedAt,
			Clusters:        set.Clusters,
			Themes:          set.Themes,
			Topics:          set.Topics,
			TranscriptPaths: set.TranscriptPaths,
			Registry:        set.Registry,
		})
		if err != nil {
			return err
		}

		quotes, err := steps.UpsertQuotes(ctx, stepDeps, tx, steps.UpsertQuotesInput{
			Project:    project,
			ImportedAt: importedAt,
			Sessions:   identities.Sessions,
			Clusters:   set.Clusters,
			Themes:     set.Themes,
		})
		if err != nil {
			return err
		}

		groupings, err := steps.SyncGroupings(ctx, stepDeps, tx, steps.SyncGroupingsInput{
			Project:    project,
			ImportedAt: importedAt,
			Clusters:   set.Clusters,
			Themes:     set.Themes,
			Quotes:     quotes.Quotes,
		})
		if err != nil {
			return err
		}

		if _, err := steps.SyncTopics(ctx, stepDeps, tx, steps.SyncTopicsInput{
			Project:    project,
			ImportedAt: importedAt,
			Sessions:   identities.Sessions,
			Topics:     set.Topics,
		}); err != nil {
			return err
		}

		reaped, err := steps.Reap(ctx, stepDeps, tx, steps.ReapInput{
			Project:            project,
			ImportedAt:         importedAt,
			SessionExternalIDs: identities.SessionExternalIDs,
		})
		if err != nil {
			return err
		}

		if err := deps.Repos.Project.UpdateFields(ctx, tx, project.ID, map[string]interface{}{
			"imported_at": importedAt,
		}); err != nil {
			return fmt.Errorf("stamp project: %w", err)
		}
		project.ImportedAt = &importedAt

		log.Info("Import complete", "project", name,
			"sessions", len(identities.SessionExternalIDs),
			"quotes_inserted", quotes.Inserted, "quotes_updated", quotes.Updated,
			"conflicts", groupings.Conflicts,
			"reaped_quotes", reaped.QuotesDeleted, "reaped_sessions", reaped.SessionsDeleted)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import of %q failed: %w", name, err)
	}
	return project, nil
}

func projectName(input RunImportInput, set artifacts.Set) string {
	if name := strings.TrimSpace(input.ProjectName); name != "" {
		return name
	}
	if set.Meta != nil && strings.TrimSpace(set.Meta.ProjectName) != "" {
		return strings.TrimSpace(set.Meta.ProjectName)
	}
	return filepath.Base(strings.TrimRight(input.ProjectDir, "/"))
}

func findOrCreateProject(ctx context.Context, deps Deps, tx *gorm.DB, name string) (*types.Project, error) {
	project, err := deps.Repos.Project.GetByName(ctx, tx, name)
	if err != nil {
		return nil, fmt.Errorf("look up project %q: %w", name, err)
	}
	if project != nil {
		return project, nil
	}
	project = &types.Project{ID: uuid.New(), Name: name}
	if err := deps.Repos.Project.Create(ctx, tx, project); err != nil {
		return nil, fmt.Errorf("create project %q: %w", name, err)
	}
	return project, nil
}
