package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fieldlens/fieldlens-backend/internal/data/db"
	"github.com/fieldlens/fieldlens-backend/internal/data/repos"
	"github.com/fieldlens/fieldlens-backend/internal/modules/importer"
	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
	"github.com/fieldlens/fieldlens-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Store
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Store init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Store auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	allRepos := repos.NewAll(thePG, log)

	deps := importer.Deps{DB: thePG, Log: log, Repos: allRepos}

	// Either one project dir as argv[1], or every subdirectory of PROJECTS_DIR.
	var projectDirs []string
	if len(os.Args) > 1 {
		projectDirs = os.Args[1:]
	} else {
		root := utils.GetEnv("PROJECTS_DIR", "projects", log)
		entries, err := os.ReadDir(root)
		if err != nil {
			log.Fatal("Cannot read projects directory", "dir", root, "error", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				projectDirs = append(projectDirs, filepath.Join(root, e.Name()))
			}
		}
	}

	ctx := context.Background()
	failures := 0
	for _, dir := range projectDirs {
		project, err := importer.RunImport(ctx, deps, importer.RunImportInput{ProjectDir: dir})
		if err != nil {
			// Previously reconciled data stays served; just move on.
			log.Error("Import failed, store left untouched", "dir", dir, "error", err)
			failures++
			continue
		}
		log.Info("Project reconciled", "project", project.Name, "imported_at", project.ImportedAt)
	}
	if failures > 0 {
		os.Exit(1)
	}
}
