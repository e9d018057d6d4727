package db

import (
	types "github.com/fieldlens/fieldlens-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Identity
		// =========================
		&types.Project{},
		&types.Session{},
		&types.SourceFile{},
		&types.Person{},
		&types.SessionSpeaker{},

		// =========================
		// Transcript structure
		// =========================
		&types.TranscriptSegment{},
		&types.TopicBoundary{},

		// =========================
		// Quotes + groupings
		// =========================
		&types.Quote{},
		&types.ScreenCluster{},
		&types.ThemeGroup{},
		&types.ClusterQuote{},
		&types.ThemeQuote{},

		// =========================
		// Researcher annotations + review queue
		// =========================
		&types.QuoteFlag{},
		&types.QuoteTag{},
		&types.QuoteRevision{},
		&types.QuoteBadgeRemoval{},
		&types.ImportConflict{},
	)
}
