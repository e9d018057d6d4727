package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	dbpkg "github.com/fieldlens/fieldlens-backend/internal/data/db"
	types "github.com/fieldlens/fieldlens-backend/internal/domain"
)

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }

func PtrTime(t time.Time) *time.Time { return &t }

// FreshDB opens a private in-memory database for tests that drive whole
// import runs (which commit their own transactions and so cannot share the
// rollback-per-test database).
func FreshDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open fresh test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("unwrap fresh test db: %v", err)
	}
	// One connection keeps the shared in-memory database alive for the test.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })
	if err := dbpkg.AutoMigrateAll(db); err != nil {
		tb.Fatalf("migrate fresh test db: %v", err)
	}
	return db
}

func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Project {
	tb.Helper()
	p := &types.Project{ID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID uuid.UUID, externalID string) *types.Session {
	tb.Helper()
	s := &types.Session{ID: uuid.New(), ProjectID: projectID, ExternalID: externalID}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedPerson(tb testing.TB, ctx context.Context, tx *gorm.DB, fullName string) *types.Person {
	tb.Helper()
	p := &types.Person{ID: uuid.New(), FullName: fullName}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed person: %v", err)
	}
	return p
}

func SeedSpeaker(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID, personID uuid.UUID, code string) *types.SessionSpeaker {
	tb.Helper()
	s := &types.SessionSpeaker{
		ID:        uuid.New(),
		SessionID: sessionID,
		PersonID:  personID,
		Code:      code,
		Role:      types.SpeakerRoleForCode(code),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed speaker: %v", err)
	}
	return s
}

func SeedQuote(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID, sessionID uuid.UUID, code, startTimecode string, importedAt *time.Time) *types.Quote {
	tb.Helper()
	q := &types.Quote{
		ID:             uuid.New(),
		ProjectID:      projectID,
		SessionID:      sessionID,
		SpeakerCode:    code,
		StartTimecode:  startTimecode,
		Text:           "quote text",
		LastImportedAt: importedAt,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quote: %v", err)
	}
	return q
}

func SeedCluster(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID uuid.UUID, label string, createdBy types.Origin, importedAt *time.Time) *types.ScreenCluster {
	tb.Helper()
	c := &types.ScreenCluster{
		ID:             uuid.New(),
		ProjectID:      projectID,
		Label:          label,
		CreatedBy:      createdBy,
		LastImportedAt: importedAt,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed cluster: %v", err)
	}
	return c
}

func SeedThemeGroup(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID uuid.UUID, label string, createdBy types.Origin, importedAt *time.Time) *types.ThemeGroup {
	tb.Helper()
	g := &types.ThemeGroup{
		ID:             uuid.New(),
		ProjectID:      projectID,
		Label:          label,
		CreatedBy:      createdBy,
		LastImportedAt: importedAt,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed theme group: %v", err)
	}
	return g
}

func SeedClusterQuote(tb testing.TB, ctx context.Context, tx *gorm.DB, clusterID, quoteID uuid.UUID, assignedBy types.Origin) *types.ClusterQuote {
	tb.Helper()
	j := &types.ClusterQuote{ID: uuid.New(), ClusterID: clusterID, QuoteID: quoteID, AssignedBy: assignedBy}
	if err := tx.WithContext(ctx).Create(j).Error; err != nil {
		tb.Fatalf("seed cluster quote: %v", err)
	}
	return j
}

func SeedFlag(tb testing.TB, ctx context.Context, tx *gorm.DB, quoteID uuid.UUID, starred, hidden bool) *types.QuoteFlag {
	tb.Helper()
	f := &types.QuoteFlag{ID: uuid.New(), QuoteID: quoteID, Starred: starred, Hidden: hidden}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed flag: %v", err)
	}
	return f
}
