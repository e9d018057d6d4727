package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadFullDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "project.json"), `{"project_name": "Mobile App Study"}`)
	writeFile(t, filepath.Join(dir, "clusters.json"), `[
		{"screen_label": "Settings", "description": "Settings screen", "display_order": 1,
		 "quotes": [{"session_id": "s1", "participant_id": "p1", "start_timecode": "00:12:40", "text": "confusing"}]}
	]`)
	writeFile(t, filepath.Join(dir, "themes.json"), `[
		{"theme_label": "Navigation friction", "quotes": [{"session_id": "s2", "participant_id": "p2", "start_timecode": "00:03:10", "text": "lost"}]}
	]`)
	writeFile(t, filepath.Join(dir, "topics.json"), `[
		{"session_id": "s1", "timecode_seconds": 760, "topic_label": "settings", "transition_type": "hard", "confidence": 0.92}
	]`)
	writeFile(t, filepath.Join(dir, "participants.yaml"), "p1:\n  full_name: Maya Krishnan\n  role: designer\n")
	writeFile(t, filepath.Join(dir, "transcripts", "s1.txt"), "[00:00:01] [p1] hello\n")
	writeFile(t, filepath.Join(dir, "transcripts", "notes.md"), "ignore me")

	set := Load(dir, testLogger(t))

	if set.Meta == nil || set.Meta.ProjectName != "Mobile App Study" {
		t.Fatalf("meta: %+v", set.Meta)
	}
	if len(set.Clusters) != 1 || set.Clusters[0].ScreenLabel != "Settings" || len(set.Clusters[0].Quotes) != 1 {
		t.Fatalf("clusters: %+v", set.Clusters)
	}
	if len(set.Themes) != 1 || set.Themes[0].ThemeLabel != "Navigation friction" {
		t.Fatalf("themes: %+v", set.Themes)
	}
	if len(set.Topics) != 1 || set.Topics[0].TimecodeSeconds != 760 {
		t.Fatalf("topics: %+v", set.Topics)
	}
	if set.Registry["p1"].FullName != "Maya Krishnan" {
		t.Fatalf("registry: %+v", set.Registry)
	}
	if len(set.TranscriptPaths) != 1 || set.TranscriptPaths["s1"] == "" {
		t.Fatalf("transcripts: %+v", set.TranscriptPaths)
	}
}

func TestLoadEmptyDirectory(t *testing.T) {
	set := Load(t.TempDir(), testLogger(t))
	if set.Meta != nil || len(set.Clusters) != 0 || len(set.Themes) != 0 || len(set.Topics) != 0 {
		t.Fatalf("empty dir must load as empty set: %+v", set)
	}
	if set.Registry == nil || set.TranscriptPaths == nil {
		t.Fatalf("maps must be initialised")
	}
}

func TestLoadSkipsMalformedRecords(t *testing.T) {
	dir := t.TempDir()
	// Second element has the wrong shape for a cluster; only it is dropped.
	writeFile(t, filepath.Join(dir, "clusters.json"), `[
		{"screen_label": "Dashboard", "quotes": []},
		{"screen_label": 42}
	]`)
	writeFile(t, filepath.Join(dir, "themes.json"), `{not json at all`)
	writeFile(t, filepath.Join(dir, "participants.yaml"), ":\t this is not yaml")

	set := Load(dir, testLogger(t))

	if len(set.Clusters) != 1 || set.Clusters[0].ScreenLabel != "Dashboard" {
		t.Fatalf("clusters: %+v", set.Clusters)
	}
	if len(set.Themes) != 0 {
		t.Fatalf("broken themes file must load as empty, got %+v", set.Themes)
	}
	if len(set.Registry) != 0 {
		t.Fatalf("broken registry must load as empty, got %+v", set.Registry)
	}
}
