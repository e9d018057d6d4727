package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
)

// ProjectMeta is the pipeline's project metadata record.
type ProjectMeta struct {
	ProjectName string `json:"project_name"`
}

// QuoteDoc is one quote as the pipeline emits it, inside a cluster or theme.
type QuoteDoc struct {
	SessionID         string `json:"session_id"`
	ParticipantID     string `json:"participant_id"`
	StartTimecode     string `json:"start_timecode"`
	EndTimecode       string `json:"end_timecode"`
	Text              string `json:"text"`
	VerbatimExcerpt   string `json:"verbatim_excerpt"`
	TopicLabel        string `json:"topic_label"`
	QuoteType         string `json:"quote_type"`
	ResearcherContext string `json:"researcher_context"`
	Sentiment         string `json:"sentiment"`
	Intensity         int    `json:"intensity"`
	SegmentIndex      int    `json:"segment_index"`
}

type ClusterDoc struct {
	ScreenLabel  string     `json:"screen_label"`
	Description  string     `json:"description"`
	DisplayOrder int        `json:"display_order"`
	Quotes       []QuoteDoc `json:"quotes"`
}

type ThemeDoc struct {
	ThemeLabel  string     `json:"theme_label"`
	Description string     `json:"description"`
	Quotes      []QuoteDoc `json:"quotes"`
}

type TopicBoundaryDoc struct {
	SessionID       string  `json:"session_id"`
	TimecodeSeconds int     `json:"timecode_seconds"`
	TopicLabel      string  `json:"topic_label"`
	TransitionType  string  `json:"transition_type"`
	Confidence      float64 `json:"confidence"`
}

// ParticipantEntry comes from the human-editable registry; consumed fill-only.
type ParticipantEntry struct {
	FullName  string `yaml:"full_name"`
	ShortName string `yaml:"short_name"`
	Role      string `yaml:"role"`
	Persona   string `yaml:"persona"`
	Notes     string `yaml:"notes"`
}

// Set is everything one run reads. Every field may be empty: absent input is
// a valid (empty) generation, not an error.
type Set struct {
	Meta            *ProjectMeta
	Clusters        []ClusterDoc
	Themes          []ThemeDoc
	Topics          []TopicBoundaryDoc
	Registry        map[string]ParticipantEntry
	TranscriptPaths map[string]string // session external id -> file path
}

const (
	projectFile      = "project.json"
	clustersFile     = "clusters.json"
	themesFile       = "themes.json"
	topicsFile       = "topics.json"
	participantsFile = "participants.yaml"
	transcriptsDir   = "transcripts"
)

// Load reads a project directory. Missing files degrade to empty inputs;
// records that fail to decode are skipped so one corrupt artifact never
// blocks the rest of the run.
func Load(dir string, log *logger.Logger) Set {
	log = log.With("component", "artifacts", "dir", dir)
	set := Set{
		Registry:        map[string]ParticipantEntry{},
		TranscriptPaths: map[string]string{},
	}

	if raw, err := os.ReadFile(filepath.Join(dir, projectFile)); err == nil {
		var meta ProjectMeta
		if err := json.Unmarshal(raw, &meta); err != nil {
			log.Warn("Skipping unreadable project metadata", "error", err)
		} else {
			set.Meta = &meta
		}
	}

	for _, doc := range decodeRecords(filepath.Join(dir, clustersFile), log) {
		var c ClusterDoc
		if err := json.Unmarshal(doc, &c); err != nil {
			log.Warn("Skipping malformed cluster record", "error", err)
			continue
		}
		set.Clusters = append(set.Clusters, c)
	}
	for _, doc := range decodeRecords(filepath.Join(dir, themesFile), log) {
		var t ThemeDoc
		if err := json.Unmarshal(doc, &t); err != nil {
			log.Warn("Skipping malformed theme record", "error", err)
			continue
		}
		set.Themes = append(set.Themes, t)
	}
	for _, doc := range decodeRecords(filepath.Join(dir, topicsFile), log) {
		var b TopicBoundaryDoc
		if err := json.Unmarshal(doc, &b); err != nil {
			log.Warn("Skipping malformed topic boundary record", "error", err)
			continue
		}
		set.Topics = append(set.Topics, b)
	}

	if raw, err := os.ReadFile(filepath.Join(dir, participantsFile)); err == nil {
		reg := map[string]ParticipantEntry{}
		if err := yaml.Unmarshal(raw, &reg); err != nil {
			log.Warn("Skipping unreadable participant registry", "error", err)
		} else {
			set.Registry = reg
		}
	}

	entries, err := os.ReadDir(filepath.Join(dir, transcriptsDir))
	if err == nil {
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
				continue
			}
			sid := strings.TrimSuffix(e.Name(), ".txt")
			if sid == "" {
				continue
			}
			set.TranscriptPaths[sid] = filepath.Join(dir, transcriptsDir, e.Name())
		}
	}

	return set
}

// decodeRecords reads a JSON array into raw records so one bad element only
// costs itself, not the file.
func decodeRecords(path string, log *logger.Logger) []json.RawMessage {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		log.Warn("Skipping unreadable artifact file", "path", path, "error", err)
		return nil
	}
	return docs
}
