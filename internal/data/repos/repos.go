package repos

import (
	"gorm.io/gorm"

	"github.com/fieldlens/fieldlens-backend/internal/data/repos/research"
	"github.com/fieldlens/fieldlens-backend/internal/platform/logger"
)

type ProjectRepo = research.ProjectRepo
type SessionRepo = research.SessionRepo
type SourceFileRepo = research.SourceFileRepo
type PersonRepo = research.PersonRepo
type SessionSpeakerRepo = research.SessionSpeakerRepo
type TranscriptSegmentRepo = research.TranscriptSegmentRepo
type TopicBoundaryRepo = research.TopicBoundaryRepo
type QuoteRepo = research.QuoteRepo
type ScreenClusterRepo = research.ScreenClusterRepo
type ThemeGroupRepo = research.ThemeGroupRepo
type ClusterQuoteRepo = research.ClusterQuoteRepo
type ThemeQuoteRepo = research.ThemeQuoteRepo
type AnnotationRepo = research.AnnotationRepo
type ImportConflictRepo = research.ImportConflictRepo

var NewProjectRepo = research.NewProjectRepo
var NewSessionRepo = research.NewSessionRepo
var NewSourceFileRepo = research.NewSourceFileRepo
var NewPersonRepo = research.NewPersonRepo
var NewSessionSpeakerRepo = research.NewSessionSpeakerRepo
var NewTranscriptSegmentRepo = research.NewTranscriptSegmentRepo
var NewTopicBoundaryRepo = research.NewTopicBoundaryRepo
var NewQuoteRepo = research.NewQuoteRepo
var NewScreenClusterRepo = research.NewScreenClusterRepo
var NewThemeGroupRepo = research.NewThemeGroupRepo
var NewClusterQuoteRepo = research.NewClusterQuoteRepo
var NewThemeQuoteRepo = research.NewThemeQuoteRepo
var NewAnnotationRepo = research.NewAnnotationRepo
var NewImportConflictRepo = research.NewImportConflictRepo

// All bundles every repo the import engine touches; built once at boot and
// handed to the orchestrator through its Deps.
type All struct {
	Project           ProjectRepo
	Session           SessionRepo
	SourceFile        SourceFileRepo
	Person            PersonRepo
	SessionSpeaker    SessionSpeakerRepo
	TranscriptSegment TranscriptSegmentRepo
	TopicBoundary     TopicBoundaryRepo
	Quote             QuoteRepo
	ScreenCluster     ScreenClusterRepo
	ThemeGroup        ThemeGroupRepo
	ClusterQuote      ClusterQuoteRepo
	ThemeQuote        ThemeQuoteRepo
	Annotation        AnnotationRepo
	ImportConflict    ImportConflictRepo
}

func NewAll(db *gorm.DB, log *logger.Logger) All {
	return All{
		Project:           NewProjectRepo(db, log),
		Session:           NewSessionRepo(db, log),
		SourceFile:        NewSourceFileRepo(db, log),
		Person:            NewPersonRepo(db, log),
		SessionSpeaker:    NewSessionSpeakerRepo(db, log),
		TranscriptSegment: NewTranscriptSegmentRepo(db, log),
		TopicBoundary:     NewTopicBoundaryRepo(db, log),
		Quote:             NewQuoteRepo(db, log),
		ScreenCluster:     NewScreenClusterRepo(db, log),
		ThemeGroup:        NewThemeGroupRepo(db, log),
		ClusterQuote:      NewClusterQuoteRepo(db, log),
		ThemeQuote:        NewThemeQuoteRepo(db, log),
		Annotation:        NewAnnotationRepo(db, log),
		ImportConflict:    NewImportConflictRepo(db, log),
	}
}
