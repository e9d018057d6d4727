package research

import (
	"time"

	"github.com/google/uuid"
)

// Session is one recorded conversation. ExternalID is the human-readable
// identifier the pipeline uses everywhere ("s1", "s2", ...); it is the
// handle artifacts reference, so it is unique per project.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_session_project_external" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID;references:ID" json:"project,omitempty"`

	ExternalID string `gorm:"column:external_id;not null;uniqueIndex:idx_session_project_external" json:"external_id"`

	Date            *time.Time `gorm:"column:date" json:"date,omitempty"`
	DurationSeconds int        `gorm:"column:duration_seconds;not null;default:0" json:"duration_seconds"`
	HasAudio        bool       `gorm:"column:has_audio;not null;default:false" json:"has_audio"`
	HasTranscript   bool       `gorm:"column:has_transcript;not null;default:false" json:"has_transcript"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Session) TableName() string { return "research_session" }

type SourceFile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_source_file_session_kind_path" json:"session_id"`
	Session   *Session  `gorm:"foreignKey:SessionID;references:ID" json:"session,omitempty"`

	Kind       string     `gorm:"column:kind;not null;uniqueIndex:idx_source_file_session_kind_path" json:"kind"`
	Path       string     `gorm:"column:path;not null;uniqueIndex:idx_source_file_session_kind_path" json:"path"`
	SizeBytes  int64      `gorm:"column:size_bytes;not null;default:0" json:"size_bytes"`
	VerifiedAt *time.Time `gorm:"column:verified_at" json:"verified_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SourceFile) TableName() string { return "source_file" }

// TranscriptSegment is one contiguous speech span. Segments are replaced
// wholesale per session on every import; nothing human-owned hangs off them.
type TranscriptSegment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`

	SpeakerCode  string `gorm:"column:speaker_code;not null" json:"speaker_code"`
	StartSeconds int    `gorm:"column:start_seconds;not null" json:"start_seconds"`
	EndSeconds   int    `gorm:"column:end_seconds;not null" json:"end_seconds"`
	Text         string `gorm:"column:text;type:text;not null" json:"text"`
	Ordinal      int    `gorm:"column:ordinal;not null" json:"ordinal"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (TranscriptSegment) TableName() string { return "transcript_segment" }

// TopicBoundary marks a topic change inside a session. Fully pipeline-owned.
type TopicBoundary struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_topic_boundary_session_timecode" json:"session_id"`

	TimecodeSeconds int     `gorm:"column:timecode_seconds;not null;uniqueIndex:idx_topic_boundary_session_timecode" json:"timecode_seconds"`
	TopicLabel      string  `gorm:"column:topic_label;not null" json:"topic_label"`
	TransitionType  string  `gorm:"column:transition_type" json:"transition_type"`
	Confidence      float64 `gorm:"column:confidence;not null;default:0" json:"confidence"`

	LastImportedAt *time.Time `gorm:"column:last_imported_at;index" json:"last_imported_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (TopicBoundary) TableName() string { return "topic_boundary" }
