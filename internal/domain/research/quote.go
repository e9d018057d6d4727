package research

import (
	"time"

	"github.com/google/uuid"
)

// Quote is a verbatim excerpt surfaced by the pipeline. Its identity across
// runs is the stable key (session, speaker code, start timecode); project is
// implied by the session. Groupings reference quotes, never the other way
// round, so a quote moving between clusters keeps its row and its annotations.
type Quote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_quote_stable_key" json:"session_id"`
	Session   *Session  `gorm:"foreignKey:SessionID;references:ID" json:"session,omitempty"`

	SpeakerCode   string `gorm:"column:speaker_code;not null;uniqueIndex:idx_quote_stable_key" json:"speaker_code"`
	StartTimecode string `gorm:"column:start_timecode;not null;uniqueIndex:idx_quote_stable_key" json:"start_timecode"`
	EndTimecode   string `gorm:"column:end_timecode" json:"end_timecode"`

	Text              string `gorm:"column:text;type:text;not null" json:"text"`
	VerbatimExcerpt   string `gorm:"column:verbatim_excerpt;type:text" json:"verbatim_excerpt"`
	TopicLabel        string `gorm:"column:topic_label" json:"topic_label"`
	QuoteType         string `gorm:"column:quote_type" json:"quote_type"`
	ResearcherContext string `gorm:"column:researcher_context;type:text" json:"researcher_context"`
	Sentiment         string `gorm:"column:sentiment" json:"sentiment"`
	Intensity         int    `gorm:"column:intensity;not null;default:0" json:"intensity"`
	SegmentIndex      int    `gorm:"column:segment_index;not null;default:0" json:"segment_index"`

	LastImportedAt *time.Time `gorm:"column:last_imported_at;index" json:"last_imported_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Quote) TableName() string { return "quote" }
