package research

import (
	"time"

	"github.com/google/uuid"
)

// Annotation rows are always researcher-originated. The import engine never
// writes them; it deletes them only when the quote they hang off is reaped.

// QuoteFlag holds the star/hide state for one quote. One row per quote.
type QuoteFlag struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuoteID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"quote_id"`

	Starred bool `gorm:"column:starred;not null;default:false" json:"starred"`
	Hidden  bool `gorm:"column:hidden;not null;default:false" json:"hidden"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (QuoteFlag) TableName() string { return "quote_flag" }

type QuoteTag struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuoteID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_quote_tag" json:"quote_id"`

	Tag string `gorm:"column:tag;not null;uniqueIndex:idx_quote_tag" json:"tag"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (QuoteTag) TableName() string { return "quote_tag" }

// QuoteRevision is a researcher's correction of the transcribed text.
type QuoteRevision struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuoteID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"quote_id"`

	CorrectedText string    `gorm:"column:corrected_text;type:text;not null" json:"corrected_text"`
	EditedAt      time.Time `gorm:"column:edited_at;not null" json:"edited_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (QuoteRevision) TableName() string { return "quote_revision" }

// QuoteBadgeRemoval records that a researcher dismissed a pipeline-computed
// badge (sentiment, intensity) on a quote. The badge value itself stays on
// the quote row and keeps updating; the removal marker keeps it off the page.
type QuoteBadgeRemoval struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuoteID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_quote_badge_removal" json:"quote_id"`

	Badge string `gorm:"column:badge;not null;uniqueIndex:idx_quote_badge_removal" json:"badge"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (QuoteBadgeRemoval) TableName() string { return "quote_badge_removal" }
