package research

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Person is instance-scoped: shared across projects and never deleted by a
// single-project merge unless no speaker link references it anymore. Two
// imports may create two Person rows for the same human; merging identities
// is a separate human-driven action.
type Person struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	FullName  string         `gorm:"column:full_name" json:"full_name"`
	ShortName string         `gorm:"column:short_name" json:"short_name"`
	Role      string         `gorm:"column:role" json:"role"`
	Persona   datatypes.JSON `gorm:"column:persona" json:"persona,omitempty"`
	Notes     string         `gorm:"column:notes;type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Person) TableName() string { return "person" }

// SessionSpeaker links a Person to a Session under a speaker code. The code's
// leading letter encodes the role (p participant, m moderator, o observer);
// the number disambiguates same-role speakers within one session.
type SessionSpeaker struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_session_speaker_code" json:"session_id"`
	PersonID  uuid.UUID `gorm:"type:uuid;not null;index" json:"person_id"`
	Person    *Person   `gorm:"foreignKey:PersonID;references:ID" json:"person,omitempty"`

	Code string `gorm:"column:code;not null;uniqueIndex:idx_session_speaker_code" json:"code"`
	Role string `gorm:"column:role;not null" json:"role"`

	WordCount    int `gorm:"column:word_count;not null;default:0" json:"word_count"`
	SegmentCount int `gorm:"column:segment_count;not null;default:0" json:"segment_count"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SessionSpeaker) TableName() string { return "session_speaker" }

const (
	SpeakerRoleParticipant = "participant"
	SpeakerRoleModerator   = "moderator"
	SpeakerRoleObserver    = "observer"
	SpeakerRoleUnknown     = "unknown"
)

// SpeakerRoleForCode derives the role from a speaker code prefix.
func SpeakerRoleForCode(code string) string {
	if code == "" {
		return SpeakerRoleUnknown
	}
	switch code[0] {
	case 'p', 'P':
		return SpeakerRoleParticipant
	case 'm', 'M':
		return SpeakerRoleModerator
	case 'o', 'O':
		return SpeakerRoleObserver
	default:
		return SpeakerRoleUnknown
	}
}
