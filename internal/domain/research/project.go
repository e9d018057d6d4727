package research

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;uniqueIndex" json:"name"`

	// ImportedAt is the generation timestamp of the last completed merge run.
	ImportedAt *time.Time `gorm:"column:imported_at" json:"imported_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Project) TableName() string { return "project" }
