package research

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ConflictKindScreenCluster = "screen_cluster"
	ConflictKindThemeGroup    = "theme_group"
)

// ImportConflict records a label the pipeline wanted that a researcher-owned
// grouping already holds. The import never auto-resolves these; a human
// reviews and clears them through the serving layer.
type ImportConflict struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`

	Kind    string         `gorm:"column:kind;not null" json:"kind"`
	Label   string         `gorm:"column:label;not null" json:"label"`
	Details datatypes.JSON `gorm:"column:details" json:"details,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ImportConflict) TableName() string { return "import_conflict" }
