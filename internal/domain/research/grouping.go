package research

import (
	"time"

	"github.com/google/uuid"
)

// ScreenCluster groups quotes for one screen of the product under study.
// CreatedBy decides ownership: pipeline clusters are rewritten and reaped
// freely, researcher clusters are untouchable by the import.
type ScreenCluster struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_screen_cluster_label" json:"project_id"`

	Label        string `gorm:"column:label;not null;uniqueIndex:idx_screen_cluster_label" json:"label"`
	Description  string `gorm:"column:description;type:text" json:"description"`
	DisplayOrder int    `gorm:"column:display_order;not null;default:0" json:"display_order"`

	CreatedBy      Origin     `gorm:"column:created_by;not null" json:"created_by"`
	LastImportedAt *time.Time `gorm:"column:last_imported_at;index" json:"last_imported_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ScreenCluster) TableName() string { return "screen_cluster" }

// ThemeGroup is the cross-cutting counterpart of ScreenCluster.
type ThemeGroup struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_theme_group_label" json:"project_id"`

	Label       string `gorm:"column:label;not null;uniqueIndex:idx_theme_group_label" json:"label"`
	Description string `gorm:"column:description;type:text" json:"description"`

	CreatedBy      Origin     `gorm:"column:created_by;not null" json:"created_by"`
	LastImportedAt *time.Time `gorm:"column:last_imported_at;index" json:"last_imported_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ThemeGroup) TableName() string { return "theme_group" }

// ClusterQuote joins a quote into a screen cluster. AssignedBy tracks which
// side made the assignment; researcher joins survive every import.
type ClusterQuote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClusterID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_cluster_quote" json:"cluster_id"`
	QuoteID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_cluster_quote" json:"quote_id"`

	AssignedBy Origin `gorm:"column:assigned_by;not null" json:"assigned_by"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ClusterQuote) TableName() string { return "cluster_quote" }

type ThemeQuote struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ThemeID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_theme_quote" json:"theme_id"`
	QuoteID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_theme_quote" json:"quote_id"`

	AssignedBy Origin `gorm:"column:assigned_by;not null" json:"assigned_by"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ThemeQuote) TableName() string { return "theme_quote" }
