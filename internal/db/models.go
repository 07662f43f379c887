package db

import (
	"time"

	"gorm.io/datatypes"
)

// Run records one lint invocation over one script.
type Run struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Path      string    `gorm:"type:text;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	// Outcome counters.
	Errors   int `gorm:"default:0"`
	Warnings int `gorm:"default:0"`

	// Whether the run parsed at all and whether it optimized the tree.
	Parsed    bool `gorm:"default:true"`
	Optimized bool `gorm:"default:false"`

	// Diagnostics is the rendered message list as a JSON array.
	Diagnostics datatypes.JSON `gorm:"type:jsonb"`
}

func (Run) TableName() string { return "runs" }
