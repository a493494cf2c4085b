package incidents

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// IngestRun records one orchestrator run per source for auditability:
// counters plus a JSON blob with the per-record skip/warning detail.
type IngestRun struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Source string    `gorm:"column:source;not null;index" json:"source"` // "geo" | "post"
	Status string    `gorm:"column:status;not null" json:"status"`       // "committed" | "rolled_back"

	Processed int `gorm:"column:processed;not null;default:0" json:"processed"`
	Skipped   int `gorm:"column:skipped;not null;default:0" json:"skipped"`
	Linked    int `gorm:"column:linked;not null;default:0" json:"linked"`

	Detail datatypes.JSON `gorm:"column:detail" json:"detail,omitempty"`

	StartedAt  time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

func (IngestRun) TableName() string { return "ingest_run" }
