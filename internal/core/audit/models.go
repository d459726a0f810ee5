package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Actions
const (
	ActionExtract   = "extract"
	ActionTranslate = "translate"
)

// Statuses
const (
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusSuperseded = "superseded"
)

// PipelineEvent records one completed extraction or translation pass.
// It never holds the source or target text.
type PipelineEvent struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID `json:"session_id" gorm:"type:uuid;index"`

	Action   string `json:"action" gorm:"type:text;not null;index"` // extract, translate
	Status   string `json:"status" gorm:"type:text;not null;index"` // succeeded, failed, superseded
	Provider string `json:"provider" gorm:"type:text"`              // OCR engine or translation service

	SourceLanguage string `json:"source_language,omitempty" gorm:"type:text"`
	TargetLanguage string `json:"target_language,omitempty" gorm:"type:text"`

	DurationMS  int64          `json:"duration_ms" gorm:"column:duration_ms;type:bigint"`
	ErrorDetail string         `json:"error_detail,omitempty" gorm:"type:text"`
	Metadata    datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"` // e.g. image size, character count

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName specifies the table name
func (PipelineEvent) TableName() string {
	return "pipeline_events"
}

// EventFilter represents filters for querying pipeline events
type EventFilter struct {
	SessionID *uuid.UUID
	Action    string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// EventResponse represents a paginated event page
type EventResponse struct {
	Events     []PipelineEvent `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}
