package models

import (
	"time"

	"github.com/google/uuid"
)

// SceneVisual statuses.
const (
	VisualStatusPromptReady = "prompt_ready"
	VisualStatusImageReady  = "image_ready"
	VisualStatusFailed      = "failed"
)

// SceneVisual caches the prompt pipeline output for one scene: the
// enriched document and the built prompt. Created lazily on the first
// generation request; later requests reuse it instead of re-running the
// LLM steps. FluxPrompt is never empty while Status is prompt_ready.
type SceneVisual struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	SceneID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"scene_id"`

	EnrichedJSON string `gorm:"column:enriched_json;type:text;not null" json:"enriched_json"`
	FluxPrompt   string `gorm:"column:flux_prompt;type:text;not null" json:"flux_prompt"`
	ImageURL     string `json:"image_url,omitempty"`

	Status string `gorm:"not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SceneVisual) TableName() string {
	return "scene_visuals"
}
