package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Frame statuses. A failed frame carries a placeholder image so the
// caller always has a row to inspect and retry.
const (
	FrameStatusOK     = "ok"
	FrameStatusFailed = "failed"
)

// Frame is one generated image for a scene. Frames are immutable once
// created: regeneration inserts a new row, nothing updates in place.
type Frame struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SceneID uuid.UUID `gorm:"type:uuid;not null;index" json:"scene_id"`

	// Lineage: the frame this one was refined from via img2img. Always an
	// already-persisted frame from the same pipeline run, so the chain is
	// acyclic by construction.
	ParentFrameID *uuid.UUID `gorm:"type:uuid;index" json:"parent_frame_id,omitempty"`

	DetailLevel    string `gorm:"size:16;not null" json:"detail_level"`
	GenerationPath string `gorm:"size:16;not null" json:"generation_path"`
	Status         string `gorm:"size:16;not null;default:'ok'" json:"status"`

	Prompt   string `gorm:"type:text" json:"prompt"`
	Seed     int64  `json:"seed"`
	Model    string `gorm:"size:64" json:"model"`
	ImageURL string `gorm:"not null" json:"image_url"`
	IsBest   bool   `gorm:"default:false" json:"is_best"`

	GenerationMs int64 `json:"generation_ms"`

	TechMetaRaw string `gorm:"column:tech_meta;type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (Frame) TableName() string {
	return "frames"
}

func (f *Frame) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// TechMeta is the technical metadata document persisted alongside a
// frame: the parameters the generation actually ran with, profile
// defaults overlaid with whatever the collaborator reported back.
type TechMeta struct {
	Seed       int64         `json:"seed,omitempty"`
	Steps      int           `json:"steps,omitempty"`
	Cfg        float64       `json:"cfg,omitempty"`
	Sampler    string        `json:"sampler,omitempty"`
	Scheduler  string        `json:"scheduler,omitempty"`
	Resolution string        `json:"resolution,omitempty"`
	VAE        string        `json:"vae,omitempty"`
	Controls   []ControlMeta `json:"controls,omitempty"`
	Img2Img    *Img2ImgMeta  `json:"img2img,omitempty"`
	Style      *StyleMeta    `json:"style,omitempty"`
	Refiner    *RefinerMeta  `json:"refiner,omitempty"`
	Upscale    *UpscaleMeta  `json:"upscale,omitempty"`
	LOD        string        `json:"lod,omitempty"`
	Path       string        `json:"path,omitempty"`
	QueueMs    int64         `json:"queue_ms,omitempty"`
	RunMs      int64         `json:"run_ms,omitempty"`
}

// ControlMeta describes one control signal (ControlNet, IP-Adapter, ...).
type ControlMeta struct {
	Type         string  `json:"type"`
	Weight       float64 `json:"weight,omitempty"`
	Start        float64 `json:"start,omitempty"`
	End          float64 `json:"end,omitempty"`
	Preprocessor string  `json:"preprocessor,omitempty"`
}

type Img2ImgMeta struct {
	Denoise   float64 `json:"denoise"`
	InitImage string  `json:"init_image,omitempty"`
}

type StyleMeta struct {
	Preset    string   `json:"preset,omitempty"`
	Negatives []string `json:"negatives,omitempty"`
}

type RefinerMeta struct {
	Enabled bool `json:"enabled"`
}

type UpscaleMeta struct {
	Enabled bool    `json:"enabled"`
	Factor  float64 `json:"factor,omitempty"`
}

// TechMeta decodes the persisted metadata document. A frame without
// metadata yields the zero value.
func (f *Frame) TechMeta() TechMeta {
	var meta TechMeta
	if f.TechMetaRaw != "" {
		_ = json.Unmarshal([]byte(f.TechMetaRaw), &meta)
	}
	return meta
}

// SetTechMeta encodes and stores the metadata document.
func (f *Frame) SetTechMeta(meta TechMeta) {
	b, err := json.Marshal(meta)
	if err != nil {
		return
	}
	f.TechMetaRaw = string(b)
}
