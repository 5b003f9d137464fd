package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Script processing statuses.
const (
	ScriptStatusUploaded = "uploaded"
	ScriptStatusParsing  = "parsing"
	ScriptStatusParsed   = "parsed"
	ScriptStatusFailed   = "failed"
)

type Script struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Filename string    `gorm:"not null" json:"filename"`
	FilePath string    `gorm:"not null" json:"-"`
	Status   string    `gorm:"not null;default:'uploaded'" json:"status"`

	// Text extracted by the segmentation service, kept for inspection.
	TextExtracted string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`

	Scenes []Scene `gorm:"foreignKey:ScriptID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Script) TableName() string {
	return "scripts"
}

func (s *Script) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
