package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scene lifecycle statuses.
const (
	SceneStatusPending    = "pending"
	SceneStatusProcessing = "processing"
	SceneStatusParsed     = "parsed"
	SceneStatusGenerating = "generating"
	SceneStatusReady      = "ready"
	SceneStatusFailed     = "failed"
)

type Scene struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ScriptID uuid.UUID `gorm:"type:uuid;not null;index" json:"script_id"`

	// Idempotency key from the upstream ingestion source, when it sends one.
	ExternalID string `gorm:"size:128;index" json:"external_id,omitempty"`
	// Content fingerprint used for dedup when ExternalID is absent.
	DedupHash string `gorm:"size:64;index" json:"-"`

	Title           string `gorm:"size:512" json:"title,omitempty"`
	Location        string `gorm:"size:256" json:"location,omitempty"`
	Description     string `gorm:"type:text" json:"description"`
	SemanticSummary string `gorm:"type:text" json:"semantic_summary,omitempty"`
	Tone            string `gorm:"size:128" json:"tone,omitempty"`
	Style           string `gorm:"size:128" json:"style,omitempty"`

	// Comma-joined lists; gorm maps them through the accessors below.
	CharactersRaw string `gorm:"column:characters;type:text" json:"-"`
	PropsRaw      string `gorm:"column:props;type:text" json:"-"`

	Status string `gorm:"not null;default:'pending'" json:"status"`

	// Cached describer output; set once, reused by later pipeline runs.
	BaseJSON string `gorm:"column:base_json;type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`

	Frames []Frame `gorm:"foreignKey:SceneID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Scene) TableName() string {
	return "scenes"
}

func (s *Scene) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Characters returns the character list, dropping blanks.
func (s *Scene) Characters() []string {
	return splitList(s.CharactersRaw)
}

// SetCharacters stores the character list.
func (s *Scene) SetCharacters(names []string) {
	s.CharactersRaw = joinList(names)
}

// Props returns the prop list, dropping blanks.
func (s *Scene) Props() []string {
	return splitList(s.PropsRaw)
}

// SetProps stores the prop list.
func (s *Scene) SetProps(names []string) {
	s.PropsRaw = joinList(names)
}

// VisualText is the text the prompt pipeline should describe: the
// semantic summary when the parser produced one, else the raw description.
func (s *Scene) VisualText() string {
	if strings.TrimSpace(s.SemanticSummary) != "" {
		return s.SemanticSummary
	}
	return s.Description
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, "\x1f")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func joinList(items []string) string {
	kept := make([]string, 0, len(items))
	for _, it := range items {
		if t := strings.TrimSpace(it); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, "\x1f")
}
