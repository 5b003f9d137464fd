// Package processing implements the scene-to-prompt pipeline: raw scene
// text → base document → enriched document → generation prompt. The
// model endpoints are collaborators behind the Completer interface; this
// package owns prompts, retries and output cleanup, not persistence.
package processing

import "context"

// Completer is the completion collaborator. CompleteJSON carries an
// output-token budget because draft-quality local models truncate JSON
// under tight budgets; the retry ladder raises it attempt by attempt.
type Completer interface {
	CompleteJSON(ctx context.Context, prompt string, maxOutputTokens int) (string, error)
	CompleteText(ctx context.Context, prompt string) (string, error)
}

// NameRef is a named entity with its normalized form.
type NameRef struct {
	Name string `json:"name"`
	Norm string `json:"norm,omitempty"`
}

// PropRef is a prop with a required-in-frame flag.
type PropRef struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Owner    string `json:"owner,omitempty"`
}

// PlaceRef is a location or time-of-day with raw, normalized and
// (after enrichment) descriptive forms.
type PlaceRef struct {
	Raw         string `json:"raw,omitempty"`
	Norm        string `json:"norm,omitempty"`
	Description string `json:"description,omitempty"`
}

// BaseScene is the first structured document derived directly from the
// scene text by the describer.
type BaseScene struct {
	SceneID        string    `json:"scene_id,omitempty"`
	SluglineRaw    string    `json:"slugline_raw,omitempty"`
	Type           string    `json:"type,omitempty"`
	Location       PlaceRef  `json:"location"`
	Time           PlaceRef  `json:"time"`
	Characters     []NameRef `json:"characters,omitempty"`
	Props          []PropRef `json:"props,omitempty"`
	LocationalCues []string  `json:"locational_cues,omitempty"`
	Tone           []string  `json:"tone,omitempty"`
	StyleHints     []string  `json:"style_hints,omitempty"`
	TextExcerpt    string    `json:"text_excerpt,omitempty"`
	IsPartial      bool      `json:"is_partial,omitempty"`
}

// EnrichedCharacter carries the visual attributes the enricher infers
// for one character.
type EnrichedCharacter struct {
	Name            string   `json:"name"`
	Norm            string   `json:"norm,omitempty"`
	Appearance      string   `json:"appearance,omitempty"`
	Clothing        []string `json:"clothing,omitempty"`
	Pose            string   `json:"pose,omitempty"`
	Action          string   `json:"action,omitempty"`
	PositionInFrame string   `json:"position_in_frame,omitempty"`
	Emotion         string   `json:"emotion,omitempty"`
}

// Camera describes the framing of the shot.
type Camera struct {
	ShotType string `json:"shot_type,omitempty"`
	Angle    string `json:"angle,omitempty"`
	Framing  string `json:"framing,omitempty"`
	Motion   string `json:"motion,omitempty"`
}

// Lighting describes the light setup of the shot.
type Lighting struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// NegativePrompts splits negatives into global and scene-specific lists.
type NegativePrompts struct {
	Global        []string `json:"global,omitempty"`
	SceneSpecific []string `json:"scene_specific,omitempty"`
}

// EnrichedScene is the base document augmented with the visual detail
// the image model needs: camera, lighting, mood and environment fields
// the base document lacks.
type EnrichedScene struct {
	SceneID            string              `json:"scene_id,omitempty"`
	SluglineRaw        string              `json:"slugline_raw,omitempty"`
	Type               string              `json:"type,omitempty"`
	Location           PlaceRef            `json:"location"`
	EnvironmentDetails []string            `json:"environment_details,omitempty"`
	Time               PlaceRef            `json:"time"`
	Characters         []EnrichedCharacter `json:"characters,omitempty"`
	Props              []PropRef           `json:"props,omitempty"`
	LocationalCues     []string            `json:"locational_cues,omitempty"`
	Camera             *Camera             `json:"camera,omitempty"`
	Lighting           *Lighting           `json:"lighting,omitempty"`
	Mood               []string            `json:"mood,omitempty"`
	StyleHints         []string            `json:"style_hints,omitempty"`
	NegativePrompts    *NegativePrompts    `json:"negative_prompts,omitempty"`
	TextExcerpt        string              `json:"text_excerpt,omitempty"`
}
