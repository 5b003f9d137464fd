package processing

// Slot groups expose the pieces of an enriched document a user can edit
// directly before the prompt is rebuilt. Nil groups mean "leave as is";
// only the groups the caller sends overwrite the document.

// LocationSlot is the editable view of the scene's place and time.
type LocationSlot struct {
	Raw                string   `json:"raw,omitempty"`
	Norm               string   `json:"norm,omitempty"`
	Description        string   `json:"description,omitempty"`
	EnvironmentDetails []string `json:"environment_details,omitempty"`
	SceneType          string   `json:"scene_type,omitempty"`
	Time               string   `json:"time,omitempty"`
}

// ActionSlot is the editable view of what happens in the frame.
type ActionSlot struct {
	MainAction string    `json:"main_action,omitempty"`
	Props      []PropRef `json:"props,omitempty"`
}

// CompositionSlot is the editable view of the camera work.
type CompositionSlot struct {
	ShotType       string   `json:"shot_type,omitempty"`
	CameraAngle    string   `json:"camera_angle,omitempty"`
	Framing        string   `json:"framing,omitempty"`
	Motion         string   `json:"motion,omitempty"`
	LocationalCues []string `json:"locational_cues,omitempty"`
}

// PromptSlots is the full editable slot set for one scene.
type PromptSlots struct {
	Characters  []EnrichedCharacter `json:"characters,omitempty"`
	Location    *LocationSlot       `json:"location,omitempty"`
	Action      *ActionSlot         `json:"action,omitempty"`
	Composition *CompositionSlot    `json:"composition,omitempty"`
	Tone        []string            `json:"tone,omitempty"`
	StyleHints  []string            `json:"style_hints,omitempty"`
	Lighting    string              `json:"lighting,omitempty"`
	Negatives   *NegativePrompts    `json:"negatives,omitempty"`
}

// SlotsFromDoc projects an enriched document into its editable slots.
func SlotsFromDoc(doc EnrichedScene) PromptSlots {
	slots := PromptSlots{
		Characters: doc.Characters,
		Tone:       doc.Mood,
		StyleHints: doc.StyleHints,
		Location: &LocationSlot{
			Raw:                doc.Location.Raw,
			Norm:               doc.Location.Norm,
			Description:        doc.Location.Description,
			EnvironmentDetails: doc.EnvironmentDetails,
			SceneType:          doc.Type,
			Time:               doc.Time.Norm,
		},
		Action: &ActionSlot{
			MainAction: doc.TextExcerpt,
			Props:      doc.Props,
		},
		Composition: &CompositionSlot{
			LocationalCues: doc.LocationalCues,
		},
		Negatives: doc.NegativePrompts,
	}
	if doc.Camera != nil {
		slots.Composition.ShotType = doc.Camera.ShotType
		slots.Composition.CameraAngle = doc.Camera.Angle
		slots.Composition.Framing = doc.Camera.Framing
		slots.Composition.Motion = doc.Camera.Motion
	}
	if doc.Lighting != nil {
		slots.Lighting = doc.Lighting.Description
		if slots.Lighting == "" {
			slots.Lighting = doc.Lighting.Type
		}
	}
	return slots
}

// ApplySlots returns a copy of the document with the non-nil slot
// groups folded in. Groups the caller left nil keep the document's
// current values, so partial edits never wipe unrelated fields.
func ApplySlots(doc EnrichedScene, slots PromptSlots) EnrichedScene {
	out := doc
	if slots.Characters != nil {
		out.Characters = slots.Characters
	}
	if loc := slots.Location; loc != nil {
		out.Location.Raw = loc.Raw
		out.Location.Norm = loc.Norm
		out.Location.Description = loc.Description
		out.EnvironmentDetails = loc.EnvironmentDetails
		out.Type = loc.SceneType
		out.Time.Norm = loc.Time
	}
	if act := slots.Action; act != nil {
		out.TextExcerpt = act.MainAction
		out.Props = act.Props
	}
	if comp := slots.Composition; comp != nil {
		cam := Camera{
			ShotType: comp.ShotType,
			Angle:    comp.CameraAngle,
			Framing:  comp.Framing,
			Motion:   comp.Motion,
		}
		out.Camera = &cam
		out.LocationalCues = comp.LocationalCues
	}
	if slots.Tone != nil {
		out.Mood = slots.Tone
	}
	if slots.StyleHints != nil {
		out.StyleHints = slots.StyleHints
	}
	if slots.Lighting != "" {
		out.Lighting = &Lighting{Description: slots.Lighting}
	}
	if slots.Negatives != nil {
		out.NegativePrompts = slots.Negatives
	}
	return out
}
