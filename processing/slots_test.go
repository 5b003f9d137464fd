package processing

import (
	"strings"
	"testing"
)

func enrichedFixture() EnrichedScene {
	return EnrichedScene{
		SceneID: "s1",
		Type:    "INT",
		Location: PlaceRef{
			Raw:         "INT. KITCHEN - NIGHT",
			Norm:        "kitchen",
			Description: "a cramped apartment kitchen",
		},
		EnvironmentDetails: []string{"dripping faucet", "flickering bulb"},
		Time:               PlaceRef{Norm: "night"},
		Characters: []EnrichedCharacter{
			{Name: "ANNA", Appearance: "mid 30s", Emotion: "tense"},
		},
		Camera:     &Camera{ShotType: "medium shot", Angle: "eye level"},
		Lighting:   &Lighting{Type: "practical", Description: "single overhead bulb"},
		Mood:       []string{"tense"},
		StyleHints: []string{"film noir"},
	}
}

func TestApplySlotsPartialEditKeepsRest(t *testing.T) {
	doc := enrichedFixture()
	out := ApplySlots(doc, PromptSlots{Lighting: "cold moonlight through the window"})

	if out.Lighting == nil || out.Lighting.Description != "cold moonlight through the window" {
		t.Fatalf("lighting not applied: %+v", out.Lighting)
	}
	if len(out.Characters) != 1 || out.Characters[0].Name != "ANNA" {
		t.Errorf("characters were touched: %+v", out.Characters)
	}
	if out.Camera == nil || out.Camera.ShotType != "medium shot" {
		t.Errorf("camera was touched: %+v", out.Camera)
	}
	if out.Location.Norm != "kitchen" {
		t.Errorf("location was touched: %+v", out.Location)
	}
}

func TestApplySlotsCompositionOverwrite(t *testing.T) {
	doc := enrichedFixture()
	out := ApplySlots(doc, PromptSlots{
		Composition: &CompositionSlot{ShotType: "wide shot", CameraAngle: "low angle"},
	})
	if out.Camera.ShotType != "wide shot" || out.Camera.Angle != "low angle" {
		t.Fatalf("camera not overwritten: %+v", out.Camera)
	}
}

func TestApplySlotsDoesNotMutateInput(t *testing.T) {
	doc := enrichedFixture()
	ApplySlots(doc, PromptSlots{Tone: []string{"playful"}})
	if doc.Mood[0] != "tense" {
		t.Fatal("input document was mutated")
	}
}

func TestSlotsRoundTrip(t *testing.T) {
	doc := enrichedFixture()
	slots := SlotsFromDoc(doc)

	if slots.Composition.ShotType != "medium shot" {
		t.Errorf("composition slot: %+v", slots.Composition)
	}
	if slots.Location.Norm != "kitchen" || slots.Location.Time != "night" {
		t.Errorf("location slot: %+v", slots.Location)
	}
	if slots.Lighting != "single overhead bulb" {
		t.Errorf("lighting slot: %q", slots.Lighting)
	}

	out := ApplySlots(doc, slots)
	if out.Location.Norm != doc.Location.Norm || out.Camera.ShotType != doc.Camera.ShotType {
		t.Errorf("applying own slots changed the document: %+v", out)
	}
}

func TestFallbackPrompt(t *testing.T) {
	got := FallbackPrompt(enrichedFixture())
	if got == "" {
		t.Fatal("empty fallback prompt")
	}
	for _, want := range []string{"medium shot", "kitchen", "ANNA", "film noir"} {
		if !strings.Contains(got, want) {
			t.Errorf("fallback prompt missing %q: %q", want, got)
		}
	}
}
