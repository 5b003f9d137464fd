package ingest

import "testing"

func TestContentHashOrderInsensitive(t *testing.T) {
	a := SceneInput{
		Title:      "Rooftop chase",
		Location:   "EXT. ROOFTOP - NIGHT",
		Characters: []string{"ANNA", "VIKTOR"},
		Props:      []string{"pistol", "rope"},
	}
	b := a
	b.Characters = []string{"VIKTOR", "ANNA"}
	b.Props = []string{"rope", "pistol"}

	if ContentHash(a) != ContentHash(b) {
		t.Fatal("list order changed the hash")
	}
}

func TestContentHashSensitiveToContent(t *testing.T) {
	a := SceneInput{Title: "Rooftop chase", Description: "Anna runs."}
	b := a
	b.Description = "Anna hides."
	if ContentHash(a) == ContentHash(b) {
		t.Fatal("different descriptions hashed the same")
	}
}

func TestContentHashFieldBoundaries(t *testing.T) {
	// concatenation across field boundaries must not collide
	a := SceneInput{Title: "ab", Location: "c"}
	b := SceneInput{Title: "a", Location: "bc"}
	if ContentHash(a) == ContentHash(b) {
		t.Fatal("field boundary collision")
	}
}
