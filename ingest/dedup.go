// Package ingest accepts pre-parsed scenes pushed by external parsers
// and writes them into the scene store, skipping anything already seen.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// SceneInput is one scene as an external parser delivers it.
type SceneInput struct {
	ExternalID      string   `json:"external_id"`
	Title           string   `json:"title"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	SemanticSummary string   `json:"semantic_summary"`
	Tone            string   `json:"tone"`
	Style           string   `json:"style"`
	Characters      []string `json:"characters"`
	Props           []string `json:"props"`
}

// ContentHash fingerprints the scene's content. Character and prop
// lists are sorted first so two payloads that differ only in list order
// hash the same.
func ContentHash(in SceneInput) string {
	chars := append([]string(nil), in.Characters...)
	props := append([]string(nil), in.Props...)
	sort.Strings(chars)
	sort.Strings(props)

	h := sha256.New()
	for _, field := range []string{
		in.Title, in.Location, in.Description,
		in.SemanticSummary, in.Tone, in.Style,
		strings.Join(chars, "\x1f"), strings.Join(props, "\x1f"),
	} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
