package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// PromptBuilder renders an enriched document into a single
// text-to-image prompt. Unlike the describer and enricher it expects
// plain text back, so there is no budget ladder; a bad completion is
// just an error.
type PromptBuilder struct {
	llm   Completer
	audit *Audit
}

func NewPromptBuilder(llm Completer, audit *Audit) *PromptBuilder {
	return &PromptBuilder{llm: llm, audit: audit}
}

// Build turns the enriched document into one continuous prompt string.
func (p *PromptBuilder) Build(ctx context.Context, doc EnrichedScene) (string, error) {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode enriched document: %w", err)
	}

	prompt := fmt.Sprintf(`You write prompts for a text-to-image diffusion model.

Enriched scene document:
%s

Write ONE continuous prompt describing this exact frame. Requirements:
- Start with the shot type and camera angle.
- Describe the location, time of day and lighting.
- Describe each character with their appearance, clothing, pose and emotion.
- End with the style hints and mood keywords.
- Plain text only. No JSON, no markdown, no line breaks, no commentary.`,
		string(docJSON))

	raw, err := p.llm.CompleteText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("prompt completion: %w", err)
	}
	if p.audit != nil {
		p.audit.Record(doc.SceneID, "prompt", raw)
	}
	out := CleanModelOutput(raw)
	out = strings.Join(strings.Fields(out), " ")
	if out == "" {
		return "", fmt.Errorf("prompt completion returned empty output")
	}
	return out, nil
}

// FallbackPrompt composes a deterministic prompt straight from the
// document, for callers that must produce an image even when the model
// chain is down.
func FallbackPrompt(doc EnrichedScene) string {
	var parts []string
	if doc.Camera != nil && doc.Camera.ShotType != "" {
		parts = append(parts, doc.Camera.ShotType)
	}
	loc := doc.Location.Description
	if loc == "" {
		loc = doc.Location.Norm
	}
	if loc == "" {
		loc = doc.Location.Raw
	}
	if loc != "" {
		parts = append(parts, loc)
	}
	if doc.Time.Norm != "" {
		parts = append(parts, doc.Time.Norm)
	}
	for _, ch := range doc.Characters {
		desc := ch.Name
		if ch.Appearance != "" {
			desc += ", " + ch.Appearance
		}
		if ch.Action != "" {
			desc += ", " + ch.Action
		}
		parts = append(parts, desc)
	}
	parts = append(parts, doc.Mood...)
	parts = append(parts, doc.StyleHints...)
	return strings.Join(parts, ". ")
}
