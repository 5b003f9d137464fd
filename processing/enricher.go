package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

func joinList(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// Enricher expands a base document with the visual detail an image
// model needs: character appearance, camera, lighting, mood and
// negative prompts.
type Enricher struct {
	llm     Completer
	audit   *Audit
	budgets []int
}

func NewEnricher(llm Completer, audit *Audit) *Enricher {
	return &Enricher{llm: llm, audit: audit, budgets: DefaultBudgets}
}

// Enrich produces the enriched document from a base document. Fields
// already present in the base document must survive; the prompt forbids
// dropping them and the retry ladder handles truncation.
func (e *Enricher) Enrich(ctx context.Context, base BaseScene) (EnrichedScene, error) {
	baseJSON, err := json.Marshal(base)
	if err != nil {
		return EnrichedScene{}, fmt.Errorf("encode base document: %w", err)
	}

	prompt := fmt.Sprintf(`You are a cinematographer preparing a scene for still-image generation.

Base scene document:
%s

Expand it into an enriched document matching this schema, nothing else:
%s

Rules:
- Keep every field from the base document; enrich, never drop.
- Give each character appearance, clothing, pose, action, position_in_frame and emotion consistent with the scene.
- Propose camera (shot_type, angle, framing) and lighting that fit the tone.
- Fill environment_details with 3-6 concrete visual elements of the location.
- negative_prompts.global lists generic artifacts to avoid; scene_specific lists things that must not appear in this scene.`,
		string(baseJSON), schemaText(enrichedSceneSchema))

	var doc EnrichedScene
	if err := completeJSON(ctx, e.llm, "enrich", prompt, e.budgets, e.audit, base.SceneID, &doc); err != nil {
		return EnrichedScene{}, err
	}
	if doc.SceneID == "" {
		doc.SceneID = base.SceneID
	}
	return doc, nil
}
