// Package generation drives image generation for scenes: the prompt
// cache, the single-frame orchestrator and the progressive
// sketch-to-final controller.
package generation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wbryon/wink-ai-hackathon/models"
	"github.com/wbryon/wink-ai-hackathon/processing"
	"github.com/wbryon/wink-ai-hackathon/store"
)

// Visuals owns the per-scene prompt cache. The first generation request
// for a scene runs the describe/enrich/build chain and persists the
// result; later requests reuse it. Concurrent first requests may both
// compute and write the cache; both values are valid and last write
// wins, so there is no lock around the read-then-write.
type Visuals struct {
	describer *processing.Describer
	enricher  *processing.Enricher
	builder   *processing.PromptBuilder
	scenes    store.SceneRepo
	visuals   store.VisualRepo
	log       *zap.SugaredLogger
}

func NewVisuals(describer *processing.Describer, enricher *processing.Enricher, builder *processing.PromptBuilder, scenes store.SceneRepo, visuals store.VisualRepo, log *zap.SugaredLogger) *Visuals {
	return &Visuals{
		describer: describer,
		enricher:  enricher,
		builder:   builder,
		scenes:    scenes,
		visuals:   visuals,
		log:       log,
	}
}

// EnsurePrompt returns the cached prompt for the scene, running the
// full pipeline on a cache miss.
func (v *Visuals) EnsurePrompt(ctx context.Context, scene *models.Scene) (string, error) {
	if cached, err := v.visuals.Get(ctx, scene.ID); err == nil && cached.FluxPrompt != "" {
		return cached.FluxPrompt, nil
	}

	base, err := v.ensureBase(ctx, scene)
	if err != nil {
		return "", err
	}

	enriched, err := v.enricher.Enrich(ctx, base)
	if err != nil {
		return "", err
	}

	prompt, err := v.builder.Build(ctx, enriched)
	if err != nil {
		return "", err
	}

	if err := v.saveVisual(ctx, scene.ID, enriched, prompt); err != nil {
		return "", err
	}
	v.log.Infow("built scene prompt", "scene_id", scene.ID)
	return prompt, nil
}

// Rebuild re-runs the enrich and build steps regardless of the cached
// visual, starting from the scene's base document. Used after a scene
// edit invalidated the cached prompt.
func (v *Visuals) Rebuild(ctx context.Context, scene *models.Scene) (string, error) {
	base, err := v.ensureBase(ctx, scene)
	if err != nil {
		return "", err
	}
	enriched, err := v.enricher.Enrich(ctx, base)
	if err != nil {
		return "", err
	}
	prompt, err := v.builder.Build(ctx, enriched)
	if err != nil {
		return "", err
	}
	if err := v.saveVisual(ctx, scene.ID, enriched, prompt); err != nil {
		return "", err
	}
	v.log.Infow("rebuilt scene prompt", "scene_id", scene.ID)
	return prompt, nil
}

// ensureBase returns the scene's base document, preferring the copy
// cached on the scene row over a fresh describer run.
func (v *Visuals) ensureBase(ctx context.Context, scene *models.Scene) (processing.BaseScene, error) {
	if scene.BaseJSON != "" {
		var base processing.BaseScene
		if err := json.Unmarshal([]byte(scene.BaseJSON), &base); err == nil {
			return base, nil
		}
		v.log.Warnw("cached base document is unreadable, re-describing", "scene_id", scene.ID)
	}

	base, err := v.describer.Describe(ctx, processing.SceneInput{
		SceneID:     scene.ID.String(),
		Title:       scene.Title,
		Location:    scene.Location,
		Description: scene.VisualText(),
		Tone:        scene.Tone,
		Style:       scene.Style,
		Characters:  scene.Characters(),
		Props:       scene.Props(),
	})
	if err != nil {
		return processing.BaseScene{}, err
	}

	if b, err := json.Marshal(base); err == nil {
		scene.BaseJSON = string(b)
		if err := v.scenes.Save(ctx, scene); err != nil {
			v.log.Warnw("could not cache base document", "scene_id", scene.ID, "error", err)
		}
	}
	return base, nil
}

// Slots returns the editable slot view of the scene's enriched document.
func (v *Visuals) Slots(ctx context.Context, sceneID uuid.UUID) (processing.PromptSlots, error) {
	visual, err := v.visuals.Get(ctx, sceneID)
	if err != nil {
		return processing.PromptSlots{}, err
	}
	var doc processing.EnrichedScene
	if err := json.Unmarshal([]byte(visual.EnrichedJSON), &doc); err != nil {
		return processing.PromptSlots{}, fmt.Errorf("decode enriched document: %w", err)
	}
	return processing.SlotsFromDoc(doc), nil
}

// ApplySlots folds an edited slot set into the cached document and
// rebuilds the prompt from the result, without re-running the describer
// or enricher.
func (v *Visuals) ApplySlots(ctx context.Context, sceneID uuid.UUID, slots processing.PromptSlots) (string, error) {
	visual, err := v.visuals.Get(ctx, sceneID)
	if err != nil {
		return "", err
	}
	var doc processing.EnrichedScene
	if err := json.Unmarshal([]byte(visual.EnrichedJSON), &doc); err != nil {
		return "", fmt.Errorf("decode enriched document: %w", err)
	}

	updated := processing.ApplySlots(doc, slots)
	prompt, err := v.builder.Build(ctx, updated)
	if err != nil {
		return "", err
	}
	if err := v.saveVisual(ctx, sceneID, updated, prompt); err != nil {
		return "", err
	}
	v.log.Infow("rebuilt prompt from edited slots", "scene_id", sceneID)
	return prompt, nil
}

func (v *Visuals) saveVisual(ctx context.Context, sceneID uuid.UUID, doc processing.EnrichedScene, prompt string) error {
	enrichedJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode enriched document: %w", err)
	}
	return v.visuals.Upsert(ctx, &models.SceneVisual{
		SceneID:      sceneID,
		EnrichedJSON: string(enrichedJSON),
		FluxPrompt:   prompt,
		Status:       models.VisualStatusPromptReady,
	})
}
