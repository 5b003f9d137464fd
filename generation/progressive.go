package generation

import (
	"context"
	"errors"

	"github.com/wbryon/wink-ai-hackathon/errs"
	"github.com/wbryon/wink-ai-hackathon/lod"
	"github.com/wbryon/wink-ai-hackathon/models"
)

// GenerateProgressive runs the sketch-to-target refinement chain and
// returns the frame produced for the requested target level. Only mid
// and final are valid targets; sketch and direct_final have no
// refinement structure to walk.
//
// An existing sketch frame is reused rather than regenerated. Each
// refinement stage inherits the caller's seed, or its parent frame's
// seed when the caller gave none, so the stochastic structure of the
// sketch carries through.
func (o *Orchestrator) GenerateProgressive(ctx context.Context, scene *models.Scene, targetCode string, opts Options) (*models.Frame, error) {
	profile, err := lod.Resolve(targetCode)
	if err != nil {
		return nil, err
	}
	if profile.Code != lod.CodeMid && profile.Code != lod.CodeFinal {
		return nil, errs.InvalidRequestf("progressive generation target must be mid or final, got %q", profile.Code)
	}

	sketch, err := o.frames.Latest(ctx, scene.ID, lod.CodeSketch)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		sketch, err = o.Generate(ctx, scene, lod.CodeSketch, Options{
			Prompt: opts.Prompt,
			Seed:   opts.Seed,
			Model:  opts.Model,
			Path:   lod.PathProgressive,
		})
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		o.log.Infow("reusing existing sketch frame", "scene_id", scene.ID, "frame_id", sketch.ID)
	}

	mid, err := o.Generate(ctx, scene, lod.CodeMid, Options{
		Prompt:         opts.Prompt,
		Seed:           inheritSeed(opts.Seed, sketch),
		Model:          opts.Model,
		Denoise:        opts.Denoise,
		ParentImageURL: sketch.ImageURL,
		ParentFrameID:  &sketch.ID,
		Path:           lod.PathProgressive,
	})
	if err != nil {
		return nil, err
	}
	if profile.Code == lod.CodeMid {
		return mid, nil
	}

	final, err := o.Generate(ctx, scene, lod.CodeFinal, Options{
		Prompt:         opts.Prompt,
		Seed:           inheritSeed(opts.Seed, mid),
		Model:          opts.Model,
		Denoise:        opts.Denoise,
		ParentImageURL: mid.ImageURL,
		ParentFrameID:  &mid.ID,
		Path:           lod.PathProgressive,
	})
	if err != nil {
		return nil, err
	}
	return final, nil
}

func inheritSeed(callerSeed *int64, parent *models.Frame) *int64 {
	if callerSeed != nil {
		return callerSeed
	}
	seed := parent.Seed
	return &seed
}
