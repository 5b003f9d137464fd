package generation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wbryon/wink-ai-hackathon/ai"
	"github.com/wbryon/wink-ai-hackathon/lod"
	"github.com/wbryon/wink-ai-hackathon/models"
	"github.com/wbryon/wink-ai-hackathon/store"
)

// ImageGenerator is the image-generation collaborator.
type ImageGenerator interface {
	Generate(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResult, error)
}

// PromptSource yields the generation prompt for a scene, building and
// caching it on first use.
type PromptSource interface {
	EnsurePrompt(ctx context.Context, scene *models.Scene) (string, error)
}

// Options are the caller-tunable knobs for one generate call. Zero
// values mean "use the profile's recommendation".
type Options struct {
	Prompt         string
	Seed           *int64
	Model          string
	Steps          int
	Cfg            float64
	Denoise        *float64
	ParentImageURL string
	ParentFrameID  *uuid.UUID
	Path           string
}

// Orchestrator runs single-frame generation: profile resolution, prompt
// resolution with degradation, the collaborator call and frame
// persistence. A collaborator failure still persists a frame; the
// caller always gets a row back.
type Orchestrator struct {
	scenes  store.SceneRepo
	frames  store.FrameRepo
	prompts PromptSource
	images  ImageGenerator
	log     *zap.SugaredLogger
	newSeed func() int64
}

func NewOrchestrator(scenes store.SceneRepo, frames store.FrameRepo, prompts PromptSource, images ImageGenerator, log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		scenes:  scenes,
		frames:  frames,
		prompts: prompts,
		images:  images,
		log:     log,
		// 32-bit range keeps seeds portable across diffusion backends
		newSeed: func() int64 { return rand.Int63n(1 << 32) },
	}
}

// Generate produces one frame for the scene at the given detail level.
func (o *Orchestrator) Generate(ctx context.Context, scene *models.Scene, lodCode string, opts Options) (*models.Frame, error) {
	profile, err := lod.Resolve(lodCode)
	if err != nil {
		return nil, err
	}

	prompt := opts.Prompt
	if prompt == "" {
		prompt, err = o.prompts.EnsurePrompt(ctx, scene)
		if err != nil {
			// Degrade to a plain template; a prompt-pipeline failure must
			// not block generation.
			o.log.Warnw("prompt pipeline failed, using template prompt", "scene_id", scene.ID, "error", err)
			prompt = fmt.Sprintf("Scene %s / %s. %s", scene.Title, scene.Location, scene.Description)
		}
	}

	// A seed is pinned before the call so refinement stages can inherit
	// it even when the collaborator does not echo seeds back.
	seed := opts.Seed
	if seed == nil {
		s := o.newSeed()
		seed = &s
	}

	steps := opts.Steps
	if steps <= 0 {
		steps = profile.RecommendedSteps()
	}
	cfg := opts.Cfg
	if cfg <= 0 {
		cfg = profile.RecommendedCfg()
	}
	width, height := lod.ParseResolution(profile.DefaultResolution)

	req := ai.GenerateRequest{
		Prompt:         prompt,
		NegativePrompt: profile.NegativesString(),
		Steps:          steps,
		Cfg:            cfg,
		Width:          width,
		Height:         height,
		Seed:           seed,
		Model:          opts.Model,
	}

	var denoise *float64
	if opts.ParentImageURL != "" {
		denoise = opts.Denoise
		if denoise == nil {
			denoise = profile.RecommendedDenoise()
		}
	}
	if denoise != nil {
		req.InitImageURL = opts.ParentImageURL
		req.Denoise = denoise
	}

	path := opts.Path
	if path == "" {
		path = lod.PathDirect
	}

	if err := o.scenes.UpdateStatus(ctx, scene.ID, models.SceneStatusGenerating); err != nil {
		o.log.Warnw("could not mark scene generating", "scene_id", scene.ID, "error", err)
	}

	started := time.Now()
	result, genErr := o.images.Generate(ctx, req)
	elapsed := time.Since(started).Milliseconds()

	frame := models.Frame{
		SceneID:        scene.ID,
		ParentFrameID:  opts.ParentFrameID,
		DetailLevel:    profile.Code,
		GenerationPath: path,
		Prompt:         prompt,
		Seed:           *seed,
		GenerationMs:   elapsed,
	}

	meta := models.TechMeta{
		Seed:       *seed,
		Steps:      steps,
		Cfg:        cfg,
		Resolution: fmt.Sprintf("%dx%d", width, height),
		LOD:        profile.Code,
		Path:       path,
		RunMs:      elapsed,
		Style:      &models.StyleMeta{Negatives: profile.DefaultNegatives},
	}
	if denoise != nil {
		meta.Img2Img = &models.Img2ImgMeta{Denoise: *denoise, InitImage: opts.ParentImageURL}
	}
	if profile.RefinerRecommended {
		meta.Refiner = &models.RefinerMeta{Enabled: true}
	}
	if profile.UpscaleRecommended {
		meta.Upscale = &models.UpscaleMeta{Enabled: true, Factor: 2}
	}

	if genErr != nil {
		o.log.Errorw("image generation failed", "scene_id", scene.ID, "lod", profile.Code, "error", genErr)
		frame.Status = models.FrameStatusFailed
		frame.ImageURL = placeholderURL(profile.Code)
		frame.Model = "generation-error"
	} else {
		frame.Status = models.FrameStatusOK
		frame.ImageURL = result.ImageURL
		frame.Model = firstNonEmpty(result.Model, opts.Model)
		if result.Seed != nil {
			frame.Seed = *result.Seed
			meta.Seed = *result.Seed
		}
		if result.Steps > 0 {
			meta.Steps = result.Steps
		}
		if result.Cfg > 0 {
			meta.Cfg = result.Cfg
		}
		meta.Sampler = result.Sampler
		if result.DurationMs > 0 {
			meta.RunMs = result.DurationMs
			meta.QueueMs = elapsed - result.DurationMs
		}
	}
	frame.SetTechMeta(meta)

	if err := o.frames.Create(ctx, &frame); err != nil {
		return nil, fmt.Errorf("persist frame: %w", err)
	}

	status := models.SceneStatusReady
	if genErr != nil {
		status = models.SceneStatusFailed
	}
	if err := o.scenes.UpdateStatus(ctx, scene.ID, status); err != nil {
		o.log.Warnw("could not update scene status", "scene_id", scene.ID, "error", err)
	}

	o.log.Infow("frame persisted",
		"scene_id", scene.ID, "frame_id", frame.ID, "lod", profile.Code,
		"path", path, "status", frame.Status, "duration_ms", elapsed)
	return &frame, nil
}

func placeholderURL(profileCode string) string {
	return fmt.Sprintf("/static/placeholders/%s.png", profileCode)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
