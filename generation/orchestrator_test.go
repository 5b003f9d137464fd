package generation

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/wbryon/wink-ai-hackathon/errs"
	"github.com/wbryon/wink-ai-hackathon/lod"
	"github.com/wbryon/wink-ai-hackathon/models"
)

func testOrchestrator(t *testing.T, images ImageGenerator, prompts PromptSource) (*Orchestrator, *memSceneRepo, *memFrameRepo, *models.Scene) {
	t.Helper()
	scenes := newMemSceneRepo()
	frames := &memFrameRepo{}
	scene := &models.Scene{
		Title:       "Rooftop chase",
		Location:    "EXT. ROOFTOP - NIGHT",
		Description: "Anna sprints across the rooftop.",
		Status:      models.SceneStatusParsed,
	}
	if err := scenes.Create(context.Background(), scene); err != nil {
		t.Fatal(err)
	}
	o := NewOrchestrator(scenes, frames, prompts, images, zap.NewNop().Sugar())
	return o, scenes, frames, scene
}

func TestGenerateDirectText2Img(t *testing.T) {
	images := &stubImages{}
	o, scenes, frames, scene := testOrchestrator(t, images, &stubPrompts{prompt: "a rooftop at night"})

	frame, err := o.Generate(context.Background(), scene, "", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if frame.DetailLevel != lod.CodeSketch {
		t.Errorf("blank code should resolve to sketch, got %q", frame.DetailLevel)
	}
	if frame.GenerationPath != lod.PathDirect {
		t.Errorf("path = %q", frame.GenerationPath)
	}
	if frame.Status != models.FrameStatusOK || frame.ImageURL == "" {
		t.Errorf("frame = %+v", frame)
	}
	if frame.ParentFrameID != nil {
		t.Error("direct frame must not have a parent")
	}

	req := images.requests[0]
	if req.InitImageURL != "" || req.Denoise != nil {
		t.Error("sketch must be text-to-image")
	}
	if req.Steps != 11 {
		t.Errorf("sketch steps = %d, want midpoint 11", req.Steps)
	}
	if req.Seed == nil {
		t.Error("orchestrator must pin a seed")
	}
	if !strings.Contains(req.NegativePrompt, "typography") {
		t.Errorf("negative prompt = %q", req.NegativePrompt)
	}

	stored, _ := scenes.Get(context.Background(), scene.ID)
	if stored.Status != models.SceneStatusReady {
		t.Errorf("scene status = %q", stored.Status)
	}
	if len(frames.frames) != 1 {
		t.Errorf("frame count = %d", len(frames.frames))
	}
}

func TestGenerateInvalidProfile(t *testing.T) {
	o, _, frames, scene := testOrchestrator(t, &stubImages{}, &stubPrompts{prompt: "p"})
	_, err := o.Generate(context.Background(), scene, "ultra", Options{})
	if !errors.Is(err, errs.ErrInvalidProfile) {
		t.Fatalf("got %v", err)
	}
	if len(frames.frames) != 0 {
		t.Error("invalid profile must not create frames")
	}
}

func TestGenerateFallsBackToTemplatePrompt(t *testing.T) {
	images := &stubImages{}
	broken := &stubPrompts{err: &errs.PipelineError{Step: "describe", Budgets: []int{1500}, Cause: errors.New("down")}}
	o, _, _, scene := testOrchestrator(t, images, broken)

	frame, err := o.Generate(context.Background(), scene, lod.CodeSketch, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := "Scene Rooftop chase / EXT. ROOFTOP - NIGHT. Anna sprints across the rooftop."
	if frame.Prompt != want {
		t.Errorf("prompt = %q, want template %q", frame.Prompt, want)
	}
	if frame.Status != models.FrameStatusOK {
		t.Errorf("prompt degradation must not fail the frame: %+v", frame)
	}
}

func TestGenerateOverridePromptSkipsPipeline(t *testing.T) {
	prompts := &stubPrompts{prompt: "cached"}
	o, _, _, scene := testOrchestrator(t, &stubImages{}, prompts)

	frame, err := o.Generate(context.Background(), scene, lod.CodeDirectFinal, Options{Prompt: "hand written"})
	if err != nil {
		t.Fatal(err)
	}
	if frame.Prompt != "hand written" {
		t.Errorf("prompt = %q", frame.Prompt)
	}
	if prompts.calls != 0 {
		t.Error("override prompt must bypass the prompt source")
	}
}

func TestGenerateFailureStillPersistsFrame(t *testing.T) {
	images := &stubImages{failAlways: true}
	o, scenes, frames, scene := testOrchestrator(t, images, &stubPrompts{prompt: "p"})

	frame, err := o.Generate(context.Background(), scene, lod.CodeFinal, Options{ParentImageURL: "sketch.png"})
	if err != nil {
		t.Fatalf("collaborator failure must not propagate: %v", err)
	}
	if frame.Status != models.FrameStatusFailed {
		t.Errorf("status = %q", frame.Status)
	}
	if frame.ImageURL != "/static/placeholders/final.png" {
		t.Errorf("placeholder url = %q", frame.ImageURL)
	}
	if frame.Model != "generation-error" {
		t.Errorf("model marker = %q", frame.Model)
	}
	if len(frames.frames) != 1 {
		t.Errorf("exactly one frame per call, got %d", len(frames.frames))
	}
	stored, _ := scenes.Get(context.Background(), scene.ID)
	if stored.Status != models.SceneStatusFailed {
		t.Errorf("scene status = %q", stored.Status)
	}
}

func TestGenerateImg2ImgUsesRecommendedDenoise(t *testing.T) {
	images := &stubImages{}
	o, _, _, scene := testOrchestrator(t, images, &stubPrompts{prompt: "p"})

	if _, err := o.Generate(context.Background(), scene, lod.CodeMid, Options{ParentImageURL: "sketch.png"}); err != nil {
		t.Fatal(err)
	}
	req := images.requests[0]
	if req.InitImageURL != "sketch.png" {
		t.Errorf("init image = %q", req.InitImageURL)
	}
	if req.Denoise == nil || math.Abs(*req.Denoise-0.35) > 1e-9 {
		t.Errorf("denoise = %v, want mid midpoint 0.35", req.Denoise)
	}
}

func TestGenerateTechMetaOverlay(t *testing.T) {
	images := &stubImages{echoSeed: true}
	o, _, _, scene := testOrchestrator(t, images, &stubPrompts{prompt: "p"})

	seed := int64(42)
	frame, err := o.Generate(context.Background(), scene, lod.CodeFinal, Options{Seed: &seed, ParentImageURL: "mid.png"})
	if err != nil {
		t.Fatal(err)
	}
	meta := frame.TechMeta()
	if meta.Seed != 42 || frame.Seed != 42 {
		t.Errorf("seed = %d/%d", meta.Seed, frame.Seed)
	}
	if meta.Sampler != "euler_a" {
		t.Errorf("sampler not overlaid: %+v", meta)
	}
	if meta.Img2Img == nil || math.Abs(meta.Img2Img.Denoise-0.45) > 1e-9 {
		t.Errorf("img2img meta = %+v", meta.Img2Img)
	}
	if meta.Refiner == nil || !meta.Refiner.Enabled {
		t.Errorf("final profile should recommend the refiner: %+v", meta)
	}
	if meta.LOD != lod.CodeFinal {
		t.Errorf("lod = %q", meta.LOD)
	}
}
