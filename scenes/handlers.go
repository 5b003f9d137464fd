// Package scenes exposes scene inspection, prompt-slot editing and
// frame generation over HTTP.
package scenes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wbryon/wink-ai-hackathon/errs"
	"github.com/wbryon/wink-ai-hackathon/generation"
	"github.com/wbryon/wink-ai-hackathon/models"
	"github.com/wbryon/wink-ai-hackathon/processing"
	"github.com/wbryon/wink-ai-hackathon/store"
)

type Handler struct {
	scenes       store.SceneRepo
	frames       store.FrameRepo
	visuals      *generation.Visuals
	orchestrator *generation.Orchestrator
	log          *zap.SugaredLogger
}

func NewHandler(scenes store.SceneRepo, frames store.FrameRepo, visuals *generation.Visuals, orchestrator *generation.Orchestrator, log *zap.SugaredLogger) *Handler {
	return &Handler{
		scenes:       scenes,
		frames:       frames,
		visuals:      visuals,
		orchestrator: orchestrator,
		log:          log,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	routes := r.Group("/scenes")
	{
		routes.GET("/:id", h.Get)
		routes.PATCH("/:id", h.Update)
		routes.POST("/:id/refine", h.Refine)
		routes.GET("/:id/slots", h.GetSlots)
		routes.PUT("/:id/slots", h.PutSlots)
		routes.GET("/:id/frames", h.ListFrames)
		routes.GET("/:id/frames/cards", h.FrameCards)
		routes.POST("/:id/frames/:frameId/best", h.MarkBest)
		routes.POST("/:id/generate", h.Generate)
		routes.POST("/:id/generate-progressive", h.GenerateProgressive)
	}
}

func (h *Handler) sceneFromPath(c *gin.Context) (*models.Scene, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scene id"})
		return nil, false
	}
	scene, err := h.scenes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return scene, true
}

func (h *Handler) Get(c *gin.Context) {
	scene, ok := h.sceneFromPath(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sceneView(scene))
}

type updateSceneRequest struct {
	Title           *string   `json:"title"`
	Location        *string   `json:"location"`
	Description     *string   `json:"description"`
	SemanticSummary *string   `json:"semantic_summary"`
	Tone            *string   `json:"tone"`
	Style           *string   `json:"style"`
	Characters      *[]string `json:"characters"`
	Props           *[]string `json:"props"`
}

// Update edits scene fields. Any edit invalidates the cached base
// document so the next pipeline run re-describes the new text.
func (h *Handler) Update(c *gin.Context) {
	scene, ok := h.sceneFromPath(c)
	if !ok {
		return
	}
	var req updateSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		scene.Title = *req.Title
	}
	if req.Location != nil {
		scene.Location = *req.Location
	}
	if req.Description != nil {
		scene.Description = *req.Description
	}
	if req.SemanticSummary != nil {
		scene.SemanticSummary = *req.SemanticSummary
	}
	if req.Tone != nil {
		scene.Tone = *req.Tone
	}
	if req.Style != nil {
		scene.Style = *req.Style
	}
	if req.Characters != nil {
		scene.SetCharacters(*req.Characters)
	}
	if req.Props != nil {
		scene.SetProps(*req.Props)
	}
	scene.BaseJSON = ""

	if err := h.scenes.Save(c.Request.Context(), scene); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sceneView(scene))
}

// Refine re-runs the enrichment and prompt build for the scene.
func (h *Handler) Refine(c *gin.Context) {
	scene, ok := h.sceneFromPath(c)
	if !ok {
		return
	}
	prompt, err := h.visuals.Rebuild(c.Request.Context(), scene)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scene_id": scene.ID, "prompt": prompt})
}

func (h *Handler) GetSlots(c *gin.Context) {
	scene, ok := h.sceneFromPath(c)
	if !ok {
		return
	}
	slots, err := h.visuals.Slots(c.Request.Context(), scene.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// PutSlots applies edited slots and rebuilds the prompt from them.
func (h *Handler) PutSlots(c *gin.Context) {
	scene, ok := h.sceneFromPath(c)
	if !ok {
		return
	}
	var slots processing.PromptSlots
	if err := c.ShouldBindJSON(&slots); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prompt, err := h.visuals.ApplySlots(c.Request.Context(), scene.ID, slots)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scene_id": scene.ID, "prompt": prompt})
}

func (h *Handler) ListFrames(c *gin.Context) {
	scene, ok := h.sceneFromPath(c)
	if !ok {
		return
	}
	frames, err := h.frames.ByScene(c.Request.Context(), scene.ID, c.Query("lod"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, frames)
}

// FrameCards returns frames with their technical metadata decoded, the
// shape the review UI renders.
func (h *Handler) FrameCards(c *gin.Context) {
	scene, ok := h.sceneFromPath(c)
	if !ok {
		return
	}
	frames, err := h.frames.ByScene(c.Request.Context(), scene.ID, c.Query("lod"))
	if err != nil {
		respondError(c, err)
		return
	}

	cards := make([]gin.H, 0, len(frames))
	for _, f := range frames {
		cards = append(cards, gin.H{
			"frame":     f,
			"tech_meta": f.TechMeta(),
		})
	}
	c.JSON(http.StatusOK, cards)
}

func (h *Handler) MarkBest(c *gin.Context) {
	scene, ok := h.sceneFromPath(c)
	if !ok {
		return
	}
	frameID, err := uuid.Parse(c.Param("frameId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid frame id"})
		return
	}
	if err := h.frames.MarkBest(c.Request.Context(), scene.ID, frameID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scene_id": scene.ID, "best_frame_id": frameID})
}

type generateRequest struct {
	LOD           string   `json:"lod"`
	Prompt        string   `json:"prompt"`
	Seed          *int64   `json:"seed"`
	Model         string   `json:"model"`
	Steps         int      `json:"steps"`
	Cfg           float64  `json:"cfg"`
	Denoise       *float64 `json:"denoise"`
	ParentFrameID *string  `json:"parent_frame_id"`
}

// Generate produces a single frame at the requested detail level.
func (h *Handler) Generate(c *gin.Context) {
	scene, ok := h.sceneFromPath(c)
	if !ok {
		return
	}
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := generation.Options{
		Prompt:  req.Prompt,
		Seed:    req.Seed,
		Model:   req.Model,
		Steps:   req.Steps,
		Cfg:     req.Cfg,
		Denoise: req.Denoise,
	}
	if req.ParentFrameID != nil {
		parentID, err := uuid.Parse(*req.ParentFrameID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent frame id"})
			return
		}
		parent, err := h.frames.Get(c.Request.Context(), parentID)
		if err != nil {
			respondError(c, err)
			return
		}
		if parent.SceneID != scene.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parent frame belongs to another scene"})
			return
		}
		opts.ParentImageURL = parent.ImageURL
		opts.ParentFrameID = &parent.ID
	}

	frame, err := h.orchestrator.Generate(c.Request.Context(), scene, req.LOD, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"frame": frame, "tech_meta": frame.TechMeta()})
}

type generateProgressiveRequest struct {
	TargetLOD string   `json:"target_lod"`
	Prompt    string   `json:"prompt"`
	Seed      *int64   `json:"seed"`
	Model     string   `json:"model"`
	Denoise   *float64 `json:"denoise"`
}

// GenerateProgressive walks the sketch-to-target refinement chain.
func (h *Handler) GenerateProgressive(c *gin.Context) {
	scene, ok := h.sceneFromPath(c)
	if !ok {
		return
	}
	var req generateProgressiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	frame, err := h.orchestrator.GenerateProgressive(c.Request.Context(), scene, req.TargetLOD, generation.Options{
		Prompt:  req.Prompt,
		Seed:    req.Seed,
		Model:   req.Model,
		Denoise: req.Denoise,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"frame": frame, "tech_meta": frame.TechMeta()})
}

func sceneView(scene *models.Scene) gin.H {
	return gin.H{
		"id":               scene.ID,
		"script_id":        scene.ScriptID,
		"title":            scene.Title,
		"location":         scene.Location,
		"description":      scene.Description,
		"semantic_summary": scene.SemanticSummary,
		"tone":             scene.Tone,
		"style":            scene.Style,
		"characters":       scene.Characters(),
		"props":            scene.Props(),
		"status":           scene.Status,
		"created_at":       scene.CreatedAt,
	}
}

func respondError(c *gin.Context, err error) {
	var pipeErr *errs.PipelineError
	switch {
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrInvalidRequest), errors.Is(err, errs.ErrInvalidProfile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &pipeErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "step": pipeErr.Step})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
