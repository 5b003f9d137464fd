// Package scripts exposes script upload, parsing status and scene
// ingestion over HTTP.
package scripts

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wbryon/wink-ai-hackathon/errs"
	"github.com/wbryon/wink-ai-hackathon/ingest"
	"github.com/wbryon/wink-ai-hackathon/models"
	"github.com/wbryon/wink-ai-hackathon/store"
	"github.com/wbryon/wink-ai-hackathon/tasks"
	"github.com/wbryon/wink-ai-hackathon/worker"
)

type Handler struct {
	scripts   store.ScriptRepo
	scenes    store.SceneRepo
	ingestor  *ingest.Ingestor
	processor *worker.Processor
	uploadDir string
	log       *zap.SugaredLogger
}

func NewHandler(scripts store.ScriptRepo, scenes store.SceneRepo, ingestor *ingest.Ingestor, processor *worker.Processor, log *zap.SugaredLogger) *Handler {
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	return &Handler{
		scripts:   scripts,
		scenes:    scenes,
		ingestor:  ingestor,
		processor: processor,
		uploadDir: uploadDir,
		log:       log,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	routes := r.Group("/scripts")
	{
		routes.POST("", h.Upload)
		routes.GET("/:id", h.GetStatus)
		routes.GET("/:id/scenes", h.ListScenes)
		routes.POST("/:id/scenes", h.IngestScenes)
	}
}

// Upload stores the screenplay file and queues segmentation.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	script := models.Script{
		Filename: filepath.Base(file.Filename),
		Status:   models.ScriptStatusUploaded,
	}
	script.ID = uuid.New()
	script.FilePath = filepath.Join(h.uploadDir, script.ID.String()+filepath.Ext(script.Filename))

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
		return
	}
	if err := c.SaveUploadedFile(file, script.FilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
		return
	}
	if err := h.scripts.Create(c.Request.Context(), &script); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create script"})
		return
	}

	task := tasks.SegmentTaskPayload{ScriptID: script.ID, FilePath: script.FilePath}
	if err := h.processor.Enqueue(c.Request.Context(), tasks.QueueScriptSegment, task); err != nil {
		h.log.Errorw("could not enqueue segmentation", "script_id", script.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not queue script for parsing"})
		return
	}

	h.log.Infow("script uploaded", "script_id", script.ID, "filename", script.Filename)
	c.JSON(http.StatusAccepted, script)
}

// GetStatus reports the script state plus per-status scene counts.
func (h *Handler) GetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid script id"})
		return
	}

	script, err := h.scripts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	scenes, err := h.scenes.ByScript(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	counts := map[string]int{}
	for _, s := range scenes {
		counts[s.Status]++
	}
	c.JSON(http.StatusOK, gin.H{
		"script":       script,
		"scene_count":  len(scenes),
		"scene_status": counts,
	})
}

// ListScenes returns the script's scenes in screenplay order.
func (h *Handler) ListScenes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid script id"})
		return
	}
	if _, err := h.scripts.Get(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	scenes, err := h.scenes.ByScript(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scenes)
}

type ingestRequest struct {
	Scenes []ingest.SceneInput `json:"scenes" binding:"required"`
}

// IngestScenes accepts a batch of externally parsed scenes.
func (h *Handler) IngestScenes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid script id"})
		return
	}
	if _, err := h.scripts.Get(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.ingestor.Ingest(c.Request.Context(), id, req.Scenes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
