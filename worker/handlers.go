package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/wbryon/wink-ai-hackathon/ai"
	"github.com/wbryon/wink-ai-hackathon/models"
	"github.com/wbryon/wink-ai-hackathon/store"
	"github.com/wbryon/wink-ai-hackathon/tasks"
)

// SegmentHandler processes script-segmentation tasks: split the
// uploaded document into scenes, persist them pending and hand each one
// to the parse queue.
type SegmentHandler struct {
	segmenter *ai.Segmenter
	scripts   store.ScriptRepo
	scenes    store.SceneRepo
	queue     *ParseQueue
	log       *zap.SugaredLogger
}

func NewSegmentHandler(segmenter *ai.Segmenter, scripts store.ScriptRepo, scenes store.SceneRepo, queue *ParseQueue, log *zap.SugaredLogger) *SegmentHandler {
	return &SegmentHandler{
		segmenter: segmenter,
		scripts:   scripts,
		scenes:    scenes,
		queue:     queue,
		log:       log,
	}
}

// Handle runs one segmentation task. A segmentation-service failure is
// a hard failure of the task: the script is marked failed and the error
// propagates to the processor loop.
func (h *SegmentHandler) Handle(ctx context.Context, payload string) error {
	var task tasks.SegmentTaskPayload
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return fmt.Errorf("decode segment task: %w", err)
	}
	log := h.log.With("script_id", task.ScriptID)

	if err := h.scripts.UpdateStatus(ctx, task.ScriptID, models.ScriptStatusParsing); err != nil {
		return err
	}

	records, err := h.segmenter.SplitScenes(ctx, task.FilePath)
	if err != nil {
		log.Errorw("segmentation failed", "error", err)
		if err := h.scripts.UpdateStatus(ctx, task.ScriptID, models.ScriptStatusFailed); err != nil {
			log.Errorw("could not mark script failed", "error", err)
		}
		return fmt.Errorf("segment script %s: %w", task.ScriptID, err)
	}

	queued := 0
	for _, rec := range records {
		scene := models.Scene{
			ScriptID:    task.ScriptID,
			ExternalID:  fmt.Sprintf("seg-%d", rec.Index),
			Title:       rec.Slugline,
			Location:    rec.Place,
			Description: rec.Body,
			Status:      models.SceneStatusPending,
		}
		if dup, err := h.scenes.ExistsExternal(ctx, task.ScriptID, scene.ExternalID); err != nil {
			return err
		} else if dup {
			continue
		}
		if err := h.scenes.Create(ctx, &scene); err != nil {
			return fmt.Errorf("create scene: %w", err)
		}

		// A full queue leaves the scene pending; the scheduler resubmits
		// pending scenes on its next tick.
		if h.queue.Submit(ParseTask{ScriptID: task.ScriptID, SceneID: scene.ID}) {
			queued++
		} else {
			log.Warnw("parse queue saturated, scene left pending", "scene_id", scene.ID)
		}
	}

	if err := h.scripts.UpdateStatus(ctx, task.ScriptID, models.ScriptStatusParsed); err != nil {
		return err
	}
	log.Infow("script segmented", "scenes", len(records), "queued", queued)
	return nil
}

// HandleReparse puts a stuck pending scene back on the parse queue. The
// scheduler emits these for scenes the queue rejected earlier.
func (h *SegmentHandler) HandleReparse(ctx context.Context, payload string) error {
	var task tasks.ReparseTaskPayload
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return fmt.Errorf("decode reparse task: %w", err)
	}

	scene, err := h.scenes.Get(ctx, task.SceneID)
	if err != nil {
		return err
	}
	if scene.Status != models.SceneStatusPending {
		return nil
	}
	if !h.queue.Submit(ParseTask{ScriptID: scene.ScriptID, SceneID: scene.ID}) {
		h.log.Warnw("parse queue still saturated", "scene_id", scene.ID)
	}
	return nil
}
