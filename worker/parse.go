package worker

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wbryon/wink-ai-hackathon/models"
	"github.com/wbryon/wink-ai-hackathon/processing"
	"github.com/wbryon/wink-ai-hackathon/store"
)

// ScenePool is the fixed worker pool behind the parse queue. Each
// worker takes one task at a time and runs the describer for it; scenes
// of the same script may parse in parallel on different workers.
type ScenePool struct {
	queue     *ParseQueue
	describer *processing.Describer
	scenes    store.SceneRepo
	log       *zap.SugaredLogger
	workers   int
	wg        sync.WaitGroup
}

func NewScenePool(queue *ParseQueue, describer *processing.Describer, scenes store.SceneRepo, workers int, log *zap.SugaredLogger) *ScenePool {
	if workers <= 0 {
		workers = 3
	}
	return &ScenePool{
		queue:     queue,
		describer: describer,
		scenes:    scenes,
		log:       log,
		workers:   workers,
	}
}

// Start launches the workers. They exit when the queue closes.
func (p *ScenePool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				task, ok := p.queue.Take()
				if !ok {
					return
				}
				p.run(ctx, id, task)
			}
		}(i)
	}
}

// Wait blocks until every worker has exited.
func (p *ScenePool) Wait() {
	p.wg.Wait()
}

// run parses one scene. A failure marks the scene failed and drops the
// task; re-upload or an explicit retry puts it back on the queue.
func (p *ScenePool) run(ctx context.Context, workerID int, task ParseTask) {
	log := p.log.With("worker", workerID, "scene_id", task.SceneID)

	scene, err := p.scenes.Get(ctx, task.SceneID)
	if err != nil {
		log.Errorw("scene vanished before parsing", "error", err)
		return
	}

	if err := p.scenes.UpdateStatus(ctx, scene.ID, models.SceneStatusProcessing); err != nil {
		log.Errorw("could not mark scene processing", "error", err)
		return
	}

	doc, err := p.describer.Describe(ctx, processing.SceneInput{
		SceneID:     scene.ID.String(),
		Title:       scene.Title,
		Location:    scene.Location,
		Description: scene.Description,
		Tone:        scene.Tone,
		Style:       scene.Style,
		Characters:  scene.Characters(),
		Props:       scene.Props(),
	})
	if err != nil {
		log.Errorw("describer failed", "error", err)
		if err := p.scenes.UpdateStatus(ctx, scene.ID, models.SceneStatusFailed); err != nil {
			log.Errorw("could not mark scene failed", "error", err)
		}
		return
	}

	applyBaseDoc(scene, doc)
	scene.Status = models.SceneStatusParsed
	if err := p.scenes.Save(ctx, scene); err != nil {
		log.Errorw("could not save parsed scene", "error", err)
		return
	}
	log.Infow("scene parsed")
}

// applyBaseDoc maps the describer output onto the scene row, filling
// only what segmentation could not provide and caching the document for
// the prompt pipeline.
func applyBaseDoc(scene *models.Scene, doc processing.BaseScene) {
	if b, err := json.Marshal(doc); err == nil {
		scene.BaseJSON = string(b)
	}
	if scene.Location == "" {
		scene.Location = doc.Location.Raw
	}
	if len(scene.Characters()) == 0 && len(doc.Characters) > 0 {
		names := make([]string, 0, len(doc.Characters))
		for _, c := range doc.Characters {
			names = append(names, c.Name)
		}
		scene.SetCharacters(names)
	}
	if len(scene.Props()) == 0 && len(doc.Props) > 0 {
		names := make([]string, 0, len(doc.Props))
		for _, p := range doc.Props {
			names = append(names, p.Name)
		}
		scene.SetProps(names)
	}
	if scene.Tone == "" {
		scene.Tone = strings.Join(doc.Tone, ", ")
	}
	if scene.Style == "" {
		scene.Style = strings.Join(doc.StyleHints, ", ")
	}
	if scene.SemanticSummary == "" {
		scene.SemanticSummary = doc.TextExcerpt
	}
}
