package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wbryon/wink-ai-hackathon/internal/platform"
	"github.com/wbryon/wink-ai-hackathon/models"
	"github.com/wbryon/wink-ai-hackathon/store"
	"github.com/wbryon/wink-ai-hackathon/tasks"
	"github.com/wbryon/wink-ai-hackathon/worker"
)

// The scheduler sweeps for scenes stuck in pending. A scene lands there
// when the worker's parse queue was full at segmentation time; the
// sweep resubmits it through the Redis task chain. Run one instance.
func main() {
	log := platform.NewLogger().With("service", "scheduler")
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()
	ctx := context.Background()

	sceneRepo := store.NewSceneRepo(db)
	processor := worker.NewProcessor(rdb, log)

	graceMin := platform.EnvInt("RESUBMIT_GRACE_MIN", 2)
	batch := platform.EnvInt("RESUBMIT_BATCH", 50)

	c := cron.New()
	_, err := c.AddFunc("@every 1m", func() {
		scenes, err := sceneRepo.ByStatus(ctx, models.SceneStatusPending, batch)
		if err != nil {
			log.Errorw("pending sweep failed", "error", err)
			return
		}

		cutoff := time.Now().Add(-time.Duration(graceMin) * time.Minute)
		resubmitted := 0
		for _, scene := range scenes {
			// freshly segmented scenes are usually queued already
			if scene.CreatedAt.After(cutoff) {
				continue
			}
			task := tasks.ReparseTaskPayload{SceneID: scene.ID}
			if err := processor.Enqueue(ctx, tasks.QueueSceneReparse, task); err != nil {
				log.Errorw("could not resubmit scene", "scene_id", scene.ID, "error", err)
				continue
			}
			resubmitted++
		}
		if resubmitted > 0 {
			log.Infow("resubmitted stuck scenes", "count", resubmitted)
		}
	})
	if err != nil {
		log.Fatalw("could not schedule pending sweep", "error", err)
	}

	c.Start()
	defer c.Stop()

	log.Infow("scheduler started")
	select {}
}
