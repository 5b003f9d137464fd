package main

import (
	"context"
	"time"

	"github.com/wbryon/wink-ai-hackathon/ai"
	"github.com/wbryon/wink-ai-hackathon/internal/platform"
	"github.com/wbryon/wink-ai-hackathon/processing"
	"github.com/wbryon/wink-ai-hackathon/store"
	"github.com/wbryon/wink-ai-hackathon/tasks"
	"github.com/wbryon/wink-ai-hackathon/worker"
)

func main() {
	log := platform.NewLogger().With("service", "worker")
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()
	ctx := context.Background()

	scriptRepo := store.NewScriptRepo(db)
	sceneRepo := store.NewSceneRepo(db)

	llm := ai.NewLLM()
	audit := processing.NewAudit(30 * time.Minute)
	describer := processing.NewDescriber(llm, audit)

	queue := worker.NewParseQueue(platform.EnvInt("PARSE_QUEUE_SIZE", 64))
	pool := worker.NewScenePool(queue, describer, sceneRepo, platform.EnvInt("PARSE_WORKERS", 3), log)
	pool.Start(ctx)

	segmentHandler := worker.NewSegmentHandler(ai.NewSegmenter(), scriptRepo, sceneRepo, queue, log)

	processor := worker.NewProcessor(rdb, log)
	processor.Register(tasks.QueueScriptSegment, segmentHandler.Handle)
	processor.Register(tasks.QueueSceneReparse, segmentHandler.HandleReparse)

	log.Infow("worker started")
	processor.Listen(ctx, tasks.QueueScriptSegment, tasks.QueueSceneReparse)
}
