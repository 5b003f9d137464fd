// Package worker runs the background side of the pipeline: the Redis
// task chain for script segmentation and the in-process bounded queue
// that fans per-scene parsing out to a fixed worker pool.
package worker

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/wbryon/wink-ai-hackathon/tasks"
)

// TaskHandler is a function that processes a task payload.
type TaskHandler func(ctx context.Context, payload string) error

// Processor holds the Redis connection and registered task handlers.
type Processor struct {
	RDB      *redis.Client
	log      *zap.SugaredLogger
	handlers map[string]TaskHandler
}

// NewProcessor creates a new worker processor.
func NewProcessor(rdb *redis.Client, log *zap.SugaredLogger) *Processor {
	return &Processor{
		RDB:      rdb,
		log:      log,
		handlers: make(map[string]TaskHandler),
	}
}

// Register maps a queue name (task type) to a handler function.
func (p *Processor) Register(queueName string, handler TaskHandler) {
	p.handlers[queueName] = handler
	p.log.Infow("registered task handler", "queue", queueName)
}

// Enqueue adds a new task to a queue.
func (p *Processor) Enqueue(ctx context.Context, queueName string, payload interface{}) error {
	payloadStr, err := tasks.Marshal(payload)
	if err != nil {
		return err
	}
	return p.RDB.LPush(ctx, queueName, payloadStr).Err()
}

// Listen starts the worker, blocking on all registered queues.
func (p *Processor) Listen(ctx context.Context, queueNames ...string) {
	p.log.Infow("worker listening", "queues", queueNames)

	for {
		// BRPop blocks until a task is available on any of the listed queues.
		result, err := p.RDB.BRPop(ctx, 0, queueNames...).Result()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.log.Errorw("error popping from queue", "error", err)
			continue
		}

		// result[0] is the queue name, result[1] is the payload
		queueName := result[0]
		payload := result[1]

		handler, ok := p.handlers[queueName]
		if !ok {
			p.log.Errorw("no handler registered for queue", "queue", queueName)
			continue
		}

		if err := handler(ctx, payload); err != nil {
			p.log.Errorw("task failed", "queue", queueName, "error", err)
		}
	}
}
