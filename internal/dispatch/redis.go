package dispatch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/cookbook/pkg/lifecycle"
)

// Queue publishes jobs onto a Redis list for generation workers to pop.
type Queue struct {
	client      *redis.Client
	queue       string
	dialTimeout time.Duration
	logger      *slog.Logger
}

// NewQueue creates a Redis-backed dispatcher. No connection is made until
// Start runs or the first job is dispatched.
func NewQueue(cfg *Config, logger *slog.Logger) *Queue {
	var tlsConfig *tls.Config
	if cfg.UseTLS {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		TLSConfig:    tlsConfig,
		DialTimeout:  cfg.DialTimeoutDuration(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	return &Queue{
		client:      client,
		queue:       cfg.Queue,
		dialTimeout: cfg.DialTimeoutDuration(),
		logger:      logger.With("system", "dispatch"),
	}
}

// Start registers a startup ping and a shutdown close with the coordinator.
func (q *Queue) Start(lc *lifecycle.Coordinator) error {
	q.logger.Info("starting dispatch queue", "queue", q.queue)

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), q.dialTimeout)
		defer cancel()

		if err := q.client.Ping(ctx).Err(); err != nil {
			q.logger.Error("redis ping failed", "error", err)
			return
		}

		q.logger.Info("dispatch queue connected")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		q.logger.Info("closing dispatch queue")

		if err := q.client.Close(); err != nil {
			q.logger.Error("redis close failed", "error", err)
			return
		}

		q.logger.Info("dispatch queue closed")
	})

	return nil
}

// Dispatch pushes the JSON-encoded job onto the queue.
func (q *Queue) Dispatch(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	if err := q.client.LPush(ctx, q.queue, data).Err(); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}

	q.logger.Info("job dispatched", "job_id", job.ID, "recipe", job.RecipeName, "stages", len(job.Stages))
	return nil
}
