// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue: handlers enqueue tasks through
// asynq.Client and a worker server pulls them from Redis and executes
// the registered handlers.
package job

import (
	"github.com/bazario/marketplace-api/internal/config"
	"github.com/bazario/marketplace-api/internal/lib/cache"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// JobService holds the Asynq client (enqueue side) and server (worker side).
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	server *asynq.Server
	logger *zerolog.Logger

	// Handler dependencies, set by InitHandlers before Start.
	pool  *pgxpool.Pool
	cache *cache.Cache
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// Queue weights give like-count syncs priority over cache invalidation,
// which can tolerate delay.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// InitHandlers wires the dependencies task handlers need. Must be called
// before Start.
func (j *JobService) InitHandlers(pool *pgxpool.Pool, c *cache.Cache) {
	j.pool = pool
	j.cache = c
}

// Start registers task handlers and starts the worker server.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskLikeSync, j.handleLikeSyncTask)
	mux.HandleFunc(TaskListingInvalidate, j.handleListingInvalidateTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop gracefully stops the worker server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}
