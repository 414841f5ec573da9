package redisqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"quicklook-service/internal/config"
	"quicklook-service/internal/core/domain"
	ports "quicklook-service/internal/core/ports/output"
)

// Queue is a Redis-list-backed job broker. The API pushes serialized jobs
// and workers block-pop them.
type Queue struct {
	client *redis.Client
	key    string
}

func NewQueue(cfg *config.RedisConfig) (*Queue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  -1, // BRPOP manages its own deadline
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	log.WithFields(log.Fields{"addr": cfg.Addr, "queue": cfg.Queue}).Info("connected to redis job queue")
	return &Queue{client: client, key: cfg.Queue}, nil
}

// NewQueueWithClient wires an existing client, used by tests.
func NewQueueWithClient(client *redis.Client, key string) *Queue {
	return &Queue{client: client, key: key}
}

var _ ports.JobQueue = (*Queue)(nil)

func (q *Queue) Enqueue(ctx context.Context, job *domain.MonitorJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}
	return nil
}

// Dequeue pops the oldest job, blocking in short intervals so context
// cancellation is honored.
func (q *Queue) Dequeue(ctx context.Context) (*domain.MonitorJob, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := q.client.BRPop(ctx, 2*time.Second, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("dequeue job: %w", err)
		}
		// BRPOP returns [key, value]
		if len(result) != 2 {
			continue
		}

		var job domain.MonitorJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.WithError(err).Warn("dropping malformed job payload")
			continue
		}
		return &job, nil
	}
}

func (q *Queue) HealthCheck(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func (q *Queue) Close() error {
	return q.client.Close()
}
