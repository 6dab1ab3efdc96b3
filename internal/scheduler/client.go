package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/ksquared-16/alloy/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const defaultWriteBackMaxRetry = 8

type Client struct {
	client   *asynq.Client
	queue    string
	maxRetry int
}

// WriteBackScheduler enqueues a CRM job record write-back for retry.
type WriteBackScheduler interface {
	ScheduleWriteBack(ctx context.Context, payload JobWriteBackPayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	maxRetry := cfg.GetWriteBackMaxRetry()
	if maxRetry < 1 {
		maxRetry = defaultWriteBackMaxRetry
	}

	return &Client{
		client:   asynq.NewClient(opt),
		queue:    queue,
		maxRetry: maxRetry,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleWriteBack enqueues one write-back per job. A job that already has a
// pending write-back task is not enqueued twice.
func (c *Client) ScheduleWriteBack(ctx context.Context, payload JobWriteBackPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewJobWriteBackTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(c.maxRetry),
		asynq.TaskID(TaskJobWriteBack+":"+payload.JobID),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
