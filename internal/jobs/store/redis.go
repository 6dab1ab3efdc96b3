package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ksquared-16/alloy/internal/jobs/domain"

	"github.com/redis/go-redis/v9"
)

const maxOptimisticRetries = 16

// Redis stores each job as a JSON string under "<prefix>:<id>" and tracks ids
// in the "<prefix>:index" set. Updates use WATCH/MULTI so concurrent API
// instances still see a single winner.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis creates a store on top of an existing client.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "alloy:jobs"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(id string) string { return r.prefix + ":" + id }

func (r *Redis) indexKey() string { return r.prefix + ":index" }

func (r *Redis) Insert(ctx context.Context, job domain.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	created, err := r.client.SetNX(ctx, r.key(job.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return domain.ErrJobExists
	}
	return r.client.SAdd(ctx, r.indexKey(), job.ID).Err()
}

func (r *Redis) Put(ctx context.Context, job domain.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(job.ID), data, 0)
		pipe.SAdd(ctx, r.indexKey(), job.ID)
		return nil
	})
	return err
}

func (r *Redis) Get(ctx context.Context, id string) (domain.Job, error) {
	return r.read(ctx, r.client, id)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *Redis) read(ctx context.Context, c getter, id string) (domain.Job, error) {
	data, err := c.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Job{}, domain.ErrJobNotFound
	}
	if err != nil {
		return domain.Job{}, err
	}
	var job domain.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return domain.Job{}, fmt.Errorf("decode job %s: %w", id, err)
	}
	return job, nil
}

func (r *Redis) All(ctx context.Context) ([]domain.Job, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Job{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	jobs := make([]domain.Job, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var job domain.Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return nil, fmt.Errorf("decode job %s: %w", ids[i], err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (r *Redis) Update(ctx context.Context, id string, fn UpdateFunc) (domain.Job, error) {
	key := r.key(id)

	for attempt := 0; attempt < maxOptimisticRetries; attempt++ {
		var (
			result domain.Job
			fnErr  error
		)

		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			current, err := r.read(ctx, tx, id)
			if err != nil {
				return err
			}

			working := current.Clone()
			if err := fn(&working); err != nil {
				result, fnErr = current, err
				return nil
			}

			data, err := json.Marshal(working)
			if err != nil {
				return fmt.Errorf("encode job %s: %w", id, err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, 0)
				return nil
			})
			if err != nil {
				return err
			}
			result = working
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.Job{}, err
		}
		return result, fnErr
	}

	return domain.Job{}, fmt.Errorf("update job %s: too much contention", id)
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ Store = (*Redis)(nil)
