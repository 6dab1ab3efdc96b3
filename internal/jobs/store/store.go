// Package store holds dispatch jobs. Every backend serializes mutations of a
// single job while leaving different jobs independent.
package store

import (
	"context"

	"github.com/ksquared-16/alloy/internal/jobs/domain"
)

// UpdateFunc mutates a job inside its critical section.
// Returning an error discards the mutation.
type UpdateFunc func(job *domain.Job) error

// Store is the lifecycle authority for jobs.
type Store interface {
	// Insert stores a new job; it returns domain.ErrJobExists when the id is taken.
	Insert(ctx context.Context, job domain.Job) error
	// Put inserts or replaces the job keyed by its ID.
	Put(ctx context.Context, job domain.Job) error
	// Get returns domain.ErrJobNotFound when no job has the id.
	Get(ctx context.Context, id string) (domain.Job, error)
	// All enumerates every stored job in no particular order.
	All(ctx context.Context) ([]domain.Job, error)
	// Update applies fn atomically with respect to other updates of the same id.
	// When fn fails the stored job is unchanged and the current job is returned with fn's error.
	Update(ctx context.Context, id string, fn UpdateFunc) (domain.Job, error)
	// Ping reports backend health.
	Ping(ctx context.Context) error
}
