package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ksquared-16/alloy/internal/jobs/domain"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) *Redis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, "test:jobs")
}

// backends includes postgres only when TEST_DATABASE_URL points at a
// disposable database.
func backends(t *testing.T) map[string]Store {
	stores := map[string]Store{
		"memory": NewMemory(),
		"redis":  newRedisStore(t),
	}
	if pg := newPostgresStore(t); pg != nil {
		stores["postgres"] = pg
	}
	return stores
}

func TestPutGetAll(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := s.Get(ctx, "missing"); !errors.Is(err, domain.ErrJobNotFound) {
				t.Fatalf("expected ErrJobNotFound, got %v", err)
			}

			job := domain.Job{ID: "A1", CustomerName: "Jane", NotifiedContractors: []string{"X"}}
			if err := s.Put(ctx, job); err != nil {
				t.Fatalf("put: %v", err)
			}
			job.CustomerName = "Jane Doe"
			if err := s.Put(ctx, job); err != nil {
				t.Fatalf("replace: %v", err)
			}
			if err := s.Put(ctx, domain.Job{ID: "B2"}); err != nil {
				t.Fatalf("put second: %v", err)
			}

			got, err := s.Get(ctx, "A1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.CustomerName != "Jane Doe" || len(got.NotifiedContractors) != 1 {
				t.Fatalf("unexpected job %+v", got)
			}

			all, err := s.All(ctx)
			if err != nil {
				t.Fatalf("all: %v", err)
			}
			if len(all) != 2 {
				t.Fatalf("expected 2 jobs, got %d", len(all))
			}
		})
	}
}

func TestInsertRefusesExistingID(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Insert(ctx, domain.Job{ID: "A1", CustomerName: "Jane", NotifiedContractors: []string{"X"}}); err != nil {
				t.Fatalf("insert: %v", err)
			}
			if err := s.Insert(ctx, domain.Job{ID: "A1", CustomerName: "Other"}); !errors.Is(err, domain.ErrJobExists) {
				t.Fatalf("expected ErrJobExists, got %v", err)
			}

			got, err := s.Get(ctx, "A1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.CustomerName != "Jane" || len(got.NotifiedContractors) != 1 {
				t.Fatalf("expected the first insert to survive, got %+v", got)
			}
			all, _ := s.All(ctx)
			if len(all) != 1 {
				t.Fatalf("expected 1 job, got %d", len(all))
			}
		})
	}
}

func TestUpdateDiscardsMutationOnError(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Put(ctx, domain.Job{ID: "A1"}); err != nil {
				t.Fatalf("put: %v", err)
			}

			boom := errors.New("boom")
			_, err := s.Update(ctx, "A1", func(job *domain.Job) error {
				job.CustomerName = "changed"
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("expected fn error, got %v", err)
			}

			got, _ := s.Get(ctx, "A1")
			if got.CustomerName != "" {
				t.Fatalf("expected mutation to be discarded, got %q", got.CustomerName)
			}

			if _, err := s.Update(ctx, "nope", func(*domain.Job) error { return nil }); !errors.Is(err, domain.ErrJobNotFound) {
				t.Fatalf("expected ErrJobNotFound, got %v", err)
			}
		})
	}
}

func TestConcurrentAssignHasOneWinner(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Put(ctx, domain.Job{ID: "A1"}); err != nil {
				t.Fatalf("put: %v", err)
			}

			const contenders = 12
			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				winners []string
			)
			for i := 0; i < contenders; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					id := fmt.Sprintf("C%d", i)
					_, err := s.Update(ctx, "A1", func(job *domain.Job) error {
						return job.Assign(id, "Contractor "+id)
					})
					if err == nil {
						mu.Lock()
						winners = append(winners, id)
						mu.Unlock()
					} else if !errors.Is(err, domain.ErrAlreadyAssigned) {
						t.Errorf("unexpected error: %v", err)
					}
				}(i)
			}
			wg.Wait()

			if len(winners) != 1 {
				t.Fatalf("expected exactly one winner, got %v", winners)
			}
			got, err := s.Get(ctx, "A1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.AssignedContractorID != winners[0] {
				t.Fatalf("expected stored assignee %q, got %q", winners[0], got.AssignedContractorID)
			}
		})
	}
}

func TestMemoryUpdatesOnDifferentJobsDoNotBlock(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	_ = s.Put(ctx, domain.Job{ID: "A"})
	_ = s.Put(ctx, domain.Job{ID: "B"})

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_, _ = s.Update(ctx, "A", func(*domain.Job) error {
			close(entered)
			<-release
			return nil
		})
		close(done)
	}()
	<-entered

	if _, err := s.Update(ctx, "B", func(job *domain.Job) error { return job.Assign("X", "X") }); err != nil {
		t.Fatalf("expected update of B while A is locked, got %v", err)
	}
	if _, err := s.Get(ctx, "B"); err != nil {
		t.Fatalf("get B: %v", err)
	}

	close(release)
	<-done
}
