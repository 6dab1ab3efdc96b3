package store

import (
	"context"
	"sync"

	"github.com/ksquared-16/alloy/internal/jobs/domain"
)

type memoryEntry struct {
	mu  sync.Mutex
	job domain.Job
}

// Memory keeps jobs in process memory. Each job has its own mutex; the map
// lock is only held for lookups and inserts.
type Memory struct {
	mu   sync.RWMutex
	jobs map[string]*memoryEntry
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]*memoryEntry)}
}

func (m *Memory) entry(id string) (*memoryEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.jobs[id]
	return e, ok
}

func (m *Memory) Insert(_ context.Context, job domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; ok {
		return domain.ErrJobExists
	}
	m.jobs[job.ID] = &memoryEntry{job: job.Clone()}
	return nil
}

func (m *Memory) Put(_ context.Context, job domain.Job) error {
	m.mu.Lock()
	e, ok := m.jobs[job.ID]
	if !ok {
		m.jobs[job.ID] = &memoryEntry{job: job.Clone()}
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	e.mu.Lock()
	e.job = job.Clone()
	e.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (domain.Job, error) {
	e, ok := m.entry(id)
	if !ok {
		return domain.Job{}, domain.ErrJobNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.job.Clone(), nil
}

func (m *Memory) All(_ context.Context) ([]domain.Job, error) {
	m.mu.RLock()
	entries := make([]*memoryEntry, 0, len(m.jobs))
	for _, e := range m.jobs {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	jobs := make([]domain.Job, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		jobs = append(jobs, e.job.Clone())
		e.mu.Unlock()
	}
	return jobs, nil
}

func (m *Memory) Update(_ context.Context, id string, fn UpdateFunc) (domain.Job, error) {
	e, ok := m.entry(id)
	if !ok {
		return domain.Job{}, domain.ErrJobNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	working := e.job.Clone()
	if err := fn(&working); err != nil {
		return e.job.Clone(), err
	}
	e.job = working
	return working.Clone(), nil
}

func (m *Memory) Ping(context.Context) error { return nil }

var _ Store = (*Memory)(nil)
