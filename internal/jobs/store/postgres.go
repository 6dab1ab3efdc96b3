package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ksquared-16/alloy/internal/jobs/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps jobs in the dispatch_jobs table. Update locks the row with
// SELECT ... FOR UPDATE for the duration of the mutation.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a store backed by the pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Insert(ctx context.Context, job domain.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	tag, err := p.pool.Exec(ctx, `
		INSERT INTO dispatch_jobs (id, payload, dispatched_at, assigned_contractor_id, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), now())
		ON CONFLICT (id) DO NOTHING`,
		job.ID, payload, job.DispatchedAt, job.AssignedContractorID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobExists
	}
	return nil
}

func (p *Postgres) Put(ctx context.Context, job domain.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO dispatch_jobs (id, payload, dispatched_at, assigned_contractor_id, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), now())
		ON CONFLICT (id) DO UPDATE SET
			payload = EXCLUDED.payload,
			dispatched_at = EXCLUDED.dispatched_at,
			assigned_contractor_id = EXCLUDED.assigned_contractor_id,
			updated_at = now()`,
		job.ID, payload, job.DispatchedAt, job.AssignedContractorID,
	)
	return err
}

func (p *Postgres) Get(ctx context.Context, id string) (domain.Job, error) {
	return scanJob(p.pool.QueryRow(ctx, `SELECT payload FROM dispatch_jobs WHERE id = $1`, id), id)
}

func (p *Postgres) All(ctx context.Context) ([]domain.Job, error) {
	rows, err := p.pool.Query(ctx, `SELECT payload FROM dispatch_jobs ORDER BY dispatched_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var job domain.Job
		if err := json.Unmarshal(payload, &job); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (p *Postgres) Update(ctx context.Context, id string, fn UpdateFunc) (domain.Job, error) {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Job{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := scanJob(tx.QueryRow(ctx, `SELECT payload FROM dispatch_jobs WHERE id = $1 FOR UPDATE`, id), id)
	if err != nil {
		return domain.Job{}, err
	}

	working := current.Clone()
	if err := fn(&working); err != nil {
		return current, err
	}

	payload, err := json.Marshal(working)
	if err != nil {
		return domain.Job{}, fmt.Errorf("encode job %s: %w", id, err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE dispatch_jobs
		SET payload = $2, dispatched_at = $3, assigned_contractor_id = NULLIF($4, ''), updated_at = now()
		WHERE id = $1`,
		id, payload, working.DispatchedAt, working.AssignedContractorID,
	); err != nil {
		return domain.Job{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Job{}, err
	}
	return working, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func scanJob(row pgx.Row, id string) (domain.Job, error) {
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, domain.ErrJobNotFound
		}
		return domain.Job{}, err
	}
	var job domain.Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return domain.Job{}, fmt.Errorf("decode job %s: %w", id, err)
	}
	return job, nil
}

var _ Store = (*Postgres)(nil)
