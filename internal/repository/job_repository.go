package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/freelance-marketplace/internal/domain"
)

// JobRepository encapsulates job persistence.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	ListOpen(ctx context.Context) ([]domain.JobListing, error)
	// Hire assigns the freelancer only while the job is open and records the
	// transition. It returns pgx.ErrNoRows when no open job matches.
	Hire(ctx context.Context, jobID, freelancerID string) (*domain.Job, error)
	ListHistory(ctx context.Context, jobID string) ([]domain.JobHistory, error)
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository instantiates repository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

const jobColumns = `id, client_id, freelancer_id, title, description, budget, status, created_at, updated_at`

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	const query = `
        INSERT INTO jobs (client_id, title, description, budget, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		job.ClientID,
		job.Title,
		job.Description,
		job.Budget,
		job.Status,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id=$1`
	return scanJob(r.pool.QueryRow(ctx, query, id))
}

func (r *jobRepository) ListOpen(ctx context.Context) ([]domain.JobListing, error) {
	const query = `
        SELECT j.id, j.client_id, j.freelancer_id, j.title, j.description, j.budget, j.status,
            j.created_at, j.updated_at, u.name
        FROM jobs j
        JOIN users u ON u.id = j.client_id
        WHERE j.status = $1
        ORDER BY j.created_at DESC`
	rows, err := r.pool.Query(ctx, query, domain.JobStatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.JobListing, 0)
	for rows.Next() {
		var listing domain.JobListing
		if err := rows.Scan(
			&listing.ID,
			&listing.ClientID,
			&listing.FreelancerID,
			&listing.Title,
			&listing.Description,
			&listing.Budget,
			&listing.Status,
			&listing.CreatedAt,
			&listing.UpdatedAt,
			&listing.ClientName,
		); err != nil {
			return nil, err
		}
		result = append(result, listing)
	}
	return result, rows.Err()
}

func (r *jobRepository) Hire(ctx context.Context, jobID, freelancerID string) (*domain.Job, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin hire tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	updateQuery := `
        UPDATE jobs SET freelancer_id=$1, status=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4 AND freelancer_id IS NULL
        RETURNING ` + jobColumns
	job, err := scanJob(tx.QueryRow(ctx, updateQuery,
		freelancerID,
		domain.JobStatusInProgress,
		jobID,
		domain.JobStatusOpen,
	))
	if err != nil {
		return nil, err
	}

	const historyQuery = `
        INSERT INTO job_history (job_id, changed_by, old_status, new_status)
        VALUES ($1,$2,$3,$4)`
	if _, err := tx.Exec(ctx, historyQuery, job.ID, freelancerID, domain.JobStatusOpen, job.Status); err != nil {
		return nil, fmt.Errorf("record job history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit hire tx: %w", err)
	}
	return job, nil
}

func (r *jobRepository) ListHistory(ctx context.Context, jobID string) ([]domain.JobHistory, error) {
	const query = `
        SELECT id, job_id, changed_by, old_status, new_status, created_at
        FROM job_history WHERE job_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.JobHistory, 0)
	for rows.Next() {
		var entry domain.JobHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.JobID,
			&entry.ChangedBy,
			&entry.OldStatus,
			&entry.NewStatus,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	if err := row.Scan(
		&job.ID,
		&job.ClientID,
		&job.FreelancerID,
		&job.Title,
		&job.Description,
		&job.Budget,
		&job.Status,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}
