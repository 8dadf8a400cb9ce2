// internal/repository/job_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"receipt-service/internal/database"
	"receipt-service/internal/model"
)

const jobColumns = `id, sale_id, method, paper, transport, bytes, status,
		error_message, location, options, duration_ms, created_at`

// jobRepository implements JobRepository on postgres
type jobRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewJobRepository creates a postgres backed job repository
func NewJobRepository(db *database.DB, logger *zap.Logger) JobRepository {
	return &jobRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a finished job
func (r *jobRepository) Create(ctx context.Context, job *model.PrintJob) error {
	query := `
		INSERT INTO print_jobs (
			id, sale_id, method, paper, transport, bytes, status,
			error_message, location, options, duration_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	options := job.Options
	if options == nil {
		options = model.JSONObject{}
	}

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.SaleID, job.Method, job.Paper, job.Transport, job.Bytes,
		job.Status, job.ErrorMessage, job.Location, options, job.DurationMs,
		job.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create print job", zap.Error(err))
		return fmt.Errorf("failed to create print job: %w", err)
	}

	return nil
}

// GetByID retrieves a job by ID
func (r *jobRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PrintJob, error) {
	query := `SELECT ` + jobColumns + ` FROM print_jobs WHERE id = $1`

	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return nil, fmt.Errorf("failed to get print job: %w", err)
	}

	return job, nil
}

// List retrieves jobs newest first with the total matching count
func (r *jobRepository) List(ctx context.Context, filter *model.JobFilter) ([]*model.PrintJob, int, error) {
	filter.Normalize()

	whereConditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Method != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("method = $%d", argIndex))
		args = append(args, *filter.Method)
		argIndex++
	}

	if filter.Status != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.SaleID != "" {
		whereConditions = append(whereConditions, fmt.Sprintf("sale_id = $%d", argIndex))
		args = append(args, filter.SaleID)
		argIndex++
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM print_jobs %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count print jobs: %w", err)
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf(`
		SELECT %s
		FROM print_jobs %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, jobColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.PerPage, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list print jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*model.PrintJob{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan print job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate print jobs: %w", err)
	}

	return jobs, total, nil
}

// GetStats aggregates the job log
func (r *jobRepository) GetStats(ctx context.Context) (*JobStats, error) {
	stats := &JobStats{ByMethod: make(map[model.PrintMethod]int)}

	query := `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE status = 'SUCCESS'),
			   COUNT(*) FILTER (WHERE status = 'FAILED'),
			   COALESCE(AVG(duration_ms), 0)
		FROM print_jobs
	`
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalJobs, &stats.SuccessfulJobs, &stats.FailedJobs, &stats.AvgDurationMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get print job stats: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT method, COUNT(*) FROM print_jobs GROUP BY method`)
	if err != nil {
		return nil, fmt.Errorf("failed to get print job stats by method: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var method model.PrintMethod
		var count int
		if err := rows.Scan(&method, &count); err != nil {
			return nil, fmt.Errorf("failed to scan method stats: %w", err)
		}
		stats.ByMethod[method] = count
	}

	return stats, rows.Err()
}

// DeleteOlderThan removes jobs created before the cutoff
func (r *jobRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM print_jobs WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old print jobs: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	r.logger.Info("Old print jobs deleted", zap.Int64("count", deleted))
	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*model.PrintJob, error) {
	job := &model.PrintJob{}
	err := row.Scan(
		&job.ID, &job.SaleID, &job.Method, &job.Paper, &job.Transport, &job.Bytes,
		&job.Status, &job.ErrorMessage, &job.Location, &job.Options, &job.DurationMs,
		&job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return job, nil
}
