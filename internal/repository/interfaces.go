// internal/repository/interfaces.go
package repository

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"receipt-service/internal/model"
)

// ErrJobNotFound is returned when no job carries the requested id
var ErrJobNotFound = errors.New("print job not found")

// JobRepository defines print job data access operations
type JobRepository interface {
	Create(ctx context.Context, job *model.PrintJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.PrintJob, error)
	List(ctx context.Context, filter *model.JobFilter) ([]*model.PrintJob, int, error)
	GetStats(ctx context.Context) (*JobStats, error)
	DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error)
}

// JobStats summarizes the job log
type JobStats struct {
	TotalJobs      int                       `json:"total_jobs"`
	SuccessfulJobs int                       `json:"successful_jobs"`
	FailedJobs     int                       `json:"failed_jobs"`
	AvgDurationMs  float64                   `json:"average_duration_ms"`
	ByMethod       map[model.PrintMethod]int `json:"by_method"`
}
