// internal/repository/memory_job_repository.go
package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"receipt-service/internal/model"
)

// memoryJobRepository keeps the most recent jobs in a bounded ring.
// Used when no database is configured.
type memoryJobRepository struct {
	mu    sync.RWMutex
	limit int
	jobs  []*model.PrintJob // oldest first
}

// NewMemoryJobRepository creates an in-memory job log holding at most limit jobs
func NewMemoryJobRepository(limit int) JobRepository {
	if limit <= 0 {
		limit = 500
	}
	return &memoryJobRepository{limit: limit}
}

func (r *memoryJobRepository) Create(ctx context.Context, job *model.PrintJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *job
	r.jobs = append(r.jobs, &stored)
	if len(r.jobs) > r.limit {
		r.jobs = r.jobs[len(r.jobs)-r.limit:]
	}
	return nil
}

func (r *memoryJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PrintJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, job := range r.jobs {
		if job.ID == id {
			found := *job
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
}

func (r *memoryJobRepository) List(ctx context.Context, filter *model.JobFilter) ([]*model.PrintJob, int, error) {
	filter.Normalize()

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []*model.PrintJob{}
	for i := len(r.jobs) - 1; i >= 0; i-- {
		job := r.jobs[i]
		if filter.Method != nil && job.Method != *filter.Method {
			continue
		}
		if filter.Status != nil && job.Status != *filter.Status {
			continue
		}
		if filter.SaleID != "" && job.SaleID != filter.SaleID {
			continue
		}
		found := *job
		matched = append(matched, &found)
	}

	total := len(matched)
	start := (filter.Page - 1) * filter.PerPage
	if start >= total {
		return []*model.PrintJob{}, total, nil
	}
	end := min(start+filter.PerPage, total)

	return matched[start:end], total, nil
}

func (r *memoryJobRepository) GetStats(ctx context.Context) (*JobStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &JobStats{ByMethod: make(map[model.PrintMethod]int)}
	var totalDuration int
	for _, job := range r.jobs {
		stats.TotalJobs++
		if job.Succeeded() {
			stats.SuccessfulJobs++
		} else {
			stats.FailedJobs++
		}
		stats.ByMethod[job.Method]++
		totalDuration += job.DurationMs
	}
	if stats.TotalJobs > 0 {
		stats.AvgDurationMs = float64(totalDuration) / float64(stats.TotalJobs)
	}
	return stats, nil
}

func (r *memoryJobRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.jobs[:0]
	var deleted int64
	for _, job := range r.jobs {
		if job.CreatedAt.Before(olderThan) {
			deleted++
			continue
		}
		kept = append(kept, job)
	}
	r.jobs = kept
	return deleted, nil
}
